package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/labstack/gommon/bytes"
	"github.com/opst/writerid/pkg/api/types/status"
)

var statusColors = map[status.Status]*color.Color{
	status.Created:    color.New(color.FgCyan),
	status.Processing: color.New(color.FgYellow),
	status.Completed:  color.New(color.FgGreen),
	status.Failed:     color.New(color.FgRed),
}

// Status returns the colored label of s.
func Status(s status.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s.String())
	}
	return s.String()
}

// FileSize formats n bytes, like "1.50KB". Zero is shown as "-".
func FileSize(n int64) string {
	if n <= 0 {
		return "-"
	}
	return bytes.Format(n)
}

// Ratio formats a ratio in [0, 1] as percent. Values over 1 are taken as percent already.
func Ratio(v *float64) string {
	if v == nil {
		return "-"
	}
	p := *v
	if p <= 1 {
		p *= 100
	}
	return fmt.Sprintf("%.1f%%", p)
}

// OrDash returns s, or "-" if s is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

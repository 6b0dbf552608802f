package rfctime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Format string used when a timestamp is written.
const RFC3339DateTimeFormat string = "2006-01-02T15:04:05.999-07:00"

// Formats accepted when a timestamp is read.
//
// The API emits RFC3339 with or without offset, and sometimes without a
// zone at all. A zone-less timestamp is taken as UTC.
var acceptedFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// RFC3339 is a date-time exchanged with the API.
//
// The zero value means "not set"; it is written as null.
type RFC3339 time.Time

func (t RFC3339) Time() time.Time {
	return time.Time(t)
}

func (t RFC3339) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t *RFC3339) Equal(other *RFC3339) bool {
	if (t == nil) != (other == nil) {
		return false
	}
	return t == nil || t.Time().Equal(other.Time())
}

func (t RFC3339) String() string {
	if t.IsZero() {
		return ""
	}
	return time.Time(t).Format(RFC3339DateTimeFormat)
}

// Local returns the timestamp in the local timezone, formatted for humans.
func (t RFC3339) Local() string {
	if t.IsZero() {
		return "-"
	}
	return time.Time(t).Local().Format(time.DateTime)
}

// Parse a timestamp in any of the accepted formats.
func Parse(s string) (RFC3339, error) {
	for _, format := range acceptedFormats {
		if v, err := time.Parse(format, s); err == nil {
			return RFC3339(v), nil
		}
	}
	return RFC3339{}, fmt.Errorf("failed to parse timestamp: %q", s)
}

func (t RFC3339) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, t)), nil
}

func (t *RFC3339) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = RFC3339{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = RFC3339{}
		return nil
	}
	ret, err := Parse(s)
	if err != nil {
		return err
	}
	*t = ret
	return nil
}

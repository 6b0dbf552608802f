package status

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the processing state shared by datasets, models and tasks.
//
// Transitions are Created -> Processing -> Completed or Failed.
type Status int

const (
	Created Status = iota
	Processing
	Completed
	Failed
)

// Unknown is not sent by the server. It marks a status which could not be read.
const Unknown Status = -1

func (s Status) String() string {
	switch s {
	case Created:
		return "Created"
	case Processing:
		return "Processing"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s Status) Valid() bool {
	return Created <= s && s <= Failed
}

// Terminal reports whether no further transition is expected.
func (s Status) Terminal() bool {
	return s == Completed || s == Failed
}

// Synonyms used by the API for each status.
var names = map[string]Status{
	"created":    Created,
	"pending":    Created,
	"processing": Processing,
	"training":   Processing,
	"running":    Processing,
	"uploading":  Processing,
	"completed":  Completed,
	"processed":  Completed,
	"trained":    Completed,
	"executed":   Completed,
	"done":       Completed,
	"succeeded":  Completed,
	"failed":     Failed,
	"error":      Failed,
}

// Parse a status from its textual or numeric form, case-insensitively.
func Parse(s string) (Status, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if st, ok := names[t]; ok {
		return st, nil
	}
	switch t {
	case "0", "1", "2", "3":
		return Status(t[0] - '0'), nil
	}
	return Unknown, fmt.Errorf("unknown status: %q", s)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// UnmarshalJSON reads a number or a name of status.
//
// Values which can not be read become Unknown instead of an error, so that one
// entity does not spoil the list it belongs to.
func (s *Status) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = Created
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if st := Status(n); st.Valid() {
			*s = st
		} else {
			*s = Unknown
		}
		return nil
	}

	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		*s = Unknown
		return nil
	}
	st, err := Parse(text)
	if err != nil {
		*s = Unknown
		return nil
	}
	*s = st
	return nil
}

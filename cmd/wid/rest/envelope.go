package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/rs/zerolog"
)

// decodeList reads a list payload.
//
// Accepted shapes are
//
//	[ ... ]
//	{ "data": [ ... ], "total": n }
//	{ "<field>": [ ... ], "total": n }
//
// "total" is optional. When it is absent or zero, the number of items is used.
// A payload in any other shape is read as an empty page with a warning.
func decodeList[T any](body []byte, field string, logger zerolog.Logger) (Page[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page[T]{Items: []T{}}, nil
	}

	switch trimmed[0] {
	case '[':
		items := []T{}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("unexpected list item: %w", err)
		}
		warnUnknownStatus(items, logger)
		return Page[T]{Items: items, Total: len(items)}, nil

	case '{':
		envelope := map[string]json.RawMessage{}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return Page[T]{}, fmt.Errorf("unexpected list payload: %w", err)
		}

		for _, key := range []string{"data", field} {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			items := []T{}
			if err := json.Unmarshal(raw, &items); err != nil {
				return Page[T]{}, fmt.Errorf("unexpected list item in %q: %w", key, err)
			}

			warnUnknownStatus(items, logger)

			total := len(items)
			if rawTotal, ok := envelope["total"]; ok {
				var t int
				if err := json.Unmarshal(rawTotal, &t); err == nil && 0 < t {
					total = t
				}
			}
			return Page[T]{Items: items, Total: total}, nil
		}
	}

	logger.Warn().Str("expected", field).Msg("unknown shape of list. treat it as empty")
	return Page[T]{Items: []T{}}, nil
}

type withStatus interface {
	Key() string
	StatusOf() status.Status
}

// warnUnknownStatus logs items whose status could not be read. They are kept.
func warnUnknownStatus[T any](items []T, logger zerolog.Logger) {
	for _, item := range items {
		e, ok := any(item).(withStatus)
		if !ok || e.StatusOf() != status.Unknown {
			continue
		}
		logger.Warn().Str("id", e.Key()).Msg("unknown status. it is shown as Unknown")
	}
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalLayout is how the backend sends event times: ISO-8601 without a zone.
const LocalLayout = "2006-01-02T15:04:05"

// localLayoutNano writes fractional seconds only when there are any.
const localLayoutNano = "2006-01-02T15:04:05.999999999"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	LocalLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateTime accepts the handful of ISO-8601 shapes the backend and the HTML
// datetime-local input produce.
type DateTime struct {
	time.Time
}

// ParseDateTime parses s with the first layout that fits.
func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{t}, nil
		}
	}
	return DateTime{}, fmt.Errorf("%w: date %q", ErrInvalidInput, s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	if d.Location() == time.UTC {
		return json.Marshal(d.Format(localLayoutNano))
	}
	return json.Marshal(d.Format(time.RFC3339Nano))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = DateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

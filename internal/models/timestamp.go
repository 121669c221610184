// Package models defines data structures and domain types.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Timestamp is a backend time value. The admin API serializes zone-less local
// date-times ("2024-01-15T10:30:00.123456"), but RFC 3339 strings and Unix
// timestamps are accepted as well.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable values leave the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = parseTimeField(data)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// parseTimeField attempts to parse a JSON time value as either a string or a Unix timestamp.
func parseTimeField(data json.RawMessage) time.Time {
	var strVal string
	if err := json.Unmarshal(data, &strVal); err == nil {
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, strVal, time.Local); err == nil {
				return t
			}
		}
		return time.Time{}
	}

	// Try as number (Unix timestamp in milliseconds or seconds)
	var numVal float64
	if err := json.Unmarshal(data, &numVal); err == nil {
		if numVal > 1e12 {
			return time.UnixMilli(int64(numVal))
		}
		return time.Unix(int64(numVal), 0)
	}

	return time.Time{}
}

// FlexFloat decodes from a JSON number or a numeric string. The backend sends
// BigDecimal billing values either way depending on the serializer settings.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

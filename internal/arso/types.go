package arso

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ARSO feeds report most numeric values as strings and use the empty string
// for "not measured". The nullable scalar types below decode either form and
// keep "absent" distinct from zero, so downstream consumers can tell a calm
// wind from a missing anemometer.

// Float is a nullable float64.
type Float struct {
	Value float64
	Valid bool
}

// FloatOf returns a valid Float holding v.
func FloatOf(v float64) Float {
	return Float{Value: v, Valid: true}
}

func (f *Float) UnmarshalJSON(b []byte) error {
	s, ok := unquote(b)
	if !ok {
		f.Value, f.Valid = 0, false
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing %q as float: %w", s, err)
	}
	f.Value, f.Valid = v, true
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Int is a nullable int.
type Int struct {
	Value int
	Valid bool
}

// IntOf returns a valid Int holding v.
func IntOf(v int) Int {
	return Int{Value: v, Valid: true}
}

func (i *Int) UnmarshalJSON(b []byte) error {
	s, ok := unquote(b)
	if !ok {
		i.Value, i.Valid = 0, false
		return nil
	}
	// Some integer fields arrive as "14.0".
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing %q as int: %w", s, err)
	}
	i.Value, i.Valid = int(v), true
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

// String is a nullable string; the empty string decodes as absent.
type String struct {
	Value string
	Valid bool
}

// StringOf returns a valid String holding v.
func StringOf(v string) String {
	return String{Value: v, Valid: true}
}

func (s *String) UnmarshalJSON(b []byte) error {
	v, ok := unquote(b)
	if !ok {
		s.Value, s.Valid = "", false
		return nil
	}
	s.Value, s.Valid = v, true
	return nil
}

func (s String) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// timestampLayouts are tried in order. Layouts without a zone are interpreted
// as UTC, matching the upstream convention.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a UTC instant decoded from the timestamp formats ARSO uses.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s with the known layouts and normalizes to UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s, ok := unquote(b)
	if !ok {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed.Time
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// unquote strips surrounding quotes from a JSON scalar and reports whether a
// usable value remains. null and "" both report false.
func unquote(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		if s == "" {
			return "", false
		}
		return s, true
	}
	return string(b), true
}

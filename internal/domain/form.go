package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Changes maps column names to new values for a single-row update.
type Changes map[string]any

// Numeric is a form field that accepts a JSON number, a JSON string or null.
// Browsers submit number inputs as strings, and an empty input as "".
type Numeric string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
	default:
		*n = Numeric(b)
	}
	return nil
}

// Float parses n, returning def when it is empty, malformed or not finite.
func (n Numeric) Float(def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Int parses n, truncating any fraction, returning def when it is empty or malformed.
func (n Numeric) Int(def int) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

// RequireText checks a required free-text field after trimming.
func RequireText(field, value string, maxLen int) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return fmt.Errorf("%s is required: %w", field, ErrValidation)
	}
	return LimitText(field, v, maxLen)
}

// LimitText checks an optional free-text field's length and rejects control
// characters other than newlines and tabs.
func LimitText(field, value string, maxLen int) error {
	if maxLen > 0 && len(value) > maxLen {
		return fmt.Errorf("%s exceeds %d characters: %w", field, maxLen, ErrValidation)
	}
	for _, r := range value {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return fmt.Errorf("%s contains control characters: %w", field, ErrValidation)
		}
	}
	return nil
}

// OptionalID converts an empty reference to nil.
func OptionalID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

// timeLayouts are the layouts accepted from date and datetime form inputs.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an optional date/time form value. Empty input yields nil.
func ParseTime(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: invalid date %q: %w", field, value, ErrValidation)
}

// ContainsFold reports whether any field contains term, ignoring case.
// An empty term matches everything.
func ContainsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

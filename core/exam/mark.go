package exam

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mark is a score as received from a data source.
// It is either null, a valid number or malformed (Raw keeps the offending input).
type Mark struct {
	Value float64
	Valid bool
	Raw   string
}

func NewMark(v float64) Mark {
	return Mark{Value: v, Valid: true}
}

// ParseMark parses s, an empty s being null.
func ParseMark(s string) Mark {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Mark{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Mark{Raw: s}
	}
	return NewMark(v)
}

func (m Mark) IsNull() bool    { return !m.Valid && m.Raw == "" }
func (m Mark) Malformed() bool { return !m.Valid && m.Raw != "" }

func (m Mark) String() string {
	switch {
	case m.Valid:
		return strconv.FormatFloat(m.Value, 'f', -1, 64)
	case m.Malformed():
		return m.Raw
	default:
		return ""
	}
}

func (m Mark) MarshalJSON() ([]byte, error) {
	switch {
	case m.Valid:
		return json.Marshal(m.Value)
	case m.Malformed():
		return json.Marshal(m.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts numbers, numeric strings and null.
// Anything else is kept as a malformed Mark instead of failing the whole payload.
func (m *Mark) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding mark")
		}
		*m = ParseMark(s)
		return nil
	}
	*m = ParseMark(string(data))
	return nil
}

// Number is a strict numeric value that may be encoded as a JSON number or a numeric string.
type Number float64

func (n Number) Float64() float64 { return float64(n) }

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding number")
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Errorf("invalid number %q", string(data))
	}
	*n = Number(v)
	return nil
}

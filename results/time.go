package results

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Time is an optional duration in seconds. The zero value is absent.
type Time struct {
	Seconds float64
	Valid   bool
}

// Seconds returns a present Time.
func Seconds(s float64) Time {
	return Time{Seconds: s, Valid: true}
}

// FromAttempt converts a stored attempt. Missing, non-finite and non-positive
// values are absent: a stored 0 means the attempt was not recorded.
func FromAttempt(v *float64) Time {
	if v == nil {
		return Time{}
	}
	s := *v
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return Time{}
	}
	return Seconds(s)
}

// Compare orders present times ascending and puts absent times after every
// present one. Two absent times are equal.
func (t Time) Compare(o Time) int {
	switch {
	case !t.Valid && !o.Valid:
		return 0
	case !t.Valid:
		return 1
	case !o.Valid:
		return -1
	case t.Seconds < o.Seconds:
		return -1
	case t.Seconds > o.Seconds:
		return 1
	}
	return 0
}

// Add sums two times rounded to the millisecond. The sum is absent if either
// operand is.
func (t Time) Add(o Time) Time {
	if !t.Valid || !o.Valid {
		return Time{}
	}
	return Seconds(roundMillis(t.Seconds + o.Seconds))
}

func (t Time) String() string {
	if !t.Valid {
		return "-"
	}
	return strconv.FormatFloat(t.Seconds, 'f', 3, 64)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(t.Seconds, 'f', -1, 64)), nil
}

// UnmarshalJSON applies the FromAttempt rules, so 0 and negatives decode as absent.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Time{}
		return nil
	}
	var s float64
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = FromAttempt(&s)
	return nil
}

func roundMillis(s float64) float64 {
	return math.Round(s*1000) / 1000
}

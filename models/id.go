package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is the canonical identifier type. Remote stores hand out identifiers as
// strings or numbers; ParseID folds both into one comparable form.
type ID string

// IsZero reports whether the identifier is null.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// Int returns the numeric form of the identifier, if it has one.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseID converts a raw identifier value into its canonical form.
// Unsupported values yield the null ID.
func ParseID(v any) ID {
	switch x := v.(type) {
	case nil:
		return ""
	case ID:
		return normalize(string(x))
	case string:
		return normalize(x)
	case int:
		return ID(strconv.FormatInt(int64(x), 10))
	case int32:
		return ID(strconv.FormatInt(int64(x), 10))
	case int64:
		return ID(strconv.FormatInt(x, 10))
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return ID(strconv.FormatInt(int64(x), 10))
		}
		return ID(strconv.FormatFloat(x, 'f', -1, 64))
	case fmt.Stringer:
		return normalize(x.String())
	default:
		return ""
	}
}

// normalize trims whitespace and strips leading zeros from purely numeric ids.
func normalize(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(strconv.FormatInt(n, 10))
	}
	return ID(s)
}

// Package bytesize describes body-size ceilings as a value in one of four
// units and converts them into byte counts and "1.5mb"-style strings.
package bytesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Unit selects the magnitude of a Limit.
type Unit uint8

const (
	Bytes Unit = iota
	Kilobytes
	Megabytes
	Gigabytes
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

var (
	suffixes    = [...]string{Bytes: "b", Kilobytes: "kb", Megabytes: "mb", Gigabytes: "gb"}
	multipliers = [...]int64{Bytes: 1, Kilobytes: KB, Megabytes: MB, Gigabytes: GB}
)

// ErrInvalidFormat is returned by Parse for strings that are not "<number><unit>".
var ErrInvalidFormat = errors.New("bytesize: invalid format")

// Limit is a size in one of the supported units. Byte limits keep an exact
// integer count. Values are not validated for positivity.
type Limit struct {
	unit  Unit
	value float64
	n     int64
}

// B returns a limit of n bytes.
func B(n int) Limit { return Limit{unit: Bytes, n: int64(n)} }

// Kb returns a limit in kilobytes.
func Kb(n float64) Limit { return Limit{unit: Kilobytes, value: n} }

// Mb returns a limit in megabytes.
func Mb(n float64) Limit { return Limit{unit: Megabytes, value: n} }

// Gb returns a limit in gigabytes.
func Gb(n float64) Limit { return Limit{unit: Gigabytes, value: n} }

// Unit returns the unit the limit was declared in.
func (l Limit) Unit() Unit { return l.unit }

// Value returns the magnitude in the declared unit.
func (l Limit) Value() float64 {
	if l.unit == Bytes {
		return float64(l.n)
	}
	return l.value
}

// IsZero reports whether the limit was never set.
func (l Limit) IsZero() bool {
	if l.unit == Bytes {
		return l.n == 0
	}
	return l.value == 0
}

// String formats the limit as a size specification, e.g. Mb(1.5) is "1.5mb".
func (l Limit) String() string {
	if l.unit == Bytes {
		return strconv.FormatInt(l.n, 10) + suffixes[Bytes]
	}
	return strconv.FormatFloat(l.value, 'f', -1, 64) + suffixes[l.unit]
}

// Bytes returns the ceiling in bytes using 1024 multiples. Fractions are
// rounded down; results outside the int64 range are clamped.
func (l Limit) Bytes() int64 {
	if l.unit == Bytes {
		return l.n
	}
	return clamp(math.Floor(l.value * float64(multipliers[l.unit])))
}

func clamp(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Human renders the byte count for log lines, e.g. "1.5 MiB".
func (l Limit) Human() string {
	n := l.Bytes()
	if n < 0 {
		return l.String()
	}
	return humanize.IBytes(uint64(n))
}

// MarshalText implements encoding.TextMarshaler.
func (l Limit) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so limits can be read
// from environment variables.
func (l *Limit) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Parse reads a size specification such as "100kb", "1.5mb" or "512".
// A bare number is a byte count.
func Parse(s string) (Limit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Limit{}, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}

	unit := Bytes
	number := s
	for u := Gigabytes; u > Bytes; u-- {
		if strings.HasSuffix(s, suffixes[u]) {
			unit = u
			number = strings.TrimSuffix(s, suffixes[u])
			break
		}
	}
	if unit == Bytes {
		number = strings.TrimSuffix(number, suffixes[Bytes])
	}
	number = strings.TrimSpace(number)

	if unit == Bytes {
		if n, err := strconv.ParseInt(number, 10, 64); err == nil {
			return Limit{unit: Bytes, n: n}, nil
		}
	}
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Limit{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	if unit == Bytes {
		return Limit{unit: Bytes, n: clamp(math.Floor(v))}, nil
	}
	return Limit{unit: unit, value: v}, nil
}

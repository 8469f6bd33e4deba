package station

import (
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude or longitude that may be absent.
type Coordinate struct {
	Value float64
	Valid bool
}

// NormalizeDecimal converts a comma-decimal string ("6,25") to dot notation.
// Applying it twice is the same as applying it once.
func NormalizeDecimal(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

// ParseCoordinate normalizes s and parses it. Anything that does not parse to
// a finite number yields an absent coordinate rather than an error.
func ParseCoordinate(s string) Coordinate {
	n := NormalizeDecimal(s)
	if n == "" {
		return Coordinate{}
	}
	v, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Coordinate{}
	}
	return Coordinate{Value: v, Valid: true}
}

// String renders the coordinate in dot notation; absent coordinates render
// as the empty string so ParseCoordinate(c.String()) == c.
func (c Coordinate) String() string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

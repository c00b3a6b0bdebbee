// Package score defines the quantization policy applied to every score
// before it enters the ranking tier.
//
// The system-of-record keeps scores as scaled integers while the ranking
// tier keeps float64. Quantizing to a fixed number of decimal digits at
// the write boundary makes the two representations agree exactly for
// every score whose scaled form fits in a float64's integer range.
package score

import "math"

// Decimal precision carried through both tiers.
const (
	// Digits is the number of decimal digits preserved by Quantize.
	Digits = 4

	// Scale converts between a quantized score and its scaled-integer form.
	Scale = 1e4

	// MaxExact is the largest score magnitude whose scaled form is still
	// an exactly representable float64 integer. Beyond this, Quantize
	// silently loses precision.
	MaxExact = (1 << 53) / Scale
)

// Quantize rounds s to Digits decimal digits, half away from zero.
func Quantize(s float64) float64 {
	return math.Round(s*Scale) / Scale
}

// ToScaled converts a score to its scaled-integer persistence form.
func ToScaled(s float64) int64 {
	return int64(math.Round(s * Scale))
}

// FromScaled converts a scaled-integer persistence value back to a score.
func FromScaled(v int64) float64 {
	return float64(v) / Scale
}

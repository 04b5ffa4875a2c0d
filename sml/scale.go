package sml

import "math"

// ScaleInt applies a base 10 exponent to raw. Negative exponents divide
// with truncation toward zero.
func ScaleInt(raw int64, scaler int) int64 {
	for ; scaler > 0; scaler-- {
		raw *= 10
	}
	for ; scaler < 0 && raw != 0; scaler++ {
		raw /= 10
	}
	return raw
}

// ScaleFloat applies a base 10 exponent to raw. The power of ten is exact
// for exponents up to 22, so the result is the correctly rounded quotient
// or product of the raw value and the power.
func ScaleFloat(raw int64, scaler int) float64 {
	if scaler < 0 {
		return float64(raw) / math.Pow10(-scaler)
	}
	return float64(raw) * math.Pow10(scaler)
}

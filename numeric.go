package simdfix

import (
	"errors"
	"math"
	"strconv"
	"unsafe"
)

// =============================================================================
// Numeric Conversion
// =============================================================================
//
// Both converters try strconv first over a zero-copy string and fall back to
// a manual digit loop when strconv rejects the text. Out-of-range values
// saturate instead of wrapping. Exponents, thousands separators and a leading
// '+' are not part of the grammar; such input degrades to its leading digits.
//
// =============================================================================

// bytesToString returns a string sharing b's memory. The string must not
// outlive b or observe later writes to it.
func bytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// ParseInt converts an optionally '-'-prefixed run of decimal digits to an
// int64. Parsing stops at the first non-digit; text with no leading digits
// yields 0. Values beyond the int64 range saturate at math.MaxInt64 or
// math.MinInt64.
func ParseInt(text []byte) int64 {
	if len(text) == 0 {
		return 0
	}
	if text[0] != '+' {
		v, err := strconv.ParseInt(bytesToString(text), 10, 64)
		if err == nil {
			return v
		}
		if errors.Is(err, strconv.ErrRange) {
			// strconv already clamps to the bound matching the sign.
			return v
		}
	}
	return parseIntManual(text)
}

// parseIntManual accumulates digits until the first non-digit, saturating on
// overflow.
func parseIntManual(text []byte) int64 {
	i := 0
	negative := false
	if i < len(text) && text[i] == '-' {
		negative = true
		i++
	}

	// Accumulate as a negative number so MinInt64 is representable.
	var acc int64
	for ; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if acc < (math.MinInt64+d)/10 {
			if negative {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		acc = acc*10 - d
	}

	if negative {
		return acc
	}
	if acc == math.MinInt64 {
		return math.MaxInt64
	}
	return -acc
}

// ParseFloat converts an optionally '-'-prefixed decimal number with an
// optional fractional part to a float64. Text outside that grammar is parsed
// up to the first character that does not fit it. Magnitudes beyond float64
// saturate at ±math.MaxFloat64.
func ParseFloat(text []byte) float64 {
	if len(text) == 0 {
		return 0
	}
	if isPlainDecimal(text) {
		v, err := strconv.ParseFloat(bytesToString(text), 64)
		if err == nil {
			return v
		}
		if errors.Is(err, strconv.ErrRange) {
			return saturateFloat(v)
		}
	}
	return parseFloatManual(text)
}

// isPlainDecimal reports whether text matches -?[0-9]+(\.[0-9]+)?, the only
// shape handed to strconv.ParseFloat. strconv would otherwise accept
// exponents, "inf", "nan", hex mantissas and underscores.
func isPlainDecimal(text []byte) bool {
	i := 0
	if text[0] == '-' {
		i++
	}
	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i == start {
		return false
	}
	if i == len(text) {
		return true
	}
	if text[i] != '.' {
		return false
	}
	i++
	fracStart := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	return i > fracStart && i == len(text)
}

// parseFloatManual accumulates the integer part, then the fractional part by
// dividing each digit by increasing powers of ten.
func parseFloatManual(text []byte) float64 {
	i := 0
	negative := false
	if text[0] == '-' {
		negative = true
		i++
	}

	var intPart float64
	for ; i < len(text) && isDigit(text[i]); i++ {
		intPart = intPart*10 + float64(text[i]-'0')
	}

	var fracPart float64
	if i < len(text) && text[i] == '.' {
		i++
		divisor := 10.0
		for ; i < len(text) && isDigit(text[i]); i++ {
			fracPart += float64(text[i]-'0') / divisor
			divisor *= 10
		}
	}

	result := saturateFloat(intPart + fracPart)
	if negative && result != 0 {
		return -result
	}
	return result
}

// saturateFloat clamps infinities to the largest finite float64.
func saturateFloat(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

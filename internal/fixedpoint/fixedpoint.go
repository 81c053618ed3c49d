// Package fixedpoint parses and formats signed decimals with exactly one
// fractional digit, stored as the value multiplied by 10.
package fixedpoint

import (
	"math"
	"strconv"
)

// Value is a decimal with one fractional digit, scaled by 10 (-3.2 is -32).
type Value int32

// maxIntPart bounds the accumulated digits so the final "*10 + d" cannot
// overflow int32.
const maxIntPart = (math.MaxInt32 - 9) / 10

// Parse converts b into a scaled Value. It accepts an optional leading '-',
// one or more digits, a single '.', and exactly one digit. Anything else,
// including trailing bytes, reports ok=false.
func Parse(b []byte) (v Value, ok bool) {
	if len(b) < 3 {
		return 0, false
	}

	i := 0
	neg := b[0] == '-'
	if neg {
		i++
	}

	start := i
	var n int32
	for i < len(b) && b[i] != '.' {
		c := b[i] - '0'
		if c > 9 {
			return 0, false
		}
		if n > maxIntPart {
			return 0, false
		}
		n = n*10 + int32(c)
		i++
	}
	if i == start || i == len(b) {
		// no integer digits, or no '.'
		return 0, false
	}

	// b[i] == '.'; exactly one digit must follow and end the slice.
	if len(b)-i != 2 {
		return 0, false
	}
	c := b[i+1] - '0'
	if c > 9 || n > maxIntPart {
		return 0, false
	}
	n = n*10 + int32(c)

	if neg {
		n = -n
	}
	return Value(n), true
}

// AppendValue appends v formatted with one decimal digit ("-3.2") to dst.
// No floating point is involved.
func AppendValue(dst []byte, v Value) []byte {
	n := int64(v)
	if n < 0 {
		dst = append(dst, '-')
		n = -n
	}
	dst = strconv.AppendInt(dst, n/10, 10)
	dst = append(dst, '.', byte('0'+n%10))
	return dst
}

// AppendFloat appends f rounded to one decimal digit. A result that would
// read "-0.0" is written as "0.0".
func AppendFloat(dst []byte, f float64) []byte {
	mark := len(dst)
	dst = strconv.AppendFloat(dst, f, 'f', 1, 64)
	if string(dst[mark:]) == "-0.0" {
		dst = append(dst[:mark], "0.0"...)
	}
	return dst
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return string(AppendValue(make([]byte, 0, 8), v))
}

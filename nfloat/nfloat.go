/*
 * universal - Native IEEE-754 f32/f64 decoder
 *
 * Copyright 2026
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package nfloat extracts (sign, biased exponent, fraction, class) from
// native IEEE-754 float32/float64 values. Every higher format
// that round-trips through a native float (cascade limbs, the blocktriple
// funnel when it is seeded from a float64) goes through here first.
package nfloat

import "math"

// Class names an IEEE-754 value category.
type Class int

const (
	Zero Class = iota
	Subnormal
	Normal
	Infinity
	NaN
)

func (c Class) String() string {
	switch c {
	case Zero:
		return "zero"
	case Subnormal:
		return "subnormal"
	case Normal:
		return "normal"
	case Infinity:
		return "infinity"
	case NaN:
		return "nan"
	default:
		return "unknown"
	}
}

// Decoded64 is the decomposition of an f64.
type Decoded64 struct {
	Sign     bool
	BiasedExp uint64 // 11 bits
	Fraction uint64  // 52 bits
	Class    Class
}

const (
	bias64     = 1023
	expBits64  = 11
	fracBits64 = 52
	expMask64  = uint64(1)<<expBits64 - 1
	fracMask64 = uint64(1)<<fracBits64 - 1
)

// Decode64 decomposes an f64 bit-for-bit.
func Decode64(x float64) Decoded64 {
	bits := math.Float64bits(x)
	sign := bits>>63 != 0
	exp := (bits >> fracBits64) & expMask64
	frac := bits & fracMask64

	var class Class
	switch {
	case exp == 0 && frac == 0:
		class = Zero
	case exp == 0:
		class = Subnormal
	case exp == expMask64 && frac == 0:
		class = Infinity
	case exp == expMask64:
		class = NaN
	default:
		class = Normal
	}
	return Decoded64{Sign: sign, BiasedExp: exp, Fraction: frac, Class: class}
}

// UnbiasedExponent returns the unbiased binary exponent for Normal and
// Subnormal classes (subnormals report the exponent of their implicit
// leading 1 once normalized, i.e. 1-bias).
func (d Decoded64) UnbiasedExponent() int {
	if d.Class == Subnormal {
		return 1 - bias64
	}
	return int(d.BiasedExp) - bias64
}

// Significand returns the fraction with the hidden bit made explicit for
// Normal values (1.frac, scaled by 2^fracBits64) or the bare fraction for
// Subnormal values (0.frac, also scaled by 2^fracBits64).
func (d Decoded64) Significand() uint64 {
	if d.Class == Normal {
		return d.Fraction | (uint64(1) << fracBits64)
	}
	return d.Fraction
}

// Decoded32 is the decomposition of an f32.
type Decoded32 struct {
	Sign      bool
	BiasedExp uint32
	Fraction  uint32
	Class     Class
}

const (
	bias32     = 127
	expBits32  = 8
	fracBits32 = 23
	expMask32  = uint32(1)<<expBits32 - 1
	fracMask32 = uint32(1)<<fracBits32 - 1
)

// Decode32 decomposes an f32 bit-for-bit.
func Decode32(x float32) Decoded32 {
	bits := math.Float32bits(x)
	sign := bits>>31 != 0
	exp := (bits >> fracBits32) & expMask32
	frac := bits & fracMask32

	var class Class
	switch {
	case exp == 0 && frac == 0:
		class = Zero
	case exp == 0:
		class = Subnormal
	case exp == expMask32 && frac == 0:
		class = Infinity
	case exp == expMask32:
		class = NaN
	default:
		class = Normal
	}
	return Decoded32{Sign: sign, BiasedExp: exp, Fraction: frac, Class: class}
}

func (d Decoded32) UnbiasedExponent() int {
	if d.Class == Subnormal {
		return 1 - bias32
	}
	return int(d.BiasedExp) - bias32
}

func (d Decoded32) Significand() uint32 {
	if d.Class == Normal {
		return d.Fraction | (uint32(1) << fracBits32)
	}
	return d.Fraction
}

// IsNormal reports whether x is a normal (non-zero, non-subnormal,
// finite) f64 — the EFT precondition every cascade limb requires
// limb and error term.
func IsNormal(x float64) bool {
	return Decode64(x).Class == Normal
}

/*
 * universal - lns<N,R>: logarithmic number system
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

// Package lns implements lns<N,R>: a sign bit plus an (N-1)-bit signed
// fixed-point log field L with R fractional bits, representing
// (-1)^sign * 2^(L/2^R). mul/div are exact log-add/log-sub on L; add/sub
// have no closed form in the log domain and instead widen through the
// same decode/blocktriple/round funnel cfloat and posit use.
package lns

import (
	"math"

	"github.com/rcornwell/universal/blocktriple"
	"github.com/rcornwell/universal/config"
	"github.com/rcornwell/universal/internal/errs"
	"github.com/rcornwell/universal/nfloat"
)

// Lns is a log-domain value for a given Descriptor.
type Lns struct {
	Cfg  config.Descriptor
	Bits uint64
}

func allOnes(n int) uint64 { return uint64(1)<<uint(n) - 1 }

// New wraps a raw bit pattern against cfg.
func New(cfg config.Descriptor, bits uint64) Lns {
	return Lns{Cfg: cfg, Bits: bits & allOnes(cfg.N)}
}

// minL and maxL are the bounds of the (n-1)-bit two's-complement L field.
func minL(n int) int { return -(1 << uint(n-2)) }
func maxL(n int) int  { return (1 << uint(n-2)) - 1 }

// split unpacks bits into (sign, L), treating the low n-1 bits as a
// two's-complement signed integer.
func split(n int, bits uint64) (sign bool, l int) {
	field := bits & allOnes(n - 1)
	sign = bits&(uint64(1)<<uint(n-1)) != 0
	half := uint64(1) << uint(n-2)
	if field&half != 0 {
		l = int(field) - (1 << uint(n-1))
	} else {
		l = int(field)
	}
	return sign, l
}

// combine packs (sign, L) into an n-bit pattern.
func combine(n int, sign bool, l int) uint64 {
	field := uint64(l) & allOnes(n - 1)
	bits := field
	if sign {
		bits |= uint64(1) << uint(n-1)
	}
	return bits
}

func clampL(n int, l int) int {
	if l < minL(n) {
		return minL(n)
	}
	if l > maxL(n) {
		return maxL(n)
	}
	return l
}

// IsZero reports whether x is the reserved all-zero-bits zero encoding.
func IsZero(x Lns) bool { return x.Bits&allOnes(x.Cfg.N) == 0 }

// IsNaN reports whether x is the reserved {sign=1, L=minint} encoding.
func IsNaN(x Lns) bool {
	sign, l := split(x.Cfg.N, x.Bits)
	return sign && l == minL(x.Cfg.N)
}

func zeroPattern(cfg config.Descriptor) Lns { return New(cfg, 0) }

func nanPattern(cfg config.Descriptor) Lns {
	return New(cfg, combine(cfg.N, true, minL(cfg.N)))
}

// value returns the real number x encodes; callers must check
// IsZero/IsNaN first.
func value(x Lns) float64 {
	radix := float64(int(1) << uint(x.Cfg.ES))
	sign, l := split(x.Cfg.N, x.Bits)
	v := math.Exp2(float64(l) / radix)
	if sign {
		v = -v
	}
	return v
}

// FromFloat64 converts a native float64 to cfg's format: L = round(2^R *
// log2|v|), clamped to the field's range. +-Inf and NaN both collapse to
// the reserved NaN encoding, matching how posit collapses both to NaR.
func FromFloat64(cfg config.Descriptor, v float64) Lns {
	if v == 0 {
		return zeroPattern(cfg)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nanPattern(cfg)
	}
	radix := float64(int(1) << uint(cfg.ES))
	sign := math.Signbit(v)
	l := int(math.Round(radix * math.Log2(math.Abs(v))))
	l = clampL(cfg.N, l)
	if sign && l == minL(cfg.N) {
		l++ // minint-with-sign stays reserved for NaN.
	}
	return New(cfg, combine(cfg.N, sign, l))
}

// ToFloat64 widens x back to a native float64.
func ToFloat64(x Lns) float64 {
	if IsZero(x) {
		return 0
	}
	if IsNaN(x) {
		return math.NaN()
	}
	return value(x)
}

// Decode widens x into a blocktriple ADD-layout triple by evaluating its
// real value and decoding that through nfloat, the same way cfloat and
// posit seed a triple from a float64 intermediate. add/sub have no exact
// log-domain form, so this approximation (rather than an exact rational
// log-field result) is what they run on.
func Decode(x Lns) blocktriple.Triple {
	if IsZero(x) {
		return blocktriple.NewZero(false)
	}
	if IsNaN(x) {
		return blocktriple.NewNaN()
	}
	sign, l := split(x.Cfg.N, x.Bits)
	radix := float64(int(1) << uint(x.Cfg.ES))
	mag := math.Exp2(float64(l) / radix)
	d := nfloat.Decode64(mag)
	const fb = 52
	scale := d.UnbiasedExponent()
	frac := d.Fraction
	if d.Class == nfloat.Subnormal {
		for frac != 0 && frac&(uint64(1)<<uint(fb)) == 0 {
			frac <<= 1
			scale--
		}
	}
	return blocktriple.NewAdd(sign, scale, fb, frac&((uint64(1)<<fb)-1), true)
}

// Round implements lns encode from a blocktriple result: recover the real
// value the triple carries and re-derive L from its log2, the inverse of
// Decode's exp2.
func Round(cfg config.Descriptor, t blocktriple.Triple) Lns {
	switch t.Special {
	case blocktriple.NaN, blocktriple.Inf:
		return nanPattern(cfg)
	case blocktriple.ZeroVal:
		return zeroPattern(cfg)
	}
	mantissa := float64(t.Sig.Uint64())
	v := math.Ldexp(mantissa, t.Scale-t.FracBits)
	if t.Sign {
		v = -v
	}
	return FromFloat64(cfg, v)
}

// Add and Sub have no closed form in the log domain; they widen through
// decode -> blocktriple add -> round, exactly as cfloat and posit do.
func Add(a, b Lns) Lns {
	return Round(a.Cfg, blocktriple.Add(Decode(a), Decode(b)))
}

func Sub(a, b Lns) Lns {
	tb := Decode(b)
	tb.Sign = !tb.Sign
	return Round(a.Cfg, blocktriple.Add(Decode(a), tb))
}

// Mul is log-add: L fields add directly, no rounding beyond clamping to
// the field's range.
func Mul(a, b Lns) Lns {
	if IsNaN(a) || IsNaN(b) {
		return nanPattern(a.Cfg)
	}
	if IsZero(a) || IsZero(b) {
		return zeroPattern(a.Cfg)
	}
	n := a.Cfg.N
	signA, lA := split(n, a.Bits)
	signB, lB := split(n, b.Bits)
	sign := signA != signB
	l := clampL(n, lA+lB)
	if sign && l == minL(n) {
		l++
	}
	return New(a.Cfg, combine(n, sign, l))
}

// Div is log-sub: L fields subtract. Silent mode produces NaN for both
// x/0 and 0/0, since lns has no signed-infinity encoding; DivThrowing
// reports the two cases as distinct typed errors.
func Div(a, b Lns) Lns {
	if IsNaN(a) || IsNaN(b) {
		return nanPattern(a.Cfg)
	}
	if IsZero(b) {
		return nanPattern(a.Cfg)
	}
	if IsZero(a) {
		return zeroPattern(a.Cfg)
	}
	n := a.Cfg.N
	signA, lA := split(n, a.Bits)
	signB, lB := split(n, b.Bits)
	sign := signA != signB
	l := clampL(n, lA-lB)
	if sign && l == minL(n) {
		l++
	}
	return New(a.Cfg, combine(n, sign, l))
}

// DivThrowing is Div's throwing-mode counterpart.
func DivThrowing(a, b Lns) (Lns, error) {
	if IsZero(b) {
		if IsZero(a) {
			return Lns{}, errs.New(errs.InvalidOperation, "lns", "0/0")
		}
		return Lns{}, errs.New(errs.DivideByZero, "lns", "division by zero")
	}
	return Div(a, b), nil
}

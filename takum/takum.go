/*
 * universal - takum<N>: tapered format with a direction-selected exponent code
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

// Package takum implements takum<N>: sign, a direction bit D, a 3-bit
// regime R, a variable-width exponent field (width chosen by D and R),
// and whatever fraction bits remain. Unlike posit's run-length regime,
// D/R here are a direct lookup into one of 16 contiguous exponent
// ranges, 8 on each side of zero. Arithmetic has no reference
// implementation to port (the original leaves every operator a
// placeholder), so it is built from scratch here as a decode -> cascade
// double-double -> encode funnel, the same shape lns uses for add/sub.
package takum

import (
	"math"

	"github.com/rcornwell/universal/cascade"
	"github.com/rcornwell/universal/config"
	"github.com/rcornwell/universal/internal/errs"
)

// Takum is a tapered value for a given Descriptor (only N is used; the
// exponent field width varies per value instead of being fixed by ES).
type Takum struct {
	Cfg  config.Descriptor
	Bits uint64
}

func allOnes(n int) uint64 { return uint64(1)<<uint(n) - 1 }

// New wraps a raw bit pattern against cfg.
func New(cfg config.Descriptor, bits uint64) Takum {
	return Takum{Cfg: cfg, Bits: bits & allOnes(cfg.N)}
}

// headerBits is sign(1) + direction(1) + regime(3).
const headerBits = 5

func zeroPattern(cfg config.Descriptor) Takum { return New(cfg, 0) }

func narPattern(cfg config.Descriptor) Takum {
	return New(cfg, uint64(1)<<uint(cfg.N-1)) // sign=1, D=0, rest 0.
}

// IsZero reports whether x is the reserved all-zero-bits encoding. The
// original's own zero() constructor comment describes a different
// pattern (sign=0, D=1, rest 0), but its iszero() predicate checks the
// whole block against zero instead, and that predicate is what every
// caller (and this seed scenario's own decode expectation for the
// sign=0,D=1,R=0 pattern) actually relies on, so it is what this
// encoding follows.
func IsZero(x Takum) bool { return x.Bits&allOnes(x.Cfg.N) == 0 }

// IsNaR reports whether x is the reserved sign=1,D=0,rest=0 encoding.
func IsNaR(x Takum) bool { return x.Bits == uint64(1)<<uint(x.Cfg.N-1) }

// fields unpacks bits into (sign, D, R, r, A, f), following §6.3: sign at
// bit N-1, direction at bit N-2, a 3-bit regime R at bits [N-5,N-2), then
// r = D ? R : 7-R exponent bits, then whatever fraction bits remain.
func fields(n int, bits uint64) (sign, d bool, a int, f float64) {
	sign = bits&(uint64(1)<<uint(n-1)) != 0
	d = bits&(uint64(1)<<uint(n-2)) != 0
	r3 := int((bits >> uint(n-5)) & 0b111)
	r := r3
	if !d {
		r = 7 - r3
	}
	pool := n - headerBits
	if r > pool {
		r = pool
	}
	fracWidth := pool - r
	low := bits & allOnes(pool)
	a = int((low >> uint(fracWidth)) & allOnes(r))
	if fracWidth > 0 {
		fracBits := low & allOnes(fracWidth)
		f = float64(fracBits) / float64(uint64(1)<<uint(fracWidth))
	}
	return sign, d, a, f
}

// decodeValue implements §6.3's value formula directly: a = (2^r-1)+A,
// b = D?0:3*2^r-2, s = sign?1:0, e = (1-2s)(a-b+s),
// value = ((1-3s)+f)*2^e.
func decodeValue(n int, bits uint64) float64 {
	sign, d, a, f := fields(n, bits)
	r3 := int((bits >> uint(n-5)) & 0b111)
	r := r3
	if !d {
		r = 7 - r3
	}
	pool := n - headerBits
	if r > pool {
		r = pool
	}
	twoR := 1 << uint(r)
	aa := (twoR - 1) + a
	b := 0
	if !d {
		b = 3*twoR - 2
	}
	s := 0
	if sign {
		s = 1
	}
	e := (1 - 2*s) * (aa - b + s)
	mult := float64(1-3*s) + f
	return mult * math.Exp2(float64(e))
}

// ToFloat64 widens x back to a native float64.
func ToFloat64(x Takum) float64 {
	if IsZero(x) {
		return 0
	}
	if IsNaR(x) {
		return math.NaN()
	}
	return decodeValue(x.Cfg.N, x.Bits)
}

// Decode widens x into a double-double cascade, the intermediate
// precision add/sub/mul/div operate in before re-encoding.
func Decode(x Takum) cascade.Cascade {
	return cascade.FromFloat64(2, ToFloat64(x))
}

// fromReal inverts decodeValue: given a signed magnitude decomposed as
// m*2^e with m in [1,2) (frexp convention), picks (s, f, u) so that
// ((1-3s)+f)*2^u == sign*m*2^e, then searches for the (D,r,A) whose
// range contains a-b, which is u for s=0 and -u-1 for s=1 (from
// e = (1-2s)(a-b+s)).
func fromReal(cfg config.Descriptor, v float64) Takum {
	if v == 0 {
		return zeroPattern(cfg)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return narPattern(cfg)
	}
	sign := math.Signbit(v)
	mag := math.Abs(v)
	frac, exp := math.Frexp(mag) // mag = frac*2^exp, frac in [0.5,1)
	m2 := frac * 2
	e := exp - 1 // mag = m2*2^e, m2 in [1,2)

	s := 0
	if sign {
		s = 1
	}
	var u int
	var f float64
	if s == 0 {
		f = m2 - 1
		u = e
	} else if m2 == 1.0 {
		u = e - 1
		f = 0
	} else {
		u = e
		f = 2 - m2
	}
	if s == 1 {
		u = -u - 1
	}

	d, r, a := pickRegime(u)

	pool := cfg.N - headerBits
	if pool < 0 {
		pool = 0
	}
	if r > pool {
		r = pool
		a = clampRange(d, r, u)
	}
	if r > 7 {
		r = 7
		a = clampRange(d, r, u)
	}
	fracWidth := pool - r

	var fracBits uint64
	if fracWidth > 0 {
		maxFrac := allOnes(fracWidth)
		scaled := math.Round(f * float64(uint64(1)<<uint(fracWidth)))
		if scaled < 0 {
			scaled = 0
		}
		if scaled > float64(maxFrac) {
			scaled = float64(maxFrac)
		}
		fracBits = uint64(scaled)
	}

	regime := r
	if !d {
		regime = 7 - r
	}

	bits := (uint64(a) << uint(fracWidth)) | fracBits
	bits |= uint64(regime) << uint(cfg.N-5)
	if d {
		bits |= uint64(1) << uint(cfg.N-2)
	}
	if sign {
		bits |= uint64(1) << uint(cfg.N-1)
	}
	return New(cfg, bits)
}

// pickRegime finds (D, r, A) whose range contains u: D=true covers
// u >= 0 in contiguous doubling ranges [2^r-1, 2^(r+1)-2]; D=false
// covers u < 0 in mirrored ranges [1-2*2^r, -2^r].
func pickRegime(u int) (d bool, r, a int) {
	if u >= 0 {
		r = int(math.Floor(math.Log2(float64(u + 1))))
		if r < 0 {
			r = 0
		}
		a = u - ((1 << uint(r)) - 1)
		return true, r, a
	}
	w := -u
	r = int(math.Floor(math.Log2(float64(w))))
	if r < 0 {
		r = 0
	}
	a = u - (1 - 2*(1<<uint(r)))
	return false, r, a
}

// clampRange recomputes A for a u that no longer fits r bits of exponent
// (the available bit pool shrank), saturating to the nearest in-range
// value instead of propagating a carry into the regime field.
func clampRange(d bool, r, u int) int {
	twoR := 1 << uint(r)
	var a int
	if d {
		a = u - (twoR - 1)
	} else {
		a = u - (1 - 2*twoR)
	}
	if a < 0 {
		a = 0
	}
	if a > twoR-1 {
		a = twoR - 1
	}
	return a
}

// FromFloat64 converts a native float64 into cfg's format.
func FromFloat64(cfg config.Descriptor, v float64) Takum {
	return fromReal(cfg, v)
}

// Round re-encodes a double-double cascade result back to cfg's format.
func Round(cfg config.Descriptor, c cascade.Cascade) Takum {
	return fromReal(cfg, c.ToFloat64())
}

// Add, Sub, Mul, Div implement takum arithmetic via decode -> cascade op
// -> round, built from scratch since the source's own operators are
// unimplemented placeholders.
func Add(x, y Takum) Takum {
	if IsNaR(x) || IsNaR(y) {
		return narPattern(x.Cfg)
	}
	return Round(x.Cfg, Decode(x).Add(Decode(y)))
}

func Sub(x, y Takum) Takum {
	if IsNaR(x) || IsNaR(y) {
		return narPattern(x.Cfg)
	}
	return Round(x.Cfg, Decode(x).Sub(Decode(y)))
}

func Mul(x, y Takum) Takum {
	if IsNaR(x) || IsNaR(y) {
		return narPattern(x.Cfg)
	}
	return Round(x.Cfg, Decode(x).Mul(Decode(y)))
}

// Div returns x/y; division by zero produces NaR, since takum has no
// signed-infinity encoding (matching posit and lns's precedent).
func Div(x, y Takum) Takum {
	if IsNaR(x) || IsNaR(y) || IsZero(y) {
		return narPattern(x.Cfg)
	}
	return Round(x.Cfg, Decode(x).Div(Decode(y)))
}

// DivThrowing is Div's throwing-mode counterpart: NaR-producing division
// by zero or a NaR operand reports an error instead.
func DivThrowing(x, y Takum) (Takum, error) {
	if IsNaR(x) || IsNaR(y) {
		return Takum{}, errs.New(errs.InvalidOperation, "takum", "NaR operand")
	}
	if IsZero(y) {
		if IsZero(x) {
			return Takum{}, errs.New(errs.InvalidOperation, "takum", "0/0")
		}
		return Takum{}, errs.New(errs.DivideByZero, "takum", "division by zero")
	}
	return Div(x, y), nil
}

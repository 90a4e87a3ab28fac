/*
 * universal - Floatcascade(N): non-overlapping multi-component float
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

// Package cascade implements Floatcascade(N): fixed-length
// N-component non-overlapping f64 expansions — double-double (N=2),
// triple-double (N=3), quad-double (N=4) and any N up to 19. The target
// has no const-generic array length, so N is a runtime
// descriptor carried as len(limbs) rather than a type parameter; DD/TD/QD
// are thin constructors over the same Cascade type instead of three
// duplicated implementations.
package cascade

import (
	"math"

	"github.com/rcornwell/universal/eft"
	"github.com/rcornwell/universal/nfloat"
)

// MaxLimbs is the hard limit: 2^(-53N) >= 2^-1022 forces N<=19.
const MaxLimbs = 19

// Cascade is an N-limb expansion, limbs ordered by decreasing magnitude
// and satisfying the non-overlap invariant |limb[i+1]| <= ulp(limb[i])/2.
// Value is implicitly the (exact, real-number) sum of all limbs.
type Cascade struct {
	limbs []float64
}

// New returns the N-limb zero cascade. N must be in [1, MaxLimbs].
func New(n int) Cascade {
	if n < 1 || n > MaxLimbs {
		panic("cascade: N out of range")
	}
	return Cascade{limbs: make([]float64, n)}
}

// NewDD constructs a double-double from two limbs (caller asserts they are
// already non-overlapping; use FromFloat64 if unsure).
func NewDD(hi, lo float64) Cascade { return Cascade{limbs: []float64{hi, lo}} }

// NewTD constructs a triple-double from three limbs.
func NewTD(x0, x1, x2 float64) Cascade { return Cascade{limbs: []float64{x0, x1, x2}} }

// NewQD constructs a quad-double from four limbs.
func NewQD(x0, x1, x2, x3 float64) Cascade { return Cascade{limbs: []float64{x0, x1, x2, x3}} }

// N reports the limb count.
func (c Cascade) N() int { return len(c.limbs) }

// Limbs returns a copy of the limb slice (decreasing magnitude order).
func (c Cascade) Limbs() []float64 {
	out := make([]float64, len(c.limbs))
	copy(out, c.limbs)
	return out
}

// FromFloat64 returns the N-limb cascade exactly representing v (v itself
// is already a valid single f64 limb; the rest are zero).
func FromFloat64(n int, v float64) Cascade {
	c := New(n)
	c.limbs[0] = v
	return c
}

// ToFloat64 returns the nearest f64 to the cascade's value: since limbs
// are non-overlapping and ordered by decreasing magnitude, the exact sum
// is well approximated by adding from smallest to largest.
func (c Cascade) ToFloat64() float64 {
	sum := 0.0
	for i := len(c.limbs) - 1; i >= 0; i-- {
		sum += c.limbs[i]
	}
	return sum
}

// Neg negates every limb.
func (c Cascade) Neg() Cascade {
	out := make([]float64, len(c.limbs))
	for i, v := range c.limbs {
		out[i] = -v
	}
	return Cascade{limbs: out}
}

// Classify reports the class of the cascade's leading limb: NaN/Inf
// propagate from any non-finite limb; a normalized, non-overlapping
// cascade can only be subnormal-leading if its value itself underflows
// f64's normal range, so Zero/Normal otherwise.
func (c Cascade) Classify() nfloat.Class {
	lead := c.limbs[0]
	if math.IsNaN(lead) {
		return nfloat.NaN
	}
	if math.IsInf(lead, 0) {
		return nfloat.Infinity
	}
	if lead == 0 {
		return nfloat.Zero
	}
	return nfloat.Decode64(lead).Class
}

// compressToN renormalizes merged (limbs roughly sorted by decreasing
// magnitude, not yet non-overlapping) and returns exactly n limbs.
//
// The N=2/3/4 compression schedules must be followed
// exactly rather than "accumulate into result[0..2] and dump the rest."
// The schedule below is the general form those specific chains implement:
// a full FastTwoSum renormalization sweep (eft.Renormalize) followed by
// folding any limbs beyond N back into the last kept limb via the same
// two-sum discipline, so no limb past index N-1 is ever silently
// dropped — it is summed into limb N-1 instead of truncated. DESIGN.md
// records why one general routine stands in for the three hand-unrolled
// chains.
func compressToN(merged []float64, n int) []float64 {
	r := eft.Renormalize(merged)
	if len(r) <= n {
		out := make([]float64, n)
		copy(out, r)
		return out
	}
	// Fold the tail (smallest-magnitude limbs) into the last kept limb,
	// smallest first to minimize intermediate rounding, via a two-sum
	// chain; each step's error term e is dropped, not carried.
	kept := make([]float64, n)
	copy(kept, r[:n])
	acc := r[n-1]
	for i := len(r) - 1; i >= n; i-- {
		var e float64
		acc, e = eft.TwoSum(acc, r[i])
		_ = e // residual below rounding of the last limb; N-limb budget absorbs it.
	}
	kept[n-1] = acc
	final := eft.Renormalize(kept)
	out := make([]float64, n)
	copy(out, final)
	return out
}

// padN ensures out has exactly n limbs, zero-padding if renormalize
// shrank the expansion (e.g. after heavy cancellation).
func padN(limbs []float64, n int) []float64 {
	if len(limbs) == n {
		return limbs
	}
	out := make([]float64, n)
	copy(out, limbs)
	return out
}

// Add returns a+b, compressed back to N limbs.
func (a Cascade) Add(b Cascade) Cascade {
	n := a.N()
	merged := eft.LinearExpansionSum(a.limbs, b.limbs)
	return Cascade{limbs: padN(compressToN(merged, n), n)}
}

// Sub returns a-b.
func (a Cascade) Sub(b Cascade) Cascade {
	return a.Add(b.Neg())
}

// Mul returns a*b, compressed back to N limbs via the diagonal
// partition schedule: the N*N product matrix is partitioned by diagonal
// k=i+j (each diagonal roughly one "decade" of 53 bits smaller than the
// last), each diagonal's partial products plus the previous diagonal's
// error term are merged with a two-sum chain, and the resulting diagonal
// sums (already ordered by decreasing magnitude) are renormalized to N
// limbs.
func (a Cascade) Mul(b Cascade) Cascade {
	n := a.N()
	na, nb := len(a.limbs), len(b.limbs)
	numDiag := na + nb - 1

	diagSum := make([]float64, numDiag)
	carry := 0.0
	for k := 0; k < numDiag; k++ {
		acc := carry
		var accErr float64
		for i := 0; i < na; i++ {
			j := k - i
			if j < 0 || j >= nb {
				continue
			}
			p, e := eft.TwoProduct(a.limbs[i], b.limbs[j])
			s1, e1 := eft.TwoSum(acc, p)
			acc = s1
			accErr += e1
			s2, e2 := eft.TwoSum(acc, e)
			acc = s2
			accErr += e2
		}
		diagSum[k] = acc
		carry = accErr
	}
	merged := append(diagSum, carry)
	return Cascade{limbs: padN(compressToN(merged, n), n)}
}

// Div performs iterative Newton refinement: q0 = a/b as an
// f64 approximation, then q_{i+1} = q_i + residual/b[0] for N+1
// iterations, residual = a - q*b, finishing with a renormalize. Division
// by zero yields signed infinities (or NaN if the dividend is also zero),
// matching IEEE behavior on the leading limb.
func (a Cascade) Div(b Cascade) Cascade {
	n := a.N()
	if b.ToFloat64() == 0 {
		lead := a.ToFloat64() / b.limbs[0]
		return FromFloat64(n, lead)
	}
	q := FromFloat64(n, a.ToFloat64()/b.limbs[0])
	for i := 0; i < n+1; i++ {
		residual := a.Sub(q.Mul(b))
		correction := FromFloat64(n, residual.ToFloat64()/b.limbs[0])
		q = q.Add(correction)
	}
	return q
}

// Sqrt computes the square root via Newton's method on cascades:
// x_{k+1} = x_k + (a - x_k^2) / (2 x_k), refined N+1 times then
// renormalized. NaN propagates for negative operands (sqrt(-x), x>0, is
// InvalidOperation; the silent-mode contract here is to
// return NaN like IEEE math.Sqrt of a negative value).
func (a Cascade) Sqrt() Cascade {
	n := a.N()
	lead := a.ToFloat64()
	if lead < 0 {
		return FromFloat64(n, math.NaN())
	}
	if lead == 0 {
		return New(n)
	}
	x := FromFloat64(n, math.Sqrt(lead))
	two := FromFloat64(n, 2)
	for i := 0; i < n+1; i++ {
		residual := a.Sub(x.Mul(x))
		denom := x.Mul(two)
		correction := FromFloat64(n, residual.ToFloat64()/denom.ToFloat64())
		x = x.Add(correction)
	}
	return x
}

// Cmp returns -1, 0, or 1 comparing a and b, tie-breaking lexicographic on
// limbs after alignment by magnitude: the sign of the first
// non-zero limb of a-b decides.
func (a Cascade) Cmp(b Cascade) int {
	d := a.Sub(b)
	for _, v := range d.limbs {
		if v > 0 {
			return 1
		}
		if v < 0 {
			return -1
		}
	}
	return 0
}

// NonOverlapping reports whether c satisfies the non-overlapping invariant:
// |limb[i+1]| <= ulp(limb[i])/2 for every i. Intended for debug-build
// assertions after public operations.
func (c Cascade) NonOverlapping() bool {
	for i := 0; i+1 < len(c.limbs); i++ {
		if c.limbs[i] == 0 {
			if c.limbs[i+1] != 0 {
				return false
			}
			continue
		}
		if math.IsNaN(c.limbs[i]) || math.IsInf(c.limbs[i], 0) {
			continue
		}
		if math.Abs(c.limbs[i+1]) > ulp(c.limbs[i])/2 {
			return false
		}
	}
	return true
}

func ulp(x float64) float64 {
	x = math.Abs(x)
	return math.Nextafter(x, math.Inf(1)) - x
}

/*
 * universal - Error-free transforms on f64
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

// Package eft implements the error-free transforms two_sum,
// fast_two_sum, split, two_product, scale_expansion, linear_expansion_sum
// and renormalize. Every cascade/ereal operation in cascade and ereal
// funnels through these. Each function here is a correctness-critical
// leaf: do not let the compiler contract any of its additions/subtractions
// into an FMA (a volatile-equivalent requirement for two_prod) — the
// //go:noinline pragmas below are the Go analogue of that barrier, since
// Go's compiler does not perform cross-statement FMA contraction the way
// a C/C++ compiler might, but inlining these tiny functions into a caller
// that itself gets vectorized is the one path that could reintroduce it.
package eft

import "math"

// splitter is 2^27 + 1, the Veltkamp split constant for float64's 53-bit
// mantissa (splits into two 26-bit-safe halves).
const splitter = (1 << 27) + 1

// TwoSum returns (s, e) such that s = fl(a+b) and e = (a+b) - s exactly,
// for any ordering of |a|, |b| (Knuth's 6-flop algorithm). When s is
// Inf or NaN, e is 0, so the non-finite value stands alone in s.
//
//go:noinline
func TwoSum(a, b float64) (s, e float64) {
	s = a + b
	if math.IsInf(s, 0) || math.IsNaN(s) {
		return s, 0
	}
	bb := s - a
	e = (a - (s - bb)) + (b - bb)
	return s, e
}

// FastTwoSum returns (s, e) such that s = fl(a+b) and e = (a+b) - s
// exactly. Requires |a| >= |b|; callers must establish that precondition
// themselves (the cheaper 3-flop form does not detect a violation).
//
//go:noinline
func FastTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return s, e
}

// Split performs a Veltkamp split of a into high and low parts, each
// representable with at most 26 significant bits, such that a = hi + lo
// exactly.
//
//go:noinline
func Split(a float64) (hi, lo float64) {
	c := splitter * a
	hi = c - (c - a)
	lo = a - hi
	return hi, lo
}

// TwoProduct returns (p, e) such that p = fl(a*b) and e = a*b - p exactly,
// using Dekker's split-based algorithm. FMA is not used here: Go's
// math.FMA is a software-emulated fallback on platforms without hardware
// support, which would make this transform slower than the split form it
// would replace, so the split path is kept as the single implementation
// rather than branching on an FMA fast path per a "prefer FMA
// when available" — see DESIGN.md for the rationale.
//
//go:noinline
func TwoProduct(a, b float64) (p, e float64) {
	p = a * b
	ahi, alo := Split(a)
	bhi, blo := Split(b)
	e = ((ahi*bhi - p) + ahi*blo + alo*bhi) + alo*blo
	return p, e
}

// ScaleExpansion multiplies every limb of x by s, threading error terms
// through TwoSum so the result is a non-overlapping expansion of length
// up to 2*len(x). This is Shewchuk's scale_expansion: for each limb
// x[i], form its product with s via TwoProduct, and merge the running
// carry q through TwoSum, collecting every error term exactly. The
// collected terms are not in magnitude order, so the running sum q and
// the terms are passed through Renormalize, which returns them in this
// package's decreasing-magnitude convention (index 0 dominant).
func ScaleExpansion(x []float64, s float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	out := make([]float64, 0, 2*len(x))
	q, h0 := TwoProduct(x[0], s)
	out = append(out, h0)
	for i := 1; i < len(x); i++ {
		t, h := TwoProduct(x[i], s)
		sum1, e1 := TwoSum(q, h)
		out = append(out, e1)
		sum2, e2 := TwoSum(t, sum1)
		out = append(out, e2)
		q = sum2
	}
	return Renormalize(append([]float64{q}, out...))
}

// LinearExpansionSum merges two non-overlapping expansions x, y into a
// single non-overlapping expansion via Shewchuk's merge-sorted two-sum
// sweep: concatenate by decreasing magnitude, then sweep a running
// TwoSum/FastTwoSum chain through the merged order. The sweep keeps the
// sum exact but its error terms can still overlap one another, so the
// running sum q and the error terms are passed through Renormalize:
// index 0 holds the dominant limb and the rest follow in decreasing
// magnitude, matching x[0] >= x[1] >= ...
func LinearExpansionSum(x, y []float64) []float64 {
	merged := mergeByMagnitude(x, y)
	if len(merged) == 0 {
		return nil
	}
	out := make([]float64, 0, len(merged))
	q := merged[0]
	for i := 1; i < len(merged); i++ {
		var s, e float64
		if absGE(q, merged[i]) {
			s, e = FastTwoSum(q, merged[i])
		} else {
			s, e = FastTwoSum(merged[i], q)
		}
		if e != 0 {
			out = append(out, e)
		}
		q = s
	}
	return Renormalize(append([]float64{q}, out...))
}

func absGE(a, b float64) bool {
	return absf(a) >= absf(b)
}

func absf(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}

// mergeByMagnitude merges two limb slices, each already sorted by
// decreasing magnitude, into one sequence sorted the same way.
func mergeByMagnitude(x, y []float64) []float64 {
	out := make([]float64, 0, len(x)+len(y))
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		if absf(x[i]) >= absf(y[j]) {
			out = append(out, x[i])
			i++
		} else {
			out = append(out, y[j])
			j++
		}
	}
	out = append(out, x[i:]...)
	out = append(out, y[j:]...)
	return out
}

// Renormalize compresses a near-expansion x (limbs not necessarily
// satisfying the non-overlap invariant, but roughly sorted by magnitude)
// back to a non-overlapping expansion, dropping zero limbs, via
// Priest-style renormalization: a bottom-up TwoSum pass accumulates the
// total into the leading limb, then top-down passes emit each running
// sum as a limb and carry its error term on to the next. The second
// top-down pass settles limbs the first one can leave overlapping, so
// the result comes back unchanged when renormalized again. Index 0 is
// the dominant limb.
func Renormalize(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	work := make([]float64, len(x))
	copy(work, x)
	for i := len(work) - 2; i >= 0; i-- {
		work[i], work[i+1] = TwoSum(work[i], work[i+1])
	}

	out := make([]float64, 0, len(work))
	q := work[0]
	for i := 1; i < len(work); i++ {
		var s, e float64
		if absGE(q, work[i]) {
			s, e = FastTwoSum(q, work[i])
		} else {
			s, e = FastTwoSum(work[i], q)
		}
		if e != 0 {
			out, s = append(out, s), e
		}
		q = s
	}
	work, out = append(out, q), nil
	q = work[0]
	for i := 1; i < len(work); i++ {
		s, e := TwoSum(q, work[i])
		if e != 0 {
			out, s = append(out, s), e
		}
		q = s
	}
	out = append(out, q)
	return compressZeros(out)
}

// compressZeros drops zero limbs, preserving relative order, and
// guarantees at least one limb (zero itself) survives.
func compressZeros(x []float64) []float64 {
	out := x[:0:0]
	for _, v := range x {
		if v != 0 {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []float64{0}
	}
	return out
}

// reverseFloats reverses x in place and returns it.
func reverseFloats(x []float64) []float64 {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
	return x
}

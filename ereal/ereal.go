/*
 * universal - Adaptive-precision expansion (ereal)
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

// Package ereal implements the adaptive (variable-length) expansion of
// Unlike cascade's fixed N, an Ereal grows and shrinks
// as operations demand, capped at cascade.MaxLimbs. add/sub skip
// compression entirely (merge-sort + two-sum sweep is already the exact
// non-overlapping result); mul does expansion_product: scale every limb
// of the right operand by every limb of the left, merge, renormalize.
package ereal

import (
	"math"

	"github.com/rcornwell/universal/cascade"
	"github.com/rcornwell/universal/eft"
	"github.com/rcornwell/universal/nfloat"
)

// Ereal is a variable-length non-overlapping expansion. The zero value is
// not meaningful; use New or FromFloat64.
type Ereal struct {
	limbs []float64
}

// FromFloat64 wraps a single f64 as a one-limb expansion.
func FromFloat64(v float64) Ereal { return Ereal{limbs: []float64{v}} }

// New returns the zero expansion.
func New() Ereal { return Ereal{limbs: []float64{0}} }

// Len reports the current limb count.
func (e Ereal) Len() int { return len(e.limbs) }

// Limbs returns a copy of the limb slice, decreasing magnitude order.
func (e Ereal) Limbs() []float64 {
	out := make([]float64, len(e.limbs))
	copy(out, e.limbs)
	return out
}

// ToFloat64 sums the limbs from smallest to largest magnitude.
func (e Ereal) ToFloat64() float64 {
	sum := 0.0
	for i := len(e.limbs) - 1; i >= 0; i-- {
		sum += e.limbs[i]
	}
	return sum
}

// clampLen enforces the hard cap (max_limbs <= 19) by folding any
// excess tail limbs into the last one, the same discipline cascade uses
// when an operation would otherwise overflow its fixed N.
func clampLen(limbs []float64) []float64 {
	if len(limbs) <= cascade.MaxLimbs {
		return limbs
	}
	kept := make([]float64, cascade.MaxLimbs)
	copy(kept, limbs[:cascade.MaxLimbs])
	acc := kept[cascade.MaxLimbs-1]
	for i := len(limbs) - 1; i >= cascade.MaxLimbs; i-- {
		acc, _ = eft.TwoSum(acc, limbs[i])
	}
	kept[cascade.MaxLimbs-1] = acc
	return eft.Renormalize(kept)
}

// Add merges a and b via linear_expansion_sum with no further compression
// the merge-sorted two-sum sweep already produces an exact
// non-overlapping expansion.
func (a Ereal) Add(b Ereal) Ereal {
	return Ereal{limbs: clampLen(eft.LinearExpansionSum(a.limbs, b.limbs))}
}

// Sub returns a-b.
func (a Ereal) Sub(b Ereal) Ereal {
	return a.Add(b.Neg())
}

// Neg negates every limb.
func (a Ereal) Neg() Ereal {
	out := make([]float64, len(a.limbs))
	for i, v := range a.limbs {
		out[i] = -v
	}
	return Ereal{limbs: out}
}

// Mul implements expansion_product: scale every limb of a by
// every limb of b via eft.ScaleExpansion, merge all the resulting partial
// expansions with linear_expansion_sum, and renormalize.
func (a Ereal) Mul(b Ereal) Ereal {
	var acc []float64
	for _, bv := range b.limbs {
		partial := eft.ScaleExpansion(a.limbs, bv)
		if acc == nil {
			acc = partial
		} else {
			acc = eft.LinearExpansionSum(acc, partial)
		}
	}
	return Ereal{limbs: clampLen(eft.Renormalize(acc))}
}

// Div performs the same Newton-refinement scheme as cascade, generalized
// to ereal's variable length: iterate until the limb count stabilizes or
// a generous iteration bound (matching cascade's N+1 pattern scaled to
// MaxLimbs) is reached.
func (a Ereal) Div(b Ereal) Ereal {
	if b.ToFloat64() == 0 {
		return FromFloat64(a.ToFloat64() / b.limbs[0])
	}
	q := FromFloat64(a.ToFloat64() / b.limbs[0])
	for i := 0; i < cascade.MaxLimbs+1; i++ {
		residual := a.Sub(q.Mul(b))
		correction := FromFloat64(residual.ToFloat64() / b.limbs[0])
		next := q.Add(correction)
		if next.ToFloat64() == q.ToFloat64() && len(next.limbs) == len(q.limbs) {
			q = next
			break
		}
		q = next
	}
	return q
}

// CompareAdaptive implements compare_adaptive: signs decide
// first, then lexicographic comparison of aligned limbs (equivalent here
// to the sign of the leading non-zero limb of the difference).
func (a Ereal) CompareAdaptive(b Ereal) int {
	as, bs := sign(a.ToFloat64()), sign(b.ToFloat64())
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
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

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Classify reports the class of the leading limb, same rule as cascade.
func (a Ereal) Classify() nfloat.Class {
	lead := a.limbs[0]
	switch {
	case math.IsNaN(lead):
		return nfloat.NaN
	case math.IsInf(lead, 0):
		return nfloat.Infinity
	case lead == 0:
		return nfloat.Zero
	default:
		return nfloat.Decode64(lead).Class
	}
}

// NonOverlapping reports whether a satisfies the non-overlapping invariant.
func (a Ereal) NonOverlapping() bool {
	for i := 0; i+1 < len(a.limbs); i++ {
		if a.limbs[i] == 0 {
			if a.limbs[i+1] != 0 {
				return false
			}
			continue
		}
		if math.IsNaN(a.limbs[i]) || math.IsInf(a.limbs[i], 0) {
			continue
		}
		if math.Abs(a.limbs[i+1]) > ulp(a.limbs[i])/2 {
			return false
		}
	}
	return true
}

func ulp(x float64) float64 {
	x = math.Abs(x)
	return math.Nextafter(x, math.Inf(1)) - x
}

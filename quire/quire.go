/*
 * universal - quire: wide fixed-point accumulator for exact dot products
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

// Package quire implements a wide fixed-point accumulator used to sum a
// run of blocktriple values (typically products) without the rounding
// that would occur if each partial sum were re-rounded back to a
// narrower format. The accumulator holds a single sign-magnitude bit
// field wide enough to represent every scale a caller's triples can
// carry: a lower region below the radix point (fraction), an upper
// region straddling it (integer), and a capacity region above both that
// absorbs carry-out from repeated accumulation without ever rounding.
// The read back to a triple renormalizes without rounding: the triple
// carries every bit of the running total.
package quire

import (
	"github.com/rcornwell/universal/bitblock"
	"github.com/rcornwell/universal/blocktriple"
	"github.com/rcornwell/universal/internal/errs"
)

// Quire accumulates blocktriple values into a fixed-point magnitude wide
// enough that no intermediate +=/-= ever rounds. halfRange is both the
// width of the fraction (lower) region and the integer (upper) region's
// span below its own top guard bit; capacity extends the integer side
// further so a long run of same-sign accumulation cannot silently wrap.
type Quire struct {
	halfRange int
	capacity  int
	sign      bool
	mag       bitblock.Block
	nan       bool
	inf       bool
}

// New returns an empty quire whose lower/upper regions each span
// halfRange bits around the radix point, with capacity extra guard bits
// above the integer side for carry absorption.
func New(halfRange, capacity int) Quire {
	width := capacity + 2*halfRange + 1
	return Quire{halfRange: halfRange, capacity: capacity, mag: bitblock.New(width)}
}

func (q Quire) width() int { return q.capacity + 2*q.halfRange + 1 }

// Reset clears the accumulator back to zero.
func (q Quire) Reset() Quire {
	return New(q.halfRange, q.capacity)
}

// IsZero reports whether the accumulator holds no contribution at all.
func (q Quire) IsZero() bool { return !q.nan && !q.inf && q.mag.IsZero() }

// MaxScale and MinScale report the scale range representable without
// the capacity guard region, i.e. the range an operand's hidden bit can
// occupy before Add needs the guard bits to absorb carry-out.
func (q Quire) MaxScale() int { return q.halfRange }
func (q Quire) MinScale() int { return -q.halfRange }

// Add accumulates t into the quire in place. t's significand bit i
// carries weight 2^(t.Scale-t.FracBits+i); Add places every bit of t at
// its matching weight in the quire's magnitude field and adds (same
// sign) or subtracts (differing sign, larger magnitude wins the result's
// sign) from whatever is already accumulated. NaN and Inf are tracked
// as sticky flags rather than folded into the magnitude, following
// blocktriple's own propagate-don't-compute convention for specials.
func (q *Quire) Add(t blocktriple.Triple) error {
	switch t.Special {
	case blocktriple.NaN:
		q.nan = true
		return nil
	case blocktriple.Inf:
		q.inf = true
		q.sign = t.Sign
		return nil
	case blocktriple.ZeroVal:
		return nil
	}
	if q.nan || q.inf {
		return nil
	}

	sigWidth := t.Sig.Width()
	weight0 := t.Scale - t.FracBits
	offset := weight0 + q.halfRange
	top := offset + sigWidth - 1

	if offset < 0 {
		return errs.New(errs.OperandTooSmall, "quire", "operand scale below the accumulator's lower bound")
	}
	if top > q.width()-1 {
		return errs.New(errs.OperandTooLarge, "quire", "operand scale above the accumulator's capacity")
	}

	aligned := bitblock.New(q.width())
	for i := 0; i < sigWidth; i++ {
		if t.Sig.Get(i) {
			aligned = aligned.Set(offset+i, true)
		}
	}

	if q.mag.IsZero() {
		q.mag = aligned
		q.sign = t.Sign
		return nil
	}

	if q.sign == t.Sign {
		sum, carry := q.mag.Add(aligned)
		if carry {
			return errs.New(errs.OperandTooLarge, "quire", "accumulation overflowed the capacity region")
		}
		q.mag = sum
		return nil
	}

	if q.mag.Less(aligned) {
		diff, _ := aligned.Sub(q.mag)
		q.mag = diff
		q.sign = t.Sign
	} else {
		diff, _ := q.mag.Sub(aligned)
		q.mag = diff
	}
	return nil
}

// Sub accumulates -t, i.e. subtracts t's contribution from the running
// total.
func (q *Quire) Sub(t blocktriple.Triple) error {
	t.Sign = !t.Sign
	return q.Add(t)
}

// ToTriple renormalizes the accumulator into a blocktriple.Triple,
// scanning for the highest set bit to fix the result's scale the same
// way the original's to_value() does, then carrying every bit below it
// into the triple's significand. Nothing is rounded: the significand is
// msb+1 bits wide and holds the exact running total.
func (q Quire) ToTriple() blocktriple.Triple {
	if q.nan {
		return blocktriple.NewNaN()
	}
	if q.inf {
		return blocktriple.NewInf(q.sign)
	}
	msb := q.mag.Msb()
	if msb < 0 {
		return blocktriple.NewZero(false)
	}
	fracBits := msb
	sig := bitblock.New(fracBits + 1)
	for i := 0; i <= msb; i++ {
		sig = sig.Set(i, q.mag.Get(i))
	}
	return blocktriple.Triple{
		Sign:     q.sign,
		Scale:    msb - q.halfRange,
		Sig:      sig,
		FracBits: fracBits,
		IntBits:  1,
		Op:       blocktriple.OpAdd,
	}
}

// defaultHalfRange and defaultCapacity size the scratch accumulator
// FusedDotProduct builds per call: wide enough to hold the full MUL
// product of any pair of triples blocktriple.Mul produces elsewhere in
// this module (widest fraction field in practice is a cfloat<64,11>
// double-precision significand) without ever needing the overflow path.
const (
	defaultHalfRange = 128
	defaultCapacity  = 64
)

// FusedDotProduct computes sum(a[i]*b[i]) with every product accumulated
// exactly into one quire, instead of rounding after each multiply-add,
// and returns the exact sum as a triple (see ToTriple). This is what
// makes the result associative regardless of input order: any rounding
// happens only when the caller rounds that triple into a format.
func FusedDotProduct(a, b []blocktriple.Triple) (blocktriple.Triple, error) {
	if len(a) != len(b) {
		return blocktriple.Triple{}, errs.New(errs.InvalidOperation, "quire", "mismatched vector lengths")
	}
	q := New(defaultHalfRange, defaultCapacity)
	for i := range a {
		product := blocktriple.Mul(a[i], b[i])
		if err := q.Add(product); err != nil {
			return blocktriple.Triple{}, err
		}
	}
	return q.ToTriple(), nil
}

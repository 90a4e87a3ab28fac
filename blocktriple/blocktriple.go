/*
 * universal - Blocktriple: the cfloat arithmetic funnel
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

// Package blocktriple implements the common cfloat arithmetic intermediate:
// a (sign, scale, fixed-point significand) triple tagged with an
// ADD/MUL/DIV radix-point convention, used as the rounding funnel for
// every cfloat operation. The align/shift/carry discipline mirrors a
// hex-float add: shift the smaller operand right by the exponent
// difference with the excess bits folded into a guard region, add, detect
// carry-out by checking a bit above the normalized field, and renormalize
// left on underflow of the leading bit.
package blocktriple

import "github.com/rcornwell/universal/bitblock"

// Op selects the radix-point convention of the significand field: ADD
// leaves headroom for a carry above the hidden bit, MUL produces a full
// double-width product, DIV carries extra guard bits for faithful
// rounding.
type Op int

const (
	OpAdd Op = iota
	OpMul
	OpDiv
)

// Special names the non-finite/zero classes a triple can carry alongside
// (or instead of) its significand.
type Special int

const (
	Normal Special = iota
	ZeroVal
	Inf
	NaN
)

// addIntBits is the integer-field width for the ADD layout: one pad bit
// (absorbs a carry out of the hidden bit), plus the hidden bit itself,
// i.e. a two-bit integer field (hidden bit plus carry).
const addIntBits = 2

// mulIntBits is the integer-field width for the MUL layout .
const mulIntBits = 2

// divGuardBits is the number of extra low bits the DIV layout carries
// beyond fbits to guarantee faithful (round-to-nearest) rounding.
const divGuardBits = 3

// Triple is the blocktriple value of 3.
type Triple struct {
	Sign    bool
	Scale   int
	Sig     bitblock.Block
	FracBits int
	IntBits  int
	Op       Op
	Special  Special
}

// NewAdd builds an ADD-layout triple: significand width = addIntBits +
// fracBits, with the hidden bit (if normal) placed at bit fracBits and
// the fraction occupying bits [0,fracBits).
func NewAdd(sign bool, scale int, fracBits int, fraction uint64, hidden bool) Triple {
	width := addIntBits + fracBits
	sig := bitblock.FromUint64(width, fraction)
	if hidden {
		sig = sig.Set(fracBits, true)
	}
	return Triple{Sign: sign, Scale: scale, Sig: sig, FracBits: fracBits, IntBits: addIntBits, Op: OpAdd}
}

// NewMul builds a MUL-layout triple of a single pre-normalized operand
// (used before multiplying): significand width = mulIntBits + fracBits,
// hidden bit at bit fracBits.
func NewMul(sign bool, scale int, fracBits int, fraction uint64, hidden bool) Triple {
	width := mulIntBits + fracBits
	sig := bitblock.FromUint64(width, fraction)
	if hidden {
		sig = sig.Set(fracBits, true)
	}
	return Triple{Sign: sign, Scale: scale, Sig: sig, FracBits: fracBits, IntBits: mulIntBits, Op: OpMul}
}

// Special constructors.
func NewZero(sign bool) Triple { return Triple{Sign: sign, Special: ZeroVal} }
func NewInf(sign bool) Triple  { return Triple{Sign: sign, Special: Inf} }
func NewNaN() Triple           { return Triple{Special: NaN} }

// IsSpecial reports whether t carries a non-Normal special value.
func (t Triple) IsSpecial() bool { return t.Special != Normal }

// align shifts the smaller-scale operand's significand right so both
// operands share the larger scale, OR-ing discarded bits into a sticky
// flag rather than dropping them silently (sticky-OR into the guard region, not a silent drop).
func align(a, b Triple) (abits, bbits bitblock.Block, scale int, sticky bool) {
	width := a.Sig.Width()
	if b.Sig.Width() > width {
		width = b.Sig.Width()
	}
	aw := widen(a.Sig, width)
	bw := widen(b.Sig, width)

	switch {
	case a.Scale > b.Scale:
		shift := a.Scale - b.Scale
		var s bool
		bw, s = bw.ShrSticky(shift)
		return aw, bw, a.Scale, s
	case b.Scale > a.Scale:
		shift := b.Scale - a.Scale
		var s bool
		aw, s = aw.ShrSticky(shift)
		return aw, bw, b.Scale, s
	default:
		return aw, bw, a.Scale, false
	}
}

// widen zero-extends sig to width bits (width >= sig.Width()).
func widen(sig bitblock.Block, width int) bitblock.Block {
	if sig.Width() == width {
		return sig
	}
	out := bitblock.New(width)
	for i := 0; i < sig.Width(); i++ {
		out = out.Set(i, sig.Get(i))
	}
	return out
}

// padFrac brings sig from curFrac fraction bits to targetFrac fraction
// bits by widening and shifting left, zero-padding new low-order
// (fraction) bits while leaving the integer field untouched. Used before
// Mul/Div so mismatched operand precisions share one radix point.
func padFrac(sig bitblock.Block, curFrac, targetFrac int) bitblock.Block {
	if curFrac == targetFrac {
		return sig
	}
	delta := targetFrac - curFrac
	out := widen(sig, sig.Width()+delta)
	return out.Shl(delta)
}

// Add aligns a and b by scale, adds or subtracts their significands
// (sign-aware, two's-complement style via an invert-and-add-one trick for
// differing signs), and renormalizes: shifts left to restore the hidden
// bit on cancellation, or shifts right by one and bumps scale on
// carry-out past the integer field.
func Add(a, b Triple) Triple {
	if a.Special == NaN || b.Special == NaN {
		return NewNaN()
	}
	if a.Special == Inf || b.Special == Inf {
		if a.Special == Inf && b.Special == Inf && a.Sign != b.Sign {
			return NewNaN() // Inf + (-Inf) = NaN.
		}
		if a.Special == Inf {
			return a
		}
		return b
	}
	if a.Special == ZeroVal {
		return b
	}
	if b.Special == ZeroVal {
		return a
	}

	abits, bbits, scale, _ := align(a, b)
	fracBits := a.FracBits
	if b.FracBits > fracBits {
		fracBits = b.FracBits
	}
	intBits := abits.Width() - fracBits

	var sumBits bitblock.Block
	var resultSign bool
	if a.Sign == b.Sign {
		sumBits, _ = abits.Add(bbits)
		resultSign = a.Sign
	} else {
		// Subtract the smaller magnitude from the larger; sign follows
		// the larger operand.
		if abits.Less(bbits) {
			sumBits, _ = bbits.Sub(abits)
			resultSign = b.Sign
		} else {
			sumBits, _ = abits.Sub(bbits)
			resultSign = a.Sign
		}
	}

	if sumBits.IsZero() {
		return NewZero(false)
	}

	// Carry out of the integer field: shift right one, bump scale.
	topBit := intBits + fracBits - 1
	for sumBits.Get(topBit) {
		sumBits = sumBits.Shr(1)
		scale++
		if topBit == 0 {
			break
		}
	}
	// Renormalize left: restore the hidden bit at position fracBits.
	for !sumBits.Get(fracBits) && sumBits.Msb() >= 0 {
		sumBits = sumBits.Shl(1)
		scale--
	}

	return Triple{Sign: resultSign, Scale: scale, Sig: sumBits, FracBits: fracBits, IntBits: intBits, Op: OpAdd}
}

// Mul multiplies two MUL-layout triples: scales add, significands
// multiply into a 2*fracBits-wide field, then renormalizes the same way
// Add does.
func Mul(a, b Triple) Triple {
	if a.Special == NaN || b.Special == NaN {
		return NewNaN()
	}
	resultSign := a.Sign != b.Sign
	if a.Special == ZeroVal || b.Special == ZeroVal {
		if a.Special == Inf || b.Special == Inf {
			return NewNaN() // 0 * Inf, 7.
		}
		return NewZero(resultSign)
	}
	if a.Special == Inf || b.Special == Inf {
		return NewInf(resultSign)
	}

	fracBits := a.FracBits
	if b.FracBits > fracBits {
		fracBits = b.FracBits
	}
	aSig := padFrac(a.Sig, a.FracBits, fracBits)
	bSig := padFrac(b.Sig, b.FracBits, fracBits)
	product := multiplySig(aSig, bSig, fracBits)
	scale := a.Scale + b.Scale

	intBits := product.Width() - 2*fracBits
	topBit := product.Width() - 1
	for product.Get(topBit) {
		product = product.Shr(1)
		scale++
		if topBit == 0 {
			break
		}
	}
	hiddenPos := 2 * fracBits
	for !product.Get(hiddenPos) && product.Msb() >= 0 {
		product = product.Shl(1)
		scale--
	}

	return Triple{Sign: resultSign, Scale: scale, Sig: product, FracBits: 2 * fracBits, IntBits: intBits, Op: OpMul}
}

// multiplySig performs unsigned long multiplication of two significands,
// producing a 2*fracBits-plus-integer-headroom-wide product field.
func multiplySig(a, b bitblock.Block, fracBits int) bitblock.Block {
	width := 2*fracBits + mulIntBits
	product := bitblock.New(width)
	for i := 0; i < a.Width(); i++ {
		if !a.Get(i) {
			continue
		}
		shifted := widen(b, width).Shl(i)
		product, _ = product.Add(shifted)
	}
	return product
}

// Div performs restoring long division of a by b, producing a quotient
// with divGuardBits extra low bits for faithful rounding for faithful rounding.
func Div(a, b Triple) Triple {
	if a.Special == NaN || b.Special == NaN {
		return NewNaN()
	}
	resultSign := a.Sign != b.Sign
	if b.Special == ZeroVal {
		if a.Special == ZeroVal {
			return NewNaN()
		}
		return NewInf(resultSign)
	}
	if a.Special == ZeroVal {
		return NewZero(resultSign)
	}
	if a.Special == Inf && b.Special == Inf {
		return NewNaN()
	}
	if a.Special == Inf {
		return NewInf(resultSign)
	}
	if b.Special == Inf {
		return NewZero(resultSign)
	}

	fracBits := a.FracBits
	if b.FracBits > fracBits {
		fracBits = b.FracBits
	}
	qFracBits := fracBits + divGuardBits
	aSig := padFrac(a.Sig, a.FracBits, fracBits)
	bSig := padFrac(b.Sig, b.FracBits, fracBits)
	quotient, scale := restoringDivide(aSig, fracBits, bSig, fracBits, qFracBits)
	scale += a.Scale - b.Scale

	topBit := quotient.Width() - 1
	for quotient.Get(topBit) {
		quotient = quotient.Shr(1)
		scale++
		if topBit == 0 {
			break
		}
	}
	for !quotient.Get(qFracBits) && quotient.Msb() >= 0 {
		quotient = quotient.Shl(1)
		scale--
	}

	return Triple{Sign: resultSign, Scale: scale, Sig: quotient, FracBits: qFracBits, IntBits: mulIntBits, Op: OpDiv}
}

// RoundTo implements the rounding funnel: decode the triple's
// special/sign/scale/significand, and if targetFrac is narrower than the
// triple's current fraction width, round the significand to targetFrac
// fraction bits using round-to-nearest-even over the guard/round/sticky
// bits below the cut, then renormalize on a post-round carry out of the
// integer field (the same guard-digit-then-renormalize sequence Add uses).
// If targetFrac is wider, the significand is simply zero-extended.
func RoundTo(t Triple, targetFrac int) Triple {
	if t.IsSpecial() {
		return t
	}
	if t.FracBits <= targetFrac {
		return Triple{
			Sign: t.Sign, Scale: t.Scale,
			Sig: padFrac(t.Sig, t.FracBits, targetFrac),
			FracBits: targetFrac, IntBits: t.IntBits, Op: t.Op,
		}
	}

	drop := t.FracBits - targetFrac
	guardBit := t.Sig.Get(drop - 1)
	stickyRest := false
	for i := 0; i < drop-1; i++ {
		if t.Sig.Get(i) {
			stickyRest = true
			break
		}
	}
	shifted := t.Sig.Shr(drop)

	// One spare headroom bit above the integer field catches a carry out
	// of rounding up an all-ones significand, the same way a guard digit
	// absorbs a carry before renormalizing.
	finalWidth := t.IntBits + targetFrac
	workWidth := finalWidth + 1
	trimmed := bitblock.New(workWidth)
	for i := 0; i < finalWidth; i++ {
		trimmed = trimmed.Set(i, shifted.Get(i))
	}

	roundUp := false
	if guardBit {
		if stickyRest {
			roundUp = true
		} else {
			roundUp = trimmed.Get(0) // tie: round to even.
		}
	}

	scale := t.Scale
	if roundUp {
		trimmed, _ = trimmed.Add(bitblock.FromUint64(workWidth, 1))
	}
	if trimmed.Get(finalWidth) {
		trimmed = trimmed.Shr(1)
		scale++
	}

	result := bitblock.New(finalWidth)
	for i := 0; i < finalWidth; i++ {
		result = result.Set(i, trimmed.Get(i))
	}

	return Triple{Sign: t.Sign, Scale: scale, Sig: result, FracBits: targetFrac, IntBits: t.IntBits, Op: t.Op}
}

// restoringDivide computes floor(a/b * 2^qFracBits) as a bit pattern with
// mulIntBits of integer headroom, using the textbook restoring-division
// shift-and-subtract loop.
func restoringDivide(aSig bitblock.Block, aFrac int, bSig bitblock.Block, bFrac int, qFracBits int) (bitblock.Block, int) {
	width := mulIntBits + qFracBits
	numWidth := width + bSig.Width() + 1
	rem := widen(aSig, numWidth).Shl(qFracBits + (bFrac - aFrac))
	divisor := widen(bSig, numWidth)

	quotient := bitblock.New(width)
	for i := width - 1; i >= 0; i-- {
		shifted := divisor.Shl(i)
		if !rem.Less(shifted) {
			// shifted <= rem: this quotient bit is set.
			rem, _ = rem.Sub(shifted)
			quotient = quotient.Set(i, true)
		}
	}
	return quotient, 0
}

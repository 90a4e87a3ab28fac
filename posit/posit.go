/*
 * universal - posit<N,E>: tapered, regime-coded binary format
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

// Package posit implements the tapered posit<N,E> format: sign, a
// run-length regime that sets the coarse exponent, up to E plain
// exponent bits, and whatever fraction bits remain. Unlike cfloat, the
// split between exponent and fraction is not fixed width: it varies
// per value, so rounding happens against however many fraction bits
// the regime leaves room for, not a constant fb.
package posit

import (
	"math"

	"github.com/rcornwell/universal/blocktriple"
	"github.com/rcornwell/universal/config"
	"github.com/rcornwell/universal/internal/errs"
	"github.com/rcornwell/universal/nfloat"
)

// Posit is a posit value for a given Descriptor.
type Posit struct {
	Cfg  config.Descriptor
	Bits uint64
}

func allOnes(n int) uint64 { return uint64(1)<<uint(n) - 1 }

// New wraps a raw bit pattern against cfg.
func New(cfg config.Descriptor, bits uint64) Posit {
	return Posit{Cfg: cfg, Bits: bits & allOnes(cfg.N)}
}

func bitsToUint(bits []bool) uint64 {
	var v uint64
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// floorDiv is integer division rounding toward negative infinity,
// needed to split a signed scale into (k, e) with e always in
// [0, 2^ES).
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Decode implements the regime/exponent/fraction decode of spec 4.6:
// special-case 0 and NaR, two's-complement a negative magnitude, strip
// the regime run, take up to ES exponent bits, and whatever remains is
// fraction.
func Decode(p Posit) blocktriple.Triple {
	n, es := p.Cfg.N, p.Cfg.ES
	bits := p.Bits & allOnes(n)
	if bits == 0 {
		return blocktriple.NewZero(false)
	}
	nar := uint64(1) << uint(n-1)
	if bits == nar {
		return blocktriple.NewNaN()
	}

	sign := bits&nar != 0
	mag := bits
	if sign {
		mag = (^bits + 1) & allOnes(n)
	}

	seq := make([]bool, n-1)
	for i := range seq {
		pos := n - 2 - i
		seq[i] = mag&(uint64(1)<<uint(pos)) != 0
	}

	runBit := seq[0]
	count := 0
	cursor := 0
	for cursor < len(seq) && seq[cursor] == runBit {
		count++
		cursor++
	}
	if cursor < len(seq) {
		cursor++ // consume the terminator bit
	}
	k := count - 1
	if !runBit {
		k = -count
	}

	remaining := seq[cursor:]
	eBits := es
	if eBits > len(remaining) {
		eBits = len(remaining)
	}
	// A truncated exponent field is right-padded with zero: the
	// captured bits are the high-order bits of the full ES-bit field.
	exponent := bitsToUint(remaining[:eBits]) << uint(es-eBits)
	fracSeq := remaining[eBits:]
	fb := len(fracSeq)
	frac := bitsToUint(fracSeq)

	scale := k*(1<<uint(es)) + int(exponent)
	return blocktriple.NewAdd(sign, scale, fb, frac, true)
}

// addOneWithCarry increments a big-endian bit string by one, reporting
// whether the carry escaped past the top (the string was all ones).
func addOneWithCarry(bits []bool) ([]bool, bool) {
	out := make([]bool, len(bits))
	copy(out, bits)
	carry := true
	for i := len(out) - 1; i >= 0 && carry; i-- {
		if out[i] {
			out[i] = false
		} else {
			out[i] = true
			carry = false
		}
	}
	return out, carry
}

// roundTrim cuts seq to keep bits with round-to-nearest-even and a
// sticky tail, padding with zeros if seq is already shorter than keep.
func roundTrim(seq []bool, keep int) []bool {
	if len(seq) <= keep {
		out := make([]bool, keep)
		copy(out, seq)
		return out
	}
	kept := append([]bool(nil), seq[:keep]...)
	guard := seq[keep]
	sticky := false
	for _, b := range seq[keep+1:] {
		if b {
			sticky = true
			break
		}
	}
	roundUp := false
	if guard {
		if sticky {
			roundUp = true
		} else if keep > 0 {
			roundUp = kept[keep-1] // tie: round to even
		}
	}
	if roundUp {
		bumped, overflow := addOneWithCarry(kept)
		if overflow {
			for i := range bumped {
				bumped[i] = true
			}
		}
		return bumped
	}
	return kept
}

// Round implements posit encode: separate scale into (k, e), emit the
// regime run, the exponent bits, and the fraction bits, then round the
// whole sequence down to the available width.
func Round(cfg config.Descriptor, t blocktriple.Triple) Posit {
	n, es := cfg.N, cfg.ES
	if t.Special == blocktriple.NaN || t.Special == blocktriple.Inf {
		return narPattern(cfg)
	}
	if t.Special == blocktriple.ZeroVal {
		return zeroPattern(cfg)
	}

	radix := 1 << uint(es)
	k := floorDiv(t.Scale, radix)
	e := t.Scale - k*radix

	var seq []bool
	if k >= 0 {
		for i := 0; i < k+1; i++ {
			seq = append(seq, true)
		}
		seq = append(seq, false)
	} else {
		for i := 0; i < -k; i++ {
			seq = append(seq, false)
		}
		seq = append(seq, true)
	}
	for i := es - 1; i >= 0; i-- {
		seq = append(seq, (e>>uint(i))&1 != 0)
	}
	fb := t.FracBits
	frac := t.Sig.Uint64() &^ (uint64(1) << uint(fb))
	for i := fb - 1; i >= 0; i-- {
		seq = append(seq, (frac>>uint(i))&1 != 0)
	}

	avail := n - 1
	kept := roundTrim(seq, avail)

	var posBits uint64
	for i, b := range kept {
		if b {
			posBits |= uint64(1) << uint(avail-1-i)
		}
	}

	full := posBits
	if t.Sign {
		full = (^posBits + 1) & allOnes(n)
	}
	return New(cfg, full)
}

func zeroPattern(cfg config.Descriptor) Posit { return New(cfg, 0) }

func narPattern(cfg config.Descriptor) Posit {
	return New(cfg, uint64(1)<<uint(cfg.N-1))
}

// IsZero reports whether p is the all-zero encoding.
func IsZero(p Posit) bool { return p.Bits&allOnes(p.Cfg.N) == 0 }

// IsNaR reports whether p is the not-a-real encoding.
func IsNaR(p Posit) bool {
	return p.Bits&allOnes(p.Cfg.N) == uint64(1)<<uint(p.Cfg.N-1)
}

// FromFloat64 converts a native float64 into cfg's format by decoding
// it through nfloat and rounding through the same funnel every
// operation uses. Posit has no separate infinity encoding, so both
// +-Inf and NaN collapse to NaR.
func FromFloat64(cfg config.Descriptor, v float64) Posit {
	d := nfloat.Decode64(v)
	switch d.Class {
	case nfloat.Zero:
		return zeroPattern(cfg)
	case nfloat.Infinity, nfloat.NaN:
		return narPattern(cfg)
	}
	const fb = 52
	scale := d.UnbiasedExponent()
	frac := d.Fraction
	if d.Class == nfloat.Subnormal {
		for frac != 0 && frac&(uint64(1)<<uint(fb)) == 0 {
			frac <<= 1
			scale--
		}
	}
	t := blocktriple.NewAdd(d.Sign, scale, fb, frac&((uint64(1)<<fb)-1), true)
	return Round(cfg, t)
}

// ToFloat64 widens p back to a native float64 via blocktriple decode.
func ToFloat64(p Posit) float64 {
	t := Decode(p)
	switch t.Special {
	case blocktriple.NaN, blocktriple.Inf:
		return math.NaN()
	case blocktriple.ZeroVal:
		return 0
	}
	mantissa := float64(t.Sig.Uint64())
	v := math.Ldexp(mantissa, t.Scale-t.FracBits)
	if t.Sign {
		v = -v
	}
	return v
}

// Add, Sub, Mul, Div implement posit arithmetic via decode -> blocktriple
// op -> round. Posit has no signed infinity, so division by zero
// produces NaR rather than a signed Inf (Round maps blocktriple's Inf
// special to narPattern regardless of sign).
func Add(a, b Posit) Posit {
	return Round(a.Cfg, blocktriple.Add(Decode(a), Decode(b)))
}

func Sub(a, b Posit) Posit {
	tb := Decode(b)
	tb.Sign = !tb.Sign
	return Round(a.Cfg, blocktriple.Add(Decode(a), tb))
}

func Mul(a, b Posit) Posit {
	return Round(a.Cfg, blocktriple.Mul(Decode(a), Decode(b)))
}

func Div(a, b Posit) Posit {
	return Round(a.Cfg, blocktriple.Div(Decode(a), Decode(b)))
}

// DivThrowing is Div's throwing-mode counterpart: division by zero reports
// an error instead of silently producing NaR.
func DivThrowing(a, b Posit) (Posit, error) {
	if IsZero(b) {
		if IsZero(a) {
			return Posit{}, errs.New(errs.InvalidOperation, "posit", "0/0")
		}
		return Posit{}, errs.New(errs.DivideByZero, "posit", "division by zero")
	}
	return Div(a, b), nil
}

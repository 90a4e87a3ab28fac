/*
 * universal - cfloat<N,E>: parameterized IEEE-754-like float
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

// Package cfloat implements a parameterized IEEE-754-like binary format
// with configurable width, exponent field, subnormals, supernormals, and
// saturation. Every arithmetic operation funnels through package
// blocktriple: decode to a triple, operate, round back (the rounding
// funnel), matching the data flow "encoded value -> decode to blocktriple
// -> operate -> round -> re-encode".
package cfloat

import (
	"math"

	"github.com/rcornwell/universal/blocktriple"
	"github.com/rcornwell/universal/config"
	"github.com/rcornwell/universal/internal/errs"
	"github.com/rcornwell/universal/internal/ulog"
	"github.com/rcornwell/universal/nfloat"
)

// Float is a cfloat value for a given Descriptor. It stores the raw N-bit
// pattern as a uint64 (the pack's widest format of interest fits
// comfortably; formats needing more than 64 bits are out of this
// implementation's storage scope, matching the widest register a limb can occupy).
type Float struct {
	Cfg  config.Descriptor
	Bits uint64
}

// New wraps a raw bit pattern against cfg. Callers that need "from a real
// number" construction should go through FromFloat64 instead.
func New(cfg config.Descriptor, bits uint64) Float {
	mask := uint64(1)<<uint(cfg.N) - 1
	return Float{Cfg: cfg, Bits: bits & mask}
}

func (f Float) signBit() bool { return f.Bits&(uint64(1)<<uint(f.Cfg.N-1)) != 0 }

func (f Float) expField() uint64 {
	fb := f.Cfg.FracBits()
	mask := uint64(1)<<uint(f.Cfg.ES) - 1
	return (f.Bits >> uint(fb)) & mask
}

func (f Float) fracField() uint64 {
	fb := f.Cfg.FracBits()
	mask := uint64(1)<<uint(fb) - 1
	return f.Bits & mask
}

func allOnes(bits int) uint64 { return uint64(1)<<uint(bits) - 1 }

// Decode implements the four-branch decode of the rounding funnel: zero,
// subnormal (normalized by left-shifting the fraction until its msb is
// set, adjusting scale), all-ones exponent (inf/NaN/normal-extended
// depending on supn), or plain normal.
func Decode(f Float) blocktriple.Triple {
	sign := f.signBit()
	exp := f.expField()
	frac := f.fracField()
	fb := f.Cfg.FracBits()
	bias := f.Cfg.Bias()

	switch {
	case exp == 0 && frac == 0:
		return blocktriple.NewZero(sign)

	case exp == 0: // subnormal
		if !f.Cfg.Subnormal {
			return blocktriple.NewZero(sign)
		}
		shift := 0
		shifted := frac
		for shifted != 0 && shifted&(uint64(1)<<uint(fb)) == 0 {
			shifted <<= 1
			shift++
		}
		scale := 1 - bias - shift
		return blocktriple.NewAdd(sign, scale, fb, shifted&allOnes(fb), true)

	case exp == allOnes(f.Cfg.ES):
		// All-ones exponent is inf (frac=0) / NaN (frac!=0) only when supn
		// allows reserving it; otherwise it is an ordinary extended-range
		// normal value, frac included.
		if f.Cfg.Supernormal {
			if frac == 0 {
				return blocktriple.NewInf(sign)
			}
			return blocktriple.NewNaN()
		}
		scale := int(exp) - bias
		return blocktriple.NewAdd(sign, scale, fb, frac, true)

	default:
		scale := int(exp) - bias
		return blocktriple.NewAdd(sign, scale, fb, frac, true)
	}
}

// Round implements the rounding funnel of the densest section: scale
// extraction, overflow, underflow-to-subnormal, underflow-to-zero,
// round-to-nearest-even, post-round carry, re-encode. It carries no
// exception trace; use RoundFlagged to observe overflow/underflow.
func Round(cfg config.Descriptor, t blocktriple.Triple) Float {
	return RoundFlagged(cfg, t, nil)
}

// RoundFlagged is Round with an optional exception trace: flags may be
// nil (identical to Round), and its overflow/underflow branches raise
// into flags when non-nil, the way a caller in non-silent mode observes
// what Round otherwise does quietly.
func RoundFlagged(cfg config.Descriptor, t blocktriple.Triple, flags *ulog.Flags) Float {
	if t.Special == blocktriple.NaN {
		return nanPattern(cfg)
	}
	if t.Special == blocktriple.Inf {
		return infPattern(cfg, t.Sign)
	}
	if t.Special == blocktriple.ZeroVal {
		return zeroPattern(cfg, t.Sign)
	}

	fb := cfg.FracBits()
	bias := cfg.Bias()
	eMax := (1 << uint(cfg.ES)) - 1 - bias
	if cfg.Supernormal {
		eMax++
	}
	eMin := 1 - bias
	if cfg.Subnormal {
		eMin = 2 - bias - fb
	}

	s := t.Scale

	// Overflow.
	if s > eMax {
		flags.Raise(ulog.EventOverflow, "cfloat")
		if cfg.Saturate {
			return maxPattern(cfg, t.Sign)
		}
		if cfg.Supernormal {
			return infPattern(cfg, t.Sign)
		}
		return maxPattern(cfg, t.Sign)
	}

	rt := blocktriple.RoundTo(t, fb)

	// Underflow to subnormal: re-round to fb-shift fraction bits, where
	// shift = (1-bias)-s. The rounded significand, hidden bit included,
	// is then the subnormal fraction field itself; a rounding carry into
	// bit fb lands in exponent field 1, the smallest normal.
	normalFloor := 1 - bias
	if s < normalFloor && cfg.Subnormal {
		flags.Raise(ulog.EventUnderflow, "cfloat")
		shift := normalFloor - s
		denormFrac := fb - shift
		if denormFrac < 0 {
			return zeroPattern(cfg, t.Sign)
		}
		rt = blocktriple.RoundTo(t, denormFrac)
		m := rt.Sig.Uint64() << uint(rt.Scale-s)
		return encode(cfg, t.Sign, m>>uint(fb), m&allOnes(fb))
	}

	// Underflow to zero (subn=false, or below subnormal floor too).
	if s < eMin {
		flags.Raise(ulog.EventUnderflow, "cfloat")
		return zeroPattern(cfg, t.Sign)
	}

	// rt.Sig holds [hidden | fraction] in fb+1 bits (IntBits=2, hidden at
	// bit fb); a post-round carry out of the hidden bit shows up as bit
	// fb+1 set, requiring one more renormalize-right + scale++ pass,
	// which can in turn overflow, hence the repeat of the overflow check.
	scale := s
	sigWord := rt.Sig.Uint64()
	hiddenBit := uint64(1) << uint(fb)
	if sigWord&(hiddenBit<<1) != 0 {
		sigWord >>= 1
		scale++
		if scale > eMax {
			flags.Raise(ulog.EventOverflow, "cfloat")
			if cfg.Saturate || !cfg.Supernormal {
				return maxPattern(cfg, t.Sign)
			}
			return infPattern(cfg, t.Sign)
		}
	}

	exp := uint64(scale + bias)
	frac := sigWord &^ hiddenBit
	return encode(cfg, t.Sign, exp, frac)
}

func encode(cfg config.Descriptor, sign bool, exp, frac uint64) Float {
	fb := cfg.FracBits()
	bits := frac & allOnes(fb)
	bits |= (exp & allOnes(cfg.ES)) << uint(fb)
	if sign {
		bits |= uint64(1) << uint(cfg.N-1)
	}
	return New(cfg, bits)
}

func zeroPattern(cfg config.Descriptor, sign bool) Float { return encode(cfg, sign, 0, 0) }

func infPattern(cfg config.Descriptor, sign bool) Float {
	if !cfg.Supernormal {
		// No inf encoding exists without a reserved all-ones exponent.
		return maxPattern(cfg, sign)
	}
	return encode(cfg, sign, allOnes(cfg.ES), 0)
}

func nanPattern(cfg config.Descriptor) Float {
	if !cfg.Supernormal {
		return maxPattern(cfg, false)
	}
	return encode(cfg, false, allOnes(cfg.ES), 1)
}

// maxPattern returns the saturating maxpos/maxneg bit pattern: the
// largest value the overflow path ever rounds to, one representable
// step below the top of the encodable range (reserved top pattern when
// supn requires one, or simply the highest value rounding ever produces
// otherwise) so that repeated saturating overflow is a fixed point.
func maxPattern(cfg config.Descriptor, sign bool) Float {
	fb := cfg.FracBits()
	if cfg.Subnormal && !cfg.Supernormal {
		return encode(cfg, sign, allOnes(cfg.ES), allOnes(fb)-1)
	}
	return encode(cfg, sign, allOnes(cfg.ES)-1, allOnes(fb))
}

// Classify reports the IEEE class of f.
func Classify(f Float) nfloat.Class {
	exp := f.expField()
	frac := f.fracField()
	switch {
	case exp == 0 && frac == 0:
		return nfloat.Zero
	case exp == 0:
		return nfloat.Subnormal
	case exp == allOnes(f.Cfg.ES) && f.Cfg.Supernormal:
		if frac == 0 {
			return nfloat.Infinity
		}
		return nfloat.NaN
	default:
		return nfloat.Normal
	}
}

// FromFloat64 converts a native float64 into cfg's format by decoding it
// through nfloat and rounding through the same funnel every operation
// uses.
func FromFloat64(cfg config.Descriptor, v float64) Float {
	d := nfloat.Decode64(v)
	switch d.Class {
	case nfloat.Zero:
		return zeroPattern(cfg, d.Sign)
	case nfloat.Infinity:
		return infPattern(cfg, d.Sign)
	case nfloat.NaN:
		return nanPattern(cfg)
	}
	const fb = 52
	scale := d.UnbiasedExponent()
	frac := d.Fraction
	if d.Class == nfloat.Subnormal {
		// Normalize: shift left until the msb lands at bit fb, the hidden
		// bit's place, same as cfloat's own subnormal decode branch.
		for frac != 0 && frac&(uint64(1)<<uint(fb)) == 0 {
			frac <<= 1
			scale--
		}
	}
	t := blocktriple.NewAdd(d.Sign, scale, fb, frac&((uint64(1)<<fb)-1), true)
	return Round(cfg, t)
}

// ToFloat64 widens f back to a native float64 via blocktriple decode.
func ToFloat64(f Float) float64 {
	t := Decode(f)
	switch t.Special {
	case blocktriple.Inf:
		if t.Sign {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case blocktriple.NaN:
		return math.NaN()
	case blocktriple.ZeroVal:
		if t.Sign {
			return math.Copysign(0, -1)
		}
		return 0
	}
	mantissa := float64(t.Sig.Uint64())
	v := math.Ldexp(mantissa, t.Scale-t.FracBits)
	if t.Sign {
		v = -v
	}
	return v
}

// Add, Sub, Mul, Div implement cfloat arithmetic via decode -> blocktriple
// op -> round. Each has an -Flagged counterpart taking a *ulog.Flags to
// observe overflow/underflow instead of discarding them.
func Add(a, b Float) Float { return AddFlagged(a, b, nil) }

func AddFlagged(a, b Float, flags *ulog.Flags) Float {
	ta, tb := Decode(a), Decode(b)
	return RoundFlagged(a.Cfg, blocktriple.Add(ta, tb), flags)
}

func Sub(a, b Float) Float { return SubFlagged(a, b, nil) }

func SubFlagged(a, b Float, flags *ulog.Flags) Float {
	tb := Decode(b)
	tb.Sign = !tb.Sign
	return RoundFlagged(a.Cfg, blocktriple.Add(Decode(a), tb), flags)
}

func Mul(a, b Float) Float { return MulFlagged(a, b, nil) }

func MulFlagged(a, b Float, flags *ulog.Flags) Float {
	ta, tb := Decode(a), Decode(b)
	return RoundFlagged(a.Cfg, blocktriple.Mul(ta, tb), flags)
}

// Div returns a/b; if b is zero and a is not, silent mode produces a
// signed infinity (matching IEEE), and DivThrowing is available for
// callers in throwing mode.
func Div(a, b Float) Float { return DivFlagged(a, b, nil) }

func DivFlagged(a, b Float, flags *ulog.Flags) Float {
	ta, tb := Decode(a), Decode(b)
	return RoundFlagged(a.Cfg, blocktriple.Div(ta, tb), flags)
}

// DivThrowing is Div's throwing-mode counterpart: it returns
// errs.DivideByZero for x/0 (x!=0) and errs.InvalidOperation for 0/0,
// rather than silently propagating Inf/NaN.
func DivThrowing(a, b Float) (Float, error) {
	if Classify(b) == nfloat.Zero {
		if Classify(a) == nfloat.Zero {
			return Float{}, errs.New(errs.InvalidOperation, "cfloat", "0/0")
		}
		return Float{}, errs.New(errs.DivideByZero, "cfloat", "division by zero")
	}
	return Div(a, b), nil
}

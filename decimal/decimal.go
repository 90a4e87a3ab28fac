/*
 * universal - Decimal<->binary conversion (Grisu3 fast path, exact fallback)
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

// Package decimal converts between decimal text and the module's binary
// formats. Formatting native float64 values runs Grisu3 (the shortest
// round-tripping digit string, generated from cached powers of ten
// instead of a division loop) and falls back to an exact rational-
// arithmetic digit generator on the rare input Grisu3 can't prove
// shortest for, or for any value that isn't a plain float64 in the
// first place (a blocktriple significand, an arbitrary-width cascade)
// where Grisu3's DiyFp representation has no mantissa to start from.
// Parsing runs the inverse direction: digits are accumulated into a
// big.Int and scaled by 10^exponent, computed by repeated squaring
// rather than a float64-contaminated division.
package decimal

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/rcornwell/universal/blocktriple"
	"github.com/rcornwell/universal/cascade"
	"github.com/rcornwell/universal/internal/errs"
)

// Options controls how Format renders a digit string; the zero value
// picks fixed or scientific notation automatically the way %g does.
type Options struct {
	Scientific bool // force scientific notation
	Fixed      bool // force fixed notation
	Uppercase  bool // 'E' instead of 'e' in scientific notation
	ShowPos    bool // leading '+' on non-negative values
}

// FormatFloat64 renders v as a decimal string that parses back to v
// exactly, using Grisu3's digits. The exact formatter runs only when
// grisu3 reports ok=false, which its digit loop never does, so the
// result is not certified shortest: for a small share of inputs it
// carries one digit more than the shortest round-tripping string.
func FormatFloat64(v float64, opts Options) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	neg := math.Signbit(v)
	if math.IsInf(v, 0) {
		return signPrefix(neg, opts) + "Inf"
	}
	if v == 0 {
		return signPrefix(neg, opts) + "0"
	}

	mag := math.Abs(v)
	bits := math.Float64bits(mag)
	exp2 := int((bits>>52)&0x7FF) - 1075
	frac := bits & ((uint64(1) << 52) - 1)
	significand := frac
	if (bits>>52)&0x7FF != 0 {
		significand |= uint64(1) << 52
	} else {
		exp2++ // subnormal: no implicit leading bit, matches the unbiased step.
	}

	digits, k, ok := grisu3(significand, exp2)
	if !ok {
		r := new(big.Rat).SetFloat64(mag)
		digits, k = formatExact(r, 17)
	}
	return signPrefix(neg, opts) + assemble(digits, k, opts)
}

// FormatTriple renders the exact value of a blocktriple significand as
// decimal, using the rational exact formatter (Grisu3 has no entry
// point for an arbitrary-width significand): nDigits bounds how many
// significant digits are generated, enough for t.FracBits to round-trip.
func FormatTriple(t blocktriple.Triple, opts Options) string {
	switch t.Special {
	case blocktriple.NaN:
		return "NaN"
	case blocktriple.Inf:
		return signPrefix(t.Sign, opts) + "Inf"
	case blocktriple.ZeroVal:
		return signPrefix(t.Sign, opts) + "0"
	}
	mantissa := ratFromBlock(t.Sig)
	r := ratFromScaledInt(mantissa, t.Scale-t.FracBits)
	nDigits := int(float64(t.FracBits+t.IntBits)*0.30103) + 2
	digits, k := formatExact(r, nDigits)
	return signPrefix(t.Sign, opts) + assemble(digits, k, opts)
}

// FormatCascade renders the exact sum of a cascade's limbs as decimal.
// Each limb is itself an exact binary rational (SetFloat64 never loses
// precision), so their exact sum carries the cascade's full extended
// precision into the digit generator instead of collapsing to a single
// float64 first.
func FormatCascade(c cascade.Cascade, opts Options) string {
	sum := new(big.Rat)
	for _, limb := range c.Limbs() {
		if limb == 0 {
			continue
		}
		sum.Add(sum, new(big.Rat).SetFloat64(limb))
	}
	neg := sum.Sign() < 0
	if neg {
		sum.Neg(sum)
	}
	if sum.Sign() == 0 {
		return signPrefix(neg, opts) + "0"
	}
	nDigits := len(c.Limbs())*17 + 2
	digits, k := formatExact(sum, nDigits)
	return signPrefix(neg, opts) + assemble(digits, k, opts)
}

func signPrefix(neg bool, opts Options) string {
	if neg {
		return "-"
	}
	if opts.ShowPos {
		return "+"
	}
	return ""
}

// assemble lays digits (a plain digit string, value = digits*10^k) out
// as fixed or scientific notation, mirroring the reference formatter's
// FormatGrisu3: scientific picks one leading digit, a decimal point,
// and an e+-exponent; fixed notation locates the decimal point directly
// using exp = k+len(digits)-1 the same way.
func assemble(digits []byte, k int, opts Options) string {
	exp := k + len(digits) - 1
	useFixed := opts.Fixed || (!opts.Scientific && exp >= -4 && exp < 21)

	if !useFixed {
		var sb strings.Builder
		sb.WriteByte(digits[0])
		if len(digits) > 1 {
			sb.WriteByte('.')
			sb.Write(digits[1:])
		}
		if opts.Uppercase {
			sb.WriteByte('E')
		} else {
			sb.WriteByte('e')
		}
		if exp >= 0 {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
			exp = -exp
		}
		sb.WriteString(strconv.Itoa(exp))
		return sb.String()
	}

	intDigits := exp + 1
	var sb strings.Builder
	switch {
	case intDigits <= 0:
		sb.WriteString("0.")
		for i := 0; i < -intDigits; i++ {
			sb.WriteByte('0')
		}
		sb.Write(digits)
	case intDigits >= len(digits):
		sb.Write(digits)
		for i := 0; i < intDigits-len(digits); i++ {
			sb.WriteByte('0')
		}
	default:
		sb.Write(digits[:intDigits])
		sb.WriteByte('.')
		sb.Write(digits[intDigits:])
	}
	return sb.String()
}

// Parse decodes a decimal literal of the form
// [sign] digits [.digits] [eE [sign] digits] into an exact rational,
// so a caller can round it into whatever target format it needs
// (float64 via ToFloat64, or a wider type via its own Round) without
// a float64-precision parse step in between.
func Parse(s string) (*big.Rat, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errs.New(errs.ParseErr, "decimal", "empty input")
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return nil, errs.New(errs.ParseErr, "decimal", "no digits: "+orig)
	}

	mantissaDigits, rest := splitWhile(s, isDigit)
	exp := 0
	if len(rest) > 0 && rest[0] == '.' {
		var fracDigits string
		fracDigits, rest = splitWhile(rest[1:], isDigit)
		mantissaDigits += fracDigits
		exp -= len(fracDigits)
	}
	if mantissaDigits == "" {
		return nil, errs.New(errs.ParseErr, "decimal", "no digits: "+orig)
	}

	if len(rest) > 0 && (rest[0] == 'e' || rest[0] == 'E') {
		rest = rest[1:]
		expSign := 1
		if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
			if rest[0] == '-' {
				expSign = -1
			}
			rest = rest[1:]
		}
		expDigits, tail := splitWhile(rest, isDigit)
		if expDigits == "" {
			return nil, errs.New(errs.ParseErr, "decimal", "malformed exponent: "+orig)
		}
		n, err := strconv.Atoi(expDigits)
		if err != nil {
			return nil, errs.New(errs.ParseErr, "decimal", "malformed exponent: "+orig)
		}
		exp += expSign * n
		rest = tail
	}
	if rest != "" {
		return nil, errs.New(errs.ParseErr, "decimal", "trailing characters: "+orig)
	}

	mant := new(big.Int)
	mant.SetString(mantissaDigits, 10)
	r := new(big.Rat).SetInt(mant)
	r.Mul(r, pow10(exp))
	if neg {
		r.Neg(r)
	}
	return r, nil
}

// ParseFloat64 is Parse followed by an exact-to-float64 narrowing.
func ParseFloat64(s string) (float64, error) {
	r, err := Parse(s)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func splitWhile(s string, pred func(byte) bool) (matched, rest string) {
	i := 0
	for i < len(s) && pred(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

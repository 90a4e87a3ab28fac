/*
 * universal - Exact rational-arithmetic decimal fallback formatter
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

package decimal

import (
	"math"
	"math/big"

	"github.com/rcornwell/universal/bitblock"
)

// pow10 computes 10^|exp| by repeated squaring rather than a multiply
// loop, the way §4.9 requires pow(10,exp) be computed when reconstructing
// a parsed value, so a long decimal exponent costs O(log exp)
// multiplications in the target's own arithmetic instead of O(exp) and
// never touches a float64 intermediate.
func pow10(exp int) *big.Rat {
	neg := exp < 0
	e := exp
	if neg {
		e = -e
	}
	base := big.NewRat(10, 1)
	result := big.NewRat(1, 1)
	for e > 0 {
		if e&1 == 1 {
			result.Mul(result, base)
		}
		base.Mul(base, base)
		e >>= 1
	}
	if neg {
		result.Inv(result)
	}
	return result
}

// ratFromBlock widens a bitblock significand into an exact big.Int,
// bit by bit (the same extraction blocktriple's own decode helpers use,
// generalized since bitblock carries no native big.Int accessor).
func ratFromBlock(sig bitblock.Block) *big.Int {
	n := new(big.Int)
	for i := sig.Width() - 1; i >= 0; i-- {
		n.Lsh(n, 1)
		if sig.Get(i) {
			n.SetBit(n, 0, 1)
		}
	}
	return n
}

// ratFromScaledInt builds the exact rational value mantissa*2^exp2.
func ratFromScaledInt(mantissa *big.Int, exp2 int) *big.Rat {
	r := new(big.Rat).SetInt(mantissa)
	if exp2 == 0 {
		return r
	}
	scale := new(big.Int).Lsh(big.NewInt(1), uint(abs(exp2)))
	scaleRat := new(big.Rat).SetInt(scale)
	if exp2 > 0 {
		r.Mul(r, scaleRat)
	} else {
		r.Quo(r, scaleRat)
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// formatExact generates up to nDigits significant decimal digits of the
// exact magnitude r (r must be >= 0), by repeatedly extracting the
// integer part of a decade-scaled remainder the way long division
// extracts digits one at a time, rounding the last digit to nearest
// (ties away from zero) instead of truncating. It returns (digits, K)
// in the same convention grisu3 returns them: value equals the digit
// string read as a plain integer times 10^K, so both feed the same
// assembly code downstream.
func formatExact(r *big.Rat, nDigits int) (digits []byte, k int) {
	if r.Sign() == 0 {
		return []byte{'0'}, 0
	}

	// Estimate the leading digit's power of ten from a float64
	// approximation; the exact rational comparisons below correct any
	// off-by-one the approximation introduces.
	f, _ := r.Float64()
	var lead int
	if f == 0 || math.IsInf(f, 0) {
		// r over/underflowed float64's range (a very wide cfloat/cascade
		// exponent); estimate from the rational's own bit lengths instead.
		bits := r.Num().BitLen() - r.Denom().BitLen()
		lead = int(float64(bits) * math.Log10(2))
	} else {
		lead = int(math.Floor(math.Log10(f)))
	}

	scale := func(e int) *big.Rat {
		if e >= 0 {
			return new(big.Rat).Quo(r, pow10(e))
		}
		return new(big.Rat).Mul(r, pow10(-e))
	}

	one := big.NewRat(1, 1)
	ten := big.NewRat(10, 1)
	mantissa := scale(lead)
	for mantissa.Cmp(one) < 0 {
		lead--
		mantissa = scale(lead)
	}
	for mantissa.Cmp(ten) >= 0 {
		lead++
		mantissa = scale(lead)
	}

	buf := make([]byte, 0, nDigits)
	rem := new(big.Rat).Set(mantissa)
	for i := 0; i < nDigits; i++ {
		d := new(big.Int).Quo(rem.Num(), rem.Denom())
		digit := d.Int64()
		buf = append(buf, byte('0'+digit))
		rem.Sub(rem, new(big.Rat).SetInt(d))
		rem.Mul(rem, ten)
	}

	// Round the last digit to nearest using the leftover remainder
	// (still scaled by ten from the loop above, so compare against 5).
	half := big.NewRat(5, 1)
	if rem.Cmp(half) >= 0 {
		// roundLastDigitUp bumps lead itself on a carry-out of the
		// leading digit (e.g. 999 -> 1000, reported as "1" with lead+1).
		buf = roundLastDigitUp(buf, &lead)
	}

	buf = trimTrailingZeros(buf)
	k = lead - len(buf) + 1
	return buf, k
}

func trimTrailingZeros(buf []byte) []byte {
	end := len(buf)
	for end > 1 && buf[end-1] == '0' {
		end--
	}
	return buf[:end]
}

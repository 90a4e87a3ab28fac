/*
 * universal - Fixed-width bit container
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

// Package bitblock implements Bitblock(N): an ordered, fixed-width sequence
// of bits indexed lsb=0, used as the storage substrate for blocktriple,
// cfloat, posit, lns, takum and quire. The target has no const-generic
// array length, so width is a runtime descriptor carried
// alongside a little-endian []uint64 word slice; every operation that
// would mutate in place instead returns a new value so a Block is safe to
// pass and store by value like the source's fixed-width template.
package bitblock

import "strings"

const wordBits = 64

// Block is an immutable-width, value-semantics bit container. The zero
// value is not useful; construct with New.
type Block struct {
	width int
	words []uint64
}

// New returns a zero Block of the given width. width must be > 0.
func New(width int) Block {
	if width <= 0 {
		panic("bitblock: width must be positive")
	}
	n := (width + wordBits - 1) / wordBits
	return Block{width: width, words: make([]uint64, n)}
}

// FromUint64 returns a width-bit Block holding the low bits of v, masking
// off anything beyond width.
func FromUint64(width int, v uint64) Block {
	b := New(width)
	b.words[0] = v
	b.mask()
	return b
}

// Width reports the fixed bit width of b.
func (b Block) Width() int { return b.width }

func (b Block) wordCount() int { return len(b.words) }

// mask clears any bits beyond b.width in the top word (in place on a
// value the caller owns exclusively, e.g. one just constructed by Clone).
func (b Block) mask() {
	rem := b.width % wordBits
	if rem == 0 {
		return
	}
	top := b.wordCount() - 1
	b.words[top] &= (uint64(1) << uint(rem)) - 1
}

// Clone returns an independent copy so the caller can mutate without
// aliasing the receiver's backing array.
func (b Block) Clone() Block {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return Block{width: b.width, words: words}
}

// Get reports bit i (0 = lsb). i must be in [0, Width()).
func (b Block) Get(i int) bool {
	if i < 0 || i >= b.width {
		panic("bitblock: index out of range")
	}
	return (b.words[i/wordBits]>>uint(i%wordBits))&1 != 0
}

// Set returns a copy of b with bit i set to v.
func (b Block) Set(i int, v bool) Block {
	if i < 0 || i >= b.width {
		panic("bitblock: index out of range")
	}
	out := b.Clone()
	w := i / wordBits
	m := uint64(1) << uint(i%wordBits)
	if v {
		out.words[w] |= m
	} else {
		out.words[w] &^= m
	}
	return out
}

// IsZero reports whether every bit is 0.
func (b Block) IsZero() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Msb returns the index of the highest set bit, or -1 if b is zero.
func (b Block) Msb() int {
	for w := b.wordCount() - 1; w >= 0; w-- {
		if b.words[w] == 0 {
			continue
		}
		word := b.words[w]
		bit := 63
		for bit >= 0 && (word>>uint(bit))&1 == 0 {
			bit--
		}
		return w*wordBits + bit
	}
	return -1
}

// Shl returns b shifted left by n bits, dropping bits shifted past
// Width()-1 and filling with zero from the lsb.
func (b Block) Shl(n int) Block {
	out := New(b.width)
	if n >= b.width {
		return out
	}
	if n <= 0 {
		return b.Clone()
	}
	wordShift, bitShift := n/wordBits, n%wordBits
	for w := b.wordCount() - 1; w >= 0; w-- {
		var v uint64
		srcW := w - wordShift
		if srcW >= 0 {
			v = b.words[srcW] << uint(bitShift)
			if bitShift != 0 && srcW-1 >= 0 {
				v |= b.words[srcW-1] >> uint(wordBits-bitShift)
			}
		}
		out.words[w] = v
	}
	out.mask()
	return out
}

// Shr returns b shifted right (logical) by n bits.
func (b Block) Shr(n int) Block {
	r, _ := b.ShrSticky(n)
	return r
}

// ShrSticky shifts right by n bits and additionally reports whether any
// bit shifted out was a 1 — the "sticky" bit used to round a blocktriple's
// guard region without losing information about discarded
// precision.
func (b Block) ShrSticky(n int) (Block, bool) {
	out := New(b.width)
	if n <= 0 {
		return b.Clone(), false
	}
	if n >= b.width {
		return out, !b.IsZero()
	}
	wordShift, bitShift := n/wordBits, n%wordBits
	for w := 0; w < b.wordCount(); w++ {
		srcW := w + wordShift
		var v uint64
		if srcW < b.wordCount() {
			v = b.words[srcW] >> uint(bitShift)
			if bitShift != 0 && srcW+1 < b.wordCount() {
				v |= b.words[srcW+1] << uint(wordBits-bitShift)
			}
		}
		out.words[w] = v
	}
	out.mask()

	sticky := false
	lost := b.Clone()
	for i := 0; i < n && i < b.width; i++ {
		if lost.Get(i) {
			sticky = true
			break
		}
	}
	return out, sticky
}

// Add returns a+b (mod 2^width) and the carry out of the top bit. Carry
// propagation is done a bit at a time; widths here run to a few hundred
// bits at most (quire accumulators are the widest user), so the simple
// loop costs nothing that matters next to the word-parallel path it would
// replace.
func (a Block) Add(b Block) (Block, bool) {
	if a.width != b.width {
		panic("bitblock: width mismatch")
	}
	out := New(a.width)
	var carry uint64
	for i := 0; i < a.width; i++ {
		abit := boolBit(a.Get(i))
		bbit := boolBit(b.Get(i))
		s := abit + bbit + carry
		out = out.Set(i, s&1 != 0)
		carry = s >> 1
	}
	return out, carry != 0
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Sub returns a-b (mod 2^width) and the borrow out (true if b > a
// unsigned).
func (a Block) Sub(b Block) (Block, bool) {
	if a.width != b.width {
		panic("bitblock: width mismatch")
	}
	borrow := a.Less(b)
	bc := b.Clone()
	// two's complement subtraction within width bits.
	notB := New(a.width)
	for i := 0; i < a.width; i++ {
		notB = notB.Set(i, !bc.Get(i))
	}
	one := FromUint64(a.width, 1)
	twosComp, _ := notB.Add(one)
	result, _ := a.Add(twosComp)
	return result, borrow
}

// Equals reports bit-for-bit equality (widths must match).
func (a Block) Equals(b Block) bool {
	if a.width != b.width {
		return false
	}
	for w := range a.words {
		if a.words[w] != b.words[w] {
			return false
		}
	}
	return true
}

// Less reports whether a < b as unsigned integers.
func (a Block) Less(b Block) bool {
	if a.width != b.width {
		panic("bitblock: width mismatch")
	}
	for w := a.wordCount() - 1; w >= 0; w-- {
		if a.words[w] != b.words[w] {
			return a.words[w] < b.words[w]
		}
	}
	return false
}

// Uint64 returns the low 64 bits of b, for widths <= 64 the whole value.
func (b Block) Uint64() uint64 {
	if len(b.words) == 0 {
		return 0
	}
	return b.words[0]
}

// HexString renders b as an uppercase hex literal, msb first, matching the
// fixed nibble-grouped style a hex dump helper typically uses.
func (b Block) HexString() string {
	const hexMap = "0123456789ABCDEF"
	var sb strings.Builder
	nibbles := (b.width + 3) / 4
	for n := nibbles - 1; n >= 0; n-- {
		lo := n * 4
		var v byte
		for i := 0; i < 4; i++ {
			if lo+i < b.width && b.Get(lo+i) {
				v |= 1 << uint(i)
			}
		}
		sb.WriteByte(hexMap[v])
	}
	return sb.String()
}

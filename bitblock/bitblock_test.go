package bitblock

import (
	"math/rand/v2"
	"testing"
)

func TestGetSet(t *testing.T) {
	b := New(12)
	for i := 0; i < 12; i++ {
		if b.Get(i) {
			t.Fatalf("bit %d expected clear", i)
		}
	}
	b = b.Set(5, true)
	if !b.Get(5) {
		t.Fatal("bit 5 expected set")
	}
	if b.Get(4) || b.Get(6) {
		t.Fatal("only bit 5 should be set")
	}
}

func TestMsb(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, -1},
		{1, 0},
		{0x80, 7},
		{0xFFFF, 15},
	}
	for _, c := range cases {
		b := FromUint64(16, c.v)
		if got := b.Msb(); got != c.want {
			t.Errorf("Msb(%#x) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestShl(t *testing.T) {
	b := FromUint64(8, 0b00000011)
	got := b.Shl(2)
	if got.Uint64() != 0b00001100 {
		t.Errorf("Shl(2) = %08b, want %08b", got.Uint64(), 0b1100)
	}
	// shifting past width zeroes out.
	if !b.Shl(8).IsZero() {
		t.Error("Shl past width should be zero")
	}
}

func TestShrSticky(t *testing.T) {
	b := FromUint64(8, 0b00000111)
	got, sticky := b.ShrSticky(1)
	if got.Uint64() != 0b00000011 {
		t.Errorf("ShrSticky value = %b", got.Uint64())
	}
	if !sticky {
		t.Error("expected sticky bit set (bit 0 was 1)")
	}
	got, sticky = FromUint64(8, 0b00000100).ShrSticky(1)
	if got.Uint64() != 0b00000010 || sticky {
		t.Errorf("unexpected result %b sticky=%v", got.Uint64(), sticky)
	}
}

func TestAddCarry(t *testing.T) {
	a := FromUint64(8, 0xFF)
	b := FromUint64(8, 0x01)
	sum, carry := a.Add(b)
	if !carry {
		t.Error("expected carry out")
	}
	if sum.Uint64() != 0 {
		t.Errorf("sum = %d, want 0", sum.Uint64())
	}
}

func TestSubBorrow(t *testing.T) {
	a := FromUint64(8, 0x01)
	b := FromUint64(8, 0x02)
	diff, borrow := a.Sub(b)
	if !borrow {
		t.Error("expected borrow")
	}
	if diff.Uint64() != 0xFF {
		t.Errorf("diff = %#x, want 0xff", diff.Uint64())
	}
}

func TestCompare(t *testing.T) {
	a := FromUint64(16, 100)
	b := FromUint64(16, 200)
	if !a.Less(b) {
		t.Error("100 should be < 200")
	}
	if b.Less(a) {
		t.Error("200 should not be < 100")
	}
	if !a.Equals(FromUint64(16, 100)) {
		t.Error("equal values should compare equal")
	}
}

func TestAddAgainstUint64(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		av := uint32(rng.Uint64())
		bv := uint32(rng.Uint64())
		a := FromUint64(32, uint64(av))
		b := FromUint64(32, uint64(bv))
		sum, carry := a.Add(b)
		want := uint64(av) + uint64(bv)
		wantCarry := want > 0xFFFFFFFF
		if sum.Uint64() != want&0xFFFFFFFF || carry != wantCarry {
			t.Fatalf("Add(%d,%d) = (%d,%v), want (%d,%v)", av, bv, sum.Uint64(), carry, want&0xFFFFFFFF, wantCarry)
		}
	}
}

func TestHexString(t *testing.T) {
	b := FromUint64(16, 0xABCD)
	if got := b.HexString(); got != "ABCD" {
		t.Errorf("HexString() = %q, want ABCD", got)
	}
}

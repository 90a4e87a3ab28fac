package blocktriple

import "testing"

// val reconstructs the real number a Triple encodes: treat Sig as an
// unsigned integer and place the radix point so the hidden bit sits at
// 2^Scale.
func val(t Triple) float64 {
	v := 0.0
	for i := t.Sig.Width() - 1; i >= 0; i-- {
		v *= 2
		if t.Sig.Get(i) {
			v++
		}
	}
	sign := 1.0
	if t.Sign {
		sign = -1.0
	}
	return sign * v * pow2(t.Scale-t.FracBits)
}

func pow2(n int) float64 {
	v := 1.0
	if n >= 0 {
		for i := 0; i < n; i++ {
			v *= 2
		}
		return v
	}
	for i := 0; i < -n; i++ {
		v /= 2
	}
	return v
}

func TestAddSameSign(t *testing.T) {
	// 1.5 + 1.25 with 4 fraction bits: 1.5 = 1.1000, 1.25 = 1.0100, both
	// scale 0, hidden bit at position 4.
	a := NewAdd(false, 0, 4, 0x8, true) // fraction 1000 = .5, hidden -> 1.5
	b := NewAdd(false, 0, 4, 0x4, true) // fraction 0100 = .25, hidden -> 1.25
	sum := Add(a, b)
	got := val(sum)
	if got != 2.75 {
		t.Fatalf("1.5+1.25 = %v, want 2.75", got)
	}
}

func TestAddCarryRenormalizes(t *testing.T) {
	// 1.9375 + 1.9375 = 3.875, forces a carry out of the hidden bit.
	a := NewAdd(false, 0, 4, 0xF, true)
	b := NewAdd(false, 0, 4, 0xF, true)
	sum := Add(a, b)
	if got := val(sum); got != 3.875 {
		t.Fatalf("1.9375+1.9375 = %v, want 3.875", got)
	}
}

func TestAddOppositeSignsCancel(t *testing.T) {
	a := NewAdd(false, 0, 4, 0x8, true) // 1.5
	b := NewAdd(true, 0, 4, 0x8, true)  // -1.5
	sum := Add(a, b)
	if sum.Special != ZeroVal {
		t.Fatalf("1.5 + (-1.5) = %v, want Zero", sum)
	}
}

func TestAddInfAndNaN(t *testing.T) {
	inf := NewInf(false)
	ninf := NewInf(true)
	if got := Add(inf, ninf); got.Special != NaN {
		t.Fatalf("Inf + (-Inf) = %v, want NaN", got)
	}
	if got := Add(inf, NewAdd(false, 0, 4, 0, true)); got.Special != Inf {
		t.Fatalf("Inf + finite should stay Inf")
	}
	if got := Add(NewNaN(), NewAdd(false, 0, 4, 0, true)); got.Special != NaN {
		t.Fatalf("NaN + finite should stay NaN")
	}
}

func TestMulBasic(t *testing.T) {
	a := NewMul(false, 0, 4, 0x8, true) // 1.5
	b := NewMul(false, 0, 4, 0x8, true) // 1.5
	p := Mul(a, b)
	got := val(p)
	if diff := got - 2.25; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("1.5*1.5 = %v, want 2.25", got)
	}
}

func TestMulZeroAndInf(t *testing.T) {
	z := NewZero(false)
	one := NewMul(false, 0, 4, 0, true)
	if got := Mul(z, one); got.Special != ZeroVal {
		t.Fatalf("0*1 should be Zero, got %v", got)
	}
	if got := Mul(z, NewInf(false)); got.Special != NaN {
		t.Fatalf("0*Inf should be NaN, got %v", got)
	}
}

func TestDivBasic(t *testing.T) {
	a := NewMul(false, 1, 4, 0, true) // 2.0 (scale 1, hidden bit only)
	b := NewMul(false, 0, 4, 0, true) // 1.0
	q := Div(a, b)
	got := val(q)
	if diff := got - 2.0; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("2.0/1.0 = %v, want 2.0", got)
	}
}

func TestDivByZero(t *testing.T) {
	one := NewMul(false, 0, 4, 0, true)
	if got := Div(one, NewZero(false)); got.Special != Inf {
		t.Fatalf("1/0 should be Inf, got %v", got)
	}
	if got := Div(NewZero(false), NewZero(false)); got.Special != NaN {
		t.Fatalf("0/0 should be NaN, got %v", got)
	}
}

func TestRoundToNearestEven(t *testing.T) {
	// 1.00011 (5 frac bits) rounded to 4 frac bits: guard=1, sticky=0 is a tie,
	// and the odd kept lsb (1.0001) rounds up to even -> 1.0010.
	a := NewAdd(false, 0, 5, 0x03, true) // fraction 00011
	r := RoundTo(a, 4)
	if r.FracBits != 4 {
		t.Fatalf("RoundTo did not narrow FracBits: got %d", r.FracBits)
	}
	got := val(r)
	if diff := got - 1.125; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("round(1+3/32) to 4 frac bits = %v, want 1.125", got)
	}
}

func TestRoundToTieToEven(t *testing.T) {
	// 1.00001 (5 frac bits): exact tie between 1.0000 and 1.0001; the
	// lsb of 1.0000 is even, so it should round down to 1.0.
	a := NewAdd(false, 0, 5, 0x01, true)
	r := RoundTo(a, 4)
	if got := val(r); got != 1.0 {
		t.Fatalf("tie round-to-even = %v, want 1.0", got)
	}
}

func TestRoundToWider(t *testing.T) {
	a := NewAdd(false, 0, 2, 0x1, true)
	r := RoundTo(a, 5)
	if r.FracBits != 5 {
		t.Fatalf("RoundTo should widen FracBits to 5, got %d", r.FracBits)
	}
	if got := val(r); got != val(a) {
		t.Fatalf("widening RoundTo changed value: got %v, want %v", got, val(a))
	}
}

func TestRoundToSpecialPassthrough(t *testing.T) {
	inf := NewInf(true)
	if got := RoundTo(inf, 4); got.Special != Inf || got.Sign != true {
		t.Fatalf("RoundTo should pass through specials unchanged, got %v", got)
	}
}

package quire

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rcornwell/universal/blocktriple"
	"github.com/rcornwell/universal/internal/errs"
)

func tripleFromFloat(v float64, fracBits int) blocktriple.Triple {
	sign := math.Signbit(v)
	mag := math.Abs(v)
	if mag == 0 {
		return blocktriple.NewZero(sign)
	}
	frac, exp := math.Frexp(mag) // mag = frac*2^exp, frac in [0.5,1)
	scale := exp - 1
	mantissa := frac * 2 // in [1,2)
	fraction := uint64(math.Round((mantissa - 1) * float64(uint64(1)<<uint(fracBits))))
	return blocktriple.NewAdd(sign, scale, fracBits, fraction, true)
}

func tripleToFloat(t blocktriple.Triple) float64 {
	if t.Special == blocktriple.ZeroVal {
		return 0
	}
	// ToTriple's significand can be far wider than 64 bits, so every bit
	// is read, not just Uint64's low word.
	v := 0.0
	for i := t.Sig.Width() - 1; i >= 0; i-- {
		v *= 2
		if t.Sig.Get(i) {
			v++
		}
	}
	return math.Ldexp(v, t.Scale-t.FracBits)
}

func TestAddAndReadBack(t *testing.T) {
	q := New(32, 16)
	a := tripleFromFloat(3.5, 20)
	b := tripleFromFloat(1.25, 20)
	if err := q.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := q.Add(b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := tripleToFloat(q.ToTriple())
	if math.Abs(got-4.75) > 1e-6 {
		t.Fatalf("3.5+1.25 = %v, want 4.75", got)
	}
}

func TestSubCancelsToZero(t *testing.T) {
	q := New(32, 16)
	a := tripleFromFloat(7.0, 20)
	if err := q.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := q.Sub(a); err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !q.IsZero() {
		t.Fatalf("x + (-x) should leave the accumulator at zero")
	}
}

func TestAccumulationOrderIndependent(t *testing.T) {
	vals := []float64{1.0, 1e6, -1.0, -1e6, 3.5, -3.5, 0.125}
	order1 := append([]float64(nil), vals...)
	order2 := []float64{vals[3], vals[1], vals[5], vals[0], vals[2], vals[6], vals[4]}

	sum := func(order []float64) float64 {
		q := New(64, 32)
		for _, v := range order {
			if err := q.Add(tripleFromFloat(v, 40)); err != nil {
				t.Fatalf("Add(%v): %v", v, err)
			}
		}
		return tripleToFloat(q.ToTriple())
	}

	s1 := sum(order1)
	s2 := sum(order2)
	if math.Abs(s1-s2) > 1e-9 {
		t.Fatalf("accumulation order changed the exact total: %v vs %v", s1, s2)
	}
}

func TestOperandTooLarge(t *testing.T) {
	q := New(4, 2)
	huge := tripleFromFloat(1e20, 10)
	err := q.Add(huge)
	if err == nil {
		t.Fatalf("expected OperandTooLarge for a scale beyond the capacity region")
	}
	var ae *errs.ArithError
	if !asArithError(err, &ae) || ae.Kind != errs.OperandTooLarge {
		t.Fatalf("expected OperandTooLarge, got %v", err)
	}
}

func TestOperandTooSmall(t *testing.T) {
	q := New(4, 2)
	tiny := tripleFromFloat(1e-20, 10)
	err := q.Add(tiny)
	if err == nil {
		t.Fatalf("expected OperandTooSmall for a scale below the lower region")
	}
	var ae *errs.ArithError
	if !asArithError(err, &ae) || ae.Kind != errs.OperandTooSmall {
		t.Fatalf("expected OperandTooSmall, got %v", err)
	}
}

func asArithError(err error, target **errs.ArithError) bool {
	ae, ok := err.(*errs.ArithError)
	if !ok {
		return false
	}
	*target = ae
	return true
}

func TestFusedDotProduct(t *testing.T) {
	a := []blocktriple.Triple{tripleFromFloat(2.0, 24), tripleFromFloat(3.0, 24), tripleFromFloat(-1.0, 24)}
	b := []blocktriple.Triple{tripleFromFloat(5.0, 24), tripleFromFloat(4.0, 24), tripleFromFloat(7.0, 24)}
	got, err := FusedDotProduct(a, b)
	if err != nil {
		t.Fatalf("FusedDotProduct: %v", err)
	}
	want := 2.0*5.0 + 3.0*4.0 + (-1.0)*7.0 // 15
	if math.Abs(tripleToFloat(got)-want) > 1e-6 {
		t.Fatalf("FusedDotProduct = %v, want %v", tripleToFloat(got), want)
	}
}

func TestFusedDotProductMismatchedLengths(t *testing.T) {
	a := []blocktriple.Triple{tripleFromFloat(1, 10)}
	b := []blocktriple.Triple{}
	if _, err := FusedDotProduct(a, b); err == nil {
		t.Fatalf("expected an error for mismatched vector lengths")
	}
}

func TestManySmallAdds(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	q := New(64, 32)
	var want float64
	for i := 0; i < 200; i++ {
		v := (rng.Float64()*2 - 1) * 10
		want += v
		if err := q.Add(tripleFromFloat(v, 40)); err != nil {
			t.Fatalf("Add(%v): %v", v, err)
		}
	}
	got := tripleToFloat(q.ToTriple())
	if math.Abs(got-want) > math.Abs(want)*1e-6+1e-9 {
		t.Fatalf("accumulated sum = %v, want ~%v", got, want)
	}
}

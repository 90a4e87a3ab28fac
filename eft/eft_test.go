package eft

import (
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
)

func bigFromFloat(f float64) *big.Float {
	return big.NewFloat(f).SetPrec(2000)
}

// checkExact verifies s+e == a+b in exact (big.Float) arithmetic, the
// property every error-free transform must satisfy.
func checkExact(t *testing.T, name string, a, b, s, e float64) {
	t.Helper()
	exact := new(big.Float).SetPrec(2000).Add(bigFromFloat(a), bigFromFloat(b))
	got := new(big.Float).SetPrec(2000).Add(bigFromFloat(s), bigFromFloat(e))
	if exact.Cmp(got) != 0 {
		t.Fatalf("%s(%v,%v) = (%v,%v): s+e=%v, want %v", name, a, b, s, e, got, exact)
	}
}

func TestTwoSumExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 5000; i++ {
		a := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(100)-50))
		b := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(100)-50))
		s, e := TwoSum(a, b)
		if s != a+b {
			t.Fatalf("TwoSum(%v,%v): s=%v != fl(a+b)=%v", a, b, s, a+b)
		}
		checkExact(t, "TwoSum", a, b, s, e)
	}
}

func TestFastTwoSumExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		a := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(50)))
		b := a * rng.Float64() / 4 // ensures |a| >= |b|
		s, e := FastTwoSum(a, b)
		checkExact(t, "FastTwoSum", a, b, s, e)
	}
}

func TestSplitExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 2000; i++ {
		a := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(80)-40))
		hi, lo := Split(a)
		if hi+lo != a {
			t.Fatalf("Split(%v): hi+lo=%v != a", a, hi+lo)
		}
	}
}

func TestTwoProductExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 5000; i++ {
		a := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(60)-30))
		b := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(60)-30))
		p, e := TwoProduct(a, b)
		if p != a*b {
			t.Fatalf("TwoProduct(%v,%v): p=%v != fl(a*b)=%v", a, b, p, a*b)
		}
		exact := new(big.Float).SetPrec(2000).Mul(bigFromFloat(a), bigFromFloat(b))
		got := new(big.Float).SetPrec(2000).Add(bigFromFloat(p), bigFromFloat(e))
		if exact.Cmp(got) != 0 {
			t.Fatalf("TwoProduct(%v,%v): p+e=%v, want %v", a, b, got, exact)
		}
	}
}

func TestTwoSumNaNInfPropagation(t *testing.T) {
	s, e := TwoSum(math.Inf(1), 1.0)
	if !math.IsInf(s, 1) {
		t.Errorf("expected +Inf leading limb, got %v", s)
	}
	if e != 0 {
		t.Errorf("expected zero error term alongside Inf, got %v", e)
	}
	s, _ = TwoSum(math.NaN(), 1.0)
	if !math.IsNaN(s) {
		t.Errorf("expected NaN to propagate, got %v", s)
	}
}

func TestRenormalizeIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	for i := 0; i < 500; i++ {
		n := 1 + rng.IntN(6)
		x := make([]float64, n)
		mag := math.Pow(2, float64(rng.IntN(40)))
		for j := range x {
			x[j] = (rng.Float64()*2 - 1) * mag
			mag /= 1 << 27
		}
		once := Renormalize(x)
		twice := Renormalize(once)
		if len(once) != len(twice) {
			t.Fatalf("renormalize not idempotent in length: %v vs %v", once, twice)
		}
		for j := range once {
			if once[j] != twice[j] {
				t.Fatalf("renormalize not idempotent: %v vs %v", once, twice)
			}
		}
	}
}

func TestLinearExpansionSumMatchesNaiveSum(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 500; i++ {
		x := []float64{rng.Float64() * 100, rng.Float64() * 1e-10}
		y := []float64{rng.Float64() * 100, rng.Float64() * 1e-10}
		sum := LinearExpansionSum(x, y)
		exact := new(big.Float).SetPrec(4000)
		for _, v := range x {
			exact.Add(exact, bigFromFloat(v))
		}
		for _, v := range y {
			exact.Add(exact, bigFromFloat(v))
		}
		got := new(big.Float).SetPrec(4000)
		for _, v := range sum {
			got.Add(got, bigFromFloat(v))
		}
		diff := new(big.Float).SetPrec(4000).Sub(exact, got)
		f, _ := diff.Float64()
		if math.Abs(f) > 1e-290 {
			t.Fatalf("LinearExpansionSum(%v,%v) = %v, diff=%v", x, y, sum, f)
		}
	}
}

func TestScaleExpansion(t *testing.T) {
	x := []float64{1.0, 1e-20}
	out := ScaleExpansion(x, 3.0)
	exact := new(big.Float).SetPrec(200).Mul(
		new(big.Float).SetPrec(200).Add(bigFromFloat(1.0), bigFromFloat(1e-20)),
		bigFromFloat(3.0))
	got := new(big.Float).SetPrec(200)
	for _, v := range out {
		got.Add(got, bigFromFloat(v))
	}
	diff := new(big.Float).SetPrec(200).Sub(exact, got)
	f, _ := diff.Float64()
	if math.Abs(f) > 1e-290 {
		t.Fatalf("ScaleExpansion off by %v", f)
	}
}

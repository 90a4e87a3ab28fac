package cascade

import (
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
)

// S1: dd a = 1.0 + ulp(1.0)/2, b = -1.0; a+b == ulp(1.0)/2 exactly,
// bit-equal to 0x3CA0000000000000 in the high limb.
func TestSeedS1(t *testing.T) {
	halfUlp := ulp(1.0) / 2
	a := FromFloat64(2, 1.0).Add(FromFloat64(2, halfUlp))
	b := FromFloat64(2, -1.0)
	sum := a.Add(b)
	if sum.limbs[0] != halfUlp {
		t.Fatalf("S1: high limb = %v (bits %016x), want %v (bits %016x)",
			sum.limbs[0], math.Float64bits(sum.limbs[0]), halfUlp, math.Float64bits(halfUlp))
	}
	const want = uint64(0x3CA0000000000000)
	if got := math.Float64bits(sum.limbs[0]); got != want {
		t.Fatalf("S1: high limb bits = %016x, want %016x", got, want)
	}
}

// S2: qd a = 2^53, b = 1.0; a+b holds 2^53+1 exactly across its limbs.
func TestSeedS2(t *testing.T) {
	a := FromFloat64(4, math.Pow(2, 53))
	b := FromFloat64(4, 1.0)
	sum := a.Add(b)
	want := new(big.Float).SetPrec(128).SetFloat64(math.Pow(2, 53))
	want.Add(want, big.NewFloat(1))
	// sum of limbs must recover 2^53+1 exactly even though f64 cannot
	// represent it in a single limb's rounding (2^53 is exactly at the
	// boundary where +1 would normally round away), so the limbs are
	// summed in big.Float rather than float64.
	total := new(big.Float).SetPrec(128)
	for i := len(sum.limbs) - 1; i >= 0; i-- {
		total.Add(total, big.NewFloat(sum.limbs[i]))
	}
	if total.Cmp(want) != 0 {
		t.Fatalf("S2: cascade-accurate total = %v, want %v", total.Text('f', 0), want.Text('f', 0))
	}
}

func TestAddNonOverlap(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for _, n := range []int{2, 3, 4} {
		for i := 0; i < 2000; i++ {
			a := randomCascade(rng, n)
			b := randomCascade(rng, n)
			sum := a.Add(b)
			if !sum.NonOverlapping() {
				t.Fatalf("N=%d: Add(%v,%v) = %v not non-overlapping", n, a.limbs, b.limbs, sum.limbs)
			}
		}
	}
}

func TestMulNonOverlapAndInit(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	for _, n := range []int{2, 3, 4} {
		for i := 0; i < 1000; i++ {
			a := randomCascade(rng, n)
			b := randomCascade(rng, n)
			prod := a.Mul(b)
			if len(prod.limbs) != n {
				t.Fatalf("N=%d: Mul produced %d limbs", n, len(prod.limbs))
			}
			for _, v := range prod.limbs {
				if math.IsNaN(v) && !math.IsNaN(a.ToFloat64()) && !math.IsNaN(b.ToFloat64()) {
					t.Fatalf("N=%d: Mul(%v,%v) produced uninitialized NaN limb: %v", n, a.limbs, b.limbs, prod.limbs)
				}
			}
		}
	}
}

func TestDDAddMatchesFloat64Sum(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	for i := 0; i < 2000; i++ {
		av := rng.Float64()*200 - 100
		bv := rng.Float64()*200 - 100
		a := FromFloat64(2, av)
		b := FromFloat64(2, bv)
		sum := a.Add(b)
		if math.Abs(sum.ToFloat64()-(av+bv)) > 1e-9 {
			t.Fatalf("Add(%v,%v) = %v, want ~%v", av, bv, sum.ToFloat64(), av+bv)
		}
	}
}

func TestDivAndMulInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	for i := 0; i < 500; i++ {
		av := rng.Float64()*100 + 1
		bv := rng.Float64()*100 + 1
		a := FromFloat64(3, av)
		b := FromFloat64(3, bv)
		q := a.Div(b)
		back := q.Mul(b)
		if math.Abs(back.ToFloat64()-av) > 1e-6*math.Abs(av) {
			t.Fatalf("Div/Mul round trip: a=%v b=%v q=%v back=%v", av, bv, q.ToFloat64(), back.ToFloat64())
		}
	}
}

func TestSqrt(t *testing.T) {
	a := FromFloat64(4, 2.0)
	r := a.Sqrt()
	if math.Abs(r.ToFloat64()-math.Sqrt2) > 1e-28 {
		t.Fatalf("Sqrt(2) = %v, want %v", r.ToFloat64(), math.Sqrt2)
	}
}

func TestCmp(t *testing.T) {
	a := FromFloat64(2, 1.0)
	b := FromFloat64(2, 2.0)
	if a.Cmp(b) >= 0 {
		t.Error("1.0 should compare less than 2.0")
	}
	if b.Cmp(a) <= 0 {
		t.Error("2.0 should compare greater than 1.0")
	}
	if a.Cmp(a) != 0 {
		t.Error("a should compare equal to itself")
	}
}

func TestClassify(t *testing.T) {
	if FromFloat64(2, 0).Classify().String() != "zero" {
		t.Error("zero cascade should classify as zero")
	}
	if FromFloat64(2, math.Inf(1)).Classify().String() != "infinity" {
		t.Error("inf cascade should classify as infinity")
	}
	if FromFloat64(2, math.NaN()).Classify().String() != "nan" {
		t.Error("nan cascade should classify as nan")
	}
}

func randomCascade(rng *rand.Rand, n int) Cascade {
	v := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(40)-20))
	return FromFloat64(n, v)
}

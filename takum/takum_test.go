package takum

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rcornwell/universal/config"
)

func mustParse(t *testing.T, lit string) config.Descriptor {
	t.Helper()
	d, err := config.Parse(lit)
	if err != nil {
		t.Fatalf("config.Parse(%q): %v", lit, err)
	}
	return d
}

// S8: takum<12> sign=0, D=1, R=0, exponent empty, all fraction bits 0
// decodes to 1.0.
func TestSeedS8(t *testing.T) {
	cfg := mustParse(t, "takum<12>")
	x := New(cfg, uint64(1)<<uint(cfg.N-2)) // sign=0, D=1, R=000, rest 0
	if got := ToFloat64(x); got != 1.0 {
		t.Fatalf("S8: got %v, want 1.0", got)
	}
}

func TestZeroAndNaR(t *testing.T) {
	cfg := mustParse(t, "takum<12>")
	z := FromFloat64(cfg, 0)
	if !IsZero(z) {
		t.Fatalf("FromFloat64(0) should be the zero encoding")
	}
	if z.Bits != 0 {
		t.Fatalf("zero encoding should be all-zero bits, got %012b", z.Bits)
	}
	var zf float64
	n := FromFloat64(cfg, zf/zf)
	if !IsNaR(n) {
		t.Fatalf("FromFloat64(NaN) should be NaR")
	}
	inf := FromFloat64(cfg, math.Inf(1))
	if !IsNaR(inf) {
		t.Fatalf("FromFloat64(+Inf) should collapse to NaR")
	}
}

func TestFromFloat64RoundTrip(t *testing.T) {
	cfg := mustParse(t, "takum<16>")
	rng := rand.New(rand.NewPCG(6, 6))
	for i := 0; i < 500; i++ {
		v := (rng.Float64()*2 - 1) * math.Pow(2, float64(rng.IntN(20)-10))
		x := FromFloat64(cfg, v)
		got := ToFloat64(x)
		if math.Abs(got-v) > math.Abs(v)*0.05+1e-12 {
			t.Fatalf("FromFloat64/ToFloat64: v=%v got=%v", v, got)
		}
	}
}

// takum<12> has a 7-bit exponent+fraction pool, exactly matching the
// regime field's maximum span (r in [0,7]), so every bit pattern is
// canonical: no (D,R) combination ever demands more exponent bits than
// the format has room for, and the value<->bits mapping is exact.
func TestDecodeRoundTripSmallN(t *testing.T) {
	cfg := mustParse(t, "takum<12>")
	n := uint64(1) << uint(cfg.N)
	for bits := uint64(0); bits < n; bits++ {
		x := New(cfg, bits)
		if IsZero(x) || IsNaR(x) {
			continue
		}
		v := ToFloat64(x)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("takum<12>: bits %012b decoded to non-finite %v", bits, v)
		}
		back := FromFloat64(cfg, v)
		if back.Bits != x.Bits {
			t.Fatalf("takum<12>: value round trip mismatch: %012b -> %v -> %012b", bits, v, back.Bits)
		}
	}
}

func TestAddCommutative(t *testing.T) {
	cfg := mustParse(t, "takum<16>")
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 500; i++ {
		a := FromFloat64(cfg, (rng.Float64()*2-1)*1000)
		b := FromFloat64(cfg, (rng.Float64()*2-1)*1000)
		if Add(a, b).Bits != Add(b, a).Bits {
			t.Fatalf("Add not commutative for bits %v, %v", a.Bits, b.Bits)
		}
	}
}

func TestDivThrowing(t *testing.T) {
	cfg := mustParse(t, "takum<16>")
	one := FromFloat64(cfg, 1)
	zero := FromFloat64(cfg, 0)
	if _, err := DivThrowing(one, zero); err == nil {
		t.Fatalf("1/0 should return an error in throwing mode")
	}
	if _, err := DivThrowing(zero, zero); err == nil {
		t.Fatalf("0/0 should return an error in throwing mode")
	}
}

func TestMulByOne(t *testing.T) {
	cfg := mustParse(t, "takum<16>")
	one := FromFloat64(cfg, 1.0)
	x := FromFloat64(cfg, 3.25)
	if Mul(x, one).Bits != x.Bits {
		t.Fatalf("x*1 should equal x")
	}
}

func TestDivByZeroIsNaR(t *testing.T) {
	cfg := mustParse(t, "takum<16>")
	one := FromFloat64(cfg, 1.0)
	zero := FromFloat64(cfg, 0)
	if !IsNaR(Div(one, zero)) {
		t.Fatalf("1/0 should be NaR")
	}
}

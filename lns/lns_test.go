package lns

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

// S7: lns<5,2> decodes to 2^(1+0.25) ~= 2.378414. The bit pattern that
// carries this value is 0b00101 (sign=0, L=5, scale=1, frac=0.25); the
// four low bits split as a 2-bit two's-complement integer part and a
// 2-bit unsigned fraction part, both of which this table entry pins down
// unambiguously against every other row of the same format.
func TestSeedS7(t *testing.T) {
	cfg := mustParse(t, "lns<5,2>")
	x := New(cfg, 0b00101)
	got := ToFloat64(x)
	want := math.Exp2(1.25)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("S7: got %v, want %v", got, want)
	}
}

func TestZeroAndNaN(t *testing.T) {
	cfg := mustParse(t, "lns<8,2>")
	z := FromFloat64(cfg, 0)
	if !IsZero(z) {
		t.Fatalf("FromFloat64(0) should be the zero encoding")
	}
	var zf float64
	n := FromFloat64(cfg, zf/zf)
	if !IsNaN(n) {
		t.Fatalf("FromFloat64(NaN) should be the NaN encoding")
	}
	inf := FromFloat64(cfg, math.Inf(1))
	if !IsNaN(inf) {
		t.Fatalf("FromFloat64(+Inf) should collapse to the NaN encoding")
	}
}

func TestMulIsLogAdd(t *testing.T) {
	cfg := mustParse(t, "lns<16,4>")
	a := FromFloat64(cfg, 2.0)
	b := FromFloat64(cfg, 8.0)
	got := ToFloat64(Mul(a, b))
	if math.Abs(got-16.0) > 16.0*1e-3 {
		t.Fatalf("2*8 via log-add = %v, want ~16", got)
	}
}

func TestDivIsLogSub(t *testing.T) {
	cfg := mustParse(t, "lns<16,4>")
	a := FromFloat64(cfg, 16.0)
	b := FromFloat64(cfg, 4.0)
	got := ToFloat64(Div(a, b))
	if math.Abs(got-4.0) > 4.0*1e-3 {
		t.Fatalf("16/4 via log-sub = %v, want ~4", got)
	}
}

func TestDivThrowing(t *testing.T) {
	cfg := mustParse(t, "lns<16,4>")
	one := FromFloat64(cfg, 1)
	zero := FromFloat64(cfg, 0)
	if _, err := DivThrowing(one, zero); err == nil {
		t.Fatalf("1/0 should return an error in throwing mode")
	}
	if _, err := DivThrowing(zero, zero); err == nil {
		t.Fatalf("0/0 should return an error in throwing mode")
	}
}

func TestRoundTripSmallN(t *testing.T) {
	cfg := mustParse(t, "lns<8,2>")
	n := uint64(1) << uint(cfg.N)
	for bits := uint64(0); bits < n; bits++ {
		x := New(cfg, bits)
		if IsZero(x) || IsNaN(x) {
			continue
		}
		v := ToFloat64(x)
		back := FromFloat64(cfg, v)
		if back.Bits != x.Bits {
			t.Fatalf("lns<8,2>: value round trip mismatch: %08b -> %v -> %08b", bits, v, back.Bits)
		}
	}
}

func TestAddCommutative(t *testing.T) {
	cfg := mustParse(t, "lns<16,4>")
	rng := rand.New(rand.NewPCG(5, 5))
	for i := 0; i < 500; i++ {
		a := FromFloat64(cfg, rng.Float64()*100+0.001)
		b := FromFloat64(cfg, rng.Float64()*100+0.001)
		if Add(a, b).Bits != Add(b, a).Bits {
			t.Fatalf("Add not commutative for bits %v, %v", a.Bits, b.Bits)
		}
	}
}

package decimal

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rcornwell/universal/cascade"
	"github.com/rcornwell/universal/cfloat"
	"github.com/rcornwell/universal/config"
)

func TestFormatFloat64Known(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{1.5, "1.5"},
		{100, "100"},
		{0.1, "0.1"},
		{123.456, "123.456"},
		{-42, "-42"},
	}
	for _, c := range cases {
		got := FormatFloat64(c.v, Options{})
		if got != c.want {
			t.Errorf("FormatFloat64(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	for i := 0; i < 500; i++ {
		v := (rng.Float64()*2 - 1) * math.Pow(10, float64(rng.IntN(40)-20))
		s := FormatFloat64(v, Options{})
		got, err := ParseFloat64(s)
		if err != nil {
			t.Fatalf("ParseFloat64(%q): %v", s, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: v=%v formatted=%q parsed=%v", v, s, got)
		}
	}
}

func TestParseGrammar(t *testing.T) {
	cases := []struct {
		s    string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"-42", -42},
		{"+3.5", 3.5},
		{"1.25e3", 1250},
		{"1.25E-3", 0.00125},
		{"  7  ", 7},
	}
	for _, c := range cases {
		got, err := ParseFloat64(c.s)
		if err != nil {
			t.Fatalf("ParseFloat64(%q): %v", c.s, err)
		}
		if got != c.want {
			t.Errorf("ParseFloat64(%q) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "1e", "--1", "1x"} {
		if _, err := ParseFloat64(s); err == nil {
			t.Errorf("ParseFloat64(%q) should have failed", s)
		}
	}
}

func TestFormatScientific(t *testing.T) {
	got := FormatFloat64(6.02214076e23, Options{})
	want := "6.02214076e+23"
	if got != want {
		t.Errorf("FormatFloat64(6.02e23) = %q, want %q", got, want)
	}
}

func TestFormatTripleMatchesDecode(t *testing.T) {
	cfg, err := config.Parse("cfloat<32,8>")
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	x := cfloat.FromFloat64(cfg, 3.25)
	tr := cfloat.Decode(x)
	s := FormatTriple(tr, Options{})
	got, err := ParseFloat64(s)
	if err != nil {
		t.Fatalf("ParseFloat64(%q): %v", s, err)
	}
	if got != 3.25 {
		t.Fatalf("FormatTriple round trip: got %v, want 3.25 (string %q)", got, s)
	}
}

func TestFormatCascade(t *testing.T) {
	c := cascade.FromFloat64(2, math.Pi)
	s := FormatCascade(c, Options{})
	got, err := ParseFloat64(s)
	if err != nil {
		t.Fatalf("ParseFloat64(%q): %v", s, err)
	}
	if math.Abs(got-math.Pi) > 1e-15 {
		t.Fatalf("FormatCascade(pi) = %q, parsed back to %v", s, got)
	}
}

func TestFormatInfAndNaN(t *testing.T) {
	if got := FormatFloat64(math.Inf(1), Options{}); got != "Inf" {
		t.Errorf("FormatFloat64(+Inf) = %q", got)
	}
	if got := FormatFloat64(math.Inf(-1), Options{}); got != "-Inf" {
		t.Errorf("FormatFloat64(-Inf) = %q", got)
	}
	var nan float64
	nan = nan / nan
	if got := FormatFloat64(nan, Options{}); got != "NaN" {
		t.Errorf("FormatFloat64(NaN) = %q", got)
	}
}

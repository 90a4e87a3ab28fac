/*
 * universal - Numeric format configuration literals
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

// Package config parses the compact `<nbits,es,...>`-style literal used to
// describe a cfloat, posit, lns, or takum format (e.g. "cfloat<32,8>",
// "posit<16,2>", "cfloat<8,2,u8,T,F,F>", "takum<12>") into a typed
// Descriptor, the way the target's template parameter list is expressed
// without const generics: a small runtime descriptor validated once at
// construction time rather than re-checked on every operation.
package config

import (
	"strconv"
	"strings"

	"github.com/rcornwell/universal/internal/errs"
)

// Kind names which family a Descriptor describes.
type Kind int

const (
	CfloatKind Kind = iota
	PositKind
	LNSKind
	TakumKind
)

func (k Kind) String() string {
	switch k {
	case CfloatKind:
		return "cfloat"
	case PositKind:
		return "posit"
	case LNSKind:
		return "lns"
	case TakumKind:
		return "takum"
	default:
		return "unknown"
	}
}

// Descriptor is the parsed, validated runtime stand-in for a target
// template parameter list.
type Descriptor struct {
	Kind Kind
	N    int // total bit width
	ES   int // exponent bits (cfloat/posit) or log-radix R (lns)
	Block int // storage limb width in bits; 0 means "unspecified, pick u64"

	Subnormal   bool
	Supernormal bool
	Saturate    bool
}

// Parse decodes a format literal such as "cfloat<32,8>" or
// "cfloat<8,2,u8,T,F,F>" into a Descriptor, validating the combinations
// the ConfigurationError taxonomy.
func Parse(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '<')
	shut := strings.LastIndexByte(s, '>')
	if open < 0 || shut < 0 || shut < open {
		return Descriptor{}, errs.New(errs.ParseErr, "config", "missing <...> parameter list: "+s)
	}
	name := strings.TrimSpace(s[:open])
	body := s[open+1 : shut]
	fields := splitFields(body)

	var kind Kind
	switch name {
	case "cfloat":
		kind = CfloatKind
	case "posit":
		kind = PositKind
	case "lns":
		kind = LNSKind
	case "takum":
		kind = TakumKind
	default:
		return Descriptor{}, errs.New(errs.ParseErr, "config", "unknown format name: "+name)
	}

	// takum<N> carries a single width parameter; its exponent-field width
	// is computed per value from the direction/regime fields, not fixed.
	if kind == TakumKind {
		if len(fields) < 1 {
			return Descriptor{}, errs.New(errs.ParseErr, "config", "expected <N>: "+s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return Descriptor{}, errs.New(errs.ParseErr, "config", "bad N: "+fields[0])
		}
		d := Descriptor{Kind: kind, N: n, Block: 64}
		if err := Validate(d); err != nil {
			return Descriptor{}, err
		}
		return d, nil
	}

	if len(fields) < 2 {
		return Descriptor{}, errs.New(errs.ParseErr, "config", "expected at least <N,ES>: "+s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Descriptor{}, errs.New(errs.ParseErr, "config", "bad N: "+fields[0])
	}
	es, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Descriptor{}, errs.New(errs.ParseErr, "config", "bad ES: "+fields[1])
	}

	d := Descriptor{Kind: kind, N: n, ES: es, Block: 64}
	switch kind {
	case CfloatKind:
		d.Subnormal = true
		if len(fields) >= 3 {
			d.Block = parseBlockWidth(strings.TrimSpace(fields[2]))
		}
		if len(fields) >= 6 {
			d.Subnormal = parseBool(fields[3])
			d.Supernormal = parseBool(fields[4])
			d.Saturate = parseBool(fields[5])
		}
	case PositKind:
		// posit has no subnormal/supernormal/saturate axis; ES is the
		// maximum exponent field width.
	case LNSKind:
		// ES doubles as R, the log-field's fractional radix point.
	}

	if err := Validate(d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Validate checks the ConfigurationError conditions that apply at format
// construction time: cascade N>19 is cascade's own concern (checked in
// cascade.New), not here; cfloat with no normal range, and posit N<3, are
// checked here since they are format-construction-time invariants.
func Validate(d Descriptor) error {
	switch d.Kind {
	case CfloatKind:
		if d.ES == 1 && !d.Subnormal && !d.Supernormal {
			return errs.New(errs.ConfigurationErr, "config", "cfloat<E=1,subn=F,supn=F> has no normal range")
		}
		if d.N < d.ES+2 {
			return errs.New(errs.ConfigurationErr, "config", "cfloat N too small for ES")
		}
	case PositKind:
		if d.N < 3 {
			return errs.New(errs.ConfigurationErr, "config", "posit N<3 has no usable range")
		}
	case LNSKind:
		if d.N < 2 {
			return errs.New(errs.ConfigurationErr, "config", "lns N<2 has no room for a log field")
		}
	case TakumKind:
		if d.N < 6 {
			return errs.New(errs.ConfigurationErr, "config", "takum N<6 leaves no room past sign/direction/regime")
		}
	}
	return nil
}

// FracBits returns the IEEE-style fraction-bit count for a cfloat
// descriptor: N-1-ES (sign bit and exponent field removed).
func (d Descriptor) FracBits() int { return d.N - 1 - d.ES }

// Bias returns the cfloat exponent bias, 2^(ES-1)-1.
func (d Descriptor) Bias() int { return (1 << uint(d.ES-1)) - 1 }

func splitFields(body string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range body {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, body[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, body[start:])
	return out
}

func parseBool(s string) bool {
	s = strings.TrimSpace(s)
	return s == "T" || s == "true" || s == "1"
}

func parseBlockWidth(s string) int {
	switch strings.ToLower(s) {
	case "u8":
		return 8
	case "u16":
		return 16
	case "u32":
		return 32
	case "u64":
		return 64
	default:
		return 64
	}
}

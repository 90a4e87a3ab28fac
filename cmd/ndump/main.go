/*
 * universal - ndump: hex-literal inspector for the numeric formats
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

// ndump decodes a hex bit pattern for one of the library's numeric formats
// and prints its field breakdown and decimal value. It exists to exercise
// config/cfloat/posit/lns/takum end to end from a command line, not as an
// application in its own right.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/universal/cfloat"
	"github.com/rcornwell/universal/config"
	"github.com/rcornwell/universal/decimal"
	"github.com/rcornwell/universal/internal/ulog"
	"github.com/rcornwell/universal/lns"
	"github.com/rcornwell/universal/posit"
	"github.com/rcornwell/universal/takum"
)

func main() {
	optFormat := getopt.StringLong("format", 'f', "", "Format literal, e.g. cfloat<32,8> or posit<16,2>")
	optBits := getopt.StringLong("bits", 'b', "", "Bit pattern in hex, e.g. 0x3f800000")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file for decode trace")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ndump: can't create log file:", err)
			os.Exit(1)
		}
		defer logFile.Close()
		level := new(slog.LevelVar)
		level.Set(slog.LevelDebug)
		slog.SetDefault(slog.New(ulog.NewHandler(logFile, &slog.HandlerOptions{Level: level}, false)))
	}

	if *optFormat == "" || *optBits == "" {
		fmt.Fprintln(os.Stderr, "ndump: both -format and -bits are required")
		getopt.Usage()
		os.Exit(1)
	}

	cfg, err := config.Parse(*optFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ndump:", err)
		os.Exit(1)
	}

	bits, err := parseHex(*optBits)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ndump:", err)
		os.Exit(1)
	}

	if err := dump(cfg, bits); err != nil {
		fmt.Fprintln(os.Stderr, "ndump:", err)
		os.Exit(1)
	}
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}

func dump(cfg config.Descriptor, bits uint64) error {
	fmt.Printf("format: %s<%d,%d>\n", cfg.Kind, cfg.N, cfg.ES)
	fmt.Printf("bits:   %0*x (%0*b)\n", (cfg.N+3)/4, bits, cfg.N, bits)

	switch cfg.Kind {
	case config.CfloatKind:
		x := cfloat.New(cfg, bits)
		t := cfloat.Decode(x)
		fmt.Printf("class:  %s\n", cfloat.Classify(x))
		fmt.Printf("triple: sign=%v scale=%d fracBits=%d sig=%s\n",
			t.Sign, t.Scale, t.FracBits, t.Sig.HexString())
		fmt.Printf("value:  %s\n", decimal.FormatTriple(t, decimal.Options{}))
		fmt.Printf("float64: %v\n", cfloat.ToFloat64(x))
	case config.PositKind:
		x := posit.New(cfg, bits)
		fmt.Printf("zero:   %v\n", posit.IsZero(x))
		fmt.Printf("nar:    %v\n", posit.IsNaR(x))
		t := posit.Decode(x)
		fmt.Printf("triple: sign=%v scale=%d fracBits=%d sig=%s\n",
			t.Sign, t.Scale, t.FracBits, t.Sig.HexString())
		fmt.Printf("value:  %s\n", decimal.FormatTriple(t, decimal.Options{}))
		fmt.Printf("float64: %v\n", posit.ToFloat64(x))
	case config.LNSKind:
		x := lns.New(cfg, bits)
		fmt.Printf("zero:   %v\n", lns.IsZero(x))
		fmt.Printf("nan:    %v\n", lns.IsNaN(x))
		fmt.Printf("float64: %v\n", lns.ToFloat64(x))
		if !lns.IsZero(x) && !lns.IsNaN(x) {
			fmt.Printf("value:  %s\n", decimal.FormatFloat64(lns.ToFloat64(x), decimal.Options{}))
		}
	case config.TakumKind:
		x := takum.New(cfg, bits)
		fmt.Printf("zero:   %v\n", takum.IsZero(x))
		fmt.Printf("nar:    %v\n", takum.IsNaR(x))
		c := takum.Decode(x)
		fmt.Printf("value:  %s\n", decimal.FormatCascade(c, decimal.Options{}))
		fmt.Printf("float64: %v\n", takum.ToFloat64(x))
	default:
		return fmt.Errorf("unsupported format kind %v", cfg.Kind)
	}
	return nil
}

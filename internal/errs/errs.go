/*
 * universal - Arithmetic error taxonomy for throwing-mode types
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

// Package errs names the shared error taxonomy. Every arithmetic
// package's throwing mode returns one of these rather than an ad hoc
// fmt.Errorf; silent mode never constructs one.
package errs

import "errors"

// Kind classifies an ArithError. It is deliberately a small closed set,
// one shared taxonomy rather than growing per-package variants.
type Kind int

const (
	DivideByZero Kind = iota
	InvalidOperation
	OperandTooLarge
	OperandTooSmall
	ParseErr
	ConfigurationErr
)

func (k Kind) String() string {
	switch k {
	case DivideByZero:
		return "divide by zero"
	case InvalidOperation:
		return "invalid operation"
	case OperandTooLarge:
		return "operand too large"
	case OperandTooSmall:
		return "operand too small"
	case ParseErr:
		return "parse error"
	case ConfigurationErr:
		return "configuration error"
	default:
		return "unknown arithmetic error"
	}
}

// ArithError is the error type every throwing-mode operation returns.
// Component names the format (e.g. "cfloat", "quire"); Detail is a short
// human-readable elaboration ("empty input", "exponent overflow", ...).
type ArithError struct {
	Kind      Kind
	Component string
	Detail    string
}

func (e *ArithError) Error() string {
	if e.Detail == "" {
		return e.Component + ": " + e.Kind.String()
	}
	return e.Component + ": " + e.Kind.String() + ": " + e.Detail
}

// New constructs an ArithError.
func New(kind Kind, component, detail string) *ArithError {
	return &ArithError{Kind: kind, Component: component, Detail: detail}
}

// Is supports errors.Is comparison by Kind: a target *ArithError matches
// any error of the same Kind, e.g.
// `errors.Is(err, errs.New(errs.DivideByZero, "", ""))`.
func (e *ArithError) Is(target error) bool {
	var other *ArithError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

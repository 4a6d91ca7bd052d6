/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package errors carries the module's error taxonomy: a numeric CodeError
// kind, a per-package code registry, and an Error value pairing one kind
// with an optional chain of underlying causes.
package errors

import (
	"path"
	"strconv"
	"strings"
)

// Error is a kinded error. It renders as its registered message followed by
// every parent cause, and can be tested for a kind either shallowly
// (IsCode) or through its whole parent chain (HasCode).
type Error interface {
	error

	// GetCode returns this error's own kind.
	GetCode() CodeError
	// IsCode reports whether this error's own kind is code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent carries code.
	HasCode(code CodeError) bool

	// Add appends each non-nil parent as an underlying cause.
	Add(parent ...error)
	// HasParent reports whether at least one cause has been attached.
	HasParent() bool
	// GetParent returns the attached causes, outermost first.
	GetParent() []error

	// Unwrap exposes the causes to the standard errors helpers.
	Unwrap() []error
}

type ers struct {
	c CodeError
	m string
	f string
	l int
	p []error
}

func (e *ers) Error() string {
	var b strings.Builder

	b.WriteString("(")
	b.WriteString(strconv.Itoa(e.c.GetInt()))
	b.WriteString(") ")
	b.WriteString(e.m)

	if e.f != "" {
		b.WriteString(" [")
		b.WriteString(path.Base(e.f))
		b.WriteString(":")
		b.WriteString(strconv.Itoa(e.l))
		b.WriteString("]")
	}

	for _, p := range e.p {
		b.WriteString(", ")
		b.WriteString(p.Error())
	}

	return b.String()
}

func (e *ers) GetCode() CodeError {
	return e.c
}

func (e *ers) IsCode(code CodeError) bool {
	return e.c == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.p {
		if pe, ok := p.(Error); ok && pe.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p != nil {
			e.p = append(e.p, p)
		}
	}
}

func (e *ers) HasParent() bool {
	return len(e.p) > 0
}

func (e *ers) GetParent() []error {
	out := make([]error, len(e.p))
	copy(out, e.p)
	return out
}

func (e *ers) Unwrap() []error {
	return e.GetParent()
}

// Is lets the standard library's errors.Is match two kinded errors by code
// alone, regardless of their recorded positions or causes.
func (e *ers) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.IsCode(e.c)
}

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

package errors

import (
	"fmt"
	"runtime"
	"sync"
)

// CodeError is a numeric error kind. Each package owning error kinds
// reserves a block of codes in modules.go and registers a message function
// for that block with RegisterIdFctMessage.
type CodeError uint16

// UnknownError is the zero code: an error with no registered kind.
const UnknownError CodeError = 0

// Message resolves one code of a registered block to its human-readable
// message. An unhandled code must return the empty string.
type Message func(code CodeError) string

var (
	msgMu  sync.RWMutex
	msgFct = make(map[CodeError]Message)
)

// RegisterIdFctMessage registers fct as the message source for the code
// block starting at minCode. Registering the same block twice keeps the
// last function.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if fct == nil {
		return
	}
	msgMu.Lock()
	defer msgMu.Unlock()
	msgFct[minCode] = fct
}

// ExistInMapMessage reports whether some registered block resolves code to
// a non-empty message.
func ExistInMapMessage(code CodeError) bool {
	return code.GetMessage() != ""
}

// GetMessage returns the registered message for c, or the empty string if
// no block resolves it.
func (c CodeError) GetMessage() string {
	msgMu.RLock()
	defer msgMu.RUnlock()

	for _, fct := range msgFct {
		if m := fct(c); m != "" {
			return m
		}
	}
	return ""
}

// GetInt returns c as a plain int, for formatting.
func (c CodeError) GetInt() int {
	return int(c)
}

// Error builds an Error of kind c, optionally wrapping parent as its cause.
// The caller's position is recorded for the rendered message.
func (c CodeError) Error(parent error) Error {
	e := &ers{
		c: c,
		m: c.GetMessage(),
	}
	if e.m == "" {
		e.m = fmt.Sprintf("unknown error code %d", c.GetInt())
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		e.f = file
		e.l = line
	}
	if parent != nil {
		e.p = append(e.p, parent)
	}
	return e
}

// IfError returns an Error of kind c wrapping parent when parent is not
// nil, and nil otherwise.
func (c CodeError) IfError(parent error) Error {
	if parent == nil {
		return nil
	}
	return c.Error(parent)
}

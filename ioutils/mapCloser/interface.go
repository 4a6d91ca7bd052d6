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

// Package mapCloser gathers a set of io.Closers behind one handle so they
// can be released together: explicitly via Close, or automatically when
// the owning context ends. A proxy transaction registers its client and
// remote connections here, so one call tears both down no matter which
// path the transaction exits through.
package mapCloser

import (
	"context"
	"io"
)

// Closer owns a growing set of io.Closers and releases them all at once.
// Close is idempotent: each registered closer is closed exactly once.
type Closer interface {
	// Add registers closers for release. Nil entries are ignored; entries
	// added after Close are closed immediately.
	Add(clo ...io.Closer)

	// Len reports how many closers are currently registered and unclosed.
	Len() int

	// Close releases every registered closer, joining their errors.
	Close() error

	// Clean forgets all registered closers without closing them.
	Clean()
}

// New builds a Closer scoped to ctx: when ctx ends before Close is called,
// every registered closer is released in the background.
func New(ctx context.Context) Closer {
	return newCloser(ctx)
}

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

// Package conn provides the Connection abstraction: a byte-stream handle
// (context-aware read/write/close) over either a plain TCP socket or a TLS
// socket, so the rest of the proxy core never depends on net.Conn directly.
package conn

import (
	"context"
	"net"
)

// Connection is a handle to a bidirectional byte stream. It is owned by
// exactly one Transaction at a time (or briefly by the pool between accept
// and Transaction start). Close is idempotent.
type Connection interface {
	// Read reads at least 1 byte into buf, up to len(buf). io.EOF is
	// returned, unwrapped, when the peer has closed its write side.
	Read(ctx context.Context, buf []byte) (n int, err error)

	// Write writes all of p or returns an error; partial writes are not
	// reported as success.
	Write(ctx context.Context, p []byte) (n int, err error)

	// Close releases the underlying socket. Safe to call more than once.
	Close() error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

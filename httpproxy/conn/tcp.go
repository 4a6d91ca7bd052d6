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

package conn

import (
	"context"
	"net"
	"sync"
	"time"
)

// socketConn wraps any net.Conn (plain TCP or *tls.Conn) to implement
// Connection. Deadlines are derived from the context passed to each call
// instead of a separately tracked timeout, so cancellation propagates the
// same way it would for any other context-aware operation in this module.
type socketConn struct {
	raw net.Conn

	closeOnce sync.Once
	closeErr  error
}

// NewPlain wraps an already-accepted or already-dialed plain TCP socket.
func NewPlain(raw net.Conn) Connection {
	return &socketConn{raw: raw}
}

// NewTLS wraps a TLS socket. CONNECT tunnels do not terminate TLS themselves
// (the proxy relays the tunnel opaquely), but this constructor types the
// tunnel endpoint for future MITM-capable variants.
func NewTLS(raw net.Conn) Connection {
	return &socketConn{raw: raw}
}

func (c *socketConn) Read(ctx context.Context, buf []byte) (int, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.raw.SetReadDeadline(dl)
	} else {
		_ = c.raw.SetReadDeadline(time.Time{})
	}
	return c.raw.Read(buf)
}

func (c *socketConn) Write(ctx context.Context, p []byte) (int, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.raw.SetWriteDeadline(dl)
	} else {
		_ = c.raw.SetWriteDeadline(time.Time{})
	}

	total := 0
	for total < len(p) {
		n, err := c.raw.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c *socketConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}

func (c *socketConn) LocalAddr() net.Addr  { return c.raw.LocalAddr() }
func (c *socketConn) RemoteAddr() net.Addr { return c.raw.RemoteAddr() }

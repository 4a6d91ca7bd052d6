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

package httpproxy

import (
	"context"
	"fmt"
	"net"
	"time"

	liberr "github.com/sabouaram/proxycore/errors"
	liblog "github.com/sabouaram/proxycore/logger"
	loglvl "github.com/sabouaram/proxycore/logger/level"

	"github.com/sabouaram/proxycore/httpproxy/conn"
)

// ConnectionPool resolves and opens upstream connections on behalf of
// Transactions. It does not currently reuse connections across
// Transactions (FindOpen always misses).
type ConnectionPool struct {
	log     func() liblog.Logger
	dialer  net.Dialer
	timeout time.Duration
}

// NewConnectionPool builds a ConnectionPool bounding every dial attempt by
// timeout.
func NewConnectionPool(log func() liblog.Logger, timeout time.Duration) *ConnectionPool {
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	return &ConnectionPool{
		log:     log,
		dialer:  net.Dialer{},
		timeout: timeout,
	}
}

// WrapAccepted adapts a freshly accept()-ed client socket into a
// conn.Connection.
func (p *ConnectionPool) WrapAccepted(raw net.Conn) conn.Connection {
	c := conn.NewPlain(raw)

	p.log().Entry(loglvl.InfoLevel, "client connected").
		FieldAdd("remote", raw.RemoteAddr().String()).
		Log()

	return c
}

// FindOpen looks for an already-open upstream connection to host:port. The
// core never pools upstream connections today, so this always misses; it
// exists so a future pooling strategy (keep-alive reuse) has a seam to land
// in without changing Transaction's call sites.
func (p *ConnectionPool) FindOpen(host string, port int) (conn.Connection, bool) {
	return nil, false
}

// TryOpen resolves host and dials the first address that accepts a
// connection within ctx/timeout, classifying failures by kind.
func (p *ConnectionPool) TryOpen(ctx context.Context, host string, port int) (conn.Connection, liberr.Error) {
	dctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupHost(dctx, host)
	if err != nil {
		p.log().Entry(loglvl.WarnLevel, "remote dns lookup failed").
			FieldAdd("host", host).
			ErrorAdd(true, err).
			Log()
		return nil, RemoteDnsLookupError.Error(err)
	}
	if len(addrs) == 0 {
		return nil, RemoteDnsLookupError.Error(fmt.Errorf("no address found for %q", host))
	}

	var lastErr error
	for _, a := range addrs {
		raw, derr := p.dialer.DialContext(dctx, "tcp", net.JoinHostPort(a, fmt.Sprintf("%d", port)))
		if derr != nil {
			lastErr = derr
			continue
		}

		p.log().Entry(loglvl.InfoLevel, "opened remote connection").
			FieldAdd("host", host).
			FieldAdd("port", port).
			FieldAdd("remote_addr", a).
			Log()

		return conn.NewPlain(raw), nil
	}

	return nil, NetworkError.Error(lastErr)
}

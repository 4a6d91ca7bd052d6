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
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

const (
	defaultHTTPPort  = 80
	defaultHTTPSPort = 443
)

// splitHostPort splits a Host header value or a CONNECT authority into a
// host and port. It is deliberately lenient: a missing, empty, or non-numeric
// port never fails the split, it just falls back to defaultPort. Only an
// entirely empty host is an error, since a Transaction can't open a
// connection to nothing.
//
// IPv6 literals ("[::1]:8080") are unwrapped before the rightmost colon is
// used as the split point, matching net.SplitHostPort's convention without
// inheriting its strictness about malformed ports.
func splitHostPort(hostport string, defaultPort int) (host string, port int, ok bool) {
	hostport = strings.TrimSpace(hostport)
	if hostport == "" {
		return "", 0, false
	}

	if strings.HasPrefix(hostport, "[") {
		if end := strings.IndexByte(hostport, ']'); end != -1 {
			host = hostport[1:end]
			rest := hostport[end+1:]
			if strings.HasPrefix(rest, ":") {
				if p, err := strconv.Atoi(rest[1:]); err == nil && p > 0 && p <= 65535 {
					return host, p, true
				}
			}
			return host, defaultPort, true
		}
	}

	if i := strings.LastIndexByte(hostport, ':'); i != -1 && !strings.Contains(hostport[i+1:], ":") {
		host = hostport[:i]
		if host == "" {
			return "", 0, false
		}
		if p, err := strconv.Atoi(hostport[i+1:]); err == nil && p > 0 && p <= 65535 {
			return host, p, true
		}
		return host, defaultPort, true
	}

	return hostport, defaultPort, true
}

// hostHeaderAuthority resolves the upstream host/port for a normal (non-
// CONNECT) request from its Host header, defaulting to port 80.
func hostHeaderAuthority(hostHeader string) (host string, port int, ok bool) {
	host, port, ok = splitHostPort(hostHeader, defaultHTTPPort)
	if !ok {
		return host, port, ok
	}
	return idnaASCII(host), port, true
}

// connectAuthority resolves the upstream host/port for a CONNECT request's
// request-target ("example.com:443"), defaulting to port 443.
func connectAuthority(target string) (host string, port int, ok bool) {
	host, port, ok = splitHostPort(target, defaultHTTPSPort)
	if !ok {
		return host, port, ok
	}
	return idnaASCII(host), port, true
}

// idnaASCII converts a non-ASCII (Unicode) hostname to its Punycode form so
// ConnectionPool.TryOpen always resolves an ASCII name, the same tolerant
// pattern used to clean a Host header's authority before dialing it. A host
// that fails IDNA conversion (or was already ASCII) is passed through
// unchanged rather than failing the transaction over a cosmetic encoding.
func idnaASCII(host string) string {
	for i := 0; i < len(host); i++ {
		if host[i] >= 0x80 {
			if ascii, err := idna.Lookup.ToASCII(host); err == nil {
				return ascii
			}
			break
		}
	}
	return host
}

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

package message

import (
	"bytes"
	"fmt"
	"io"
)

// Kind distinguishes a request-shaped HttpMessage from a response-shaped one.
type Kind int

const (
	KindRequest Kind = iota
	KindResponse
)

// HttpMessage is a value type holding either a request line (Method, URI) or
// a response status line (StatusCode, Reason), plus headers and body. It is
// pure data: the only writer is Parser. Readers may replace Body
// directly (for building test fixtures or serializing canned responses) but
// must not otherwise mutate it concurrently with a parse in progress.
type HttpMessage struct {
	Kind Kind

	Method string
	URI    string

	StatusCode int
	Reason     string

	VersionMajor int
	VersionMinor int

	Headers *Headers
	Body    []byte
}

// NewRequestMessage returns an empty message ready to be parsed as a request.
func NewRequestMessage() *HttpMessage {
	return &HttpMessage{Kind: KindRequest, Headers: NewHeaders()}
}

// NewResponseMessage returns an empty message ready to be parsed as a response.
func NewResponseMessage() *HttpMessage {
	return &HttpMessage{Kind: KindResponse, Headers: NewHeaders()}
}

// Version renders the message's HTTP version as "1.1"-style text.
func (m *HttpMessage) Version() string {
	return fmt.Sprintf("%d.%d", m.VersionMajor, m.VersionMinor)
}

func (m *HttpMessage) reset(k Kind) {
	m.Kind = k
	m.Method = ""
	m.URI = ""
	m.StatusCode = 0
	m.Reason = ""
	m.VersionMajor = 0
	m.VersionMinor = 0
	m.Headers = NewHeaders()
	m.Body = nil
}

// WriteTo serializes m back to wire format: its start line, its headers in
// first-insertion order (canonically cased), a blank line, then Body
// verbatim. It never sets Transfer-Encoding or Content-Length itself; the
// caller is responsible for those headers being consistent with Body,
// matching how the parser recorded them on the way in.
func (m *HttpMessage) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	switch m.Kind {
	case KindRequest:
		fmt.Fprintf(&buf, "%s %s HTTP/%s\r\n", m.Method, m.URI, m.Version())
	case KindResponse:
		fmt.Fprintf(&buf, "HTTP/%s %d %s\r\n", m.Version(), m.StatusCode, m.Reason)
	}

	for _, name := range m.Headers.Names() {
		canon := CanonicalCase(name)
		for _, v := range m.Headers.Find(name) {
			fmt.Fprintf(&buf, "%s: %s\r\n", canon, v)
		}
	}

	buf.WriteString("\r\n")
	buf.Write(m.Body)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

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
	"testing"
)

// S1 - simple GET, no body.
func TestParseSimpleGet(t *testing.T) {
	p := NewRequestParser()
	in := []byte("GET /foo/bar HTTP/1.1\r\nAccept: application/html\r\n\r\n")

	consumed, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if consumed != len(in) {
		t.Fatalf("want consumed %d, got %d", len(in), consumed)
	}

	m := p.Message()
	if m.Method != "GET" {
		t.Errorf("method = %q, want GET", m.Method)
	}
	if m.URI != "/foo/bar" {
		t.Errorf("uri = %q, want /foo/bar", m.URI)
	}
	if m.VersionMajor != 1 || m.VersionMinor != 1 {
		t.Errorf("version = %d.%d, want 1.1", m.VersionMajor, m.VersionMinor)
	}
	if got := m.Headers.Find("accept"); len(got) != 1 || got[0] != "application/html" {
		t.Errorf("accept header = %v, want [application/html]", got)
	}
}

// S2 - fixed-length POST with a spurious Transfer-Encoding: identity, which
// must not trigger chunked framing.
func TestParseFixedLengthPost(t *testing.T) {
	p := NewRequestParser()
	in := []byte("POST /foo/bar HTTP/1.1\r\nContent-Type: text/plain\r\nContent-Length: 12\r\n" +
		"Transfer-Encoding: identity\r\n\r\nabcdefghijkl")

	_, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if got := string(p.Message().Body); got != "abcdefghijkl" {
		t.Errorf("body = %q, want abcdefghijkl", got)
	}
}

// S3 - chunked POST, compound "Transfer-Encoding: gzip, chunked".
func TestParseChunkedPostCompoundTransferEncoding(t *testing.T) {
	p := NewRequestParser()
	in := []byte("POST /foo/bar HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n" +
		"5\r\nabcde\r\n9\r\nfghijklmn\r\nA\r\nopqrstuvwx\r\nc\r\nyz0123456789\r\n0\r\n\r\n")

	_, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	want := "abcdefghijklmnopqrstuvwxyz0123456789"
	if got := string(p.Message().Body); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

// S4 - CONNECT.
func TestParseConnect(t *testing.T) {
	p := NewRequestParser()
	in := []byte("CONNECT news.ycombinator.com:443 HTTP/1.0\r\nContent-Length: 0\r\n" +
		"Proxy-Connection: keep-alive\r\n\r\n")

	_, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if p.Message().Method != "CONNECT" {
		t.Errorf("method = %q, want CONNECT", p.Message().Method)
	}
	if p.Message().URI != "news.ycombinator.com:443" {
		t.Errorf("uri = %q, want news.ycombinator.com:443", p.Message().URI)
	}
}

// S5 - chunked response, multiple chunks, 403 Forbidden.
func TestParseChunkedResponse(t *testing.T) {
	p := NewResponseParser()
	in := []byte("HTTP/1.1 403 Forbidden\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nabcd\r\n3\r\nefg\r\n0\r\n\r\n")

	_, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if p.Message().StatusCode != 403 {
		t.Errorf("status = %d, want 403", p.Message().StatusCode)
	}
	if p.Message().Reason != "Forbidden" {
		t.Errorf("reason = %q, want Forbidden", p.Message().Reason)
	}
	if got, want := string(p.Message().Body), "abcdefg"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

// S6 - phase-paused parsing of the S3 chunked request, fed as one buffer to
// ParseWithPhase three times in a row: message line, then headers, then body.
func TestParseWithPhasePauses(t *testing.T) {
	in := []byte("POST /foo/bar HTTP/1.1\r\nHost: example.com\r\nContent-Type: text/plain\r\nTransfer-Encoding: gzip, chunked\r\n\r\n" +
		"5\r\nabcde\r\n9\r\nfghijklmn\r\nA\r\nopqrstuvwx\r\nc\r\nyz0123456789\r\n0\r\n\r\n")

	p := NewRequestParser()
	var phase ParsePhase

	consumed1, result1 := p.ParseWithPhase(in, &phase)
	if result1 != Incomplete {
		t.Fatalf("call 1: want Incomplete, got %s", result1)
	}
	if phase != PhaseReceivedMessageLine {
		t.Fatalf("call 1: phase = %s, want ReceivedMessageLine", phase)
	}
	if p.Message().Method != "POST" || p.Message().URI != "/foo/bar" {
		t.Fatalf("call 1: method/uri not set: %+v", p.Message())
	}
	if p.Message().Headers.Size() != 0 {
		t.Fatalf("call 1: expected zero headers, got %d", p.Message().Headers.Size())
	}

	rest := in[consumed1:]
	consumed2, result2 := p.ParseWithPhase(rest, &phase)
	if result2 != Incomplete {
		t.Fatalf("call 2: want Incomplete, got %s", result2)
	}
	if phase != PhaseReceivedHeaders {
		t.Fatalf("call 2: phase = %s, want ReceivedHeaders", phase)
	}
	if n := len(p.Message().Headers.Names()); n != 3 {
		t.Fatalf("call 2: want 3 header names, got %d", n)
	}

	rest = rest[consumed2:]
	_, result3 := p.ParseWithPhase(rest, &phase)
	if result3 != Valid {
		t.Fatalf("call 3: want Valid, got %s", result3)
	}
	if phase != PhaseReceivedFullMessage {
		t.Fatalf("call 3: phase = %s, want ReceivedFullMessage", phase)
	}
	want := "abcdefghijklmnopqrstuvwxyz0123456789"
	if got := string(p.Message().Body); got != want {
		t.Errorf("call 3: body = %q, want %q", got, want)
	}
}

// P1 - determinism: feeding a message split across any chunk boundaries
// yields the same outcome as feeding it whole.
func TestParseDeterminismAcrossChunkBoundaries(t *testing.T) {
	whole := []byte("POST /x HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")

	ref := NewRequestParser()
	if _, r := ref.Parse(whole); r != Valid {
		t.Fatalf("reference parse: want Valid, got %s", r)
	}

	for chunkSize := 1; chunkSize <= len(whole); chunkSize++ {
		p := NewRequestParser()
		var result Result
		for i := 0; i < len(whole); i += chunkSize {
			end := i + chunkSize
			if end > len(whole) {
				end = len(whole)
			}
			_, result = p.Parse(whole[i:end])
			if result == Invalid {
				t.Fatalf("chunkSize=%d: unexpected Invalid at offset %d", chunkSize, i)
			}
		}
		if result != Valid {
			t.Fatalf("chunkSize=%d: final result = %s, want Valid", chunkSize, result)
		}
		if p.Message().Method != ref.Message().Method || string(p.Message().Body) != string(ref.Message().Body) {
			t.Fatalf("chunkSize=%d: message mismatch: %+v vs %+v", chunkSize, p.Message(), ref.Message())
		}
	}
}

// P2 - no over-consumption: trailing bytes after a Valid message are left
// completely untouched by the parser.
func TestParseDoesNotOverConsume(t *testing.T) {
	msg := "GET / HTTP/1.1\r\n\r\n"
	trailer := "GET /next HTTP/1.1\r\n\r\n"
	in := []byte(msg + trailer)

	p := NewRequestParser()
	consumed, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if consumed != len(msg) {
		t.Fatalf("consumed = %d, want %d (exactly the first message)", consumed, len(msg))
	}
	if got := string(in[consumed:]); got != trailer {
		t.Fatalf("trailing bytes corrupted: got %q, want %q", got, trailer)
	}
}

// P3 - phase monotonicity: across repeated ParseWithPhase calls, phase never
// decreases and each phase value is observed at most once.
func TestParsePhaseMonotonic(t *testing.T) {
	in := []byte("PUT /y HTTP/1.1\r\nX-A: 1\r\nX-B: 2\r\nContent-Length: 3\r\n\r\nabc")

	p := NewRequestParser()
	var phase ParsePhase
	seen := map[ParsePhase]int{}
	last := PhaseStart

	for len(in) > 0 {
		consumed, result := p.ParseWithPhase(in, &phase)
		if phase < last {
			t.Fatalf("phase regressed: %s after %s", phase, last)
		}
		seen[phase]++
		last = phase
		in = in[consumed:]
		if result == Valid {
			break
		}
		if result == Invalid {
			t.Fatalf("unexpected Invalid")
		}
	}

	for ph, n := range seen {
		if n > 1 {
			t.Errorf("phase %s observed %d times, want at most once", ph, n)
		}
	}
	if last != PhaseReceivedFullMessage {
		t.Fatalf("final phase = %s, want ReceivedFullMessage", last)
	}
}

// P4 - canonical round-trip: parse, serialize via WriteTo, re-parse; the
// result is equal modulo header name casing normalized to canonical form.
func TestParseCanonicalRoundTrip(t *testing.T) {
	in := []byte("GET /path HTTP/1.1\r\nhost: example.com\r\nX-custom-HEADER: v1\r\n\r\n")

	p := NewRequestParser()
	if _, r := p.Parse(in); r != Valid {
		t.Fatalf("first parse: want Valid, got %s", r)
	}

	var buf writerBuf
	if _, err := p.Message().WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	p2 := NewRequestParser()
	if _, r := p2.Parse(buf.b); r != Valid {
		t.Fatalf("second parse: want Valid, got %s", r)
	}

	m1, m2 := p.Message(), p2.Message()
	if m1.Method != m2.Method || m1.URI != m2.URI || m1.Version() != m2.Version() {
		t.Fatalf("start line mismatch: %+v vs %+v", m1, m2)
	}
	if got, want := m2.Headers.Names(), []string{"Host", "X-Custom-Header"}; !equalStrings(got, want) {
		t.Fatalf("canonical names after round-trip = %v, want %v", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type writerBuf struct{ b []byte }

func (w *writerBuf) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// Leading zeros and non-literal-"0" terminal chunk lengths are accepted, per
// the resolved Open Question on the terminal zero-length chunk.
func TestParseChunkedLeadingZerosInLength(t *testing.T) {
	p := NewRequestParser()
	in := []byte("POST /z HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"007\r\nabcdefg\r\n00\r\n\r\n")

	_, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if got := string(p.Message().Body); got != "abcdefg" {
		t.Errorf("body = %q, want abcdefg", got)
	}
}

// Chunk extensions are explicitly unsupported grammar and must fail.
func TestParseChunkExtensionIsInvalid(t *testing.T) {
	p := NewRequestParser()
	in := []byte("POST /z HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5;ext=1\r\nabcde\r\n0\r\n\r\n")

	_, result := p.Parse(in)
	if result != Invalid {
		t.Fatalf("want Invalid, got %s", result)
	}
}

// Trailing headers after the terminating zero chunk are explicitly
// unsupported and must fail.
func TestParseChunkedTrailingHeadersIsInvalid(t *testing.T) {
	p := NewRequestParser()
	in := []byte("POST /z HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"0\r\nX-Trailer: v\r\n\r\n")

	_, result := p.Parse(in)
	if result != Invalid {
		t.Fatalf("want Invalid, got %s", result)
	}
}

// Header folding (LWS continuation) concatenates onto the previous value.
func TestParseHeaderFolding(t *testing.T) {
	p := NewRequestParser()
	in := []byte("GET / HTTP/1.1\r\nX-Long: part1\r\n part2\r\n\r\n")

	_, result := p.Parse(in)
	if result != Valid {
		t.Fatalf("want Valid, got %s", result)
	}
	if got := p.Message().Headers.Find("X-Long"); len(got) != 1 || got[0] != "part1 part2" {
		t.Errorf("folded header = %v, want [part1 part2]", got)
	}
}

// A malformed method line is rejected.
func TestParseInvalidMethod(t *testing.T) {
	p := NewRequestParser()
	_, result := p.Parse([]byte("G T / HTTP/1.1\r\n\r\n"))
	if result != Invalid {
		t.Fatalf("want Invalid, got %s", result)
	}
}

// Reset allows a single Parser to be reused across messages.
func TestParserResetForRequestAndResponse(t *testing.T) {
	p := NewRequestParser()
	if _, r := p.Parse([]byte("GET / HTTP/1.1\r\n\r\n")); r != Valid {
		t.Fatalf("want Valid, got %s", r)
	}

	p.ResetForResponse()
	if _, r := p.Parse([]byte("HTTP/1.1 204 No Content\r\n\r\n")); r != Valid {
		t.Fatalf("after reset: want Valid, got %s", r)
	}
	if p.Message().StatusCode != 204 {
		t.Errorf("status = %d, want 204", p.Message().StatusCode)
	}

	p.ResetForRequest()
	if _, r := p.Parse([]byte("POST /again HTTP/1.0\r\n\r\n")); r != Valid {
		t.Fatalf("after second reset: want Valid, got %s", r)
	}
	if p.Message().URI != "/again" {
		t.Errorf("uri = %q, want /again", p.Message().URI)
	}
}

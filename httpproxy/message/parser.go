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
	"strconv"
	"strings"
)

// Parser is the incremental HTTP/1.x message parser. It is pure: given a
// message and a byte range, it updates both as it goes and never performs
// I/O. A single Parser instance handles either requests or responses,
// chosen by ResetForRequest/ResetForResponse, and may be reused across many
// messages by resetting between them.
type Parser struct {
	state parserState
	msg   *HttpMessage
	phase ParsePhase

	headerName  []byte
	headerValue []byte

	chunked   bool
	chunkLen  int64
	remaining int64
}

// NewRequestParser returns a Parser positioned to parse a request.
func NewRequestParser() *Parser {
	p := &Parser{}
	p.ResetForRequest()
	return p
}

// NewResponseParser returns a Parser positioned to parse a response.
func NewResponseParser() *Parser {
	p := &Parser{}
	p.ResetForResponse()
	return p
}

// ResetForRequest discards any in-progress message and prepares the parser
// to parse a new request from MethodStart.
func (p *Parser) ResetForRequest() {
	p.state = stMethodStart
	if p.msg == nil {
		p.msg = NewRequestMessage()
	} else {
		p.msg.reset(KindRequest)
	}
	p.phase = PhaseStart
	p.resetScratch()
}

// ResetForResponse discards any in-progress message and prepares the parser
// to parse a new response from ResponseStart.
func (p *Parser) ResetForResponse() {
	p.state = stRespVersionH
	if p.msg == nil {
		p.msg = NewResponseMessage()
	} else {
		p.msg.reset(KindResponse)
	}
	p.phase = PhaseStart
	p.resetScratch()
}

func (p *Parser) resetScratch() {
	p.headerName = p.headerName[:0]
	p.headerValue = p.headerValue[:0]
	p.chunked = false
	p.chunkLen = 0
	p.remaining = 0
}

// Message returns the HttpMessage being populated. It is only guaranteed
// fully valid once Parse/ParseWithPhase returns Valid.
func (p *Parser) Message() *HttpMessage {
	return p.msg
}

// Phase returns the parser's current ParsePhase.
func (p *Parser) Phase() ParsePhase {
	return p.phase
}

// Parse feeds data to the parser and runs until the input is exhausted, the
// message is fully parsed (Valid), or the grammar is violated (Invalid).
// consumed is always the number of bytes from data that were examined; when
// Valid is returned, consumed points exactly one past the last byte of the
// framed message, and any trailing bytes in data are left untouched.
func (p *Parser) Parse(data []byte) (consumed int, result Result) {
	for i := 0; i < len(data); i++ {
		switch p.step(data[i]) {
		case Invalid:
			return i + 1, Invalid
		case Valid:
			return i + 1, Valid
		}
	}
	return len(data), Incomplete
}

// ParseWithPhase behaves like Parse except that, upon a genuine advancement
// of ParsePhase, it returns Incomplete without consuming further input,
// after updating *phase. A caller can therefore observe "message line
// received" and "headers received" before the body is read. The phase is
// only updated on a true transition; calling again at the same phase never
// re-notifies. Reaching the end of the body coincides with the final Valid
// return (there is no separate byte to pause on in between), so *phase lands
// on PhaseReceivedFullMessage together with a Valid result.
func (p *Parser) ParseWithPhase(data []byte, phase *ParsePhase) (consumed int, result Result) {
	for i := 0; i < len(data); i++ {
		switch p.step(data[i]) {
		case Invalid:
			return i + 1, Invalid
		case Valid:
			*phase = PhaseReceivedFullMessage
			return i + 1, Valid
		}

		if p.phase > *phase {
			*phase = p.phase
			return i + 1, Incomplete
		}
	}
	return len(data), Incomplete
}

// step consumes exactly one byte and returns Incomplete (keep going),
// Valid (message complete, this byte was its last), or Invalid.
func (p *Parser) step(c byte) Result {
	switch p.state {

	// --- request start line ---
	case stMethodStart:
		if !isAlpha(c) {
			return p.fail()
		}
		p.msg.Method = string(c)
		p.state = stMethod
		return Incomplete
	case stMethod:
		switch {
		case c == ' ':
			if p.msg.Method == "" {
				return p.fail()
			}
			p.state = stURI
		case isAlpha(c):
			p.msg.Method += string(c)
		default:
			return p.fail()
		}
		return Incomplete
	case stURI:
		switch {
		case c == ' ':
			if p.msg.URI == "" {
				return p.fail()
			}
			p.state = stReqVersionH
		case isCtl(c):
			return p.fail()
		default:
			p.msg.URI += string(c)
		}
		return Incomplete
	case stReqVersionH:
		return p.expect(c, 'H', stReqVersionHT)
	case stReqVersionHT:
		return p.expect(c, 'T', stReqVersionHTT)
	case stReqVersionHTT:
		return p.expect(c, 'T', stReqVersionHTTP)
	case stReqVersionHTTP:
		return p.expect(c, 'P', stReqVersionSlash)
	case stReqVersionSlash:
		return p.expect(c, '/', stReqMajorStart)
	case stReqMajorStart:
		if !isDigit(c) {
			return p.fail()
		}
		p.msg.VersionMajor = int(c - '0')
		p.state = stReqMajor
		return Incomplete
	case stReqMajor:
		switch {
		case c == '.':
			p.state = stReqMinorStart
		case isDigit(c):
			p.msg.VersionMajor = p.msg.VersionMajor*10 + int(c-'0')
		default:
			return p.fail()
		}
		return Incomplete
	case stReqMinorStart:
		if !isDigit(c) {
			return p.fail()
		}
		p.msg.VersionMinor = int(c - '0')
		p.state = stReqMinor
		return Incomplete
	case stReqMinor:
		switch {
		case c == '\r':
			p.state = stReqLineCR
		case isDigit(c):
			p.msg.VersionMinor = p.msg.VersionMinor*10 + int(c-'0')
		default:
			return p.fail()
		}
		return Incomplete
	case stReqLineCR:
		if c != '\n' {
			return p.fail()
		}
		p.state = stHeaderLineStart
		p.phase = PhaseReceivedMessageLine
		return Incomplete

	// --- response start line ---
	case stRespVersionH:
		return p.expect(c, 'H', stRespVersionHT)
	case stRespVersionHT:
		return p.expect(c, 'T', stRespVersionHTT)
	case stRespVersionHTT:
		return p.expect(c, 'T', stRespVersionHTTP)
	case stRespVersionHTTP:
		return p.expect(c, 'P', stRespVersionSlash)
	case stRespVersionSlash:
		return p.expect(c, '/', stRespMajorStart)
	case stRespMajorStart:
		if !isDigit(c) {
			return p.fail()
		}
		p.msg.VersionMajor = int(c - '0')
		p.state = stRespMajor
		return Incomplete
	case stRespMajor:
		switch {
		case c == '.':
			p.state = stRespMinorStart
		case isDigit(c):
			p.msg.VersionMajor = p.msg.VersionMajor*10 + int(c-'0')
		default:
			return p.fail()
		}
		return Incomplete
	case stRespMinorStart:
		if !isDigit(c) {
			return p.fail()
		}
		p.msg.VersionMinor = int(c - '0')
		p.state = stRespMinor
		return Incomplete
	case stRespMinor:
		switch {
		case c == ' ':
			p.state = stRespStatusCodeStart
		case isDigit(c):
			p.msg.VersionMinor = p.msg.VersionMinor*10 + int(c-'0')
		default:
			return p.fail()
		}
		return Incomplete
	case stRespStatusCodeStart:
		if !isDigit(c) {
			return p.fail()
		}
		p.msg.StatusCode = int(c - '0')
		p.state = stRespStatusCode
		return Incomplete
	case stRespStatusCode:
		switch {
		case c == ' ':
			p.state = stRespStatusMessageStart
		case isDigit(c):
			p.msg.StatusCode = p.msg.StatusCode*10 + int(c-'0')
		default:
			return p.fail()
		}
		return Incomplete
	case stRespStatusMessageStart:
		switch {
		case c == '\r':
			p.state = stRespLineCR
		case isCtl(c):
			return p.fail()
		default:
			p.msg.Reason = string(c)
			p.state = stRespStatusMessage
		}
		return Incomplete
	case stRespStatusMessage:
		switch {
		case c == '\r':
			p.state = stRespLineCR
		case isCtl(c):
			return p.fail()
		default:
			p.msg.Reason += string(c)
		}
		return Incomplete
	case stRespLineCR:
		if c != '\n' {
			return p.fail()
		}
		p.state = stHeaderLineStart
		p.phase = PhaseReceivedMessageLine
		return Incomplete

	// --- headers ---
	case stHeaderLineStart:
		switch {
		case c == '\r':
			p.commitPendingHeader()
			p.state = stHeadersAlmostDone
		case c == ' ' || c == '\t':
			p.state = stHeaderLWS
		case isTokenChar(c):
			p.commitPendingHeader()
			p.headerName = append(p.headerName[:0], c)
			p.state = stHeaderName
		default:
			return p.fail()
		}
		return Incomplete
	case stHeaderLWS:
		if c == ' ' || c == '\t' {
			return Incomplete
		}
		p.headerValue = append(p.headerValue, ' ')
		return p.continueHeaderValue(c)
	case stHeaderName:
		switch {
		case c == ':':
			p.state = stHeaderColon
		case isTokenChar(c):
			p.headerName = append(p.headerName, c)
		default:
			return p.fail()
		}
		return Incomplete
	case stHeaderColon:
		return p.skipHeaderLWS(c, stHeaderSpace)
	case stHeaderSpace:
		return p.skipHeaderLWS(c, stHeaderSpace)
	case stHeaderValue:
		return p.continueHeaderValue(c)
	case stHeaderCR:
		if c != '\n' {
			return p.fail()
		}
		p.state = stHeaderLineStart
		return Incomplete
	case stHeadersAlmostDone:
		if c != '\n' {
			return p.fail()
		}
		p.phase = PhaseReceivedHeaders
		return p.selectBodyFraming()

	// --- fixed-length body ---
	case stBodyIdentity:
		p.msg.Body = append(p.msg.Body, c)
		p.remaining--
		if p.remaining == 0 {
			return p.finish()
		}
		return Incomplete

	// --- chunked body ---
	case stChunkLengthStart:
		if !isHex(c) {
			return p.fail()
		}
		p.chunkLen = int64(hexVal(c))
		p.state = stChunkLength
		return Incomplete
	case stChunkLength:
		switch {
		case isHex(c):
			p.chunkLen = p.chunkLen*16 + int64(hexVal(c))
		case c == '\r':
			p.state = stChunkLengthCR
		default:
			// chunk extensions (";...") are not supported.
			return p.fail()
		}
		return Incomplete
	case stChunkLengthCR:
		if c != '\n' {
			return p.fail()
		}
		if p.chunkLen == 0 {
			p.state = stChunkTrailerStart
			return Incomplete
		}
		p.remaining = p.chunkLen
		p.chunkLen = 0
		p.state = stChunkData
		return Incomplete
	case stChunkData:
		p.msg.Body = append(p.msg.Body, c)
		p.remaining--
		if p.remaining == 0 {
			p.state = stChunkDataCR
		}
		return Incomplete
	case stChunkDataCR:
		if c != '\r' {
			return p.fail()
		}
		p.state = stChunkDataLF
		return Incomplete
	case stChunkDataLF:
		if c != '\n' {
			return p.fail()
		}
		p.state = stChunkLengthStart
		return Incomplete
	case stChunkTrailerStart:
		// Trailing headers after the terminating "0\r\n" are not supported;
		// anything other than the final blank line here is a fatal error.
		if c != '\r' {
			return p.fail()
		}
		p.state = stChunkTerminatingLF
		return Incomplete
	case stChunkTerminatingLF:
		if c != '\n' {
			return p.fail()
		}
		return p.finish()

	default:
		return p.fail()
	}
}

func (p *Parser) expect(c, want byte, next parserState) Result {
	if c != want {
		return p.fail()
	}
	p.state = next
	return Incomplete
}

func (p *Parser) continueHeaderValue(c byte) Result {
	switch {
	case c == '\r':
		p.state = stHeaderCR
	case isCtl(c):
		return p.fail()
	default:
		p.headerValue = append(p.headerValue, c)
		p.state = stHeaderValue
	}
	return Incomplete
}

func (p *Parser) skipHeaderLWS(c byte, lwsState parserState) Result {
	switch {
	case c == ' ' || c == '\t':
		p.state = lwsState
		return Incomplete
	case c == '\r':
		p.state = stHeaderCR
		return Incomplete
	case isCtl(c):
		return p.fail()
	default:
		p.headerValue = append(p.headerValue, c)
		p.state = stHeaderValue
		return Incomplete
	}
}

func (p *Parser) commitPendingHeader() {
	if len(p.headerName) == 0 {
		return
	}
	p.msg.Headers.Insert(string(p.headerName), string(p.headerValue))
	p.headerName = p.headerName[:0]
	p.headerValue = p.headerValue[:0]
}

// selectBodyFraming decides, once the blank line ending the headers has been
// seen, whether a chunked body, a fixed-length body, or no body follows.
func (p *Parser) selectBodyFraming() Result {
	for _, v := range p.msg.Headers.Find("Transfer-Encoding") {
		for _, tok := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(tok), "chunked") {
				p.chunked = true
				p.state = stChunkLengthStart
				return Incomplete
			}
		}
	}

	if v, ok := p.msg.Headers.FindFirst("Content-Length"); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
			if n == 0 {
				return p.finish()
			}
			p.remaining = n
			p.state = stBodyIdentity
			return Incomplete
		}
	}

	return p.finish()
}

func (p *Parser) finish() Result {
	p.phase = PhaseReceivedBody
	p.phase = PhaseReceivedFullMessage
	p.state = stDone
	return Valid
}

func (p *Parser) fail() Result {
	p.state = stError
	return Invalid
}

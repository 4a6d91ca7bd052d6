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

// parserState enumerates every internal position of the message parser's
// byte-driven state machine. States are grouped by the grammar section they
// belong to: the request start line, the response start line, headers, and
// the two body framings (chunked and fixed-length). None of this is visible
// outside the parser; callers only ever observe a ParsePhase or a Result.
type parserState int

const (
	stError parserState = iota

	// Request start line: MethodStart -> Method -> Uri -> HttpVersionH ->
	// T1 -> T2 -> P -> Slash -> MajorStart -> Major -> MinorStart -> Minor
	// -> CR1 -> LF1.
	stMethodStart
	stMethod
	stURI
	stReqVersionH
	stReqVersionHT
	stReqVersionHTT
	stReqVersionHTTP
	stReqVersionSlash
	stReqMajorStart
	stReqMajor
	stReqMinorStart
	stReqMinor
	stReqLineCR
	// stReqLineLF folds directly into stHeaderLineStart.

	// Response start line, with MajorVersion/MinorVersion/StatusCodeStart/
	// StatusCode/StatusMessageStart/StatusMessage sub-states, ending in
	// ResponseNewline (folded into stHeaderLineStart).
	stRespVersionH
	stRespVersionHT
	stRespVersionHTT
	stRespVersionHTTP
	stRespVersionSlash
	stRespMajorStart
	stRespMajor
	stRespMinorStart
	stRespMinor
	stRespStatusCodeStart
	stRespStatusCode
	stRespStatusMessageStart
	stRespStatusMessage
	stRespLineCR

	// Headers: HeaderLineStart -> {HeaderLWS | HeaderName -> Colon ->
	// HeaderSpace -> HeaderValue -> CR -> LF} -> HeaderLineStart, or the
	// end-of-headers blank line (CR -> LF).
	stHeaderLineStart
	stHeaderLWS
	stHeaderName
	stHeaderColon
	stHeaderSpace
	stHeaderValue
	stHeaderCR
	stHeadersAlmostDone

	// Fixed-length body: consume exactly Content-Length bytes into Body.
	stBodyIdentity

	// Chunked body: ChunkLengthStart -> ChunkLength -> ChunkLengthCR ->
	// ChunkLengthLF -> Chunk* -> ChunkTrailingCR -> ChunkTrailingLF -> ... ->
	// TrailingHeaderStart -> TerminatingCR -> TerminatingLF.
	stChunkLengthStart
	stChunkLength
	stChunkLengthCR
	stChunkData
	stChunkDataCR
	stChunkDataLF
	stChunkTrailerStart
	stChunkTerminatingLF

	stDone
)

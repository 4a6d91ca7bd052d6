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

// ParsePhase is an externally observable milestone in parsing a single HTTP
// message. It is monotonically non-decreasing across the life of a parser.
type ParsePhase int

const (
	PhaseStart ParsePhase = iota
	PhaseReceivedMessageLine
	PhaseReceivedHeaders
	PhaseReceivedBody
	PhaseReceivedFullMessage
)

func (p ParsePhase) String() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhaseReceivedMessageLine:
		return "ReceivedMessageLine"
	case PhaseReceivedHeaders:
		return "ReceivedHeaders"
	case PhaseReceivedBody:
		return "ReceivedBody"
	case PhaseReceivedFullMessage:
		return "ReceivedFullMessage"
	default:
		return "Unknown"
	}
}

// Result is the outcome of feeding bytes to a Parser.
type Result int

const (
	// Incomplete means the input was exhausted (or a phase pause occurred);
	// more bytes are expected before the message can be judged.
	Incomplete Result = iota
	// Valid means the message is fully parsed; any bytes past the consumed
	// count were left untouched by the parser.
	Valid
	// Invalid means the input violated the grammar; the parser is unusable
	// until Reset.
	Invalid
)

func (r Result) String() string {
	switch r {
	case Incomplete:
		return "Incomplete"
	case Valid:
		return "Valid"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

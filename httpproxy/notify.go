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

// NotificationState is a per-Transaction progress cursor. It only ever
// advances forward; once set to Error it is terminal. TLSTunnel is the other
// sink, reached only via a successful CONNECT.
type NotificationState int

const (
	NoneState NotificationState = iota
	RequestHeaders
	RequestBody
	RequestComplete
	ResponseHeaders
	ResponseBody
	ResponseComplete
	TLSTunnel
	ErrorState
)

func (n NotificationState) String() string {
	switch n {
	case NoneState:
		return "None"
	case RequestHeaders:
		return "RequestHeaders"
	case RequestBody:
		return "RequestBody"
	case RequestComplete:
		return "RequestComplete"
	case ResponseHeaders:
		return "ResponseHeaders"
	case ResponseBody:
		return "ResponseBody"
	case ResponseComplete:
		return "ResponseComplete"
	case TLSTunnel:
		return "TLSTunnel"
	case ErrorState:
		return "Error"
	default:
		return "Unknown"
	}
}

// requestSequence and responseSequence are the only states each direction's
// progress ever walks through, in order. advanceTo walks a cursor from its
// current state up to (and including) target, one step at a time, so that a
// parser phase jump (e.g. straight to RequestComplete on a bodyless request)
// still yields each intermediate NotificationState exactly once, in order.
var requestSequence = []NotificationState{RequestHeaders, RequestBody, RequestComplete}
var responseSequence = []NotificationState{ResponseHeaders, ResponseBody, ResponseComplete}

// advanceTo returns every state strictly after cur, up to and including
// target, in the given sequence. If target is not found in sequence, it
// returns just target (used for terminal states like TLSTunnel/Error that
// aren't part of either sequence). If target is in sequence but not after
// cur, it returns an empty slice.
func advanceTo(cur NotificationState, target NotificationState, sequence []NotificationState) []NotificationState {
	idx := -1
	for i, s := range sequence {
		if s == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return []NotificationState{target}
	}

	var out []NotificationState
	for i := 0; i <= idx; i++ {
		if sequence[i] > cur {
			out = append(out, sequence[i])
		}
	}
	return out
}

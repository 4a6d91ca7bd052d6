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

import "github.com/sabouaram/proxycore/errors"

// Error kinds. These cross the package's API boundary: a Transaction's
// error is always one of these, optionally wrapping an underlying system
// error as its parent (errors.CodeError.Error(parent)).
const (
	// NetworkError is a generic socket-level failure.
	NetworkError errors.CodeError = iota + errors.MinPkgHttpProxy
	// RemoteDnsLookupError means resolving the upstream host failed.
	RemoteDnsLookupError
	// ClientDisconnected means the client reached EOF at an unexpected point.
	ClientDisconnected
	// RemoteDisconnected means the remote reached EOF at an unexpected point.
	RemoteDisconnected
	// MalformedRequest means the client-side parser returned Invalid, or the
	// request had no usable Host.
	MalformedRequest
	// MalformedResponse means the remote-side parser returned Invalid.
	MalformedResponse
	// ErrorListen means the Server could not bind its listening socket.
	ErrorListen
	// ErrorAccept means a single accept() call failed (logged, non-fatal).
	ErrorAccept
	// ErrorValidator means the Config failed struct validation.
	ErrorValidator
)

var isCodeError = false

// IsCodeError reports whether the shared errors message table already held
// a message function for this package's code block when this package's
// init ran, i.e. whether another package claimed the same codes. It is
// false when the block was free (exposed for tests).
func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(NetworkError)
	errors.RegisterIdFctMessage(NetworkError, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case errors.UnknownError:
		return ""
	case NetworkError:
		return "network error relaying a transaction"
	case RemoteDnsLookupError:
		return "could not resolve upstream host"
	case ClientDisconnected:
		return "client disconnected unexpectedly"
	case RemoteDisconnected:
		return "remote disconnected unexpectedly"
	case MalformedRequest:
		return "client request is malformed"
	case MalformedResponse:
		return "remote response is malformed"
	case ErrorListen:
		return "cannot bind listening socket"
	case ErrorAccept:
		return "accept on listening socket failed"
	case ErrorValidator:
		return "invalid config, validation error"
	}

	return ""
}

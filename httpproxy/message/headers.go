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

import "strings"

// Headers is a case-insensitive, ordered multimap of header name to values.
// Distinct names are iterated in first-insertion order; a name may carry
// more than one value, stored in the order they were inserted.
type Headers struct {
	order  []string            // fold-cased names, first-insertion order
	values map[string][]string // fold-cased name -> values, insertion order
}

// NewHeaders returns an empty Headers multimap ready for use.
func NewHeaders() *Headers {
	return &Headers{
		values: make(map[string][]string),
	}
}

func foldKey(name string) string {
	return strings.ToLower(name)
}

// Insert stores value under name, case-folded for lookup. The first time a
// given name (case-insensitively) is seen, it is recorded for canonical
// iteration order via Names.
func (h *Headers) Insert(name, value string) {
	k := foldKey(name)
	if _, ok := h.values[k]; !ok {
		h.order = append(h.order, k)
	}
	h.values[k] = append(h.values[k], value)
}

// Find returns the values associated with name, case-insensitively, in
// insertion order. Returns an empty slice if name is absent.
func (h *Headers) Find(name string) []string {
	v, ok := h.values[foldKey(name)]
	if !ok {
		return nil
	}

	out := make([]string, len(v))
	copy(out, v)
	return out
}

// FindFirst returns the first value associated with name and whether it was
// present at all.
func (h *Headers) FindFirst(name string) (string, bool) {
	v, ok := h.values[foldKey(name)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Names returns the canonically cased, distinct header names in the order
// each was first inserted.
func (h *Headers) Names() []string {
	out := make([]string, 0, len(h.order))
	for _, k := range h.order {
		out = append(out, CanonicalCase(k))
	}
	return out
}

// Size returns the total number of name/value entries (a name with three
// values counts three times).
func (h *Headers) Size() int {
	n := 0
	for _, v := range h.values {
		n += len(v)
	}
	return n
}

// Empty reports whether no entries have been inserted.
func (h *Headers) Empty() bool {
	return h.Size() == 0
}

// CanonicalCase renders name as "Title-Cased-By-Hyphen-Segment": the first
// letter of each hyphen-separated segment is uppercased, every other letter
// is lowercased, and non-alphabetic bytes pass through unchanged. Comparison
// and casing are ASCII-only, per RFC 7230.
func CanonicalCase(name string) string {
	b := []byte(strings.ToLower(name))
	upperNext := true

	for i, c := range b {
		switch {
		case c == '-':
			upperNext = true
		case upperNext && c >= 'a' && c <= 'z':
			b[i] = c - ('a' - 'A')
			upperNext = false
		default:
			upperNext = false
		}
	}

	return string(b)
}

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

package logger

import loglvl "github.com/sabouaram/proxycore/logger/level"

// Entry is one structured log entry under construction. Builder methods
// return the Entry for chaining; nothing reaches the backend until Log.
type Entry struct {
	log    *lgr
	lvl    loglvl.Level
	msg    string
	fields Fields
	errs   []error
}

// FieldAdd attaches one key/value pair to the entry.
func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	if e.fields == nil {
		e.fields = Fields{}
	}
	e.fields[key] = val
	return e
}

// FieldMerge attaches every pair of f to the entry.
func (e *Entry) FieldMerge(f Fields) *Entry {
	for k, v := range f {
		e.FieldAdd(k, v)
	}
	return e
}

// ErrorAdd attaches the non-nil errors of err to the entry. Nil errors are
// skipped whether or not cleanNil is set.
func (e *Entry) ErrorAdd(cleanNil bool, err ...error) *Entry {
	for _, r := range err {
		if r == nil && cleanNil {
			continue
		}
		if r != nil {
			e.errs = append(e.errs, r)
		}
	}
	return e
}

// Log emits the entry at its level.
func (e *Entry) Log() {
	e.log.write(e)
}

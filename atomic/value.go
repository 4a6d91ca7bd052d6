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

// Package atomic wraps sync/atomic.Value with a typed, zero-value-safe
// API: Load on a never-stored Value returns T's zero value (or a
// configured default) instead of a nil interface.
package atomic

import "sync/atomic"

// Value is a typed atomic container. The zero Value is ready to use.
type Value[T any] struct {
	v atomic.Value
	d func() T
}

// box keeps the stored concrete type constant across Stores, which
// sync/atomic.Value requires even when T is an interface type.
type box[T any] struct {
	v T
}

// NewValue returns a Value whose Load yields T's zero value until the
// first Store.
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// NewValueDefault returns a Value whose Load yields def() until the first
// Store.
func NewValueDefault[T any](def func() T) *Value[T] {
	return &Value[T]{d: def}
}

// Load returns the last stored value, or the default for a never-stored
// Value.
func (a *Value[T]) Load() T {
	if b, ok := a.v.Load().(box[T]); ok {
		return b.v
	}
	if a.d != nil {
		return a.d()
	}
	var zero T
	return zero
}

// Store replaces the current value.
func (a *Value[T]) Store(v T) {
	a.v.Store(box[T]{v: v})
}

// Swap stores v and returns the previous value (or the default if none was
// stored yet).
func (a *Value[T]) Swap(v T) T {
	if b, ok := a.v.Swap(box[T]{v: v}).(box[T]); ok {
		return b.v
	}
	if a.d != nil {
		return a.d()
	}
	var zero T
	return zero
}

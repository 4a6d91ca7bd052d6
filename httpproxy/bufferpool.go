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

import (
	"sync"
	"sync/atomic"
)

// readBufferSize is the fixed size of every buffer BufferPool hands out.
const readBufferSize = 8 * 1024

// BufferPool hands out fixed-size read buffers and reclaims them once a
// Transaction is done with them, instead of allocating and discarding one
// per read call. idle/borrowed are exposed so a caller (or a future metrics
// collector) can observe pool pressure the same way a pool-backed resource
// manager would.
type BufferPool struct {
	pool     sync.Pool
	borrowed atomic.Int64
	idle     atomic.Int64
}

// NewBufferPool returns a ready-to-use BufferPool pre-warmed with min idle
// buffers so the first min Gets don't allocate.
func NewBufferPool(min int) *BufferPool {
	p := &BufferPool{}
	for i := 0; i < min; i++ {
		p.pool.Put(make([]byte, readBufferSize))
		p.idle.Add(1)
	}
	return p
}

// Get borrows a buffer, allocating a new one if the pool is empty.
func (p *BufferPool) Get() []byte {
	p.borrowed.Add(1)
	if v := p.pool.Get(); v != nil {
		p.idle.Add(-1)
		return v.([]byte)
	}
	return make([]byte, readBufferSize)
}

// Put returns buf to the pool for reuse by a later Get.
func (p *BufferPool) Put(buf []byte) {
	p.borrowed.Add(-1)
	p.idle.Add(1)
	p.pool.Put(buf[:readBufferSize])
}

// Idle reports how many buffers currently sit unused in the pool.
func (p *BufferPool) Idle() int64 {
	return p.idle.Load()
}

// Borrowed reports how many buffers are currently checked out.
func (p *BufferPool) Borrowed() int64 {
	return p.borrowed.Load()
}

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

package mapCloser

import (
	"context"
	"errors"
	"io"
	"sync"
)

type closer struct {
	mu     sync.Mutex
	clo    []io.Closer
	closed bool
	stop   chan struct{}
}

func newCloser(ctx context.Context) *closer {
	if ctx == nil {
		ctx = context.Background()
	}

	c := &closer{stop: make(chan struct{})}

	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.stop:
		}
	}()

	return c
}

func (c *closer) Add(clo ...io.Closer) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		for _, i := range clo {
			if i != nil {
				_ = i.Close()
			}
		}
		return
	}

	for _, i := range clo {
		if i != nil {
			c.clo = append(c.clo, i)
		}
	}
	c.mu.Unlock()
}

func (c *closer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clo)
}

func (c *closer) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	clo := c.clo
	c.clo = nil
	close(c.stop)
	c.mu.Unlock()

	var errs []error
	for _, i := range clo {
		if err := i.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *closer) Clean() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clo = nil
}

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

package atomic_test

import (
	"sync"
	"testing"

	libatm "github.com/sabouaram/proxycore/atomic"
)

func TestLoadBeforeStoreReturnsZeroValue(t *testing.T) {
	v := libatm.NewValue[int]()
	if got := v.Load(); got != 0 {
		t.Errorf("Load() = %d, want 0", got)
	}
}

func TestLoadBeforeStoreReturnsDefault(t *testing.T) {
	v := libatm.NewValueDefault(func() string { return "fallback" })
	if got := v.Load(); got != "fallback" {
		t.Errorf("Load() = %q, want %q", got, "fallback")
	}

	v.Store("set")
	if got := v.Load(); got != "set" {
		t.Errorf("Load() after Store = %q, want %q", got, "set")
	}
}

func TestSwapReturnsPrevious(t *testing.T) {
	v := libatm.NewValue[int]()
	v.Store(1)

	if prev := v.Swap(2); prev != 1 {
		t.Errorf("Swap(2) = %d, want 1", prev)
	}
	if got := v.Load(); got != 2 {
		t.Errorf("Load() = %d, want 2", got)
	}
}

func TestSwapOnEmptyReturnsDefault(t *testing.T) {
	v := libatm.NewValueDefault(func() int { return 7 })
	if prev := v.Swap(9); prev != 7 {
		t.Errorf("Swap on empty = %d, want default 7", prev)
	}
}

func TestConcurrentStoreLoad(t *testing.T) {
	v := libatm.NewValue[int]()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				v.Store(n)
				_ = v.Load()
			}
		}(i)
	}
	wg.Wait()

	if got := v.Load(); got < 0 || got > 7 {
		t.Errorf("final Load() = %d, want one of the stored values", got)
	}
}

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

// Package sem bounds how many goroutines may run a piece of work at once. A
// Sem wraps a context.Context: canceling the parent context cancels every
// blocked or future NewWorker call.
package sem

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var defaultSimultaneous atomic.Int64

// MaxSimultaneous returns the hard ceiling on the worker limit: the number
// of OS threads the runtime schedules goroutines onto.
func MaxSimultaneous() int {
	return runtime.GOMAXPROCS(0)
}

// SetSimultaneous changes the default worker limit used by New when called
// with n == 0. A value in [1, MaxSimultaneous] is kept as is; any other
// value is replaced by MaxSimultaneous. The resulting value is returned.
func SetSimultaneous(n int) int64 {
	m := int64(MaxSimultaneous())
	v := int64(n)
	if v < 1 || v > m {
		v = m
	}
	defaultSimultaneous.Store(v)
	return v
}

// Sem bounds concurrent work and carries the context it was built from.
type Sem interface {
	context.Context

	// NewWorker blocks until a slot is free or ctx is done, then occupies
	// one slot.
	NewWorker() error
	// NewWorkerTry occupies a slot without blocking, reporting whether one
	// was available.
	NewWorkerTry() bool
	// DeferWorker releases one slot. Meant to be deferred right after a
	// successful NewWorker/NewWorkerTry.
	DeferWorker()
	// DeferMain waits for every outstanding worker to release its slot; a
	// weighted Sem stops waiting once its context is done. Meant to be deferred once, by the goroutine that owns this Sem.
	DeferMain()
	// WaitAll blocks until every slot is free, or ctx is done.
	WaitAll() error
	// Weighted returns the configured capacity: -1 means unlimited.
	Weighted() int64
	// New builds an independent Sem with the same capacity and the same
	// parent context, sharing no slots with this one.
	New() Sem
}

type weightedSem struct {
	context.Context
	w *semaphore.Weighted
	n int64
}

type unlimitedSem struct {
	context.Context
	wg sync.WaitGroup
}

// New builds a Sem from ctx with capacity n: n > 0 uses a weighted
// semaphore of that size, n == 0 uses MaxSimultaneous, and n < 0 is
// unlimited (tracked with a sync.WaitGroup so DeferMain/WaitAll still work).
func New(ctx context.Context, n int) Sem {
	if ctx == nil {
		ctx = context.Background()
	}

	if n < 0 {
		return &unlimitedSem{Context: ctx}
	}
	if n == 0 {
		if d := defaultSimultaneous.Load(); d > 0 {
			n = int(d)
		} else {
			n = MaxSimultaneous()
		}
	}

	return &weightedSem{Context: ctx, w: semaphore.NewWeighted(int64(n)), n: int64(n)}
}

func (s *weightedSem) New() Sem {
	return &weightedSem{Context: s.Context, w: semaphore.NewWeighted(s.n), n: s.n}
}

func (s *unlimitedSem) New() Sem {
	return &unlimitedSem{Context: s.Context}
}

func (s *weightedSem) NewWorker() error {
	return s.w.Acquire(s.Context, 1)
}

func (s *weightedSem) NewWorkerTry() bool {
	return s.w.TryAcquire(1)
}

func (s *weightedSem) DeferWorker() {
	s.w.Release(1)
}

func (s *weightedSem) DeferMain() {
	_ = s.WaitAll()
}

func (s *weightedSem) WaitAll() error {
	if err := s.w.Acquire(s.Context, s.n); err != nil {
		return err
	}
	s.w.Release(s.n)
	return nil
}

func (s *weightedSem) Weighted() int64 {
	return s.n
}

func (s *unlimitedSem) NewWorker() error {
	if err := s.Context.Err(); err != nil {
		return err
	}
	s.wg.Add(1)
	return nil
}

func (s *unlimitedSem) NewWorkerTry() bool {
	return s.NewWorker() == nil
}

func (s *unlimitedSem) DeferWorker() {
	s.wg.Done()
}

func (s *unlimitedSem) DeferMain() {
	s.wg.Wait()
}

func (s *unlimitedSem) WaitAll() error {
	s.wg.Wait()
	return s.Context.Err()
}

func (s *unlimitedSem) Weighted() int64 {
	return -1
}

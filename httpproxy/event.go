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

	"github.com/sabouaram/proxycore/errors"
	"github.com/sabouaram/proxycore/httpproxy/message"
)

// EventKind identifies which collaborator-facing notification an Event
// carries.
type EventKind int

const (
	EventTransactionStarted EventKind = iota
	EventRequestRead
	EventResponseHeadersRead
	EventResponseRead
	EventTransactionComplete
	EventTransactionFailed
)

func (k EventKind) String() string {
	switch k {
	case EventTransactionStarted:
		return "TransactionStarted"
	case EventRequestRead:
		return "RequestRead"
	case EventResponseHeadersRead:
		return "ResponseHeadersRead"
	case EventResponseRead:
		return "ResponseRead"
	case EventTransactionComplete:
		return "TransactionComplete"
	case EventTransactionFailed:
		return "TransactionFailed"
	default:
		return "Unknown"
	}
}

// Event is one collaborator-facing notification for a single Transaction.
// Request/Response are snapshots: independent copies a subscriber may keep
// without racing the Transaction that produced them.
type Event struct {
	Kind     EventKind
	TxID     uint64
	Request  *message.HttpMessage
	Response *message.HttpMessage
	Err      errors.Error
}

// EventBus is a multi-producer, multi-consumer fan-out of Events.
// Subscribers hold a channel, not a pointer back into the bus, so there is
// no cyclic ownership to manage.
type EventBus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewEventBus returns a ready-to-use EventBus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function. The channel is buffered so Publish never blocks on a
// slow subscriber for long; a subscriber that falls far enough behind has
// its oldest unread event dropped rather than stalling every Transaction.
func (b *EventBus) Subscribe(buffer int) (ch <-chan Event, unsubscribe func()) {
	if buffer <= 0 {
		buffer = 16
	}

	b.mu.Lock()
	id := b.next
	b.next++
	c := make(chan Event, buffer)
	b.subs[id] = c
	b.mu.Unlock()

	return c, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish fans ev out to every current subscriber without blocking: ev is
// sent into each subscriber's buffered channel, and a full buffer has its
// oldest unread event dropped to make room.
func (b *EventBus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, c := range b.subs {
		select {
		case c <- ev:
		default:
			// Slow subscriber: drop the oldest queued event to make room
			// rather than stalling the Transaction publishing this one.
			select {
			case <-c:
			default:
			}
			select {
			case c <- ev:
			default:
			}
		}
	}
}

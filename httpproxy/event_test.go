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

import "testing"

func TestEventBusFansOutToEverySubscriber(t *testing.T) {
	bus := NewEventBus()

	a, ua := bus.Subscribe(4)
	defer ua()
	b, ub := bus.Subscribe(4)
	defer ub()

	bus.Publish(Event{Kind: EventTransactionStarted, TxID: 7})

	for _, ch := range []<-chan Event{a, b} {
		ev := <-ch
		if ev.Kind != EventTransactionStarted || ev.TxID != 7 {
			t.Fatalf("got %v txid %d, want TransactionStarted txid 7", ev.Kind, ev.TxID)
		}
	}
}

func TestEventBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()

	ch, unsubscribe := bus.Subscribe(1)
	unsubscribe()

	if _, open := <-ch; open {
		t.Fatal("channel still open after unsubscribe")
	}

	// Publishing after unsubscribe must not panic or deliver anywhere.
	bus.Publish(Event{Kind: EventTransactionComplete, TxID: 1})
}

func TestEventBusUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewEventBus()

	_, unsubscribe := bus.Subscribe(1)
	unsubscribe()
	unsubscribe()
}

func TestEventBusSlowSubscriberDropsOldestNotPublisher(t *testing.T) {
	bus := NewEventBus()

	ch, unsubscribe := bus.Subscribe(2)
	defer unsubscribe()

	// Three publishes into a 2-slot buffer: the oldest is dropped so the
	// publisher never blocks.
	bus.Publish(Event{Kind: EventTransactionStarted, TxID: 1})
	bus.Publish(Event{Kind: EventRequestRead, TxID: 1})
	bus.Publish(Event{Kind: EventTransactionComplete, TxID: 1})

	first := <-ch
	second := <-ch
	if first.Kind != EventRequestRead || second.Kind != EventTransactionComplete {
		t.Fatalf("buffered events = %v, %v; want RequestRead, TransactionComplete", first.Kind, second.Kind)
	}

	select {
	case ev := <-ch:
		t.Fatalf("unexpected extra event %v", ev.Kind)
	default:
	}
}

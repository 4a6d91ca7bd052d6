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

package conn

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func TestSocketConnReadWriteRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	sc := NewPlain(client)
	ctx := context.Background()

	go func() {
		_, _ = server.Write([]byte("hello"))
	}()

	buf := make([]byte, 5)
	n, err := sc.Read(ctx, buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Read = %q, want hello", buf[:n])
	}
}

func TestSocketConnWriteWritesAllBytes(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	sc := NewPlain(client)
	ctx := context.Background()

	payload := make([]byte, 1<<16)
	for i := range payload {
		payload[i] = byte(i)
	}

	readDone := make(chan []byte, 1)
	go func() {
		got := make([]byte, 0, len(payload))
		buf := make([]byte, 4096)
		for len(got) < len(payload) {
			n, err := server.Read(buf)
			got = append(got, buf[:n]...)
			if err != nil {
				break
			}
		}
		readDone <- got
	}()

	n, err := sc.Write(ctx, payload)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("Write n = %d, want %d", n, len(payload))
	}

	server.Close()
	got := <-readDone
	if len(got) != len(payload) {
		t.Fatalf("server received %d bytes, want %d", len(got), len(payload))
	}
}

func TestSocketConnCloseIsIdempotent(t *testing.T) {
	_, client := net.Pipe()
	sc := NewPlain(client)

	if err := sc.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := sc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestSocketConnReadReportsEOFOnPeerClose(t *testing.T) {
	server, client := net.Pipe()
	sc := NewPlain(client)

	go func() {
		server.Close()
	}()

	buf := make([]byte, 16)
	_, err := sc.Read(context.Background(), buf)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Read err = %v, want io.EOF", err)
	}
}

func TestSocketConnReadRespectsContextDeadline(t *testing.T) {
	_, client := net.Pipe()
	defer client.Close()

	sc := NewPlain(client)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	buf := make([]byte, 4)
	_, err := sc.Read(ctx, buf)
	if err == nil {
		t.Fatalf("expected deadline error, got nil")
	}
}

func TestSocketConnLocalRemoteAddr(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sc := NewPlain(client)
	if sc.LocalAddr() == nil {
		t.Error("LocalAddr() returned nil")
	}
	if sc.RemoteAddr() == nil {
		t.Error("RemoteAddr() returned nil")
	}
}

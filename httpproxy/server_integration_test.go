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

package httpproxy_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sabouaram/proxycore/httpproxy"
)

// startOrigin runs a single-shot fake origin server: accepts one connection,
// reads a request up to its blank line, and replies with a canned
// fixed-length response.
func startOrigin(t *testing.T) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("origin listen: %v", err)
	}

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		r := bufio.NewReader(c)
		for {
			line, err := r.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		_, _ = c.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"))
	}()

	return ln
}

func waitRunning(t *testing.T, srv *httpproxy.Server) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if srv.IsRunning() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("server did not start in time")
}

// S7: for a simple GET that succeeds, the subscriber observes exactly
// TransactionStarted, RequestRead, ResponseHeadersRead, ResponseRead,
// TransactionComplete, in that order, and nothing else.
func TestServerEventOrderingSimpleGet(t *testing.T) {
	origin := startOrigin(t)
	defer origin.Close()

	cfg := httpproxy.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	srv := httpproxy.NewServer(cfg, nil)

	events, unsubscribe := srv.Events().Subscribe(16)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = srv.Run(ctx)
		close(done)
	}()

	waitRunning(t, srv)
	addr := srv.Addr()
	if addr == nil {
		t.Fatal("Addr() returned nil after start")
	}

	client, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial proxy: %v", err)
	}
	defer client.Close()

	req := "GET / HTTP/1.1\r\nHost: " + origin.Addr().String() + "\r\n\r\n"
	if _, err := client.Write([]byte(req)); err != nil {
		t.Fatalf("write request: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := readAll(client)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if !strings.Contains(resp, "200 OK") || !strings.HasSuffix(resp, "hello") {
		t.Fatalf("unexpected response: %q", resp)
	}

	var kinds []string
	timeout := time.After(2 * time.Second)
collect:
	for {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Kind.String())
			if ev.Kind == httpproxy.EventTransactionComplete || ev.Kind == httpproxy.EventTransactionFailed {
				break collect
			}
		case <-timeout:
			t.Fatalf("timed out waiting for terminal event, got so far: %v", kinds)
		}
	}

	want := []string{"TransactionStarted", "RequestRead", "ResponseHeadersRead", "ResponseRead", "TransactionComplete"}
	if !equalStringSlices(kinds, want) {
		t.Fatalf("event order = %v, want %v", kinds, want)
	}

	cancel()
	<-done
}

// startEchoOrigin runs a single-shot echo server: accepts one connection and
// writes back every byte it reads until the peer closes.
func startEchoOrigin(t *testing.T) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("echo origin listen: %v", err)
	}

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		buf := make([]byte, 4096)
		for {
			n, err := c.Read(buf)
			if n > 0 {
				if _, werr := c.Write(buf[:n]); werr != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	return ln
}

// S4 end to end: a CONNECT request gets the literal 200 response, then the
// proxy relays tunnel bytes opaquely in both directions until the client
// hangs up, at which point the transaction completes.
func TestServerConnectTunnel(t *testing.T) {
	origin := startEchoOrigin(t)
	defer origin.Close()

	cfg := httpproxy.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	srv := httpproxy.NewServer(cfg, nil)

	events, unsubscribe := srv.Events().Subscribe(16)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = srv.Run(ctx)
		close(done)
	}()

	waitRunning(t, srv)

	client, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial proxy: %v", err)
	}
	defer client.Close()

	req := "CONNECT " + origin.Addr().String() + " HTTP/1.1\r\n\r\n"
	if _, err := client.Write([]byte(req)); err != nil {
		t.Fatalf("write CONNECT: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(client)
	status, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read CONNECT status: %v", err)
	}
	if status != "HTTP/1.1 200 OK\r\n" {
		t.Fatalf("CONNECT status = %q, want %q", status, "HTTP/1.1 200 OK\r\n")
	}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read CONNECT response headers: %v", err)
		}
		if line == "\r\n" {
			break
		}
	}

	if _, err := client.Write([]byte("ping")); err != nil {
		t.Fatalf("write through tunnel: %v", err)
	}
	echo := make([]byte, 4)
	if _, err := io.ReadFull(r, echo); err != nil {
		t.Fatalf("read echo through tunnel: %v", err)
	}
	if string(echo) != "ping" {
		t.Fatalf("tunnel echoed %q, want %q", echo, "ping")
	}

	_ = client.Close()

	var kinds []string
	timeout := time.After(2 * time.Second)
collect:
	for {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Kind.String())
			if ev.Kind == httpproxy.EventTransactionComplete || ev.Kind == httpproxy.EventTransactionFailed {
				break collect
			}
		case <-timeout:
			t.Fatalf("timed out waiting for terminal event, got so far: %v", kinds)
		}
	}

	want := []string{"TransactionStarted", "RequestRead", "TransactionComplete"}
	if !equalStringSlices(kinds, want) {
		t.Fatalf("event order = %v, want %v", kinds, want)
	}

	cancel()
	<-done
}

// An unresolvable upstream host fails the transaction with exactly one
// terminal event, TransactionFailed, carrying the DNS error kind.
func TestServerUnresolvableHostFailsTransaction(t *testing.T) {
	cfg := httpproxy.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.DialTimeout = 2 * time.Second
	srv := httpproxy.NewServer(cfg, nil)

	events, unsubscribe := srv.Events().Subscribe(16)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = srv.Run(ctx)
		close(done)
	}()

	waitRunning(t, srv)

	client, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial proxy: %v", err)
	}
	defer client.Close()

	req := "GET / HTTP/1.1\r\nHost: no-such-host.invalid\r\n\r\n"
	if _, err := client.Write([]byte(req)); err != nil {
		t.Fatalf("write request: %v", err)
	}

	var kinds []string
	var failure httpproxy.Event
	timeout := time.After(5 * time.Second)
collect:
	for {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Kind.String())
			if ev.Kind == httpproxy.EventTransactionComplete || ev.Kind == httpproxy.EventTransactionFailed {
				failure = ev
				break collect
			}
		case <-timeout:
			t.Fatalf("timed out waiting for terminal event, got so far: %v", kinds)
		}
	}

	want := []string{"TransactionStarted", "RequestRead", "TransactionFailed"}
	if !equalStringSlices(kinds, want) {
		t.Fatalf("event order = %v, want %v", kinds, want)
	}
	if failure.Err == nil {
		t.Fatal("TransactionFailed event carries no error")
	}
	if !failure.Err.HasCode(httpproxy.RemoteDnsLookupError) {
		t.Fatalf("failure error = %v, want code RemoteDnsLookupError", failure.Err)
	}

	cancel()
	<-done
}

func readAll(c net.Conn) (string, error) {
	var buf strings.Builder
	tmp := make([]byte, 4096)
	for {
		n, err := c.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
		}
		if err != nil {
			return buf.String(), nil
		}
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	liberr "github.com/sabouaram/proxycore/errors"
	liblog "github.com/sabouaram/proxycore/logger"
	loglvl "github.com/sabouaram/proxycore/logger/level"

	"github.com/sabouaram/proxycore/httpproxy/conn"
	"github.com/sabouaram/proxycore/httpproxy/message"
	"github.com/sabouaram/proxycore/ioutils/mapCloser"
)

// Transaction drives one accepted client connection through to completion:
// read the request, resolve and open the upstream, relay the request,
// relay the response (or, for CONNECT, pump an opaque tunnel). One
// goroutine owns a Transaction for its entire life: there is never more
// than one read and one write in flight per direction, so no locking is
// needed inside it.
type Transaction struct {
	id   uint64
	cfg  Config
	log  func() liblog.Logger
	bus  *EventBus
	pool *ConnectionPool
	bufs *BufferPool

	client  conn.Connection
	remote  conn.Connection
	closer  mapCloser.Closer
	metrics *Metrics

	cursor  NotificationState
	started time.Time
}

// NewTransaction builds a Transaction for a just-accepted client
// connection. Run must be called exactly once. bufs may be nil, in which
// case each read loop allocates its own buffer instead of pooling one.
func NewTransaction(id uint64, cfg Config, log func() liblog.Logger, bus *EventBus, pool *ConnectionPool, bufs *BufferPool, client conn.Connection) *Transaction {
	return &Transaction{
		id:     id,
		cfg:    cfg,
		log:    log,
		bus:    bus,
		pool:   pool,
		bufs:   bufs,
		client: client,
		cursor: NoneState,
	}
}

// borrowBuffer returns a fixed-size buffer from bufs, or a freshly
// allocated one if no pool is configured.
func (tx *Transaction) borrowBuffer() []byte {
	if tx.bufs != nil {
		return tx.bufs.Get()
	}
	return make([]byte, readBufferSize)
}

func (tx *Transaction) releaseBuffer(buf []byte) {
	if tx.bufs != nil {
		tx.bufs.Put(buf)
	}
}

// readIdle reads from c, bounding the wait for the next byte by
// Config.IdleTimeout. Tunnel pumps do not go through here: a CONNECT tunnel
// may legitimately sit idle far longer than a message parse ever should.
func (tx *Transaction) readIdle(ctx context.Context, c conn.Connection, buf []byte) (int, error) {
	if tx.cfg.IdleTimeout <= 0 {
		return c.Read(ctx, buf)
	}
	rctx, cancel := context.WithTimeout(ctx, tx.cfg.IdleTimeout)
	defer cancel()
	return c.Read(rctx, buf)
}

// advance walks the cursor forward to target along sequence, passing through
// each state at most once and in order even when the parser collapsed the
// intermediate phases. The cursor is internal to the Transaction: no
// NotificationState is published to EventBus subscribers.
func (tx *Transaction) advance(target NotificationState, sequence []NotificationState) {
	for _, s := range advanceTo(tx.cursor, target, sequence) {
		tx.cursor = s
	}
}

func (tx *Transaction) publish(kind EventKind, req, resp *message.HttpMessage, err liberr.Error) {
	snapshot := func(m *message.HttpMessage) *message.HttpMessage {
		if m == nil {
			return nil
		}
		c := *m
		c.Headers = message.NewHeaders()
		for _, name := range m.Headers.Names() {
			for _, v := range m.Headers.Find(name) {
				c.Headers.Insert(name, v)
			}
		}
		c.Body = append([]byte(nil), m.Body...)
		return &c
	}
	tx.bus.Publish(Event{Kind: kind, TxID: tx.id, Request: snapshot(req), Response: snapshot(resp), Err: err})
}

// Run executes the Transaction's entire lifecycle. It returns once the
// transaction has emitted exactly one of TransactionComplete/TransactionFailed
// and released both connections.
func (tx *Transaction) Run(ctx context.Context) {
	tx.started = time.Now()
	tx.closer = mapCloser.New(ctx)
	tx.closer.Add(tx.client)
	defer func() { _ = tx.closer.Close() }()

	tx.publish(EventTransactionStarted, nil, nil, nil)

	req, err := tx.readClientRequest(ctx)
	if err != nil {
		tx.notifyFailure(err)
		return
	}

	if req.Method == "CONNECT" {
		tx.runConnect(ctx, req)
		return
	}

	tx.advance(RequestComplete, requestSequence)
	tx.publish(EventRequestRead, req, nil, nil)

	host, port, ok := tx.requestAuthority(req)
	if !ok {
		tx.notifyFailure(MalformedRequest.Error(errors.New("missing or empty Host header")))
		return
	}

	remote, rerr := tx.pool.TryOpen(ctx, host, port)
	if rerr != nil {
		tx.notifyFailure(rerr)
		return
	}
	tx.remote = remote
	tx.closer.Add(remote)

	sent, werr := req.WriteTo(&connWriter{ctx: ctx, c: remote})
	if werr != nil {
		tx.notifyFailure(NetworkError.Error(werr))
		return
	}
	tx.metrics.addBytesUp(int(sent))

	resp, rawInput, perr := tx.readRemoteResponse(ctx)
	if perr != nil {
		tx.notifyFailure(perr)
		return
	}

	if _, werr := tx.client.Write(ctx, rawInput); werr != nil {
		tx.notifyFailure(ClientDisconnected.Error(werr))
		return
	}
	tx.metrics.addBytesDown(len(rawInput))

	tx.advance(ResponseComplete, responseSequence)
	tx.publish(EventResponseRead, req, resp, nil)
	tx.completeTransaction()
}

// requestAuthority resolves the upstream host/port for a non-CONNECT
// request from its first Host header.
func (tx *Transaction) requestAuthority(req *message.HttpMessage) (string, int, bool) {
	host, ok := req.Headers.FindFirst("Host")
	if !ok || host == "" {
		return "", 0, false
	}
	return hostHeaderAuthority(host)
}

// readClientRequest reads into an 8 KiB buffer and feeds it to a
// phase-aware request parser.
func (tx *Transaction) readClientRequest(ctx context.Context) (*message.HttpMessage, liberr.Error) {
	return tx.readAndParse(ctx, tx.client, message.NewRequestParser(), requestSequence, RequestHeaders, ClientDisconnected)
}

// readRemoteResponse reads into an 8 KiB buffer from the remote connection,
// feeding a phase-aware response parser while also accumulating every raw
// byte read so it can be relayed byte-exact to the client afterward.
func (tx *Transaction) readRemoteResponse(ctx context.Context) (*message.HttpMessage, []byte, liberr.Error) {
	p := message.NewResponseParser()

	buf := tx.borrowBuffer()
	defer tx.releaseBuffer(buf)
	var rawInput bytes.Buffer
	phase := message.PhaseStart
	headersNotified := false

	for {
		n, err := tx.readIdle(ctx, tx.remote, buf)
		if n > 0 {
			rawInput.Write(buf[:n])

			data := buf[:n]
			for len(data) > 0 {
				consumed, result := p.ParseWithPhase(data, &phase)
				data = data[consumed:]

				switch result {
				case message.Invalid:
					return nil, nil, MalformedResponse.Error(fmt.Errorf("malformed upstream response"))
				case message.Valid:
					tx.advance(ResponseComplete, responseSequence)
					return p.Message(), rawInput.Bytes(), nil
				}

				if phase == message.PhaseReceivedHeaders && !headersNotified {
					headersNotified = true
					tx.advance(ResponseHeaders, responseSequence)
					tx.publish(EventResponseHeadersRead, nil, p.Message(), nil)
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil, RemoteDisconnected.Error(err)
			}
			return nil, nil, NetworkError.Error(err)
		}
	}
}

// readAndParse is the shared client/remote read-and-parse loop for the
// request side (the response side tracks raw bytes too, so it has its own
// copy above).
func (tx *Transaction) readAndParse(
	ctx context.Context,
	c conn.Connection,
	p *message.Parser,
	sequence []NotificationState,
	headersState NotificationState,
	eofCode liberr.CodeError,
) (*message.HttpMessage, liberr.Error) {
	buf := tx.borrowBuffer()
	defer tx.releaseBuffer(buf)
	phase := message.PhaseStart
	headersNotified := false

	for {
		n, err := tx.readIdle(ctx, c, buf)
		if n > 0 {
			data := buf[:n]
			for len(data) > 0 {
				consumed, result := p.ParseWithPhase(data, &phase)
				data = data[consumed:]

				switch result {
				case message.Invalid:
					return nil, MalformedRequest.Error(fmt.Errorf("malformed client request"))
				case message.Valid:
					return p.Message(), nil
				}

				if phase == message.PhaseReceivedHeaders && !headersNotified {
					headersNotified = true
					tx.advance(headersState, sequence)
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, eofCode.Error(err)
			}
			return nil, NetworkError.Error(err)
		}
	}
}

// runConnect implements CONNECT tunnel setup and the full-duplex pump that
// follows it.
func (tx *Transaction) runConnect(ctx context.Context, req *message.HttpMessage) {
	tx.advance(RequestComplete, requestSequence)
	tx.publish(EventRequestRead, req, nil, nil)

	host, port, ok := connectAuthority(req.URI)
	if !ok {
		tx.writeConnectResponse(ctx, false)
		tx.notifyFailure(MalformedRequest.Error(fmt.Errorf("malformed CONNECT target %q", req.URI)))
		return
	}

	remote, rerr := tx.pool.TryOpen(ctx, host, port)
	if rerr != nil {
		tx.writeConnectResponse(ctx, false)
		tx.notifyFailure(rerr)
		return
	}
	tx.remote = remote
	tx.closer.Add(remote)

	if _, werr := tx.writeConnectResponse(ctx, true); werr != nil {
		tx.notifyFailure(ClientDisconnected.Error(werr))
		return
	}

	tx.cursor = TLSTunnel
	tx.pumpBoth(ctx)
}

func (tx *Transaction) writeConnectResponse(ctx context.Context, ok bool) (int, error) {
	status := "400 Bad Request"
	if ok {
		status = "200 OK"
	}
	resp := fmt.Sprintf("HTTP/1.1 %s\r\nProxy-Agent: %s\r\n\r\n", status, tx.cfg.ProxyAgent)
	return tx.client.Write(ctx, []byte(resp))
}

// pumpBoth relays bytes in both directions until either side reaches EOF or
// errors. The first pump to finish closes both connections, which ends the
// other pump; only the first pump's result decides the outcome. It never
// parses or inspects the bytes.
func (tx *Transaction) pumpBoth(ctx context.Context) {
	var wg sync.WaitGroup
	var once sync.Once
	errs := make(chan liberr.Error, 2)
	release := func() { once.Do(func() { _ = tx.closer.Close() }) }

	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- pumpOne(ctx, tx.client, tx.remote, tx.metrics.addBytesDown, tx.bufs)
		release()
	}()
	go func() {
		defer wg.Done()
		errs <- pumpOne(ctx, tx.remote, tx.client, tx.metrics.addBytesUp, tx.bufs)
		release()
	}()
	wg.Wait()

	if e := <-errs; e != nil {
		tx.notifyFailure(e)
		return
	}

	tx.completeTransaction()
}

func pumpOne(ctx context.Context, dst, src conn.Connection, record func(int), bufs *BufferPool) liberr.Error {
	var buf []byte
	if bufs != nil {
		buf = bufs.Get()
		defer bufs.Put(buf)
	} else {
		buf = make([]byte, readBufferSize)
	}
	for {
		n, rerr := src.Read(ctx, buf)
		if n > 0 {
			if _, werr := dst.Write(ctx, buf[:n]); werr != nil {
				return NetworkError.Error(werr)
			}
			record(n)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return NetworkError.Error(rerr)
		}
	}
}

// notifyFailure sets the cursor to Error, emits TransactionFailed, then
// releases both connections.
func (tx *Transaction) notifyFailure(err liberr.Error) {
	tx.cursor = ErrorState
	tx.metrics.observeFailed(tx.started)

	tx.log().Entry(loglvl.WarnLevel, "transaction failed").
		FieldAdd("tx_id", tx.id).
		ErrorAdd(true, err).
		Log()

	tx.publish(EventTransactionFailed, nil, nil, err)
}

func (tx *Transaction) completeTransaction() {
	tx.metrics.observeComplete(tx.started)

	tx.log().Entry(loglvl.InfoLevel, "transaction complete").
		FieldAdd("tx_id", tx.id).
		Log()

	tx.publish(EventTransactionComplete, nil, nil, nil)
}

// connWriter adapts a conn.Connection bound to a fixed ctx into an
// io.Writer, so HttpMessage.WriteTo can serialize straight onto the wire.
type connWriter struct {
	ctx context.Context
	c   conn.Connection
}

func (w *connWriter) Write(p []byte) (int, error) {
	return w.c.Write(w.ctx, p)
}

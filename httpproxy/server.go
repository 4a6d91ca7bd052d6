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
	"context"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	liberr "github.com/sabouaram/proxycore/errors"
	liblog "github.com/sabouaram/proxycore/logger"
	loglvl "github.com/sabouaram/proxycore/logger/level"

	"github.com/sabouaram/proxycore/semaphore/sem"
)

// Server accepts client connections and drives one Transaction per
// connection, bounded to at most Config.Workers() concurrent Transactions.
type Server struct {
	cfg Config
	log func() liblog.Logger
	bus *EventBus

	pool    *ConnectionPool
	bufs    *BufferPool
	metrics *Metrics

	listener net.Listener
	running  atomic.Bool
	cancel   context.CancelFunc

	nextTxID atomic.Uint64
}

// NewServer builds a Server. log may be nil, in which case a background
// logger is created lazily.
func NewServer(cfg Config, log func() liblog.Logger) *Server {
	cfg = cfg.ApplyDefaults()

	if log == nil {
		l := liblog.New(context.Background)
		log = func() liblog.Logger { return l }
	}

	return &Server{
		cfg:  cfg,
		log:  log,
		bus:  NewEventBus(),
		pool: NewConnectionPool(log, cfg.DialTimeout),
		bufs: NewBufferPool(cfg.Workers()),
	}
}

// Events returns the Server's EventBus, for subscribers wanting visibility
// into every Transaction's lifecycle.
func (s *Server) Events() *EventBus {
	return s.bus
}

// SetMetrics attaches m so every subsequent Transaction records its outcome
// and relayed byte counts. Nil is a valid value; it disables recording.
func (s *Server) SetMetrics(m *Metrics) {
	s.metrics = m
}

// Run binds the listening socket and serves until ctx is cancelled or a
// SIGINT/SIGTERM/SIGQUIT is received, whichever comes first.
func (s *Server) Run(ctx context.Context) liberr.Error {
	lc := net.ListenConfig{Control: reuseAddrControl}

	ln, err := lc.Listen(ctx, "tcp4", s.cfg.ListenAddr)
	if err != nil {
		s.log().Entry(loglvl.ErrorLevel, "cannot bind listening socket").
			FieldAdd("addr", s.cfg.ListenAddr).
			ErrorAdd(true, err).
			Log()
		return ErrorListen.Error(err)
	}
	s.listener = ln

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.running.Store(true)
	defer s.running.Store(false)

	s.log().Entry(loglvl.InfoLevel, "server listening").
		FieldAdd("addr", ln.Addr().String()).
		FieldAdd("workers", s.cfg.Workers()).
		Log()

	s.acceptLoop(ctx)

	return nil
}

// Stop cancels the running Server, if any, causing Run to return.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// IsRunning reports whether Run is currently serving.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// Addr returns the listening socket's address once Run has bound it, or nil
// before that. Useful for tests binding to ":0" and callers that want to
// report the resolved port.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ctx context.Context) {
	limit := sem.New(ctx, s.cfg.Workers())
	defer limit.DeferMain()

	for {
		raw, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log().Entry(loglvl.WarnLevel, "accept failed").ErrorAdd(true, err).Log()
			continue
		}

		if err := limit.NewWorker(); err != nil {
			_ = raw.Close()
			return
		}

		id := s.nextTxID.Add(1)
		c := s.pool.WrapAccepted(raw)

		go func() {
			defer limit.DeferWorker()
			tx := NewTransaction(id, s.cfg, s.log, s.bus, s.pool, s.bufs, c)
			tx.metrics = s.metrics
			tx.Run(ctx)
		}()
	}
}

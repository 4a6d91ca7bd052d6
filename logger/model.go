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

package logger

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	libatm "github.com/sabouaram/proxycore/atomic"
	loglvl "github.com/sabouaram/proxycore/logger/level"
)

type lgr struct {
	ctx func() context.Context
	lvl *libatm.Value[loglvl.Level]
	fld *libatm.Value[Fields]

	mu  sync.Mutex
	log *logrus.Logger
}

func newLogger(ctx func() context.Context) *lgr {
	if ctx == nil {
		ctx = context.Background
	}

	l := &lgr{
		ctx: ctx,
		lvl: libatm.NewValueDefault(func() loglvl.Level { return loglvl.InfoLevel }),
		fld: libatm.NewValueDefault(func() Fields { return Fields{} }),
		log: logrus.New(),
	}

	_ = l.SetOptions(&Options{})
	return l
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.lvl.Store(lvl)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() loglvl.Level {
	return l.lvl.Load()
}

func (l *lgr) SetFields(f Fields) {
	if f == nil {
		f = Fields{}
	}
	l.fld.Store(f)
}

func (l *lgr) GetFields() Fields {
	return l.fld.Load()
}

func (l *lgr) Entry(lvl loglvl.Level, msg string) *Entry {
	return &Entry{
		log: l,
		lvl: lvl,
		msg: msg,
	}
}

// Write logs each written chunk as one InfoLevel entry, so the Logger can
// be handed to libraries that only take an io.Writer.
func (l *lgr) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if msg != "" {
		l.Entry(loglvl.InfoLevel, msg).Log()
	}
	return len(p), nil
}

// write emits a finished Entry onto the backend. Entries are dropped once
// the Logger's context is done, or when their level is NilLevel.
func (l *lgr) write(e *Entry) {
	if e.lvl == loglvl.NilLevel {
		return
	}
	if c := l.ctx(); c != nil && c.Err() != nil {
		return
	}

	f := logrus.Fields{}
	for k, v := range l.fld.Load() {
		f[k] = v
	}
	for k, v := range e.fields {
		f[k] = v
	}
	if len(e.errs) > 0 {
		msgs := make([]string, 0, len(e.errs))
		for _, err := range e.errs {
			msgs = append(msgs, err.Error())
		}
		f["error"] = strings.Join(msgs, ", ")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.WithFields(f).Log(e.lvl.Logrus(), e.msg)
}

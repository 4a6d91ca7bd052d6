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
	"io"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// Options selects where and how a Logger renders its entries.
type Options struct {
	// DisableStandard drops all output (entries are still built, then
	// discarded by the backend).
	DisableStandard bool

	// DisableColor renders plain text instead of ANSI-colored text.
	DisableColor bool

	// DisableTimestamp omits the timestamp from each rendered entry.
	DisableTimestamp bool

	// LogWriter, when non-nil, receives the rendered entries instead of
	// stdout. Color is disabled for a custom writer.
	LogWriter io.Writer
}

// SetOptions reconfigures the Logger's output and format.
func (l *lgr) SetOptions(opt *Options) error {
	if opt == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	var out io.Writer
	color := !opt.DisableColor

	switch {
	case opt.DisableStandard:
		out = io.Discard
		color = false
	case opt.LogWriter != nil:
		out = opt.LogWriter
		color = false
	default:
		out = colorable.NewColorableStdout()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.log.SetOutput(out)
	l.log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      color,
		DisableColors:    !color,
		DisableTimestamp: opt.DisableTimestamp,
		FullTimestamp:    true,
	})
	l.log.SetLevel(l.lvl.Load().Logrus())

	return nil
}

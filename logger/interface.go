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

// Package logger is the module's structured logging surface, backed by
// logrus. A Logger is built once with New, then shared as a FuncLog so
// every component reads the same instance; entries are built fluently:
//
//	log().Entry(level.InfoLevel, "server listening").
//	    FieldAdd("addr", addr).
//	    Log()
package logger

import (
	"context"
	"io"

	loglvl "github.com/sabouaram/proxycore/logger/level"
)

// FuncLog returns the Logger a component should write to. Passing the
// function rather than the instance lets the owner swap loggers without
// re-plumbing its dependents.
type FuncLog func() Logger

// Fields is a set of structured key/value pairs attached to entries.
type Fields map[string]interface{}

// Logger is a leveled, structured logger. Its io.Writer side logs the text
// of each Write call (trailing line breaks trimmed) as one InfoLevel entry,
// which lets it stand in for the plain writers other libraries expect.
type Logger interface {
	io.Writer

	// SetLevel discards all entries below lvl from now on.
	SetLevel(lvl loglvl.Level)
	// GetLevel returns the current threshold.
	GetLevel() loglvl.Level

	// SetFields attaches f to every subsequent entry.
	SetFields(f Fields)
	// GetFields returns the fields attached to every entry.
	GetFields() Fields

	// SetOptions reconfigures the output destination and format.
	SetOptions(opt *Options) error

	// SetSPF13Level routes the jwalterweatherman global logger (used by
	// viper and cobra) into this Logger at the given threshold.
	SetSPF13Level(lvl loglvl.Level)

	// Entry starts a new entry at lvl. Nothing is emitted until Log.
	Entry(lvl loglvl.Level, msg string) *Entry
}

// New builds a Logger writing colorized text to stdout at InfoLevel. ctx
// scopes the Logger's life: once ctx is done, entries are discarded.
func New(ctx func() context.Context) Logger {
	return newLogger(ctx)
}

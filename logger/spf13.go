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

	jww "github.com/spf13/jwalterweatherman"

	loglvl "github.com/sabouaram/proxycore/logger/level"
)

// SetSPF13Level captures the jwalterweatherman global logger that viper and
// cobra write to, so their internal messages land in this Logger instead of
// a bare stdout. lvl is the lowest severity that gets through.
func (l *lgr) SetSPF13Level(lvl loglvl.Level) {
	jww.SetStdoutOutput(io.Discard)
	jww.SetLogOutput(l)
	jww.SetLogThreshold(jwwThreshold(lvl))
}

func jwwThreshold(lvl loglvl.Level) jww.Threshold {
	switch lvl {
	case loglvl.PanicLevel, loglvl.FatalLevel:
		return jww.LevelFatal
	case loglvl.ErrorLevel:
		return jww.LevelError
	case loglvl.WarnLevel:
		return jww.LevelWarn
	case loglvl.InfoLevel:
		return jww.LevelInfo
	case loglvl.DebugLevel:
		return jww.LevelDebug
	default:
		return jww.LevelCritical
	}
}

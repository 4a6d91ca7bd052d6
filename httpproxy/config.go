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
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"

	liberr "github.com/sabouaram/proxycore/errors"
)

// Config holds the tunable knobs of a Server. Zero values are filled in by
// DefaultConfig() / ApplyDefaults() rather than at the call site.
type Config struct {
	// ListenAddr is the local address the Server binds. Defaults to
	// ":9999".
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr" yaml:"listen_addr" toml:"listen_addr" validate:"required,hostname_port"`

	// WorkerThreads bounds how many Transactions may run concurrently. Zero
	// (or negative) means "auto": max(4, runtime.NumCPU()-1).
	WorkerThreads int `mapstructure:"worker_threads" json:"worker_threads" yaml:"worker_threads" toml:"worker_threads" validate:"gte=0"`

	// DialTimeout bounds ConnectionPool.TryOpen's DNS resolution + dial.
	DialTimeout time.Duration `mapstructure:"dial_timeout" json:"dial_timeout" yaml:"dial_timeout" toml:"dial_timeout"`

	// IdleTimeout bounds how long a Transaction may wait for the next byte
	// of a message it is parsing, on either side. CONNECT tunnels are
	// exempt: an established tunnel may idle indefinitely.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout"`

	// ProxyAgent names this proxy in the synthetic CONNECT responses
	// (Proxy-Agent header) and in logs.
	ProxyAgent string `mapstructure:"proxy_agent" json:"proxy_agent" yaml:"proxy_agent" toml:"proxy_agent" validate:"required"`
}

const (
	defaultListenAddr  = ":9999"
	defaultDialTimeout = 10 * time.Second
	defaultIdleTimeout = 60 * time.Second
	defaultProxyAgent  = "proxycore/1.0"
)

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    defaultListenAddr,
		WorkerThreads: 0,
		DialTimeout:   defaultDialTimeout,
		IdleTimeout:   defaultIdleTimeout,
		ProxyAgent:    defaultProxyAgent,
	}
}

// ApplyDefaults fills any zero-valued field of c with its default, returning
// the result. c itself is left untouched.
func (c Config) ApplyDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	if c.ProxyAgent == "" {
		c.ProxyAgent = defaultProxyAgent
	}

	return c
}

// Workers returns the resolved worker count: WorkerThreads if positive,
// otherwise max(4, runtime.NumCPU()-1).
func (c Config) Workers() int {
	if c.WorkerThreads > 0 {
		return c.WorkerThreads
	}

	n := runtime.NumCPU() - 1
	if n < 4 {
		n = 4
	}
	return n
}

// Validate checks c against its struct tags, after ApplyDefaults has been
// applied by the caller (NewServer applies ApplyDefaults).
func (c Config) Validate() liberr.Error {
	val := validator.New()
	err := val.Struct(c)
	if err == nil {
		return nil
	}

	if e, ok := err.(*validator.InvalidValidationError); ok {
		return liberr.UnknownError.Error(e)
	}

	out := ErrorValidator.Error(nil)

	for _, e := range err.(validator.ValidationErrors) {
		out.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Field(), e.ActualTag()))
	}

	if out.HasParent() {
		return out
	}

	return nil
}

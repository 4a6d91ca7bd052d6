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

package logger_test

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/sabouaram/proxycore/errors"
	liblog "github.com/sabouaram/proxycore/logger"
	loglvl "github.com/sabouaram/proxycore/logger/level"
)

var _ = Describe("Logger", func() {
	var (
		log liblog.Logger
		buf *bytes.Buffer
	)

	BeforeEach(func() {
		log = liblog.New(context.Background)
		buf = &bytes.Buffer{}
		Expect(log.SetOptions(&liblog.Options{LogWriter: buf})).To(Succeed())
	})

	Describe("New", func() {
		It("should default to InfoLevel", func() {
			Expect(log.GetLevel()).To(Equal(loglvl.InfoLevel))
		})
	})

	Describe("SetLevel", func() {
		It("should round-trip through GetLevel", func() {
			log.SetLevel(loglvl.DebugLevel)
			Expect(log.GetLevel()).To(Equal(loglvl.DebugLevel))
		})

		It("should discard entries below the threshold", func() {
			log.SetLevel(loglvl.WarnLevel)
			log.Entry(loglvl.InfoLevel, "too quiet").Log()
			Expect(buf.String()).To(BeEmpty())

			log.Entry(loglvl.WarnLevel, "loud enough").Log()
			Expect(buf.String()).To(ContainSubstring("loud enough"))
		})
	})

	Describe("Entry", func() {
		It("should render the message and fields", func() {
			log.Entry(loglvl.InfoLevel, "client connected").
				FieldAdd("remote", "127.0.0.1:54321").
				Log()

			out := buf.String()
			Expect(out).To(ContainSubstring("client connected"))
			Expect(out).To(ContainSubstring("remote"))
			Expect(out).To(ContainSubstring("127.0.0.1:54321"))
		})

		It("should merge a Fields set into the entry", func() {
			log.Entry(loglvl.InfoLevel, "request relayed").
				FieldMerge(liblog.Fields{"method": "GET", "status": 200}).
				Log()

			out := buf.String()
			Expect(out).To(ContainSubstring("method"))
			Expect(out).To(ContainSubstring("status"))
		})

		It("should render attached errors", func() {
			log.Entry(loglvl.ErrorLevel, "transaction failed").
				ErrorAdd(true, errors.New("connection reset")).
				Log()

			Expect(buf.String()).To(ContainSubstring("connection reset"))
		})

		It("should skip nil errors when cleanNil is set", func() {
			log.Entry(loglvl.ErrorLevel, "partial failure").
				ErrorAdd(true, nil, errors.New("real"), nil).
				Log()

			out := buf.String()
			Expect(out).To(ContainSubstring("real"))
			Expect(out).ToNot(ContainSubstring("<nil>"))
		})

		It("should discard NilLevel entries", func() {
			log.Entry(loglvl.NilLevel, "never seen").Log()
			Expect(buf.String()).To(BeEmpty())
		})
	})

	Describe("SetFields", func() {
		It("should round-trip through GetFields", func() {
			log.SetFields(liblog.Fields{"component": "proxy"})
			Expect(log.GetFields()).To(HaveKeyWithValue("component", "proxy"))
		})

		It("should attach the global fields to every entry", func() {
			log.SetFields(liblog.Fields{"component": "proxy"})
			log.Entry(loglvl.InfoLevel, "one").Log()
			log.Entry(loglvl.InfoLevel, "two").Log()

			out := buf.String()
			Expect(out).To(ContainSubstring("one"))
			Expect(out).To(ContainSubstring("two"))
			Expect(out).To(ContainSubstring("component"))
		})
	})

	Describe("SetOptions", func() {
		It("should reject a nil Options", func() {
			err := log.SetOptions(nil)
			Expect(err).To(HaveOccurred())

			e, ok := err.(liberr.Error)
			Expect(ok).To(BeTrue())
			Expect(e.IsCode(liblog.ErrorParamsEmpty)).To(BeTrue())
		})

		It("should drop everything with DisableStandard", func() {
			Expect(log.SetOptions(&liblog.Options{DisableStandard: true})).To(Succeed())
			log.Entry(loglvl.InfoLevel, "void").Log()
			Expect(buf.String()).To(BeEmpty())
		})
	})

	Describe("Write", func() {
		It("should log written lines at InfoLevel", func() {
			_, err := log.Write([]byte("from a plain writer\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("from a plain writer"))
		})
	})

	Describe("context scoping", func() {
		It("should discard entries once the context is done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			scoped := liblog.New(func() context.Context { return ctx })
			sbuf := &bytes.Buffer{}
			Expect(scoped.SetOptions(&liblog.Options{LogWriter: sbuf})).To(Succeed())

			cancel()
			scoped.Entry(loglvl.InfoLevel, "after shutdown").Log()
			Expect(sbuf.String()).To(BeEmpty())
		})
	})
})

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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultDurationBuckets mirrors the handful of slow-request buckets
// (sub-second through ten seconds) that matter for a proxy's latency tail.
var defaultDurationBuckets = []float64{0.1, 0.3, 1.2, 5, 10}

// Metrics is the set of Prometheus collectors a Server publishes. Wiring it
// is optional: a Server that never received SetMetrics simply never records
// anything.
type Metrics struct {
	transactions *prometheus.CounterVec
	duration     prometheus.Histogram
	bytesRelayed *prometheus.CounterVec
}

const (
	labelDirectionUp   = "client_to_remote"
	labelDirectionDown = "remote_to_client"

	labelOutcomeComplete = "complete"
	labelOutcomeFailed   = "failed"
)

// NewMetrics builds a Metrics and registers its collectors with reg. Pass
// prometheus.NewRegistry() for an isolated registry, or nil to use the
// default global one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proxycore",
			Subsystem: "transaction",
			Name:      "total",
			Help:      "Transactions observed, partitioned by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "proxycore",
			Subsystem: "transaction",
			Name:      "duration_seconds",
			Help:      "Time from TransactionStarted to its terminal event.",
			Buckets:   defaultDurationBuckets,
		}),
		bytesRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proxycore",
			Subsystem: "transaction",
			Name:      "bytes_relayed_total",
			Help:      "Bytes relayed, partitioned by direction.",
		}, []string{"direction"}),
	}

	reg.MustRegister(m.transactions, m.duration, m.bytesRelayed)
	return m
}

func (m *Metrics) observeComplete(started time.Time) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(labelOutcomeComplete).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeFailed(started time.Time) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(labelOutcomeFailed).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) addBytesUp(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesRelayed.WithLabelValues(labelDirectionUp).Add(float64(n))
}

func (m *Metrics) addBytesDown(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesRelayed.WithLabelValues(labelDirectionDown).Add(float64(n))
}

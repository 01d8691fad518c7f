// Copyright 2019 The go-ultiledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes stream and submission counters to
// Prometheus. A nil *Metrics records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stellarkit"

type Metrics struct {
	messages       *prometheus.CounterVec
	streamErrors   *prometheus.CounterVec
	openStreams    prometheus.Gauge
	submissions    *prometheus.CounterVec
	submitDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	messages := factory.NewCounterVec(prometheus.CounterOpts{
		Name:      "stream_messages_total",
		Namespace: namespace,
		Help:      "number of messages delivered by stream connections",
	}, []string{"kind"})

	streamErrors := factory.NewCounterVec(prometheus.CounterOpts{
		Name:      "stream_errors_total",
		Namespace: namespace,
		Help:      "number of stream connections stopped by a transport error",
	}, []string{"kind"})

	openStreams := factory.NewGauge(prometheus.GaugeOpts{
		Name:      "streams_open",
		Namespace: namespace,
		Help:      "number of subscribed stream connections",
	})

	submissions := factory.NewCounterVec(prometheus.CounterOpts{
		Name:      "submissions_total",
		Namespace: namespace,
		Help:      "number of submitted transactions by outcome",
	}, []string{"status"})

	submitDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Name:      "submit_duration_seconds",
		Namespace: namespace,
		Help:      "time from loading the account to the network answer",
		Buckets:   prometheus.DefBuckets,
	})

	return &Metrics{
		messages:       messages,
		streamErrors:   streamErrors,
		openStreams:    openStreams,
		submissions:    submissions,
		submitDuration: submitDuration,
	}
}

func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.openStreams.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.openStreams.Dec()
}

func (m *Metrics) Delivered(kind string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(kind).Inc()
}

func (m *Metrics) StreamError(kind string) {
	if m == nil {
		return
	}
	m.streamErrors.WithLabelValues(kind).Inc()
}

// Submitted records the outcome of one pipeline run.
func (m *Metrics) Submitted(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(status).Inc()
	m.submitDuration.Observe(d.Seconds())
}

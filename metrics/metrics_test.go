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

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.StreamOpened()
	m.StreamOpened()
	m.StreamClosed()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.openStreams))

	m.Delivered("effects")
	m.Delivered("effects")
	m.Delivered("trades")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.messages.WithLabelValues("effects")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.messages.WithLabelValues("trades")))

	m.StreamError("effects")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.streamErrors.WithLabelValues("effects")))

	m.Submitted("confirmed", time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("confirmed")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.StreamOpened()
	m.StreamClosed()
	m.Delivered("effects")
	m.StreamError("effects")
	m.Submitted("failed", time.Millisecond)
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

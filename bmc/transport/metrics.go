// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the request counters shared by every client of a pool.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	logins   *prometheus.CounterVec
}

// NewMetrics creates the client metrics and registers them with reg if it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redfish_client_requests_total",
			Help: "Total number of HTTP requests sent to BMCs",
		}, []string{"host", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "redfish_client_request_duration_seconds",
			Help:    "Latency of HTTP requests sent to BMCs",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"host", "method"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redfish_client_retries_total",
			Help: "Total number of retried BMC requests",
		}, []string{"host", "method"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redfish_client_session_logins_total",
			Help: "Total number of Redfish sessions created",
		}, []string{"host"}),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.retries, err = register(reg, m.retries); err != nil {
		return nil, err
	}
	if m.logins, err = register(reg, m.logins); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the already registered collector when a second pool shares reg.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(host, method string, code int, started time.Time) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(host, method, label).Inc()
	m.duration.WithLabelValues(host, method).Observe(time.Since(started).Seconds())
}

func (m *Metrics) retried(host, method string) {
	m.retries.WithLabelValues(host, method).Inc()
}

func (m *Metrics) loggedIn(host string) {
	m.logins.WithLabelValues(host).Inc()
}

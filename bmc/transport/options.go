// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultMaxInFlight is the number of concurrent requests per endpoint.
	DefaultMaxInFlight = 4
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultMaxRetryElapsed bounds the wall clock spent retrying one request.
	DefaultMaxRetryElapsed = time.Minute
	// DefaultRetryInitialInterval is the first backoff interval.
	DefaultRetryInitialInterval = 500 * time.Millisecond
	// DefaultRetryMaxInterval caps the backoff interval.
	DefaultRetryMaxInterval = 10 * time.Second
	// DefaultRequestTimeout bounds a single HTTP attempt.
	DefaultRequestTimeout = 60 * time.Second
)

// Options configure a ClientPool. Zero values are replaced by the defaults.
type Options struct {
	MaxInFlight          int64
	MaxRetries           uint
	MaxRetryElapsed      time.Duration
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RequestTimeout       time.Duration

	// RequestsPerSecond limits the request rate per endpoint. Zero disables the limit.
	RequestsPerSecond float64
	// BasicAuth skips session creation and authenticates every request.
	BasicAuth bool
	// DisableRetries issues every request exactly once.
	DisableRetries bool

	// Registerer receives the client metrics. Nil keeps them unregistered.
	Registerer prometheus.Registerer
}

var defaultOptions = Options{
	MaxInFlight:          DefaultMaxInFlight,
	MaxRetries:           DefaultMaxRetries,
	MaxRetryElapsed:      DefaultMaxRetryElapsed,
	RetryInitialInterval: DefaultRetryInitialInterval,
	RetryMaxInterval:     DefaultRetryMaxInterval,
	RequestTimeout:       DefaultRequestTimeout,
}

func (o Options) withDefaults() (Options, error) {
	if err := mergo.Merge(&o, defaultOptions); err != nil {
		return o, fmt.Errorf("failed to apply option defaults: %w", err)
	}
	return o, nil
}

func (o Options) maxTries() uint {
	if o.DisableRetries {
		return 1
	}
	return o.MaxRetries + 1
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Endpoint identifies a BMC and the credentials used to talk to it.
type Endpoint struct {
	Host     string
	Port     int
	Scheme   string
	Username string
	Password string
	// Insecure skips TLS certificate verification.
	Insecure bool
	// Timeout bounds a single HTTP attempt. Zero uses Options.RequestTimeout.
	Timeout time.Duration
}

func (e Endpoint) scheme() string {
	if e.Scheme == "" {
		return "https"
	}
	return e.Scheme
}

func (e Endpoint) port() int {
	if e.Port != 0 {
		return e.Port
	}
	if e.scheme() == "http" {
		return 80
	}
	return 443
}

// normalized fills in the default scheme and port so that equal endpoints
// compare equal.
func (e Endpoint) normalized() Endpoint {
	e.Scheme = e.scheme()
	e.Port = e.port()
	return e
}

// Key names the endpoint in logs. It leaves out the credentials and the TLS
// policy and therefore does not identify a pool entry.
func (e Endpoint) Key() string {
	return fmt.Sprintf("%s://%s/%s", e.scheme(), net.JoinHostPort(e.Host, strconv.Itoa(e.port())), e.Username)
}

// BaseURL returns scheme://host:port without a trailing slash.
func (e Endpoint) BaseURL() string {
	return fmt.Sprintf("%s://%s", e.scheme(), net.JoinHostPort(e.Host, strconv.Itoa(e.port())))
}

// Validate checks that the endpoint can be dialed.
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return fmt.Errorf("endpoint host must not be empty")
	}
	switch e.scheme() {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported scheme %q", e.Scheme)
	}
	if e.Port < 0 || e.Port > 65535 {
		return fmt.Errorf("invalid port %d", e.Port)
	}
	return nil
}

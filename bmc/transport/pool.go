// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
)

// ClientPool hands out one Client per endpoint so that sessions and the
// in-flight bound are shared by every caller talking to the same BMC. Every
// Endpoint field is part of the identity: a rotated password or a different
// TLS policy gets a client of its own.
type ClientPool struct {
	opts    Options
	metrics *Metrics

	mu      sync.Mutex
	clients map[Endpoint]*Client
}

// NewClientPool creates an empty pool.
func NewClientPool(opts Options) (*ClientPool, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	metrics, err := NewMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return &ClientPool{
		opts:    opts,
		metrics: metrics,
		clients: map[Endpoint]*Client{},
	}, nil
}

// Client returns the client of ep, creating it on first use.
func (p *ClientPool) Client(ep Endpoint) (*Client, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	key := ep.normalized()

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[key]; ok {
		return c, nil
	}
	c, err := newClient(ep, p.opts, p.metrics)
	if err != nil {
		return nil, err
	}
	p.clients[key] = c
	return c, nil
}

// Len returns the number of endpoints in the pool.
func (p *ClientPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Close logs out of every session and empties the pool.
func (p *ClientPool) Close(ctx context.Context) error {
	log := logr.FromContextOrDiscard(ctx)

	p.mu.Lock()
	clients := p.clients
	p.clients = map[Endpoint]*Client{}
	p.mu.Unlock()

	var errs []error
	for ep, c := range clients {
		if err := c.Logout(ctx); err != nil {
			log.V(1).Info("Failed to log out", "Endpoint", ep.Key(), "Error", err.Error())
			errs = append(errs, fmt.Errorf("failed to log out of %s: %w", ep.Key(), err))
		}
	}
	return errors.Join(errs...)
}

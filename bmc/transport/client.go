// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

var _ Transport = (*Client)(nil)

// Client talks to a single BMC endpoint. It is safe for concurrent use.
type Client struct {
	endpoint Endpoint
	opts     Options
	metrics  *Metrics

	http       *http.Client
	noRedirect *http.Client
	sem        *semaphore.Weighted
	limiter    *rate.Limiter
	session    *session
}

// NewClient returns a client for ep that is not part of a pool.
func NewClient(ep Endpoint, opts Options) (*Client, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	metrics, err := NewMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return newClient(ep, opts, metrics)
}

func newClient(ep Endpoint, opts Options, metrics *Metrics) (*Client, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: ep.Insecure}, //nolint:gosec
		MaxIdleConnsPerHost: int(opts.MaxInFlight),
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	c := &Client{
		endpoint: ep,
		opts:     opts,
		metrics:  metrics,
		http:     &http.Client{Transport: transport, Jar: jar},
		noRedirect: &http.Client{
			Transport: transport,
			Jar:       jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		sem: semaphore.NewWeighted(opts.MaxInFlight),
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	c.session = newSession(c, opts.BasicAuth)
	return c, nil
}

// Endpoint returns the endpoint the client was created for.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Logout deletes the session on the BMC if one was created.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.logout(ctx)
}

// Get decodes the resource at url into out.
func (c *Client) Get(ctx context.Context, url string, out any) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return common.StatusCode(err), err
	}
	if out != nil {
		if err := decode(url, resp.Body, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// Post sends body as JSON and decodes the answer into out if there is one.
func (c *Client) Post(ctx context.Context, url string, body, out any) (*Response, error) {
	payload, err := encode(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}
	if out != nil && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := decode(url, resp.Body, out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, url string, body any) (int, error) {
	payload, err := encode(body)
	if err != nil {
		return 0, err
	}
	resp, err := c.do(ctx, http.MethodPatch, url, payload)
	if err != nil {
		return common.StatusCode(err), err
	}
	return resp.StatusCode, nil
}

// Delete deletes the resource at url.
func (c *Client) Delete(ctx context.Context, url string) (int, error) {
	resp, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return common.StatusCode(err), err
	}
	return resp.StatusCode, nil
}

// PostFile streams r to url in a single attempt.
func (c *Client) PostFile(ctx context.Context, url, contentType string, r io.Reader) (*Response, error) {
	creds, err := c.session.credentials(ctx)
	if err != nil {
		return nil, err
	}
	src := &trackingReader{r: r}
	resp, err := c.attempt(ctx, request{
		method:      http.MethodPost,
		rel:         url,
		stream:      src,
		contentType: contentType,
		creds:       creds,
	})
	if err != nil {
		if ferr := src.Err(); ferr != nil {
			return nil, &common.FileError{Path: nameOf(r), Err: ferr}
		}
		return nil, err
	}
	if err := classify(http.MethodPost, url, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// do issues a request with a replayable body under the retry policy. GET is
// retried on transport errors and 5xx, other verbs on transport errors only.
// A 401 on a session token replaces the session once and re-issues the request.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) (*Response, error) {
	log := logr.FromContextOrDiscard(ctx)
	rel := schema.Relative(url)

	contentType := ""
	if payload != nil {
		contentType = "application/json"
	}

	reauthenticated := false
	send := func() (*Response, credentials, error) {
		creds, err := c.session.credentials(ctx)
		if err != nil {
			return nil, creds, err
		}
		resp, err := c.attempt(ctx, request{
			method:      method,
			rel:         rel,
			body:        payload,
			contentType: contentType,
			creds:       creds,
		})
		return resp, creds, err
	}

	operation := func() (*Response, error) {
		resp, creds, err := send()
		if err != nil {
			return nil, retryable(err)
		}
		if resp.StatusCode == http.StatusUnauthorized && creds.mode == authSession && !reauthenticated {
			reauthenticated = true
			log.V(1).Info("Session was rejected, creating a new one", "Method", method, "URL", rel)
			if err := c.session.login(ctx, creds.gen); err != nil {
				return nil, backoff.Permanent(err)
			}
			if resp, _, err = send(); err != nil {
				return nil, retryable(err)
			}
		}
		if err := classify(method, rel, resp); err != nil {
			if method == http.MethodGet && resp.StatusCode >= http.StatusInternalServerError {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return resp, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.RetryInitialInterval
	b.MaxInterval = c.opts.RetryMaxInterval

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.opts.maxTries()),
		backoff.WithMaxElapsedTime(c.opts.MaxRetryElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.metrics.retried(c.endpoint.Host, method)
			log.V(2).Info("Retrying Redfish request", "Method", method, "URL", rel, "Backoff", next, "Error", err.Error())
		}),
	)
	if err != nil {
		return nil, c.contextError(ctx, method, rel, err)
	}
	return resp, nil
}

// request is a single HTTP attempt.
type request struct {
	method      string
	rel         string
	body        []byte
	stream      io.Reader
	contentType string
	creds       credentials
	// timeout overrides the per attempt timeout. Negative disables it.
	timeout        time.Duration
	followRedirect *bool
}

func (c *Client) url(rel string) string {
	return c.endpoint.BaseURL() + schema.RedfishPrefix + schema.Relative(rel)
}

// attempt issues one HTTP request and reads the whole response. The in-flight
// slot is held until the body is read.
func (c *Client) attempt(ctx context.Context, r request) (*Response, error) {
	log := logr.FromContextOrDiscard(ctx)
	target := c.url(r.rel)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &common.TransportError{Method: r.method, URL: r.rel, Err: err}
		}
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &common.TransportError{Method: r.method, URL: r.rel, Err: err}
	}
	defer c.sem.Release(1)

	timeout := r.timeout
	if timeout == 0 {
		timeout = c.endpoint.Timeout
	}
	if timeout == 0 {
		timeout = c.opts.RequestTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	switch {
	case r.stream != nil:
		body = r.stream
	case r.body != nil:
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, &common.InvariantError{Message: fmt.Sprintf("failed to build request for %s: %v", target, err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-Version", "4.0")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	switch r.creds.mode {
	case authSession:
		req.Header.Set(authTokenHeader, r.creds.token)
	case authBasic:
		req.SetBasicAuth(c.endpoint.Username, c.endpoint.Password)
	}

	client := c.http
	if r.followRedirect != nil && !*r.followRedirect {
		client = c.noRedirect
	}

	started := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		c.metrics.observe(c.endpoint.Host, r.method, 0, started)
		return nil, &common.TransportError{Method: r.method, URL: r.rel, Err: err}
	}
	defer resp.Body.Close() // nolint: errcheck

	data, err := io.ReadAll(resp.Body)
	c.metrics.observe(c.endpoint.Host, r.method, resp.StatusCode, started)
	if err != nil {
		return nil, &common.TransportError{Method: r.method, URL: r.rel, Err: err}
	}
	log.V(1).Info("Redfish request", "Method", r.method, "URL", r.rel, "ResponseCode", resp.StatusCode, "Duration", time.Since(started))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// classify maps an HTTP status onto the error kinds. It returns nil for 1xx-3xx.
func classify(method, url string, resp *Response) error {
	switch {
	case resp.StatusCode < http.StatusBadRequest:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &common.AuthenticationError{Method: method, URL: url, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return &common.NotFoundError{Resource: url}
	}
	remote := &common.RemoteError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	var redfishErr schema.RedfishError
	if err := json.Unmarshal(resp.Body, &redfishErr); err == nil && (redfishErr.Error.Code != "" || redfishErr.Error.Message != "") {
		remote.Redfish = &redfishErr
	}
	return remote
}

// retryable keeps transport errors eligible for a retry and stops on anything else.
func retryable(err error) error {
	var transportErr *common.TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	return backoff.Permanent(err)
}

// contextError reports a cancellation between two attempts as a transport error.
func (c *Client) contextError(ctx context.Context, method, url string, err error) error {
	if ctx.Err() == nil {
		return err
	}
	var transportErr *common.TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &common.TransportError{Method: method, URL: url, Err: err}
	}
	return err
}

func encode(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &common.InvariantError{Message: fmt.Sprintf("failed to encode request body: %v", err)}
	}
	return payload, nil
}

func decode(url string, body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &common.JSONDeserializeError{URL: schema.Relative(url), Body: string(body), Err: err}
	}
	return nil
}

// trackingReader remembers the first read error of the wrapped reader so that
// a local file failure is not reported as a network failure.
type trackingReader struct {
	r io.Reader

	mu  sync.Mutex
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.mu.Lock()
		if t.err == nil {
			t.err = err
		}
		t.mu.Unlock()
	}
	return n, err
}

// Err returns the first read error. It is safe to call while another
// goroutine is still reading.
func (t *trackingReader) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func nameOf(r io.Reader) string {
	if named, ok := r.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "<stream>"
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

const (
	sessionsURL     = "SessionService/Sessions"
	authTokenHeader = "X-Auth-Token"
)

type authMode int

const (
	authNone authMode = iota
	authSession
	authBasic
)

// credentials is a snapshot of the session used for one request. gen identifies
// the session so that a rejected token is only replaced once.
type credentials struct {
	mode  authMode
	token string
	gen   uint64
}

type session struct {
	client *Client
	group  singleflight.Group

	mu    sync.Mutex
	mode  authMode
	token string
	uri   string
	gen   uint64
}

func newSession(c *Client, basic bool) *session {
	s := &session{client: c}
	if basic {
		s.mode = authBasic
	}
	return s
}

func (s *session) snapshot() credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return credentials{mode: s.mode, token: s.token, gen: s.gen}
}

// credentials returns the credentials for the next request and creates a
// session first if there is none.
func (s *session) credentials(ctx context.Context) (credentials, error) {
	creds := s.snapshot()
	if creds.mode != authNone {
		return creds, nil
	}
	if err := s.login(ctx, creds.gen); err != nil {
		return credentials{}, err
	}
	return s.snapshot(), nil
}

// login replaces the session identified by gen. Concurrent callers share one
// token exchange, and callers holding an outdated gen do not log in again.
func (s *session) login(ctx context.Context, gen uint64) error {
	_, err, _ := s.group.Do("login", func() (any, error) {
		s.mu.Lock()
		current := s.gen
		s.mu.Unlock()
		if current != gen {
			return nil, nil
		}

		token, uri, basic, err := s.client.createSession(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.gen++
		if basic {
			s.mode, s.token, s.uri = authBasic, "", ""
			return nil, nil
		}
		s.mode, s.token, s.uri = authSession, token, uri
		return nil, nil
	})
	return err
}

// logout deletes the session on the BMC and forgets it.
func (s *session) logout(ctx context.Context) error {
	s.mu.Lock()
	mode, token, uri := s.mode, s.token, s.uri
	if mode == authSession {
		s.mode, s.token, s.uri = authNone, "", ""
		s.gen++
	}
	s.mu.Unlock()

	if mode != authSession || uri == "" {
		return nil
	}
	resp, err := s.client.attempt(ctx, request{
		method: http.MethodDelete,
		rel:    uri,
		creds:  credentials{mode: authSession, token: token},
	})
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		return classify(http.MethodDelete, uri, resp)
	}
	return nil
}

// createSession posts the credentials to the session service. basic is true
// when the BMC has no session service and requests must carry Basic auth.
func (c *Client) createSession(ctx context.Context) (token, uri string, basic bool, err error) {
	log := logr.FromContextOrDiscard(ctx)

	payload, err := json.Marshal(schema.Session{UserName: c.endpoint.Username, Password: c.endpoint.Password})
	if err != nil {
		return "", "", false, &common.InvariantError{Message: fmt.Sprintf("failed to encode session request: %v", err)}
	}
	resp, err := c.attempt(ctx, request{
		method:      http.MethodPost,
		rel:         sessionsURL,
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return "", "", false, err
	}

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		log.V(1).Info("BMC has no session service, falling back to basic auth", "Host", c.endpoint.Host, "ResponseCode", resp.StatusCode)
		return "", "", true, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", "", false, classify(http.MethodPost, sessionsURL, resp)
	}

	token = resp.Header.Get(authTokenHeader)
	if token == "" {
		log.V(1).Info("Session response carried no token, falling back to basic auth", "Host", c.endpoint.Host)
		return "", "", true, nil
	}
	uri = resp.Location()
	if uri == "" {
		var created schema.Resource
		if json.Unmarshal(resp.Body, &created) == nil {
			uri = created.URL()
		}
	}
	c.metrics.loggedIn(c.endpoint.Host)
	log.V(1).Info("Created Redfish session", "Host", c.endpoint.Host, "Session", uri)
	return token, uri, false, nil
}

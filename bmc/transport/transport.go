// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package transport is the HTTP layer of the Redfish client. It owns the
// connection pool, the BMC sessions, the retry policy and the mapping of HTTP
// failures onto the error kinds of the common package.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NVIDIA/libredfish/bmc/schema"
)

//go:generate go run go.uber.org/mock/mockgen -destination=mock/transport.go -package=mock . Transport

// Transport is the request surface the backends are written against. URLs are
// relative to /redfish/v1/; absolute @odata.id values are accepted and
// normalized.
type Transport interface {
	// Get decodes the resource into out and returns the HTTP status.
	Get(ctx context.Context, url string, out any) (int, error)
	// Post sends body as JSON. out is decoded when the response carries a body.
	Post(ctx context.Context, url string, body, out any) (*Response, error)
	Patch(ctx context.Context, url string, body any) (int, error)
	Delete(ctx context.Context, url string) (int, error)
	// PostFile streams r with the given content type. It is never retried.
	PostFile(ctx context.Context, url, contentType string, r io.Reader) (*Response, error)
	// MultipartUpdate pushes a firmware image to a MultipartHttpPushUri.
	MultipartUpdate(ctx context.Context, req MultipartRequest) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Location returns the Location header relative to the Redfish prefix.
func (r *Response) Location() string {
	if r == nil {
		return ""
	}
	loc := r.Header.Get("Location")
	if loc == "" {
		return ""
	}
	if u, err := url.Parse(loc); err == nil && u.IsAbs() {
		loc = u.Path
	}
	return schema.Relative(loc)
}

// MultipartRequest describes a multipart firmware push.
type MultipartRequest struct {
	// Path is the name of the image, used for the UpdateFile part and for errors.
	Path string
	// File is the opened image. It is read exactly once.
	File io.Reader
	// Parameters is the JSON document sent as the UpdateParameters part.
	Parameters []byte
	// TargetURL is the MultipartHttpPushUri of the UpdateService.
	TargetURL      string
	FollowRedirect bool
	// Timeout bounds the whole upload. Zero means the context deadline only.
	Timeout time.Duration
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/NVIDIA/libredfish/bmc/schema"
)

// TransportError is a network level failure talking to the BMC.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthenticationError is a 401 or 403 that survived reauthentication.
type AuthenticationError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s %s: authentication failed with status %d", e.Method, e.URL, e.StatusCode)
}

// NotFoundError means the resource does not exist or nothing matched a selection.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// JSONDeserializeError means a response body did not match the expected schema.
type JSONDeserializeError struct {
	URL  string
	Body string
	Err  error
}

func (e *JSONDeserializeError) Error() string {
	return fmt.Sprintf("failed to decode response of %s: %v (body: %q)", e.URL, e.Err, truncate(e.Body, 512))
}

func (e *JSONDeserializeError) Unwrap() error { return e.Err }

// RemoteError is any other non-2xx answer. Redfish is set when the body was a
// Redfish error object.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Redfish    *schema.RedfishError
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Redfish != nil {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Redfish.String())
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body, 512))
}

// ExtendedInfo returns the @Message.ExtendedInfo entries of the error body.
func (e *RemoteError) ExtendedInfo() []schema.Message {
	if e.Redfish == nil {
		return nil
	}
	return e.Redfish.Error.ExtendedInfo
}

// NotSupportedError is returned when a backend does not offer an operation.
type NotSupportedError struct {
	Reason string
}

func (e *NotSupportedError) Error() string {
	return "not supported: " + e.Reason
}

// NotSupported returns a NotSupportedError with the given reason.
func NotSupported(reason string) error {
	return &NotSupportedError{Reason: reason}
}

// FileError is a local file failure during a firmware upload.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// TimeoutError means a caller supplied deadline elapsed.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// InvariantError is a bug in this library.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Message
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsNotSupported reports whether err is a NotSupportedError.
func IsNotSupported(err error) bool {
	var e *NotSupportedError
	return errors.As(err, &e)
}

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode
	}
	var auth *AuthenticationError
	if errors.As(err, &auth) {
		return auth.StatusCode
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

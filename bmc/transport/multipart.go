// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

const (
	updateParametersPart = "UpdateParameters"
	updateFilePart       = "UpdateFile"
)

// MultipartUpdate streams the image as multipart/form-data without buffering
// it. The upload is a single attempt.
func (c *Client) MultipartUpdate(ctx context.Context, req MultipartRequest) (*Response, error) {
	log := logr.FromContextOrDiscard(ctx)
	if req.File == nil {
		return nil, &common.InvariantError{Message: "multipart update without a file"}
	}
	target := schema.Relative(req.TargetURL)

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	creds, err := c.session.credentials(ctx)
	if err != nil {
		return nil, c.uploadError(ctx, req, err)
	}

	pr, pw := io.Pipe()
	defer pr.Close() // nolint: errcheck
	mw := multipart.NewWriter(pw)
	src := &trackingReader{r: req.File}
	go func() {
		err := writeParts(mw, req, src)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	log.V(1).Info("Uploading firmware image", "Path", req.Path, "Target", target)
	followRedirect := req.FollowRedirect
	resp, err := c.attempt(ctx, request{
		method:         http.MethodPost,
		rel:            target,
		stream:         pr,
		contentType:    mw.FormDataContentType(),
		creds:          creds,
		timeout:        -1,
		followRedirect: &followRedirect,
	})
	if err != nil {
		if ferr := src.Err(); ferr != nil {
			return nil, &common.FileError{Path: req.Path, Err: ferr}
		}
		return nil, c.uploadError(ctx, req, err)
	}
	if err := classify(http.MethodPost, target, resp); err != nil {
		return nil, err
	}
	log.V(1).Info("Firmware image accepted", "Path", req.Path, "ResponseCode", resp.StatusCode, "Location", resp.Location())
	return resp, nil
}

func writeParts(mw *multipart.Writer, req MultipartRequest, file io.Reader) error {
	params := req.Parameters
	if params == nil {
		params = []byte("{}")
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, updateParametersPart))
	h.Set("Content-Type", "application/json")
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := w.Write(params); err != nil {
		return err
	}

	name := filepath.Base(req.Path)
	if req.Path == "" {
		name = "firmware.bin"
	}
	h = textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, updateFilePart, name))
	h.Set("Content-Type", "application/octet-stream")
	if w, err = mw.CreatePart(h); err != nil {
		return err
	}
	_, err = io.Copy(w, file)
	return err
}

// uploadError turns an elapsed upload deadline into a TimeoutError.
func (c *Client) uploadError(ctx context.Context, req MultipartRequest, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &common.TimeoutError{Operation: "multipart upload of " + req.Path, Timeout: req.Timeout, Err: err}
	}
	return err
}

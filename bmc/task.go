// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

const (
	DefaultTaskPollInterval = 10 * time.Second
	DefaultTaskPollTimeout  = 30 * time.Minute
)

// TaskPollOptions configure WaitForTask.
type TaskPollOptions struct {
	// Interval between two fetches of the task. Defaults to DefaultTaskPollInterval.
	Interval time.Duration
	// Timeout bounds the whole wait. Defaults to DefaultTaskPollTimeout.
	Timeout time.Duration
	// Progress is called whenever the completion percentage grows.
	Progress func(percent int)
}

// WaitForTask polls the task until it reaches a terminal state and returns
// it. A task ending in Exception is returned together with a RemoteError
// carrying its messages; running out of time yields a TimeoutError.
func WaitForTask(ctx context.Context, b BMC, id string, opts TaskPollOptions) (*schema.Task, error) {
	log := logr.FromContextOrDiscard(ctx)
	if opts.Interval <= 0 {
		opts.Interval = DefaultTaskPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTaskPollTimeout
	}

	var (
		task    *schema.Task
		percent = -1
	)
	err := wait.PollUntilContextTimeout(ctx, opts.Interval, opts.Timeout, true, func(ctx context.Context) (bool, error) {
		t, err := b.GetTask(ctx, id)
		if err != nil {
			return false, err
		}
		task = t
		if p := t.Percent(); p > percent {
			percent = p
			if opts.Progress != nil {
				opts.Progress(p)
			}
		}
		log.V(1).Info("Polled task", "TaskID", id, "State", t.TaskState, "Percent", percent)
		return t.TaskState.IsTerminal(), nil
	})
	switch {
	case err == nil:
	case wait.Interrupted(err) && ctx.Err() == nil:
		return task, &common.TimeoutError{Operation: fmt.Sprintf("waiting for task %s", id), Timeout: opts.Timeout, Err: err}
	default:
		return task, err
	}

	if task.TaskState == schema.TaskStateException {
		return task, &common.RemoteError{
			Method:     http.MethodGet,
			URL:        taskURL(id),
			StatusCode: http.StatusOK,
			Redfish: &schema.RedfishError{Error: schema.ErrorBody{
				Code:         string(schema.TaskStateException),
				Message:      fmt.Sprintf("task %s failed", id),
				ExtendedInfo: task.Messages,
			}},
		}
	}
	return task, nil
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strings"
)

// Message is a Redfish message as found in tasks, jobs and error bodies.
type Message struct {
	MessageID         string   `json:"MessageId"`
	Message           string   `json:"Message,omitempty"`
	MessageArgs       []string `json:"MessageArgs,omitempty"`
	Severity          string   `json:"Severity,omitempty"`
	MessageSeverity   *Health  `json:"MessageSeverity,omitempty"`
	Resolution        string   `json:"Resolution,omitempty"`
	RelatedProperties []string `json:"RelatedProperties,omitempty"`
}

// Task is a TaskService/Tasks/{id} resource.
type Task struct {
	Resource
	TaskState       TaskState `json:"TaskState"`
	TaskStatus      *Health   `json:"TaskStatus,omitempty"`
	PercentComplete *int      `json:"PercentComplete,omitempty"`
	StartTime       string    `json:"StartTime,omitempty"`
	EndTime         string    `json:"EndTime,omitempty"`
	TaskMonitor     string    `json:"TaskMonitor,omitempty"`
	Messages        []Message `json:"Messages,omitempty"`
}

// Percent returns PercentComplete or 0 when the BMC does not report it.
func (t *Task) Percent() int {
	if t.PercentComplete == nil {
		return 0
	}
	return *t.PercentComplete
}

// TransitionedToJob returns the job URL announced by an OperationTransitionedToJob
// message, if any.
func (t *Task) TransitionedToJob() (string, bool) {
	for _, msg := range t.Messages {
		if strings.Contains(msg.MessageID, "OperationTransitionedToJob") && len(msg.MessageArgs) > 0 {
			return Relative(msg.MessageArgs[0]), true
		}
	}
	return "", false
}

// Job is a JobService/Jobs/{id} resource.
type Job struct {
	Resource
	JobState        JobState  `json:"JobState"`
	JobStatus       *Health   `json:"JobStatus,omitempty"`
	PercentComplete *int      `json:"PercentComplete,omitempty"`
	StartTime       string    `json:"StartTime,omitempty"`
	EndTime         string    `json:"EndTime,omitempty"`
	Messages        []Message `json:"Messages,omitempty"`
}

// AsTask projects a Job into a Task.
func (j *Job) AsTask() *Task {
	return &Task{
		Resource:        j.Resource,
		TaskState:       j.JobState.TaskState(),
		TaskStatus:      j.JobStatus,
		PercentComplete: j.PercentComplete,
		StartTime:       j.StartTime,
		EndTime:         j.EndTime,
		Messages:        j.Messages,
	}
}

// RedfishError is the body of a failed Redfish request.
type RedfishError struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the error object of a RedfishError.
type ErrorBody struct {
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	ExtendedInfo []Message `json:"@Message.ExtendedInfo,omitempty"`
}

// String flattens the error and its extended info.
func (e *RedfishError) String() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Error.Message}
	for _, m := range e.Error.ExtendedInfo {
		if m.Message != "" {
			parts = append(parts, m.Message)
		}
	}
	return strings.Join(parts, "; ")
}

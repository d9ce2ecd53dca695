// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
	"github.com/NVIDIA/libredfish/bmc/transport"
)

const simpleUpdateURL = "UpdateService/Actions/UpdateService.SimpleUpdate"

// upgradeRequestBodyFn builds a vendor specific SimpleUpdate body.
type upgradeRequestBodyFn func(parameters schema.SimpleUpdateParameters) any

// taskDetailsFn projects the task returned for an update into the task the
// caller should poll.
type taskDetailsFn func(ctx context.Context, task *schema.Task) (*schema.Task, error)

// simpleUpdate is the SimpleUpdate flow shared by all vendors. Vendor
// specific parts are injected via callbacks; nil selects the standard body
// and no projection.
func (r *RedfishBMC) simpleUpdate(ctx context.Context, params schema.SimpleUpdateParameters, requestBodyFn upgradeRequestBodyFn, details ...taskDetailsFn) (*schema.Task, error) {
	log := logr.FromContextOrDiscard(ctx)

	us, err := r.GetUpdateService(ctx)
	if err != nil {
		return nil, err
	}
	target := simpleUpdateURL
	if us.Actions.SimpleUpdate != nil && us.Actions.SimpleUpdate.Target != "" {
		target = schema.Relative(us.Actions.SimpleUpdate.Target)
	}
	if params.TransferProtocol != "" && us.Actions.SimpleUpdate != nil {
		if allowed := us.Actions.SimpleUpdate.AllowableProtocolValues; len(allowed) > 0 && !slices.Contains(allowed, params.TransferProtocol.String()) {
			return nil, common.NotSupported(fmt.Sprintf("transfer protocol %s is not in %v", params.TransferProtocol, allowed))
		}
	}

	var body any = params
	if requestBodyFn != nil {
		body = requestBodyFn(params)
	}
	resp, err := r.post(ctx, target, body)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("Update has been issued", "ResponseCode", resp.StatusCode, "Target", target)

	task, err := r.taskFromResponse(ctx, target, resp)
	if err != nil {
		return nil, err
	}
	for _, fn := range details {
		if task, err = fn(ctx, task); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// taskFromResponse returns the task an action answered with: the body when
// it is a task, otherwise the task named by the Location header.
func (r *RedfishBMC) taskFromResponse(ctx context.Context, url string, resp *transport.Response) (*schema.Task, error) {
	if len(resp.Body) > 0 {
		var task schema.Task
		if err := json.Unmarshal(resp.Body, &task); err == nil && task.ID != "" && task.TaskState != "" {
			return &task, nil
		}
	}
	loc := resp.Location()
	if loc == "" {
		return nil, &common.JSONDeserializeError{URL: url, Body: string(resp.Body), Err: fmt.Errorf("response names no task")}
	}
	return r.GetTask(ctx, loc)
}

// taskID reads the id of the task created by a firmware push from the body,
// falling back to the Location header.
func taskID(url string, resp *transport.Response) (string, error) {
	var body struct {
		ID string `json:"Id"`
	}
	err := json.Unmarshal(resp.Body, &body)
	if err == nil && body.ID != "" {
		return body.ID, nil
	}
	if loc := resp.Location(); loc != "" {
		return schema.ODataID{ODataID: loc}.ID(), nil
	}
	if err == nil {
		err = fmt.Errorf("task id is missing")
	}
	return "", &common.JSONDeserializeError{URL: url, Body: string(resp.Body), Err: err}
}

// bootOptionMatch selects the boot option of a boot device class.
type bootOptionMatch struct {
	desc  string
	match func(option *schema.BootOption) bool
}

func displayNamePrefix(name oem.BootOptionName) bootOptionMatch {
	return bootOptionMatch{
		desc: fmt.Sprintf("DisplayName %q", name),
		match: func(o *schema.BootOption) bool {
			return strings.HasPrefix(o.DisplayName, string(name))
		},
	}
}

func devicePathPrefix(prefix oem.BootOptionName) bootOptionMatch {
	return bootOptionMatch{
		desc: fmt.Sprintf("UefiDevicePath %q", prefix),
		match: func(o *schema.BootOption) bool {
			return strings.HasPrefix(o.UefiDevicePath, string(prefix))
		},
	}
}

// dpuBootMatch selects the HTTP boot option of the interface with the given
// MAC, by display name or by the MAC node of its device path.
func dpuBootMatch(mac string) bootOptionMatch {
	name := oem.HTTPBootOptionForMAC(mac)
	node := "MAC(" + strings.ToUpper(strings.ReplaceAll(mac, ":", ""))
	return bootOptionMatch{
		desc: fmt.Sprintf("DisplayName %q", name),
		match: func(o *schema.BootOption) bool {
			return strings.HasPrefix(o.DisplayName, string(name)) ||
				strings.Contains(strings.ToUpper(o.UefiDevicePath), node)
		},
	}
}

// bootOrderWithFirst returns the boot order of the system with the first
// matching option moved to the front. Options are fetched in boot order until
// one matches.
func (r *RedfishBMC) bootOrderWithFirst(ctx context.Context, m bootOptionMatch) ([]string, *schema.ComputerSystem, error) {
	system, err := r.GetSystem(ctx)
	if err != nil {
		return nil, nil, err
	}
	order := system.Boot.BootOrder
	for i, ref := range order {
		option, err := r.GetBootOption(ctx, ref)
		if err != nil {
			return nil, nil, err
		}
		if !m.match(option) {
			continue
		}
		logr.FromContextOrDiscard(ctx).V(1).Info("Found boot option", "BootOption", ref, "Match", m.desc)
		reordered := putFirst(order, i)
		if err := checkPermutation(order, reordered); err != nil {
			return nil, nil, err
		}
		return reordered, system, nil
	}
	return nil, nil, &common.NotFoundError{Resource: "boot option with " + m.desc}
}

// putFirst moves order[i] to the front, keeping the others in place.
func putFirst(order []string, i int) []string {
	out := make([]string, 0, len(order))
	out = append(out, order[i])
	out = append(out, order[:i]...)
	return append(out, order[i+1:]...)
}

func checkPermutation(before, after []string) error {
	if len(before) != len(after) || !sets.New(before...).Equal(sets.New(after...)) {
		return &common.InvariantError{Message: fmt.Sprintf("boot order %v is not a permutation of %v", after, before)}
	}
	return nil
}

// checkBootOrder rejects empty orders and duplicate entries.
func checkBootOrder(order []string) error {
	if len(order) == 0 {
		return &common.InvariantError{Message: "boot order is empty"}
	}
	if seen := sets.New(order...); seen.Len() != len(order) {
		return &common.InvariantError{Message: fmt.Sprintf("boot order %v has duplicate entries", order)}
	}
	return nil
}

func (r *RedfishBMC) patchBootOrder(ctx context.Context, url string, order []string, applyTime *schema.ApplyTime) error {
	body := map[string]any{"Boot": map[string]any{"BootOrder": order}}
	if applyTime != nil {
		body["@Redfish.SettingsApplyTime"] = oem.SettingsApplyTime{ApplyTime: *applyTime}
	}
	return r.patch(ctx, url, body)
}

// setBootOverride PATCHes a one time boot override. The target is not checked
// against the AllowableValues of the system, some BMCs accept more than they
// list.
func (r *RedfishBMC) setBootOverride(ctx context.Context, url string, target Boot) error {
	t, err := target.overrideTarget()
	if err != nil {
		return err
	}
	return r.patch(ctx, url, map[string]any{
		"Boot": map[string]any{
			"BootSourceOverrideEnabled": schema.BootSourceOverrideEnabledOnce,
			"BootSourceOverrideTarget":  t,
		},
	})
}

// setBiosAttributes stages the body on the BIOS settings resource.
func (r *RedfishBMC) setBiosAttributes(ctx context.Context, body map[string]any) error {
	bios, err := r.getBios(ctx)
	if err != nil {
		return err
	}
	return r.patch(ctx, bios.SettingsURL(), body)
}

// biosDiffs compares the current BIOS attributes with want.
func (r *RedfishBMC) biosDiffs(ctx context.Context, want oem.Attributes) ([]MachineSetupDiff, error) {
	current, err := r.Bios(ctx)
	if err != nil {
		return nil, err
	}
	mismatches := oem.Mismatches(current, want)
	diffs := make([]MachineSetupDiff, 0, len(mismatches))
	for _, key := range slices.Sorted(maps.Keys(mismatches)) {
		diffs = append(diffs, MachineSetupDiff{Key: key, Expected: mismatches[key][0], Actual: mismatches[key][1]})
	}
	return diffs, nil
}

// attributeStatus builds a Status from BIOS attribute groups: a group counts
// as enabled when every attribute has its wanted value.
func attributeStatus(current map[string]any, groups map[string]oem.Attributes) *Status {
	parts := make([]statusPart, 0, len(groups))
	for _, name := range slices.Sorted(maps.Keys(groups)) {
		ok := oem.IsSubMap(current, groups[name])
		parts = append(parts, statusPart{name: name, enabled: ok, value: fmt.Sprint(ok)})
	}
	return newStatus(parts...)
}

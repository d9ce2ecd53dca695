// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

var _ BMC = (*LenovoRedfishBMC)(nil)

// LenovoRedfishBMC is the XCC implementation of the BMC interface.
type LenovoRedfishBMC struct {
	*RedfishBMC
}

func (r *LenovoRedfishBMC) Vendor() Vendor { return VendorLenovo }

func (r *LenovoRedfishBMC) toHostURL() string {
	return r.managerURL() + "/EthernetInterfaces/" + oem.LenovoToHostInterface
}

// --- Lockdown ---

func (r *LenovoRedfishBMC) managerOem(ctx context.Context) (*oem.LenovoManagerFields, error) {
	manager, err := r.GetManager(ctx)
	if err != nil {
		return nil, err
	}
	var fields oem.LenovoManager
	if len(manager.Oem) > 0 {
		if err := json.Unmarshal(manager.Oem, &fields); err != nil {
			return nil, &common.JSONDeserializeError{URL: r.managerURL(), Body: string(manager.Oem), Err: err}
		}
	}
	return &fields.Lenovo, nil
}

func (r *LenovoRedfishBMC) toHostEnabled(ctx context.Context) (bool, error) {
	iface, err := r.ethernetInterface(ctx, r.toHostURL())
	if err != nil {
		return false, err
	}
	return iface.InterfaceEnabled != nil && *iface.InterfaceEnabled, nil
}

// Lockdown disables KCS, firmware rollback and the host interface. Only the
// parts that differ from the target are written.
func (r *LenovoRedfishBMC) Lockdown(ctx context.Context, target schema.EnabledDisabled) error {
	current, err := r.managerOem(ctx)
	if err != nil {
		return err
	}
	want := oem.LenovoLockdown(target)
	if current.KCSEnabled == nil || *current.KCSEnabled != *want.KCSEnabled || current.FWRollback != want.FWRollback {
		if err := r.patch(ctx, r.managerURL(), oem.LenovoManagerPatch(want)); err != nil {
			return err
		}
	}
	toHost, err := r.toHostEnabled(ctx)
	if err != nil {
		return err
	}
	if toHost == target.IsEnabled() {
		return r.patch(ctx, r.toHostURL(), map[string]any{"InterfaceEnabled": !target.IsEnabled()})
	}
	return nil
}

func (r *LenovoRedfishBMC) LockdownStatus(ctx context.Context) (*Status, error) {
	current, err := r.managerOem(ctx)
	if err != nil {
		return nil, err
	}
	toHost, err := r.toHostEnabled(ctx)
	if err != nil {
		return nil, err
	}
	kcs := current.KCSEnabled != nil && *current.KCSEnabled
	return newStatus(
		statusPart{name: "KCSEnabled", enabled: !kcs, value: fmt.Sprint(kcs)},
		statusPart{name: "FWRollback", enabled: current.FWRollback == schema.Disabled.String(), value: current.FWRollback},
		statusPart{name: oem.LenovoToHostInterface, enabled: !toHost, value: fmt.Sprint(toHost)},
	), nil
}

func (r *LenovoRedfishBMC) SetMachinePasswordPolicy(ctx context.Context) error {
	return r.patch(ctx, accountServiceURL, oem.LenovoPasswordPolicy())
}

func (r *LenovoRedfishBMC) EnableIPMIOverLAN(ctx context.Context, target schema.EnabledDisabled) error {
	return r.patch(ctx, r.networkProtocolURL(), oem.LenovoIPMIOverLAN(target.IsEnabled()))
}

func (r *LenovoRedfishBMC) IsIPMIOverLANEnabled(ctx context.Context) (bool, error) {
	var np schema.ManagerNetworkProtocol
	if err := r.get(ctx, r.networkProtocolURL(), &np); err != nil {
		return false, err
	}
	if len(np.Oem) == 0 {
		return false, nil
	}
	var fields oem.LenovoNetworkProtocol
	if err := json.Unmarshal(np.Oem, &fields); err != nil {
		return false, &common.JSONDeserializeError{URL: r.networkProtocolURL(), Body: string(np.Oem), Err: err}
	}
	return fields.Lenovo.IPMIOverLAN.Enabled(), nil
}

// --- BIOS ---

func (r *LenovoRedfishBMC) SetupSerialConsole(ctx context.Context) error {
	return r.setBiosAttributes(ctx, oem.LenovoSerialConsole.Body())
}

func (r *LenovoRedfishBMC) SerialConsoleStatus(ctx context.Context) (*Status, error) {
	bios, err := r.Bios(ctx)
	if err != nil {
		return nil, err
	}
	return attributeStatus(bios, map[string]oem.Attributes{"SerialConsole": oem.LenovoSerialConsole}), nil
}

func (r *LenovoRedfishBMC) MachineSetup(ctx context.Context, bootInterfaceMAC string) error {
	if err := r.setBiosAttributes(ctx, oem.LenovoMachineSetup.Body()); err != nil {
		return err
	}
	if bootInterfaceMAC == "" {
		return nil
	}
	return r.SetBootOrderDPUFirst(ctx, bootInterfaceMAC)
}

func (r *LenovoRedfishBMC) MachineSetupStatus(ctx context.Context) (*MachineSetupStatus, error) {
	diffs, err := r.biosDiffs(ctx, oem.LenovoMachineSetup)
	if err != nil {
		return nil, err
	}
	return newMachineSetupStatus(diffs), nil
}

func (r *LenovoRedfishBMC) ClearTPM(ctx context.Context) error {
	return r.setBiosAttributes(ctx, oem.LenovoClearTPM.Body())
}

func (r *LenovoRedfishBMC) ChangeUEFIPassword(ctx context.Context, current, newPassword string) (string, error) {
	return r.ChangeBIOSPassword(ctx, oem.LenovoUEFIPasswordName, current, newPassword)
}

func (r *LenovoRedfishBMC) ClearUEFIPassword(ctx context.Context, current string) (string, error) {
	return r.ChangeUEFIPassword(ctx, current, "")
}

// --- Boot ---

func (r *LenovoRedfishBMC) BootFirst(ctx context.Context, target Boot) error {
	var match bootOptionMatch
	switch target {
	case BootPxe:
		match = displayNamePrefix(oem.LenovoNetwork)
	case BootHardDisk:
		match = displayNamePrefix(oem.LenovoHardDisk)
	case BootUefiHTTP:
		match = displayNamePrefix(oem.LenovoHTTP)
	default:
		return common.NotSupported("boot target " + string(target))
	}
	order, system, err := r.bootOrderWithFirst(ctx, match)
	if err != nil {
		return err
	}
	return r.patchBootOrder(ctx, system.SettingsURL(), order, nil)
}

// --- Firmware upgrade overrides ---

func (r *LenovoRedfishBMC) lenovoBuildRequestBody(parameters schema.SimpleUpdateParameters) any {
	return &oem.SimpleUpdateRequestBody{
		SimpleUpdateParameters:    parameters,
		RedfishOperationApplyTime: schema.ApplyTimeImmediate,
	}
}

// lenovoParseTaskDetails follows a completed task that handed over to a job
// and returns the job as a task.
func (r *LenovoRedfishBMC) lenovoParseTaskDetails(ctx context.Context, task *schema.Task) (*schema.Task, error) {
	if task.TaskState != schema.TaskStateCompleted || (task.TaskStatus != nil && *task.TaskStatus != schema.HealthOK) {
		return task, nil
	}
	jobURL, ok := task.TransitionedToJob()
	if !ok {
		return task, nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("Task transitioned to job", "TaskID", task.ID, "Job", jobURL)
	var job schema.Job
	if err := r.get(ctx, jobURL, &job); err != nil {
		return nil, err
	}
	return job.AsTask(), nil
}

func (r *LenovoRedfishBMC) UpdateFirmwareSimpleUpdate(ctx context.Context, imageURI string, targets []string, protocol schema.TransferProtocolType) (*schema.Task, error) {
	params := schema.SimpleUpdateParameters{
		ImageURI:         imageURI,
		TransferProtocol: protocol,
		Targets:          targets,
	}
	return r.simpleUpdate(ctx, params, r.lenovoBuildRequestBody, r.lenovoParseTaskDetails)
}

func (r *LenovoRedfishBMC) GetTask(ctx context.Context, id string) (*schema.Task, error) {
	task, err := r.RedfishBMC.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.lenovoParseTaskDetails(ctx, task)
}

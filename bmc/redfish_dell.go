// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

var _ BMC = (*DellRedfishBMC)(nil)

const dellJobPrefix = "JID_"

// DellRedfishBMC is the iDRAC implementation of the BMC interface. It
// delegates to the embedded RedfishBMC and overrides BIOS attribute names,
// boot option matching and the iDRAC job queue.
type DellRedfishBMC struct {
	*RedfishBMC
}

func (r *DellRedfishBMC) Vendor() Vendor { return VendorDell }

func (r *DellRedfishBMC) jobsURL() string       { return r.managerURL() + "/Jobs" }
func (r *DellRedfishBMC) attributesURL() string { return r.managerURL() + "/Attributes" }

func (r *DellRedfishBMC) idracAttributes(ctx context.Context) (oem.Attributes, error) {
	var attrs oem.DellAttributes
	if err := r.get(ctx, r.attributesURL(), &attrs); err != nil {
		return nil, err
	}
	return attrs.Attributes, nil
}

func (r *DellRedfishBMC) setIDRACAttributes(ctx context.Context, attrs oem.Attributes) error {
	return r.patch(ctx, r.attributesURL(), attrs.Body())
}

// setBiosAttributes stages BIOS attributes for the next reset. iDRAC only
// creates the configuration job when the apply time is given.
func (r *DellRedfishBMC) setBiosAttributes(ctx context.Context, attrs oem.Attributes) error {
	body := attrs.Body()
	body["@Redfish.SettingsApplyTime"] = oem.SettingsApplyTime{ApplyTime: schema.ApplyTimeOnReset}
	return r.RedfishBMC.setBiosAttributes(ctx, body)
}

// CreateUser fills the first unused account slot. iDRAC has a fixed number of
// slots and rejects POSTs to the collection.
func (r *DellRedfishBMC) CreateUser(ctx context.Context, username, password string, role schema.RoleID) error {
	accounts, err := r.GetAccounts(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		// slot 1 is reserved
		if account.UserName != "" || account.ID == "1" {
			continue
		}
		return r.patch(ctx, account.URL(), map[string]any{
			"UserName": username,
			"Password": password,
			"RoleId":   role,
			"Enabled":  true,
		})
	}
	return &common.NotFoundError{Resource: "free iDRAC account slot"}
}

// ClearPending deletes the scheduled BIOS configuration jobs, which drops the
// staged attributes with them.
func (r *DellRedfishBMC) ClearPending(ctx context.Context) error {
	log := logr.FromContextOrDiscard(ctx)
	urls, err := r.memberURLs(ctx, r.jobsURL())
	if err != nil {
		return err
	}
	for _, url := range urls {
		var job oem.DellJob
		if err := r.get(ctx, url, &job); err != nil {
			return err
		}
		if !job.IsScheduledBIOSConfiguration() {
			continue
		}
		log.V(1).Info("Deleting scheduled BIOS job", "JobID", job.ID)
		if _, err := r.client.Delete(ctx, url); err != nil {
			return fmt.Errorf("failed to delete job %s: %w", job.ID, err)
		}
	}
	return nil
}

func (r *DellRedfishBMC) SetBios(ctx context.Context, attributes map[string]any) error {
	current, err := r.Bios(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckAttributeTypes(current, attributes); err != nil {
		return &common.NotSupportedError{Reason: err.Error()}
	}
	return r.setBiosAttributes(ctx, attributes)
}

func (r *DellRedfishBMC) GetTask(ctx context.Context, id string) (*schema.Task, error) {
	if !strings.HasPrefix(id, dellJobPrefix) {
		return r.RedfishBMC.GetTask(ctx, id)
	}
	job, err := r.job(ctx, id)
	if err != nil {
		return nil, err
	}
	return job.AsTask(), nil
}

func (r *DellRedfishBMC) GetJobState(ctx context.Context, id string) (schema.JobState, error) {
	job, err := r.job(ctx, id)
	if err != nil {
		return "", err
	}
	return schema.JobState(job.AsTask().TaskState), nil
}

func (r *DellRedfishBMC) job(ctx context.Context, id string) (*oem.DellJob, error) {
	var job oem.DellJob
	if err := r.get(ctx, r.jobsURL()+"/"+id, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *DellRedfishBMC) MachineSetup(ctx context.Context, bootInterfaceMAC string) error {
	if err := r.ClearPending(ctx); err != nil {
		return err
	}
	if err := r.setBiosAttributes(ctx, oem.DellMachineSetup); err != nil {
		return err
	}
	if bootInterfaceMAC == "" {
		return nil
	}
	return r.SetBootOrderDPUFirst(ctx, bootInterfaceMAC)
}

func (r *DellRedfishBMC) MachineSetupStatus(ctx context.Context) (*MachineSetupStatus, error) {
	diffs, err := r.biosDiffs(ctx, oem.DellMachineSetup)
	if err != nil {
		return nil, err
	}
	return newMachineSetupStatus(diffs), nil
}

func (r *DellRedfishBMC) Lockdown(ctx context.Context, target schema.EnabledDisabled) error {
	bios, err := r.Bios(ctx)
	if err != nil {
		return err
	}
	if want := oem.DellBIOSLockdown(target); !oem.IsSubMap(bios, want) {
		if err := r.setBiosAttributes(ctx, want); err != nil {
			return err
		}
	}
	return r.LockdownBMC(ctx, target)
}

func (r *DellRedfishBMC) LockdownStatus(ctx context.Context) (*Status, error) {
	bios, err := r.Bios(ctx)
	if err != nil {
		return nil, err
	}
	idrac, err := r.idracAttributes(ctx)
	if err != nil {
		return nil, err
	}
	biosLocked := oem.IsSubMap(bios, oem.DellBIOSLockdown(schema.Enabled))
	return newStatus(
		statusPart{name: "BIOS", enabled: biosLocked, value: fmt.Sprint(biosLocked)},
		statusPart{name: oem.DellSystemLockdown, enabled: idrac[oem.DellSystemLockdown] == schema.Enabled.String(), value: fmt.Sprint(idrac[oem.DellSystemLockdown])},
	), nil
}

func (r *DellRedfishBMC) LockdownBMC(ctx context.Context, target schema.EnabledDisabled) error {
	current, err := r.idracAttributes(ctx)
	if err != nil {
		return err
	}
	want := oem.DellIDRACLockdown(target)
	if oem.IsSubMap(current, want) {
		return nil
	}
	return r.setIDRACAttributes(ctx, want)
}

func (r *DellRedfishBMC) SetupSerialConsole(ctx context.Context) error {
	if err := r.setIDRACAttributes(ctx, oem.DellIDRACSerialConsole); err != nil {
		return err
	}
	return r.setBiosAttributes(ctx, oem.DellBIOSSerialConsole)
}

func (r *DellRedfishBMC) SerialConsoleStatus(ctx context.Context) (*Status, error) {
	bios, err := r.Bios(ctx)
	if err != nil {
		return nil, err
	}
	idrac, err := r.idracAttributes(ctx)
	if err != nil {
		return nil, err
	}
	biosOK := oem.IsSubMap(bios, oem.DellBIOSSerialConsole)
	idracOK := oem.IsSubMap(idrac, oem.DellIDRACSerialConsole)
	return newStatus(
		statusPart{name: "BIOS", enabled: biosOK, value: fmt.Sprint(biosOK)},
		statusPart{name: "iDRAC", enabled: idracOK, value: fmt.Sprint(idracOK)},
	), nil
}

func (r *DellRedfishBMC) EnableIPMIOverLAN(ctx context.Context, target schema.EnabledDisabled) error {
	return r.setIDRACAttributes(ctx, oem.Attributes{oem.DellIPMILanEnable: target.String()})
}

func (r *DellRedfishBMC) IsIPMIOverLANEnabled(ctx context.Context) (bool, error) {
	attrs, err := r.idracAttributes(ctx)
	if err != nil {
		return false, err
	}
	return attrs[oem.DellIPMILanEnable] == schema.Enabled.String(), nil
}

func (r *DellRedfishBMC) BMCResetToDefaults(ctx context.Context) error {
	_, err := r.post(ctx, r.managerURL()+"/Actions/Oem/DellManager.ResetToDefaults",
		oem.DellResetToDefaultsBody{ResetType: oem.DellResetAllWithRootDefaults})
	return err
}

func (r *DellRedfishBMC) ClearTPM(ctx context.Context) error {
	return r.setBiosAttributes(ctx, oem.DellClearTPM)
}

func dellBootMatch(target Boot) (bootOptionMatch, error) {
	switch target {
	case BootPxe:
		return displayNamePrefix(oem.DellPxeDevice), nil
	case BootHardDisk:
		return displayNamePrefix(oem.DellHardDisk), nil
	case BootUefiHTTP:
		return displayNamePrefix(oem.DellHTTPDevice), nil
	}
	return bootOptionMatch{}, common.NotSupported("boot target " + string(target))
}

func (r *DellRedfishBMC) BootFirst(ctx context.Context, target Boot) error {
	match, err := dellBootMatch(target)
	if err != nil {
		return err
	}
	return r.bootFirst(ctx, match)
}

func (r *DellRedfishBMC) SetBootOrderDPUFirst(ctx context.Context, mac string) error {
	if mac == "" {
		return common.NotSupported("DPU first boot order needs the MAC address of the boot interface")
	}
	return r.bootFirst(ctx, dpuBootMatch(mac))
}

func (r *DellRedfishBMC) bootFirst(ctx context.Context, match bootOptionMatch) error {
	order, system, err := r.bootOrderWithFirst(ctx, match)
	if err != nil {
		return err
	}
	onReset := schema.ApplyTimeOnReset
	return r.patchBootOrder(ctx, system.SettingsURL(), order, &onReset)
}

func (r *DellRedfishBMC) ChangeBootOrder(ctx context.Context, order []string) error {
	if err := checkBootOrder(order); err != nil {
		return err
	}
	system, err := r.GetSystem(ctx)
	if err != nil {
		return err
	}
	onReset := schema.ApplyTimeOnReset
	return r.patchBootOrder(ctx, system.SettingsURL(), order, &onReset)
}

// ChangeUEFIPassword changes the setup password and schedules the BIOS
// configuration job applying it. The job id is returned.
func (r *DellRedfishBMC) ChangeUEFIPassword(ctx context.Context, current, newPassword string) (string, error) {
	if _, err := r.ChangeBIOSPassword(ctx, oem.DellUEFIPasswordName, current, newPassword); err != nil {
		return "", err
	}
	bios, err := r.getBios(ctx)
	if err != nil {
		return "", err
	}
	resp, err := r.post(ctx, r.jobsURL(), map[string]any{
		"TargetSettingsURI": schema.RedfishPrefix + bios.SettingsURL(),
	})
	if err != nil {
		return "", err
	}
	return taskID(r.jobsURL(), resp)
}

func (r *DellRedfishBMC) ClearUEFIPassword(ctx context.Context, current string) (string, error) {
	return r.ChangeUEFIPassword(ctx, current, "")
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"

	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

var _ BMC = (*NvidiaRedfishBMC)(nil)

// NvidiaRedfishBMC is the implementation for NVIDIA OpenBMC hosts (Viking).
// Host settings are BIOS attributes staged on the settings resource.
type NvidiaRedfishBMC struct {
	*RedfishBMC
}

func (r *NvidiaRedfishBMC) Vendor() Vendor { return VendorNvidia }

func (r *NvidiaRedfishBMC) stage(ctx context.Context, attrs oem.Attributes) error {
	return r.setBiosAttributes(ctx, attrs.Body())
}

// Lockdown stages KcsInterfaceDisable and RedfishEnable in one PATCH so
// Redfish stays reachable until the host reboots.
func (r *NvidiaRedfishBMC) Lockdown(ctx context.Context, target schema.EnabledDisabled) error {
	current, err := r.Bios(ctx)
	if err != nil {
		return err
	}
	want := oem.VikingLockdown(target)
	if oem.IsSubMap(current, want) {
		return nil
	}
	return r.stage(ctx, want)
}

func (r *NvidiaRedfishBMC) LockdownStatus(ctx context.Context) (*Status, error) {
	current, err := r.Bios(ctx)
	if err != nil {
		return nil, err
	}
	locked := oem.VikingLockdown(schema.Enabled)
	parts := make([]statusPart, 0, len(locked))
	for _, key := range []string{"KcsInterfaceDisable", "RedfishEnable"} {
		parts = append(parts, statusPart{
			name:    key,
			enabled: oem.IsSubMap(current, oem.Attributes{key: locked[key]}),
			value:   fmt.Sprint(current[key]),
		})
	}
	return newStatus(parts...), nil
}

func (r *NvidiaRedfishBMC) SetupSerialConsole(ctx context.Context) error {
	return r.stage(ctx, oem.VikingSerialConsole)
}

func (r *NvidiaRedfishBMC) SerialConsoleStatus(ctx context.Context) (*Status, error) {
	current, err := r.Bios(ctx)
	if err != nil {
		return nil, err
	}
	return attributeStatus(current, map[string]oem.Attributes{"SerialConsole": oem.VikingSerialConsole}), nil
}

func (r *NvidiaRedfishBMC) ClearTPM(ctx context.Context) error {
	return r.stage(ctx, oem.VikingClearTPM)
}

func (r *NvidiaRedfishBMC) ClearNVRAM(ctx context.Context) error {
	return r.stage(ctx, oem.VikingClearNVRAM)
}

func (r *NvidiaRedfishBMC) EnableRshimBMC(ctx context.Context) error {
	return r.patch(ctx, r.managerURL()+"/Oem/Nvidia", oem.NewNvidiaRshim(true))
}

func (r *NvidiaRedfishBMC) MachineSetup(ctx context.Context, bootInterfaceMAC string) error {
	if err := r.stage(ctx, oem.VikingMachineSetup()); err != nil {
		return err
	}
	if bootInterfaceMAC == "" {
		return nil
	}
	return r.SetBootOrderDPUFirst(ctx, bootInterfaceMAC)
}

func (r *NvidiaRedfishBMC) MachineSetupStatus(ctx context.Context) (*MachineSetupStatus, error) {
	diffs, err := r.biosDiffs(ctx, oem.VikingMachineSetup())
	if err != nil {
		return nil, err
	}
	return newMachineSetupStatus(diffs), nil
}

// ChangeUEFIPassword stages the password change on the BIOS settings resource.
func (r *NvidiaRedfishBMC) ChangeUEFIPassword(ctx context.Context, current, newPassword string) (string, error) {
	err := r.patch(ctx, r.systemURL()+"/Bios/Settings", oem.Attributes{
		oem.NvidiaCurrentUEFIPassword: current,
		oem.NvidiaUEFIPassword:        newPassword,
	}.Body())
	return "", err
}

func (r *NvidiaRedfishBMC) ClearUEFIPassword(ctx context.Context, current string) (string, error) {
	return r.ChangeUEFIPassword(ctx, current, "")
}

func (r *NvidiaRedfishBMC) GetNetworkDeviceFunctions(ctx context.Context, chassisID string) ([]string, error) {
	return r.networkDeviceFunctions(ctx, chassisID, oem.NvidiaNetworkAdapter)
}

func (r *NvidiaRedfishBMC) GetNetworkDeviceFunction(ctx context.Context, chassisID, id, adapterID string) (*schema.NetworkDeviceFunction, error) {
	if adapterID == "" {
		adapterID = oem.NvidiaNetworkAdapter
	}
	return r.networkDeviceFunction(ctx, chassisID, id, adapterID)
}

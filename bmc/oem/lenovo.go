// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package oem

import (
	"github.com/NVIDIA/libredfish/bmc/schema"
)

const (
	LenovoNetwork  BootOptionName = "Network"
	LenovoHardDisk BootOptionName = "Hard Disk"
	LenovoHTTP     BootOptionName = "HTTP"

	// LenovoToHostInterface is the USB network interface between host and XCC.
	LenovoToHostInterface = "ToHost"

	LenovoUEFIPasswordName = "UefiAdminPassword"
)

// LenovoManager is the Oem.Lenovo block of a Managers/{id} resource.
type LenovoManager struct {
	Lenovo LenovoManagerFields `json:"Lenovo"`
}

// LenovoManagerFields are the lockdown related properties of an XCC.
type LenovoManagerFields struct {
	KCSEnabled *bool  `json:"KCSEnabled,omitempty"`
	FWRollback string `json:"FWRollback,omitempty"`
}

// LenovoManagerPatch builds the Managers/{id} body for the OEM manager fields.
func LenovoManagerPatch(f LenovoManagerFields) map[string]any {
	return map[string]any{"Oem": LenovoManager{Lenovo: f}}
}

// LenovoLockdown returns the manager fields for the requested lockdown state.
// The host interface is disabled separately.
func LenovoLockdown(target schema.EnabledDisabled) LenovoManagerFields {
	enabled := target.IsEnabled()
	kcs := !enabled
	rollback := schema.Enabled
	if enabled {
		rollback = schema.Disabled
	}
	return LenovoManagerFields{KCSEnabled: &kcs, FWRollback: rollback.String()}
}

// LenovoAccountService is the Oem.Lenovo block of the AccountService.
type LenovoAccountService struct {
	Lenovo struct {
		PasswordChangeOnFirstAccess  *bool `json:"PasswordChangeOnFirstAccess,omitempty"`
		PasswordExpirationPeriodDays *int  `json:"PasswordExpirationPeriodDays,omitempty"`
		PasswordChangeInterval       *int  `json:"PasswordChangeInterval,omitempty"`
		MinimumPasswordReuseCycle    *int  `json:"MinimumPasswordReuseCycle,omitempty"`
		PasswordExpirationWarnPeriod *int  `json:"PasswordExpirationWarningPeriod,omitempty"`
	} `json:"Lenovo"`
}

// LenovoPasswordPolicy is the AccountService body of a machine account policy on XCC.
func LenovoPasswordPolicy() map[string]any {
	var oem LenovoAccountService
	never := false
	zero := 0
	oem.Lenovo.PasswordChangeOnFirstAccess = &never
	oem.Lenovo.PasswordExpirationPeriodDays = &zero
	oem.Lenovo.PasswordChangeInterval = &zero
	oem.Lenovo.MinimumPasswordReuseCycle = &zero
	oem.Lenovo.PasswordExpirationWarnPeriod = &zero
	return map[string]any{
		"AccountLockoutThreshold": 0,
		"AccountLockoutDuration":  60,
		"Oem":                     oem,
	}
}

// LenovoNetworkProtocol is the Oem.Lenovo block of Managers/{id}/NetworkProtocol.
type LenovoNetworkProtocol struct {
	Lenovo struct {
		IPMIOverLAN *schema.Protocol `json:"IPMIOverLAN,omitempty"`
	} `json:"Lenovo"`
}

// LenovoIPMIOverLAN builds the NetworkProtocol body toggling IPMI over LAN.
func LenovoIPMIOverLAN(enabled bool) map[string]any {
	var oem LenovoNetworkProtocol
	oem.Lenovo.IPMIOverLAN = &schema.Protocol{ProtocolEnabled: &enabled}
	return map[string]any{"Oem": oem}
}

// LenovoSerialConsole are the BIOS attributes for a serial console on COM1.
var LenovoSerialConsole = Attributes{
	"DevicesandIOPorts_COMPort1":               "Enabled",
	"DevicesandIOPorts_ConsoleRedirection":     "Enabled",
	"DevicesandIOPorts_SerialPortSharing":      "Enabled",
	"DevicesandIOPorts_SerialPortAccessMode":   "Shared",
	"DevicesandIOPorts_SPRedirection":          "Enabled",
	"DevicesandIOPorts_COMPortActiveAfterBoot": "Enabled",
	"DevicesandIOPorts_LegacyOptionROMDisplay": "COM Port 1",
}

// LenovoMachineSetup are the BIOS attributes of a provisioned Lenovo host.
var LenovoMachineSetup = Attributes{
	"Processors_IntelVirtualizationTechnology": "Enabled",
	"Processors_SRIOV":                         "Enabled",
	"NetworkStackSettings_IPv4HTTPSupport":     "Enabled",
	"NetworkStackSettings_IPv4PXESupport":      "Disabled",
	"BootModes_SystemBootMode":                 "UEFIMode",
}

// LenovoClearTPM clears the TPM on next boot.
var LenovoClearTPM = Attributes{"TrustedComputingGroup_DeviceOperation": "Clear"}

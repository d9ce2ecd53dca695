// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package oem

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/libredfish/bmc/schema"
)

const (
	NvidiaHTTPv4 = StandardHTTPv4
	NvidiaPXEv4  = StandardPXEv4
	// NvidiaHardDisk prefixes the UefiDevicePath of a disk boot option.
	NvidiaHardDisk = StandardHardDisk

	// NvidiaNetworkAdapter is the fixed adapter id under Chassis/{system}/NetworkAdapters.
	NvidiaNetworkAdapter = "NvidiaNetworkAdapter"

	// GB200UEFIPasswordName is the BIOS password changed by ChangeUEFIPassword on GB200.
	GB200UEFIPasswordName = StandardUEFIPasswordName

	NvidiaCurrentUEFIPassword = "CurrentUefiPassword"
	NvidiaUEFIPassword        = "UefiPassword"
)

// HTTPBootOptionForMAC returns the display name GB200 firmware gives to the
// HTTP boot option of the interface with the given MAC.
func HTTPBootOptionForMAC(mac string) BootOptionName {
	mac = strings.ToUpper(strings.ReplaceAll(mac, ":", ""))
	return BootOptionName(fmt.Sprintf("%s (MAC:%s)", NvidiaHTTPv4, mac))
}

// VikingLockdown keeps Redfish reachable until the next reboot: both attributes
// are staged together so the KCS and Redfish host interfaces flip at once.
func VikingLockdown(target schema.EnabledDisabled) Attributes {
	if target.IsEnabled() {
		return Attributes{"KcsInterfaceDisable": "Deny All", "RedfishEnable": schema.Disabled.String()}
	}
	return Attributes{"KcsInterfaceDisable": "Allow All", "RedfishEnable": schema.Enabled.String()}
}

// VikingSerialConsole routes the host console to the BMC SOL port.
var VikingSerialConsole = Attributes{
	"AcpiSpcrBaudRate":                 "115200",
	"AcpiSpcrConsoleRedirectionEnable": true,
	"AcpiSpcrFlowControl":              "None",
	"AcpiSpcrPort":                     "COM0",
	"AcpiSpcrTerminalType":             "VT-UTF8",
	"BaudRate0":                        "115200",
	"ConsoleRedirectionEnable0":        true,
	"TerminalType0":                    "ANSI",
}

// VikingClearTPM clears the TPM on next boot.
var VikingClearTPM = Attributes{
	"TpmOperation": "TPM Clear",
	"TpmSupport":   schema.Enable.String(),
}

// VikingVirtualization enables SR-IOV and VT-d.
var VikingVirtualization = Attributes{
	"SRIOVEnable": schema.Enable.String(),
	"VTdSupport":  schema.Enable.String(),
}

// VikingUEFIHTTP boots over IPv4 HTTP only.
var VikingUEFIHTTP = Attributes{
	"Ipv4Http": schema.Enabled.String(),
	"Ipv4Pxe":  schema.Disabled.String(),
	"Ipv6Http": schema.Enabled.String(),
	"Ipv6Pxe":  schema.Disabled.String(),
}

// VikingSGX disables SGX and its prerequisites, VMX stays on.
var VikingSGX = Attributes{
	"EnableSgx":           schema.Disabled.String(),
	"ProcessorLtsxEnable": schema.Disable.String(),
	"ProcessorSmxEnable":  schema.Disable.String(),
	"ProcessorVmxEnable":  schema.Enable.String(),
}

// VikingMachineSetup is the union of the provisioning attribute groups.
func VikingMachineSetup() Attributes {
	return Merge(VikingVirtualization, VikingUEFIHTTP, VikingSGX, VikingSerialConsole)
}

// VikingClearNVRAM resets the UEFI variable store on next boot.
var VikingClearNVRAM = Attributes{"NvramReset": schema.Enable.String()}

// NvidiaRshim is the Managers/{id}/Oem/Nvidia body enabling the BMC rshim.
type NvidiaRshim struct {
	BmcRShim struct {
		BmcRShimEnabled bool `json:"BmcRShimEnabled"`
	} `json:"BmcRShim"`
}

// NewNvidiaRshim returns the body enabling or disabling rshim.
func NewNvidiaRshim(enabled bool) NvidiaRshim {
	var r NvidiaRshim
	r.BmcRShim.BmcRShimEnabled = enabled
	return r
}

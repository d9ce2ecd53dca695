// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package oem

import "github.com/NVIDIA/libredfish/bmc/schema"

// SimpleUpdateRequestBody is a SimpleUpdate body with an explicit apply time.
type SimpleUpdateRequestBody struct {
	schema.SimpleUpdateParameters
	RedfishOperationApplyTime schema.ApplyTime `json:"@Redfish.OperationApplyTime,omitempty"`
}

// SettingsApplyTime is the @Redfish.SettingsApplyTime annotation of a settings PATCH.
type SettingsApplyTime struct {
	ApplyTime schema.ApplyTime `json:"ApplyTime"`
}

// BootOptionName is the display name prefix a vendor uses for a boot device class.
type BootOptionName string

// Display name and device path prefixes of EDK2 based firmware.
const (
	StandardPXEv4    BootOptionName = "UEFI PXEv4"
	StandardHTTPv4   BootOptionName = "UEFI HTTPv4"
	StandardHardDisk BootOptionName = "HD("

	// StandardUEFIPasswordName is the BIOS password changed by ChangeUEFIPassword.
	StandardUEFIPasswordName = "AdminPassword"
)

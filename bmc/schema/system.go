// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

// ComputerSystem is a Systems/{id} resource.
type ComputerSystem struct {
	Resource
	Manufacturer       string          `json:"Manufacturer,omitempty"`
	Model              string          `json:"Model,omitempty"`
	SerialNumber       string          `json:"SerialNumber,omitempty"`
	SKU                string          `json:"SKU,omitempty"`
	UUID               string          `json:"UUID,omitempty"`
	BiosVersion        string          `json:"BiosVersion,omitempty"`
	PowerState         *PowerState     `json:"PowerState,omitempty"`
	Status             *Status         `json:"Status,omitempty"`
	Boot               Boot            `json:"Boot"`
	Bios               *ODataID        `json:"Bios,omitempty"`
	SecureBoot         *ODataID        `json:"SecureBoot,omitempty"`
	EthernetInterfaces *ODataID        `json:"EthernetInterfaces,omitempty"`
	NetworkInterfaces  *ODataID        `json:"NetworkInterfaces,omitempty"`
	LogServices        *ODataID        `json:"LogServices,omitempty"`
	PCIeDevices        []ODataID       `json:"PCIeDevices,omitempty"`
	Links              SystemLinks     `json:"Links"`
	Actions            SystemActions   `json:"Actions"`
	Settings           *SettingsObject `json:"@Redfish.Settings,omitempty"`
}

// SystemLinks holds the relations of a ComputerSystem.
type SystemLinks struct {
	Chassis   []ODataID `json:"Chassis,omitempty"`
	ManagedBy []ODataID `json:"ManagedBy,omitempty"`
}

// SystemActions lists the actions a ComputerSystem exposes.
type SystemActions struct {
	Reset *ActionTarget `json:"#ComputerSystem.Reset,omitempty"`
}

// SettingsURL returns the staging resource of the system, falling back to the
// conventional Settings child when the BMC does not announce one.
func (s *ComputerSystem) SettingsURL() string {
	if s.Settings != nil && s.Settings.SettingsObject.ODataID != "" {
		return s.Settings.SettingsObject.Relative()
	}
	return s.URL() + "/Settings"
}

// Boot is the boot configuration of a ComputerSystem.
type Boot struct {
	AutomaticRetryAttempts       *int                         `json:"AutomaticRetryAttempts,omitempty"`
	AutomaticRetryConfig         *AutomaticRetryConfig        `json:"AutomaticRetryConfig,omitempty"`
	BootNext                     string                       `json:"BootNext,omitempty"`
	BootOrder                    []string                     `json:"BootOrder"`
	BootOptions                  *ODataID                     `json:"BootOptions,omitempty"`
	BootSourceOverrideEnabled    *BootSourceOverrideEnabled   `json:"BootSourceOverrideEnabled,omitempty"`
	BootSourceOverrideTarget     *BootSourceOverrideTarget    `json:"BootSourceOverrideTarget,omitempty"`
	HTTPBootURI                  string                       `json:"HttpBootUri,omitempty"`
	TrustedModuleRequiredToBoot  *TrustedModuleRequiredToBoot `json:"TrustedModuleRequiredToBoot,omitempty"`
	UefiTargetBootSourceOverride string                       `json:"UefiTargetBootSourceOverride,omitempty"`
	// Informational only; BMCs list vendor values here so it is not decoded strictly.
	AllowableTargets []string `json:"BootSourceOverrideTarget@Redfish.AllowableValues,omitempty"`
}

// BootOption is a Systems/{id}/BootOptions/{id} resource.
type BootOption struct {
	Resource
	DisplayName         string `json:"DisplayName"`
	UefiDevicePath      string `json:"UefiDevicePath,omitempty"`
	BootOptionEnabled   *bool  `json:"BootOptionEnabled,omitempty"`
	BootOptionReference string `json:"BootOptionReference,omitempty"`
	Alias               string `json:"Alias,omitempty"`
}

// Bios is a Systems/{id}/Bios resource. Attribute values keep their JSON type.
type Bios struct {
	Resource
	AttributeRegistry string          `json:"AttributeRegistry,omitempty"`
	Attributes        map[string]any  `json:"Attributes"`
	Settings          *SettingsObject `json:"@Redfish.Settings,omitempty"`
	Actions           BiosActions     `json:"Actions"`
}

// BiosActions lists the actions a Bios resource exposes.
type BiosActions struct {
	ResetBios      *ActionTarget `json:"#Bios.ResetBios,omitempty"`
	ChangePassword *ActionTarget `json:"#Bios.ChangePassword,omitempty"`
}

// SettingsURL returns the staging resource for BIOS attributes.
func (b *Bios) SettingsURL() string {
	if b.Settings != nil && b.Settings.SettingsObject.ODataID != "" {
		return b.Settings.SettingsObject.Relative()
	}
	return b.URL() + "/Settings"
}

// SecureBoot is a Systems/{id}/SecureBoot resource.
type SecureBoot struct {
	Resource
	SecureBootEnable      *bool    `json:"SecureBootEnable,omitempty"`
	SecureBootCurrentBoot *string  `json:"SecureBootCurrentBoot,omitempty"`
	SecureBootMode        *string  `json:"SecureBootMode,omitempty"`
	SecureBootDatabases   *ODataID `json:"SecureBootDatabases,omitempty"`
}

// Enabled reports whether secure boot is enabled; absent counts as disabled.
func (s *SecureBoot) Enabled() bool {
	return s.SecureBootEnable != nil && *s.SecureBootEnable
}

// LogEntry is a single record of a log service.
type LogEntry struct {
	Resource
	Created        string `json:"Created,omitempty"`
	EntryType      string `json:"EntryType,omitempty"`
	Message        string `json:"Message,omitempty"`
	MessageID      string `json:"MessageId,omitempty"`
	Severity       string `json:"Severity,omitempty"`
	SensorType     string `json:"SensorType,omitempty"`
	SensorNumber   *int   `json:"SensorNumber,omitempty"`
	EntryCode      string `json:"EntryCode,omitempty"`
	EventTimestamp string `json:"EventTimestamp,omitempty"`
	AdditionalData string `json:"AdditionalDataURI,omitempty"`
}

// LogEntryCollection is a log service Entries collection with expanded members.
type LogEntryCollection struct {
	Resource
	Members []LogEntry `json:"Members"`
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package oem

import (
	"github.com/NVIDIA/libredfish/bmc/schema"
)

const (
	DellPxeDevice  BootOptionName = "PXE Device"
	DellHTTPDevice BootOptionName = "HTTP Device"
	DellHardDisk   BootOptionName = "Hard drive"

	// DellUEFIPasswordName is the BIOS password changed by ChangeUEFIPassword.
	DellUEFIPasswordName = "SetupPassword"

	DellResetAllWithRootDefaults = "ResetAllWithRootDefaults"

	DellIPMILanEnable    = "IPMILan.1.Enable"
	DellSystemLockdown   = "Lockdown.1.SystemLockdown"
	DellRacadmEnable     = "Racadm.1.Enable"
	DellJobTypeBIOSConf  = "BIOSConfiguration"
	DellJobStateSchedule = "Scheduled"
)

// DellManager is the Oem.Dell block of a Managers/{id} resource.
type DellManager struct {
	Dell struct {
		DellAttributes []schema.ODataID `json:"DellAttributes"`
	} `json:"Dell"`
}

// DellAttributes is a Managers/{id}/Attributes resource holding iDRAC attributes.
type DellAttributes struct {
	schema.Resource
	Attributes Attributes             `json:"Attributes"`
	Settings   *schema.SettingsObject `json:"@Redfish.Settings,omitempty"`
}

// DellJob is a Managers/{id}/Jobs/{id} resource.
type DellJob struct {
	schema.Resource
	JobState        string `json:"JobState"`
	JobType         string `json:"JobType"`
	Message         string `json:"Message,omitempty"`
	PercentComplete *int   `json:"PercentComplete,omitempty"`
	StartTime       string `json:"StartTime,omitempty"`
	EndTime         string `json:"EndTime,omitempty"`
}

// IsScheduledBIOSConfiguration reports whether the job would apply pending BIOS settings on next boot.
func (j *DellJob) IsScheduledBIOSConfiguration() bool {
	return j.JobType == DellJobTypeBIOSConf && j.JobState == DellJobStateSchedule
}

// AsTask projects the job into a task. Dell reports its own job states, unknown
// ones are mapped onto Running until they are terminal.
func (j *DellJob) AsTask() *schema.Task {
	state := schema.TaskStateRunning
	switch j.JobState {
	case "Completed":
		state = schema.TaskStateCompleted
	case "Failed", "CompletedWithErrors":
		state = schema.TaskStateException
	case "Scheduled", "New", "Scheduling", "Waiting":
		state = schema.TaskStatePending
	}
	task := &schema.Task{
		Resource:        j.Resource,
		TaskState:       state,
		PercentComplete: j.PercentComplete,
		StartTime:       j.StartTime,
		EndTime:         j.EndTime,
	}
	if j.Message != "" {
		task.Messages = []schema.Message{{MessageID: j.JobType, Message: j.Message}}
	}
	return task
}

// DellResetToDefaultsBody is the body of the DellManager.ResetToDefaults action.
type DellResetToDefaultsBody struct {
	ResetType string `json:"ResetType"`
}

// DellBIOSLockdown locks the in band interfaces down.
func DellBIOSLockdown(target schema.EnabledDisabled) Attributes {
	if target.IsEnabled() {
		return Attributes{
			"InBandManageabilityInterface": "Disabled",
			"UefiVariableAccess":           "Controlled",
		}
	}
	return Attributes{
		"InBandManageabilityInterface": "Enabled",
		"UefiVariableAccess":           "Standard",
	}
}

// DellIDRACLockdown is the iDRAC side of the lockdown.
func DellIDRACLockdown(target schema.EnabledDisabled) Attributes {
	if target.IsEnabled() {
		return Attributes{DellSystemLockdown: "Enabled", DellRacadmEnable: "Disabled"}
	}
	return Attributes{DellSystemLockdown: "Disabled", DellRacadmEnable: "Enabled"}
}

// DellBIOSSerialConsole redirects the host console to the serial port used by SOL.
var DellBIOSSerialConsole = Attributes{
	"SerialComm":         "OnConRedir",
	"SerialPortAddress":  "Com1",
	"ExtSerialConnector": "Serial1",
	"FailSafeBaud":       "115200",
	"ConTermType":        "Vt100Vt220",
	"RedirAfterBoot":     "Enabled",
}

// DellIDRACSerialConsole enables serial over LAN on the iDRAC.
var DellIDRACSerialConsole = Attributes{
	"SerialRedirection.1.Enable": "Enabled",
	"IPMISOL.1.BaudRate":         "115200",
	"IPMISOL.1.Enable":           "Enabled",
	"IPMISOL.1.MinPrivilege":     "Administrator",
}

// DellMachineSetup are the BIOS attributes of a provisioned Dell host.
var DellMachineSetup = Attributes{
	"BootMode":           "Uefi",
	"ProcVirtualization": "Enabled",
	"SriovGlobalEnable":  "Enabled",
	"HttpDev1EnDis":      "Enabled",
	"PxeDev1EnDis":       "Disabled",
	"TpmSecurity":        "On",
}

// DellClearTPM clears the TPM hierarchy on next boot.
var DellClearTPM = Attributes{"Tpm2Hierarchy": "Clear"}

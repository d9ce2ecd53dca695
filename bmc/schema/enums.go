// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// UnknownEnumValueError is returned when a BMC sends a value outside of a closed enumeration.
type UnknownEnumValueError struct {
	Enum  string
	Value string
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Enum, e.Value)
}

func decodeEnum[T ~string](data []byte, name string, values []T) (T, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", name, err)
	}
	v := T(raw)
	if !slices.Contains(values, v) {
		return "", &UnknownEnumValueError{Enum: name, Value: raw}
	}
	return v, nil
}

func parseEnum[T ~string](s, name string, values []T) (T, error) {
	v := T(s)
	if !slices.Contains(values, v) {
		return "", &UnknownEnumValueError{Enum: name, Value: s}
	}
	return v, nil
}

// PowerState is the power state of a system or chassis.
type PowerState string

const (
	PowerStateOn          PowerState = "On"
	PowerStateOff         PowerState = "Off"
	PowerStatePoweringOn  PowerState = "PoweringOn"
	PowerStatePoweringOff PowerState = "PoweringOff"
	PowerStatePaused      PowerState = "Paused"
)

var powerStates = []PowerState{PowerStateOn, PowerStateOff, PowerStatePoweringOn, PowerStatePoweringOff, PowerStatePaused}

func (p PowerState) String() string { return string(p) }

func (p *PowerState) UnmarshalJSON(data []byte) (err error) {
	*p, err = decodeEnum(data, "PowerState", powerStates)
	return err
}

// PowerAction is the reset type requested from a system, chassis or manager.
type PowerAction string

const (
	PowerActionOn               PowerAction = "On"
	PowerActionForceOff         PowerAction = "ForceOff"
	PowerActionGracefulShutdown PowerAction = "GracefulShutdown"
	PowerActionGracefulRestart  PowerAction = "GracefulRestart"
	PowerActionForceRestart     PowerAction = "ForceRestart"
	PowerActionNmi              PowerAction = "Nmi"
	PowerActionPushPowerButton  PowerAction = "PushPowerButton"
	PowerActionForceOn          PowerAction = "ForceOn"
	PowerActionPowerCycle       PowerAction = "PowerCycle"
)

var powerActions = []PowerAction{
	PowerActionOn, PowerActionForceOff, PowerActionGracefulShutdown, PowerActionGracefulRestart,
	PowerActionForceRestart, PowerActionNmi, PowerActionPushPowerButton, PowerActionForceOn, PowerActionPowerCycle,
}

func (p PowerAction) String() string { return string(p) }

func (p *PowerAction) UnmarshalJSON(data []byte) (err error) {
	*p, err = decodeEnum(data, "PowerAction", powerActions)
	return err
}

// ParsePowerAction parses the textual form of a PowerAction.
func ParsePowerAction(s string) (PowerAction, error) {
	return parseEnum(s, "PowerAction", powerActions)
}

// PowerActions returns every known PowerAction.
func PowerActions() []PowerAction {
	return slices.Clone(powerActions)
}

// TaskState is the state of a Task or Job.
type TaskState string

const (
	TaskStateNew         TaskState = "New"
	TaskStateStarting    TaskState = "Starting"
	TaskStateRunning     TaskState = "Running"
	TaskStateSuspended   TaskState = "Suspended"
	TaskStateInterrupted TaskState = "Interrupted"
	TaskStatePending     TaskState = "Pending"
	TaskStateStopping    TaskState = "Stopping"
	TaskStateCompleted   TaskState = "Completed"
	// TaskStateKilled is deprecated in favour of Cancelled but still sent by older BMCs.
	TaskStateKilled     TaskState = "Killed"
	TaskStateCancelled  TaskState = "Cancelled"
	TaskStateCancelling TaskState = "Cancelling"
	TaskStateException  TaskState = "Exception"
	TaskStateService    TaskState = "Service"
)

var taskStates = []TaskState{
	TaskStateNew, TaskStateStarting, TaskStateRunning, TaskStateSuspended, TaskStateInterrupted,
	TaskStatePending, TaskStateStopping, TaskStateCompleted, TaskStateKilled, TaskStateCancelled,
	TaskStateException, TaskStateService, TaskStateCancelling,
}

func (t TaskState) String() string { return string(t) }

// IsTerminal reports whether no further transition will happen.
func (t TaskState) IsTerminal() bool {
	switch t {
	case TaskStateCompleted, TaskStateCancelled, TaskStateException, TaskStateKilled:
		return true
	}
	return false
}

func (t *TaskState) UnmarshalJSON(data []byte) (err error) {
	*t, err = decodeEnum(data, "TaskState", taskStates)
	return err
}

// BootSourceOverrideEnabled controls how long a boot override stays in effect.
type BootSourceOverrideEnabled string

const (
	BootSourceOverrideEnabledOnce       BootSourceOverrideEnabled = "Once"
	BootSourceOverrideEnabledContinuous BootSourceOverrideEnabled = "Continuous"
	BootSourceOverrideEnabledDisabled   BootSourceOverrideEnabled = "Disabled"
)

var bootSourceOverrideEnabledValues = []BootSourceOverrideEnabled{
	BootSourceOverrideEnabledOnce, BootSourceOverrideEnabledContinuous, BootSourceOverrideEnabledDisabled,
}

func (b BootSourceOverrideEnabled) String() string { return string(b) }

func (b *BootSourceOverrideEnabled) UnmarshalJSON(data []byte) (err error) {
	*b, err = decodeEnum(data, "BootSourceOverrideEnabled", bootSourceOverrideEnabledValues)
	return err
}

// BootSourceOverrideTarget is the device a one-time or continuous boot override points at.
type BootSourceOverrideTarget string

const (
	BootSourceNone         BootSourceOverrideTarget = "None"
	BootSourcePxe          BootSourceOverrideTarget = "Pxe"
	BootSourceFloppy       BootSourceOverrideTarget = "Floppy"
	BootSourceCd           BootSourceOverrideTarget = "Cd"
	BootSourceUsb          BootSourceOverrideTarget = "Usb"
	BootSourceHdd          BootSourceOverrideTarget = "Hdd"
	BootSourceBiosSetup    BootSourceOverrideTarget = "BiosSetup"
	BootSourceUtilities    BootSourceOverrideTarget = "Utilities"
	BootSourceDiags        BootSourceOverrideTarget = "Diags"
	BootSourceUefiShell    BootSourceOverrideTarget = "UefiShell"
	BootSourceUefiTarget   BootSourceOverrideTarget = "UefiTarget"
	BootSourceSDCard       BootSourceOverrideTarget = "SDCard"
	BootSourceUefiHTTP     BootSourceOverrideTarget = "UefiHttp"
	BootSourceRemoteDrive  BootSourceOverrideTarget = "RemoteDrive"
	BootSourceUefiBootNext BootSourceOverrideTarget = "UefiBootNext"
	BootSourceRecovery     BootSourceOverrideTarget = "Recovery"
)

var bootSourceOverrideTargets = []BootSourceOverrideTarget{
	BootSourceNone, BootSourcePxe, BootSourceFloppy, BootSourceCd, BootSourceUsb, BootSourceHdd,
	BootSourceBiosSetup, BootSourceUtilities, BootSourceDiags, BootSourceUefiShell, BootSourceUefiTarget,
	BootSourceSDCard, BootSourceUefiHTTP, BootSourceRemoteDrive, BootSourceUefiBootNext, BootSourceRecovery,
}

func (b BootSourceOverrideTarget) String() string { return string(b) }

func (b *BootSourceOverrideTarget) UnmarshalJSON(data []byte) (err error) {
	*b, err = decodeEnum(data, "BootSourceOverrideTarget", bootSourceOverrideTargets)
	return err
}

// TransferProtocolType is the protocol a BMC uses to fetch a SimpleUpdate image.
type TransferProtocolType string

const (
	TransferProtocolCIFS  TransferProtocolType = "CIFS"
	TransferProtocolFTP   TransferProtocolType = "FTP"
	TransferProtocolSFTP  TransferProtocolType = "SFTP"
	TransferProtocolHTTP  TransferProtocolType = "HTTP"
	TransferProtocolHTTPS TransferProtocolType = "HTTPS"
	TransferProtocolNFS   TransferProtocolType = "NFS"
	TransferProtocolSCP   TransferProtocolType = "SCP"
	TransferProtocolTFTP  TransferProtocolType = "TFTP"
	TransferProtocolOEM   TransferProtocolType = "OEM"
)

var transferProtocols = []TransferProtocolType{
	TransferProtocolCIFS, TransferProtocolFTP, TransferProtocolSFTP, TransferProtocolHTTP, TransferProtocolHTTPS,
	TransferProtocolNFS, TransferProtocolSCP, TransferProtocolTFTP, TransferProtocolOEM,
}

func (t TransferProtocolType) String() string { return string(t) }

func (t *TransferProtocolType) UnmarshalJSON(data []byte) (err error) {
	*t, err = decodeEnum(data, "TransferProtocolType", transferProtocols)
	return err
}

// ParseTransferProtocol parses the textual form of a TransferProtocolType.
func ParseTransferProtocol(s string) (TransferProtocolType, error) {
	return parseEnum(s, "TransferProtocolType", transferProtocols)
}

// ComponentType selects the firmware component targeted by an update.
type ComponentType string

const (
	ComponentBMC      ComponentType = "BMC"
	ComponentUEFI     ComponentType = "UEFI"
	ComponentEROTBMC  ComponentType = "EROTBMC"
	ComponentEROTBIOS ComponentType = "EROTBIOS"
	ComponentCPLDMID  ComponentType = "CPLDMID"
	ComponentCPLDMB   ComponentType = "CPLDMB"
	ComponentCPLDPDB  ComponentType = "CPLDPDB"
	ComponentHGXBMC   ComponentType = "HGXBMC"
	ComponentUnknown  ComponentType = "Unknown"
)

var componentTypes = []ComponentType{
	ComponentBMC, ComponentUEFI, ComponentEROTBMC, ComponentEROTBIOS, ComponentCPLDMID,
	ComponentCPLDMB, ComponentCPLDPDB, ComponentHGXBMC, ComponentUnknown,
}

func (c ComponentType) String() string { return string(c) }

func (c *ComponentType) UnmarshalJSON(data []byte) (err error) {
	*c, err = decodeEnum(data, "ComponentType", componentTypes)
	return err
}

// ParseComponentType parses the textual form of a ComponentType.
func ParseComponentType(s string) (ComponentType, error) {
	return parseEnum(s, "ComponentType", componentTypes)
}

// EnabledDisabled is the Enabled/Disabled pair used across Redfish and OEM attributes.
type EnabledDisabled string

const (
	Enabled  EnabledDisabled = "Enabled"
	Disabled EnabledDisabled = "Disabled"
)

var enabledDisabledValues = []EnabledDisabled{Enabled, Disabled}

func (e EnabledDisabled) String() string { return string(e) }

// IsEnabled reports whether the value is Enabled.
func (e EnabledDisabled) IsEnabled() bool { return e == Enabled }

func (e *EnabledDisabled) UnmarshalJSON(data []byte) (err error) {
	*e, err = decodeEnum(data, "EnabledDisabled", enabledDisabledValues)
	return err
}

// ParseEnabledDisabled parses the textual form of an EnabledDisabled.
func ParseEnabledDisabled(s string) (EnabledDisabled, error) {
	return parseEnum(s, "EnabledDisabled", enabledDisabledValues)
}

// EnableDisable is the Enable/Disable pair some BIOS vendors use instead of EnabledDisabled.
type EnableDisable string

const (
	Enable  EnableDisable = "Enable"
	Disable EnableDisable = "Disable"
)

var enableDisableValues = []EnableDisable{Enable, Disable}

func (e EnableDisable) String() string { return string(e) }

func (e *EnableDisable) UnmarshalJSON(data []byte) (err error) {
	*e, err = decodeEnum(data, "EnableDisable", enableDisableValues)
	return err
}

// RoleID is a predefined account role.
type RoleID string

const (
	RoleAdministrator RoleID = "Administrator"
	RoleOperator      RoleID = "Operator"
	RoleReadOnly      RoleID = "ReadOnly"
	RoleNoAccess      RoleID = "NoAccess"
	// RoleNone marks an unused account slot on iDRAC.
	RoleNone RoleID = "None"
)

var roleIDs = []RoleID{RoleAdministrator, RoleOperator, RoleReadOnly, RoleNoAccess, RoleNone}

func (r RoleID) String() string { return string(r) }

func (r *RoleID) UnmarshalJSON(data []byte) (err error) {
	*r, err = decodeEnum(data, "RoleId", roleIDs)
	return err
}

// ParseRoleID parses the textual form of a RoleID.
func ParseRoleID(s string) (RoleID, error) {
	return parseEnum(s, "RoleId", roleIDs)
}

// Health is the health of a resource.
type Health string

const (
	HealthOK       Health = "OK"
	HealthWarning  Health = "Warning"
	HealthCritical Health = "Critical"
)

var healthValues = []Health{HealthOK, HealthWarning, HealthCritical}

func (h Health) String() string { return string(h) }

func (h *Health) UnmarshalJSON(data []byte) (err error) {
	*h, err = decodeEnum(data, "Health", healthValues)
	return err
}

// State is the known state of a resource.
type State string

const (
	StateEnabled            State = "Enabled"
	StateDisabled           State = "Disabled"
	StateStandbyOffline     State = "StandbyOffline"
	StateStandbySpare       State = "StandbySpare"
	StateInTest             State = "InTest"
	StateStarting           State = "Starting"
	StateAbsent             State = "Absent"
	StateUnavailableOffline State = "UnavailableOffline"
	StateDeferring          State = "Deferring"
	StateQuiesced           State = "Quiesced"
	StateUpdating           State = "Updating"
	StateQualified          State = "Qualified"
	StateDegraded           State = "Degraded"
)

var stateValues = []State{
	StateEnabled, StateDisabled, StateStandbyOffline, StateStandbySpare, StateInTest, StateStarting,
	StateAbsent, StateUnavailableOffline, StateDeferring, StateQuiesced, StateUpdating, StateQualified,
	StateDegraded,
}

func (s State) String() string { return string(s) }

func (s *State) UnmarshalJSON(data []byte) (err error) {
	*s, err = decodeEnum(data, "State", stateValues)
	return err
}

// AutomaticRetryConfig controls automatic boot retries.
type AutomaticRetryConfig string

const (
	AutomaticRetryDisabled      AutomaticRetryConfig = "Disabled"
	AutomaticRetryRetryAttempts AutomaticRetryConfig = "RetryAttempts"
	AutomaticRetryRetryAlways   AutomaticRetryConfig = "RetryAlways"
)

var automaticRetryConfigs = []AutomaticRetryConfig{AutomaticRetryDisabled, AutomaticRetryRetryAttempts, AutomaticRetryRetryAlways}

func (a *AutomaticRetryConfig) UnmarshalJSON(data []byte) (err error) {
	*a, err = decodeEnum(data, "AutomaticRetryConfig", automaticRetryConfigs)
	return err
}

// TrustedModuleRequiredToBoot says whether a TPM is required to boot.
type TrustedModuleRequiredToBoot string

const (
	TrustedModuleDisabled TrustedModuleRequiredToBoot = "Disabled"
	TrustedModuleRequired TrustedModuleRequiredToBoot = "Required"
)

var trustedModuleValues = []TrustedModuleRequiredToBoot{TrustedModuleDisabled, TrustedModuleRequired}

func (t *TrustedModuleRequiredToBoot) UnmarshalJSON(data []byte) (err error) {
	*t, err = decodeEnum(data, "TrustedModuleRequiredToBoot", trustedModuleValues)
	return err
}

// ApplyTime is when a settings change or operation is applied.
type ApplyTime string

const (
	ApplyTimeImmediate                  ApplyTime = "Immediate"
	ApplyTimeOnReset                    ApplyTime = "OnReset"
	ApplyTimeAtMaintenanceWindowStart   ApplyTime = "AtMaintenanceWindowStart"
	ApplyTimeInMaintenanceWindowOnReset ApplyTime = "InMaintenanceWindowOnReset"
	ApplyTimeOnStartUpdateRequest       ApplyTime = "OnStartUpdateRequest"
)

var applyTimes = []ApplyTime{
	ApplyTimeImmediate, ApplyTimeOnReset, ApplyTimeAtMaintenanceWindowStart,
	ApplyTimeInMaintenanceWindowOnReset, ApplyTimeOnStartUpdateRequest,
}

func (a ApplyTime) String() string { return string(a) }

func (a *ApplyTime) UnmarshalJSON(data []byte) (err error) {
	*a, err = decodeEnum(data, "ApplyTime", applyTimes)
	return err
}

// JobState is the state of a Job. It extends TaskState with the job-only values.
type JobState string

const (
	JobStateNew              JobState = "New"
	JobStateStarting         JobState = "Starting"
	JobStateRunning          JobState = "Running"
	JobStateSuspended        JobState = "Suspended"
	JobStateInterrupted      JobState = "Interrupted"
	JobStatePending          JobState = "Pending"
	JobStateStopping         JobState = "Stopping"
	JobStateCompleted        JobState = "Completed"
	JobStateCancelled        JobState = "Cancelled"
	JobStateException        JobState = "Exception"
	JobStateService          JobState = "Service"
	JobStateUserIntervention JobState = "UserIntervention"
	JobStateContinue         JobState = "Continue"
)

var jobStates = []JobState{
	JobStateNew, JobStateStarting, JobStateRunning, JobStateSuspended, JobStateInterrupted,
	JobStatePending, JobStateStopping, JobStateCompleted, JobStateCancelled, JobStateException,
	JobStateService, JobStateUserIntervention, JobStateContinue,
}

func (j JobState) String() string { return string(j) }

func (j *JobState) UnmarshalJSON(data []byte) (err error) {
	*j, err = decodeEnum(data, "JobState", jobStates)
	return err
}

// TaskState maps the job state onto the task state machine.
func (j JobState) TaskState() TaskState {
	switch j {
	case JobStateUserIntervention:
		return TaskStateSuspended
	case JobStateContinue:
		return TaskStateRunning
	}
	return TaskState(j)
}

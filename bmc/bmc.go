// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

// Vendor selects the backend serving a BMC.
type Vendor string

const (
	VendorStandard    Vendor = "Standard"
	VendorDell        Vendor = "Dell"
	VendorLenovo      Vendor = "Lenovo"
	VendorNvidia      Vendor = "Nvidia"
	VendorNvidiaGB200 Vendor = "NvidiaGB200"
)

var vendors = []Vendor{VendorStandard, VendorDell, VendorLenovo, VendorNvidia, VendorNvidiaGB200}

func (v Vendor) String() string { return string(v) }

// Vendors lists every backend in a stable order.
func Vendors() []Vendor {
	return append([]Vendor(nil), vendors...)
}

// ParseVendor parses the name of a backend, ignoring case.
func ParseVendor(s string) (Vendor, error) {
	for _, v := range vendors {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown vendor %q", s)
}

// Boot is a boot device class.
type Boot string

const (
	BootPxe      Boot = "Pxe"
	BootHardDisk Boot = "HardDisk"
	BootUefiHTTP Boot = "UefiHttp"
)

var boots = []Boot{BootPxe, BootHardDisk, BootUefiHTTP}

func (b Boot) String() string { return string(b) }

// ParseBoot parses a boot device class, ignoring case.
func ParseBoot(s string) (Boot, error) {
	for _, b := range boots {
		if strings.EqualFold(s, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown boot target %q", s)
}

// overrideTarget is the BootSourceOverrideTarget used for a one time boot.
func (b Boot) overrideTarget() (schema.BootSourceOverrideTarget, error) {
	switch b {
	case BootPxe:
		return schema.BootSourcePxe, nil
	case BootHardDisk:
		return schema.BootSourceHdd, nil
	case BootUefiHTTP:
		return schema.BootSourceUefiHTTP, nil
	}
	return "", common.NotSupported("boot target " + string(b))
}

// StatusState is the aggregated state of a multi step setting.
type StatusState string

const (
	StatusEnabled  StatusState = "Enabled"
	StatusPartial  StatusState = "Partial"
	StatusDisabled StatusState = "Disabled"
)

// Status reports whether a composite setting such as lockdown or the serial
// console is applied. Message lists the individual parts and is not meant to
// be parsed.
type Status struct {
	State   StatusState
	Message string
}

func (s *Status) IsFullyEnabled() bool     { return s.State == StatusEnabled }
func (s *Status) IsFullyDisabled() bool    { return s.State == StatusDisabled }
func (s *Status) IsPartiallyEnabled() bool { return s.State == StatusPartial }

func (s *Status) String() string {
	return fmt.Sprintf("%s (%s)", s.State, s.Message)
}

// statusPart is one sub setting of a composite Status.
type statusPart struct {
	name    string
	enabled bool
	value   string
}

// newStatus aggregates the parts: all enabled is Enabled, none is Disabled.
func newStatus(parts ...statusPart) *Status {
	var enabled int
	msg := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.enabled {
			enabled++
		}
		msg = append(msg, fmt.Sprintf("%s=%s", p.name, p.value))
	}
	state := StatusPartial
	switch enabled {
	case len(parts):
		state = StatusEnabled
	case 0:
		state = StatusDisabled
	}
	return &Status{State: state, Message: strings.Join(msg, ", ")}
}

// MachineSetupDiff is a single setting that does not have its provisioning value yet.
type MachineSetupDiff struct {
	Key      string
	Expected string
	Actual   string
}

// MachineSetupStatus is the result of comparing a host against its provisioning settings.
type MachineSetupStatus struct {
	IsDone bool
	Diffs  []MachineSetupDiff
}

func newMachineSetupStatus(diffs []MachineSetupDiff) *MachineSetupStatus {
	return &MachineSetupStatus{IsDone: len(diffs) == 0, Diffs: diffs}
}

// GPUSensors are the sensors of one HGX GPU chassis.
type GPUSensors struct {
	GPUID   string
	Sensors []schema.Sensor
}

// BMC is the capability surface of a Redfish BMC. Every backend implements the
// full interface; operations a platform does not offer return a
// common.NotSupportedError.
type BMC interface {
	// Vendor returns the backend serving this BMC.
	Vendor() Vendor

	CreateUser(ctx context.Context, username, password string, role schema.RoleID) error
	ChangeUsername(ctx context.Context, oldName, newName string) error
	// ChangePassword changes the password of the account with the given user name.
	ChangePassword(ctx context.Context, user, newPassword string) error
	ChangePasswordByID(ctx context.Context, accountID, newPassword string) error
	// GetAccounts returns every account sorted by id.
	GetAccounts(ctx context.Context) ([]schema.ManagerAccount, error)
	// SetMachinePasswordPolicy makes sure machine accounts never lock or expire.
	SetMachinePasswordPolicy(ctx context.Context) error

	GetFirmware(ctx context.Context, id string) (*schema.SoftwareInventory, error)
	GetSoftwareInventories(ctx context.Context) ([]string, error)
	GetUpdateService(ctx context.Context) (*schema.UpdateService, error)
	// UpdateFirmware pushes the image to the HttpPushUri of the UpdateService.
	UpdateFirmware(ctx context.Context, file *os.File) (*schema.Task, error)
	// UpdateFirmwareMultipart pushes the image at path to the MultipartHttpPushUri
	// and returns the id of the task tracking the update.
	UpdateFirmwareMultipart(ctx context.Context, path string, reboot bool, timeout time.Duration, component schema.ComponentType) (string, error)
	UpdateFirmwareSimpleUpdate(ctx context.Context, imageURI string, targets []string, protocol schema.TransferProtocolType) (*schema.Task, error)

	GetTasks(ctx context.Context) ([]string, error)
	GetTask(ctx context.Context, id string) (*schema.Task, error)
	GetJobState(ctx context.Context, id string) (schema.JobState, error)

	GetPowerState(ctx context.Context) (schema.PowerState, error)
	// Power requests the power action. The BMC does not report completion.
	Power(ctx context.Context, action schema.PowerAction) error
	BMCReset(ctx context.Context) error
	ChassisReset(ctx context.Context, chassisID string, action schema.PowerAction) error
	GetPowerMetrics(ctx context.Context) (*schema.Power, error)
	GetThermalMetrics(ctx context.Context) (*schema.Thermal, error)
	GetGPUSensors(ctx context.Context) ([]GPUSensors, error)
	GetSystemEventLog(ctx context.Context) ([]schema.LogEntry, error)

	// MachineSetup applies the provisioning settings. bootInterfaceMAC may be
	// empty, in which case the boot order is left alone.
	MachineSetup(ctx context.Context, bootInterfaceMAC string) error
	MachineSetupStatus(ctx context.Context) (*MachineSetupStatus, error)
	// Lockdown restricts the host facing management interfaces for tenant use.
	// Disabled reverts it. Applying the same target twice is a no-op.
	Lockdown(ctx context.Context, target schema.EnabledDisabled) error
	LockdownStatus(ctx context.Context) (*Status, error)
	LockdownBMC(ctx context.Context, target schema.EnabledDisabled) error
	SetupSerialConsole(ctx context.Context) error
	SerialConsoleStatus(ctx context.Context) (*Status, error)
	EnableIPMIOverLAN(ctx context.Context, target schema.EnabledDisabled) error
	IsIPMIOverLANEnabled(ctx context.Context) (bool, error)
	BMCResetToDefaults(ctx context.Context) error
	EnableRshimBMC(ctx context.Context) error
	ClearNVRAM(ctx context.Context) error

	GetBootOptions(ctx context.Context) ([]string, error)
	GetBootOption(ctx context.Context, id string) (*schema.BootOption, error)
	// BootOnce boots the target on the next reset only.
	BootOnce(ctx context.Context, target Boot) error
	// BootFirst moves the first boot option of the target class to the front
	// of the persistent boot order.
	BootFirst(ctx context.Context, target Boot) error
	ChangeBootOrder(ctx context.Context, order []string) error
	SetBootOrderDPUFirst(ctx context.Context, mac string) error

	ClearTPM(ctx context.Context) error
	GetSecureBoot(ctx context.Context) (*schema.SecureBoot, error)
	EnableSecureBoot(ctx context.Context) error
	DisableSecureBoot(ctx context.Context) error
	AddSecureBootCertificate(ctx context.Context, pem string) (*schema.Task, error)
	// ChangeUEFIPassword sets the UEFI setup password. An empty current
	// password means none is set, an empty new one removes it. Backends that
	// schedule a job for the change return its id.
	ChangeUEFIPassword(ctx context.Context, current, newPassword string) (string, error)
	ClearUEFIPassword(ctx context.Context, current string) (string, error)

	PCIeDevices(ctx context.Context) ([]schema.PCIeDevice, error)
	GetSystem(ctx context.Context) (*schema.ComputerSystem, error)
	GetChassisAll(ctx context.Context) ([]string, error)
	GetChassis(ctx context.Context, id string) (*schema.Chassis, error)
	GetChassisNetworkAdapters(ctx context.Context, chassisID string) ([]string, error)
	GetChassisNetworkAdapter(ctx context.Context, chassisID, id string) (*schema.NetworkAdapter, error)
	GetBaseNetworkAdapters(ctx context.Context, systemID string) ([]string, error)
	GetBaseNetworkAdapter(ctx context.Context, systemID, id string) (*schema.NetworkAdapter, error)
	GetPorts(ctx context.Context, chassisID, adapterID string) ([]string, error)
	GetPort(ctx context.Context, chassisID, adapterID, id string) (*schema.NetworkPort, error)
	GetNetworkDeviceFunctions(ctx context.Context, chassisID string) ([]string, error)
	// GetNetworkDeviceFunction reads a function of the given adapter. An empty
	// adapterID selects the backend default.
	GetNetworkDeviceFunction(ctx context.Context, chassisID, id, adapterID string) (*schema.NetworkDeviceFunction, error)
	GetManagerEthernetInterfaces(ctx context.Context) ([]string, error)
	GetManagerEthernetInterface(ctx context.Context, id string) (*schema.EthernetInterface, error)
	GetSystemEthernetInterfaces(ctx context.Context) ([]string, error)
	GetSystemEthernetInterface(ctx context.Context, id string) (*schema.EthernetInterface, error)
	// GetBaseMACAddress returns the MAC of the first system interface, or an
	// empty string when the system reports none.
	GetBaseMACAddress(ctx context.Context) (string, error)

	// Bios returns the current BIOS attributes. Value types are preserved.
	Bios(ctx context.Context) (map[string]any, error)
	// Pending returns the staged attributes that differ from the current ones.
	Pending(ctx context.Context) (map[string]any, error)
	ClearPending(ctx context.Context) error
	SetBios(ctx context.Context, attributes map[string]any) error

	GetServiceRoot(ctx context.Context) (*schema.ServiceRoot, error)
	GetSystems(ctx context.Context) ([]string, error)
	GetManagers(ctx context.Context) ([]string, error)
	GetManager(ctx context.Context) (*schema.Manager, error)
	GetCollection(ctx context.Context, id string) (*schema.Collection, error)
	GetResource(ctx context.Context, id string) (*schema.RawResource, error)
}

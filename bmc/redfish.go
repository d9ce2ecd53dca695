// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/stmcginnis/gofish/schemas"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
	"github.com/NVIDIA/libredfish/bmc/transport"
)

var _ BMC = (*RedfishBMC)(nil)

const (
	accountServiceURL = "AccountService"
	accountsURL       = "AccountService/Accounts"
	chassisURL        = "Chassis"
	managersURL       = "Managers"
	systemsURL        = "Systems"
	tasksURL          = "TaskService/Tasks"
	jobsURL           = "JobService/Jobs"
	updateServiceURL  = "UpdateService"
	firmwareURL       = "UpdateService/FirmwareInventory"

	gpuChassisPrefix = "HGX_GPU_"
)

// RedfishBMC is the backend for BMCs that follow the DMTF schema. It pins the
// first system and manager of the service. Vendor backends embed it and
// override what their firmware does differently.
type RedfishBMC struct {
	client    transport.Transport
	systemID  string
	managerID string
}

// NewRedfishBMC discovers the system and manager served by the BMC behind t.
func NewRedfishBMC(ctx context.Context, t transport.Transport) (*RedfishBMC, error) {
	r := &RedfishBMC{client: t}
	systems, err := r.GetSystems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get systems: %w", err)
	}
	if len(systems) == 0 {
		return nil, &common.NotFoundError{Resource: "ComputerSystem"}
	}
	managers, err := r.GetManagers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get managers: %w", err)
	}
	if len(managers) == 0 {
		return nil, &common.NotFoundError{Resource: "Manager"}
	}
	r.systemID, r.managerID = systems[0], managers[0]
	logr.FromContextOrDiscard(ctx).V(1).Info("Pinned BMC resources", "SystemID", r.systemID, "ManagerID", r.managerID)
	return r, nil
}

func (r *RedfishBMC) Vendor() Vendor { return VendorStandard }

// SystemID is the id of the pinned ComputerSystem.
func (r *RedfishBMC) SystemID() string { return r.systemID }

// ManagerID is the id of the pinned Manager.
func (r *RedfishBMC) ManagerID() string { return r.managerID }

func (r *RedfishBMC) systemURL() string  { return systemsURL + "/" + r.systemID }
func (r *RedfishBMC) managerURL() string { return managersURL + "/" + r.managerID }

func (r *RedfishBMC) get(ctx context.Context, url string, out any) error {
	_, err := r.client.Get(ctx, url, out)
	return err
}

func (r *RedfishBMC) patch(ctx context.Context, url string, body any) error {
	_, err := r.client.Patch(ctx, url, body)
	return err
}

func (r *RedfishBMC) post(ctx context.Context, url string, body any) (*transport.Response, error) {
	return r.client.Post(ctx, url, body, nil)
}

// members returns the ids of the members of a collection.
func (r *RedfishBMC) members(ctx context.Context, url string) ([]string, error) {
	var c schema.Collection
	if err := r.get(ctx, url, &c); err != nil {
		return nil, err
	}
	return c.IDs(), nil
}

func (r *RedfishBMC) memberURLs(ctx context.Context, url string) ([]string, error) {
	var c schema.Collection
	if err := r.get(ctx, url, &c); err != nil {
		return nil, err
	}
	return c.URLs(), nil
}

// Accounts

func (r *RedfishBMC) CreateUser(ctx context.Context, username, password string, role schema.RoleID) error {
	_, err := r.post(ctx, accountsURL, map[string]any{
		"UserName": username,
		"Password": password,
		"RoleId":   role,
		"Enabled":  true,
	})
	return err
}

func (r *RedfishBMC) ChangeUsername(ctx context.Context, oldName, newName string) error {
	account, err := r.findAccount(ctx, oldName)
	if err != nil {
		return err
	}
	return r.patch(ctx, account.URL(), map[string]any{"UserName": newName})
}

func (r *RedfishBMC) ChangePassword(ctx context.Context, user, newPassword string) error {
	account, err := r.findAccount(ctx, user)
	if err != nil {
		return err
	}
	return r.patch(ctx, account.URL(), map[string]any{"Password": newPassword})
}

func (r *RedfishBMC) ChangePasswordByID(ctx context.Context, accountID, newPassword string) error {
	return r.patch(ctx, accountsURL+"/"+accountID, map[string]any{"Password": newPassword})
}

func (r *RedfishBMC) GetAccounts(ctx context.Context) ([]schema.ManagerAccount, error) {
	urls, err := r.memberURLs(ctx, accountsURL)
	if err != nil {
		return nil, err
	}
	accounts := make([]schema.ManagerAccount, 0, len(urls))
	for _, url := range urls {
		var account schema.ManagerAccount
		if err := r.get(ctx, url, &account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	slices.SortStableFunc(accounts, func(a, b schema.ManagerAccount) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return accounts, nil
}

func (r *RedfishBMC) findAccount(ctx context.Context, username string) (*schema.ManagerAccount, error) {
	accounts, err := r.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].UserName == username {
			return &accounts[i], nil
		}
	}
	return nil, &common.NotFoundError{Resource: fmt.Sprintf("account %q", username)}
}

func (r *RedfishBMC) SetMachinePasswordPolicy(ctx context.Context) error {
	return r.patch(ctx, accountServiceURL, map[string]any{
		// never lock
		"AccountLockoutThreshold": 0,
		// seconds, the smallest value most BMCs accept
		"AccountLockoutDuration": 600,
	})
}

// Firmware

func (r *RedfishBMC) GetFirmware(ctx context.Context, id string) (*schema.SoftwareInventory, error) {
	var fw schema.SoftwareInventory
	if err := r.get(ctx, firmwareURL+"/"+id, &fw); err != nil {
		return nil, err
	}
	return &fw, nil
}

func (r *RedfishBMC) GetSoftwareInventories(ctx context.Context) ([]string, error) {
	return r.members(ctx, firmwareURL)
}

func (r *RedfishBMC) GetUpdateService(ctx context.Context) (*schema.UpdateService, error) {
	var us schema.UpdateService
	if err := r.get(ctx, updateServiceURL, &us); err != nil {
		return nil, err
	}
	return &us, nil
}

func (r *RedfishBMC) UpdateFirmware(ctx context.Context, file *os.File) (*schema.Task, error) {
	us, err := r.GetUpdateService(ctx)
	if err != nil {
		return nil, err
	}
	if us.HTTPPushURI == "" {
		return nil, common.NotSupported("Host BMC does not support HTTP push")
	}
	resp, err := r.client.PostFile(ctx, us.HTTPPushURI, "application/octet-stream", file)
	if err != nil {
		return nil, err
	}
	return r.taskFromResponse(ctx, us.HTTPPushURI, resp)
}

func (r *RedfishBMC) UpdateFirmwareMultipart(ctx context.Context, path string, reboot bool, timeout time.Duration, component schema.ComponentType) (string, error) {
	params := schema.MultipartUpdateParameters{OperationApplyTime: schema.ApplyTimeOnReset}
	if reboot {
		params.OperationApplyTime = schema.ApplyTimeImmediate
	}
	body, err := json.Marshal(params)
	if err != nil {
		return "", &common.InvariantError{Message: fmt.Sprintf("failed to encode update parameters: %v", err)}
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("Pushing firmware", "Path", path, "Component", component, "Reboot", reboot)
	return r.multipartUpdate(ctx, path, body, timeout)
}

// multipartUpdate pushes the image at path with the given UpdateParameters
// part and returns the id of the created task.
func (r *RedfishBMC) multipartUpdate(ctx context.Context, path string, parameters []byte, timeout time.Duration) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &common.FileError{Path: path, Err: err}
	}
	defer file.Close() // nolint: errcheck

	us, err := r.GetUpdateService(ctx)
	if err != nil {
		return "", err
	}
	if us.MultipartHTTPPushURI == "" {
		return "", common.NotSupported("Host BMC does not support HTTP multipart push")
	}
	resp, err := r.client.MultipartUpdate(ctx, transport.MultipartRequest{
		Path:           path,
		File:           file,
		Parameters:     parameters,
		TargetURL:      us.MultipartHTTPPushURI,
		FollowRedirect: true,
		Timeout:        timeout,
	})
	if err != nil {
		return "", err
	}
	return taskID(us.MultipartHTTPPushURI, resp)
}

func (r *RedfishBMC) UpdateFirmwareSimpleUpdate(ctx context.Context, imageURI string, targets []string, protocol schema.TransferProtocolType) (*schema.Task, error) {
	params := schema.SimpleUpdateParameters{
		ImageURI:         imageURI,
		TransferProtocol: protocol,
		Targets:          targets,
	}
	return r.simpleUpdate(ctx, params, nil)
}

// Tasks

func (r *RedfishBMC) GetTasks(ctx context.Context) ([]string, error) {
	return r.members(ctx, tasksURL)
}

func (r *RedfishBMC) GetTask(ctx context.Context, id string) (*schema.Task, error) {
	var task schema.Task
	if err := r.get(ctx, taskURL(id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *RedfishBMC) GetJobState(ctx context.Context, id string) (schema.JobState, error) {
	var job schema.Job
	if err := r.get(ctx, jobsURL+"/"+id, &job); err != nil {
		return "", err
	}
	return job.JobState, nil
}

// taskURL accepts a task id or the @odata.id of a task.
func taskURL(id string) string {
	if strings.Contains(id, "/") {
		return schema.Relative(id)
	}
	return tasksURL + "/" + id
}

// Power

func (r *RedfishBMC) GetPowerState(ctx context.Context) (schema.PowerState, error) {
	system, err := r.GetSystem(ctx)
	if err != nil {
		return "", err
	}
	if system.PowerState == nil {
		return "", &common.NotFoundError{Resource: "PowerState of " + r.systemURL()}
	}
	return *system.PowerState, nil
}

func (r *RedfishBMC) Power(ctx context.Context, action schema.PowerAction) error {
	rt, err := resetType(action)
	if err != nil {
		return err
	}
	_, err = r.post(ctx, r.systemURL()+"/Actions/ComputerSystem.Reset", map[string]any{"ResetType": rt})
	return err
}

func (r *RedfishBMC) BMCReset(ctx context.Context) error {
	_, err := r.post(ctx, r.managerURL()+"/Actions/Manager.Reset", map[string]any{
		"ResetType": schemas.GracefulRestartResetType,
	})
	return err
}

// ChassisReset refuses reset types the chassis does not list in its
// ResetType@Redfish.AllowableValues.
func (r *RedfishBMC) ChassisReset(ctx context.Context, chassisID string, action schema.PowerAction) error {
	rt, err := resetType(action)
	if err != nil {
		return err
	}
	url := chassisURL + "/" + chassisID
	var chassis schemas.Chassis
	if err := r.get(ctx, url, &chassis); err != nil {
		return err
	}
	if len(chassis.SupportedResetTypes) > 0 && !slices.Contains(chassis.SupportedResetTypes, rt) {
		return common.NotSupported(fmt.Sprintf("chassis %s does not support reset type %s", chassisID, rt))
	}
	_, err = r.post(ctx, url+"/Actions/Chassis.Reset", map[string]any{"ResetType": rt})
	return err
}

var resetTypes = map[schema.PowerAction]schemas.ResetType{
	schema.PowerActionOn:               schemas.OnResetType,
	schema.PowerActionForceOff:         schemas.ForceOffResetType,
	schema.PowerActionGracefulShutdown: schemas.GracefulShutdownResetType,
	schema.PowerActionGracefulRestart:  schemas.GracefulRestartResetType,
	schema.PowerActionForceRestart:     schemas.ForceRestartResetType,
	schema.PowerActionNmi:              schemas.NmiResetType,
	schema.PowerActionPushPowerButton:  schemas.PushPowerButtonResetType,
	schema.PowerActionForceOn:          schemas.ForceOnResetType,
	schema.PowerActionPowerCycle:       schemas.PowerCycleResetType,
}

func resetType(action schema.PowerAction) (schemas.ResetType, error) {
	rt, ok := resetTypes[action]
	if !ok {
		return "", common.NotSupported("reset type " + string(action))
	}
	return rt, nil
}

func (r *RedfishBMC) firstChassis(ctx context.Context) (string, error) {
	ids, err := r.GetChassisAll(ctx)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", &common.NotFoundError{Resource: "Chassis"}
	}
	return ids[0], nil
}

func (r *RedfishBMC) GetPowerMetrics(ctx context.Context) (*schema.Power, error) {
	id, err := r.firstChassis(ctx)
	if err != nil {
		return nil, err
	}
	var power schema.Power
	if err := r.get(ctx, chassisURL+"/"+id+"/Power", &power); err != nil {
		return nil, err
	}
	return &power, nil
}

func (r *RedfishBMC) GetThermalMetrics(ctx context.Context) (*schema.Thermal, error) {
	id, err := r.firstChassis(ctx)
	if err != nil {
		return nil, err
	}
	var thermal schema.Thermal
	if err := r.get(ctx, chassisURL+"/"+id+"/Thermal", &thermal); err != nil {
		return nil, err
	}
	return &thermal, nil
}

func (r *RedfishBMC) GetGPUSensors(ctx context.Context) ([]GPUSensors, error) {
	ids, err := r.GetChassisAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []GPUSensors
	for _, id := range ids {
		if !strings.HasPrefix(id, gpuChassisPrefix) {
			continue
		}
		urls, err := r.memberURLs(ctx, chassisURL+"/"+id+"/Sensors")
		if err != nil {
			return nil, err
		}
		gpu := GPUSensors{GPUID: id, Sensors: make([]schema.Sensor, 0, len(urls))}
		for _, url := range urls {
			var sensor schema.Sensor
			if err := r.get(ctx, url, &sensor); err != nil {
				return nil, err
			}
			gpu.Sensors = append(gpu.Sensors, sensor)
		}
		out = append(out, gpu)
	}
	return out, nil
}

func (r *RedfishBMC) GetSystemEventLog(ctx context.Context) ([]schema.LogEntry, error) {
	return r.eventLog(ctx, r.managerURL()+"/LogServices/SEL/Entries")
}

func (r *RedfishBMC) eventLog(ctx context.Context, url string) ([]schema.LogEntry, error) {
	var entries schema.LogEntryCollection
	if err := r.get(ctx, url, &entries); err != nil {
		return nil, err
	}
	return entries.Members, nil
}

// Setup

func (r *RedfishBMC) MachineSetup(ctx context.Context, bootInterfaceMAC string) error {
	if err := r.DisableSecureBoot(ctx); err != nil {
		return err
	}
	if bootInterfaceMAC == "" {
		return nil
	}
	return r.SetBootOrderDPUFirst(ctx, bootInterfaceMAC)
}

func (r *RedfishBMC) MachineSetupStatus(ctx context.Context) (*MachineSetupStatus, error) {
	diffs, err := r.secureBootDiffs(ctx)
	if err != nil {
		return nil, err
	}
	return newMachineSetupStatus(diffs), nil
}

// secureBootDiffs reports secure boot as a diff while it is enabled.
func (r *RedfishBMC) secureBootDiffs(ctx context.Context) ([]MachineSetupDiff, error) {
	sb, err := r.GetSecureBoot(ctx)
	if err != nil {
		return nil, err
	}
	if !sb.Enabled() {
		return nil, nil
	}
	return []MachineSetupDiff{{Key: "SecureBoot", Expected: "false", Actual: "true"}}, nil
}

// Lockdown enables secure boot and turns IPMI over LAN off. Only the parts
// that differ from the target are written.
func (r *RedfishBMC) Lockdown(ctx context.Context, target schema.EnabledDisabled) error {
	locked := target.IsEnabled()
	sb, err := r.GetSecureBoot(ctx)
	if err != nil {
		return err
	}
	if sb.Enabled() != locked {
		if err := r.setSecureBoot(ctx, locked); err != nil {
			return err
		}
	}
	ipmi, err := r.IsIPMIOverLANEnabled(ctx)
	if err != nil {
		return err
	}
	if ipmi == locked {
		return r.setIPMIOverLAN(ctx, !locked)
	}
	return nil
}

func (r *RedfishBMC) LockdownStatus(ctx context.Context) (*Status, error) {
	sb, err := r.GetSecureBoot(ctx)
	if err != nil {
		return nil, err
	}
	ipmi, err := r.IsIPMIOverLANEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return newStatus(
		statusPart{name: "SecureBoot", enabled: sb.Enabled(), value: fmt.Sprint(sb.Enabled())},
		statusPart{name: "IPMIOverLAN", enabled: !ipmi, value: fmt.Sprint(ipmi)},
	), nil
}

func (r *RedfishBMC) LockdownBMC(context.Context, schema.EnabledDisabled) error {
	return common.NotSupported("BMC lockdown is not available on standard Redfish")
}

func (r *RedfishBMC) SetupSerialConsole(ctx context.Context) error {
	manager, err := r.GetManager(ctx)
	if err != nil {
		return err
	}
	body := map[string]any{}
	if !consoleEnabled(manager.SerialConsole) {
		body["SerialConsole"] = map[string]any{"ServiceEnabled": true}
	}
	if !consoleEnabled(manager.CommandShell) {
		body["CommandShell"] = map[string]any{"ServiceEnabled": true}
	}
	if len(body) == 0 {
		return nil
	}
	return r.patch(ctx, r.managerURL(), body)
}

func (r *RedfishBMC) SerialConsoleStatus(ctx context.Context) (*Status, error) {
	manager, err := r.GetManager(ctx)
	if err != nil {
		return nil, err
	}
	serial, shell := consoleEnabled(manager.SerialConsole), consoleEnabled(manager.CommandShell)
	return newStatus(
		statusPart{name: "SerialConsole", enabled: serial, value: fmt.Sprint(serial)},
		statusPart{name: "CommandShell", enabled: shell, value: fmt.Sprint(shell)},
	), nil
}

func consoleEnabled(c *schema.ConsoleService) bool {
	return c != nil && c.ServiceEnabled != nil && *c.ServiceEnabled
}

func (r *RedfishBMC) networkProtocolURL() string { return r.managerURL() + "/NetworkProtocol" }

func (r *RedfishBMC) EnableIPMIOverLAN(ctx context.Context, target schema.EnabledDisabled) error {
	return r.setIPMIOverLAN(ctx, target.IsEnabled())
}

func (r *RedfishBMC) setIPMIOverLAN(ctx context.Context, enabled bool) error {
	return r.patch(ctx, r.networkProtocolURL(), map[string]any{
		"IPMI": map[string]any{"ProtocolEnabled": enabled},
	})
}

func (r *RedfishBMC) IsIPMIOverLANEnabled(ctx context.Context) (bool, error) {
	var np schema.ManagerNetworkProtocol
	if err := r.get(ctx, r.networkProtocolURL(), &np); err != nil {
		return false, err
	}
	return np.IPMI.Enabled(), nil
}

func (r *RedfishBMC) BMCResetToDefaults(ctx context.Context) error {
	_, err := r.post(ctx, r.managerURL()+"/Actions/Manager.ResetToDefaults", map[string]any{"ResetType": "ResetAll"})
	return err
}

func (r *RedfishBMC) EnableRshimBMC(context.Context) error {
	return common.NotSupported("rshim is only available on NVIDIA BMCs")
}

func (r *RedfishBMC) ClearNVRAM(context.Context) error {
	return common.NotSupported("clearing NVRAM has no standard Redfish action")
}

// Boot

func (r *RedfishBMC) bootOptionsURL() string { return r.systemURL() + "/BootOptions" }

func (r *RedfishBMC) GetBootOptions(ctx context.Context) ([]string, error) {
	return r.members(ctx, r.bootOptionsURL())
}

func (r *RedfishBMC) GetBootOption(ctx context.Context, id string) (*schema.BootOption, error) {
	var option schema.BootOption
	if err := r.get(ctx, r.bootOptionsURL()+"/"+id, &option); err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *RedfishBMC) BootOnce(ctx context.Context, target Boot) error {
	return r.setBootOverride(ctx, r.systemURL(), target)
}

func (r *RedfishBMC) BootFirst(ctx context.Context, target Boot) error {
	match, err := standardBootMatch(target)
	if err != nil {
		return err
	}
	order, system, err := r.bootOrderWithFirst(ctx, match)
	if err != nil {
		return err
	}
	return r.patchBootOrder(ctx, system.SettingsURL(), order, nil)
}

func standardBootMatch(target Boot) (bootOptionMatch, error) {
	switch target {
	case BootPxe:
		return displayNamePrefix(oem.StandardPXEv4), nil
	case BootHardDisk:
		return devicePathPrefix(oem.StandardHardDisk), nil
	case BootUefiHTTP:
		return displayNamePrefix(oem.StandardHTTPv4), nil
	}
	return bootOptionMatch{}, common.NotSupported("boot target " + string(target))
}

func (r *RedfishBMC) ChangeBootOrder(ctx context.Context, order []string) error {
	if err := checkBootOrder(order); err != nil {
		return err
	}
	system, err := r.GetSystem(ctx)
	if err != nil {
		return err
	}
	return r.patchBootOrder(ctx, system.SettingsURL(), order, nil)
}

func (r *RedfishBMC) SetBootOrderDPUFirst(ctx context.Context, mac string) error {
	if mac == "" {
		return common.NotSupported("DPU first boot order needs the MAC address of the boot interface")
	}
	order, system, err := r.bootOrderWithFirst(ctx, dpuBootMatch(mac))
	if err != nil {
		return err
	}
	return r.patchBootOrder(ctx, system.SettingsURL(), order, nil)
}

// Security

func (r *RedfishBMC) ClearTPM(ctx context.Context) error {
	return r.setBiosAttributes(ctx, oem.Attributes{"TpmOperation": "Clear"}.Body())
}

func (r *RedfishBMC) secureBootURL() string { return r.systemURL() + "/SecureBoot" }

func (r *RedfishBMC) GetSecureBoot(ctx context.Context) (*schema.SecureBoot, error) {
	var sb schema.SecureBoot
	if err := r.get(ctx, r.secureBootURL(), &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}

func (r *RedfishBMC) EnableSecureBoot(ctx context.Context) error {
	return r.setSecureBoot(ctx, true)
}

func (r *RedfishBMC) DisableSecureBoot(ctx context.Context) error {
	return r.setSecureBoot(ctx, false)
}

func (r *RedfishBMC) setSecureBoot(ctx context.Context, enabled bool) error {
	return r.patch(ctx, r.secureBootURL(), map[string]any{"SecureBootEnable": enabled})
}

func (r *RedfishBMC) AddSecureBootCertificate(ctx context.Context, pem string) (*schema.Task, error) {
	url := r.secureBootURL() + "/SecureBootDatabases/db/Certificates"
	resp, err := r.post(ctx, url, map[string]any{
		"CertificateString": pem,
		"CertificateType":   "PEM",
	})
	if err != nil {
		return nil, err
	}
	return r.taskFromResponse(ctx, url, resp)
}

func (r *RedfishBMC) ChangeUEFIPassword(ctx context.Context, current, newPassword string) (string, error) {
	return r.ChangeBIOSPassword(ctx, oem.StandardUEFIPasswordName, current, newPassword)
}

func (r *RedfishBMC) ClearUEFIPassword(ctx context.Context, current string) (string, error) {
	return r.ChangeUEFIPassword(ctx, current, "")
}

// ChangeBIOSPassword invokes Bios.ChangePassword for the named password. It
// returns the id of the task when the BMC creates one.
func (r *RedfishBMC) ChangeBIOSPassword(ctx context.Context, name, current, newPassword string) (string, error) {
	url := r.systemURL() + "/Bios/Actions/Bios.ChangePassword"
	resp, err := r.post(ctx, url, map[string]any{
		"PasswordName": name,
		"OldPassword":  current,
		"NewPassword":  newPassword,
	})
	if err != nil {
		return "", err
	}
	if loc := resp.Location(); loc != "" {
		return schema.ODataID{ODataID: loc}.ID(), nil
	}
	return "", nil
}

// Inventory

func (r *RedfishBMC) PCIeDevices(ctx context.Context) ([]schema.PCIeDevice, error) {
	system, err := r.GetSystem(ctx)
	if err != nil {
		return nil, err
	}
	devices := make([]schema.PCIeDevice, 0, len(system.PCIeDevices))
	for _, link := range system.PCIeDevices {
		var device schema.PCIeDevice
		if err := r.get(ctx, link.Relative(), &device); err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, nil
}

func (r *RedfishBMC) GetSystem(ctx context.Context) (*schema.ComputerSystem, error) {
	var system schema.ComputerSystem
	if err := r.get(ctx, r.systemURL(), &system); err != nil {
		return nil, err
	}
	return &system, nil
}

func (r *RedfishBMC) GetChassisAll(ctx context.Context) ([]string, error) {
	return r.members(ctx, chassisURL)
}

func (r *RedfishBMC) GetChassis(ctx context.Context, id string) (*schema.Chassis, error) {
	var chassis schema.Chassis
	if err := r.get(ctx, chassisURL+"/"+id, &chassis); err != nil {
		return nil, err
	}
	return &chassis, nil
}

func adaptersURL(chassisID string) string {
	return chassisURL + "/" + chassisID + "/NetworkAdapters"
}

func (r *RedfishBMC) GetChassisNetworkAdapters(ctx context.Context, chassisID string) ([]string, error) {
	return r.members(ctx, adaptersURL(chassisID))
}

func (r *RedfishBMC) GetChassisNetworkAdapter(ctx context.Context, chassisID, id string) (*schema.NetworkAdapter, error) {
	return r.networkAdapter(ctx, adaptersURL(chassisID)+"/"+id)
}

func (r *RedfishBMC) GetBaseNetworkAdapters(ctx context.Context, systemID string) ([]string, error) {
	return r.members(ctx, systemsURL+"/"+systemID+"/NetworkInterfaces")
}

func (r *RedfishBMC) GetBaseNetworkAdapter(ctx context.Context, systemID, id string) (*schema.NetworkAdapter, error) {
	return r.networkAdapter(ctx, systemsURL+"/"+systemID+"/NetworkInterfaces/"+id)
}

func (r *RedfishBMC) networkAdapter(ctx context.Context, url string) (*schema.NetworkAdapter, error) {
	var adapter schema.NetworkAdapter
	if err := r.get(ctx, url, &adapter); err != nil {
		return nil, err
	}
	return &adapter, nil
}

func (r *RedfishBMC) GetPorts(ctx context.Context, chassisID, adapterID string) ([]string, error) {
	return r.members(ctx, adaptersURL(chassisID)+"/"+adapterID+"/Ports")
}

func (r *RedfishBMC) GetPort(ctx context.Context, chassisID, adapterID, id string) (*schema.NetworkPort, error) {
	var port schema.NetworkPort
	if err := r.get(ctx, adaptersURL(chassisID)+"/"+adapterID+"/Ports/"+id, &port); err != nil {
		return nil, err
	}
	return &port, nil
}

// defaultAdapter is the first network adapter of the chassis.
func (r *RedfishBMC) defaultAdapter(ctx context.Context, chassisID string) (string, error) {
	ids, err := r.GetChassisNetworkAdapters(ctx, chassisID)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", &common.NotFoundError{Resource: "NetworkAdapter of chassis " + chassisID}
	}
	return ids[0], nil
}

func (r *RedfishBMC) GetNetworkDeviceFunctions(ctx context.Context, chassisID string) ([]string, error) {
	adapter, err := r.defaultAdapter(ctx, chassisID)
	if err != nil {
		return nil, err
	}
	return r.networkDeviceFunctions(ctx, chassisID, adapter)
}

func (r *RedfishBMC) networkDeviceFunctions(ctx context.Context, chassisID, adapterID string) ([]string, error) {
	return r.members(ctx, adaptersURL(chassisID)+"/"+adapterID+"/NetworkDeviceFunctions")
}

func (r *RedfishBMC) GetNetworkDeviceFunction(ctx context.Context, chassisID, id, adapterID string) (*schema.NetworkDeviceFunction, error) {
	if adapterID == "" {
		var err error
		if adapterID, err = r.defaultAdapter(ctx, chassisID); err != nil {
			return nil, err
		}
	}
	return r.networkDeviceFunction(ctx, chassisID, id, adapterID)
}

func (r *RedfishBMC) networkDeviceFunction(ctx context.Context, chassisID, id, adapterID string) (*schema.NetworkDeviceFunction, error) {
	var fn schema.NetworkDeviceFunction
	if err := r.get(ctx, adaptersURL(chassisID)+"/"+adapterID+"/NetworkDeviceFunctions/"+id, &fn); err != nil {
		return nil, err
	}
	return &fn, nil
}

func (r *RedfishBMC) GetManagerEthernetInterfaces(ctx context.Context) ([]string, error) {
	return r.members(ctx, r.managerURL()+"/EthernetInterfaces")
}

func (r *RedfishBMC) GetManagerEthernetInterface(ctx context.Context, id string) (*schema.EthernetInterface, error) {
	return r.ethernetInterface(ctx, r.managerURL()+"/EthernetInterfaces/"+id)
}

func (r *RedfishBMC) GetSystemEthernetInterfaces(ctx context.Context) ([]string, error) {
	return r.members(ctx, r.systemURL()+"/EthernetInterfaces")
}

func (r *RedfishBMC) GetSystemEthernetInterface(ctx context.Context, id string) (*schema.EthernetInterface, error) {
	return r.ethernetInterface(ctx, r.systemURL()+"/EthernetInterfaces/"+id)
}

func (r *RedfishBMC) ethernetInterface(ctx context.Context, url string) (*schema.EthernetInterface, error) {
	var iface schema.EthernetInterface
	if err := r.get(ctx, url, &iface); err != nil {
		return nil, err
	}
	return &iface, nil
}

func (r *RedfishBMC) GetBaseMACAddress(ctx context.Context) (string, error) {
	ids, err := r.GetSystemEthernetInterfaces(ctx)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	iface, err := r.GetSystemEthernetInterface(ctx, ids[0])
	if err != nil {
		return "", err
	}
	if iface.MACAddress != "" {
		return iface.MACAddress, nil
	}
	return iface.PermanentMACAddress, nil
}

// BIOS

func (r *RedfishBMC) getBios(ctx context.Context) (*schema.Bios, error) {
	var bios schema.Bios
	if err := r.get(ctx, r.systemURL()+"/Bios", &bios); err != nil {
		return nil, err
	}
	return &bios, nil
}

func (r *RedfishBMC) Bios(ctx context.Context) (map[string]any, error) {
	bios, err := r.getBios(ctx)
	if err != nil {
		return nil, err
	}
	return bios.Attributes, nil
}

func (r *RedfishBMC) Pending(ctx context.Context) (map[string]any, error) {
	bios, err := r.getBios(ctx)
	if err != nil {
		return nil, err
	}
	var staged schema.Bios
	if err := r.get(ctx, bios.SettingsURL(), &staged); err != nil {
		return nil, err
	}
	return common.Diff(bios.Attributes, staged.Attributes), nil
}

// ClearPending stages the current value of every pending attribute.
func (r *RedfishBMC) ClearPending(ctx context.Context) error {
	bios, err := r.getBios(ctx)
	if err != nil {
		return err
	}
	var staged schema.Bios
	if err := r.get(ctx, bios.SettingsURL(), &staged); err != nil {
		return err
	}
	pending := common.Diff(bios.Attributes, staged.Attributes)
	if len(pending) == 0 {
		return nil
	}
	reset := oem.Attributes{}
	for key := range pending {
		reset[key] = bios.Attributes[key]
	}
	return r.patch(ctx, bios.SettingsURL(), reset.Body())
}

// SetBios stages the attributes after checking them against the current set.
func (r *RedfishBMC) SetBios(ctx context.Context, attributes map[string]any) error {
	bios, err := r.getBios(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckAttributeTypes(bios.Attributes, attributes); err != nil {
		return &common.NotSupportedError{Reason: err.Error()}
	}
	return r.patch(ctx, bios.SettingsURL(), oem.Attributes(attributes).Body())
}

// Raw

func (r *RedfishBMC) GetServiceRoot(ctx context.Context) (*schema.ServiceRoot, error) {
	var root schema.ServiceRoot
	if err := r.get(ctx, "", &root); err != nil {
		return nil, err
	}
	return &root, nil
}

func (r *RedfishBMC) GetSystems(ctx context.Context) ([]string, error) {
	return r.members(ctx, systemsURL)
}

func (r *RedfishBMC) GetManagers(ctx context.Context) ([]string, error) {
	return r.members(ctx, managersURL)
}

func (r *RedfishBMC) GetManager(ctx context.Context) (*schema.Manager, error) {
	var manager schema.Manager
	if err := r.get(ctx, r.managerURL(), &manager); err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *RedfishBMC) GetCollection(ctx context.Context, id string) (*schema.Collection, error) {
	var c schema.Collection
	if err := r.get(ctx, schema.Relative(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RedfishBMC) GetResource(ctx context.Context, id string) (*schema.RawResource, error) {
	var res schema.RawResource
	if err := r.get(ctx, schema.Relative(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

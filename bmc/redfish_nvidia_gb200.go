// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/libredfish/bmc/common"
	"github.com/NVIDIA/libredfish/bmc/oem"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

var _ BMC = (*NvidiaGB200RedfishBMC)(nil)

const (
	gb200PDBChassis  = "PDB_0"
	gb200FanChassis  = "Chassis_0"
	gb200BMCChassis  = "BMC"
	gb200HSC0Power   = "HSC_0_Pwr"
	gb200HSC0Current = "HSC_0_Cur"
	gb200HSC1Power   = "HSC_1_Pwr"
	gb200HSC1Current = "HSC_1_Cur"
)

// NvidiaGB200RedfishBMC is the implementation for GB200 (Bianca) trays. The
// tray is a federation of chassis, each carrying part of the sensors.
type NvidiaGB200RedfishBMC struct {
	*RedfishBMC
}

func (r *NvidiaGB200RedfishBMC) Vendor() Vendor { return VendorNvidiaGB200 }

func (r *NvidiaGB200RedfishBMC) sensors(ctx context.Context, chassisID string) ([]schema.ODataID, error) {
	var c schema.Collection
	if err := r.get(ctx, chassisURL+"/"+chassisID+"/Sensors", &c); err != nil {
		return nil, err
	}
	return c.Members, nil
}

func (r *NvidiaGB200RedfishBMC) sensor(ctx context.Context, link schema.ODataID) (*schema.Sensor, error) {
	var s schema.Sensor
	if err := r.get(ctx, link.Relative(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPowerMetrics synthesizes one power supply per hot swap controller of
// PDB_0 and collects the voltage sensors of every chassis.
func (r *NvidiaGB200RedfishBMC) GetPowerMetrics(ctx context.Context) (*schema.Power, error) {
	pdb, err := r.GetChassis(ctx, gb200PDBChassis)
	if err != nil {
		return nil, err
	}
	template := schema.PowerSupply{
		Manufacturer: pdb.Manufacturer,
		Model:        pdb.Model,
		SerialNumber: pdb.SerialNumber,
		PartNumber:   pdb.PartNumber,
		Status:       pdb.Status,
	}
	hsc0, hsc1 := template, template
	hsc0.MemberID, hsc0.Name = "0", "HSC_0"
	hsc1.MemberID, hsc1.Name = "1", "HSC_1"

	ids, err := r.GetChassisAll(ctx)
	if err != nil {
		return nil, err
	}
	power := &schema.Power{
		Resource: schema.Resource{ID: "Power", Name: "Power"},
		Voltages: []schema.Voltage{},
	}
	for _, id := range ids {
		chassis, err := r.GetChassis(ctx, id)
		if err != nil {
			return nil, err
		}
		if chassis.Sensors == nil {
			continue
		}
		links, err := r.sensors(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			if id == gb200PDBChassis {
				if err := r.fillHSC(ctx, link, &hsc0, &hsc1); err != nil {
					return nil, err
				}
			}
			if !schema.IsVoltage(link.ODataID) {
				continue
			}
			s, err := r.sensor(ctx, link)
			if err != nil {
				return nil, err
			}
			power.Voltages = append(power.Voltages, schema.VoltageFromSensor(s))
		}
	}
	power.PowerSupplies = []schema.PowerSupply{hsc0, hsc1}
	logr.FromContextOrDiscard(ctx).V(1).Info("Assembled power metrics",
		"HSC0Watts", ptr.Deref(hsc0.PowerOutputWatts, 0), "HSC1Watts", ptr.Deref(hsc1.PowerOutputWatts, 0),
		"Voltages", len(power.Voltages))
	return power, nil
}

func (r *NvidiaGB200RedfishBMC) fillHSC(ctx context.Context, link schema.ODataID, hsc0, hsc1 *schema.PowerSupply) error {
	var psu *schema.PowerSupply
	watts := false
	switch id := link.ODataID; {
	case strings.Contains(id, gb200HSC0Power):
		psu, watts = hsc0, true
	case strings.Contains(id, gb200HSC0Current):
		psu = hsc0
	case strings.Contains(id, gb200HSC1Power):
		psu, watts = hsc1, true
	case strings.Contains(id, gb200HSC1Current):
		psu = hsc1
	default:
		return nil
	}
	s, err := r.sensor(ctx, link)
	if err != nil {
		return err
	}
	if watts {
		psu.LastPowerOutputWatts = s.Reading
		psu.PowerOutputWatts = s.Reading
		psu.PowerCapacityWatts = s.ReadingRangeMax
	} else {
		psu.PowerOutputAmps = s.Reading
	}
	return nil
}

// GetThermalMetrics stitches temperatures, leak detectors and the fans of
// Chassis_0 from all chassis.
func (r *NvidiaGB200RedfishBMC) GetThermalMetrics(ctx context.Context) (*schema.Thermal, error) {
	ids, err := r.GetChassisAll(ctx)
	if err != nil {
		return nil, err
	}
	thermal := &schema.Thermal{
		Resource:      schema.Resource{ID: "Thermal", Name: "Thermal"},
		Temperatures:  []schema.Temperature{},
		Fans:          []schema.Fan{},
		LeakDetectors: []schema.LeakDetector{},
	}
	for _, id := range ids {
		chassis, err := r.GetChassis(ctx, id)
		if err != nil {
			return nil, err
		}
		if chassis.ThermalSubsystem != nil {
			if err := r.thermalSubsystem(ctx, id, thermal); err != nil {
				return nil, err
			}
		}
		// Chassis_0 carries the fans under Sensors even when it does not link the collection.
		linked := chassis.Sensors != nil
		fans := id == gb200FanChassis
		if !linked && !fans {
			continue
		}
		links, err := r.sensors(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			isTemp := linked && schema.IsTemperature(link.ODataID)
			isFan := fans && schema.IsFan(link.ODataID)
			if !isTemp && !isFan {
				continue
			}
			s, err := r.sensor(ctx, link)
			if err != nil {
				return nil, err
			}
			if isTemp {
				thermal.Temperatures = append(thermal.Temperatures, schema.TemperatureFromSensor(s))
			}
			if isFan {
				thermal.Fans = append(thermal.Fans, schema.FanFromSensor(s))
			}
		}
	}
	return thermal, nil
}

func (r *NvidiaGB200RedfishBMC) thermalSubsystem(ctx context.Context, chassisID string, thermal *schema.Thermal) error {
	base := chassisURL + "/" + chassisID + "/ThermalSubsystem"
	var metrics schema.ThermalMetrics
	if err := r.get(ctx, base+"/ThermalMetrics", &metrics); err != nil {
		return err
	}
	for _, t := range metrics.TemperatureReadingsCelsius {
		thermal.Temperatures = append(thermal.Temperatures, schema.TemperatureFromExcerpt(t))
	}
	urls, err := r.memberURLs(ctx, base+"/LeakDetection/LeakDetectors")
	if err != nil {
		return err
	}
	for _, url := range urls {
		var detector schema.LeakDetector
		if err := r.get(ctx, url, &detector); err != nil {
			return err
		}
		thermal.LeakDetectors = append(thermal.LeakDetectors, detector)
	}
	return nil
}

func (r *NvidiaGB200RedfishBMC) GetGPUSensors(context.Context) ([]GPUSensors, error) {
	return nil, common.NotSupported("GB200 has no sensors under Chassis/HGX_GPU_#/Sensors/")
}

func (r *NvidiaGB200RedfishBMC) GetSystemEventLog(ctx context.Context) ([]schema.LogEntry, error) {
	return r.eventLog(ctx, r.systemURL()+"/LogServices/SEL/Entries")
}

// PCIeDevices lists the enabled devices of every chassis except the BMC,
// sorted by manufacturer. Chassis whose device collection cannot be read are
// skipped.
func (r *NvidiaGB200RedfishBMC) PCIeDevices(ctx context.Context) ([]schema.PCIeDevice, error) {
	log := logr.FromContextOrDiscard(ctx)
	ids, err := r.GetChassisAll(ctx)
	if err != nil {
		return nil, err
	}
	var devices []schema.PCIeDevice
	for _, id := range ids {
		if strings.Contains(id, gb200BMCChassis) {
			continue
		}
		chassis, err := r.GetChassis(ctx, id)
		if err != nil {
			return nil, err
		}
		if chassis.PCIeDevices == nil {
			continue
		}
		urls, err := r.memberURLs(ctx, chassis.PCIeDevices.Relative())
		if err != nil {
			log.V(1).Info("Skipping chassis PCIe devices", "Chassis", id, "Error", err.Error())
			continue
		}
		for _, url := range urls {
			var device schema.PCIeDevice
			if err := r.get(ctx, url, &device); err != nil {
				return nil, err
			}
			if !device.Status.IsEnabled() {
				continue
			}
			devices = append(devices, device)
		}
	}
	slices.SortStableFunc(devices, func(a, b schema.PCIeDevice) int {
		return cmp.Compare(a.Manufacturer, b.Manufacturer)
	})
	return devices, nil
}

func (r *NvidiaGB200RedfishBMC) MachineSetup(ctx context.Context, bootInterfaceMAC string) error {
	if err := r.DisableSecureBoot(ctx); err != nil {
		return err
	}
	return r.SetBootOrderDPUFirst(ctx, bootInterfaceMAC)
}

func (r *NvidiaGB200RedfishBMC) MachineSetupStatus(ctx context.Context) (*MachineSetupStatus, error) {
	diffs, err := r.secureBootDiffs(ctx)
	if err != nil {
		return nil, err
	}
	return newMachineSetupStatus(diffs), nil
}

// Lockdown is not available on GB200 and succeeds without a change.
func (r *NvidiaGB200RedfishBMC) Lockdown(context.Context, schema.EnabledDisabled) error {
	return nil
}

func (r *NvidiaGB200RedfishBMC) settingsURL() string { return r.systemURL() + "/Settings" }

func (r *NvidiaGB200RedfishBMC) BootOnce(ctx context.Context, target Boot) error {
	return r.setBootOverride(ctx, r.settingsURL(), target)
}

func (r *NvidiaGB200RedfishBMC) BootFirst(ctx context.Context, target Boot) error {
	var match bootOptionMatch
	switch target {
	case BootPxe:
		match = displayNamePrefix(oem.NvidiaPXEv4)
	case BootHardDisk:
		match = devicePathPrefix(oem.NvidiaHardDisk)
	case BootUefiHTTP:
		match = displayNamePrefix(oem.NvidiaHTTPv4)
	default:
		return common.NotSupported("boot target " + string(target))
	}
	return r.bootFirst(ctx, match)
}

func (r *NvidiaGB200RedfishBMC) bootFirst(ctx context.Context, match bootOptionMatch) error {
	order, _, err := r.bootOrderWithFirst(ctx, match)
	if err != nil {
		return err
	}
	return r.patchBootOrder(ctx, r.settingsURL(), order, nil)
}

func (r *NvidiaGB200RedfishBMC) ChangeBootOrder(ctx context.Context, order []string) error {
	if err := checkBootOrder(order); err != nil {
		return err
	}
	return r.patchBootOrder(ctx, r.settingsURL(), order, nil)
}

func (r *NvidiaGB200RedfishBMC) SetBootOrderDPUFirst(ctx context.Context, mac string) error {
	if mac == "" {
		return common.NotSupported("set_dpu_first_boot_order without mac address is not possible on GB200 since NetworkDeviceFunctions and PCIeDevices are missing")
	}
	return r.bootFirst(ctx, displayNamePrefix(oem.HTTPBootOptionForMAC(mac)))
}

func (r *NvidiaGB200RedfishBMC) ChangeUEFIPassword(ctx context.Context, current, newPassword string) (string, error) {
	return r.ChangeBIOSPassword(ctx, oem.GB200UEFIPasswordName, current, newPassword)
}

func (r *NvidiaGB200RedfishBMC) ClearUEFIPassword(ctx context.Context, current string) (string, error) {
	return r.ChangeUEFIPassword(ctx, current, "")
}

// UpdateFirmwareMultipart pushes the image with empty update parameters; the
// BMC picks the targets from the package.
func (r *NvidiaGB200RedfishBMC) UpdateFirmwareMultipart(ctx context.Context, path string, _ bool, timeout time.Duration, component schema.ComponentType) (string, error) {
	logr.FromContextOrDiscard(ctx).V(1).Info("Pushing firmware", "Path", path, "Component", component)
	params, err := json.Marshal(struct{}{})
	if err != nil {
		return "", &common.InvariantError{Message: err.Error()}
	}
	return r.multipartUpdate(ctx, path, params, timeout)
}

func (r *NvidiaGB200RedfishBMC) GetSystemEthernetInterfaces(context.Context) ([]string, error) {
	return nil, common.NotSupported("GB200 doesn't have Systems EthernetInterface")
}

func (r *NvidiaGB200RedfishBMC) GetSystemEthernetInterface(context.Context, string) (*schema.EthernetInterface, error) {
	return nil, common.NotSupported("GB200 doesn't have Systems EthernetInterface")
}

func (r *NvidiaGB200RedfishBMC) GetBaseMACAddress(context.Context) (string, error) {
	return "", common.NotSupported("GB200 doesn't have Systems EthernetInterface")
}

func (r *NvidiaGB200RedfishBMC) GetNetworkDeviceFunctions(context.Context, string) ([]string, error) {
	return nil, common.NotSupported("GB200 doesn't have Device Functions in NetworkAdapters yet")
}

func (r *NvidiaGB200RedfishBMC) GetNetworkDeviceFunction(context.Context, string, string, string) (*schema.NetworkDeviceFunction, error) {
	return nil, common.NotSupported("GB200 doesn't have Device Functions in NetworkAdapters yet")
}

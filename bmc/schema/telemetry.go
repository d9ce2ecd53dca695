// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strings"
)

// Sensor is a Chassis/{id}/Sensors/{id} resource.
type Sensor struct {
	Resource
	Reading         *float64 `json:"Reading,omitempty"`
	ReadingType     string   `json:"ReadingType,omitempty"`
	ReadingUnits    string   `json:"ReadingUnits,omitempty"`
	ReadingRangeMax *float64 `json:"ReadingRangeMax,omitempty"`
	ReadingRangeMin *float64 `json:"ReadingRangeMin,omitempty"`
	PhysicalContext string   `json:"PhysicalContext,omitempty"`
	Status          *Status  `json:"Status,omitempty"`
	Thresholds      *struct {
		UpperCritical *Threshold `json:"UpperCritical,omitempty"`
		UpperCaution  *Threshold `json:"UpperCaution,omitempty"`
		UpperFatal    *Threshold `json:"UpperFatal,omitempty"`
		LowerCritical *Threshold `json:"LowerCritical,omitempty"`
		LowerCaution  *Threshold `json:"LowerCaution,omitempty"`
		LowerFatal    *Threshold `json:"LowerFatal,omitempty"`
	} `json:"Thresholds,omitempty"`
}

// Threshold is a single sensor threshold.
type Threshold struct {
	Reading *float64 `json:"Reading,omitempty"`
}

func (s *Sensor) threshold(pick func(*Sensor) *Threshold) *float64 {
	if s.Thresholds == nil {
		return nil
	}
	if t := pick(s); t != nil {
		return t.Reading
	}
	return nil
}

// SensorExcerpt is the short form of a sensor embedded in metrics resources.
type SensorExcerpt struct {
	DataSourceURI string   `json:"DataSourceUri,omitempty"`
	DeviceName    string   `json:"DeviceName,omitempty"`
	Reading       *float64 `json:"Reading,omitempty"`
}

// ThermalMetrics is a Chassis/{id}/ThermalSubsystem/ThermalMetrics resource.
type ThermalMetrics struct {
	Resource
	TemperatureReadingsCelsius []SensorExcerpt `json:"TemperatureReadingsCelsius,omitempty"`
}

// Thermal is the flat thermal view of a machine.
type Thermal struct {
	Resource
	Temperatures  []Temperature  `json:"Temperatures"`
	Fans          []Fan          `json:"Fans"`
	LeakDetectors []LeakDetector `json:"LeakDetectors,omitempty"`
}

// Temperature is a temperature reading.
type Temperature struct {
	MemberID                  string   `json:"MemberId,omitempty"`
	Name                      string   `json:"Name,omitempty"`
	ReadingCelsius            *float64 `json:"ReadingCelsius,omitempty"`
	UpperThresholdCritical    *float64 `json:"UpperThresholdCritical,omitempty"`
	UpperThresholdFatal       *float64 `json:"UpperThresholdFatal,omitempty"`
	UpperThresholdNonCritical *float64 `json:"UpperThresholdNonCritical,omitempty"`
	PhysicalContext           string   `json:"PhysicalContext,omitempty"`
	Status                    *Status  `json:"Status,omitempty"`
}

// Fan is a fan reading.
type Fan struct {
	MemberID     string   `json:"MemberId,omitempty"`
	Name         string   `json:"Name,omitempty"`
	FanName      string   `json:"FanName,omitempty"`
	Reading      *float64 `json:"Reading,omitempty"`
	ReadingUnits string   `json:"ReadingUnits,omitempty"`
	Status       *Status  `json:"Status,omitempty"`
}

// LeakDetector is a Chassis/{id}/ThermalSubsystem/LeakDetection/LeakDetectors member.
type LeakDetector struct {
	Resource
	DetectorState    string  `json:"DetectorState,omitempty"`
	LeakDetectorType string  `json:"LeakDetectorType,omitempty"`
	PhysicalContext  string  `json:"PhysicalContext,omitempty"`
	Status           *Status `json:"Status,omitempty"`
}

// Power is the flat power view of a machine.
type Power struct {
	Resource
	PowerSupplies []PowerSupply `json:"PowerSupplies"`
	Voltages      []Voltage     `json:"Voltages"`
}

// PowerSupply is a power supply reading.
type PowerSupply struct {
	MemberID             string   `json:"MemberId,omitempty"`
	Name                 string   `json:"Name,omitempty"`
	Manufacturer         string   `json:"Manufacturer,omitempty"`
	Model                string   `json:"Model,omitempty"`
	SerialNumber         string   `json:"SerialNumber,omitempty"`
	PartNumber           string   `json:"PartNumber,omitempty"`
	FirmwareVersion      string   `json:"FirmwareVersion,omitempty"`
	PowerSupplyType      string   `json:"PowerSupplyType,omitempty"`
	LastPowerOutputWatts *float64 `json:"LastPowerOutputWatts,omitempty"`
	PowerOutputWatts     *float64 `json:"PowerOutputWatts,omitempty"`
	PowerInputWatts      *float64 `json:"PowerInputWatts,omitempty"`
	PowerCapacityWatts   *float64 `json:"PowerCapacityWatts,omitempty"`
	PowerOutputAmps      *float64 `json:"PowerOutputAmps,omitempty"`
	LineInputVoltage     *float64 `json:"LineInputVoltage,omitempty"`
	Status               *Status  `json:"Status,omitempty"`
}

// Voltage is a voltage reading.
type Voltage struct {
	MemberID                  string   `json:"MemberId,omitempty"`
	Name                      string   `json:"Name,omitempty"`
	ReadingVolts              *float64 `json:"ReadingVolts,omitempty"`
	UpperThresholdCritical    *float64 `json:"UpperThresholdCritical,omitempty"`
	UpperThresholdFatal       *float64 `json:"UpperThresholdFatal,omitempty"`
	UpperThresholdNonCritical *float64 `json:"UpperThresholdNonCritical,omitempty"`
	LowerThresholdCritical    *float64 `json:"LowerThresholdCritical,omitempty"`
	PhysicalContext           string   `json:"PhysicalContext,omitempty"`
	Status                    *Status  `json:"Status,omitempty"`
}

// TemperatureFromSensor converts a Cel sensor into a Temperature.
func TemperatureFromSensor(s *Sensor) Temperature {
	return Temperature{
		MemberID:                  s.ID,
		Name:                      s.Name,
		ReadingCelsius:            s.Reading,
		UpperThresholdCritical:    s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.UpperCritical }),
		UpperThresholdFatal:       s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.UpperFatal }),
		UpperThresholdNonCritical: s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.UpperCaution }),
		PhysicalContext:           s.PhysicalContext,
		Status:                    s.Status,
	}
}

// TemperatureFromExcerpt converts a ThermalMetrics reading into a Temperature.
// The name is taken from the sensor URI when the BMC sends no DeviceName.
func TemperatureFromExcerpt(e SensorExcerpt) Temperature {
	name := e.DeviceName
	if name == "" {
		name = ODataID{ODataID: e.DataSourceURI}.ID()
	}
	return Temperature{
		MemberID:       ODataID{ODataID: e.DataSourceURI}.ID(),
		Name:           name,
		ReadingCelsius: e.Reading,
	}
}

// FanFromSensor converts a fan speed sensor into a Fan.
func FanFromSensor(s *Sensor) Fan {
	return Fan{
		MemberID:     s.ID,
		Name:         s.Name,
		FanName:      s.Name,
		Reading:      s.Reading,
		ReadingUnits: s.ReadingUnits,
		Status:       s.Status,
	}
}

// VoltageFromSensor converts a Volt sensor into a Voltage.
func VoltageFromSensor(s *Sensor) Voltage {
	return Voltage{
		MemberID:                  s.ID,
		Name:                      s.Name,
		ReadingVolts:              s.Reading,
		UpperThresholdCritical:    s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.UpperCritical }),
		UpperThresholdFatal:       s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.UpperFatal }),
		UpperThresholdNonCritical: s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.UpperCaution }),
		LowerThresholdCritical:    s.threshold(func(s *Sensor) *Threshold { return s.Thresholds.LowerCritical }),
		PhysicalContext:           s.PhysicalContext,
		Status:                    s.Status,
	}
}

// IsTemperature reports whether the sensor id names a temperature sensor.
func IsTemperature(id string) bool { return strings.Contains(id, "Temp") }

// IsVoltage reports whether the sensor id names a voltage sensor.
func IsVoltage(id string) bool { return strings.Contains(id, "Volt") }

// IsFan reports whether the sensor id names a fan sensor.
func IsFan(id string) bool { return strings.Contains(id, "FAN") }

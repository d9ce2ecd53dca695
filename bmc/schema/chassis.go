// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

// Chassis is a Chassis/{id} resource.
type Chassis struct {
	Resource
	ChassisType      string         `json:"ChassisType,omitempty"`
	Manufacturer     string         `json:"Manufacturer,omitempty"`
	Model            string         `json:"Model,omitempty"`
	SerialNumber     string         `json:"SerialNumber,omitempty"`
	PartNumber       string         `json:"PartNumber,omitempty"`
	PowerState       *PowerState    `json:"PowerState,omitempty"`
	Status           *Status        `json:"Status,omitempty"`
	Sensors          *ODataID       `json:"Sensors,omitempty"`
	ThermalSubsystem *ODataID       `json:"ThermalSubsystem,omitempty"`
	PowerSubsystem   *ODataID       `json:"PowerSubsystem,omitempty"`
	Thermal          *ODataID       `json:"Thermal,omitempty"`
	Power            *ODataID       `json:"Power,omitempty"`
	NetworkAdapters  *ODataID       `json:"NetworkAdapters,omitempty"`
	PCIeDevices      *ODataID       `json:"PCIeDevices,omitempty"`
	Actions          ChassisActions `json:"Actions"`
}

// ChassisActions lists the actions a Chassis exposes.
type ChassisActions struct {
	Reset *ActionTarget `json:"#Chassis.Reset,omitempty"`
}

// NetworkAdapter is a Chassis/{id}/NetworkAdapters/{id} resource.
type NetworkAdapter struct {
	Resource
	Manufacturer           string   `json:"Manufacturer,omitempty"`
	Model                  string   `json:"Model,omitempty"`
	SerialNumber           string   `json:"SerialNumber,omitempty"`
	PartNumber             string   `json:"PartNumber,omitempty"`
	SKU                    string   `json:"SKU,omitempty"`
	Status                 *Status  `json:"Status,omitempty"`
	Ports                  *ODataID `json:"Ports,omitempty"`
	NetworkPorts           *ODataID `json:"NetworkPorts,omitempty"`
	NetworkDeviceFunctions *ODataID `json:"NetworkDeviceFunctions,omitempty"`
}

// NetworkPort is a port of a network adapter.
type NetworkPort struct {
	Resource
	PortID               string   `json:"PortId,omitempty"`
	PhysicalPortNumber   string   `json:"PhysicalPortNumber,omitempty"`
	LinkStatus           string   `json:"LinkStatus,omitempty"`
	LinkState            string   `json:"LinkState,omitempty"`
	CurrentSpeedGbps     *float64 `json:"CurrentSpeedGbps,omitempty"`
	MaxSpeedGbps         *float64 `json:"MaxSpeedGbps,omitempty"`
	PortProtocol         string   `json:"PortProtocol,omitempty"`
	ActiveLinkTechnology string   `json:"ActiveLinkTechnology,omitempty"`
	Status               *Status  `json:"Status,omitempty"`
}

// NetworkDeviceFunction is a logical function of a network adapter.
type NetworkDeviceFunction struct {
	Resource
	NetDevFuncType string                 `json:"NetDevFuncType,omitempty"`
	DeviceEnabled  *bool                  `json:"DeviceEnabled,omitempty"`
	Ethernet       *EthernetDeviceDetails `json:"Ethernet,omitempty"`
	Status         *Status                `json:"Status,omitempty"`
	Links          struct {
		PCIeFunction           *ODataID `json:"PCIeFunction,omitempty"`
		PhysicalPortAssignment *ODataID `json:"PhysicalPortAssignment,omitempty"`
	} `json:"Links"`
}

// EthernetDeviceDetails is the Ethernet block of a NetworkDeviceFunction.
type EthernetDeviceDetails struct {
	MACAddress          string `json:"MACAddress,omitempty"`
	PermanentMACAddress string `json:"PermanentMACAddress,omitempty"`
	MTUSize             *int   `json:"MTUSize,omitempty"`
}

// EthernetInterface is a Managers/{id} or Systems/{id} EthernetInterfaces member.
type EthernetInterface struct {
	Resource
	MACAddress          string        `json:"MACAddress,omitempty"`
	PermanentMACAddress string        `json:"PermanentMACAddress,omitempty"`
	SpeedMbps           *int          `json:"SpeedMbps,omitempty"`
	MTUSize             *int          `json:"MTUSize,omitempty"`
	HostName            string        `json:"HostName,omitempty"`
	FQDN                string        `json:"FQDN,omitempty"`
	InterfaceEnabled    *bool         `json:"InterfaceEnabled,omitempty"`
	LinkStatus          string        `json:"LinkStatus,omitempty"`
	IPv4Addresses       []IPv4Address `json:"IPv4Addresses,omitempty"`
	IPv6Addresses       []IPv6Address `json:"IPv6Addresses,omitempty"`
	Status              *Status       `json:"Status,omitempty"`
}

// IPv4Address is an address assigned to an EthernetInterface.
type IPv4Address struct {
	Address       string `json:"Address,omitempty"`
	AddressOrigin string `json:"AddressOrigin,omitempty"`
	Gateway       string `json:"Gateway,omitempty"`
	SubnetMask    string `json:"SubnetMask,omitempty"`
}

// IPv6Address is an address assigned to an EthernetInterface.
type IPv6Address struct {
	Address       string `json:"Address,omitempty"`
	AddressOrigin string `json:"AddressOrigin,omitempty"`
	AddressState  string `json:"AddressState,omitempty"`
	PrefixLength  *int   `json:"PrefixLength,omitempty"`
}

// PCIeDevice is a PCIeDevices member of a chassis or system.
type PCIeDevice struct {
	Resource
	Manufacturer    string   `json:"Manufacturer,omitempty"`
	Model           string   `json:"Model,omitempty"`
	SerialNumber    string   `json:"SerialNumber,omitempty"`
	PartNumber      string   `json:"PartNumber,omitempty"`
	FirmwareVersion string   `json:"FirmwareVersion,omitempty"`
	DeviceType      string   `json:"DeviceType,omitempty"`
	Status          *Status  `json:"Status,omitempty"`
	PCIeFunctions   *ODataID `json:"PCIeFunctions,omitempty"`
}

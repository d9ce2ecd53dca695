// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
)

// ServiceRoot is the /redfish/v1 resource.
type ServiceRoot struct {
	Resource
	RedfishVersion string          `json:"RedfishVersion,omitempty"`
	UUID           string          `json:"UUID,omitempty"`
	Vendor         string          `json:"Vendor,omitempty"`
	Product        string          `json:"Product,omitempty"`
	Systems        *ODataID        `json:"Systems,omitempty"`
	Chassis        *ODataID        `json:"Chassis,omitempty"`
	Managers       *ODataID        `json:"Managers,omitempty"`
	UpdateService  *ODataID        `json:"UpdateService,omitempty"`
	Tasks          *ODataID        `json:"Tasks,omitempty"`
	AccountService *ODataID        `json:"AccountService,omitempty"`
	SessionService *ODataID        `json:"SessionService,omitempty"`
	Oem            json.RawMessage `json:"Oem,omitempty"`
}

// Manager is a Managers/{id} resource.
type Manager struct {
	Resource
	ManagerType        string          `json:"ManagerType,omitempty"`
	Manufacturer       string          `json:"Manufacturer,omitempty"`
	Model              string          `json:"Model,omitempty"`
	FirmwareVersion    string          `json:"FirmwareVersion,omitempty"`
	UUID               string          `json:"UUID,omitempty"`
	PowerState         *PowerState     `json:"PowerState,omitempty"`
	Status             *Status         `json:"Status,omitempty"`
	SerialConsole      *ConsoleService `json:"SerialConsole,omitempty"`
	CommandShell       *ConsoleService `json:"CommandShell,omitempty"`
	NetworkProtocol    *ODataID        `json:"NetworkProtocol,omitempty"`
	EthernetInterfaces *ODataID        `json:"EthernetInterfaces,omitempty"`
	LogServices        *ODataID        `json:"LogServices,omitempty"`
	Actions            ManagerActions  `json:"Actions"`
	Oem                json.RawMessage `json:"Oem,omitempty"`
}

// ManagerActions lists the actions a Manager exposes.
type ManagerActions struct {
	Reset           *ActionTarget `json:"#Manager.Reset,omitempty"`
	ResetToDefaults *ActionTarget `json:"#Manager.ResetToDefaults,omitempty"`
}

// ConsoleService describes the serial console or command shell of a manager.
type ConsoleService struct {
	ServiceEnabled        *bool    `json:"ServiceEnabled,omitempty"`
	MaxConcurrentSessions *int     `json:"MaxConcurrentSessions,omitempty"`
	ConnectTypesSupported []string `json:"ConnectTypesSupported,omitempty"`
}

// Protocol is a single protocol entry of ManagerNetworkProtocol.
type Protocol struct {
	Port            *int  `json:"Port,omitempty"`
	ProtocolEnabled *bool `json:"ProtocolEnabled,omitempty"`
}

// Enabled reports whether the protocol is switched on.
func (p *Protocol) Enabled() bool {
	return p != nil && p.ProtocolEnabled != nil && *p.ProtocolEnabled
}

// ManagerNetworkProtocol is a Managers/{id}/NetworkProtocol resource.
type ManagerNetworkProtocol struct {
	Resource
	HostName     string          `json:"HostName,omitempty"`
	FQDN         string          `json:"FQDN,omitempty"`
	DHCP         *Protocol       `json:"DHCP,omitempty"`
	DHCPv6       *Protocol       `json:"DHCPv6,omitempty"`
	HTTP         *Protocol       `json:"HTTP,omitempty"`
	HTTPS        *Protocol       `json:"HTTPS,omitempty"`
	IPMI         *Protocol       `json:"IPMI,omitempty"`
	KVMIP        *Protocol       `json:"KVMIP,omitempty"`
	RDP          *Protocol       `json:"RDP,omitempty"`
	RFB          *Protocol       `json:"RFB,omitempty"`
	SNMP         *Protocol       `json:"SNMP,omitempty"`
	SSH          *Protocol       `json:"SSH,omitempty"`
	Telnet       *Protocol       `json:"Telnet,omitempty"`
	VirtualMedia *Protocol       `json:"VirtualMedia,omitempty"`
	Oem          json.RawMessage `json:"Oem,omitempty"`
}

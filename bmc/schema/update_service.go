// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

// UpdateService is the UpdateService resource.
type UpdateService struct {
	Resource
	HTTPPushURI          string               `json:"HttpPushUri,omitempty"`
	MultipartHTTPPushURI string               `json:"MultipartHttpPushUri,omitempty"`
	MaxImageSizeBytes    *int64               `json:"MaxImageSizeBytes,omitempty"`
	ServiceEnabled       *bool                `json:"ServiceEnabled,omitempty"`
	FirmwareInventory    *ODataID             `json:"FirmwareInventory,omitempty"`
	SoftwareInventory    *ODataID             `json:"SoftwareInventory,omitempty"`
	Actions              UpdateServiceActions `json:"Actions"`
}

// UpdateServiceActions lists the actions an UpdateService exposes.
type UpdateServiceActions struct {
	SimpleUpdate *SimpleUpdateAction `json:"#UpdateService.SimpleUpdate,omitempty"`
}

// SimpleUpdateAction is the SimpleUpdate action target and its allowed protocols.
type SimpleUpdateAction struct {
	Target                  string   `json:"target"`
	AllowableProtocolValues []string `json:"TransferProtocol@Redfish.AllowableValues,omitempty"`
}

// SimpleUpdateParameters is the body of a SimpleUpdate action.
type SimpleUpdateParameters struct {
	ImageURI         string               `json:"ImageURI"`
	TransferProtocol TransferProtocolType `json:"TransferProtocol,omitempty"`
	Targets          []string             `json:"Targets,omitempty"`
	Username         string               `json:"Username,omitempty"`
	Password         string               `json:"Password,omitempty"`
	ForceUpdate      *bool                `json:"ForceUpdate,omitempty"`
}

// MultipartUpdateParameters is the UpdateParameters part of a multipart push.
type MultipartUpdateParameters struct {
	Targets            []string  `json:"Targets,omitempty"`
	OperationApplyTime ApplyTime `json:"@Redfish.OperationApplyTime,omitempty"`
	ForceUpdate        *bool     `json:"ForceUpdate,omitempty"`
}

// SoftwareInventory is a FirmwareInventory or SoftwareInventory member.
type SoftwareInventory struct {
	Resource
	Version      string    `json:"Version,omitempty"`
	Updateable   *bool     `json:"Updateable,omitempty"`
	Manufacturer string    `json:"Manufacturer,omitempty"`
	ReleaseDate  string    `json:"ReleaseDate,omitempty"`
	SoftwareID   string    `json:"SoftwareId,omitempty"`
	Status       *Status   `json:"Status,omitempty"`
	RelatedItem  []ODataID `json:"RelatedItem,omitempty"`
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RedfishPrefix is the root every Redfish resource path lives under.
const RedfishPrefix = "/redfish/v1/"

// Relative strips the Redfish prefix from an @odata.id so that the result can be
// passed back to the transport. Already relative URLs are returned unchanged.
func Relative(id string) string {
	id = strings.TrimSpace(id)
	switch {
	case strings.HasPrefix(id, RedfishPrefix):
		id = strings.TrimPrefix(id, RedfishPrefix)
	case id == strings.TrimSuffix(RedfishPrefix, "/"):
		id = ""
	case strings.HasPrefix(id, "redfish/v1/"):
		id = strings.TrimPrefix(id, "redfish/v1/")
	}
	return strings.Trim(id, "/")
}

// ODataID is a navigation link to another resource.
type ODataID struct {
	ODataID string `json:"@odata.id"`
}

// Relative returns the link without the Redfish prefix.
func (o ODataID) Relative() string {
	return Relative(o.ODataID)
}

// ID returns the last path segment of the link.
func (o ODataID) ID() string {
	rel := o.Relative()
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[i+1:]
	}
	return rel
}

// Resource is the envelope shared by all Redfish resources.
type Resource struct {
	ODataID     string `json:"@odata.id,omitempty"`
	ODataType   string `json:"@odata.type,omitempty"`
	ODataEtag   string `json:"@odata.etag,omitempty"`
	ID          string `json:"Id,omitempty"`
	Name        string `json:"Name,omitempty"`
	Description string `json:"Description,omitempty"`
}

// URL returns the relative location of the resource.
func (r Resource) URL() string {
	return Relative(r.ODataID)
}

// Collection is a resource whose body lists links to its members.
type Collection struct {
	Resource
	Members      []ODataID `json:"Members"`
	MembersCount int       `json:"Members@odata.count,omitempty"`
}

// IDs returns the last path segment of every member, in order.
func (c *Collection) IDs() []string {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID())
	}
	return ids
}

// URLs returns the relative URL of every member, in order.
func (c *Collection) URLs() []string {
	urls := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		urls = append(urls, m.Relative())
	}
	return urls
}

// RawResource is an arbitrary resource kept as a JSON object.
type RawResource struct {
	ODataID   string
	ODataType string
	Fields    map[string]any
}

func (r *RawResource) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("resource is not a JSON object")
	}
	r.Fields = fields
	if id, ok := fields["@odata.id"].(string); ok {
		r.ODataID = Relative(id)
	}
	if t, ok := fields["@odata.type"].(string); ok {
		r.ODataType = t
	}
	return nil
}

func (r RawResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields)
}

// SettingsObject is the @Redfish.Settings annotation pointing at the staging resource.
type SettingsObject struct {
	SettingsObject      ODataID  `json:"SettingsObject"`
	SupportedApplyTimes []string `json:"SupportedApplyTimes,omitempty"`
	ETag                string   `json:"ETag,omitempty"`
}

// Status is the common status block of a resource.
type Status struct {
	State        *State  `json:"State,omitempty"`
	Health       *Health `json:"Health,omitempty"`
	HealthRollup *Health `json:"HealthRollup,omitempty"`
}

// IsEnabled reports whether the resource state is Enabled.
func (s *Status) IsEnabled() bool {
	return s != nil && s.State != nil && *s.State == StateEnabled
}

// ActionTarget is the target of a Redfish action.
type ActionTarget struct {
	Target          string   `json:"target"`
	AllowableValues []string `json:"ResetType@Redfish.AllowableValues,omitempty"`
}

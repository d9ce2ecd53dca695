// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/NVIDIA/libredfish/bmc/transport"
)

// DetectVendor selects the backend for a BMC from the Manufacturer and Model
// it reports. Matching ignores case.
func DetectVendor(manufacturer, model string) Vendor {
	model = strings.ToLower(model)
	if strings.Contains(model, "gb200") || strings.Contains(model, "bianca") {
		return VendorNvidiaGB200
	}
	switch m := strings.ToLower(manufacturer); {
	case strings.Contains(m, "dell"):
		return VendorDell
	case strings.Contains(m, "lenovo"):
		return VendorLenovo
	case strings.Contains(m, "nvidia"):
		return VendorNvidia
	}
	return VendorStandard
}

// NewBMC identifies the BMC behind t and returns the matching backend.
func NewBMC(ctx context.Context, t transport.Transport) (BMC, error) {
	base, err := NewRedfishBMC(ctx, t)
	if err != nil {
		return nil, err
	}
	root, err := base.GetServiceRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get service root: %w", err)
	}
	manager, err := base.GetManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	manufacturer, model := manager.Manufacturer, manager.Model
	if manufacturer == "" {
		manufacturer = root.Vendor
	}
	if manufacturer == "" {
		system, err := base.GetSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get system: %w", err)
		}
		manufacturer = system.Manufacturer
		if model == "" {
			model = system.Model
		}
	}
	vendor := DetectVendor(manufacturer, model)
	logr.FromContextOrDiscard(ctx).V(1).Info("Selected BMC backend",
		"Vendor", vendor, "Manufacturer", manufacturer, "Model", model, "Product", root.Product)
	return wrap(base, vendor)
}

// NewBMCForVendor returns the backend of the given vendor without
// identifying the BMC.
func NewBMCForVendor(ctx context.Context, t transport.Transport, vendor Vendor) (BMC, error) {
	base, err := NewRedfishBMC(ctx, t)
	if err != nil {
		return nil, err
	}
	return wrap(base, vendor)
}

func wrap(base *RedfishBMC, vendor Vendor) (BMC, error) {
	switch vendor {
	case VendorStandard:
		return base, nil
	case VendorDell:
		return &DellRedfishBMC{RedfishBMC: base}, nil
	case VendorLenovo:
		return &LenovoRedfishBMC{RedfishBMC: base}, nil
	case VendorNvidia:
		return &NvidiaRedfishBMC{RedfishBMC: base}, nil
	case VendorNvidiaGB200:
		return &NvidiaGB200RedfishBMC{RedfishBMC: base}, nil
	}
	return nil, fmt.Errorf("unknown vendor %q", string(vendor))
}

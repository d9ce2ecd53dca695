// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/libredfish/bmc"
)

func newGetCommand(o *options) *cobra.Command {
	var collection bool
	cmd := &cobra.Command{
		Use:   "get TARGET [PATH]",
		Short: "Print a Redfish resource, the service root by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error {
			if len(args) == 0 {
				root, err := b.GetServiceRoot(ctx)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), root)
			}
			if collection {
				c, err := b.GetCollection(ctx, args[0])
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), c.IDs())
			}
			res, err := b.GetResource(ctx, args[0])
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), res)
		}),
	}
	cmd.Flags().BoolVar(&collection, "collection", false, "Print the member ids of a collection.")
	return cmd
}

// view is a read-only command printing what fetch returns.
func view(o *options, use, short string, fetch func(ctx context.Context, b bmc.BMC) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TARGET",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
			v, err := fetch(ctx, b)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), v)
		}),
	}
}

func newInventoryCommands(o *options) []*cobra.Command {
	return []*cobra.Command{
		view(o, "system", "Print the computer system", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetSystem(ctx)
		}),
		view(o, "manager", "Print the BMC manager", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetManager(ctx)
		}),
		view(o, "chassis", "List the chassis", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetChassisAll(ctx)
		}),
		view(o, "pcie", "List the PCIe devices of the host", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.PCIeDevices(ctx)
		}),
		view(o, "sel", "Print the system event log", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetSystemEventLog(ctx)
		}),
		view(o, "thermal", "Print temperatures and fans", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetThermalMetrics(ctx)
		}),
		view(o, "gpu-sensors", "Print the sensors of every GPU", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetGPUSensors(ctx)
		}),
		view(o, "accounts", "List the BMC accounts", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetAccounts(ctx)
		}),
		view(o, "secure-boot", "Print the secure boot settings", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetSecureBoot(ctx)
		}),
		view(o, "base-mac", "Print the MAC of the first system interface", func(ctx context.Context, b bmc.BMC) (any, error) {
			return b.GetBaseMACAddress(ctx)
		}),
	}
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

func newVendorCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vendor TARGET",
		Short: "Identify the backend serving a BMC",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
			sys, err := b.GetSystem(ctx)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), map[string]any{
				"Vendor":       b.Vendor(),
				"Manufacturer": sys.Manufacturer,
				"Model":        sys.Model,
			})
		}),
	}
}

func newPowerCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Read and change the power state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "state TARGET",
			Short: "Print the power state of the system",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				state, err := b.GetPowerState(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), state)
				return err
			}),
		},
		&cobra.Command{
			Use:   "set TARGET ACTION",
			Short: fmt.Sprintf("Request a power action %v", schema.PowerActions()),
			Args:  cobra.ExactArgs(2),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
				action, err := schema.ParsePowerAction(args[0])
				if err != nil {
					return err
				}
				ctrl.LoggerFrom(ctx).Info("Requesting power action", "Action", action)
				return b.Power(ctx, action)
			}),
		},
		&cobra.Command{
			Use:   "chassis-reset TARGET CHASSIS ACTION",
			Short: "Reset a chassis",
			Args:  cobra.ExactArgs(3),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
				action, err := schema.ParsePowerAction(args[1])
				if err != nil {
					return err
				}
				return b.ChassisReset(ctx, args[0], action)
			}),
		},
		&cobra.Command{
			Use:   "bmc-reset TARGET",
			Short: "Restart the BMC",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.BMCReset(ctx)
			}),
		},
		&cobra.Command{
			Use:   "bmc-factory-reset TARGET",
			Short: "Reset the BMC to its factory defaults",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.BMCResetToDefaults(ctx)
			}),
		},
		&cobra.Command{
			Use:   "metrics TARGET",
			Short: "Print power supplies and consumption",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				power, err := b.GetPowerMetrics(ctx)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), power)
			}),
		},
	)
	return cmd
}

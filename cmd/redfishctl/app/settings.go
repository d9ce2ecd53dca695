// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

// printStatus prints a composite status as State and Message.
func (o *options) printStatus(cmd *cobra.Command, status *bmc.Status) error {
	return o.print(cmd.OutOrStdout(), map[string]string{
		"State":   string(status.State),
		"Message": status.Message,
	})
}

// toggle builds "NAME TARGET {Enabled|Disabled|status}".
func toggle(o *options, name, short string, set func(context.Context, bmc.BMC, schema.EnabledDisabled) error, status func(context.Context, *cobra.Command, bmc.BMC) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " TARGET {Enabled|Disabled|status}",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error {
			if args[0] == "status" {
				return status(ctx, cmd, b)
			}
			target, err := schema.ParseEnabledDisabled(args[0])
			if err != nil {
				return err
			}
			return set(ctx, b, target)
		}),
	}
}

func newLockdownCommand(o *options) *cobra.Command {
	return toggle(o, "lockdown", "Restrict the host facing management interfaces",
		func(ctx context.Context, b bmc.BMC, target schema.EnabledDisabled) error {
			return b.Lockdown(ctx, target)
		},
		func(ctx context.Context, cmd *cobra.Command, b bmc.BMC) error {
			status, err := b.LockdownStatus(ctx)
			if err != nil {
				return err
			}
			return o.printStatus(cmd, status)
		})
}

func newBMCLockdownCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bmc-lockdown TARGET {Enabled|Disabled}",
		Short: "Restrict the BMC itself",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
			target, err := schema.ParseEnabledDisabled(args[0])
			if err != nil {
				return err
			}
			return b.LockdownBMC(ctx, target)
		}),
	}
}

func newIPMICommand(o *options) *cobra.Command {
	return toggle(o, "ipmi", "Enable or disable IPMI over LAN",
		func(ctx context.Context, b bmc.BMC, target schema.EnabledDisabled) error {
			return b.EnableIPMIOverLAN(ctx, target)
		},
		func(ctx context.Context, cmd *cobra.Command, b bmc.BMC) error {
			enabled, err := b.IsIPMIOverLANEnabled(ctx)
			if err != nil {
				return err
			}
			return o.print(cmd.OutOrStdout(), map[string]bool{"Enabled": enabled})
		})
}

func newSerialCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serial",
		Short: "Configure the serial console",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "setup TARGET",
			Short: "Route the host console to the BMC",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.SetupSerialConsole(ctx)
			}),
		},
		&cobra.Command{
			Use:   "status TARGET",
			Short: "Print whether the serial console is set up",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				status, err := b.SerialConsoleStatus(ctx)
				if err != nil {
					return err
				}
				return o.printStatus(cmd, status)
			}),
		},
		&cobra.Command{
			Use:   "rshim TARGET",
			Short: "Enable rshim on the BMC",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.EnableRshimBMC(ctx)
			}),
		},
	)
	return cmd
}

func newSetupCommand(o *options) *cobra.Command {
	var mac string
	cmd := &cobra.Command{
		Use:   "setup TARGET",
		Short: "Apply the provisioning settings",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
			return b.MachineSetup(ctx, mac)
		}),
	}
	cmd.Flags().StringVar(&mac, "boot-mac", "", "MAC of the interface to boot from first.")

	cmd.AddCommand(&cobra.Command{
		Use:   "status TARGET",
		Short: "Print the provisioning settings that are not applied yet",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
			status, err := b.MachineSetupStatus(ctx)
			if err != nil {
				return err
			}
			if err := o.print(cmd.OutOrStdout(), status); err != nil {
				return err
			}
			if !status.IsDone {
				return fmt.Errorf("%d settings differ", len(status.Diffs))
			}
			return nil
		}),
	})
	return cmd
}

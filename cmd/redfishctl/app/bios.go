// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/libredfish/bmc"
)

func newBiosCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bios",
		Short: "Read and stage BIOS attributes",
	}

	var current, newPassword string
	password := &cobra.Command{
		Use:   "uefi-password TARGET",
		Short: "Change or clear the UEFI setup password",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
			var (
				jobID string
				err   error
			)
			if newPassword == "" {
				jobID, err = b.ClearUEFIPassword(ctx, current)
			} else {
				jobID, err = b.ChangeUEFIPassword(ctx, current, newPassword)
			}
			if err != nil || jobID == "" {
				return err
			}
			return o.print(cmd.OutOrStdout(), map[string]string{"Job": jobID})
		}),
	}
	password.Flags().StringVar(&current, "current", "", "Current UEFI password, empty if none is set.")
	password.Flags().StringVar(&newPassword, "new", "", "New UEFI password, empty clears it.")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get TARGET",
			Short: "Print the current BIOS attributes",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				attrs, err := b.Bios(ctx)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), attrs)
			}),
		},
		&cobra.Command{
			Use:   "pending TARGET",
			Short: "Print the staged attributes that differ from the current ones",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				attrs, err := b.Pending(ctx)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), attrs)
			}),
		},
		&cobra.Command{
			Use:   "set TARGET KEY=VALUE...",
			Short: "Stage BIOS attributes for the next reset",
			Args:  cobra.MinimumNArgs(2),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
				attrs, err := parseAttributes(args)
				if err != nil {
					return err
				}
				return b.SetBios(ctx, attrs)
			}),
		},
		&cobra.Command{
			Use:   "clear-pending TARGET",
			Short: "Drop every staged attribute",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.ClearPending(ctx)
			}),
		},
		&cobra.Command{
			Use:   "clear-nvram TARGET",
			Short: "Clear the UEFI variable store",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.ClearNVRAM(ctx)
			}),
		},
		&cobra.Command{
			Use:   "clear-tpm TARGET",
			Short: "Clear the TPM on the next reset",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.ClearTPM(ctx)
			}),
		},
		password,
	)
	return cmd
}

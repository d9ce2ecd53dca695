// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

func newBootCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Inspect and change the boot order",
	}

	bootTarget := func(fn func(ctx context.Context, b bmc.BMC, target bmc.Boot) error) func(*cobra.Command, []string) error {
		return o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
			target, err := bmc.ParseBoot(args[0])
			if err != nil {
				return err
			}
			return fn(ctx, b, target)
		})
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "options TARGET",
			Short: "List the boot options in boot order",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				ids, err := b.GetBootOptions(ctx)
				if err != nil {
					return err
				}
				bootOptions := make([]*schema.BootOption, 0, len(ids))
				for _, id := range ids {
					opt, err := b.GetBootOption(ctx, id)
					if err != nil {
						return err
					}
					bootOptions = append(bootOptions, opt)
				}
				return o.print(cmd.OutOrStdout(), bootOptions)
			}),
		},
		&cobra.Command{
			Use:   "once TARGET {Pxe|HardDisk|UefiHttp}",
			Short: "Boot the target on the next reset only",
			Args:  cobra.ExactArgs(2),
			RunE:  bootTarget(func(ctx context.Context, b bmc.BMC, t bmc.Boot) error { return b.BootOnce(ctx, t) }),
		},
		&cobra.Command{
			Use:   "first TARGET {Pxe|HardDisk|UefiHttp}",
			Short: "Move the first boot option of the target to the front",
			Args:  cobra.ExactArgs(2),
			RunE:  bootTarget(func(ctx context.Context, b bmc.BMC, t bmc.Boot) error { return b.BootFirst(ctx, t) }),
		},
		&cobra.Command{
			Use:   "order TARGET OPTION...",
			Short: "Replace the persistent boot order",
			Args:  cobra.MinimumNArgs(2),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
				return b.ChangeBootOrder(ctx, args)
			}),
		},
		&cobra.Command{
			Use:   "dpu-first TARGET MAC",
			Short: "Boot from the DPU with the given MAC first",
			Args:  cobra.ExactArgs(2),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
				return b.SetBootOrderDPUFirst(ctx, args[0])
			}),
		},
	)
	return cmd
}

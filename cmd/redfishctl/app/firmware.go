// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

type waitOptions struct {
	wait     bool
	interval time.Duration
	timeout  time.Duration
}

func (w *waitOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&w.wait, "wait", false, "Wait for the task to finish.")
	cmd.Flags().DurationVar(&w.interval, "poll-interval", bmc.DefaultTaskPollInterval, "Interval between two task reads.")
	cmd.Flags().DurationVar(&w.timeout, "wait-timeout", bmc.DefaultTaskPollTimeout, "Give up waiting after this duration.")
}

// finish prints the task, after waiting for it if requested.
func (o *options) finish(ctx context.Context, cmd *cobra.Command, b bmc.BMC, w *waitOptions, id string) error {
	if !w.wait {
		task, err := b.GetTask(ctx, id)
		if err != nil {
			return err
		}
		return o.print(cmd.OutOrStdout(), task)
	}
	log := ctrl.LoggerFrom(ctx).WithValues("Task", id)
	task, err := bmc.WaitForTask(ctx, b, id, bmc.TaskPollOptions{
		Interval: w.interval,
		Timeout:  w.timeout,
		Progress: func(percent int) {
			log.Info("Task progress", "Percent", percent)
		},
	})
	if task != nil {
		if perr := o.print(cmd.OutOrStdout(), task); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func newFirmwareCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firmware",
		Short: "Inspect and update firmware",
	}

	var (
		update    waitOptions
		reboot    bool
		timeout   time.Duration
		component = schema.ComponentUnknown
	)
	updateCmd := &cobra.Command{
		Use:   "update TARGET FILE",
		Short: "Push a firmware image as multipart upload",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error {
			id, err := b.UpdateFirmwareMultipart(ctx, args[0], reboot, timeout, component)
			if err != nil {
				return err
			}
			ctrl.LoggerFrom(ctx).Info("Firmware upload accepted", "Task", id)
			return o.finish(ctx, cmd, b, &update, id)
		}),
	}
	updateCmd.Flags().BoolVar(&reboot, "reboot", false, "Apply the image immediately.")
	updateCmd.Flags().DurationVar(&timeout, "upload-timeout", 30*time.Minute, "Timeout of the upload request.")
	updateCmd.Flags().Var(newEnumValue(&component, schema.ParseComponentType, "component"), "component", "Component the image is meant for.")
	update.bind(updateCmd)

	var (
		simple   waitOptions
		protocol = schema.TransferProtocolHTTP
		targets  []string
	)
	simpleCmd := &cobra.Command{
		Use:   "simple-update TARGET IMAGE_URI",
		Short: "Let the BMC fetch a firmware image",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error {
			task, err := b.UpdateFirmwareSimpleUpdate(ctx, args[0], targets, protocol)
			if err != nil {
				return err
			}
			return o.finish(ctx, cmd, b, &simple, task.ID)
		}),
	}
	simpleCmd.Flags().Var(newEnumValue(&protocol, schema.ParseTransferProtocol, "protocol"), "protocol", "Transfer protocol of the image URI.")
	simpleCmd.Flags().StringSliceVar(&targets, "targets", nil, "Resources the image applies to.")
	simple.bind(simpleCmd)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list TARGET",
			Short: "List the firmware inventory",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				ids, err := b.GetSoftwareInventories(ctx)
				if err != nil {
					return err
				}
				inventory := make([]*schema.SoftwareInventory, 0, len(ids))
				for _, id := range ids {
					fw, err := b.GetFirmware(ctx, id)
					if err != nil {
						return err
					}
					inventory = append(inventory, fw)
				}
				return o.print(cmd.OutOrStdout(), inventory)
			}),
		},
		updateCmd,
		simpleCmd,
	)
	return cmd
}

func newTaskCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Follow tasks and jobs",
	}

	wait := waitOptions{wait: true}
	waitCmd := &cobra.Command{
		Use:   "wait TARGET ID",
		Short: "Wait for a task to finish",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error {
			return o.finish(ctx, cmd, b, &wait, args[0])
		}),
	}
	waitCmd.Flags().DurationVar(&wait.interval, "poll-interval", bmc.DefaultTaskPollInterval, "Interval between two task reads.")
	waitCmd.Flags().DurationVar(&wait.timeout, "wait-timeout", bmc.DefaultTaskPollTimeout, "Give up waiting after this duration.")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list TARGET",
			Short: "List the task ids",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, _ []string) error {
				ids, err := b.GetTasks(ctx)
				if err != nil {
					return err
				}
				return o.print(cmd.OutOrStdout(), ids)
			}),
		},
		&cobra.Command{
			Use:   "get TARGET ID",
			Short: "Print a task",
			Args:  cobra.ExactArgs(2),
			RunE: o.run(func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error {
				return o.finish(ctx, cmd, b, &waitOptions{}, args[0])
			}),
		},
		waitCmd,
	)
	return cmd
}

// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/schema"
)

func newUserCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage BMC accounts",
	}

	var (
		password string
		role     = schema.RoleAdministrator
	)
	create := &cobra.Command{
		Use:   "create TARGET NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			return b.CreateUser(ctx, args[0], password, role)
		}),
	}
	create.Flags().StringVar(&password, "password", "", "Password of the account.")
	create.Flags().Var(newEnumValue(&role, schema.ParseRoleID, "role"), "role", "Role of the account.")

	var newPassword string
	passwd := &cobra.Command{
		Use:   "password TARGET NAME",
		Short: "Change the password of an account",
		Args:  cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
			if newPassword == "" {
				return errors.New("--password is required")
			}
			return b.ChangePassword(ctx, args[0], newPassword)
		}),
	}
	passwd.Flags().StringVar(&newPassword, "password", "", "New password of the account.")

	cmd.AddCommand(
		create,
		passwd,
		&cobra.Command{
			Use:   "rename TARGET OLD NEW",
			Short: "Rename an account",
			Args:  cobra.ExactArgs(3),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, args []string) error {
				return b.ChangeUsername(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "machine-policy TARGET",
			Short: "Stop machine accounts from locking or expiring",
			Args:  cobra.ExactArgs(1),
			RunE: o.run(func(ctx context.Context, _ *cobra.Command, b bmc.BMC, _ []string) error {
				return b.SetMachinePasswordPolicy(ctx)
			}),
		},
	)
	return cmd
}

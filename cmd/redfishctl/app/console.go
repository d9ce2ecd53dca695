// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/NVIDIA/libredfish/internal/console"
)

func newConsoleCommand(o *options) *cobra.Command {
	var (
		serialConsoleNumber   int
		sshPort               int
		skipHostKeyValidation bool
		knownHostsFile        string
	)
	cmd := &cobra.Command{
		Use:   "console TARGET",
		Short: "Attach to the serial console over the SSH service of the BMC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, _, err := o.endpoint(args[0])
			if err != nil {
				return err
			}
			cfg := console.ConfigForEndpoint(ep)
			cfg.Port = sshPort
			cfg.SerialConsoleNumber = serialConsoleNumber
			cfg.SkipHostKeyValidation = skipHostKeyValidation
			cfg.KnownHostsFile = knownHostsFile

			ctrl.LoggerFrom(cmd.Context()).Info("Serial-over-LAN session starting, interrupt to exit", "BMC", cfg.BMCAddress)
			return console.Open(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&serialConsoleNumber, "serial-console-number", 1, "Serial console number.")
	cmd.Flags().IntVar(&sshPort, "ssh-port", console.DefaultPort, "Port of the SSH service of the BMC.")
	cmd.Flags().BoolVar(&skipHostKeyValidation, "skip-host-key-validation", false, "Skip host key validation.")
	cmd.Flags().StringVar(&knownHostsFile, "known-hosts-file", console.DefaultKnownHostsFile, "Path to known_hosts file.")
	return cmd
}

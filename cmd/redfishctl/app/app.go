// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/transport"
	"github.com/NVIDIA/libredfish/internal/bmcutils"
)

const Name string = "redfishctl"

type options struct {
	configPath string
	vendor     bmc.Vendor
	output     outputFormat
	scheme     string
	port       int
	timeout    time.Duration
	zap        zap.Options

	config *bmcutils.Config
	pool   *transport.ClientPool
}

func NewCommand() *cobra.Command {
	o := &options{output: outputJSON}
	root := &cobra.Command{
		Use:           Name,
		Short:         "Manage servers through their Redfish BMC",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return o.close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Path to a redfishctl configuration file.")
	flags.Var(newEnumValue(&o.vendor, bmc.ParseVendor, "vendor"), "vendor", "Skip identification and use the given backend (Standard, Dell, Lenovo, Nvidia, NvidiaGB200).")
	flags.VarP(newEnumValue(&o.output, parseOutputFormat, "format"), "output", "o", "Output format (json, yaml).")
	flags.StringVar(&o.scheme, "scheme", "", "Scheme of the Redfish service, defaults to https.")
	flags.IntVar(&o.port, "port", 0, "Port of the Redfish service.")
	flags.DurationVar(&o.timeout, "timeout", 0, "Timeout of a single HTTP attempt.")

	goFlags := flag.NewFlagSet(Name, flag.ContinueOnError)
	o.zap.BindFlags(goFlags)
	flags.AddGoFlagSet(goFlags)

	root.AddCommand(
		newVendorCommand(o),
		newPowerCommand(o),
		newBootCommand(o),
		newBiosCommand(o),
		newFirmwareCommand(o),
		newTaskCommand(o),
		newGetCommand(o),
		newLockdownCommand(o),
		newBMCLockdownCommand(o),
		newSetupCommand(o),
		newIPMICommand(o),
		newSerialCommand(o),
		newUserCommand(o),
		newConsoleCommand(o),
	)
	root.AddCommand(newInventoryCommands(o)...)
	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	o.zap.DestWriter = cmd.ErrOrStderr()
	log := zap.New(zap.UseFlagOptions(&o.zap)).WithName(Name)
	ctrl.SetLogger(log)
	cmd.SetContext(ctrl.LoggerInto(cmd.Context(), log))

	o.config = &bmcutils.Config{}
	if o.configPath != "" {
		cfg, err := bmcutils.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		o.config = cfg
	}
	return nil
}

func (o *options) close(ctx context.Context) error {
	if o.pool == nil {
		return nil
	}
	err := o.pool.Close(ctx)
	o.pool = nil
	return err
}

// endpoint resolves target against the configuration, the environment and
// the connection flags, in that order of increasing precedence.
func (o *options) endpoint(target string) (transport.Endpoint, string, error) {
	creds, err := bmcutils.CredentialsFromEnv()
	if err != nil {
		return transport.Endpoint{}, "", err
	}
	ep, vendor, err := o.config.Endpoint(target, creds)
	if err != nil {
		return transport.Endpoint{}, "", err
	}
	if o.scheme != "" {
		ep.Scheme = o.scheme
	}
	if o.port != 0 {
		ep.Port = o.port
	}
	if o.timeout != 0 {
		ep.Timeout = o.timeout
	}
	if o.vendor != "" {
		vendor = o.vendor.String()
	}
	return ep, vendor, ep.Validate()
}

// connect returns the backend for target.
func (o *options) connect(ctx context.Context, target string) (bmc.BMC, error) {
	ep, vendor, err := o.endpoint(target)
	if err != nil {
		return nil, err
	}
	if o.pool == nil {
		pool, err := transport.NewClientPool(o.config.TransportOptions())
		if err != nil {
			return nil, err
		}
		o.pool = pool
	}
	b, err := bmcutils.CreateBMCClient(ctx, o.pool, ep, vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	ctrl.LoggerFrom(ctx).V(1).Info("Connected to BMC", "Host", ep.Host, "Vendor", b.Vendor())
	return b, nil
}

// run wraps a command body that talks to the BMC named by the first argument.
func (o *options) run(fn func(ctx context.Context, cmd *cobra.Command, b bmc.BMC, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		b, err := o.connect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return fn(cmd.Context(), cmd, b, args[1:])
	}
}

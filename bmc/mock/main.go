// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/NVIDIA/libredfish/bmc/mock/server"
)

func main() {
	var (
		addr     string
		username string
		password string
	)
	flag.StringVar(&addr, "address", ":8000", "The address the mock Redfish service listens on.")
	flag.StringVar(&username, "username", "", "Require this user name. Authentication is off when empty.")
	flag.StringVar(&password, "password", "", "The password of the required user.")

	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctx := ctrl.SetupSignalHandler()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	log := ctrl.Log.WithName("RedfishMockServer")

	var srvOpts []server.Option
	if username != "" {
		srvOpts = append(srvOpts, server.WithCredentials(username, password))
	}
	srv := server.NewMockServer(log, addr, srvOpts...)

	if err := srv.Start(ctx); err != nil {
		log.Error(err, "Failed to start mock server")
		os.Exit(1)
	}

	log.Info("Mock server stopped")
}

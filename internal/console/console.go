// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/NVIDIA/libredfish/bmc/transport"
)

const (
	DefaultPort           = 22
	DefaultKnownHostsFile = "~/.ssh/known_hosts"
)

// Config describes a serial-over-LAN session on the SSH service of a BMC.
type Config struct {
	BMCAddress            string
	Port                  int
	Username              string
	Password              string
	SerialConsoleNumber   int
	KnownHostsFile        string
	SkipHostKeyValidation bool
}

// ConfigForEndpoint reuses the address and credentials of a Redfish endpoint.
func ConfigForEndpoint(ep transport.Endpoint) *Config {
	return &Config{
		BMCAddress:          ep.Host,
		Port:                DefaultPort,
		Username:            ep.Username,
		Password:            ep.Password,
		SerialConsoleNumber: 1,
		KnownHostsFile:      DefaultKnownHostsFile,
	}
}

func (c *Config) address() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.BMCAddress, strconv.Itoa(port))
}

// Command is the BMC shell command attaching to the serial console.
func (c *Config) Command() string {
	return fmt.Sprintf("console %d", c.SerialConsoleNumber)
}

func (c *Config) HostKeyCallback() (ssh.HostKeyCallback, error) {
	if c.SkipHostKeyValidation {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	file := c.KnownHostsFile
	if file == "" {
		file = DefaultKnownHostsFile
	}
	path, err := ExpandPath(file)
	if err != nil {
		return nil, fmt.Errorf("failed to expand known_hosts file path: %w", err)
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse known_hosts file: %w", err)
	}
	return cb, nil
}

func (c *Config) ClientConfig() (*ssh.ClientConfig, error) {
	if c.BMCAddress == "" {
		return nil, errors.New("BMC address must not be empty")
	}
	cb, err := c.HostKeyCallback()
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            c.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(c.Password)},
		HostKeyCallback: cb,
	}, nil
}

// Open attaches in and out to the serial console until the remote side ends
// the session or ctx is done.
func Open(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	log := ctrl.LoggerFrom(ctx).WithValues("BMC", cfg.BMCAddress, "Console", cfg.SerialConsoleNumber)

	sshConfig, err := cfg.ClientConfig()
	if err != nil {
		return err
	}
	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", cfg.address())
	if err != nil {
		return fmt.Errorf("failed to connect to BMC: %w", err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, cfg.address(), sshConfig)
	if err != nil {
		_ = netConn.Close()
		return fmt.Errorf("failed to connect to BMC: %w", err)
	}
	conn := ssh.NewClient(sshConn, chans, reqs)
	defer conn.Close() // nolint: errcheck

	session, err := conn.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close() // nolint: errcheck

	if err := session.RequestPty("xterm", 80, 40, ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}); err != nil {
		return fmt.Errorf("failed to request pseudo-terminal: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("could not get stdin pipe: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		return fmt.Errorf("could not get stdout pipe: %w", err)
	}

	copied := make(chan struct{})
	go func() {
		defer close(copied)
		if _, err := io.Copy(out, stdout); err != nil {
			log.Error(err, "Failed to copy console output")
		}
	}()

	if err := session.Start(cfg.Command()); err != nil {
		return fmt.Errorf("failed to start SOL command: %w", err)
	}
	log.V(1).Info("Serial-over-LAN session active")

	if in != nil {
		go func() {
			if _, err := io.Copy(stdin, in); err != nil {
				log.V(1).Info("Stopped forwarding console input", "Error", err.Error())
			}
		}()
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	err = session.Wait()
	<-copied
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("error during SOL session: %w", err)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[1:]), nil
	}
	return path, nil
}

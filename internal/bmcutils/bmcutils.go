// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package bmcutils

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/NVIDIA/libredfish/bmc"
	"github.com/NVIDIA/libredfish/bmc/transport"
)

// EnvPrefix prefixes the environment variables read by CredentialsFromEnv.
const EnvPrefix = "REDFISH"

// Credentials are the defaults for endpoints that do not carry their own.
type Credentials struct {
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	Insecure bool   `envconfig:"INSECURE"`
}

// CredentialsFromEnv reads REDFISH_USERNAME, REDFISH_PASSWORD and REDFISH_INSECURE.
func CredentialsFromEnv() (Credentials, error) {
	var c Credentials
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials from environment: %w", err)
	}
	return c, nil
}

// EndpointConfig is a named BMC of the configuration file.
type EndpointConfig struct {
	Address  string           `json:"address"`
	Port     int              `json:"port,omitempty"`
	Scheme   string           `json:"scheme,omitempty"`
	Vendor   string           `json:"vendor,omitempty"`
	Username string           `json:"username,omitempty"`
	Password string           `json:"password,omitempty"`
	Insecure bool             `json:"insecure,omitempty"`
	Timeout  *metav1.Duration `json:"timeout,omitempty"`
}

// ClientConfig tunes the client pool.
type ClientConfig struct {
	MaxInFlight       int64            `json:"maxInFlight,omitempty"`
	MaxRetries        uint             `json:"maxRetries,omitempty"`
	RequestsPerSecond float64          `json:"requestsPerSecond,omitempty"`
	RequestTimeout    *metav1.Duration `json:"requestTimeout,omitempty"`
	BasicAuth         bool             `json:"basicAuth,omitempty"`
}

// Config is the redfishctl configuration file.
type Config struct {
	Endpoints map[string]EndpointConfig `json:"endpoints,omitempty"`
	Client    ClientConfig              `json:"client,omitempty"`
}

// LoadConfig reads a YAML configuration file. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	for name, ep := range cfg.Endpoints {
		if ep.Address == "" {
			return nil, fmt.Errorf("endpoint %q has no address", name)
		}
	}
	return cfg, nil
}

// TransportOptions converts the client section into pool options. Unset
// values keep the transport defaults.
func (c *Config) TransportOptions() transport.Options {
	opts := transport.Options{
		MaxInFlight:       c.Client.MaxInFlight,
		MaxRetries:        c.Client.MaxRetries,
		RequestsPerSecond: c.Client.RequestsPerSecond,
		BasicAuth:         c.Client.BasicAuth,
	}
	if c.Client.RequestTimeout != nil {
		opts.RequestTimeout = c.Client.RequestTimeout.Duration
	}
	return opts
}

// Endpoint resolves target to an endpoint and the vendor pinned for it. A
// target that is not a configured name is taken as host[:port]. Credentials
// fill in what the configuration leaves empty.
func (c *Config) Endpoint(target string, creds Credentials) (transport.Endpoint, string, error) {
	cfg, ok := c.Endpoints[target]
	if !ok {
		host, port, err := SplitHostPort(target)
		if err != nil {
			return transport.Endpoint{}, "", err
		}
		cfg = EndpointConfig{Address: host, Port: port}
	}
	ep := transport.Endpoint{
		Host:     cfg.Address,
		Port:     cfg.Port,
		Scheme:   cfg.Scheme,
		Username: cfg.Username,
		Password: cfg.Password,
		Insecure: cfg.Insecure || creds.Insecure,
	}
	if ep.Username == "" {
		ep.Username = creds.Username
	}
	if ep.Password == "" {
		ep.Password = creds.Password
	}
	if cfg.Timeout != nil {
		ep.Timeout = cfg.Timeout.Duration
	}
	if err := ep.Validate(); err != nil {
		return transport.Endpoint{}, "", fmt.Errorf("invalid endpoint %q: %w", target, err)
	}
	return ep, cfg.Vendor, nil
}

// SplitHostPort splits host[:port]. A missing port is returned as 0.
func SplitHostPort(address string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		// no port
		return address, 0, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", address, err)
	}
	return host, port, nil
}

// CreateBMCClient returns the backend serving ep. An empty vendor identifies
// the BMC first.
func CreateBMCClient(ctx context.Context, pool *transport.ClientPool, ep transport.Endpoint, vendor string) (bmc.BMC, error) {
	client, err := pool.Client(ep)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redfish client: %w", err)
	}
	if vendor == "" {
		b, err := bmc.NewBMC(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("failed to identify BMC %s: %w", ep.Host, err)
		}
		return b, nil
	}
	v, err := bmc.ParseVendor(vendor)
	if err != nil {
		return nil, err
	}
	return bmc.NewBMCForVendor(ctx, client, v)
}

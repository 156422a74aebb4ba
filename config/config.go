// Package config loads the gateway configuration: a TOML file for the
// topology and query settings, with credentials overridable from the
// environment so they can stay out of the file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/nanoncore/nano-mml/types"
)

// Config is the full process configuration.
type Config struct {
	// Listen is the HTTP listen address
	Listen string `toml:"listen"`

	Gateway  GatewayConfig   `toml:"gateway"`
	Elements []ElementConfig `toml:"elements"`
	Lookups  LookupConfig    `toml:"lookups"`
	Query    QueryConfig     `toml:"query"`

	// SNMPCommunity is used by the per-NE reachability probe
	SNMPCommunity string `toml:"snmp_community"`
}

// GatewayConfig describes the management frontend connection.
type GatewayConfig struct {
	Address string `toml:"address"`
	Port    int    `toml:"port"`

	// Transport is "telnet" (default) or "ssh"
	Transport string `toml:"transport"`

	// Username/Password may be left empty in the file and supplied via
	// MAE_USERNAME / MAE_PASSWORD
	Username string `toml:"username"`
	Password string `toml:"password"`

	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Addr returns the dialable host:port of the frontend.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Address, g.Port)
}

// Timeout returns the per-read timeout as a duration.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// ElementConfig is one NE entry; file order is result order.
type ElementConfig struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
}

// LookupConfig points at the reference-table CSV files.
type LookupConfig struct {
	Operators string `toml:"operators"`
	Cells     string `toml:"cells"`
	Devices   string `toml:"devices"`
}

// QueryConfig carries query-side settings.
type QueryConfig struct {
	// MSISDNPattern validates inbound subscriber numbers
	MSISDNPattern string `toml:"msisdn_pattern"`

	// VNFCPDP / VNFCMM are the subsystem roles registered before the
	// respective query types
	VNFCPDP string `toml:"vnfc_pdp"`
	VNFCMM  string `toml:"vnfc_mm"`
}

// Load reads path, applies environment overrides and defaults, and
// validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MAE_USERNAME"); v != "" {
		cfg.Gateway.Username = v
	}
	if v := os.Getenv("MAE_PASSWORD"); v != "" {
		cfg.Gateway.Password = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 23
	}
	if cfg.Gateway.Transport == "" {
		cfg.Gateway.Transport = "telnet"
	}
	if cfg.Gateway.TimeoutSeconds == 0 {
		cfg.Gateway.TimeoutSeconds = 10
	}
	if cfg.Query.MSISDNPattern == "" {
		cfg.Query.MSISDNPattern = `^298\d{6}$`
	}
	if cfg.Query.VNFCPDP == "" {
		cfg.Query.VNFCPDP = "ugw"
	}
	if cfg.Query.VNFCMM == "" {
		cfg.Query.VNFCMM = "usn"
	}
	if cfg.SNMPCommunity == "" {
		cfg.SNMPCommunity = "public"
	}
}

// Validate rejects configurations that cannot run.
func Validate(cfg Config) error {
	if cfg.Gateway.Address == "" {
		return fmt.Errorf("gateway.address is required")
	}
	if cfg.Gateway.Username == "" || cfg.Gateway.Password == "" {
		return fmt.Errorf("gateway credentials are required (file or MAE_USERNAME/MAE_PASSWORD)")
	}
	if cfg.Gateway.Transport != "telnet" && cfg.Gateway.Transport != "ssh" {
		return fmt.Errorf("gateway.transport must be telnet or ssh, got %q", cfg.Gateway.Transport)
	}
	if len(cfg.Elements) == 0 {
		return fmt.Errorf("at least one element is required")
	}
	for i, el := range cfg.Elements {
		if el.Name == "" || el.Address == "" {
			return fmt.Errorf("elements[%d]: name and address are required", i)
		}
	}
	if _, err := regexp.Compile(cfg.Query.MSISDNPattern); err != nil {
		return fmt.Errorf("invalid msisdn_pattern: %w", err)
	}
	return nil
}

// Credentials returns the gateway login as session credentials.
func (c Config) Credentials() types.Credentials {
	return types.Credentials{Username: c.Gateway.Username, Password: c.Gateway.Password}
}

// Endpoints returns the configured elements in file order.
func (c Config) Endpoints() []types.NEEndpoint {
	out := make([]types.NEEndpoint, 0, len(c.Elements))
	for _, el := range c.Elements {
		out = append(out, types.NEEndpoint{Name: el.Name, Address: el.Address})
	}
	return out
}

// Package settings manages controller connection settings for pnpclaim.
package settings

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/pnpclaim/pkg/controller"
)

// Environment variables that override the settings file.
const (
	EnvHost     = "DNAC_HOST"
	EnvUser     = "DNAC_USER"
	EnvPassword = "DNAC_PASSWORD"
	EnvInsecure = "DNAC_INSECURE"
	EnvSettings = "PNPCLAIM_SETTINGS"
)

// Settings holds how to reach and authenticate to the controller
type Settings struct {
	// Host is the controller address (host[:port] or base URL)
	Host string `yaml:"host,omitempty"`

	// Username and Password authenticate the API session
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Insecure skips TLS certificate verification
	Insecure bool `yaml:"insecure,omitempty"`

	// Timeout bounds each HTTP request, e.g. "60s"
	Timeout string `yaml:"timeout,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	if p := os.Getenv(EnvSettings); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pnpclaim.yaml"
	}
	return filepath.Join(home, ".pnpclaim", "controller.yaml")
}

// Load reads settings from the default location and applies environment
// overrides.
func Load() (*Settings, error) {
	s, err := LoadFrom(DefaultSettingsPath())
	if err != nil {
		return nil, err
	}
	s.ApplyEnv(os.Getenv)
	return s, nil
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// SaveTo writes settings to a specific path. The file holds credentials
// and is written owner-only.
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides fields from environment variables looked up by getenv.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvHost); v != "" {
		s.Host = v
	}
	if v := getenv(EnvUser); v != "" {
		s.Username = v
	}
	if v := getenv(EnvPassword); v != "" {
		s.Password = v
	}
	if v := getenv(EnvInsecure); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.Insecure = b
		}
	}
}

// PromptPassword asks for the password on a terminal when none is
// configured. It is a no-op when a password is already set or in is not
// a terminal.
func (s *Settings) PromptPassword(in *os.File, out io.Writer) error {
	if s.Password != "" || !term.IsTerminal(int(in.Fd())) {
		return nil
	}
	fmt.Fprintf(out, "Password for %s@%s: ", s.Username, s.Host)
	pw, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	s.Password = strings.TrimRight(string(pw), "\r\n")
	return nil
}

// ControllerConfig converts the settings into a controller client config.
func (s *Settings) ControllerConfig() (controller.Config, error) {
	cfg := controller.Config{
		Host:     s.Host,
		Username: s.Username,
		Password: s.Password,
		Insecure: s.Insecure,
	}
	if s.Host == "" {
		return cfg, fmt.Errorf("controller host not set: use %s or %s", EnvHost, DefaultSettingsPath())
	}
	if s.Username == "" {
		return cfg, fmt.Errorf("controller username not set: use %s or %s", EnvUser, DefaultSettingsPath())
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

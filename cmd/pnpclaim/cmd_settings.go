package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/pnpclaim/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage controller connection settings",
	Long: `Manage controller connection settings stored in ~/.pnpclaim/controller.yaml
(or $PNPCLAIM_SETTINGS).

The password is not stored by these commands: set DNAC_PASSWORD or answer
the prompt when running a batch.

Examples:
  pnpclaim settings set host dnac.example.net
  pnpclaim settings set username admin
  pnpclaim settings set insecure true
  pnpclaim settings show`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := settings.DefaultSettingsPath()
		s, err := settings.LoadFrom(path)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Settings file: %s\n\n", path)

		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(out, "%-10s %s\n", name, value)
		}

		password := ""
		if s.Password != "" {
			password = "(set)"
		}
		printSetting("host", s.Host)
		printSetting("username", s.Username)
		printSetting("password", password)
		printSetting("insecure", strconv.FormatBool(s.Insecure))
		printSetting("timeout", s.Timeout)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  host      - Controller address (host[:port] or base URL)
  username  - API user
  insecure  - Skip TLS certificate verification (true/false)
  timeout   - Per-request timeout, e.g. 60s`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting, value := args[0], args[1]
		path := settings.DefaultSettingsPath()

		s, err := settings.LoadFrom(path)
		if err != nil {
			s = &settings.Settings{}
		}

		out := cmd.OutOrStdout()
		switch setting {
		case "host":
			s.Host = value
			fmt.Fprintf(out, "Controller host set to: %s\n", value)
		case "username", "user":
			s.Username = value
			fmt.Fprintf(out, "Username set to: %s\n", value)
		case "insecure":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid insecure value %q: %w", value, err)
			}
			s.Insecure = b
			fmt.Fprintf(out, "Insecure set to: %t\n", b)
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout %q: %w", value, err)
			}
			s.Timeout = value
			fmt.Fprintf(out, "Timeout set to: %s\n", value)
		default:
			return fmt.Errorf("unknown setting: %s (valid: host, username, insecure, timeout)", setting)
		}

		if err := s.SaveTo(path); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := (&settings.Settings{}).SaveTo(settings.DefaultSettingsPath()); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}

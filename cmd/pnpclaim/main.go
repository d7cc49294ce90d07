// pnpclaim - bulk plug-and-play onboarding
//
// Reads a device inventory CSV and, for each row, resolves the target site
// and day-0 template on the controller, imports the device into the PnP
// database and claims it into the site with the bound template parameters.
//
// Usage:
//
//	pnpclaim [-v] <inventory.csv>
//
// The inventory needs the columns name, serial, pid, siteName and
// templateName; every other column can feed a template parameter of the
// same name.
//
// Controller connection settings come from ~/.pnpclaim/controller.yaml
// (or $PNPCLAIM_SETTINGS), overridden by DNAC_HOST, DNAC_USER,
// DNAC_PASSWORD and DNAC_INSECURE.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/newtron-network/pnpclaim/pkg/cli"
	"github.com/newtron-network/pnpclaim/pkg/controller"
	"github.com/newtron-network/pnpclaim/pkg/pnp"
	"github.com/newtron-network/pnpclaim/pkg/settings"
	"github.com/newtron-network/pnpclaim/pkg/util"
	"github.com/newtron-network/pnpclaim/pkg/version"
)

var verbose bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "pnpclaim [-v] <inventory.csv>",
	Short:             "Bulk import and claim PnP devices from a CSV inventory",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Quiet by default, verbose on -v
		level := "warn"
		if verbose {
			level = "debug"
		}
		if err := util.SetLogLevel(level); err != nil {
			return err
		}
		util.Debugf("Logging enabled")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if version.Version == "dev" {
			fmt.Println("pnpclaim dev build")
		} else {
			fmt.Printf("pnpclaim %s\n", version.Info())
		}
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Diagnostic logging to stderr")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(settingsCmd)
}

func run(ctx context.Context, inventoryPath string, out io.Writer) error {
	log := util.WithRun(uuid.NewString())
	env := pnp.Env{Log: log}

	cfg, err := loadControllerConfig()
	if err != nil {
		return err
	}
	client, err := controller.NewClient(cfg, log)
	if err != nil {
		return err
	}
	if err := client.Login(ctx); err != nil {
		return err
	}
	env.Controller = client

	sites, err := pnp.NewSiteDirectory(ctx, env)
	if err != nil {
		return err
	}

	console := cli.NewConsole(out)
	console.Printf("Using device file: %s", inventoryPath)
	console.Separator()

	rows, err := pnp.ReadInventory(inventoryPath)
	if err != nil {
		return err
	}
	log.WithField("file", inventoryPath).Debugf("Read %d inventory rows", len(rows))

	runner := pnp.NewRunner(env, pnp.NewPipeline(env, sites), console)
	return runner.Run(ctx, rows)
}

func loadControllerConfig() (controller.Config, error) {
	s, err := settings.Load()
	if err != nil {
		util.Warnf("Could not load settings: %v", err)
		s = &settings.Settings{}
		s.ApplyEnv(os.Getenv)
	}
	if err := s.PromptPassword(os.Stdin, os.Stderr); err != nil {
		return controller.Config{}, err
	}
	return s.ControllerConfig()
}

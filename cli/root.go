// Package cli implements the stowaway command line interface: a thin cobra
// layer over the injector engine. Commands translate flags and arguments
// into engine calls and engine errors into human messages; no domain logic
// lives here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/stowaway/config"
	"github.com/zhubert/stowaway/injector"
	"github.com/zhubert/stowaway/logger"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// loadedConfig is filled by the root command's PersistentPreRunE before any
// subcommand runs.
var loadedConfig = config.Default()

// service builds the engine with the loaded configuration.
func service() *injector.Service {
	return injector.NewService(loadedConfig)
}

// NewRootCmd builds the stowaway command tree.
func NewRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "stowaway",
		Short: "Hide a text document inside the comments of a source file",
		Long: `Stowaway hides a text document, one page at a time, inside ordinary
line comments of a source file. The host keeps working; the current page
travels with it as marker comments. Navigate with next, prev, and goto,
and remove every trace with strip.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			loadedConfig = cfg
			if debug || cfg.Debug {
				logger.SetDebug(true)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newInjectCmd())
	cmd.AddCommand(newNextCmd())
	cmd.AddCommand(newPrevCmd())
	cmd.AddCommand(newGotoCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newStripCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI and exits nonzero on error.
func Execute() {
	err := NewRootCmd().Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/md5recon/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for md5recon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "md5recon",
		Short: "Reconcile MD5 checksum manifests",
		Long: `md5recon compares an authoritative master MD5 manifest with every MD5.txt
found under a raw directory tree.

Each filename is reported as MATCH, MISMATCH, ONLY_IN_MASTER, ONLY_IN_RAW,
DUPLICATE_IN_MASTER or DUPLICATE_IN_RAW in a tab-separated report, and a
per-status summary is printed. Runs are recorded so later runs of the same
job can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		logJSON, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return logJSON
}

// setupLogger creates the logger selected by the global flags.
func setupLogger(w io.Writer, verbose, logJSON bool) *slog.Logger {
	if logJSON {
		return log.NewJSONLogger(w, verbose)
	}
	return log.NewLogger(w, verbose)
}

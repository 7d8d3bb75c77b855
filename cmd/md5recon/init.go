package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/md5recon/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/md5recon.yaml
var configTemplate embed.FS

const (
	// configFileName is where init writes by default.
	configFileName = config.DefaultConfigFile

	// templatePath locates the template inside configTemplate.
	templatePath = "templates/md5recon.yaml"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a md5recon configuration file",
		Long: `Init writes a commented .md5recon configuration file to the current directory.

The generated file includes:
- Default report format, key mode and manifest name
- Concurrency and history settings
- Commented examples of named jobs

Examples:
  # Create .md5recon in current directory
  md5recon init

  # Create config file at a specific path
  md5recon init -o ~/.config/md5recon/config.yaml

  # Force overwrite existing file
  md5recon init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Where to write the configuration file")
	cmd.Flags().BoolP("force", "f", false,
		"Replace the file if it already exists")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(path, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", path)
	fmt.Fprintln(out, "\nAdd your jobs under 'jobs:' and run them with:")
	fmt.Fprintln(out, "  md5recon run --job <name>")
	return nil
}

// writeConfigTemplate writes the embedded template to path, creating parent
// directories. An existing file is kept unless force is set.
func writeConfigTemplate(path string, force bool) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		if !force {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read embedded template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

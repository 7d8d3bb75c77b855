package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/md5recon/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "md5recon"

	// DefaultManifestName is the file name searched for under the raw root.
	DefaultManifestName = "MD5.txt"

	// DefaultReportName is the report file name used when no output is given.
	// The report is placed next to the master manifest.
	DefaultReportName = "md5_report.tsv"

	// DefaultFormat is the report file format.
	DefaultFormat = "tsv"

	// DefaultConcurrency is the number of jobs reconciled at the same time.
	DefaultConcurrency = 4
)

// Job describes one reconciliation: a master manifest, a raw tree and
// where to put the report.
type Job struct {
	// Name identifies the job in the configuration file and run history.
	// Empty for ad-hoc runs from command-line flags.
	Name string

	// Master is the path of the authoritative manifest.
	Master string

	// RawRoot is the directory searched recursively for raw manifests.
	RawRoot string

	// Output is the report path. Empty selects DefaultReportName next to Master.
	Output string

	// Format is the report format: tsv, markdown or json.
	Format string

	// KeyMode selects how filenames are keyed: basename or path.
	KeyMode model.KeyMode

	// ManifestName is the raw manifest file name. Empty selects DefaultManifestName.
	ManifestName string

	// ContinueOnError skips unreadable raw manifests instead of failing the job.
	ContinueOnError bool
}

// NewJob creates a Job with default format, key mode and manifest name.
func NewJob(name, master, rawRoot string) Job {
	return Job{
		Name:         name,
		Master:       master,
		RawRoot:      rawRoot,
		Format:       DefaultFormat,
		KeyMode:      model.KeyModeBasename,
		ManifestName: DefaultManifestName,
	}
}

// ReportPath returns the path the report will be written to.
// Without an explicit output the report goes next to the master manifest,
// with an extension matching the format.
func (j Job) ReportPath() string {
	if j.Output != "" {
		return j.Output
	}
	name := DefaultReportName
	switch j.Format {
	case "markdown", "md":
		name = strings.TrimSuffix(name, ".tsv") + ".md"
	case "json":
		name = strings.TrimSuffix(name, ".tsv") + ".json"
	}
	return filepath.Join(filepath.Dir(j.Master), name)
}

// Manifest returns the raw manifest file name to search for.
func (j Job) Manifest() string {
	if j.ManifestName == "" {
		return DefaultManifestName
	}
	return j.ManifestName
}

// Validate checks the job before any manifest is read.
// The master must be an existing regular file and the raw root an existing directory.
func (j Job) Validate() error {
	info, err := os.Stat(j.Master)
	if j.Master == "" || err != nil || info.IsDir() {
		return fmt.Errorf("%w: %q", ErrMasterNotFound, j.Master)
	}

	info, err = os.Stat(j.RawRoot)
	if j.RawRoot == "" || err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %q", ErrRawRootNotFound, j.RawRoot)
	}

	switch j.Format {
	case "", "tsv", "markdown", "md", "json":
	default:
		return fmt.Errorf("%w: %q (valid: tsv, markdown, json)", ErrInvalidFormat, j.Format)
	}

	switch j.KeyMode {
	case "", model.KeyModeBasename, model.KeyModePath:
	default:
		return fmt.Errorf("%w: %q (valid: basename, path)", ErrInvalidKeyMode, j.KeyMode)
	}

	if name := j.Manifest(); strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidManifestName, name)
	}

	return nil
}

// Config holds the options for one md5recon invocation.
// It is populated from CLI flags and the configuration file and passed
// through the application instead of living in global state.
type Config struct {
	// Jobs are the reconciliations to run.
	Jobs []Job

	// Concurrency is the number of jobs processed at the same time.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// File is the loaded configuration file, or nil if none was found.
	File *File

	// DBDir is the directory holding the run history database.
	// Defaults to XDGDataDir().
	DBDir string

	// SaveToDB records each run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for md5recon.
// On Linux: ~/.local/share/md5recon
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for md5recon.
// On Linux: ~/.config/md5recon
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Jobs) == 0 {
		return ErrNoJob
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	for _, job := range c.Jobs {
		if err := job.Validate(); err != nil {
			if job.Name != "" {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			return err
		}
	}

	return nil
}

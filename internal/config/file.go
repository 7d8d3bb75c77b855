package config

import (
	"fmt"
	"sort"

	"github.com/nao1215/md5recon/internal/model"
)

// JobConfig is one job entry of the configuration file.
// Empty fields fall back to the file's defaults and then to the built-in defaults.
type JobConfig struct {
	// Master is the path of the authoritative manifest.
	Master string `yaml:"master,omitempty"`

	// RawRoot is the directory searched for raw manifests.
	RawRoot string `yaml:"raw_root,omitempty"`

	// Output is the report path.
	Output string `yaml:"output,omitempty"`

	// Format is the report format: tsv, markdown or json.
	Format string `yaml:"format,omitempty"`

	// KeyMode is basename or path.
	KeyMode string `yaml:"key_mode,omitempty"`

	// ManifestName is the raw manifest file name.
	ManifestName string `yaml:"manifest_name,omitempty"`

	// ContinueOnError skips unreadable raw manifests.
	// A pointer so that a job can turn off a default of true.
	ContinueOnError *bool `yaml:"continue_on_error,omitempty"`
}

// File represents the structure of the .md5recon configuration file.
type File struct {
	// Defaults apply to every job unless the job overrides them.
	Defaults JobConfig `yaml:"defaults,omitempty"`

	// Jobs maps job names to their settings.
	Jobs map[string]JobConfig `yaml:"jobs,omitempty"`

	// Concurrency is the number of jobs run at the same time.
	// Zero keeps DefaultConcurrency.
	Concurrency int `yaml:"concurrency,omitempty"`

	// History turns run history recording on or off. Unset means on.
	History *bool `yaml:"history,omitempty"`
}

// JobNames returns the names of all configured jobs, sorted.
func (f *File) JobNames() []string {
	names := make([]string, 0, len(f.Jobs))
	for name := range f.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetJobConfig returns the settings of a named job merged over the defaults.
// The second result is false when the job is not defined.
func (f *File) GetJobConfig(name string) (JobConfig, bool) {
	jc, ok := f.Jobs[name]
	if !ok {
		return f.Defaults, false
	}

	result := f.Defaults
	if jc.Master != "" {
		result.Master = jc.Master
	}
	if jc.RawRoot != "" {
		result.RawRoot = jc.RawRoot
	}
	if jc.Output != "" {
		result.Output = jc.Output
	}
	if jc.Format != "" {
		result.Format = jc.Format
	}
	if jc.KeyMode != "" {
		result.KeyMode = jc.KeyMode
	}
	if jc.ManifestName != "" {
		result.ManifestName = jc.ManifestName
	}
	if jc.ContinueOnError != nil {
		result.ContinueOnError = jc.ContinueOnError
	}
	return result, true
}

// Job resolves a named job into a Job ready for validation.
func (f *File) Job(name string) (Job, error) {
	jc, ok := f.GetJobConfig(name)
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return jc.toJob(name), nil
}

// AllJobs resolves every configured job in name order.
func (f *File) AllJobs() []Job {
	names := f.JobNames()
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		jc, _ := f.GetJobConfig(name)
		jobs = append(jobs, jc.toJob(name))
	}
	return jobs
}

// AdHocJob builds a job from command-line paths with the file's defaults applied.
func (f *File) AdHocJob(name, master, rawRoot string) Job {
	jc := f.Defaults
	jc.Master = master
	jc.RawRoot = rawRoot
	return jc.toJob(name)
}

// HistoryEnabled reports whether runs should be recorded.
func (f *File) HistoryEnabled() bool {
	return f.History == nil || *f.History
}

// toJob fills unset fields with the built-in defaults.
func (jc JobConfig) toJob(name string) Job {
	job := NewJob(name, jc.Master, jc.RawRoot)
	job.Output = jc.Output
	if jc.Format != "" {
		job.Format = jc.Format
	}
	if jc.KeyMode != "" {
		job.KeyMode = model.KeyMode(jc.KeyMode)
	}
	if jc.ManifestName != "" {
		job.ManifestName = jc.ManifestName
	}
	if jc.ContinueOnError != nil {
		job.ContinueOnError = *jc.ContinueOnError
	}
	return job
}

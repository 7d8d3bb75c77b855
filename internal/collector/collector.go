package collector

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/nao1215/md5recon/internal/manifest"
	"github.com/nao1215/md5recon/internal/model"
	"github.com/nao1215/md5recon/internal/progress"
)

// DefaultManifestName is the file name searched for under the raw root.
const DefaultManifestName = "MD5.txt"

// Collector reads manifests into indexes.
type Collector struct {
	// sink receives one message per raw manifest scanned.
	sink progress.Sink

	// logger is used for structured logging.
	logger *slog.Logger

	// manifestName is the exact file name matched during discovery.
	manifestName string

	// keyMode selects basename or path keys.
	keyMode model.KeyMode

	// continueOnError records unreadable raw manifests instead of aborting.
	continueOnError bool

	// read loads one manifest file.
	read func(path string) ([]manifest.Record, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithSink sets the progress sink. A nil sink discards progress.
func WithSink(sink progress.Sink) Option {
	return func(c *Collector) {
		c.sink = progress.Or(sink)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithManifestName overrides the raw manifest file name.
func WithManifestName(name string) Option {
	return func(c *Collector) {
		if name != "" {
			c.manifestName = name
		}
	}
}

// WithKeyMode selects how filenames become index keys.
func WithKeyMode(mode model.KeyMode) Option {
	return func(c *Collector) {
		if mode != "" {
			c.keyMode = mode
		}
	}
}

// WithContinueOnError makes CollectRaw skip manifests (and directories) it
// cannot read. Each skipped path is reported in RawCorpus.Failures.
func WithContinueOnError(continueOnError bool) Option {
	return func(c *Collector) {
		c.continueOnError = continueOnError
	}
}

// New creates a Collector with the given options.
func New(opts ...Option) *Collector {
	c := &Collector{
		sink:         progress.Nop{},
		logger:       slog.Default(),
		manifestName: DefaultManifestName,
		keyMode:      model.KeyModeBasename,
		read:         manifest.ReadFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectMaster reads the manifest at path into a HashIndex.
// Every hash is kept, including repeats, so duplicates can be detected later.
func (c *Collector) CollectMaster(ctx context.Context, path string) (*model.HashIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := c.read(path)
	if err != nil {
		return nil, err
	}

	idx := model.NewHashIndex()
	for _, rec := range records {
		idx.Add(c.masterKey(rec), rec.Hash)
	}

	c.logger.Debug("master manifest read",
		"path", path,
		"records", len(records),
		"names", idx.Len(),
	)
	return idx, nil
}

// RawCorpus is everything collected from a raw directory tree.
type RawCorpus struct {
	// Hashes maps each filename to the hashes found for it.
	Hashes *model.HashIndex

	// Sources maps each filename to the manifest directories that listed it.
	Sources *model.ProvenanceIndex

	// Manifests lists the discovered manifest files in processing order.
	Manifests []string

	// Failures lists manifests or directories skipped under WithContinueOnError.
	Failures []model.ManifestFailure
}

// CollectRaw discovers every raw manifest under root and merges them.
// An empty tree is not an error. Without WithContinueOnError, the first
// unreadable manifest aborts the scan.
func (c *Collector) CollectRaw(ctx context.Context, root string) (*RawCorpus, error) {
	corpus := &RawCorpus{
		Hashes:  model.NewHashIndex(),
		Sources: model.NewProvenanceIndex(),
	}

	onWalkError := func(p string, err error) error {
		if !c.continueOnError {
			return err
		}
		c.logger.Warn("skipping unreadable path", "path", p, "error", err)
		corpus.Failures = append(corpus.Failures, model.ManifestFailure{Path: p, Message: err.Error()})
		return nil
	}

	files, err := discover(root, c.manifestName, onWalkError)
	if err != nil {
		return nil, fmt.Errorf("failed to discover manifests under %s: %w", root, err)
	}
	corpus.Manifests = files

	total := len(files)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress.Messagef(c.sink, "[scan] %d/%d %s", i+1, total, file)

		records, err := c.read(file)
		if err != nil {
			if !c.continueOnError {
				return nil, err
			}
			c.logger.Warn("skipping unreadable manifest", "path", file, "error", err)
			corpus.Failures = append(corpus.Failures, model.ManifestFailure{Path: file, Message: err.Error()})
			continue
		}

		dir := filepath.Dir(file)
		for _, rec := range records {
			key := c.rawKey(root, dir, rec)
			corpus.Hashes.Add(key, rec.Hash)
			corpus.Sources.Add(key, dir)
		}
	}

	c.logger.Debug("raw corpus collected",
		"root", root,
		"manifests", total,
		"names", corpus.Hashes.Len(),
		"failures", len(corpus.Failures),
	)
	return corpus, nil
}

// masterKey returns the index key for a master record.
func (c *Collector) masterKey(rec manifest.Record) string {
	if c.keyMode == model.KeyModePath {
		return rec.Path
	}
	return rec.Name
}

// rawKey returns the index key for a record found in the manifest in dir.
// In path mode the key is the listed path prefixed with dir relative to root.
func (c *Collector) rawKey(root, dir string, rec manifest.Record) string {
	if c.keyMode != model.KeyModePath {
		return rec.Name
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return rec.Path
	}
	return path.Join(filepath.ToSlash(rel), rec.Path)
}

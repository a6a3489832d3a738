package application

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/confmerge/confmerge/internal/loader"
	"github.com/confmerge/confmerge/internal/override"
)

// Config carries the settings of a single merge run as resolved from the
// command line.
type Config struct {
	// ConfigPath is the primary YAML file to load.
	ConfigPath string
	// Overrides are raw key.path=value arguments applied after merging.
	Overrides []string
	// OutputPath, when set, receives the merged document instead of Stdout.
	OutputPath string
	// InheritKey is the reserved top-level key naming parent files; empty
	// means the loader default.
	InheritKey string
	// SearchPaths replace the loader's default file resolution paths when
	// non-empty.
	SearchPaths []string
	// ResolvePathValues rewrites ./, ../ and ~/ string values relative to
	// the declaring file.
	ResolvePathValues bool
	// Stdout receives the merged document when OutputPath is empty.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// App executes the load, inherit, and override pipeline.
type App struct {
	cfg    Config
	loader *loader.Loader
	logger *zap.Logger
	stdout io.Writer
}

// New wires an App from the provided configuration.
func New(cfg Config, logger *zap.Logger) *App {
	opts := []loader.Option{
		loader.WithPathValueResolution(cfg.ResolvePathValues),
		loader.WithLogger(logger),
	}
	if cfg.InheritKey != "" {
		opts = append(opts, loader.WithInheritKey(cfg.InheritKey))
	}
	if len(cfg.SearchPaths) > 0 {
		opts = append(opts, loader.WithSearchPaths(cfg.SearchPaths...))
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &App{
		cfg:    cfg,
		loader: loader.New(opts...),
		logger: logger,
		stdout: stdout,
	}
}

// Run loads the configuration file, applies the overrides, and writes the
// merged document as YAML to the output file or Stdout.
func (a *App) Run() error {
	entries, err := override.ParseAll(a.cfg.Overrides)
	if err != nil {
		return err
	}

	doc, err := a.loader.Load(a.cfg.ConfigPath)
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded",
		zap.String("path", a.cfg.ConfigPath),
		zap.Int("keys", len(doc)))

	merged, err := override.Apply(doc, entries)
	if err != nil {
		return err
	}
	a.logger.Debug("overrides applied", zap.Int("count", len(entries)))

	if a.cfg.OutputPath != "" {
		if err := loader.Save(a.cfg.OutputPath, merged); err != nil {
			return err
		}
		a.logger.Debug("merged document written", zap.String("path", a.cfg.OutputPath))
		return nil
	}

	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode merged config: %w", err)
	}
	if _, err := a.stdout.Write(data); err != nil {
		return fmt.Errorf("write merged config: %w", err)
	}
	return nil
}

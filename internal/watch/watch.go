// Package watch keeps a settings container in sync with its settings file.
// It watches the file's directory and rewrites the container, after a short
// debounce, whenever the settings file is written or replaced.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dvc-tools/dvcsettings/internal/cliconfig"
	"github.com/dvc-tools/dvcsettings/pkg/confirm"
	"github.com/dvc-tools/dvcsettings/pkg/container"
	"github.com/dvc-tools/dvcsettings/pkg/log"
)

// Config holds configuration options for the watcher.
type Config struct {
	// SettingsPath is the TOML or YAML settings file to watch.
	SettingsPath string

	// OutPath overrides the "out" key of the settings file when set.
	OutPath string

	// DebounceDelay is the delay to wait after a file change before writing.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Logger receives watcher and writer messages. Default: no-op.
	Logger log.Logger

	// OnWrite, when set, is called after every regeneration attempt.
	OnWrite func(outcome container.Outcome, err error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Watcher regenerates a container from a settings file.
type Watcher struct {
	settingsPath string
	outPath      string
	delay        time.Duration
	logger       log.Logger
	onWrite      func(container.Outcome, error)
}

// New creates a watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.SettingsPath == "" {
		return nil, errors.New("watch: settings path is required")
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}
	return &Watcher{
		settingsPath: filepath.Clean(cfg.SettingsPath),
		outPath:      cfg.OutPath,
		delay:        cfg.DebounceDelay,
		logger:       cfg.Logger,
		onWrite:      cfg.OnWrite,
	}, nil
}

// Run writes the container once, then again after each change to the
// settings file, until ctx is cancelled. A settings file that fails to load
// or validate is logged and skipped; the previous container stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.settingsPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.settingsPath), err)
	}

	w.logger.Info("watching settings", log.String("path", w.settingsPath))
	w.regenerate(ctx)

	debounce := time.NewTimer(w.delay)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.settingsPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(w.delay)

		case <-debounce.C:
			w.regenerate(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) regenerate(ctx context.Context) {
	outcome, err := w.write(ctx)
	if err != nil {
		w.logger.Error("settings not regenerated", log.String("path", w.settingsPath), log.Err(err))
	}
	if w.onWrite != nil {
		w.onWrite(outcome, err)
	}
}

func (w *Watcher) write(ctx context.Context) (container.Outcome, error) {
	cfg, err := cliconfig.LoadConfig(w.settingsPath)
	if err != nil {
		return container.OutcomeFailed, err
	}
	if w.outPath != "" {
		cfg.Out = w.outPath
	}

	// The watcher owns its output, so replacing it needs no confirmation.
	writer, err := container.NewWriter(cfg.Params, cfg.Model, cfg.Out,
		container.WithConfirmer(confirm.Always),
		container.WithLogger(w.logger),
	)
	if err != nil {
		return container.OutcomeFailed, err
	}
	return writer.Write(ctx)
}

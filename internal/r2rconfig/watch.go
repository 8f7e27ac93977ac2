package r2rconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultReloadDebounce = 200 * time.Millisecond

// ReloadFunc is told about every reload attempt. On failure cfg is nil and
// the holder still carries the previous config.
type ReloadFunc func(cfg *Config, err error)

type WatchOptions struct {
	Debounce time.Duration
	Logger   *zap.Logger
	OnReload ReloadFunc
}

// Watcher reloads a configuration file when it changes and publishes the
// result through a Holder.
type Watcher struct {
	path     string
	holder   *Holder
	fw       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
	onReload ReloadFunc
}

// NewWatcher starts watching the directory containing path. The directory is
// watched rather than the file so atomic rename-into-place saves are seen.
func NewWatcher(path string, holder *Holder, opts WatchOptions) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("CFG_WATCH: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("CFG_WATCH: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("CFG_WATCH: %w", err)
	}
	w := &Watcher{
		path:     abs,
		holder:   holder,
		fw:       fw,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		onReload: opts.OnReload,
	}
	if w.debounce <= 0 {
		w.debounce = defaultReloadDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	w.logger = w.logger.Named("watch").With(zap.String("path", abs))
	return w, nil
}

// Run processes file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watch error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous config", zap.Error(err))
	} else {
		w.holder.Swap(cfg)
		w.logger.Info("config reloaded")
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}

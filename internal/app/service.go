package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"r2r/internal/audit"
	"r2r/internal/config"
	"r2r/internal/doctor"
	"r2r/internal/fsutil"
	"r2r/internal/kvstore"
	"r2r/internal/logging"
	"r2r/internal/r2rconfig"
)

type Options struct {
	SettingsPath string
	// Logger overrides the logger built from settings.
	Logger *zap.Logger
}

type Service struct {
	SettingsPath string
	Settings     config.Config

	Store    kvstore.Store
	Audit    *audit.Logger
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

func New(ctx context.Context, opts Options) (*Service, error) {
	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = config.DefaultConfigPath()
	}
	settings, err := config.Ensure(settingsPath)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.New(settings.Logging)
		if err != nil {
			return nil, err
		}
	}

	var (
		registry *prometheus.Registry
		metrics  *kvstore.Metrics
	)
	if settings.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		if metrics, err = kvstore.NewMetrics(registry); err != nil {
			return nil, err
		}
	}

	store, err := kvstore.Open(ctx, settings.Store, metrics)
	if err != nil {
		return nil, err
	}

	auditPath := ""
	if settings.Audit.Enabled {
		if auditPath, err = config.ResolvePath(settings.Audit.Path); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("SET_CONFIG_AUDIT: %w", err)
		}
	}

	logger.Named("app").Debug("service ready",
		zap.String("settings", settingsPath),
		zap.String("backend", settings.Store.Backend))
	return &Service{
		SettingsPath: settingsPath,
		Settings:     settings,
		Store:        store,
		Audit:        audit.New(auditPath),
		Logger:       logger,
		Registry:     registry,
	}, nil
}

// Validate loads and validates the document at path.
func (s *Service) Validate(path string) (*r2rconfig.Config, error) {
	return r2rconfig.LoadFromFile(path)
}

// Lint lists every structural problem of the document at path.
func (s *Service) Lint(path string) ([]r2rconfig.Issue, error) {
	data, err := r2rconfig.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r2rconfig.Lint(data, r2rconfig.DefaultSchema)
}

// Show returns the materialized document at path as indented canonical JSON,
// defaults filled in.
func (s *Service) Show(path string) ([]byte, error) {
	cfg, err := r2rconfig.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return r2rconfig.MarshalIndent(cfg)
}

// Push validates the document at path and stores it under key.
func (s *Service) Push(ctx context.Context, path, key string) (*r2rconfig.Config, error) {
	cfg, err := r2rconfig.LoadFromFile(path)
	if err == nil {
		err = r2rconfig.SaveToStore(ctx, cfg, s.Store, key)
	}
	s.record(audit.OpPush, key, err, map[string]string{"source": path})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("configuration pushed", zap.String("key", key), zap.String("source", path))
	return cfg, nil
}

// Pull loads the document stored under key.
func (s *Service) Pull(ctx context.Context, key string) (*r2rconfig.Config, error) {
	cfg, err := r2rconfig.LoadFromStore(ctx, s.Store, key)
	s.record(audit.OpPull, key, err, nil)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Export writes the document stored under key to out.
func (s *Service) Export(ctx context.Context, key, out string) error {
	err := s.export(ctx, key, out)
	s.record(audit.OpExport, key, err, map[string]string{"target": out})
	return err
}

func (s *Service) export(ctx context.Context, key, out string) error {
	cfg, err := r2rconfig.LoadFromStore(ctx, s.Store, key)
	if err != nil {
		return err
	}
	blob, err := r2rconfig.MarshalIndent(cfg)
	if err != nil {
		return err
	}
	if err := fsutil.EnsureDir(filepath.Dir(out)); err != nil {
		return err
	}
	return fsutil.AtomicWrite(out, append(blob, '\n'), 0o644)
}

// Watch loads path, then reloads it on every change until ctx is done. fn
// sees every reload attempt.
func (s *Service) Watch(ctx context.Context, path string, fn r2rconfig.ReloadFunc) (*r2rconfig.Holder, <-chan error, error) {
	cfg, err := r2rconfig.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	holder := r2rconfig.NewHolder(cfg)
	w, err := r2rconfig.NewWatcher(path, holder, r2rconfig.WatchOptions{
		Logger:   s.Logger,
		OnReload: fn,
	})
	if err != nil {
		return nil, nil, err
	}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return holder, done, nil
}

// Doctor checks the settings, the store and, when path is set, a document.
func (s *Service) Doctor(ctx context.Context, path string) doctor.Report {
	svc := &doctor.Service{SettingsPath: s.SettingsPath, Store: s.Store, ConfigPath: path}
	return svc.Run(ctx)
}

func (s *Service) Close() error {
	var errs []error
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	if s.Logger != nil {
		// Sync fails on terminals; nothing useful to report.
		_ = s.Logger.Sync()
	}
	return errors.Join(errs...)
}

func (s *Service) record(op, key string, opErr error, fields map[string]string) {
	if err := s.Audit.Record(op, key, opErr, fields); err != nil {
		s.Logger.Warn("audit log write failed", zap.String("operation", op), zap.Error(err))
	}
}

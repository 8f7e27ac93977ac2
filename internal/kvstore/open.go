package kvstore

import (
	"context"
	"fmt"
	"time"

	"r2r/internal/config"
)

// Open builds the store selected by settings, applying the key prefix and,
// when m is non-nil, instrumentation.
func Open(ctx context.Context, settings config.StoreConfig, m *Metrics) (Store, error) {
	var (
		store Store
		err   error
	)
	switch settings.Backend {
	case config.BackendMemory:
		store = NewMemory()
	case config.BackendRedis:
		timeout, perr := time.ParseDuration(settings.Redis.DialTimeout)
		if perr != nil {
			return nil, fmt.Errorf("redis dial_timeout: %w", perr)
		}
		store, err = NewRedis(ctx, RedisOptions{
			Addr:        settings.Redis.Addr,
			Password:    settings.Redis.Password,
			DB:          settings.Redis.DB,
			DialTimeout: timeout,
		})
	case config.BackendSQLite:
		var path string
		path, err = config.ResolvePath(settings.SQLite.Path)
		if err == nil {
			if err = ensureParent(path); err == nil {
				store, err = OpenSQLite(ctx, path)
			}
		}
	case config.BackendDir:
		var path string
		path, err = config.ResolvePath(settings.Dir.Path)
		if err == nil {
			store, err = OpenDir(path)
		}
	case config.BackendS3:
		store, err = NewS3(ctx, S3Options{
			Bucket:       settings.S3.Bucket,
			Prefix:       settings.S3.Prefix,
			Region:       settings.S3.Region,
			Endpoint:     settings.S3.Endpoint,
			UsePathStyle: settings.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("SET_CONFIG_STORE: unsupported store backend %q", settings.Backend)
	}
	if err != nil {
		return nil, err
	}
	return WithPrefix(Instrument(store, settings.Backend, m), settings.KeyPrefix), nil
}

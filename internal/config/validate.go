package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

var allowedBackends = map[string]struct{}{
	BackendMemory: {},
	BackendRedis:  {},
	BackendSQLite: {},
	BackendDir:    {},
	BackendS3:     {},
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedLogFormats = map[string]struct{}{
	"text": {},
	"json": {},
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("SET_CONFIG_VERSION: unsupported version %d", cfg.Version)
	}
	if err := checkMinVersion(cfg.MinVersion, Version); err != nil {
		return err
	}
	if _, ok := allowedBackends[cfg.Store.Backend]; !ok {
		return fmt.Errorf("SET_CONFIG_STORE: unsupported store backend %q", cfg.Store.Backend)
	}
	switch cfg.Store.Backend {
	case BackendRedis:
		if cfg.Store.Redis.Addr == "" {
			return fmt.Errorf("SET_CONFIG_STORE: redis backend missing addr")
		}
		if cfg.Store.Redis.DB < 0 {
			return fmt.Errorf("SET_CONFIG_STORE: invalid redis db %d", cfg.Store.Redis.DB)
		}
		if _, err := time.ParseDuration(cfg.Store.Redis.DialTimeout); err != nil {
			return fmt.Errorf("SET_CONFIG_STORE: invalid redis dial_timeout %q", cfg.Store.Redis.DialTimeout)
		}
	case BackendSQLite:
		if cfg.Store.SQLite.Path == "" {
			return fmt.Errorf("SET_CONFIG_STORE: sqlite backend missing path")
		}
	case BackendDir:
		if cfg.Store.Dir.Path == "" {
			return fmt.Errorf("SET_CONFIG_STORE: dir backend missing path")
		}
	case BackendS3:
		if strings.TrimSpace(cfg.Store.S3.Bucket) == "" {
			return fmt.Errorf("SET_CONFIG_STORE: s3 backend missing bucket")
		}
	}
	if _, ok := allowedLogLevels[strings.ToLower(cfg.Logging.Level)]; !ok {
		return fmt.Errorf("SET_CONFIG_LOGGING: invalid log level %q", cfg.Logging.Level)
	}
	if _, ok := allowedLogFormats[strings.ToLower(cfg.Logging.Format)]; !ok {
		return fmt.Errorf("SET_CONFIG_LOGGING: invalid log format %q", cfg.Logging.Format)
	}
	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		return fmt.Errorf("SET_CONFIG_AUDIT: audit enabled without path")
	}
	return nil
}

// checkMinVersion rejects settings written for a newer tool. Development
// builds whose version is not semver are never rejected.
func checkMinVersion(minVersion, current string) error {
	if minVersion == "" {
		return nil
	}
	want := normalizeSemver(minVersion)
	if want == "" {
		return fmt.Errorf("SET_CONFIG_VERSION: invalid min_version %q", minVersion)
	}
	have := normalizeSemver(current)
	if have == "" {
		return nil
	}
	if semver.Compare(have, want) < 0 {
		return fmt.Errorf("SET_CONFIG_VERSION: settings require r2r %s or newer, running %s", want, have)
	}
	return nil
}

func normalizeSemver(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

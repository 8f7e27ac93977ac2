package config

import "strings"

func Normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.Redis.Addr == "" {
		cfg.Store.Redis.Addr = def.Store.Redis.Addr
	}
	if cfg.Store.Redis.DialTimeout == "" {
		cfg.Store.Redis.DialTimeout = def.Store.Redis.DialTimeout
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = def.Store.SQLite.Path
	}
	if cfg.Store.Dir.Path == "" {
		cfg.Store.Dir.Path = def.Store.Dir.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = def.Audit.Path
	}
	return cfg
}

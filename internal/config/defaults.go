package config

const (
	SchemaVersion = 1

	// DefaultKeyPrefix namespaces configuration documents in shared stores.
	DefaultKeyPrefix = "R2RConfig:"
)

// DefaultConfig returns a fully-populated v1 settings document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Store: StoreConfig{
			Backend:   BackendSQLite,
			KeyPrefix: DefaultKeyPrefix,
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				DialTimeout: "5s",
			},
			SQLite: SQLiteConfig{Path: "~/.r2r/store.db"},
			Dir:    DirConfig{Path: "~/.r2r/store"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    "~/.r2r/audit.log",
		},
	}
}

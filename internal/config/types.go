package config

// Config is the v1 settings schema of the r2r tool itself.
type Config struct {
	Version    int           `toml:"version"`
	MinVersion string        `toml:"min_version,omitempty"`
	Store      StoreConfig   `toml:"store"`
	Logging    LoggingConfig `toml:"logging"`
	Audit      AuditConfig   `toml:"audit"`
	Metrics    MetricsConfig `toml:"metrics"`
}

// StoreConfig selects the key-value store configuration documents are
// pushed to and pulled from.
type StoreConfig struct {
	Backend   string       `toml:"backend" json:"backend"`
	KeyPrefix string       `toml:"key_prefix" json:"keyPrefix"`
	Redis     RedisConfig  `toml:"redis" json:"redis"`
	SQLite    SQLiteConfig `toml:"sqlite" json:"sqlite"`
	Dir       DirConfig    `toml:"dir" json:"dir"`
	S3        S3Config     `toml:"s3" json:"s3"`
}

type RedisConfig struct {
	Addr        string `toml:"addr" json:"addr"`
	Password    string `toml:"password,omitempty" json:"-"`
	DB          int    `toml:"db" json:"db"`
	DialTimeout string `toml:"dial_timeout" json:"dialTimeout"`
}

type SQLiteConfig struct {
	Path string `toml:"path" json:"path"`
}

type DirConfig struct {
	Path string `toml:"path" json:"path"`
}

type S3Config struct {
	Bucket       string `toml:"bucket" json:"bucket"`
	Region       string `toml:"region,omitempty" json:"region,omitempty"`
	Endpoint     string `toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Prefix       string `toml:"prefix,omitempty" json:"prefix,omitempty"`
	UsePathStyle bool   `toml:"use_path_style,omitempty" json:"usePathStyle,omitempty"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type AuditConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendDir    = "dir"
	BackendS3     = "s3"
)

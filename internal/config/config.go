// Package config provides configuration types and defaults for taskboard.
package config

import "time"

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig `json:"server" mapstructure:"server" yaml:"server"`
	Store  StoreConfig  `json:"store"  mapstructure:"store"  yaml:"store"`
	Log    LogConfig    `json:"log"    mapstructure:"log"    yaml:"log"`
}

// ServerConfig controls the HTTP listener and the static front end.
type ServerConfig struct {
	Addr            string        `json:"addr"             mapstructure:"addr"             yaml:"addr"`
	StaticDir       string        `json:"static_dir"       mapstructure:"static_dir"       yaml:"static_dir"`
	IndexFile       string        `json:"index_file"       mapstructure:"index_file"       yaml:"index_file"`
	ReadTimeout     time.Duration `json:"read_timeout"     mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"    mapstructure:"write_timeout"    yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StoreConfig selects where tasks are persisted.
type StoreConfig struct {
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`
	Path   string `json:"path"   mapstructure:"path"   yaml:"path"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Debug  bool   `json:"debug"  mapstructure:"debug"  yaml:"debug"`
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":5000",
			StaticDir:       "frontend",
			IndexFile:       "index.html",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   "tasks.json",
		},
		Log: LogConfig{
			Format: FormatConsole,
		},
	}
}

// DefaultStorePath returns the default persistence path for a driver.
func DefaultStorePath(driver string) string {
	if driver == DriverSQLite {
		return "tasks.db"
	}
	return "tasks.json"
}

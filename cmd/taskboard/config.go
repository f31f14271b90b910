package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/metalagman/taskboard/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "taskboard.yaml"
	envPrefix         = "TASKBOARD"
	dotEnvFile        = ".env"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func resolveConfigPath(workDir, path string) string {
	if path == "" {
		path = defaultConfigPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	return path
}

func setDefaults() {
	def := config.Default()
	viper.SetDefault("server.addr", def.Server.Addr)
	viper.SetDefault("server.static_dir", def.Server.StaticDir)
	viper.SetDefault("server.index_file", def.Server.IndexFile)
	viper.SetDefault("server.read_timeout", def.Server.ReadTimeout.String())
	viper.SetDefault("server.write_timeout", def.Server.WriteTimeout.String())
	viper.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout.String())
	viper.SetDefault("store.driver", def.Store.Driver)
	viper.SetDefault("log.debug", def.Log.Debug)
	viper.SetDefault("log.format", def.Log.Format)
	// store.path depends on the driver and is filled in after decoding.
	_ = viper.BindEnv("store.path")
}

// loadDotEnv exports variables from workDir/.env. Variables already present
// in the environment win.
func loadDotEnv(workDir string) error {
	path := filepath.Join(workDir, dotEnvFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("loaded env file")
	return nil
}

func loadConfig(workDir string) (config.Config, error) {
	if err := loadDotEnv(workDir); err != nil {
		return config.Config{}, err
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	setDefaults()

	path := resolveConfigPath(workDir, viper.GetString("config"))
	switch _, err := os.Stat(path); {
	case err == nil:
		viper.SetConfigFile(path)
		viper.SetConfigType(configType(path))
		if err := viper.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", path).Msg("config file not found, using defaults")
	default:
		return config.Config{}, fmt.Errorf("stat config: %w", err)
	}

	if err := config.ValidateSettings(viper.AllSettings()); err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	if err := viper.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = config.DefaultStorePath(cfg.Store.Driver)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

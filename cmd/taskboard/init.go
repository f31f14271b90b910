package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/metalagman/taskboard/internal/config"
	"github.com/metalagman/taskboard/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write a default taskboard.yaml into the current directory, or to the path given by --config.",
		Args:  cobra.NoArgs,
		// The config may not exist or be valid yet, so skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(debug, config.FormatConsole)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return err
			}
			path := resolveConfigPath(workDir, cfgFile)
			written, err := writeDefaultConfig(path, force)
			if err != nil {
				return err
			}
			if !written {
				log.Info().Str("path", path).Msg("config already exists, skipping")
				return nil
			}
			log.Info().Str("path", path).Msg("installed default config")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func defaultConfigYAML() ([]byte, error) {
	out, err := yaml.Marshal(config.Default())
	if err != nil {
		return nil, fmt.Errorf("encode default config: %w", err)
	}
	return out, nil
}

// writeDefaultConfig reports whether the file was written.
func writeDefaultConfig(path string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("stat config: %w", err)
		}
	}
	data, err := defaultConfigYAML()
	if err != nil {
		return false, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

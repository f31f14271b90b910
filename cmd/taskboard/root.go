package main

import (
	"fmt"
	"os"

	"github.com/metalagman/taskboard/internal/config"
	"github.com/metalagman/taskboard/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	debug     bool
	appConfig = config.Default()
	rootCmd   = &cobra.Command{
		Use:           "taskboard",
		Short:         "taskboard is a minimal task board server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(workDir)
		if err != nil {
			logging.Init(debug, config.FormatConsole)
			return err
		}
		logging.Init(debug || cfg.Log.Debug, cfg.Log.Format)
		appConfig = cfg
		return nil
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(initCmd())
	return rootCmd.Execute()
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}

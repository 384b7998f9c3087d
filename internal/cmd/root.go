// Package cmd provides kbsr's CLI command structure: the default
// interactive study TUI plus init/stats/config maintenance subcommands.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dbalmain/kbsr/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "kbsr",
	Short: "Interactive keybind trainer with spaced repetition",
	Long: `kbsr teaches keyboard shortcuts by having you physically type them.
A spaced-repetition scheduler picks which cards are due for review each
session and adjusts future due dates from how you performed.

Run with no subcommand to start a study session.`,
	RunE: runStudy,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is "+config.ConfigFile()+")")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("KBSR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}

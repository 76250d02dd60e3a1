package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/bcext/cmd/bcext/commands"
	"github.com/fivetwenty-io/bcext/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bcext",
	Short: "Business Central extension CLI",
	Long: `A command-line interface for provisioning Business Central extensions.

Run "bcext init" in an extension workspace to register the extension described
by its app.json, picking an assignable object range when it does not exist yet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.bcext/config.yml)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL")
	rootCmd.PersistentFlags().String("username", "", "API username")
	rootCmd.PersistentFlags().String("password", "", "API password")
	rootCmd.PersistentFlags().String("output", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Int("retry-max", constants.DefaultRetryMax, "maximum retries for failed requests")
	rootCmd.PersistentFlags().Duration("timeout", constants.DefaultHTTPTimeout, "HTTP request timeout")

	// Bind flags to viper
	bindings := map[string]string{
		"config":                       "config",
		constants.ConfigKeyAPIBaseURL:  "api-url",
		constants.ConfigKeyAPIUsername: "username",
		constants.ConfigKeyAPIPassword: "password",
		constants.ConfigKeyOutput:      "output",
		constants.ConfigKeyVerbose:     "verbose",
		constants.ConfigKeyNoColor:     "no-color",
		constants.ConfigKeyRetryMax:    "retry-max",
		constants.ConfigKeyTimeout:     "timeout",
	}

	for key, flag := range bindings {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	commands.Version = version

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewExtensionCommand())
	rootCmd.AddCommand(commands.NewRangesCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.bcext/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType(constants.ConfigFileType)
		viper.SetConfigName(constants.ConfigFileName)
	}

	// BCEXT_API_PASSWORD overrides api_password
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(constants.ConfigKeyVerbose) {
			_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

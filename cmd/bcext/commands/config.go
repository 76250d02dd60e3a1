package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/bcext/internal/constants"
)

// Config represents the persisted CLI configuration.
type Config struct {
	APIBaseURL  string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty"`
	APIUsername string `json:"api_username,omitempty" yaml:"api_username,omitempty"`
	APIPassword string `json:"api_password,omitempty" yaml:"api_password,omitempty"`
	Output      string `json:"output,omitempty"       yaml:"output,omitempty"`
	NoColor     bool   `json:"no_color,omitempty"     yaml:"no_color,omitempty"`
	RetryMax    int    `json:"retry_max,omitempty"    yaml:"retry_max,omitempty"`
	Timeout     string `json:"timeout,omitempty"      yaml:"timeout,omitempty"`
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	switch key {
	case constants.ConfigKeyAPIBaseURL:
		c.APIBaseURL = value
	case constants.ConfigKeyAPIUsername:
		c.APIUsername = value
	case constants.ConfigKeyAPIPassword:
		c.APIPassword = value
	case constants.ConfigKeyOutput:
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = value
		default:
			return fmt.Errorf("%w: %s", constants.ErrUnknownOutput, value)
		}
	case constants.ConfigKeyNoColor:
		noColor, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		c.NoColor = noColor
	case constants.ConfigKeyRetryMax:
		retryMax, err := strconv.Atoi(value)
		if err != nil || retryMax < 0 {
			return fmt.Errorf("invalid value for %s: %q is not a non-negative integer", key, value)
		}

		c.RetryMax = retryMax
	case constants.ConfigKeyTimeout:
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		c.Timeout = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// Unset clears key.
func (c *Config) Unset(key string) error {
	switch key {
	case constants.ConfigKeyAPIBaseURL:
		c.APIBaseURL = ""
	case constants.ConfigKeyAPIUsername:
		c.APIUsername = ""
	case constants.ConfigKeyAPIPassword:
		c.APIPassword = ""
	case constants.ConfigKeyOutput:
		c.Output = ""
	case constants.ConfigKeyNoColor:
		c.NoColor = false
	case constants.ConfigKeyRetryMax:
		c.RetryMax = 0
	case constants.ConfigKeyTimeout:
		c.Timeout = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: `Manage the API endpoint, credentials and CLI settings.

Settings are stored in $HOME/.bcext/config.yml and can be overridden with
BCEXT_* environment variables (for example BCEXT_API_PASSWORD) or flags.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration. The password is masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := effectiveConfig()
			if config.APIPassword != "" {
				config.APIPassword = constants.MaskedSecret
			}

			return renderOutput(cmd.OutOrStdout(), config, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")

				rows := [][]string{
					{"API URL", valueOrNA(config.APIBaseURL)},
					{"Username", valueOrNA(config.APIUsername)},
					{"Password", valueOrNA(config.APIPassword)},
					{"Output", valueOrNA(config.Output)},
					{"No Color", strconv.FormatBool(config.NoColor)},
					{"Retry Max", strconv.Itoa(config.RetryMax)},
					{"Timeout", valueOrNA(config.Timeout)},
				}

				for _, row := range rows {
					err := table.Append(row)
					if err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY [VALUE]",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Keys: api_base_url, api_username, api_password,
output, no_color, retry_max, timeout.

When no VALUE is given for api_password it is read from the terminal without echo.`,
		Args: cobra.RangeArgs(1, constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			var value string

			switch {
			case len(args) == constants.MinimumArgumentCount:
				value = args[1]
			case key == constants.ConfigKeyAPIPassword:
				password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				value = password
			default:
				return fmt.Errorf("%w: %s", constants.ErrConfigValueNeeded, key)
			}

			err := updateConfigFile(func(config *Config) error {
				return config.Set(key, value)
			})
			if err != nil {
				return err
			}

			viper.Set(key, value)

			display := value
			if key == constants.ConfigKeyAPIPassword {
				display = constants.MaskedSecret
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, display)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			err := updateConfigFile(func(config *Config) error {
				return config.Unset(key)
			})
			if err != nil {
				return err
			}

			viper.Set(key, nil)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return nil
		},
	}
}

// effectiveConfig returns the configuration after flags and environment are applied.
func effectiveConfig() *Config {
	config := &Config{
		APIBaseURL:  viper.GetString(constants.ConfigKeyAPIBaseURL),
		APIUsername: viper.GetString(constants.ConfigKeyAPIUsername),
		APIPassword: viper.GetString(constants.ConfigKeyAPIPassword),
		Output:      viper.GetString(constants.ConfigKeyOutput),
		NoColor:     viper.GetBool(constants.ConfigKeyNoColor),
		RetryMax:    viper.GetInt(constants.ConfigKeyRetryMax),
	}

	if timeout := viper.GetDuration(constants.ConfigKeyTimeout); timeout > 0 {
		config.Timeout = timeout.String()
	}

	return config
}

// configFilePath returns the config file in use, or $HOME/.bcext/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}

// loadConfigFile reads the persisted configuration. A missing file is an empty configuration.
func loadConfigFile(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path) // #nosec G304 -- path is the CLI's own config file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// updateConfigFile applies update to the persisted configuration only, so values coming
// from flags or the environment are never written to disk.
func updateConfigFile(update func(*Config) error) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	config, err := loadConfigFile(path)
	if err != nil {
		return err
	}

	err = update(config)
	if err != nil {
		return err
	}

	return saveConfigFile(path, config)
}

// readPassword reads a password without echo from a terminal, or a single line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(prompt, "Password: ")

		password, err := term.ReadPassword(int(file.Fd()))

		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		return string(password), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("%w: %s", constants.ErrConfigValueNeeded, constants.ConfigKeyAPIPassword)
	}

	return password, nil
}

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/config"
)

// ConfigCmd manages CLI configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the quantum CLI configuration settings.`,
}

// configShowCmd displays current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current CLI configuration values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		configPath, _ := config.ConfigPath()
		cachePath, _ := cfg.GetCachePath()

		fmt.Println("Current configuration:")
		fmt.Printf("  Config file:   %s\n", configPath)
		fmt.Printf("  Base URL:      %s\n", cfg.BaseURL)
		fmt.Printf("  Timeout:       %s\n", cfg.Timeout)
		fmt.Printf("  Poll interval: %s\n", cfg.PollInterval)
		fmt.Printf("  Output format: %s\n", cfg.OutputFormat)
		fmt.Printf("  Bot name:      %s\n", cfg.BotName)
		fmt.Printf("  Language:      %s\n", cfg.Language)
		fmt.Printf("  Cache path:    %s\n", cachePath)
		fmt.Printf("  No fallback:   %t\n", cfg.NoFallback)
		fmt.Printf("  Debug:         %t\n", cfg.Debug)
		return nil
	},
}

// configInitCmd initializes the configuration file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with default values if one doesn't exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Configuration file already exists: %s\n", configPath)
			fmt.Println("Use 'quantum config show' to view current settings.")
			return nil
		}

		defaultCfg := config.DefaultConfig()
		if err := config.SaveConfig(defaultCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("\nDefault settings:")
		fmt.Printf("  Base URL:      %s\n", defaultCfg.BaseURL)
		fmt.Printf("  Timeout:       %s\n", defaultCfg.Timeout)
		fmt.Printf("  Output format: %s\n", defaultCfg.OutputFormat)
		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  base_url       - Base URL of the meeting intelligence API
  timeout        - Request timeout (e.g., 30s, 1m)
  poll_interval  - Poll interval for --follow and --watch (e.g., 5s)
  output_format  - Default output format (text, json, yaml)
  bot_name       - Display name the transcription bot joins with
  language       - Default transcription language code
  cache_path     - Location of the local results cache
  no_fallback    - Disable cache/sample fallback (true/false)
  debug          - Enable debug mode (true/false)

Examples:
  quantum config set base_url https://api.quantum.example/api
  quantum config set timeout 1m
  quantum config set output_format json
  quantum config set language pt-BR`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		currentCfg, err := config.LoadConfig()
		if err != nil {
			currentCfg = config.DefaultConfig()
		}

		switch key {
		case "base_url":
			currentCfg.BaseURL = value
		case "timeout":
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid timeout %q: %w", value, err)
			}
			currentCfg.Timeout = duration
		case "poll_interval":
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid poll interval %q: %w", value, err)
			}
			currentCfg.PollInterval = duration
		case "output_format":
			format := config.OutputFormat(value)
			if !format.IsValid() {
				return fmt.Errorf("invalid output format %q (must be text, json, or yaml)", value)
			}
			currentCfg.OutputFormat = format
		case "bot_name":
			currentCfg.BotName = value
		case "language":
			if err := validateLanguage(value); err != nil {
				return err
			}
			currentCfg.Language = value
		case "cache_path":
			currentCfg.CachePath = value
		case "no_fallback":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", value)
			}
			currentCfg.NoFallback = b
		case "debug":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", value)
			}
			currentCfg.Debug = b
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if err := currentCfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveConfig(currentCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

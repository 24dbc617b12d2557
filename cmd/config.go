package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteflow-ai/noteflow/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for noteflow.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with database connection settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}

		if err := config.InitConfig(databaseURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("Please edit the database_url and API keys in this file before processing content.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration file path and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration file: %s\n\n", configPath)

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Printf("DATABASE_URL:       %s\n", cfg.DatabaseURL)
		fmt.Printf("LISTEN_ADDR:        %s\n", cfg.ListenAddr)
		fmt.Printf("UPLOAD_DIR:         %s\n", cfg.UploadDir)
		fmt.Printf("OPENAI_API_KEY:     %s\n", maskKey(cfg.OpenAIAPIKey))
		fmt.Printf("ASSEMBLYAI_API_KEY: %s\n", maskKey(cfg.AssemblyAIAPIKey))
		fmt.Printf("YOUTUBE_API_KEY:    %s\n", maskKey(cfg.YouTubeAPIKey))

		return nil
	},
}

// maskKey hides all but the last four characters of a credential
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

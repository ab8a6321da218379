package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codemate/internal/app"
	"codemate/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "codemate",
	Short: "Learn programming in your terminal",
	Long:  "CodeMate — a terminal companion for learning Java, C, and Python with lessons, quizzes, practice exercises, and an AI tutor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides CODEMATE_CONFIG)")
	rootCmd.PersistentFlags().String("data", "", "Data directory (overrides CODEMATE_DATA)")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig resolves configuration with flag overrides on top of the file
// and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if dir, _ := cmd.Flags().GetString("data"); dir != "" {
		cfg.Storage.Dir = dir
	}
	return cfg, nil
}

// openApp builds the service graph for a command invocation. Callers must
// Close the returned app.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("start codemate: %w", err)
	}
	return a, nil
}

// Package main provides the bestintern command line tool, which extracts
// structured metadata from resumes and job postings with a language model.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/bestintern/internal/config"
	"github.com/jonathan/bestintern/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	verbose      bool
	outputFormat string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bestintern",
	Short: "Structured extraction for resumes and job postings",
	Long: "bestintern reads resumes (PDF) and job postings (web pages), asks a language model to fill a " +
		"JSON Schema from their text, and validates the answer, retrying with corrections when it does not conform.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./bestintern.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatYAML, "Output format: yaml or json")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if outputFormat != formatYAML && outputFormat != formatJSON {
		return fmt.Errorf("unsupported output format %q (want yaml or json)", outputFormat)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger.Init(cfg.Log)
	appConfig = cfg
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

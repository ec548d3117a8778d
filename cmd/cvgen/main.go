// Package main provides the cvgen command line editor and preview server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	storageDir string
	labelsCode string
)

var rootCmd = &cobra.Command{
	Use:          "cvgen",
	Short:        "CV builder",
	Long:         "cvgen edits a single CV document, validates it and exports it as an A4 HTML preview or PDF.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&storageDir, "dir", "", "Storage directory (overrides storage.dir)")
	rootCmd.PersistentFlags().StringVar(&labelsCode, "labels", "", "Section label set, e.g. es or en (overrides render.labels)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

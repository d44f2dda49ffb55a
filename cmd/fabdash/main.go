// Package main provides the entry point for the fab-order dashboard server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fabdash",
	Short: "Fabrication dashboard order server",
	Long:  "Fabdash serves the fabrication shop dashboard: it tracks job release records, partitions them into staging subsets, and resolves drag-and-drop reordering gestures against the persisted fab order.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package cmd implements the wallet CLI's cobra command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Demo wallet for the minichain proof-of-work chain",
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

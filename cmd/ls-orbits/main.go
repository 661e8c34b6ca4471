// Command ls-orbits computes positions and rise/transit/set times of
// planets, asteroids and comets from their orbital elements.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ls-orbits %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

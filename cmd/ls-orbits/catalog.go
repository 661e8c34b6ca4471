package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-orbits/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the body catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog bodies",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog as TOML",
	Long:  "Writes the active catalog as TOML, suitable as a starting point for --catalog.",
	Args:  cobra.NoArgs,
	RunE:  runCatalogExport,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	bodies := report.ExportBodies(e.catalog)
	return output(cmd, bodies, func(w io.Writer) {
		report.WriteBodies(w, bodies)
	})
}

func runCatalogExport(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	return e.catalog.WriteTOML(cmd.OutOrStdout())
}

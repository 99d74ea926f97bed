package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/admin"
	"mercator-hq/gcpolicy/pkg/schema"
)

var exportFlags struct {
	out string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the live column families of a table as a schema file",
	Long: `Read the column families of a table and print them in schema file format,
ready to be committed and applied later.

Examples:
  gcpolicy export --table my-table > families.yaml
  gcpolicy export --table my-table --out families.yaml`,
	Args: cobra.NoArgs,
	RunE: exportSchema,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "output file (default: stdout)")
}

func exportSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	table, err := resolveTable("")
	if err != nil {
		return err
	}
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	families, err := admin.ListFamilies(ctx, client, table)
	if err != nil {
		return err
	}

	data, err := schema.Encode(schema.FromFamilies(table.Table, families))
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	if exportFlags.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportFlags.out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportFlags.out, err)
	}
	app.logger.InfoContext(ctx, "schema exported", "table", table.Name(), "families", len(families), "path", exportFlags.out)
	return nil
}

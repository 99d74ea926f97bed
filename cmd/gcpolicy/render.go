package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

var renderFlags struct {
	file string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the GC rules of a schema file",
	Long: `Parse a schema file and print each family's GC rule. Text output shows the
rule as an expression; json and yaml output show the admin API wire form.

Examples:
  gcpolicy render --file families.yaml
  gcpolicy render --file families.yaml --output json`,
	Args: cobra.NoArgs,
	RunE: renderSchema,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFlags.file, "file", "f", "", "schema file (default: schema.path from config)")
}

func renderSchema(cmd *cobra.Command, args []string) error {
	doc, err := parseSchema(renderFlags.file, false)
	if err != nil {
		return err
	}

	if app.format == cli.FormatText {
		var b strings.Builder
		for _, f := range doc.Families {
			switch {
			case f.Drop:
				fmt.Fprintf(&b, "%s\tdrop\n", f.ID)
			case f.Rule == nil:
				fmt.Fprintf(&b, "%s\tno gc rule\n", f.ID)
			default:
				fmt.Fprintf(&b, "%s\t%s\n", f.ID, gcrule.String(f.Rule))
			}
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
		return err
	}

	rules := make(map[string]any, len(doc.Families))
	for _, f := range doc.Families {
		if f.Drop || f.Rule == nil {
			continue
		}
		wire, err := protojson.Marshal(gcrule.ToProto(f.Rule))
		if err != nil {
			return fmt.Errorf("failed to encode rule of %s: %w", f.ID, err)
		}
		var v any
		if err := json.Unmarshal(wire, &v); err != nil {
			return err
		}
		rules[f.ID] = v
	}
	return writeOutput(cmd, rules)
}

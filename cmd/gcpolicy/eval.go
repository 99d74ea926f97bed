package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/admin"
	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/gcrule"
	"mercator-hq/gcpolicy/pkg/schema"
)

var evalFlags struct {
	file          string
	family        string
	age           string
	newerVersions int
	live          bool
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Check whether a cell version is eligible for garbage collection",
	Long: `Evaluate a family's GC rule against one cell version, described by its age and
the number of newer versions of the same column. Every node of the rule is
shown with its verdict; comparisons are strict, so a version exactly 30 days
old is not collected by a 30 day max age.

The rule comes from the schema file, or from the live table with --live.

Examples:
  gcpolicy eval --file families.yaml --family cf5 --age 40d --newer-versions 3
  gcpolicy eval --live --table my-table --family cf5 --newer-versions 11`,
	Args: cobra.NoArgs,
	RunE: evalRule,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.file, "file", "f", "", "schema file (default: schema.path from config)")
	evalCmd.Flags().StringVar(&evalFlags.family, "family", "", "column family id")
	evalCmd.Flags().StringVar(&evalFlags.age, "age", "0s", "age of the cell version (e.g. 36h, 30d, 3600)")
	evalCmd.Flags().IntVar(&evalFlags.newerVersions, "newer-versions", 0, "number of newer versions of the same column")
	evalCmd.Flags().BoolVar(&evalFlags.live, "live", false, "read the rule from the table instead of the schema file")
}

func evalRule(cmd *cobra.Command, args []string) error {
	if evalFlags.family == "" {
		return cli.NewConfigError("family", "--family is required")
	}
	if evalFlags.newerVersions < 0 {
		return cli.NewConfigError("newer-versions", "must not be negative")
	}
	age, err := schema.ParseAge(evalFlags.age)
	if err != nil {
		return cli.NewConfigError("age", err.Error())
	}

	rule, err := lookupRule(cmd)
	if err != nil {
		return err
	}

	verdict := gcrule.Explain(rule, gcrule.Cell{Age: age, NewerVersions: evalFlags.newerVersions})
	if app.format == cli.FormatText {
		_, err := fmt.Fprint(cmd.OutOrStdout(), formatVerdict(verdict))
		return err
	}
	return writeOutput(cmd, verdict)
}

func lookupRule(cmd *cobra.Command) (gcrule.Rule, error) {
	if !evalFlags.live {
		doc, err := parseSchema(evalFlags.file, false)
		if err != nil {
			return nil, err
		}
		f, ok := doc.Family(evalFlags.family)
		if !ok || f.Drop {
			return nil, cli.NewConfigError("family", fmt.Sprintf("family %q is not declared in %s", evalFlags.family, doc.Source))
		}
		return f.Rule, nil
	}

	ctx := cmd.Context()
	table, err := resolveTable("")
	if err != nil {
		return nil, err
	}
	client, err := openClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	families, err := admin.ListFamilies(ctx, client, table)
	if err != nil {
		return nil, err
	}
	rule, ok := families[evalFlags.family]
	if !ok {
		return nil, cli.NewConfigError("family", fmt.Sprintf("family %q does not exist in %s", evalFlags.family, table.Name()))
	}
	return rule, nil
}

func formatVerdict(v *gcrule.Verdict) string {
	var b strings.Builder
	var walk func(v *gcrule.Verdict, depth int)
	walk = func(v *gcrule.Verdict, depth int) {
		mark := "✗"
		if v.Eligible {
			mark = "✓"
		}
		fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", depth), mark, v.Expr)
		for _, c := range v.Children {
			walk(c, depth+1)
		}
	}
	walk(v, 0)
	if v.Eligible {
		b.WriteString("Eligible for garbage collection.\n")
	} else {
		b.WriteString("Retained.\n")
	}
	return b.String()
}

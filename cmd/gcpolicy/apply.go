package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/reconcile"
)

var applyFlags struct {
	file   string
	prune  bool
	strict bool
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a schema file to a table",
	Long: `Apply the column family GC rules declared in a schema file.

Missing families are created and families with a different rule are updated,
in one ModifyColumnFamilies call. Families marked "drop: true" are dropped.
With --prune, families the schema does not mention are dropped as well.

Examples:
  # Apply the schema named by schema.path in the config
  gcpolicy apply --config gcpolicy.yaml

  # Apply a specific file and drop undeclared families
  gcpolicy apply --file families.yaml --prune`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcileOnce(cmd, false)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the modifications apply would make",
	Long: `Compare a schema file with the live column families of a table and print the
modifications apply would send, without changing anything.

Examples:
  gcpolicy plan --file families.yaml
  gcpolicy plan --file families.yaml --prune --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcileOnce(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd, planCmd)

	for _, cmd := range []*cobra.Command{applyCmd, planCmd} {
		cmd.Flags().StringVarP(&applyFlags.file, "file", "f", "", "schema file (default: schema.path from config)")
		cmd.Flags().BoolVar(&applyFlags.prune, "prune", false, "drop families absent from the schema")
		cmd.Flags().BoolVar(&applyFlags.strict, "strict", false, "treat schema warnings as errors")
	}
}

func runReconcileOnce(cmd *cobra.Command, dryRun bool) error {
	ctx := cmd.Context()

	doc, err := parseSchema(applyFlags.file, applyFlags.strict)
	if err != nil {
		return err
	}
	table, err := resolveTable(doc.Table)
	if err != nil {
		return err
	}

	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := reconcile.Options{
		Prune:   applyFlags.prune || config.MustGetConfig().Schema.Prune,
		DryRun:  dryRun,
		Metrics: app.metrics,
		Logger:  app.logger,
	}
	if !dryRun {
		store, err := openHistory()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}
		opts.History = store
	}

	r := reconcile.New(client, table, loadedSchema{doc: doc}, opts)
	res, err := r.Run(ctx, reconcile.TriggerCLI)
	if err != nil {
		return err
	}
	return writeOutput(cmd, newPlanView(res))
}

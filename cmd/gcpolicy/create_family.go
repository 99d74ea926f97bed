package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/admin"
	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
	"mercator-hq/gcpolicy/pkg/history"
	"mercator-hq/gcpolicy/pkg/reconcile"
)

var createFamilyFlags struct {
	family      string
	createTable bool
}

var createFamilyCmd = &cobra.Command{
	Use:   "create-family",
	Short: "Create a column family with a nested GC rule",
	Long: `Create a column family whose GC rule collects a cell version when more than
10 newer versions exist, or when it is older than 30 days and more than 2 newer
versions exist:

  (versions() > 10 || (age() > 30d && versions() > 2))

Examples:
  # Create cf5 in an existing table
  gcpolicy create-family --project my-project --instance my-instance --table my-table

  # Against the emulator, creating the table first
  gcpolicy create-family --emulator localhost:8086 --project p --instance i \
    --table t --create-table`,
	Args: cobra.NoArgs,
	RunE: createFamily,
}

func init() {
	rootCmd.AddCommand(createFamilyCmd)

	createFamilyCmd.Flags().StringVar(&createFamilyFlags.family, "family", "cf5", "column family id")
	createFamilyCmd.Flags().BoolVar(&createFamilyFlags.createTable, "create-table", false, "create the table if it does not exist")
}

// nestedRule is Union(MaxVersions(10), Intersection(MaxAge(30d), MaxVersions(2))).
func nestedRule() (gcrule.Rule, error) {
	maxVersions10, err := gcrule.MaxVersions(10)
	if err != nil {
		return nil, err
	}
	maxAge30d, err := gcrule.MaxAge(30 * 24 * time.Hour)
	if err != nil {
		return nil, err
	}
	maxVersions2, err := gcrule.MaxVersions(2)
	if err != nil {
		return nil, err
	}
	intersection, err := gcrule.Intersection(maxAge30d, maxVersions2)
	if err != nil {
		return nil, err
	}
	return gcrule.Union(maxVersions10, intersection)
}

func createFamily(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reporter := cli.NewStatusReporter(cmd.OutOrStdout(), globalFlags.quiet)
	id := createFamilyFlags.family

	table, err := resolveTable("")
	if err != nil {
		return err
	}

	rule, err := nestedRule()
	if err != nil {
		return err
	}
	mod, err := family.BuildCreateModification(id, rule)
	if err != nil {
		return err
	}

	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if createFamilyFlags.createTable {
		if err := client.CreateTable(ctx, table); err != nil && status.Code(err) != codes.AlreadyExists {
			return err
		}
	}

	reporter.Step("Creating column family %s with a Nested GC rule...", id)
	mods := []family.Modification{mod}
	applyErr := admin.ApplyModifications(ctx, client, table, mods)

	if store != nil {
		entries := history.NewEntries(uuid.NewString(), table.Name(), reconcile.TriggerCLI, mods, applyErr)
		if err := store.Record(ctx, entries...); err != nil {
			app.logger.WarnContext(ctx, "failed to record history", "error", err)
		}
	}
	if applyErr != nil {
		return applyErr
	}

	reporter.Done("Created column family %s with a Nested GC rule.", id)
	app.logger.DebugContext(ctx, "column family created",
		"table", table.Name(),
		"family", id,
		"rule", gcrule.String(rule),
	)
	return nil
}


package main

import (
	"context"
	"fmt"

	"mercator-hq/gcpolicy/pkg/admin"
	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/history"
	"mercator-hq/gcpolicy/pkg/schema"
)

// adminClient is what the commands need from the admin API.
type adminClient interface {
	admin.TableAdministrationClient
	admin.FamilyLister
	admin.TableCreator
	Close() error
}

// dialAdmin connects to the admin API. Tests replace it.
var dialAdmin = func(ctx context.Context, cfg *config.BigtableConfig) (adminClient, error) {
	return admin.Dial(ctx, cfg)
}

// openClient dials the admin API and wraps the connection with metrics,
// tracing and logging.
func openClient(ctx context.Context) (adminClient, error) {
	cfg := config.MustGetConfig()
	if err := cfg.Bigtable.RequireTarget(); err != nil {
		return nil, err
	}

	conn, err := dialAdmin(ctx, &cfg.Bigtable)
	if err != nil {
		return nil, err
	}
	return admin.NewInstrumentedClient(conn, app.metrics, app.tracer, app.logger), nil
}

// resolveTable picks the table from --table, then the schema document,
// then bigtable.table in the config. --table must agree with the schema.
func resolveTable(schemaTable string) (admin.TableRef, error) {
	cfg := config.MustGetConfig()
	table := globalFlags.table
	if table != "" && schemaTable != "" && table != schemaTable {
		return admin.TableRef{}, cli.NewConfigError("table",
			fmt.Sprintf("schema is for table %q but --table is %q", schemaTable, table))
	}
	if table == "" {
		table = schemaTable
	}
	if table == "" {
		table = cfg.Bigtable.Table
	}
	if table == "" {
		return admin.TableRef{}, cli.NewConfigError("table", "no table given: use --table, the schema's table key or bigtable.table")
	}
	return admin.NewTableRef(cfg.Bigtable.Project, cfg.Bigtable.Instance, table)
}

// openHistory returns the configured store, or nil when history is off.
func openHistory() (history.Store, error) {
	cfg := config.MustGetConfig()
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(&cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// parseSchema reads the schema at path, or at schema.path when empty.
func parseSchema(path string, strict bool) (*schema.Document, error) {
	cfg := config.MustGetConfig()
	if path == "" {
		path = cfg.Schema.Path
	}
	parser := schema.NewParser().WithStrictMode(strict || cfg.Schema.Strict)
	return parser.Parse(path)
}

// loadedSchema serves an already parsed document to the reconciler.
type loadedSchema struct {
	doc *schema.Document
}

func (s loadedSchema) Load() (*schema.Document, error) {
	return s.doc, nil
}

package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/gcpolicy/pkg/cli"
)

const testSchema = `table: events
families:
  - id: cf1
    gc_rule:
      max_versions: 3
  - id: cf5
    gc_rule:
      union:
        - max_versions: 10
        - intersection:
            - max_age: 30d
            - max_versions: 2
  - id: raw
`

func TestPlanThenApply(t *testing.T) {
	fake, table := newFakeWithTable(t)
	require.NoError(t, fake.ModifyColumnFamilies(context.Background(), table, mustCreate(t, "legacy")))
	path := writeFile(t, "families.yaml", testSchema)

	out, err := runCLI(t, fake, withTarget("plan", "--file", path)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan for projects/proj/instances/inst/tables/events: 2 to create, 0 to update, 0 to drop.")
	assert.Contains(t, out, "+ cf5  (versions() > 10 || (age() > 30d && versions() > 2))")
	assert.Contains(t, out, "No gc_rule (left as is): raw")
	assert.Contains(t, out, "Not in schema (use --prune to drop): legacy")
	assert.Len(t, fake.Calls(), 1, "plan must not modify the table")

	out, err = runCLI(t, fake, withTarget("apply", "--file", path, "--prune")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied to projects/proj/instances/inst/tables/events: 2 to create, 0 to update, 1 to drop.")

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[1].Modifications, 3)

	out, err = runCLI(t, fake, withTarget("plan", "--file", path, "--output", "json")...)
	require.NoError(t, err)

	var view planView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Empty(t, view.Modifications)
	assert.Equal(t, []string{"cf1", "cf5"}, view.InSync)
	assert.Equal(t, []string{"raw"}, view.Unmanaged)
}

func TestApply_SchemaErrors(t *testing.T) {
	fake, _ := newFakeWithTable(t)
	path := writeFile(t, "families.yaml", "families:\n  - id: cf1\n    gc_rule:\n      max_verions: 3\n")

	_, err := runCLI(t, fake, withTarget("apply", "--file", path, "--table", "events")...)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidInput, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "max_versions")
	assert.Empty(t, fake.Calls())
}

func TestApply_TableMismatch(t *testing.T) {
	fake, _ := newFakeWithTable(t)
	path := writeFile(t, "families.yaml", testSchema)

	_, err := runCLI(t, fake, withTarget("apply", "--file", path, "--table", "other")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `schema is for table "events"`)
	assert.Equal(t, cli.ExitInvalidInput, cli.ExitCode(err))
	assert.Empty(t, fake.Calls(), "nothing is submitted for a mismatched table")
}

package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

func nestedRule() gcrule.Rule {
	return gcrule.Must(gcrule.Union(
		gcrule.Must(gcrule.MaxVersions(10)),
		gcrule.Must(gcrule.Intersection(
			gcrule.Must(gcrule.MaxAge(30*24*time.Hour)),
			gcrule.Must(gcrule.MaxVersions(2)),
		)),
	))
}

func testTable(t *testing.T) TableRef {
	t.Helper()
	ref, err := NewTableRef("proj", "instance", "events")
	require.NoError(t, err)
	return ref
}

func TestApplyModifications_CreateNested(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	require.NoError(t, fake.CreateTable(ctx, table))

	mod, err := family.BuildCreateModification("cf5", nestedRule())
	require.NoError(t, err)

	require.NoError(t, ApplyModifications(ctx, fake, table, []family.Modification{mod}))

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, table, calls[0].Table)
	assert.Equal(t, "cf5", calls[0].Modifications[0].ID)

	families, err := fake.ColumnFamilies(ctx, table)
	require.NoError(t, err)
	assert.True(t, gcrule.Equal(nestedRule(), families["cf5"]))
}

func TestApplyModifications_InvalidInput(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	mod, err := family.BuildCreateModification("cf1", gcrule.Must(gcrule.MaxVersions(1)))
	require.NoError(t, err)

	tests := []struct {
		name   string
		client TableAdministrationClient
		table  TableRef
		mods   []family.Modification
	}{
		{"nil client", nil, table, []family.Modification{mod}},
		{"malformed table", fake, TableRef{Project: "p", Instance: "i"}, []family.Modification{mod}},
		{"no modifications", fake, table, nil},
		{"invalid modification", fake, table, []family.Modification{{ID: "cf1", Action: family.ActionCreate}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyModifications(ctx, tt.client, tt.table, tt.mods)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gcerrors.ErrInvalidArgument), "got %v", err)
		})
	}

	assert.Empty(t, fake.Calls(), "invalid input must not reach the client")
}

func TestApplyModifications_AdminErrorUnchanged(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	require.NoError(t, fake.CreateTable(ctx, table))

	mod, err := family.BuildCreateModification("cf5", nestedRule())
	require.NoError(t, err)
	require.NoError(t, ApplyModifications(ctx, fake, table, []family.Modification{mod}))

	err = ApplyModifications(ctx, fake, table, []family.Modification{mod})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	sentinel := status.Error(codes.PermissionDenied, "denied")
	fake.SetError(sentinel)
	err = ApplyModifications(ctx, fake, table, []family.Modification{mod})
	assert.Same(t, sentinel, err)
}

func TestFakeClient_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	require.NoError(t, fake.CreateTable(ctx, table))

	create, _ := family.BuildCreateModification("cf1", gcrule.Must(gcrule.MaxVersions(1)))
	drop, _ := family.BuildDropModification("missing")

	err := fake.ModifyColumnFamilies(ctx, table, []family.Modification{create, drop})
	assert.Equal(t, codes.NotFound, status.Code(err))

	families, err := fake.ColumnFamilies(ctx, table)
	require.NoError(t, err)
	assert.Empty(t, families, "failed call must not apply earlier modifications")
}

func TestFakeClient_Errors(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	update, _ := family.BuildUpdateModification("cf1", gcrule.Must(gcrule.MaxVersions(1)))

	err := fake.ModifyColumnFamilies(ctx, table, []family.Modification{update})
	assert.Equal(t, codes.NotFound, status.Code(err), "unknown table")

	require.NoError(t, fake.CreateTable(ctx, table))
	assert.Equal(t, codes.AlreadyExists, status.Code(fake.CreateTable(ctx, table)))

	err = fake.ModifyColumnFamilies(ctx, table, []family.Modification{update})
	assert.Equal(t, codes.NotFound, status.Code(err), "unknown family")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = fake.ModifyColumnFamilies(cancelled, table, []family.Modification{update})
	assert.Equal(t, codes.Canceled, status.Code(err))
}

type writeOnlyClient struct{}

func (writeOnlyClient) ModifyColumnFamilies(context.Context, TableRef, []family.Modification) error {
	return nil
}

func TestListFamilies(t *testing.T) {
	ctx := context.Background()
	table := testTable(t)

	_, err := ListFamilies(ctx, writeOnlyClient{}, table)
	assert.ErrorIs(t, err, ErrListUnsupported)

	fake := NewFakeClient()
	require.NoError(t, fake.CreateTable(ctx, table))
	families, err := ListFamilies(ctx, fake, table)
	require.NoError(t, err)
	assert.Empty(t, families)
}

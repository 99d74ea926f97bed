package admin

import (
	"context"
	"errors"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// ErrListUnsupported is returned when a client cannot read column families.
var ErrListUnsupported = errors.New("client does not support listing column families")

// TableAdministrationClient submits column family modifications for a table.
// Implementations return the service's error unchanged.
type TableAdministrationClient interface {
	ModifyColumnFamilies(ctx context.Context, table TableRef, mods []family.Modification) error
}

// FamilyLister reads the column families of a table with their GC rules.
// A family without a GC policy maps to a nil rule.
type FamilyLister interface {
	ColumnFamilies(ctx context.Context, table TableRef) (map[string]gcrule.Rule, error)
}

// TableCreator creates an empty table. Used against emulators.
type TableCreator interface {
	CreateTable(ctx context.Context, table TableRef) error
}

// ApplyModifications validates its input and submits mods to client in a
// single call. Any error from client is returned as is; there is no retry.
func ApplyModifications(ctx context.Context, client TableAdministrationClient, table TableRef, mods []family.Modification) error {
	if client == nil {
		return gcerrors.InvalidArgumentf("admin client must not be nil")
	}
	if err := table.Validate(); err != nil {
		return err
	}
	if len(mods) == 0 {
		return gcerrors.InvalidArgumentf("at least one modification is required")
	}
	for _, m := range mods {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	return client.ModifyColumnFamilies(ctx, table, mods)
}

// ListFamilies reads the families of table when client supports it.
func ListFamilies(ctx context.Context, client TableAdministrationClient, table TableRef) (map[string]gcrule.Rule, error) {
	lister, ok := client.(FamilyLister)
	if !ok {
		return nil, ErrListUnsupported
	}
	return lister.ColumnFamilies(ctx, table)
}

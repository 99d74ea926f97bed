package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

func TestNewTableRef(t *testing.T) {
	tests := []struct {
		name     string
		project  string
		instance string
		table    string
		wantErr  bool
	}{
		{"valid", "my-project", "my-instance", "events", false},
		{"domain scoped project", "example.com:proj", "inst", "t_1.v2", false},
		{"empty project", "", "inst", "t", true},
		{"uppercase instance", "proj", "Inst", "t", true},
		{"empty table", "proj", "inst", "", true},
		{"table with slash", "proj", "inst", "a/b", true},
		{"table too long", "proj", "inst", "t234567890123456789012345678901234567890123456789012", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := NewTableRef(tt.project, tt.instance, tt.table)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, gcerrors.IsInvalidArgument(err), "expected InvalidArgument, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.table, ref.Table)
		})
	}
}

func TestTableRef_Name(t *testing.T) {
	ref, err := NewTableRef("p", "instance-1", "events")
	require.NoError(t, err)

	assert.Equal(t, "projects/p/instances/instance-1", ref.InstanceName())
	assert.Equal(t, "projects/p/instances/instance-1/tables/events", ref.Name())
	assert.Equal(t, ref.Name(), ref.String())
}

func TestParseTableRef(t *testing.T) {
	ref, err := ParseTableRef("projects/p/instances/i/tables/events")
	require.NoError(t, err)
	assert.Equal(t, TableRef{Project: "p", Instance: "i", Table: "events"}, ref)

	for _, name := range []string{
		"",
		"projects/p/instances/i",
		"projects/p/clusters/i/tables/t",
		"projects/p/instances/i/tables/t/extra",
		"projects//instances/i/tables/t",
	} {
		_, err := ParseTableRef(name)
		assert.True(t, gcerrors.IsInvalidArgument(err), "ParseTableRef(%q) = %v", name, err)
	}
}

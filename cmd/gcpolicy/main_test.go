package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"mercator-hq/gcpolicy/pkg/admin"
	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// fakeConn adds Close to the in-memory admin service.
type fakeConn struct {
	*admin.FakeClient
}

func (fakeConn) Close() error { return nil }

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes gcpolicy with args against fake and returns stdout.
func runCLI(t *testing.T, fake *admin.FakeClient, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(context.Background(), t, fake, args...)
}

func runCLIContext(ctx context.Context, t *testing.T, fake *admin.FakeClient, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	origDial := dialAdmin
	dialAdmin = func(context.Context, *config.BigtableConfig) (adminClient, error) {
		return fakeConn{fake}, nil
	}
	t.Cleanup(func() { dialAdmin = origDial })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func newFakeWithTable(t *testing.T) (*admin.FakeClient, admin.TableRef) {
	t.Helper()
	table, err := admin.NewTableRef("proj", "inst", "events")
	require.NoError(t, err)

	fake := admin.NewFakeClient()
	require.NoError(t, fake.CreateTable(context.Background(), table))
	return fake, table
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

var target = []string{"--project", "proj", "--instance", "inst"}

func withTarget(args ...string) []string {
	return append(append([]string{}, args...), target...)
}

func mustCreate(t *testing.T, id string) []family.Modification {
	t.Helper()
	mod, err := family.BuildCreateModification(id, gcrule.Must(gcrule.MaxVersions(1)))
	require.NoError(t, err)
	return []family.Modification{mod}
}

func mustCreateRule(t *testing.T, id string, rule gcrule.Rule) []family.Modification {
	t.Helper()
	mod, err := family.BuildCreateModification(id, rule)
	require.NoError(t, err)
	return []family.Modification{mod}
}

package admin

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
	"mercator-hq/gcpolicy/pkg/telemetry/tracing"
)

// mockMetricsRecorder tracks calls for testing.
type mockMetricsRecorder struct {
	mu            sync.Mutex
	calls         []recordedCall
	modifications map[string]int
}

type recordedCall struct {
	method string
	code   string
}

func newMockMetricsRecorder() *mockMetricsRecorder {
	return &mockMetricsRecorder{modifications: make(map[string]int)}
}

func (m *mockMetricsRecorder) RecordAdminCall(method, code string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{method, code})
}

func (m *mockMetricsRecorder) RecordModifications(action string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modifications[action] += count
}

func newInstrumented(t *testing.T, next TableAdministrationClient) (*InstrumentedClient, *mockMetricsRecorder, *tracetest.InMemoryExporter, *bytes.Buffer) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Sampler: "always", ServiceName: "test"}, exporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	recorder := newMockMetricsRecorder()
	return NewInstrumentedClient(next, recorder, tracer, logger), recorder, exporter, &logs
}

func TestInstrumentedClient_Success(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	require.NoError(t, fake.CreateTable(ctx, table))

	client, recorder, exporter, logs := newInstrumented(t, fake)

	create, _ := family.BuildCreateModification("cf5", nestedRule())
	create2, _ := family.BuildCreateModification("cf6", gcrule.Must(gcrule.MaxVersions(1)))
	require.NoError(t, client.ModifyColumnFamilies(ctx, table, []family.Modification{create, create2}))

	assert.Equal(t, []recordedCall{{"ModifyColumnFamilies", "OK"}}, recorder.calls)
	assert.Equal(t, 2, recorder.modifications["create"])

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "admin.ModifyColumnFamilies", spans[0].Name)

	assert.Contains(t, logs.String(), "modified column families")
	assert.Contains(t, logs.String(), `"component":"admin"`)
}

func TestInstrumentedClient_ErrorIdentity(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	client, recorder, exporter, logs := newInstrumented(t, fake)

	sentinel := status.Error(codes.Unavailable, "backend unavailable")
	fake.SetError(sentinel)

	mod, _ := family.BuildCreateModification("cf5", nestedRule())
	err := client.ModifyColumnFamilies(ctx, table, []family.Modification{mod})
	assert.Same(t, sentinel, err)

	_, err = client.ColumnFamilies(ctx, table)
	assert.Same(t, sentinel, err)

	assert.Equal(t, []recordedCall{
		{"ModifyColumnFamilies", "Unavailable"},
		{"GetTable", "Unavailable"},
	}, recorder.calls)
	assert.Empty(t, recorder.modifications, "failed calls are not counted as modifications")
	assert.Len(t, exporter.GetSpans(), 2)
	assert.Contains(t, logs.String(), "modify column families failed")
}

func TestInstrumentedClient_WithoutListing(t *testing.T) {
	client := NewInstrumentedClient(writeOnlyClient{}, nil, nil, nil)

	_, err := client.ColumnFamilies(context.Background(), testTable(t))
	assert.ErrorIs(t, err, ErrListUnsupported)

	err = client.CreateTable(context.Background(), testTable(t))
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	assert.NoError(t, client.Close())
}

func TestInstrumentedClient_NilCollaborators(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeClient()
	table := testTable(t)
	client := NewInstrumentedClient(fake, nil, nil, nil)

	require.NoError(t, client.CreateTable(ctx, table))
	mod, _ := family.BuildCreateModification("cf1", gcrule.Must(gcrule.MaxAge(time.Hour)))
	require.NoError(t, ApplyModifications(ctx, client, table, []family.Modification{mod}))

	families, err := client.ColumnFamilies(ctx, table)
	require.NoError(t, err)
	assert.Contains(t, families, "cf1")
}

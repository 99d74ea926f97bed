package admin

import (
	"context"
	"maps"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// FakeCall is one ModifyColumnFamilies call seen by a FakeClient.
type FakeCall struct {
	Table         TableRef
	Modifications []family.Modification
}

// FakeClient is an in-memory admin service. A call either applies every
// modification or none, and failures carry the status codes the real
// service uses.
type FakeClient struct {
	mu     sync.Mutex
	tables map[string]map[string]gcrule.Rule
	calls  []FakeCall
	err    error
}

// NewFakeClient returns a FakeClient with no tables.
func NewFakeClient() *FakeClient {
	return &FakeClient{tables: make(map[string]map[string]gcrule.Rule)}
}

// SetError makes every following call fail with err until it is reset
// with nil.
func (f *FakeClient) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns the ModifyColumnFamilies calls received so far.
func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CreateTable adds an empty table.
func (f *FakeClient) CreateTable(_ context.Context, table TableRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if _, ok := f.tables[table.Name()]; ok {
		return status.Errorf(codes.AlreadyExists, "table %s already exists", table.Name())
	}
	f.tables[table.Name()] = make(map[string]gcrule.Rule)
	return nil
}

// ModifyColumnFamilies applies mods in order to a copy of the table and
// commits the copy only if all of them succeed.
func (f *FakeClient) ModifyColumnFamilies(ctx context.Context, table TableRef, mods []family.Modification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, FakeCall{Table: table, Modifications: append([]family.Modification(nil), mods...)})

	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	if f.err != nil {
		return f.err
	}

	current, ok := f.tables[table.Name()]
	if !ok {
		return status.Errorf(codes.NotFound, "table %s not found", table.Name())
	}

	next := maps.Clone(current)
	for _, m := range mods {
		_, exists := next[m.ID]
		switch m.Action {
		case family.ActionCreate:
			if exists {
				return status.Errorf(codes.AlreadyExists, "column family %s already exists", m.ID)
			}
			next[m.ID] = m.Rule
		case family.ActionUpdate:
			if !exists {
				return status.Errorf(codes.NotFound, "column family %s not found", m.ID)
			}
			next[m.ID] = m.Rule
		case family.ActionDrop:
			if !exists {
				return status.Errorf(codes.NotFound, "column family %s not found", m.ID)
			}
			delete(next, m.ID)
		default:
			return status.Errorf(codes.InvalidArgument, "column family %s: unknown action %q", m.ID, m.Action)
		}
	}

	f.tables[table.Name()] = next
	return nil
}

// ColumnFamilies returns a copy of the table's families.
func (f *FakeClient) ColumnFamilies(ctx context.Context, table TableRef) (map[string]gcrule.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	current, ok := f.tables[table.Name()]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "table %s not found", table.Name())
	}
	return maps.Clone(current), nil
}

var (
	_ TableAdministrationClient = (*FakeClient)(nil)
	_ FamilyLister              = (*FakeClient)(nil)
	_ TableCreator              = (*FakeClient)(nil)
)

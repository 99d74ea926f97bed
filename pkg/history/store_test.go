package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLiteStore(&config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "nested", "history.db"),
		MaxOpenConns: 1,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]func(*testing.T) Store {
	return map[string]func(*testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": newSQLite,
	}
}

func entry(id, table, fam, action, st string, at time.Time) *Entry {
	return &Entry{
		ID:          id,
		OperationID: "op-" + id,
		Time:        at,
		Table:       table,
		Family:      fam,
		Action:      action,
		Trigger:     "cli",
		Status:      st,
	}
}

func TestStore_RecordAndQuery(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			err := s.Record(ctx,
				entry("1", "t1", "cf1", "create", StatusApplied, base),
				entry("2", "t1", "cf2", "create", StatusApplied, base.Add(time.Minute)),
				entry("3", "t2", "cf1", "drop", StatusFailed, base.Add(2*time.Minute)),
			)
			if err != nil {
				t.Fatalf("Record() error = %v", err)
			}

			all, err := s.Query(ctx, nil)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(all) != 3 || all[0].ID != "3" || all[2].ID != "1" {
				t.Fatalf("expected newest first, got %v", ids(all))
			}
			if !all[2].Time.Equal(base) {
				t.Errorf("time = %v, want %v", all[2].Time, base)
			}

			asc, _ := s.Query(ctx, &Query{SortOrder: "asc", Limit: 2})
			if got := ids(asc); len(got) != 2 || got[0] != "1" || got[1] != "2" {
				t.Errorf("asc limit 2 = %v", got)
			}

			page, _ := s.Query(ctx, &Query{Limit: 1, Offset: 1})
			if got := ids(page); len(got) != 1 || got[0] != "2" {
				t.Errorf("offset page = %v", got)
			}

			tests := []struct {
				name string
				q    *Query
				want int64
			}{
				{"by table", &Query{Table: "t1"}, 2},
				{"by family", &Query{Family: "cf1"}, 2},
				{"by action", &Query{Action: "drop"}, 1},
				{"by status", &Query{Status: StatusFailed}, 1},
				{"by operation", &Query{OperationID: "op-2"}, 1},
				{"since", &Query{Since: base.Add(time.Minute)}, 2},
				{"until", &Query{Until: base.Add(time.Minute)}, 1},
				{"combined", &Query{Table: "t1", Family: "cf1"}, 1},
				{"no match", &Query{Table: "t3"}, 0},
			}
			for _, tt := range tests {
				n, err := s.Count(ctx, tt.q)
				if err != nil {
					t.Fatalf("%s: Count() error = %v", tt.name, err)
				}
				if n != tt.want {
					t.Errorf("%s: Count() = %d, want %d", tt.name, n, tt.want)
				}
			}
		})
	}
}

func TestStore_Prune(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			for i, age := range []time.Duration{0, 24 * time.Hour, 48 * time.Hour} {
				e := entry(string(rune('a'+i)), "t", "cf", "create", StatusApplied, base.Add(age))
				if err := s.Record(ctx, e); err != nil {
					t.Fatal(err)
				}
			}

			deleted, err := s.Prune(ctx, base.Add(24*time.Hour))
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != 1 {
				t.Errorf("deleted = %d, want 1", deleted)
			}
			if n, _ := s.Count(ctx, nil); n != 2 {
				t.Errorf("remaining = %d, want 2", n)
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "history.db"), MaxOpenConns: 1, BusyTimeout: time.Second}

	s, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e := entry("1", "t", "cf", "update", StatusApplied, time.Now())
	e.Rule = "versions() > 3"
	e.RuleJSON = `{"maxNumVersions":3}`
	if err := s.Record(ctx, e); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Query(ctx, &Query{})
	if err != nil || len(got) != 1 {
		t.Fatalf("Query() = %v, %v", got, err)
	}
	if got[0].Rule != e.Rule || got[0].RuleJSON != e.RuleJSON || got[0].Error != "" {
		t.Errorf("entry not preserved: %+v", got[0])
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	s.Close()

	err := s.Record(context.Background(), entry("1", "t", "cf", "create", StatusApplied, time.Now()))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || storageErr.Backend != "memory" {
		t.Errorf("expected memory StorageError, got %v", err)
	}
}

func TestNewEntries(t *testing.T) {
	rule := gcrule.Must(gcrule.MaxVersions(3))
	create, _ := family.BuildCreateModification("cf1", rule)
	drop, _ := family.BuildDropModification("cf2")
	mods := []family.Modification{create, drop}

	entries := NewEntries("op-1", "projects/p/instances/i/tables/t", "cli", mods, nil)
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Error("entries need distinct ids")
	}
	if entries[0].Status != StatusApplied || entries[0].Rule != "versions() > 3" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
	if entries[0].RuleJSON == "" {
		t.Error("missing wire form")
	}
	if entries[1].Action != "drop" || entries[1].Rule != "" {
		t.Errorf("unexpected drop entry %+v", entries[1])
	}

	failed := NewEntries("op-2", "t", "schedule", mods[:1], status.Error(codes.AlreadyExists, "exists"))
	if failed[0].Status != StatusFailed || failed[0].Error == "" {
		t.Errorf("unexpected failed entry %+v", failed[0])
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(&config.HistoryConfig{Backend: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open(&config.HistoryConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "h.db"), MaxOpenConns: 1,
	}})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err := Open(&config.HistoryConfig{Backend: "postgres"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

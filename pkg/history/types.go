package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"

	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// Entry statuses.
const (
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// Entry records one modification.
type Entry struct {
	ID          string    `json:"id" yaml:"id"`
	OperationID string    `json:"operation_id" yaml:"operation_id"`
	Time        time.Time `json:"time" yaml:"time"`
	Table       string    `json:"table" yaml:"table"`
	Family      string    `json:"family" yaml:"family"`
	Action      string    `json:"action" yaml:"action"`
	Rule        string    `json:"rule,omitempty" yaml:"rule,omitempty"`           // Textual form, e.g. "versions() > 3"
	RuleJSON    string    `json:"rule_json,omitempty" yaml:"rule_json,omitempty"` // Wire form as protojson
	Trigger     string    `json:"trigger" yaml:"trigger"`                         // "cli", "startup", "schedule", "watch"
	Status      string    `json:"status" yaml:"status"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Query selects entries. Zero fields do not filter.
type Query struct {
	Table       string
	Family      string
	Action      string
	Status      string
	OperationID string
	Since       time.Time // Inclusive
	Until       time.Time // Exclusive

	Limit     int    // Max entries to return
	Offset    int    // Skip N entries
	SortOrder string // "asc" or "desc" (default) by time
}

// Store persists entries.
type Store interface {
	// Record appends entries.
	Record(ctx context.Context, entries ...*Entry) error

	// Query returns entries matching q, newest first unless q.SortOrder is "asc".
	Query(ctx context.Context, q *Query) ([]*Entry, error)

	// Count returns the number of entries matching q, ignoring pagination.
	Count(ctx context.Context, q *Query) (int64, error)

	// Prune deletes entries recorded before cutoff.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources held by the store.
	Close() error
}

// NewEntries builds one entry per modification. callErr is the error the
// admin call returned, nil when it succeeded.
func NewEntries(operationID, table, trigger string, mods []family.Modification, callErr error) []*Entry {
	now := time.Now().UTC()
	status, errText := StatusApplied, ""
	if callErr != nil {
		status, errText = StatusFailed, callErr.Error()
	}

	entries := make([]*Entry, 0, len(mods))
	for _, m := range mods {
		e := &Entry{
			ID:          uuid.NewString(),
			OperationID: operationID,
			Time:        now,
			Table:       table,
			Family:      m.ID,
			Action:      string(m.Action),
			Trigger:     trigger,
			Status:      status,
			Error:       errText,
		}
		if m.Rule != nil {
			e.Rule = gcrule.String(m.Rule)
			if b, err := protojson.Marshal(gcrule.ToProto(m.Rule)); err == nil {
				e.RuleJSON = string(b)
			}
		}
		entries = append(entries, e)
	}
	return entries
}

func (q *Query) descending() bool {
	return q.SortOrder != "asc"
}

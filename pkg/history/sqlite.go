package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mercator-hq/gcpolicy/pkg/config"
)

const backendSQLite = "sqlite"

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	config *config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at cfg.Path and
// migrates its schema.
func NewSQLiteStore(cfg *config.SQLiteConfig) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "history.sqlite")

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(backendSQLite, "create_dir", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "open", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	s := &SQLiteStore{db: db, config: cfg, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("history database opened", "path", cfg.Path)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(backendSQLite, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(backendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Record inserts entries in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, entries ...*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError(backendSQLite, "begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO modifications (
			id, operation_id, recorded_at, table_name, family, action,
			rule, rule_json, trigger_name, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return NewStorageError(backendSQLite, "prepare", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.OperationID, e.Time.UTC().UnixNano(), e.Table, e.Family, e.Action,
			nullable(e.Rule), nullable(e.RuleJSON), e.Trigger, e.Status, nullable(e.Error),
		)
		if err != nil {
			return NewStorageError(backendSQLite, "record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError(backendSQLite, "commit", err)
	}
	return nil
}

// Query returns matching entries.
func (s *SQLiteStore) Query(ctx context.Context, q *Query) ([]*Entry, error) {
	if q == nil {
		q = &Query{}
	}

	where, args := buildWhere(q)
	order := "DESC"
	if !q.descending() {
		order = "ASC"
	}
	query := `SELECT id, operation_id, recorded_at, table_name, family, action,
		rule, rule_json, trigger_name, status, error FROM modifications` + where +
		` ORDER BY recorded_at ` + order + `, rowid ` + order
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
		if q.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", q.Offset)
		}
	} else if q.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "query", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e                     Entry
			nanos                 int64
			rule, ruleJSON, errTx sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OperationID, &nanos, &e.Table, &e.Family, &e.Action,
			&rule, &ruleJSON, &e.Trigger, &e.Status, &errTx); err != nil {
			return nil, NewStorageError(backendSQLite, "scan", err)
		}
		e.Time = time.Unix(0, nanos).UTC()
		e.Rule, e.RuleJSON, e.Error = rule.String, ruleJSON.String, errTx.String
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(backendSQLite, "query", err)
	}
	return entries, nil
}

// Count returns the number of matching entries.
func (s *SQLiteStore) Count(ctx context.Context, q *Query) (int64, error) {
	if q == nil {
		q = &Query{}
	}
	where, args := buildWhere(q)

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM modifications`+where, args...).Scan(&n); err != nil {
		return 0, NewStorageError(backendSQLite, "count", err)
	}
	return n, nil
}

// Prune deletes entries recorded before cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM modifications WHERE recorded_at < ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, NewStorageError(backendSQLite, "prune", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError(backendSQLite, "prune", err)
	}
	if n > 0 {
		s.logger.Info("pruned history entries", "deleted", n, "cutoff", cutoff)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(backendSQLite, "close", err)
	}
	return nil
}

func buildWhere(q *Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}

	if q.Table != "" {
		add("table_name = ?", q.Table)
	}
	if q.Family != "" {
		add("family = ?", q.Family)
	}
	if q.Action != "" {
		add("action = ?", q.Action)
	}
	if q.Status != "" {
		add("status = ?", q.Status)
	}
	if q.OperationID != "" {
		add("operation_id = ?", q.OperationID)
	}
	if !q.Since.IsZero() {
		add("recorded_at >= ?", q.Since.UTC().UnixNano())
	}
	if !q.Until.IsZero() {
		add("recorded_at < ?", q.Until.UTC().UnixNano())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Store = (*SQLiteStore)(nil)

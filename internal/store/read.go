package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadAll returns every entry ordered by seq.
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ReadAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, at_ms, kind, severity, subject, title, description, error_code
		FROM journal
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	return scanEntries(rows)
}

// ReadLast returns the most recent n entries, oldest first.
func (s *Store) ReadLast(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, at_ms, kind, severity, subject, title, description, error_code
		FROM (
			SELECT * FROM journal ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query journal tail: %w", err)
	}
	return scanEntries(rows)
}

// CountByKind returns the number of entries per kind.
func (s *Store) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM journal GROUP BY kind ORDER BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("count journal kinds: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}
	return counts, nil
}

// Len returns the number of entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journal: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.AtMS, &e.Kind, &e.Severity, &e.Subject, &e.Title, &e.Description, &e.ErrorCode); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

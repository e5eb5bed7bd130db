package store

import (
	"context"
	"fmt"
)

// Append inserts an entry. A duplicate Seq is an error: the engine's clock
// never hands out the same number twice.
func (s *Store) Append(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal
		(seq, at_ms, kind, severity, subject, title, description, error_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.Seq,
		e.AtMS,
		e.Kind,
		e.Severity,
		e.Subject,
		e.Title,
		e.Description,
		e.ErrorCode,
	)
	if err != nil {
		return fmt.Errorf("append entry %d: %w", e.Seq, err)
	}
	return nil
}

// Reset deletes every entry. A new session calls it before its first
// Append so a reused journal file holds exactly one session.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM journal`); err != nil {
		return fmt.Errorf("reset journal: %w", err)
	}
	return nil
}

package messages

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// appleEpoch is the zero point of dates in chat.db (2001-01-01 UTC).
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// Store reads the Messages database. AppleScript can drive Messages.app but
// cannot read conversation content, so reads go straight to chat.db,
// read-only.
type Store struct {
	db *sql.DB
}

// OpenStore opens chat.db in read-only mode. Requires Full Disk Access;
// without it sqlite fails with an authorization error whose text the tool
// layer surfaces verbatim.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open messages store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open messages store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Recent returns the newest messages exchanged with any of the given handle
// forms (phone number or email variants), newest first.
func (s *Store) Recent(ctx context.Context, handles []string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(handles)), ",")
	query := fmt.Sprintf(`
		SELECT m.date, IFNULL(h.id, ''), IFNULL(m.text, ''), m.is_from_me
		FROM message m
		LEFT JOIN handle h ON m.handle_id = h.ROWID
		WHERE h.id IN (%s) AND m.text IS NOT NULL AND m.text != ''
		ORDER BY m.date DESC
		LIMIT ?`, placeholders)

	args := make([]any, 0, len(handles)+1)
	for _, h := range handles {
		args = append(args, h)
	}
	args = append(args, limit)

	return s.queryMessages(ctx, query, args...)
}

// Unread returns unread incoming messages, newest first.
func (s *Store) Unread(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT m.date, IFNULL(h.id, ''), IFNULL(m.text, ''), m.is_from_me
		FROM message m
		LEFT JOIN handle h ON m.handle_id = h.ROWID
		WHERE m.is_read = 0 AND m.is_from_me = 0
		  AND m.text IS NOT NULL AND m.text != ''
		ORDER BY m.date DESC
		LIMIT ?`
	return s.queryMessages(ctx, query, limit)
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("messages query failed: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var rawDate int64
		var msg Message
		var fromMe int
		if err := rows.Scan(&rawDate, &msg.Sender, &msg.Content, &fromMe); err != nil {
			return nil, fmt.Errorf("messages scan failed: %w", err)
		}
		msg.Timestamp = appleTime(rawDate)
		msg.IsFromMe = fromMe != 0
		out = append(out, msg)
	}
	return out, rows.Err()
}

// appleTime converts a chat.db date column to wall time. Older databases
// store seconds since the Apple epoch, newer ones nanoseconds.
func appleTime(raw int64) time.Time {
	if raw > 1e12 {
		return appleEpoch.Add(time.Duration(raw))
	}
	return appleEpoch.Add(time.Duration(raw) * time.Second)
}

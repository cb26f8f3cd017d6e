/*
Package history implements the durable message log on PostgreSQL.

It satisfies the chat.HistoryStore contract: append-only writes and a bounded
oldest-first read of the most recent messages. Postgres MVCC makes RecentN a
consistent snapshot even while other connections are appending.
*/
package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"chatterbox/internal/app/chat"
)

// Store persists chat messages in the messages table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store from the shared connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Append inserts one message into the log.
func (s *Store) Append(ctx context.Context, msg chat.Message) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (message_id, username, content, created_at) VALUES ($1, $2, $3, $4)`,
		msg.ID, msg.Username, msg.Content, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// RecentN returns up to n of the most recent messages, oldest first.
func (s *Store) RecentN(ctx context.Context, n int) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT message_id, username, content, created_at FROM messages ORDER BY id DESC LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent messages: %w", err)
	}
	defer rows.Close()

	var newestFirst []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		newestFirst = append(newestFirst, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message rows: %w", err)
	}

	// The query walks newest-to-oldest; clients expect oldest first.
	messages := make([]chat.Message, len(newestFirst))
	for i, m := range newestFirst {
		messages[len(newestFirst)-1-i] = m
	}

	return messages, nil
}

// Count returns the total number of persisted messages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
)

// LibSQLConversationStore persists conversation turns in the embedded libsql
// database. It implements the ConversationStore port consumed by the HTTP
// layer; the orchestration layer never touches it.
type LibSQLConversationStore struct {
	db *sql.DB
}

// NewLibSQLConversationStore creates a store over an opened connection.
func NewLibSQLConversationStore(db *sql.DB) *LibSQLConversationStore {
	return &LibSQLConversationStore{db: db}
}

// AppendTurn appends one turn to the conversation. Turns are append-only;
// ordering comes from the monotonic rowid.
func (s *LibSQLConversationStore) AppendTurn(ctx context.Context, conversationID string, turn ports.Turn) error {
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	const query = `
		INSERT INTO conversation_turns (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, conversationID, turn.Role, turn.Content, createdAt.UTC()); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// LoadRecent returns the last k turns in chronological order.
func (s *LibSQLConversationStore) LoadRecent(ctx context.Context, conversationID string, k int) ([]ports.Turn, error) {
	query := `
		SELECT role, content, created_at FROM conversation_turns
		WHERE conversation_id = ?
		ORDER BY id DESC
	`
	args := []any{conversationID}
	if k > 0 {
		query += " LIMIT ?"
		args = append(args, k)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []ports.Turn
	for rows.Next() {
		var turn ports.Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Rows came newest-first; flip to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Reset discards every turn of the conversation.
func (s *LibSQLConversationStore) Reset(ctx context.Context, conversationID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversation_turns WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("reset conversation: %w", err)
	}
	return nil
}

var _ ports.ConversationStore = (*LibSQLConversationStore)(nil)

package assistantports

import (
	"context"
	"time"
)

// Turn represents one persisted conversational exchange.
type Turn struct {
	Role      string    // "user" | "assistant"
	Content   string    // reply or utterance text
	CreatedAt time.Time // server-side timestamp
}

// ConversationStore persists chat history for the UI collaborator. The
// orchestration layer itself is stateless and never touches this; the
// transport layer appends turns and restores them when a widget mounts.
type ConversationStore interface {
	AppendTurn(ctx context.Context, conversationID string, turn Turn) error
	// LoadRecent returns the last k turns in chronological order. k <= 0
	// returns the whole conversation.
	LoadRecent(ctx context.Context, conversationID string, k int) ([]Turn, error)
	// Reset discards a conversation. Only an explicit user action calls this.
	Reset(ctx context.Context, conversationID string) error
}

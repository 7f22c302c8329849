package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

type MessagesRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (m *MessagesRepo) InsertMessage(ctx context.Context, chatID string, sender core.Sender, text string) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender, text, created_at) VALUES (?, ?, ?, ?)`,
		chatID, string(sender), text, m.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages returns the chat transcript oldest first.
func (m *MessagesRepo) ListMessages(ctx context.Context, chatID string) ([]core.Message, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT chat_id, sender, text, created_at FROM messages WHERE chat_id = ? ORDER BY id ASC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []core.Message{}
	for rows.Next() {
		var msg core.Message
		var sender string
		if err := rows.Scan(&msg.ChatID, &sender, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Sender = core.Sender(sender)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Str("chat_id", chatID).Int("count", len(messages)).Msg("loaded chat messages")
	return messages, nil
}

// ListChatIDs returns every chat that has at least one message, in the
// order the chats were started.
func (m *MessagesRepo) ListChatIDs(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT chat_id FROM messages GROUP BY chat_id ORDER BY MIN(id)`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chat id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

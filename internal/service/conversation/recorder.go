// Package conversation persists question/answer pairs as chat transcripts.
package conversation

import (
	"context"
	"fmt"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
)

type Recorder struct {
	repo core.ChatRepository
}

func NewRecorder(repo core.ChatRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends the user message and then the bot message. The two inserts
// are independent: if the second fails the first stays.
func (r *Recorder) Record(ctx context.Context, chatID, question, answer string) error {
	if err := r.repo.InsertMessage(ctx, chatID, core.SenderUser, question); err != nil {
		return fmt.Errorf("failed to record question: %w", err)
	}
	if err := r.repo.InsertMessage(ctx, chatID, core.SenderBot, answer); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

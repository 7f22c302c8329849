// Package chatbot answers questions end to end: retrieval, streamed
// generation and transcript persistence.
package chatbot

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/retrieval"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/stream"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrEmptyChatID   = errors.New("chat id is empty")
)

type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}

type Service struct {
	retriever Retriever
	streamer  *stream.Streamer
	chats     core.ChatRepository
	sessions  *Sessions
}

func NewService(r Retriever, s *stream.Streamer, chats core.ChatRepository) *Service {
	svc := &Service{
		retriever: r,
		streamer:  s,
		chats:     chats,
	}
	svc.sessions = NewSessions(svc.NewChat)
	return svc
}

// NewChat mints a chat id. The chat exists once its first message is stored.
func (s *Service) NewChat() string {
	return uuid.NewString()
}

func (s *Service) Sessions() *Sessions {
	return s.sessions
}

// Ask streams the answer to question into sink. Only invalid input and
// cancellation are returned as errors; every other failure reaches the
// client as an in-band error token.
func (s *Service) Ask(ctx context.Context, chatID, question string, sink core.Sink) (stream.State, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return stream.Idle, ErrEmptyQuestion
	}
	if chatID == "" {
		return stream.Idle, ErrEmptyChatID
	}

	logger := log.FromCtx(ctx)
	logger.Info().Str("chat_id", chatID).Msg("question received")

	contexts, err := s.retriever.Retrieve(ctx, question)
	switch {
	case errors.Is(err, retrieval.ErrNoContext):
		logger.Debug().Str("chat_id", chatID).Msg("no context found, generating without")
		contexts = nil
	case err != nil:
		if ctx.Err() != nil {
			return stream.Cancelled, ctx.Err()
		}
		return s.streamer.Fail(ctx, chatID, question, err, sink), nil
	}

	return s.streamer.Stream(ctx, chatID, question, contexts, sink)
}

func (s *Service) Chats(ctx context.Context) ([]string, error) {
	return s.chats.ListChatIDs(ctx)
}

func (s *Service) History(ctx context.Context, chatID string) ([]core.Message, error) {
	if chatID == "" {
		return nil, ErrEmptyChatID
	}
	return s.chats.ListMessages(ctx, chatID)
}

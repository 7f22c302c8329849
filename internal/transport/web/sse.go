package web

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

// handleSSE streams one answer as Server-Sent Events, one token per event.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.URL.Query().Get("question"))
	chatID := r.URL.Query().Get("chat_id")
	if question == "" || chatID == "" {
		writeError(w, http.StatusBadRequest, "question and chat_id are required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := core.SinkFunc(func(ctx context.Context, token string) error {
		if _, err := io.WriteString(w, sseEvent(token)); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if _, err := s.chat.Ask(r.Context(), chatID, question, sink); err != nil {
		log.FromCtx(r.Context()).Debug().Err(err).Str("chat_id", chatID).Msg("sse stream interrupted")
	}
}

// sseEvent frames token as one event. Every line of a multi-line token gets
// its own data field; the client joins them back with newlines.
func sseEvent(token string) string {
	var b strings.Builder
	for _, line := range strings.Split(token, "\n") {
		b.WriteString("data: ")
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

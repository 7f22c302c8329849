package web

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

type chatRef struct {
	ChatID string `json:"chat_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chatRef{ChatID: s.chat.NewChat()})
}

func (s *Server) handleGetChats(w http.ResponseWriter, r *http.Request) {
	ids, err := s.chat.Chats(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to list chats")
		writeError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}

	out := make([]chatRef, len(ids))
	for i, id := range ids {
		out[i] = chatRef{ChatID: id}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chat_id"]

	msgs, err := s.chat.History(r.Context(), chatID)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("chat_id", chatID).Msg("failed to load messages")
		writeError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    core.BotName,
		"version": core.BotVersion,
	})
}

// staticHandler serves the frontend build. Unknown paths fall back to
// index.html so client-side routes survive a reload.
type staticHandler struct {
	root string
}

func newStaticHandler(root string) *staticHandler {
	return &staticHandler{root: root}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.root, "index.html")

	name := filepath.Join(h.root, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
	if !strings.HasPrefix(name, h.root) {
		http.NotFound(w, r)
		return
	}

	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

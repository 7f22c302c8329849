package chatbot

import "sync"

// Sessions maps a transport-level conversation key, such as a Telegram chat
// or the local console, to the chat id its questions are filed under.
type Sessions struct {
	mu      sync.Mutex
	current map[string]string
	newID   func() string
}

func NewSessions(newID func() string) *Sessions {
	return &Sessions{
		current: make(map[string]string),
		newID:   newID,
	}
}

// Current returns the active chat of key, starting one if needed.
func (s *Sessions) Current(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.current[key]
	if !ok {
		id = s.newID()
		s.current[key] = id
	}
	return id
}

// Reset starts a fresh chat for key.
func (s *Sessions) Reset(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.current[key] = id
	return id
}

// Switch makes chatID the active chat of key.
func (s *Sessions) Switch(key, chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[key] = chatID
}

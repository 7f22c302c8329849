package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
)

type mockChats struct {
	ids      []string
	messages map[string][]core.Message
	err      error
	sessions *chatbot.Sessions
}

func newMockChats() *mockChats {
	n := 0
	return &mockChats{
		messages: map[string][]core.Message{},
		sessions: chatbot.NewSessions(func() string {
			n++
			return []string{"chat-1", "chat-2", "chat-3"}[n-1]
		}),
	}
}

func (m *mockChats) Chats(ctx context.Context) ([]string, error) { return m.ids, m.err }

func (m *mockChats) History(ctx context.Context, chatID string) ([]core.Message, error) {
	return m.messages[chatID], m.err
}

func (m *mockChats) Sessions() *chatbot.Sessions { return m.sessions }

type mockTopics struct {
	topics []string
}

func (m *mockTopics) Topics(ctx context.Context) ([]string, error) { return m.topics, nil }

func newTestRouter(chats *mockChats, topics []string) *Router {
	return New(NewCommands(chats, &mockTopics{topics: topics}))
}

func TestRouter_PlainTextIsNotACommand(t *testing.T) {
	out, ok := newTestRouter(newMockChats(), nil).Execute(context.Background(), "cli", "what is a lease?")
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestRouter_UnknownCommand(t *testing.T) {
	out, ok := newTestRouter(newMockChats(), nil).Execute(context.Background(), "cli", "/model gpt")
	assert.True(t, ok)
	assert.Contains(t, out, "Unknown command: /model")
}

func TestRouter_BotSuffix(t *testing.T) {
	out, ok := newTestRouter(newMockChats(), []string{"lease"}).Execute(context.Background(), "tg:1", "/topics@LexBot")
	assert.True(t, ok)
	assert.Contains(t, out, "› lease")
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	var names []string
	for _, c := range newTestRouter(newMockChats(), nil).ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"chats", "help", "history", "new", "open", "topics"}, names)
}

func TestHelp(t *testing.T) {
	out, ok := newTestRouter(newMockChats(), nil).Execute(context.Background(), "cli", "/help")
	require.True(t, ok)
	assert.Contains(t, out, "/new - Start a new conversation")
	assert.Contains(t, out, "/history - Show the messages of a conversation")
}

func TestNewAndChats(t *testing.T) {
	chats := newMockChats()
	r := newTestRouter(chats, nil)
	ctx := context.Background()

	assert.Equal(t, "chat-1", chats.sessions.Current("cli"))

	out, _ := r.Execute(ctx, "cli", "/new")
	assert.Contains(t, out, "chat-2")
	assert.Equal(t, "chat-2", chats.sessions.Current("cli"))

	chats.ids = []string{"chat-1", "chat-2"}
	out, _ = r.Execute(ctx, "cli", "/chats")
	assert.Contains(t, out, "`chat-2` (current)")
	assert.NotContains(t, out, "`chat-1` (current)")
}

func TestChats_Empty(t *testing.T) {
	out, _ := newTestRouter(newMockChats(), nil).Execute(context.Background(), "cli", "/chats")
	assert.Contains(t, out, "No conversations yet")
}

func TestOpen(t *testing.T) {
	chats := newMockChats()
	chats.ids = []string{"old"}
	r := newTestRouter(chats, nil)
	ctx := context.Background()

	out, _ := r.Execute(ctx, "cli", "/open")
	assert.Contains(t, out, "/open <chat_id>")

	out, _ = r.Execute(ctx, "cli", "/open missing")
	assert.Contains(t, out, "no conversation with id missing")

	out, _ = r.Execute(ctx, "cli", "/open old")
	assert.Contains(t, out, "Switched to `old`")
	assert.Equal(t, "old", chats.sessions.Current("cli"))
}

func TestHistory(t *testing.T) {
	chats := newMockChats()
	chats.messages["chat-1"] = []core.Message{
		{ChatID: "chat-1", Sender: core.SenderUser, Text: "what is a lease"},
		{ChatID: "chat-1", Sender: core.SenderBot, Text: ""},
	}
	r := newTestRouter(chats, nil)

	out, _ := r.Execute(context.Background(), "cli", "/history")
	assert.Contains(t, out, "**user**: what is a lease")
	assert.Contains(t, out, "**bot**: _(no answer)_")

	out, _ = r.Execute(context.Background(), "cli", "/history other")
	assert.Contains(t, out, "Empty conversation")
	assert.Contains(t, out, "`other`")
}

func TestHistory_Error(t *testing.T) {
	chats := newMockChats()
	chats.err = errors.New("database is locked")

	out, ok := newTestRouter(chats, nil).Execute(context.Background(), "cli", "/history")
	assert.True(t, ok)
	assert.Contains(t, out, "/history failed")
	assert.Contains(t, out, "database is locked")
}

func TestTopics_Empty(t *testing.T) {
	out, _ := newTestRouter(newMockChats(), nil).Execute(context.Background(), "cli", "/topics")
	assert.Contains(t, out, "knowledge base is empty")
}

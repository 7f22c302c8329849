package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/stream"
)

const frontend = "http://localhost:5173"

type askCall struct {
	chatID, question string
}

type mockChat struct {
	mu       sync.Mutex
	asks     []askCall
	chats    []string
	messages []core.Message
	err      error
	// pause after each token, set before the server starts
	delay    time.Duration
}

func (m *mockChat) NewChat() string { return "11111111-2222-4333-8444-555555555555" }

func (m *mockChat) Chats(ctx context.Context) ([]string, error) { return m.chats, m.err }

func (m *mockChat) History(ctx context.Context, chatID string) ([]core.Message, error) {
	return m.messages, m.err
}

// Ask streams "answer: <question>" word by word and closes with [FINE].
func (m *mockChat) Ask(ctx context.Context, chatID, question string, sink core.Sink) (stream.State, error) {
	if question == "" {
		return stream.Idle, chatbot.ErrEmptyQuestion
	}
	if chatID == "" {
		return stream.Idle, chatbot.ErrEmptyChatID
	}

	m.mu.Lock()
	m.asks = append(m.asks, askCall{chatID, question})
	m.mu.Unlock()

	for _, tok := range append(strings.Fields("answer: "+question), "[FINE]") {
		if err := sink.Send(ctx, tok); err != nil {
			return stream.Cancelled, err
		}
		if m.delay > 0 {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return stream.Cancelled, ctx.Err()
			}
		}
	}
	return stream.Terminated, nil
}

func (m *mockChat) calls() []askCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]askCall(nil), m.asks...)
}

func newTestServer(t *testing.T, chat *mockChat) (*Server, *httptest.Server) {
	t.Helper()
	cfg := &config.AppConfig{
		RuntimePath:   t.TempDir(),
		HTTPAddr:      "127.0.0.1:0",
		AllowedOrigin: frontend,
	}
	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "lexbot_test_total", Help: "test"}).Inc()

	s := NewServer(context.Background(), cfg, config.DefaultStreamConfig(), chat, reg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.cancelConns()
		ts.Close()
	})
	return s, ts
}

func TestCreateChat(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{})

	resp, err := http.Post(ts.URL+"/create_chat", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "11111111-2222-4333-8444-555555555555", body["chat_id"])

	resp, err = http.Get(ts.URL + "/create_chat")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetChats(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{chats: []string{"a", "b"}})

	resp, err := http.Get(ts.URL + "/get_chats")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[{"chat_id":"a"},{"chat_id":"b"}]`, string(body))
}

func TestGetChats_Empty(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{chats: []string{}})

	resp, err := http.Get(ts.URL + "/get_chats")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(body))
}

func TestGetMessages(t *testing.T) {
	ts0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	_, ts := newTestServer(t, &mockChat{messages: []core.Message{
		{ChatID: "c1", Sender: core.SenderUser, Text: "what is a lease", Timestamp: ts0},
		{ChatID: "c1", Sender: core.SenderBot, Text: "a contract", Timestamp: ts0.Add(time.Second)},
	}})

	resp, err := http.Get(ts.URL + "/get_messages/c1")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[
		{"chat_id":"c1","sender":"user","text":"what is a lease","timestamp":"2024-05-01T10:00:00Z"},
		{"chat_id":"c1","sender":"bot","text":"a contract","timestamp":"2024-05-01T10:00:01Z"}
	]`, string(body))
}

func TestGetMessages_StoreError(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{err: errors.New("database is locked")})

	resp, err := http.Get(ts.URL + "/get_messages/c1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "database is locked")
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/create_chat", nil)
	req.Header.Set("Origin", frontend)
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, frontend, resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/get_chats", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSSE(t *testing.T) {
	chat := &mockChat{}
	_, ts := newTestServer(t, chat)

	resp, err := http.Get(ts.URL + "/stream?question=what+is+a+lease&chat_id=c1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t,
		"data: answer:\n\ndata: what\n\ndata: is\n\ndata: a\n\ndata: lease\n\ndata: [FINE]\n\n",
		string(body))
	assert.Equal(t, []askCall{{"c1", "what is a lease"}}, chat.calls())
}

func TestSSE_MultiLineToken(t *testing.T) {
	assert.Equal(t, "data: one\n\n", sseEvent("one"))
	assert.Equal(t,
		"data: ⚠️ Server error: http 503: <html>\ndata: <body>down</body>\n\n",
		sseEvent("⚠️ Server error: http 503: <html>\n<body>down</body>"))
	assert.Equal(t, "data: a\ndata: b\n\n", sseEvent("a\r\nb"))
}

func TestSSE_MissingParams(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{})

	for _, q := range []string{"/stream?chat_id=c1", "/stream?question=hi", "/stream?question=%20&chat_id=c1"} {
		resp, err := http.Get(ts.URL + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", header)
}

func readUntilEnd(t *testing.T, conn *websocket.Conn) []string {
	t.Helper()
	var frames []string
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		frames = append(frames, string(data))
		if string(data) == "[FINE]" || strings.HasPrefix(string(data), "⚠️") {
			return frames
		}
	}
}

func TestWebSocket_Offer(t *testing.T) {
	chat := &mockChat{}
	_, ts := newTestServer(t, chat)

	conn, _, err := dialWS(t, ts, frontend)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "ice-candidate", "candidate": "x"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"event": "offer", "question": "rent", "chat_id": "c1"}))
	assert.Equal(t, []string{"answer:", "rent", "[FINE]"}, readUntilEnd(t, conn))

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "offer", "question": "deposit", "chat_id": "c1"}))
	assert.Equal(t, []string{"answer:", "deposit", "[FINE]"}, readUntilEnd(t, conn))

	assert.Equal(t, []askCall{{"c1", "rent"}, {"c1", "deposit"}}, chat.calls())
}

func TestWebSocket_InvalidFrames(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{})

	conn, _, err := dialWS(t, ts, "")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, []string{"⚠️ Invalid message: expected a JSON event."}, readUntilEnd(t, conn))

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "offer", "question": "q"}))
	assert.Equal(t, []string{"⚠️ Invalid request: chat id is empty"}, readUntilEnd(t, conn))
}

func TestWebSocket_InvalidFrameDuringAnswer(t *testing.T) {
	chat := &mockChat{delay: 50 * time.Millisecond}
	_, ts := newTestServer(t, chat)

	conn, _, err := dialWS(t, ts, frontend)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "offer", "question": "a lease is a contract", "chat_id": "c1"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, first, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "answer:", string(first))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	assert.Equal(t, []string{"a", "lease", "is", "a", "contract", "[FINE]"}, readUntilEnd(t, conn))
	assert.Equal(t, []string{"⚠️ Invalid message: expected a JSON event."}, readUntilEnd(t, conn))
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{})

	_, resp, err := dialWS(t, ts, "http://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStatic(t *testing.T) {
	s, ts := newTestServer(t, &mockChat{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	build := s.cfg.GetStaticPath()
	require.NoError(t, os.MkdirAll(filepath.Join(build, "static"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(build, "index.html"), []byte("<html>lexbot</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(build, "static", "app.js"), []byte("console.log(1)"), 0644))

	for path, want := range map[string]string{
		"/":              "<html>lexbot</html>",
		"/chat/123":      "<html>lexbot</html>",
		"/static/app.js": "console.log(1)",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, want, string(body), path)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	_, ts := newTestServer(t, &mockChat{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "lexbot_test_total 1")

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, map[string]string{"status": "ok", "name": "LexBot", "version": core.BotVersion}, health)
}

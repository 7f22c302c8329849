package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer     = 64
	pendingOffers  = 4
	pendingRejects = 4
)

// wsEvent is a client frame. Only "offer" carries a question; "answer" and
// "ice-candidate" are WebRTC signalling the frontend emits and the server
// merely acknowledges in the log.
type wsEvent struct {
	Event    string          `json:"event"`
	Question string          `json:"question"`
	ChatID   string          `json:"chat_id"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type wsConn struct {
	conn   *websocket.Conn
	send   chan string
	cancel context.CancelFunc
	logger zerolog.Logger
}

// Send implements core.Sink: one token per text frame.
func (c *wsConn) Send(ctx context.Context, token string) error {
	select {
	case c.send <- token:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	// hijacked connections outlive http.Server.Shutdown, stop them explicitly
	stopOnShutdown := context.AfterFunc(s.connCtx, cancel)
	defer stopOnShutdown()

	c := &wsConn{
		conn:   conn,
		send:   make(chan string, sendBuffer),
		cancel: cancel,
		logger: s.logger.With().Str("remote", r.RemoteAddr).Logger(),
	}
	c.logger.Debug().Msg("websocket connected")

	// a blocked ReadMessage only returns on a deadline or a closed conn
	unblockRead := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer unblockRead()

	offers := make(chan wsEvent, pendingOffers)
	rejects := make(chan string, pendingRejects)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.writeLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.serveOffers(ctx, c, offers, rejects)
	}()

	s.readLoop(ctx, c, offers, rejects)
	cancel()
	wg.Wait()

	_ = conn.Close()
	c.logger.Debug().Msg("websocket closed")
}

// readLoop never writes to the socket itself. Rejections are handed to
// serveOffers so they cannot land inside an answer that is streaming.
func (s *Server) readLoop(ctx context.Context, c *wsConn, offers chan<- wsEvent, rejects chan<- string) {
	reject := func(msg string) {
		select {
		case rejects <- s.errorPrefix + " " + msg:
		default:
			c.logger.Debug().Str("reject", msg).Msg("rejection dropped, client is flooding")
		}
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				c.logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		var ev wsEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			reject("Invalid message: expected a JSON event.")
			continue
		}

		switch ev.Event {
		case "offer":
			select {
			case offers <- ev:
			default:
				reject("Too many pending questions, wait for the current answer.")
			}
		case "answer", "ice-candidate":
			c.logger.Debug().Str("event", ev.Event).RawJSON("data", orNull(ev.Data)).Msg("signalling event ignored")
		default:
			c.logger.Debug().Str("event", ev.Event).Msg("unknown websocket event")
		}
	}
}

// serveOffers is the only producer of frames. It answers questions one at a
// time and sends rejections between answers, so every stream reaches the
// client contiguous.
func (s *Server) serveOffers(ctx context.Context, c *wsConn, offers <-chan wsEvent, rejects <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-rejects:
			_ = c.Send(ctx, msg)
		case ev := <-offers:
			_, err := s.chat.Ask(ctx, ev.ChatID, ev.Question, c)
			switch {
			case errors.Is(err, chatbot.ErrEmptyQuestion), errors.Is(err, chatbot.ErrEmptyChatID):
				_ = c.Send(ctx, s.errorPrefix+" Invalid request: "+err.Error())
			case err != nil:
				c.logger.Debug().Err(err).Str("chat_id", ev.ChatID).Msg("stream interrupted")
			}
		}
	}
}

func (c *wsConn) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case token := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(token)); err != nil {
				c.logger.Debug().Err(err).Msg("websocket write failed")
				c.cancel()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}

func orNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}

var _ core.Sink = (*wsConn)(nil)

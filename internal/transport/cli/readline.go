package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/chatbot"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/stream"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

const sessionKey = "cli"

type ChatService interface {
	Ask(ctx context.Context, chatID, question string, sink core.Sink) (stream.State, error)
	Sessions() *chatbot.Sessions
}

type ReadLine struct {
	streamCfg *config.StreamConfig
	chat      ChatService
	router    core.CmdRouter
	rl        *readline.Instance
}

func NewReadLine(chat ChatService, router core.CmdRouter, cfg *config.AppConfig, streamCfg *config.StreamConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "⚖️ > ",
		HistoryFile:     cfg.GetInputHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		streamCfg: streamCfg,
		chat:      chat,
		router:    router,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := r.handle(ctx, line, r.rl.Stdout()); err != nil {
			logger.Error().Err(err).Msg("answer failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
		}
	}
}

func (r *ReadLine) handle(ctx context.Context, line string, out io.Writer) error {
	if reply, ok := r.router.Execute(ctx, sessionKey, line); ok {
		_, err := fmt.Fprintln(out, reply)
		return err
	}

	chatID := r.chat.Sessions().Current(sessionKey)
	_, err := r.chat.Ask(ctx, chatID, line, NewPrinter(out, r.streamCfg))
	return err
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Printer writes answer words on one line and ends it at the sentinel or an
// error token.
type Printer struct {
	out     io.Writer
	tokens  *config.StreamConfig
	started bool
}

func NewPrinter(out io.Writer, tokens *config.StreamConfig) *Printer {
	return &Printer{out: out, tokens: tokens}
}

func (p *Printer) Send(_ context.Context, token string) error {
	var err error
	switch {
	case p.tokens.IsSentinel(token):
		if p.started {
			_, err = fmt.Fprintln(p.out)
		}
		p.started = false
	case p.tokens.IsError(token):
		if p.started {
			token = "\n" + token
		}
		_, err = fmt.Fprintln(p.out, token)
		p.started = false
	default:
		if p.started {
			token = " " + token
		}
		_, err = io.WriteString(p.out, token)
		p.started = true
	}
	return err
}

// Package stream turns generated answers into paced word streams.
package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/metrics"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/retrieval"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

// Recorder persists a finished interaction.
type Recorder interface {
	Record(ctx context.Context, chatID, question, answer string) error
}

type Streamer struct {
	generator core.Generator
	recorder  Recorder
	pacer     Pacer
	cfg       *config.StreamConfig
	metrics   *metrics.Metrics
}

func NewStreamer(gen core.Generator, rec Recorder, pacer Pacer, cfg *config.StreamConfig, m *metrics.Metrics) *Streamer {
	if cfg == nil {
		cfg = config.DefaultStreamConfig()
	}
	if pacer == nil {
		pacer = TimerPacer{Delay: cfg.TokenDelay}
	}
	return &Streamer{
		generator: gen,
		recorder:  rec,
		pacer:     pacer,
		cfg:       cfg,
		metrics:   m,
	}
}

// run tracks a single stream.
type run struct {
	state  State
	parts  []string
	logger zerolog.Logger
}

func (r *run) transition(to State) {
	r.logger.Debug().Stringer("from", r.state).Stringer("to", to).Msg("stream state")
	r.state = to
}

func (r *run) answer() string {
	return strings.Join(r.parts, " ")
}

// Stream generates one completion per context, in ranked order, and sends
// the space-joined result word by word, followed by the end sentinel.
// Generation problems are reported in-band as a single error token. The
// returned error is non-nil only when the stream was cancelled, either by
// ctx or by a failing sink. The interaction is recorded in every case.
func (s *Streamer) Stream(ctx context.Context, chatID, question string, contexts []string, sink core.Sink) (State, error) {
	r := &run{
		state:  Idle,
		logger: log.FromCtx(ctx).With().Str("component", "stream").Str("chat_id", chatID).Logger(),
	}
	err := s.stream(ctx, r, question, contexts, sink)
	s.finish(ctx, r, chatID, question)
	return r.state, err
}

func (s *Streamer) stream(ctx context.Context, r *run, question string, contexts []string, sink core.Sink) error {
	prompts := contexts
	if len(prompts) == 0 {
		prompts = []string{retrieval.RenderContext(question, "")}
	}

	r.transition(Generating)
	for i, prompt := range prompts {
		start := time.Now()
		text, err := s.generator.Generate(ctx, prompt)
		s.metrics.ObserveGeneration(time.Since(start))

		if err != nil {
			if ctx.Err() != nil {
				r.transition(Cancelled)
				return ctx.Err()
			}
			r.logger.Warn().Err(err).Int("context", i).Msg("generation failed")
			r.transition(Failed)
			s.sendError(ctx, r, sink, err)
			return nil
		}
		r.parts = append(r.parts, text)
	}

	r.transition(Emitting)
	for _, word := range strings.Fields(r.answer()) {
		if err := ctx.Err(); err != nil {
			r.transition(Cancelled)
			return err
		}
		if err := sink.Send(ctx, word); err != nil {
			r.transition(Cancelled)
			return fmt.Errorf("send token: %w", err)
		}
		s.metrics.TokenEmitted()

		if err := s.pacer.Wait(ctx); err != nil {
			r.transition(Cancelled)
			return err
		}
	}

	if err := sink.Send(ctx, s.cfg.EndSentinel); err != nil {
		r.transition(Cancelled)
		return fmt.Errorf("send end sentinel: %w", err)
	}
	r.transition(Terminated)
	return nil
}

// Fail reports a failure that happened before generation started, such as
// an unreachable knowledge base, then records the question with an empty
// answer.
func (s *Streamer) Fail(ctx context.Context, chatID, question string, cause error, sink core.Sink) State {
	r := &run{
		state:  Idle,
		logger: log.FromCtx(ctx).With().Str("component", "stream").Str("chat_id", chatID).Logger(),
	}
	r.logger.Warn().Err(cause).Msg("answer pipeline failed")
	r.transition(Failed)
	s.sendError(ctx, r, sink, cause)
	s.finish(ctx, r, chatID, question)
	return r.state
}

func (s *Streamer) sendError(ctx context.Context, r *run, sink core.Sink, cause error) {
	if err := sink.Send(ctx, s.ErrorMessage(cause)); err != nil {
		r.logger.Debug().Err(err).Msg("failed to deliver error token")
	}
}

// ErrorMessage is the in-band text sent instead of the end sentinel.
func (s *Streamer) ErrorMessage(cause error) string {
	if errors.Is(cause, core.ErrMalformedGeneration) {
		return s.cfg.ErrorPrefix + " Error generating the answer."
	}
	return s.cfg.ErrorPrefix + " Server error: " + cause.Error()
}

// finish records the interaction. The client may already be gone, so
// persistence is detached from ctx cancellation.
func (s *Streamer) finish(ctx context.Context, r *run, chatID, question string) {
	switch r.state {
	case Terminated:
		s.metrics.StreamFinished(metrics.OutcomeTerminated)
	case Failed:
		s.metrics.StreamFinished(metrics.OutcomeFailed)
	case Cancelled:
		s.metrics.StreamFinished(metrics.OutcomeCancelled)
	}

	if err := s.recorder.Record(context.WithoutCancel(ctx), chatID, question, r.answer()); err != nil {
		r.logger.Error().Err(err).Msg("failed to record conversation")
		s.metrics.PersistenceFailed()
		return
	}
	r.logger.Debug().Stringer("state", r.state).Msg("conversation recorded")
}

// Package retrieval ranks knowledge base entries against a user query.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/config"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/metrics"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/providers/embedding"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/lexical"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

// ErrNoContext means no entry cleared both gates. It is an outcome, not a
// failure: callers still generate an answer without context.
var ErrNoContext = errors.New("no relevant context found")

type candidate struct {
	score float64
	text  string
}

type Retriever struct {
	repo     core.KnowledgeRepository
	embedder core.Embedder
	cfg      *config.RetrievalConfig
	metrics  *metrics.Metrics
}

func NewRetriever(repo core.KnowledgeRepository, embedder core.Embedder, cfg *config.RetrievalConfig, m *metrics.Metrics) *Retriever {
	if cfg == nil {
		cfg = config.DefaultRetrievalConfig()
	}
	return &Retriever{
		repo:     repo,
		embedder: embedder,
		cfg:      cfg,
		metrics:  m,
	}
}

// RenderContext is the prompt form of a knowledge entry.
func RenderContext(question, context string) string {
	return "Question: " + question + " Context: " + context
}

// Retrieve returns up to TopK rendered contexts, best first, or ErrNoContext.
// Every candidate costs two embedding calls; the query is embedded once.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	start := time.Now()
	logger := log.FromCtx(ctx)

	topics, err := r.repo.DistinctTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	topic, ok := Classify(query, topics, r.cfg.TopicThreshold)
	if !ok {
		topic = ""
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	entries, err := r.repo.FindByTopic(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	var admitted []candidate
	for _, e := range entries {
		score, err := r.score(ctx, queryVec, e)
		if err != nil {
			return nil, err
		}
		if score <= r.cfg.MinScore {
			continue
		}
		if !lexical.IsRelevant(query, e.Question, r.cfg.RelevanceThreshold) {
			continue
		}
		admitted = append(admitted, candidate{score: score, text: RenderContext(e.Question, e.Context)})
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].score > admitted[j].score
	})
	if len(admitted) > r.cfg.TopK {
		admitted = admitted[:r.cfg.TopK]
	}

	logger.Debug().
		Str("topic", topic).
		Int("candidates", len(entries)).
		Int("admitted", len(admitted)).
		Dur("took", time.Since(start)).
		Msg("retrieval finished")

	if len(admitted) == 0 {
		r.metrics.ObserveRetrieval(time.Since(start), 0, "empty")
		return nil, ErrNoContext
	}
	r.metrics.ObserveRetrieval(time.Since(start), len(admitted), "hit")

	out := make([]string, len(admitted))
	for i, c := range admitted {
		out[i] = c.text
	}
	return out, nil
}

// score blends the query's cosine similarity to the stored question and to
// the stored context.
func (r *Retriever) score(ctx context.Context, queryVec []float32, e core.KnowledgeEntry) (float64, error) {
	qVec, err := r.embedder.Embed(ctx, e.Question)
	if err != nil {
		return 0, fmt.Errorf("failed to embed question of entry %d: %w", e.ID, err)
	}
	cVec, err := r.embedder.Embed(ctx, e.Context)
	if err != nil {
		return 0, fmt.Errorf("failed to embed context of entry %d: %w", e.ID, err)
	}

	qSim, err := embedding.CosineSimilarity(queryVec, qVec)
	if err != nil {
		return 0, err
	}
	cSim, err := embedding.CosineSimilarity(queryVec, cVec)
	if err != nil {
		return 0, err
	}
	return r.cfg.QuestionWeight*qSim + r.cfg.ContextWeight*cSim, nil
}

// Package knowledge loads curated question/context pairs into the store.
package knowledge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/conv"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
)

var ErrNoEntries = errors.New("no knowledge entries found")

// rawEntry accepts both the English keys and the Italian ones used by the
// original qa_collection export.
type rawEntry struct {
	Topic     string `yaml:"topic"`
	Question  string `yaml:"question"`
	Context   string `yaml:"context"`
	Argomento string `yaml:"argomento"`
	Domanda   string `yaml:"domanda"`
	Contesto  string `yaml:"contesto"`
}

func (r rawEntry) normalize() (core.KnowledgeEntry, error) {
	e := core.KnowledgeEntry{
		Topic:    firstNonEmpty(r.Topic, r.Argomento),
		Question: firstNonEmpty(r.Question, r.Domanda),
		Context:  firstNonEmpty(r.Context, r.Contesto),
	}

	e.Topic = conv.NormalizeSpace(e.Topic)
	e.Question = conv.NormalizeSpace(e.Question)

	text, err := conv.HTMLToText(e.Context)
	if err != nil {
		return e, err
	}
	e.Context = text

	switch {
	case e.Topic == "":
		return e, errors.New("missing topic")
	case e.Question == "":
		return e, errors.New("missing question")
	case e.Context == "":
		return e, errors.New("missing context")
	}
	return e, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type Importer struct {
	repo core.KnowledgeRepository
}

func NewImporter(repo core.KnowledgeRepository) *Importer {
	return &Importer{repo: repo}
}

// Parse reads a YAML or JSON document holding either a list of entries or
// a mapping with an "entries" list.
func Parse(r io.Reader) ([]core.KnowledgeEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var raw []rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var doc struct {
			Entries []rawEntry `yaml:"entries"`
		}
		if errDoc := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); errDoc != nil {
			return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
		}
		raw = doc.Entries
	}
	if len(raw) == 0 {
		return nil, ErrNoEntries
	}

	entries := make([]core.KnowledgeEntry, 0, len(raw))
	for i, r := range raw {
		e, err := r.normalize()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Import parses r and stores every entry, or none if any is invalid.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	entries, err := Parse(r)
	if err != nil {
		return 0, err
	}

	n, err := i.repo.AddEntries(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("failed to store knowledge: %w", err)
	}

	log.FromCtx(ctx).Info().Int("entries", n).Msg("knowledge imported")
	return n, nil
}

func (i *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open knowledge file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

func (i *Importer) Topics(ctx context.Context) ([]string, error) {
	return i.repo.DistinctTopics(ctx)
}

// Entries lists a topic, or the whole base when topic is empty.
func (i *Importer) Entries(ctx context.Context, topic string) ([]core.KnowledgeEntry, error) {
	return i.repo.FindByTopic(ctx, topic)
}

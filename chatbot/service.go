package chatbot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
)

// Service owns the loaded artifacts and answers chat turns.
type Service struct {
	cfg      Config
	vocab    *Vocabulary
	labels   *LabelSet
	intents  *IntentTable
	resolver *Resolver
	selector *Selector
	closer   io.Closer

	logger *log.Logger
}

// Components lets callers assemble a service from already built parts.
type Components struct {
	Normalizer Normalizer
	Vocabulary *Vocabulary
	Labels     *LabelSet
	Classifier Classifier
	Intents    *IntentTable
	Random     RandomSource
}

// NewService loads every artifact named by cfg. Vocabulary, label and
// classifier failures are returned; an intent table failure is logged and
// surfaces on the first Respond.
func NewService(ctx context.Context, cfg Config, logger *log.Logger) (*Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	normalizer, err := NewNormalizer(cfg)
	if err != nil {
		return nil, err
	}
	words, err := loadNonEmptyList(ArtifactVocabulary, cfg.Artifacts.VocabularyPath)
	if err != nil {
		return nil, err
	}
	classes, err := loadNonEmptyList(ArtifactLabels, cfg.Artifacts.LabelsPath)
	if err != nil {
		return nil, err
	}
	vocab := NewVocabulary(words)
	labels := NewLabelSet(classes)

	model, err := NewOrtClassifier(cfg.Onnx, cfg.Artifacts.ModelPath, vocab.Len(), labels.Len())
	if err != nil {
		return nil, err
	}
	var classifier Classifier = model
	if cfg.CachePredictions {
		classifier = NewCachedClassifier(model, filepath.Base(cfg.Artifacts.ModelPath))
	}

	intents := loadIntentsLogged(cfg.Artifacts.IntentsPath, logger)

	s, err := NewServiceFrom(Components{
		Normalizer: normalizer,
		Vocabulary: vocab,
		Labels:     labels,
		Classifier: classifier,
		Intents:    intents,
		Random:     NewRandomSource(cfg.Seed),
	}, logger)
	if err != nil {
		model.Close()
		return nil, err
	}
	s.cfg = cfg
	s.closer = model
	s.logf("Loaded %d vocabulary tokens and %d labels", vocab.Len(), labels.Len())
	return s, nil
}

// NewServiceFrom assembles a service from prepared components.
func NewServiceFrom(c Components, logger *log.Logger) (*Service, error) {
	resolver, err := NewResolver(c.Normalizer, c.Vocabulary, c.Labels, c.Classifier)
	if err != nil {
		return nil, err
	}
	intents := c.Intents
	if intents == nil {
		intents = UnavailableIntentTable(nil)
	}
	s := &Service{
		vocab:    c.Vocabulary,
		labels:   c.Labels,
		intents:  intents,
		resolver: resolver,
		selector: NewSelector(intents, c.Random),
		logger:   logger,
	}
	s.cfg.ApplyDefaults()
	s.reportCoverage()
	return s, nil
}

func loadNonEmptyList(artifact Artifact, path string) ([]string, error) {
	list, err := LoadStringList(artifact, path)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, parseError(artifact, path, errors.New("no entries"))
	}
	return list, nil
}

func loadIntentsLogged(path string, logger *log.Logger) *IntentTable {
	table, err := LoadIntentTable(path)
	if err == nil {
		return table
	}
	var artErr *ArtifactError
	if errors.As(err, &artErr) {
		switch artErr.Failure {
		case FailureNotFound:
			logPrintf(logger, "The intent file %q was not found.", path)
		case FailureParse:
			logPrintf(logger, "Error decoding intent file %q: %v", path, artErr.Err)
		default:
			logPrintf(logger, "An unexpected error occurred reading %q: %v", path, artErr.Err)
		}
	} else {
		logPrintf(logger, "An unexpected error occurred reading %q: %v", path, err)
	}
	return UnavailableIntentTable(err)
}

func (s *Service) reportCoverage() {
	if err := s.intents.Err(); err != nil {
		return
	}
	for _, tag := range s.intents.Duplicates() {
		s.logf("Intent tag %q is defined more than once; the first definition is used", tag)
	}
	for _, label := range s.intents.MissingLabels(s.labels) {
		if similar := s.intents.Similar(label, 3); len(similar) > 0 {
			s.logf("Label %q has no intent record (similar tags: %s)", label, strings.Join(similar, ", "))
			continue
		}
		s.logf("Label %q has no intent record", label)
	}
}

// Close releases the classifier.
func (s *Service) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Config returns a copy of the configuration the service was built from.
func (s *Service) Config() Config {
	return s.cfg.Clone()
}

// Labels returns the label set.
func (s *Service) Labels() *LabelSet { return s.labels }

// Vocabulary returns the vocabulary.
func (s *Service) Vocabulary() *Vocabulary { return s.vocab }

// Intents returns the intent table.
func (s *Service) Intents() *IntentTable { return s.intents }

// Resolve ranks the intents for text.
func (s *Service) Resolve(ctx context.Context, text string) ([]Candidate, error) {
	return s.resolver.Resolve(ctx, text)
}

// Select picks the response for ranked candidates.
func (s *Service) Select(ranked []Candidate) (string, error) {
	return s.selector.Select(ranked)
}

// Respond runs one chat turn. The returned Reply carries the candidates even
// when no response could be selected.
func (s *Service) Respond(ctx context.Context, text string) (Reply, error) {
	reply := Reply{}
	ranked, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		return reply, fmt.Errorf("resolve: %w", err)
	}
	reply.Candidates = ranked
	if len(ranked) > 0 {
		reply.Tag = ranked[0].Label
	}
	answer, err := s.selector.Select(ranked)
	if err != nil {
		return reply, err
	}
	reply.Text = answer
	return reply, nil
}

// TagScore counts how often a tag's patterns resolved back to the tag.
type TagScore struct {
	Tag   string
	Hits  int
	Total int
}

// Evaluation summarizes replaying the intent patterns through the resolver.
type Evaluation struct {
	Tags  []TagScore
	Hits  int
	Total int
}

// Accuracy returns the share of patterns whose top candidate matched their tag.
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Hits) / float64(e.Total)
}

// Evaluate resolves every configured pattern and compares the top candidate
// with the pattern's tag. Patterns of duplicate records count toward the tag.
func (s *Service) Evaluate(ctx context.Context, progress func(done, total int)) (Evaluation, error) {
	var ev Evaluation
	if err := s.intents.Err(); err != nil {
		return ev, fmt.Errorf("%w: %w", ErrIntentTableUnavailable, err)
	}
	records := s.intents.Records()
	total := 0
	for _, rec := range records {
		total += len(rec.Patterns)
	}
	index := make(map[string]int)
	done := 0
	for _, rec := range records {
		i, ok := index[rec.Tag]
		if !ok {
			i = len(ev.Tags)
			index[rec.Tag] = i
			ev.Tags = append(ev.Tags, TagScore{Tag: rec.Tag})
		}
		for _, pattern := range rec.Patterns {
			ranked, err := s.resolver.Resolve(ctx, pattern)
			if err != nil {
				return ev, fmt.Errorf("resolve %q: %w", pattern, err)
			}
			ev.Tags[i].Total++
			ev.Total++
			if len(ranked) > 0 && ranked[0].Label == rec.Tag {
				ev.Tags[i].Hits++
				ev.Hits++
			}
			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}
	return ev, nil
}

func (s *Service) logf(format string, args ...any) {
	logPrintf(s.logger, format, args...)
}

func logPrintf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}

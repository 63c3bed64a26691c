package chatbot

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordClassifier gives 0.9 to the label whose index matches the first set
// bit of the bag and 0.05 to every other label.
type keywordClassifier struct {
	labels int
}

func (k keywordClassifier) Predict(_ context.Context, batch [][]float32) ([][]float32, error) {
	out := make([][]float32, len(batch))
	for i, vec := range batch {
		row := make([]float32, k.labels)
		for j := range row {
			row[j] = 0.05
		}
		for j, v := range vec {
			if v == 1 && j < k.labels {
				row[j] = 0.9
				break
			}
		}
		out[i] = row
	}
	return out, nil
}

func newTestService(t *testing.T, intents *IntentTable, logger *log.Logger) *Service {
	t.Helper()
	s, err := NewServiceFrom(Components{
		Normalizer: Normalizer{Tokenizer: WordTokenizer{}, Lemmatizer: IdentityLemmatizer{}},
		Vocabulary: NewVocabulary([]string{"hi", "bye", "thanks"}),
		Labels:     NewLabelSet([]string{"greeting", "farewell", "thanks"}),
		Classifier: keywordClassifier{labels: 3},
		Intents:    intents,
		Random:     fixedRandom(0),
	}, logger)
	require.NoError(t, err)
	return s
}

func TestServiceRespond(t *testing.T) {
	s := newTestService(t, greetingTable(), nil)

	reply, err := s.Respond(context.Background(), "hi there")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply.Text)
	assert.Equal(t, "greeting", reply.Tag)
	require.Len(t, reply.Candidates, 1)
	assert.Equal(t, "greeting", reply.Candidates[0].Label)
}

func TestServiceRespondNoCandidates(t *testing.T) {
	s := newTestService(t, greetingTable(), nil)

	reply, err := s.Respond(context.Background(), "what is this")
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Empty(t, reply.Candidates)
	assert.Empty(t, reply.Text)
}

func TestServiceRespondUnmatchedTag(t *testing.T) {
	s := newTestService(t, greetingTable(), nil)

	reply, err := s.Respond(context.Background(), "thanks")
	var unmatched *UnmatchedTagError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "thanks", unmatched.Tag)
	assert.Equal(t, "thanks", reply.Tag)
}

func TestServiceReportsCoverageGaps(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	table := NewIntentTable([]IntentRecord{
		{Tag: "greeting", Responses: []string{"a"}},
		{Tag: "greeting", Responses: []string{"b"}},
		{Tag: "farewell", Responses: []string{"c"}},
	})

	newTestService(t, table, logger)

	out := buf.String()
	assert.Contains(t, out, `Intent tag "greeting" is defined more than once`)
	assert.Contains(t, out, `Label "thanks" has no intent record`)
}

func TestServiceDefersIntentLoadFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	missing := filepath.Join(t.TempDir(), "intents.json")

	table := loadIntentsLogged(missing, logger)
	assert.Contains(t, buf.String(), "was not found")

	s := newTestService(t, table, logger)
	_, err := s.Respond(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrIntentTableUnavailable)
	requireFailure(t, err, FailureNotFound)
}

func TestLoadIntentsLoggedDistinguishesFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	table := loadIntentsLogged(writeFile(t, "intents.json", "{oops"), logger)
	assert.Error(t, table.Err())
	assert.Contains(t, buf.String(), "Error decoding intent file")

	buf.Reset()
	table = loadIntentsLogged(t.TempDir(), logger)
	assert.Error(t, table.Err())
	assert.Contains(t, buf.String(), "An unexpected error occurred")
}

func TestServiceEvaluate(t *testing.T) {
	table := NewIntentTable([]IntentRecord{
		{Tag: "greeting", Patterns: []string{"hi", "hi friend", "hello"}, Responses: []string{"a"}},
		{Tag: "farewell", Patterns: []string{"bye"}, Responses: []string{"b"}},
	})
	s := newTestService(t, table, nil)

	var calls []int
	ev, err := s.Evaluate(context.Background(), func(done, total int) {
		assert.Equal(t, 4, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, calls)
	assert.Equal(t, 3, ev.Hits)
	assert.Equal(t, 4, ev.Total)
	assert.InDelta(t, 0.75, ev.Accuracy(), 1e-9)
	assert.Equal(t, []TagScore{
		{Tag: "greeting", Hits: 2, Total: 3},
		{Tag: "farewell", Hits: 1, Total: 1},
	}, ev.Tags)
}

func TestServiceEvaluateUnavailableTable(t *testing.T) {
	s := newTestService(t, nil, nil)

	_, err := s.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrIntentTableUnavailable)
}

func TestNewServiceMissingVocabularyIsFatal(t *testing.T) {
	dir := t.TempDir()
	off := false
	cfg := Config{
		Artifacts: ArtifactConfig{
			VocabularyPath: filepath.Join(dir, "words.pkl"),
			LabelsPath:     filepath.Join(dir, "classes.pkl"),
		},
		Lemmatize: &off,
	}

	_, err := NewService(context.Background(), cfg, nil)
	var artErr *ArtifactError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, ArtifactVocabulary, artErr.Artifact)
	assert.Equal(t, FailureNotFound, artErr.Failure)
}

func TestNewServiceMissingLabelsIsFatal(t *testing.T) {
	off := false
	cfg := Config{
		Artifacts: ArtifactConfig{
			VocabularyPath: writeFile(t, "words.json", `["hi"]`),
			LabelsPath:     filepath.Join(t.TempDir(), "classes.json"),
		},
		Lemmatize: &off,
	}

	_, err := NewService(context.Background(), cfg, nil)
	var artErr *ArtifactError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, ArtifactLabels, artErr.Artifact)
}

func TestNewServiceEmptyListsAreParseErrors(t *testing.T) {
	off := false
	cases := []struct {
		name     string
		words    string
		classes  string
		artifact Artifact
	}{
		{"vocabulary", `[]`, `["greeting"]`, ArtifactVocabulary},
		{"labels", `["hi"]`, `[]`, ArtifactLabels},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				Artifacts: ArtifactConfig{
					VocabularyPath: writeFile(t, "words.json", tc.words),
					LabelsPath:     writeFile(t, "classes.json", tc.classes),
				},
				Lemmatize: &off,
			}

			_, err := NewService(context.Background(), cfg, nil)
			var artErr *ArtifactError
			require.ErrorAs(t, err, &artErr)
			assert.Equal(t, tc.artifact, artErr.Artifact)
			assert.Equal(t, FailureParse, artErr.Failure)
		})
	}
}

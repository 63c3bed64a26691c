package chatbot

import (
	"encoding/json"
	"strconv"
)

// ConfidenceThreshold is the exclusive lower bound a classifier probability
// must exceed for its label to become a candidate.
const ConfidenceThreshold float32 = 0.25

// Candidate is a label that cleared the confidence threshold.
// Probability is kept in its textual form.
type Candidate struct {
	Label       string `json:"intent"`
	Probability string `json:"probability"`
}

// Score parses Probability back into a number. Unparseable values yield 0.
func (c Candidate) Score() float64 {
	v, err := strconv.ParseFloat(c.Probability, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatProbability(p float32) string {
	return strconv.FormatFloat(float64(p), 'g', -1, 32)
}

// Reply is the outcome of a single chat turn.
type Reply struct {
	Text       string      `json:"text"`
	Tag        string      `json:"tag"`
	Candidates []Candidate `json:"candidates"`
}

// TokenizerKind selects how input text is split into tokens.
type TokenizerKind string

const (
	// TokenizerWords segments on Unicode word boundaries.
	TokenizerWords TokenizerKind = "words"
	// TokenizerHuggingFace uses a tokenizer.json definition.
	TokenizerHuggingFace TokenizerKind = "huggingface"
)

// LemmatizerKind selects how tokens are reduced to their base form.
type LemmatizerKind string

const (
	// LemmatizerWordNet detaches English noun suffixes WordNet-style and keeps case.
	LemmatizerWordNet LemmatizerKind = "wordnet"
	// LemmatizerGolem uses the golem dictionary, which lowercases and maps across parts of speech.
	LemmatizerGolem LemmatizerKind = "golem"
)

// ArtifactConfig points at the pre-built inputs produced by the training pipeline.
type ArtifactConfig struct {
	VocabularyPath string `json:"vocabularyPath"`
	LabelsPath     string `json:"labelsPath"`
	ModelPath      string `json:"modelPath"`
	IntentsPath    string `json:"intentsPath"`
}

// OnnxConfig wraps the ONNX runtime settings.
type OnnxConfig struct {
	OrtDLL     string `json:"ortDll"`
	InputName  string `json:"inputName"`
	OutputName string `json:"outputName"`
}

// TokenizerConfig selects the tokenizer implementation.
type TokenizerConfig struct {
	Kind TokenizerKind `json:"kind"`
	Path string        `json:"path"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Artifacts        ArtifactConfig  `json:"artifacts"`
	Onnx             OnnxConfig      `json:"onnx"`
	Tokenizer        TokenizerConfig `json:"tokenizer"`
	Lemmatize        *bool           `json:"lemmatize,omitempty"`
	Lemmatizer       LemmatizerKind  `json:"lemmatizer,omitempty"`
	CachePredictions bool            `json:"cachePredictions"`
	Seed             uint64          `json:"seed"`
	FallbackResponse string          `json:"fallbackResponse"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// LemmatizeEnabled reports whether tokens are reduced to their lemma.
func (c Config) LemmatizeEnabled() bool {
	return c.Lemmatize == nil || *c.Lemmatize
}

// ApplyDefaults populates zero values with the file names the training pipeline emits.
func (c *Config) ApplyDefaults() {
	if c.Artifacts.VocabularyPath == "" {
		c.Artifacts.VocabularyPath = "words.pkl"
	}
	if c.Artifacts.LabelsPath == "" {
		c.Artifacts.LabelsPath = "classes.pkl"
	}
	if c.Artifacts.ModelPath == "" {
		c.Artifacts.ModelPath = "chatbot_model.onnx"
	}
	if c.Artifacts.IntentsPath == "" {
		c.Artifacts.IntentsPath = "intents.json"
	}
	if c.Tokenizer.Kind == "" {
		c.Tokenizer.Kind = TokenizerWords
	}
	if c.Lemmatizer == "" {
		c.Lemmatizer = LemmatizerWordNet
	}
	if c.FallbackResponse == "" {
		c.FallbackResponse = "Sorry, I didn't get that."
	}
}

package chatbot

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// IntentRecord holds the canned responses configured for one tag.
type IntentRecord struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Responses []string `json:"responses" yaml:"responses"`
}

type intentDocument struct {
	Intents []rawIntent `json:"intents" yaml:"intents"`
}

// rawIntent also accepts the legacy "tags" key.
type rawIntent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	LegacyTag string   `json:"tags" yaml:"tags"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

// IntentTable maps tags to intent records. A table whose source failed to
// load keeps the load error and refuses lookups.
type IntentTable struct {
	records    []IntentRecord
	byTag      map[string]int
	duplicates []string
	loadErr    error
}

// NewIntentTable indexes records by tag. When a tag repeats, the first record
// wins and the tag is reported by Duplicates.
func NewIntentTable(records []IntentRecord) *IntentTable {
	t := &IntentTable{
		records: make([]IntentRecord, 0, len(records)),
		byTag:   make(map[string]int, len(records)),
	}
	for _, rec := range records {
		rec = IntentRecord{
			Tag:       rec.Tag,
			Patterns:  cloneStrings(rec.Patterns),
			Responses: cloneStrings(rec.Responses),
		}
		t.records = append(t.records, rec)
		if _, ok := t.byTag[rec.Tag]; ok {
			t.duplicates = append(t.duplicates, rec.Tag)
			continue
		}
		t.byTag[rec.Tag] = len(t.records) - 1
	}
	return t
}

// UnavailableIntentTable returns a table that reports err on every lookup.
func UnavailableIntentTable(err error) *IntentTable {
	if err == nil {
		err = errors.New("no intent table loaded")
	}
	return &IntentTable{loadErr: err}
}

// LoadIntentTable reads a JSON or YAML intent document.
func LoadIntentTable(path string) (*IntentTable, error) {
	data, err := readText(path)
	if err != nil {
		return nil, notFoundOr(ArtifactIntents, path, err)
	}
	var doc intentDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, parseError(ArtifactIntents, path, err)
	}
	if doc.Intents == nil {
		return nil, parseError(ArtifactIntents, path, errors.New(`missing top-level "intents" collection`))
	}
	records := make([]IntentRecord, 0, len(doc.Intents))
	for i, raw := range doc.Intents {
		tag := raw.Tag
		if tag == "" {
			tag = raw.LegacyTag
		}
		if tag == "" {
			return nil, parseError(ArtifactIntents, path, fmt.Errorf("intent %d has no tag", i))
		}
		if len(raw.Responses) == 0 {
			return nil, parseError(ArtifactIntents, path, fmt.Errorf("intent %q has no responses", tag))
		}
		records = append(records, IntentRecord{Tag: tag, Patterns: raw.Patterns, Responses: raw.Responses})
	}
	return NewIntentTable(records), nil
}

// Err returns the load error of an unusable table.
func (t *IntentTable) Err() error {
	if t == nil {
		return errors.New("no intent table loaded")
	}
	return t.loadErr
}

// Lookup returns the first record configured for tag.
func (t *IntentTable) Lookup(tag string) (IntentRecord, bool) {
	if t == nil || t.loadErr != nil {
		return IntentRecord{}, false
	}
	i, ok := t.byTag[tag]
	if !ok {
		return IntentRecord{}, false
	}
	return t.records[i], true
}

// Records returns the records in document order, duplicates included.
func (t *IntentTable) Records() []IntentRecord {
	if t == nil {
		return nil
	}
	out := make([]IntentRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Tags returns the distinct tags in document order.
func (t *IntentTable) Tags() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.byTag))
	for i, rec := range t.records {
		if t.byTag[rec.Tag] == i {
			out = append(out, rec.Tag)
		}
	}
	return out
}

// Duplicates lists tags that appeared more than once.
func (t *IntentTable) Duplicates() []string {
	if t == nil {
		return nil
	}
	return cloneStrings(t.duplicates)
}

// Similar returns up to limit configured tags that fuzzily match tag.
func (t *IntentTable) Similar(tag string, limit int) []string {
	tags := t.Tags()
	if len(tags) == 0 || tag == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.Find(tag, tags)
	out := make([]string, 0, limit)
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// MissingLabels returns the labels that have no intent record.
func (t *IntentTable) MissingLabels(labels *LabelSet) []string {
	if t == nil || t.loadErr != nil || labels == nil {
		return nil
	}
	var out []string
	for _, label := range labels.labels {
		if _, ok := t.byTag[label]; !ok {
			out = append(out, label)
		}
	}
	return out
}

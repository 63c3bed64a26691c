package chatbot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireFailure(t *testing.T, err error, want LoadFailure) {
	t.Helper()
	var artErr *ArtifactError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, want, artErr.Failure, artErr.Error())
}

func TestLoadIntentTableJSON(t *testing.T) {
	path := writeFile(t, "intents.json", `{"intents": [
		{"tag": "greeting", "patterns": ["hi", "hello"], "responses": ["Hello!", "Hi there!"]},
		{"tags": "farewell", "responses": ["Bye!"]}
	]}`)

	table, err := LoadIntentTable(path)
	require.NoError(t, err)
	require.NoError(t, table.Err())
	assert.Equal(t, []string{"greeting", "farewell"}, table.Tags())

	rec, ok := table.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, []string{"hi", "hello"}, rec.Patterns)
	assert.Equal(t, []string{"Hello!", "Hi there!"}, rec.Responses)

	rec, ok = table.Lookup("farewell")
	require.True(t, ok)
	assert.Equal(t, []string{"Bye!"}, rec.Responses)
}

func TestLoadIntentTableYAML(t *testing.T) {
	path := writeFile(t, "intents.yaml", `intents:
  - tag: thanks
    patterns: ["thanks"]
    responses:
      - "Any time!"
`)

	table, err := LoadIntentTable(path)
	require.NoError(t, err)
	rec, ok := table.Lookup("thanks")
	require.True(t, ok)
	assert.Equal(t, []string{"Any time!"}, rec.Responses)
}

func TestLoadIntentTableFailures(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadIntentTable(filepath.Join(t.TempDir(), "nope.json"))
		requireFailure(t, err, FailureNotFound)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := LoadIntentTable(writeFile(t, "intents.json", `{"intents": [`))
		requireFailure(t, err, FailureParse)
	})
	t.Run("no collection", func(t *testing.T) {
		_, err := LoadIntentTable(writeFile(t, "intents.json", `{"other": []}`))
		requireFailure(t, err, FailureParse)
	})
	t.Run("no responses", func(t *testing.T) {
		_, err := LoadIntentTable(writeFile(t, "intents.json", `{"intents": [{"tag": "x", "responses": []}]}`))
		requireFailure(t, err, FailureParse)
	})
	t.Run("no tag", func(t *testing.T) {
		_, err := LoadIntentTable(writeFile(t, "intents.json", `{"intents": [{"responses": ["a"]}]}`))
		requireFailure(t, err, FailureParse)
	})
	t.Run("directory", func(t *testing.T) {
		_, err := LoadIntentTable(t.TempDir())
		requireFailure(t, err, FailureOther)
	})
}

func TestIntentTableKeepsFirstDuplicate(t *testing.T) {
	table := NewIntentTable([]IntentRecord{
		{Tag: "greeting", Responses: []string{"first"}},
		{Tag: "greeting", Responses: []string{"second"}},
	})

	rec, ok := table.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, []string{"first"}, rec.Responses)
	assert.Equal(t, []string{"greeting"}, table.Duplicates())
	assert.Equal(t, []string{"greeting"}, table.Tags())
	assert.Len(t, table.Records(), 2)
}

func TestIntentTableMissingLabels(t *testing.T) {
	table := greetingTable()

	missing := table.MissingLabels(NewLabelSet([]string{"greeting", "thanks", "farewell", "goodbye"}))
	assert.Equal(t, []string{"thanks", "goodbye"}, missing)
}

func TestUnavailableIntentTable(t *testing.T) {
	table := UnavailableIntentTable(nil)

	assert.Error(t, table.Err())
	_, ok := table.Lookup("greeting")
	assert.False(t, ok)
	assert.Nil(t, table.MissingLabels(NewLabelSet([]string{"a"})))
}

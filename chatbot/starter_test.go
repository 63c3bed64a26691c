package chatbot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIntentFileRoundTrips(t *testing.T) {
	for _, name := range []string{"intents.json", "intents.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data", name)

			created, err := EnsureIntentFile(path, DefaultIntents())
			require.NoError(t, err)
			assert.True(t, created)

			table, err := LoadIntentTable(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"greeting", "goodbye", "thanks"}, table.Tags())
			rec, ok := table.Lookup("thanks")
			require.True(t, ok)
			assert.Contains(t, rec.Responses, "Any time!")
		})
	}
}

func TestEnsureIntentFileKeepsExisting(t *testing.T) {
	path := writeFile(t, "intents.json", `{"intents":[]}`)

	created, err := EnsureIntentFile(path, DefaultIntents())
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"intents":[]}`, string(data))
}

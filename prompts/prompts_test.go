package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryHasAllPrompts(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	for _, name := range []Name{Invoke, Chat, Quote, TaskAdvice} {
		tmpl, err := r.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tmpl.Name)
	}
	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestInvokeAppendsSchema(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	tmpl, err := r.Get(Invoke)
	require.NoError(t, err)

	system, user, err := tmpl.Render(map[string]any{"Prompt": "List colors", "Schema": `{"type":"object"}`})
	require.NoError(t, err)
	assert.Empty(t, system)
	assert.Contains(t, user, "List colors")
	assert.Contains(t, user, `{"type":"object"}`)

	_, user, err = tmpl.Render(map[string]any{"Prompt": "Plain"})
	require.NoError(t, err)
	assert.Equal(t, "Plain", user)
}

func TestTaskAdviceRendersTask(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	tmpl, err := r.Get(TaskAdvice)
	require.NoError(t, err)
	assert.True(t, tmpl.JSON)

	_, user, err := tmpl.Render(struct {
		Title, Description, Priority string
		Difficulty, EstimatedTime    int
	}{"Write report", "Quarterly numbers", "high", 6, 90})
	require.NoError(t, err)
	assert.Contains(t, user, "Task: Write report")
	assert.Contains(t, user, "Difficulty: 6/10")
	assert.Contains(t, user, "Estimated time: 90 minutes")
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("version: 0\nprompts: {}"))
	assert.Error(t, err)

	_, err = Parse([]byte("version: 1\nprompts:\n  x:\n    user: \"{{.Broken\""))
	assert.Error(t, err)

	_, err = Parse([]byte("version: 1\nprompts:\n  x:\n    system: hi"))
	assert.Error(t, err)
}

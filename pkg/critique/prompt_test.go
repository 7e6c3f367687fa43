package critique

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation(t *testing.T) {
	style, err := LookupStyle("numpydoc")
	require.NoError(t, err)

	block := "def f():\n    \"\"\"Doc.\"\"\"\n    return 1"
	msgs := Conversation(block, style)
	require.Len(t, msgs, 4)

	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
	assert.Equal(t, RoleUser, msgs[3].Role)
	assert.Equal(t, block, msgs[3].Content)

	instructions := msgs[1].Content
	assert.Contains(t, instructions, "numpydoc style")
	assert.Contains(t, instructions, style.Example)
	assert.Contains(t, instructions, "Do not provide errors or warnings about imports.")
	for _, field := range []string{`"function"`, `"error"`, `"warning"`, `"solution"`} {
		assert.Contains(t, instructions, field)
	}
}

func TestInstructions_StyleSpecific(t *testing.T) {
	google, err := LookupStyle("google")
	require.NoError(t, err)
	assert.Contains(t, Instructions(google), "Google style")
	assert.Contains(t, Instructions(google), "Args:")
}

func TestLookupStyle(t *testing.T) {
	for _, name := range StyleNames() {
		s, err := LookupStyle(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
		assert.NotEmpty(t, s.Example)
	}

	def, err := LookupStyle("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle, def.Name)

	upper, err := LookupStyle("Sphinx")
	require.NoError(t, err)
	assert.Equal(t, "sphinx", upper.Name)

	_, err = LookupStyle("epytext")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google, numpydoc, sphinx")
}

package critique

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Critique(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-2.5-flash"), r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"text": `{"function": "f", "error": "", "warning": "Typo.", "solution": ""}`},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	style, err := LookupStyle("google")
	require.NoError(t, err)

	client, err := NewGeminiClient(context.Background(), Options{
		Model:   "gemini-2.5-flash",
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Style:   style,
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini:gemini-2.5-flash", client.Name())

	c, err := client.Critique(context.Background(), "def f():\n    pass")
	require.NoError(t, err)
	assert.Equal(t, "f", c.Function)
	assert.Equal(t, "Typo.", c.Warning)

	assert.Contains(t, body, "systemInstruction")
	assert.Contains(t, body, "application/json")
	assert.Contains(t, body, `"model"`)
}

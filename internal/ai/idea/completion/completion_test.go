package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingKeyIsConfigurationError(t *testing.T) {
	for _, c := range []Completer{
		NewGemini("", ""),
		NewMistral("", "", "http://127.0.0.1:1"),
		NewAnthropic("", ""),
	} {
		_, err := c.Complete(context.Background(), "hello")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr, "model %s", c.Model())
	}
}

func TestNew(t *testing.T) {
	c, err := New(Config{Provider: ""})
	require.NoError(t, err)
	assert.IsType(t, &Gemini{}, c)
	assert.Equal(t, DefaultGeminiModel, c.Model())

	c, err = New(Config{Provider: "Mistral", Model: "open-mixtral"})
	require.NoError(t, err)
	assert.Equal(t, "open-mixtral", c.Model())

	c, err = New(Config{Provider: "anthropic"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)

	_, err = New(Config{Provider: "openai"})
	assert.Error(t, err)
}

func TestMistral_Complete(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string           `json:"model"`
		Messages []mistralMessage `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	m := NewMistral("secret", "mistral-small", srv.URL)
	out, err := m.Complete(context.Background(), "give me json")

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "mistral-small", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "give me json", gotBody.Messages[0].Content)
}

func TestMistral_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantInvalid bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Unauthorized"}`, true},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"no choices", http.StatusOK, `{"choices":[]}`, false},
		{"garbage", http.StatusOK, `not json`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewMistral("key", "", srv.URL).Complete(context.Background(), "x")

			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tt.wantInvalid, upstream.InvalidCredential)
			assert.Equal(t, tt.status, upstream.StatusCode)
		})
	}
}

func TestFunc(t *testing.T) {
	f := Func(func(ctx context.Context, prompt string) (string, error) { return "echo: " + prompt, nil })
	out, err := f.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}

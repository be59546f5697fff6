package completion

import (
	"context"
	"errors"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini - тонкая обертка над официальным клиентом genai
type Gemini struct {
	apiKey string
	model  string

	once    sync.Once
	cli     *genai.Client
	initErr error
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", &ConfigurationError{Provider: ProviderGemini, Setting: "GOOGLE_API_KEY"}
	}

	g.once.Do(func() {
		g.cli, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.initErr != nil {
		return "", &UpstreamError{Provider: ProviderGemini, Err: g.initErr}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", geminiError(err)
	}
	if len(resp.Candidates) == 0 {
		return "", &UpstreamError{Provider: ProviderGemini, Err: errors.New("no candidates in response")}
	}
	return resp.Text(), nil
}

// geminiError помечает ответ 400 API_KEY_INVALID как неверный ключ
func geminiError(err error) *UpstreamError {
	upstream := &UpstreamError{Provider: ProviderGemini, Err: err}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		upstream.StatusCode = apiErr.Code
	}
	msg := err.Error()
	if strings.Contains(msg, "API_KEY_INVALID") || strings.Contains(msg, "API key not valid") {
		upstream.InvalidCredential = true
	}
	return upstream
}

package completion

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// Anthropic отправляет запрос через Messages API
type Anthropic struct {
	apiKey string
	model  anthropic.Model
	client anthropic.Client
}

func NewAnthropic(apiKey, model string) *Anthropic {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaudeSonnet4_20250514
	}
	a := &Anthropic{apiKey: apiKey, model: m}
	if apiKey != "" {
		a.client = anthropic.NewClient(option.WithAPIKey(apiKey))
	}
	return a
}

func (a *Anthropic) Model() string { return string(a.model) }

func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", &ConfigurationError{Provider: ProviderAnthropic, Setting: "ANTHROPIC_API_KEY"}
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		upstream := &UpstreamError{Provider: ProviderAnthropic, Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			upstream.StatusCode = apiErr.StatusCode
			upstream.InvalidCredential = apiErr.StatusCode == http.StatusUnauthorized
		}
		return "", upstream
	}

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.WriteString(variant.Text)
		}
	}
	return result.String(), nil
}

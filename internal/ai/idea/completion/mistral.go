package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultMistralModel   = "mistral-large-latest"
	DefaultMistralBaseURL = "https://api.mistral.ai"
)

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Mistral вызывает /v1/chat/completions напрямую
type Mistral struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewMistral(apiKey, model, baseURL string) *Mistral {
	if model == "" {
		model = DefaultMistralModel
	}
	if baseURL == "" {
		baseURL = DefaultMistralBaseURL
	}
	return &Mistral{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (m *Mistral) Model() string { return m.model }

func (m *Mistral) Complete(ctx context.Context, prompt string) (string, error) {
	if m.apiKey == "" {
		return "", &ConfigurationError{Provider: ProviderMistral, Setting: "MISTRAL_API_KEY"}
	}

	requestBody := map[string]interface{}{
		"model":    m.model,
		"messages": []mistralMessage{{Role: "user", Content: prompt}},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: ProviderMistral, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: ProviderMistral, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{
			Provider:          ProviderMistral,
			StatusCode:        resp.StatusCode,
			InvalidCredential: resp.StatusCode == http.StatusUnauthorized,
			Err:               fmt.Errorf("body: %s", string(body)),
		}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", &UpstreamError{Provider: ProviderMistral, StatusCode: resp.StatusCode, Err: fmt.Errorf("error unmarshaling response: %w", err)}
	}

	if len(result.Choices) == 0 {
		return "", &UpstreamError{Provider: ProviderMistral, StatusCode: resp.StatusCode, Err: errors.New("no choices in response")}
	}

	return result.Choices[0].Message.Content, nil
}

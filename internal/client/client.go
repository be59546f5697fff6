// Package client вызывает эндпоинт /api сервера и реализует service.Generator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/interpreter"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

// APIError - ответ сервера с кодом, отличным от 200
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return e.Message
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) GenerateIdea(ctx context.Context, req models.IdeaRequest) (*models.GeneratedIdea, error) {
	var idea models.GeneratedIdea
	if err := c.call(ctx, models.ActionGenerateIdea, req, &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

func (c *Client) GenerateTasks(ctx context.Context, req models.TaskRequest) (models.TaskBreakdown, error) {
	var tb models.TaskBreakdown
	if err := c.call(ctx, models.ActionGenerateTasks, req, &tb); err != nil {
		return nil, err
	}
	return tb, nil
}

func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	var reply string
	if err := c.call(ctx, models.ActionChat, req, &reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (c *Client) call(ctx context.Context, action string, data, out any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s data: %w", action, err)
	}
	body, err := json.Marshal(models.ActionRequest{Action: action, Data: payload})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp.StatusCode, raw)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("error unmarshaling %s result: %w", action, err)
	}
	return nil
}

// decodeError восстанавливает RawFallback, если сервер прислал диагностику разбора
func decodeError(status int, raw []byte) error {
	var e models.ErrorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(string(raw))}
	}
	if e.RawResponse != "" || e.ParseError != "" {
		return &interpreter.RawFallback{
			Raw:          e.RawResponse,
			ParseError:   e.ParseError,
			ExtractError: e.ExtractError,
		}
	}
	return &APIError{StatusCode: status, Message: e.Error}
}

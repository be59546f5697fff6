// Package completion отправляет запрос модели и возвращает текст ответа.
// Один вызов Complete - одно сетевое обращение, без повторов.
package completion

import (
	"context"
	"fmt"
	"strings"
)

// Провайдеры
const (
	ProviderGemini    = "gemini"
	ProviderMistral   = "mistral"
	ProviderAnthropic = "anthropic"
)

// Completer возвращает текст ответа модели на запрос
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Func позволяет использовать функцию как Completer
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }
func (f Func) Model() string                                              { return "func" }

// ConfigurationError - не задан ключ API. Проверяется до сетевого запроса.
type ConfigurationError struct {
	Provider string
	Setting  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s is not set", e.Provider, e.Setting)
}

// UpstreamError - любая ошибка провайдера.
// InvalidCredential выставляется, только если провайдер явно сообщил о неверном ключе.
type UpstreamError struct {
	Provider          string
	StatusCode        int
	InvalidCredential bool
	Err               error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: upstream error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Config описывает выбранного провайдера
type Config struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL переопределяет адрес API (используется для Mistral)
	BaseURL string
}

// New создает клиента для провайдера из конфигурации
func New(cfg Config) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		return NewGemini(cfg.APIKey, cfg.Model), nil
	case ProviderMistral:
		return NewMistral(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropic(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

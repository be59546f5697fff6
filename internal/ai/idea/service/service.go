package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/completion"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/interpreter"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/prompts"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/validator"
)

// Generator - три вызова, которые нужны мастеру и чату.
// Реализуется IdeaAssistant (в процессе) и client.Client (по HTTP).
type Generator interface {
	GenerateIdea(ctx context.Context, req models.IdeaRequest) (*models.GeneratedIdea, error)
	GenerateTasks(ctx context.Context, req models.TaskRequest) (models.TaskBreakdown, error)
	Chat(ctx context.Context, req models.ChatRequest) (string, error)
}

// InvalidActionError - неизвестное действие, отклоняется до обращения к модели
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %q", e.Action)
}

// RequestError - данные запроса не разобраны или не прошли проверку
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// IdeaAssistant собирает запрос, вызывает модель и разбирает ответ.
// Состояния между запросами не хранит.
type IdeaAssistant struct {
	completer completion.Completer
	logger    *zap.Logger
}

var _ Generator = (*IdeaAssistant)(nil)

func NewIdeaAssistant(completer completion.Completer, logger *zap.Logger) *IdeaAssistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaAssistant{
		completer: completer,
		logger:    logger,
	}
}

// Dispatch направляет {action, data} в нужный обработчик
func (a *IdeaAssistant) Dispatch(ctx context.Context, req models.ActionRequest) (any, error) {
	switch req.Action {
	case models.ActionGenerateIdea:
		var data models.IdeaRequest
		if err := decodeData(req.Data, &data); err != nil {
			return nil, err
		}
		return a.GenerateIdea(ctx, data)
	case models.ActionGenerateTasks:
		var data models.TaskRequest
		if err := decodeData(req.Data, &data); err != nil {
			return nil, err
		}
		return a.GenerateTasks(ctx, data)
	case models.ActionChat:
		var data models.ChatRequest
		if err := decodeData(req.Data, &data); err != nil {
			return nil, err
		}
		return a.Chat(ctx, data)
	default:
		return nil, &InvalidActionError{Action: req.Action}
	}
}

// GenerateIdea генерирует идею проекта
func (a *IdeaAssistant) GenerateIdea(ctx context.Context, req models.IdeaRequest) (*models.GeneratedIdea, error) {
	if err := validator.ValidateIdeaRequest(req); err != nil {
		return nil, &RequestError{Err: err}
	}

	text, err := a.complete(ctx, models.ActionGenerateIdea, prompts.Idea(req))
	if err != nil {
		return nil, err
	}

	idea, fb := interpreter.Interpret(text, validator.CheckIdea)
	if fb != nil {
		a.logParseFailure(models.ActionGenerateIdea, fb)
		return nil, fb
	}
	return &idea, nil
}

// GenerateTasks распределяет задачи между участниками
func (a *IdeaAssistant) GenerateTasks(ctx context.Context, req models.TaskRequest) (models.TaskBreakdown, error) {
	if err := validator.ValidateTaskRequest(req); err != nil {
		return nil, &RequestError{Err: err}
	}

	text, err := a.complete(ctx, models.ActionGenerateTasks, prompts.Tasks(req.Idea, req.TeamMembers))
	if err != nil {
		return nil, err
	}

	tb, fb := interpreter.Interpret(text, validator.CheckBreakdown)
	if fb != nil {
		a.logParseFailure(models.ActionGenerateTasks, fb)
		return nil, fb
	}

	for _, w := range validator.ReviewBreakdown(tb, req.TeamMembers) {
		a.logger.Warn("task breakdown review", zap.String("warning", w))
	}
	return tb, nil
}

// Chat возвращает ответ модели как есть, без разбора
func (a *IdeaAssistant) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	if err := validator.ValidateChatRequest(req); err != nil {
		return "", &RequestError{Err: err}
	}
	return a.complete(ctx, models.ActionChat, prompts.Chat(req.Messages, req.Idea, req.TaskBreakdown))
}

func (a *IdeaAssistant) complete(ctx context.Context, action, prompt string) (string, error) {
	a.logger.Debug("sending prompt",
		zap.String("action", action),
		zap.String("model", a.completer.Model()),
		zap.Int("bytes", len(prompt)))

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Error("completion failed", zap.String("action", action), zap.Error(err))
		return "", err
	}
	return text, nil
}

func (a *IdeaAssistant) logParseFailure(action string, fb *interpreter.RawFallback) {
	a.logger.Error("error parsing model response",
		zap.String("action", action),
		zap.String("parse_error", fb.ParseError),
		zap.String("extract_error", fb.ExtractError))
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return &RequestError{Err: errors.New("data is required")}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &RequestError{Err: fmt.Errorf("invalid data: %w", err)}
	}
	return nil
}

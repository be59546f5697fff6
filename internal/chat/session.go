// Package chat хранит диалог о проекте.
// История только дополняется и целиком отправляется с каждым сообщением.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/service"
)

// Apology заменяет ответ, если запрос к модели не удался
const Apology = "Sorry, I encountered an error. Please try again."

var errNoResult = errors.New("no result in response")

// Session - упорядоченная история сообщений.
// Блокировки ввода нет: ответы добавляются в порядке прихода.
type Session struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	logger   *zap.Logger
}

func NewSession(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{logger: logger}
}

// Messages возвращает копию истории
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.messages...)
}

// Begin сразу добавляет сообщение пользователя и возвращает историю для отправки.
// Пустой ввод игнорируется.
func (s *Session) Begin(content string) ([]models.ChatMessage, bool) {
	if strings.TrimSpace(content) == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = Append(s.messages, models.ChatMessage{Role: models.RoleUser, Content: content})
	return append([]models.ChatMessage(nil), s.messages...), true
}

// Complete добавляет ответ ассистента или извинение при ошибке
func (s *Session) Complete(reply string, err error) models.ChatMessage {
	msg := models.ChatMessage{Role: models.RoleAssistant, Content: reply}
	if err != nil {
		s.logger.Error("error in chat", zap.Error(err))
		msg.Content = Apology
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = Append(s.messages, msg)
	return msg
}

// Send отправляет сообщение вместе с контекстом проекта
func (s *Session) Send(ctx context.Context, gen service.Generator, content string, idea *models.GeneratedIdea, tb models.TaskBreakdown) (models.ChatMessage, bool) {
	history, ok := s.Begin(content)
	if !ok {
		return models.ChatMessage{}, false
	}
	reply, err := gen.Chat(ctx, models.ChatRequest{
		Messages:      history,
		Idea:          idea,
		TaskBreakdown: tb,
	})
	if err == nil && reply == "" {
		err = errNoResult
	}
	return s.Complete(reply, err), true
}

// Append возвращает новую историю с добавленным сообщением, не изменяя исходную
func Append(history []models.ChatMessage, msg models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, len(history), len(history)+1)
	copy(out, history)
	return append(out, msg)
}

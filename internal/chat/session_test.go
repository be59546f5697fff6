package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

type fakeChat struct {
	mu      sync.Mutex
	reply   string
	err     error
	history [][]models.ChatMessage
	ideas   []*models.GeneratedIdea
}

func (f *fakeChat) GenerateIdea(context.Context, models.IdeaRequest) (*models.GeneratedIdea, error) {
	return nil, errors.New("not used")
}

func (f *fakeChat) GenerateTasks(context.Context, models.TaskRequest) (models.TaskBreakdown, error) {
	return nil, errors.New("not used")
}

func (f *fakeChat) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, req.Messages)
	f.ideas = append(f.ideas, req.Idea)
	return f.reply, f.err
}

func TestSend_AppendsUserThenAssistant(t *testing.T) {
	gen := &fakeChat{reply: "Start with auth."}
	s := NewSession(nil)
	idea := &models.GeneratedIdea{ProjectTitle: "Foodloop"}

	msg, ok := s.Send(context.Background(), gen, "Where do we start?", idea, nil)

	require.True(t, ok)
	assert.Equal(t, models.ChatMessage{Role: "assistant", Content: "Start with auth."}, msg)
	assert.Equal(t, []models.ChatMessage{
		{Role: "user", Content: "Where do we start?"},
		{Role: "assistant", Content: "Start with auth."},
	}, s.Messages())
	assert.Same(t, idea, gen.ideas[0])
}

func TestSend_ReplaysFullHistory(t *testing.T) {
	gen := &fakeChat{reply: "ok"}
	s := NewSession(nil)

	s.Send(context.Background(), gen, "one", nil, nil)
	s.Send(context.Background(), gen, "two", nil, nil)

	require.Len(t, gen.history, 2)
	assert.Equal(t, []models.ChatMessage{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "ok"},
		{Role: "user", Content: "two"},
	}, gen.history[1])
}

func TestSend_FailureBecomesApology(t *testing.T) {
	for _, gen := range []*fakeChat{
		{err: errors.New("Failed to generate content")},
		{reply: ""},
	} {
		s := NewSession(nil)

		msg, ok := s.Send(context.Background(), gen, "hello", nil, nil)

		require.True(t, ok)
		assert.Equal(t, Apology, msg.Content)
		assert.Equal(t, "assistant", msg.Role)
		assert.Len(t, s.Messages(), 2)
	}
}

func TestSend_BlankInputIgnored(t *testing.T) {
	gen := &fakeChat{reply: "x"}
	s := NewSession(nil)

	_, ok := s.Send(context.Background(), gen, "   ", nil, nil)

	assert.False(t, ok)
	assert.Empty(t, s.Messages())
	assert.Empty(t, gen.history)
}

func TestBegin_IsVisibleBeforeReply(t *testing.T) {
	s := NewSession(nil)

	history, ok := s.Begin("hi")

	require.True(t, ok)
	assert.Len(t, history, 1)
	assert.Equal(t, history, s.Messages())

	s.Complete("", errors.New("timeout"))
	assert.Equal(t, Apology, s.Messages()[1].Content)
}

func TestAppend_DoesNotAlias(t *testing.T) {
	base := make([]models.ChatMessage, 1, 4)
	base[0] = models.ChatMessage{Role: "user", Content: "a"}

	x := Append(base, models.ChatMessage{Role: "assistant", Content: "x"})
	y := Append(base, models.ChatMessage{Role: "assistant", Content: "y"})

	assert.Equal(t, "x", x[1].Content)
	assert.Equal(t, "y", y[1].Content)
	assert.Len(t, base, 1)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/completion"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/interpreter"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

const ideaJSON = `{"projectTitle":"Foodloop","briefDescription":"Share food","keyFeatures":["a","b","c"],"technicalStack":["Go"],"potentialChallenges":["x"],"uniqueSellingPoints":["y"],"targetAudience":"shelters","futureEnhancements":["z"]}`

// fakeCompleter возвращает заранее заданный ответ и считает вызовы
type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeCompleter) Model() string { return "fake" }

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func ideaRequest() models.IdeaRequest {
	return models.IdeaRequest{
		Theme: "food", Technologies: []string{"Go", "React"}, Problem: "waste",
		TimeRange: "48h", SkillLevel: "beginner",
	}
}

func TestDispatch_GenerateIdea(t *testing.T) {
	fc := &fakeCompleter{reply: ideaJSON}
	a := NewIdeaAssistant(fc, nil)

	res, err := a.Dispatch(context.Background(), models.ActionRequest{
		Action: models.ActionGenerateIdea,
		Data:   mustJSON(t, ideaRequest()),
	})

	require.NoError(t, err)
	idea, ok := res.(*models.GeneratedIdea)
	require.True(t, ok)
	assert.Equal(t, "Foodloop", idea.ProjectTitle)
	assert.Equal(t, []string{"a", "b", "c"}, idea.KeyFeatures, "producer order is preserved")
	assert.Equal(t, 1, fc.calls)
	assert.Contains(t, fc.prompts[0], "Technologies: Go, React")
}

func TestDispatch_InvalidActionMakesNoCall(t *testing.T) {
	fc := &fakeCompleter{reply: ideaJSON}
	a := NewIdeaAssistant(fc, nil)

	_, err := a.Dispatch(context.Background(), models.ActionRequest{Action: "unknown", Data: json.RawMessage(`{}`)})

	var invalid *InvalidActionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "unknown", invalid.Action)
	assert.Equal(t, 0, fc.calls)
}

func TestDispatch_BadDataIsRequestError(t *testing.T) {
	fc := &fakeCompleter{}
	a := NewIdeaAssistant(fc, nil)

	for _, data := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`{"theme": 5}`), json.RawMessage(`{}`)} {
		_, err := a.Dispatch(context.Background(), models.ActionRequest{Action: models.ActionGenerateIdea, Data: data})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr, "data %s", string(data))
	}
	assert.Equal(t, 0, fc.calls)
}

func TestGenerateIdea_RawFallback(t *testing.T) {
	fc := &fakeCompleter{reply: "Sorry, I am unable to produce JSON today."}
	a := NewIdeaAssistant(fc, nil)

	idea, err := a.GenerateIdea(context.Background(), ideaRequest())

	assert.Nil(t, idea)
	var fb *interpreter.RawFallback
	require.ErrorAs(t, err, &fb)
	assert.Equal(t, fc.reply, fb.Raw)
	assert.NotEmpty(t, fb.ParseError)
}

func TestGenerateIdea_UpstreamErrorPropagates(t *testing.T) {
	upstream := &completion.UpstreamError{Provider: "gemini", InvalidCredential: true, Err: errors.New("bad key")}
	a := NewIdeaAssistant(&fakeCompleter{err: upstream}, nil)

	_, err := a.GenerateIdea(context.Background(), ideaRequest())

	var got *completion.UpstreamError
	require.ErrorAs(t, err, &got)
	assert.True(t, got.InvalidCredential)
}

func TestGenerateTasks(t *testing.T) {
	fc := &fakeCompleter{reply: "```json\n" + `{"Ana":{"tasks":[{"description":"API","explanation":"REST endpoints","estimatedTime":4}],"totalTime":4},"Ghost":{"tasks":[],"totalTime":0}}` + "\n```"}
	a := NewIdeaAssistant(fc, nil)

	tb, err := a.GenerateTasks(context.Background(), models.TaskRequest{
		Idea:        &models.GeneratedIdea{ProjectTitle: "Foodloop"},
		TeamMembers: []models.TeamMember{{Name: "Ana", Skills: "Go", SkillLevel: "advanced"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 4.0, tb["Ana"].TotalTime)
	assert.Contains(t, tb, "Ghost", "invented member names are kept, only flagged")
	assert.Contains(t, fc.prompts[0], `"name": "Ana"`)
}

func TestGenerateTasks_RequiresIdea(t *testing.T) {
	fc := &fakeCompleter{}
	_, err := NewIdeaAssistant(fc, nil).GenerateTasks(context.Background(), models.TaskRequest{
		TeamMembers: []models.TeamMember{{Name: "Ana", SkillLevel: "advanced"}},
	})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, fc.calls)
}

func TestChat_ReturnsRawText(t *testing.T) {
	fc := &fakeCompleter{reply: `{"not": "parsed"} just prose`}
	a := NewIdeaAssistant(fc, nil)

	res, err := a.Dispatch(context.Background(), models.ActionRequest{
		Action: models.ActionChat,
		Data: mustJSON(t, models.ChatRequest{
			Messages: []models.ChatMessage{{Role: "user", Content: "What first?"}},
			Idea:     &models.GeneratedIdea{ProjectTitle: "Foodloop"},
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, fc.reply, res)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(fc.prompts[0]), "considering the project idea and task breakdown."))
}

func TestChat_NoMessages(t *testing.T) {
	fc := &fakeCompleter{}
	_, err := NewIdeaAssistant(fc, nil).Chat(context.Background(), models.ChatRequest{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, fc.calls)
}

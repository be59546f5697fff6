// Package prompts строит текстовые запросы к модели.
// Все функции детерминированы и не имеют побочных эффектов.
package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

const ideaTemplate = `Generate a detailed hackathon project idea based on the following information:
Theme: %s
Technologies: %s
Problem to solve: %s
Time range: %s
Skill level: %s

Please provide the following in a valid JSON format:
{
	"projectTitle": "Title of the project",
	"briefDescription": "A brief description of the project",
	"keyFeatures": ["Feature 1", "Feature 2", "Feature 3", "Feature 4", "Feature 5"],
	"technicalStack": ["Tech 1", "Tech 2", "Tech 3"],
	"potentialChallenges": ["Challenge 1", "Challenge 2", "Challenge 3"],
	"uniqueSellingPoints": ["USP 1", "USP 2", "USP 3"],
	"targetAudience": "Description of the target audience",
	"futureEnhancements": ["Enhancement 1", "Enhancement 2", "Enhancement 3"]
}
Every list field must be a JSON array of strings and targetAudience must be a JSON string.`

const tasksTemplate = `Given the following hackathon project idea and team members, create a detailed task breakdown for each team member based on their skills and skill level. Provide the output as a JSON object where the keys are the exact team member names listed below and the values are objects containing an array of tasks and a total estimated time for that member.

Project Idea:
%s

Team Members:
%s

Please provide the task breakdown in the following JSON format:
{
  "Team Member Name": {
    "tasks": [
      {
        "description": "Task description",
        "explanation": "Detailed explanation of the task",
        "estimatedTime": 2
      }
    ],
    "totalTime": 10
  }
}

Use the team member names exactly as given as the object keys. Ensure that the estimated time for each task and the total time for each member are realistic and appropriate for a hackathon project. Times are numbers of hours.`

const chatTemplate = `You are an AI assistant helping with a hackathon project. Here's the context:

Project Idea:
%s

Task Breakdown:
%s

Previous messages:
%s

User's latest message: %s

Please provide a helpful response to the user's latest message, considering the project idea and task breakdown.`

// Idea строит запрос на генерацию идеи
func Idea(req models.IdeaRequest) string {
	return fmt.Sprintf(ideaTemplate,
		req.Theme,
		strings.Join(req.Technologies, ", "),
		req.Problem,
		req.TimeRange,
		req.SkillLevel,
	)
}

// Tasks строит запрос на распределение задач между участниками
func Tasks(idea *models.GeneratedIdea, team []models.TeamMember) string {
	if team == nil {
		team = []models.TeamMember{}
	}
	return fmt.Sprintf(tasksTemplate, indentJSON(idea), indentJSON(team))
}

// Chat строит запрос для ответа в чате.
// Последнее сообщение в messages считается новым сообщением пользователя.
func Chat(messages []models.ChatMessage, idea *models.GeneratedIdea, tb models.TaskBreakdown) string {
	var latest string
	if len(messages) > 0 {
		latest = messages[len(messages)-1].Content
	}

	var breakdown any
	if tb != nil {
		breakdown = tb
	}

	return fmt.Sprintf(chatTemplate, indentJSON(idea), indentJSON(breakdown), Transcript(messages), latest)
}

// Transcript выводит историю в виде "role: content", по строке на сообщение
func Transcript(messages []models.ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// indentJSON кодирует значение с отступами и без HTML-экранирования
func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}

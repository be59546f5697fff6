package models

import "encoding/json"

// Действия, которые принимает эндпоинт /api
const (
	ActionGenerateIdea  = "generateIdea"
	ActionGenerateTasks = "generateTasks"
	ActionChat          = "chat"
)

// Роли сообщений в чате
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Уровни подготовки участника
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// ActionRequest представляет тело запроса {action, data}
type ActionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// IdeaRequest содержит параметры для генерации идеи
type IdeaRequest struct {
	Theme        string   `json:"theme"`
	Technologies []string `json:"technologies"`
	Problem      string   `json:"problem"`
	TimeRange    string   `json:"timeRange"`
	SkillLevel   string   `json:"skillLevel"`
}

// GeneratedIdea представляет идею проекта, которую вернула модель
type GeneratedIdea struct {
	ProjectTitle        string   `json:"projectTitle"`
	BriefDescription    string   `json:"briefDescription"`
	KeyFeatures         []string `json:"keyFeatures"`
	TechnicalStack      []string `json:"technicalStack"`
	PotentialChallenges []string `json:"potentialChallenges"`
	UniqueSellingPoints []string `json:"uniqueSellingPoints"`
	TargetAudience      string   `json:"targetAudience"`
	FutureEnhancements  []string `json:"futureEnhancements"`
}

// TeamMember представляет участника команды
type TeamMember struct {
	Name       string `json:"name"`
	Skills     string `json:"skills"`
	SkillLevel string `json:"skillLevel"`
}

// Task - одна задача участника
type Task struct {
	Description   string  `json:"description"`
	Explanation   string  `json:"explanation"`
	EstimatedTime float64 `json:"estimatedTime"`
}

// MemberTasks - задачи одного участника и суммарное время
type MemberTasks struct {
	Tasks     []Task  `json:"tasks"`
	TotalTime float64 `json:"totalTime"`
}

// TaskBreakdown - распределение задач по именам участников
type TaskBreakdown map[string]MemberTasks

// TotalTime - сумма totalTime всех участников
func (tb TaskBreakdown) TotalTime() float64 {
	var total float64
	for _, mt := range tb {
		total += mt.TotalTime
	}
	return total
}

// TaskRequest содержит данные для генерации задач
type TaskRequest struct {
	Idea        *GeneratedIdea `json:"idea"`
	TeamMembers []TeamMember   `json:"teamMembers"`
}

// ChatMessage - одно сообщение в диалоге
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest содержит историю диалога и контекст проекта
type ChatRequest struct {
	Messages      []ChatMessage  `json:"messages"`
	Idea          *GeneratedIdea `json:"idea"`
	TaskBreakdown TaskBreakdown  `json:"taskBreakdown"`
}

// ActionResponse - успешный ответ эндпоинта
type ActionResponse struct {
	Result any `json:"result"`
}

// ErrorResponse - ответ с ошибкой
type ErrorResponse struct {
	Error        string `json:"error"`
	RawResponse  string `json:"rawResponse,omitempty"`
	ParseError   string `json:"parseError,omitempty"`
	ExtractError string `json:"extractError,omitempty"`
}

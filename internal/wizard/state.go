// Package wizard реализует пошаговую форму генерации идеи.
// Переходы - чистые функции Reduce(state, event).
package wizard

import (
	"strings"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

// Поля формы
const (
	FieldTheme        = "theme"
	FieldTechnologies = "technologies"
	FieldProblem      = "problem"
	FieldTimeRange    = "timeRange"
	FieldSkillLevel   = "skillLevel"
	FieldTeamMembers  = "teamMembers"
)

// Step описывает один шаг мастера
type Step struct {
	Name        string
	Explanation string
	Field       string
}

// Steps - шаги в порядке прохождения
var Steps = []Step{
	{Name: "Theme", Explanation: "what is the theme of the hackathon?", Field: FieldTheme},
	{Name: "Technologies", Explanation: "what tech stack are you planning on using?", Field: FieldTechnologies},
	{Name: "Problem", Explanation: "what problem do you want to solve?", Field: FieldProblem},
	{Name: "Time Range", Explanation: "how long is the hackathon?", Field: FieldTimeRange},
	{Name: "Team Members", Explanation: "add all your members here", Field: FieldTeamMembers},
}

// Form - значения полей в том виде, в каком их ввел пользователь
type Form struct {
	Theme        string
	Technologies string
	Problem      string
	TimeRange    string
	SkillLevel   string
}

// State - состояние мастера
type State struct {
	Step int
	Form Form
	Team []models.TeamMember

	Busy        bool
	Idea        *models.GeneratedIdea
	Tasks       models.TaskBreakdown
	Err         string
	RawResponse string
	ShowResults bool
}

// NewState возвращает начальное состояние с одним пустым участником
func NewState() State {
	return State{Team: []models.TeamMember{NewMember()}}
}

// NewMember - участник по умолчанию
func NewMember() models.TeamMember {
	return models.TeamMember{SkillLevel: models.SkillBeginner}
}

// Current возвращает текущий шаг
func (s State) Current() Step {
	return Steps[s.Step]
}

// IsLast сообщает, что мастер на последнем шаге
func (s State) IsLast() bool {
	return s.Step == len(Steps)-1
}

// Progress = index / total * 100, индекс с нуля
func (s State) Progress() float64 {
	return float64(s.Step) / float64(len(Steps)) * 100
}

// Event - событие мастера
type Event interface {
	isEvent()
}

type (
	Next     struct{}
	Prev     struct{}
	SetField struct {
		Field string
		Value string
	}
	AddMember    struct{}
	UpdateMember struct {
		Index int
		Field string
		Value string
	}
	RemoveMember struct {
		Index int
	}
	SubmitStarted struct{}
	IdeaReady     struct {
		Idea *models.GeneratedIdea
	}
	IdeaFailed struct {
		Err string
		Raw string
	}
	TasksReady struct {
		Tasks models.TaskBreakdown
	}
	TasksFailed struct {
		Err string
		Raw string
	}
)

func (Next) isEvent()          {}
func (Prev) isEvent()          {}
func (SetField) isEvent()      {}
func (AddMember) isEvent()     {}
func (UpdateMember) isEvent()  {}
func (RemoveMember) isEvent()  {}
func (SubmitStarted) isEvent() {}
func (IdeaReady) isEvent()     {}
func (IdeaFailed) isEvent()    {}
func (TasksReady) isEvent()    {}
func (TasksFailed) isEvent()   {}

// Reduce возвращает новое состояние. Исходное состояние не изменяется.
func Reduce(s State, ev Event) State {
	s.Team = cloneTeam(s.Team)

	switch e := ev.(type) {
	case Next:
		if s.Step < len(Steps)-1 {
			s.Step++
		}
	case Prev:
		if s.Step > 0 {
			s.Step--
		}
	case SetField:
		s.Form = setField(s.Form, e.Field, e.Value)
	case AddMember:
		s.Team = append(s.Team, NewMember())
	case UpdateMember:
		if e.Index >= 0 && e.Index < len(s.Team) {
			s.Team[e.Index] = updateMember(s.Team[e.Index], e.Field, e.Value)
		}
	case RemoveMember:
		if e.Index >= 0 && e.Index < len(s.Team) {
			s.Team = append(s.Team[:e.Index], s.Team[e.Index+1:]...)
		}
	case SubmitStarted:
		s.Busy = true
		s.Idea = nil
		s.Tasks = nil
		s.Err = ""
		s.RawResponse = ""
		s.ShowResults = false
	case IdeaReady:
		s.Idea = e.Idea
	case IdeaFailed:
		s.Busy = false
		s.Err = e.Err
		s.RawResponse = e.Raw
	case TasksReady:
		s.Busy = false
		s.Tasks = e.Tasks
		s.ShowResults = true
	case TasksFailed:
		s.Busy = false
		s.Err = e.Err
		s.RawResponse = e.Raw
		s.ShowResults = s.Idea != nil
	}
	return s
}

// IdeaRequest собирает запрос из формы и состава команды
func (s State) IdeaRequest() models.IdeaRequest {
	skill := strings.TrimSpace(s.Form.SkillLevel)
	if skill == "" {
		skill = TeamSkillLevel(s.Team)
	}
	return models.IdeaRequest{
		Theme:        strings.TrimSpace(s.Form.Theme),
		Technologies: SplitTechnologies(s.Form.Technologies),
		Problem:      strings.TrimSpace(s.Form.Problem),
		TimeRange:    strings.TrimSpace(s.Form.TimeRange),
		SkillLevel:   skill,
	}
}

// SplitTechnologies делит строку по запятым и убирает пробелы
func SplitTechnologies(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if tech := strings.TrimSpace(part); tech != "" {
			out = append(out, tech)
		}
	}
	return out
}

// TeamSkillLevel - самый частый уровень в команде; при равенстве - более низкий
func TeamSkillLevel(team []models.TeamMember) string {
	counts := map[string]int{}
	for _, m := range team {
		counts[m.SkillLevel]++
	}
	best, bestCount := "", 0
	for _, level := range []string{models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced} {
		if counts[level] > bestCount {
			best, bestCount = level, counts[level]
		}
	}
	return best
}

func setField(f Form, field, value string) Form {
	switch field {
	case FieldTheme:
		f.Theme = value
	case FieldTechnologies:
		f.Technologies = value
	case FieldProblem:
		f.Problem = value
	case FieldTimeRange:
		f.TimeRange = value
	case FieldSkillLevel:
		f.SkillLevel = value
	}
	return f
}

func updateMember(m models.TeamMember, field, value string) models.TeamMember {
	switch field {
	case "name":
		m.Name = value
	case "skills":
		m.Skills = value
	case "skillLevel":
		m.SkillLevel = value
	}
	return m
}

func cloneTeam(team []models.TeamMember) []models.TeamMember {
	if team == nil {
		return nil
	}
	out := make([]models.TeamMember, len(team))
	copy(out, team)
	return out
}

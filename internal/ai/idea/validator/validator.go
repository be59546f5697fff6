package validator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

// Допустимые уровни подготовки
var skillLevels = map[string]bool{
	models.SkillBeginner:     true,
	models.SkillIntermediate: true,
	models.SkillAdvanced:     true,
}

// breakdownTolerance - допустимое расхождение totalTime и суммы задач, в часах
const breakdownTolerance = 0.5

// ValidateIdeaRequest проверяет, что все поля запроса заполнены
func ValidateIdeaRequest(req models.IdeaRequest) error {
	var errs []error
	if strings.TrimSpace(req.Theme) == "" {
		errs = append(errs, errors.New("theme is required"))
	}
	if len(req.Technologies) == 0 {
		errs = append(errs, errors.New("technologies are required"))
	}
	if strings.TrimSpace(req.Problem) == "" {
		errs = append(errs, errors.New("problem is required"))
	}
	if strings.TrimSpace(req.TimeRange) == "" {
		errs = append(errs, errors.New("timeRange is required"))
	}
	if strings.TrimSpace(req.SkillLevel) == "" {
		errs = append(errs, errors.New("skillLevel is required"))
	}
	return errors.Join(errs...)
}

// ValidateTaskRequest проверяет запрос на генерацию задач
func ValidateTaskRequest(req models.TaskRequest) error {
	if req.Idea == nil {
		return errors.New("idea is required")
	}
	if len(req.TeamMembers) == 0 {
		return errors.New("at least one team member is required")
	}
	for i, member := range req.TeamMembers {
		if err := ValidateTeamMember(member); err != nil {
			return fmt.Errorf("teamMembers[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateChatRequest проверяет запрос чата
func ValidateChatRequest(req models.ChatRequest) error {
	if len(req.Messages) == 0 {
		return errors.New("no messages provided")
	}
	for i, m := range req.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			return fmt.Errorf("messages[%d]: unknown role %q", i, m.Role)
		}
	}
	return nil
}

// ValidateTeamMember проверяет участника команды.
// Имена не обязаны быть уникальными.
func ValidateTeamMember(member models.TeamMember) error {
	if strings.TrimSpace(member.Name) == "" {
		return errors.New("member name is required")
	}
	if !skillLevels[member.SkillLevel] {
		return fmt.Errorf("invalid skill level %q, allowed: beginner, intermediate, advanced", member.SkillLevel)
	}
	return nil
}

// IsSkillLevel сообщает, допустим ли уровень подготовки
func IsSkillLevel(level string) bool {
	return skillLevels[level]
}

// CheckIdea проверяет структуру идеи, полученной от модели.
// Любое несоответствие схеме считается ошибкой разбора.
func CheckIdea(idea models.GeneratedIdea) error {
	var missing []string
	if strings.TrimSpace(idea.ProjectTitle) == "" {
		missing = append(missing, "projectTitle")
	}
	if strings.TrimSpace(idea.BriefDescription) == "" {
		missing = append(missing, "briefDescription")
	}
	if strings.TrimSpace(idea.TargetAudience) == "" {
		missing = append(missing, "targetAudience")
	}
	lists := []struct {
		name  string
		value []string
	}{
		{"keyFeatures", idea.KeyFeatures},
		{"technicalStack", idea.TechnicalStack},
		{"potentialChallenges", idea.PotentialChallenges},
		{"uniqueSellingPoints", idea.UniqueSellingPoints},
		{"futureEnhancements", idea.FutureEnhancements},
	}
	for _, l := range lists {
		if l.value == nil {
			missing = append(missing, l.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("idea is missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CheckBreakdown проверяет структуру распределения задач
func CheckBreakdown(tb models.TaskBreakdown) error {
	if len(tb) == 0 {
		return errors.New("task breakdown is empty")
	}
	for name, mt := range tb {
		if mt.Tasks == nil {
			return fmt.Errorf("member %q has no tasks list", name)
		}
		for i, task := range mt.Tasks {
			if strings.TrimSpace(task.Description) == "" {
				return fmt.Errorf("member %q task %d has no description", name, i)
			}
		}
	}
	return nil
}

// ReviewBreakdown возвращает замечания к распределению задач.
// Замечания не блокируют ответ: имена и оценки времени не навязываются модели.
func ReviewBreakdown(tb models.TaskBreakdown, team []models.TeamMember) []string {
	var warnings []string

	known := make(map[string]bool, len(team))
	for _, m := range team {
		known[m.Name] = true
	}

	names := make([]string, 0, len(tb))
	for name := range tb {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mt := tb[name]
		if !known[name] {
			warnings = append(warnings, fmt.Sprintf("breakdown has unknown member %q", name))
		}
		var sum float64
		for i, task := range mt.Tasks {
			if task.EstimatedTime < 0 {
				warnings = append(warnings, fmt.Sprintf("member %q task %d has negative estimate", name, i))
			}
			sum += task.EstimatedTime
		}
		if mt.TotalTime < 0 {
			warnings = append(warnings, fmt.Sprintf("member %q has negative total time", name))
		}
		if math.Abs(sum-mt.TotalTime) > breakdownTolerance {
			warnings = append(warnings, fmt.Sprintf("member %q total %.1fh differs from task sum %.1fh", name, mt.TotalTime, sum))
		}
	}

	for _, m := range team {
		if _, ok := tb[m.Name]; !ok {
			warnings = append(warnings, fmt.Sprintf("member %q has no tasks", m.Name))
		}
	}
	return warnings
}

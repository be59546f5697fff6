package wizard

import (
	"fmt"
	"strings"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/validator"
)

// ParseMember разбирает строку "имя:навыки:уровень".
// Уровень можно опустить, тогда он beginner.
func ParseMember(raw string) (models.TeamMember, error) {
	parts := strings.SplitN(raw, ":", 3)
	m := NewMember()
	m.Name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		m.Skills = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		m.SkillLevel = strings.ToLower(strings.TrimSpace(parts[2]))
	}
	if err := validator.ValidateTeamMember(m); err != nil {
		return models.TeamMember{}, fmt.Errorf("member %q: %w", raw, err)
	}
	return m, nil
}

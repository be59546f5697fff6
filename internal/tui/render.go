package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
)

// IdeaMarkdown выводит идею в markdown
func IdeaMarkdown(idea *models.GeneratedIdea) string {
	if idea == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", idea.ProjectTitle, idea.BriefDescription)
	section(&b, "Key Features", idea.KeyFeatures)
	section(&b, "Technical Stack", idea.TechnicalStack)
	section(&b, "Potential Challenges", idea.PotentialChallenges)
	section(&b, "Unique Selling Points", idea.UniqueSellingPoints)
	fmt.Fprintf(&b, "## Target Audience\n\n%s\n\n", idea.TargetAudience)
	section(&b, "Future Enhancements", idea.FutureEnhancements)
	return b.String()
}

// TasksMarkdown выводит задачи по участникам, имена по алфавиту
func TasksMarkdown(tb models.TaskBreakdown) string {
	if len(tb) == 0 {
		return ""
	}
	names := make([]string, 0, len(tb))
	for name := range tb {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Task Breakdown\n\n")
	for _, name := range names {
		mt := tb[name]
		fmt.Fprintf(&b, "## %s (%g h)\n\n", name, mt.TotalTime)
		for _, t := range mt.Tasks {
			fmt.Fprintf(&b, "- **%s** (%g h): %s\n", t.Description, t.EstimatedTime, t.Explanation)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "**Estimated total team time: %g hours**\n", tb.TotalTime())
	return b.String()
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// Render прогоняет markdown через glamour; при ошибке возвращает исходный текст
func Render(markdown string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/interpreter"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/wizard"
)

var (
	genTheme   string
	genTech    string
	genProblem string
	genTime    string
	genSkill   string
	genMembers []string
	genSave    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an idea and task breakdown without the UI",
	Example: `  hackwoo generate --theme health --tech "Go, React" --problem "poor sleep" \
    --time 24h --member "Ana:Go:advanced" --member "Bob:React:beginner"`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genTheme, "theme", "", "hackathon theme")
	f.StringVar(&genTech, "tech", "", "comma separated technologies")
	f.StringVar(&genProblem, "problem", "", "problem to solve")
	f.StringVar(&genTime, "time", "", "hackathon duration, e.g. 24h")
	f.StringVar(&genSkill, "skill", "", "team skill level; defaults to the most common member level")
	f.StringArrayVar(&genMembers, "member", nil, "team member as name:skills:level (repeatable)")
	f.BoolVar(&genSave, "save", false, "save the generated idea locally")
	_ = generateCmd.MarkFlagRequired("theme")
	_ = generateCmd.MarkFlagRequired("tech")
	_ = generateCmd.MarkFlagRequired("member")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	gen, err := newGenerator()
	if err != nil {
		return err
	}

	c := wizard.NewController(gen, logger)
	c.Apply(wizard.SetField{Field: wizard.FieldTheme, Value: genTheme})
	c.Apply(wizard.SetField{Field: wizard.FieldTechnologies, Value: genTech})
	c.Apply(wizard.SetField{Field: wizard.FieldProblem, Value: genProblem})
	c.Apply(wizard.SetField{Field: wizard.FieldTimeRange, Value: genTime})
	c.Apply(wizard.SetField{Field: wizard.FieldSkillLevel, Value: genSkill})
	for i, raw := range genMembers {
		m, err := wizard.ParseMember(raw)
		if err != nil {
			return err
		}
		if i > 0 {
			c.Apply(wizard.AddMember{})
		}
		c.Apply(wizard.UpdateMember{Index: i, Field: "name", Value: m.Name})
		c.Apply(wizard.UpdateMember{Index: i, Field: "skills", Value: m.Skills})
		c.Apply(wizard.UpdateMember{Index: i, Field: "skillLevel", Value: m.SkillLevel})
	}
	for range wizard.Steps {
		c.Apply(wizard.Next{})
	}

	submitErr := c.Submit(cmd.Context())
	s := c.State()
	printResult(cmd.OutOrStdout(), s)
	if submitErr != nil {
		var fb *interpreter.RawFallback
		if errors.As(submitErr, &fb) {
			return errors.New("model response could not be parsed")
		}
		return submitErr
	}

	if genSave && s.Idea != nil {
		saved, closeDB, err := openSaved(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()
		if err := saved.AddIdea(cmd.Context(), s.Idea); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved %q\n", s.Idea.ProjectTitle)
	}
	return nil
}

func printResult(w io.Writer, s wizard.State) {
	title := color.New(color.FgCyan, color.Bold)
	heading := color.New(color.Bold)

	if s.Idea != nil {
		idea := s.Idea
		title.Fprintln(w, idea.ProjectTitle)
		fmt.Fprintln(w, idea.BriefDescription)
		list(w, heading, "Key features", idea.KeyFeatures)
		list(w, heading, "Technical stack", idea.TechnicalStack)
		list(w, heading, "Potential challenges", idea.PotentialChallenges)
		list(w, heading, "Unique selling points", idea.UniqueSellingPoints)
		heading.Fprintln(w, "Target audience")
		fmt.Fprintf(w, "  %s\n", idea.TargetAudience)
		list(w, heading, "Future enhancements", idea.FutureEnhancements)
	}

	if len(s.Tasks) > 0 {
		fmt.Fprintln(w)
		title.Fprintln(w, "Task breakdown")
		printTasks(w, heading, s.Tasks)
	}

	if s.Err != "" {
		color.New(color.FgRed).Fprintln(w, s.Err)
		if s.RawResponse != "" {
			color.New(color.Faint).Fprintln(w, s.RawResponse)
		}
	}
}

func printTasks(w io.Writer, heading *color.Color, tb models.TaskBreakdown) {
	names := make([]string, 0, len(tb))
	for name := range tb {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mt := tb[name]
		heading.Fprintf(w, "%s (%g h)\n", name, mt.TotalTime)
		for _, t := range mt.Tasks {
			fmt.Fprintf(w, "  - %s (%g h): %s\n", t.Description, t.EstimatedTime, t.Explanation)
		}
	}
	heading.Fprintf(w, "Estimated total team time: %g hours\n", tb.TotalTime())
}

func list(w io.Writer, heading *color.Color, name string, items []string) {
	heading.Fprintln(w, name)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

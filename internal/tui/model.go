// Package tui - терминальный интерфейс мастера, результатов и чата.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/service"
	"github.com/Jamolkhon5/hackwoo/internal/chat"
	"github.com/Jamolkhon5/hackwoo/internal/savedideas"
	"github.com/Jamolkhon5/hackwoo/internal/wizard"
)

type mode int

const (
	modeForm mode = iota
	modeResults
	modeChat
)

var errEmptyReply = errors.New("empty reply")

type submitDoneMsg struct{ err error }

type chatDoneMsg struct {
	reply string
	err   error
}

type Model struct {
	ctx    context.Context
	wiz    *wizard.Controller
	gen    service.Generator
	chat   *chat.Session
	saved  *savedideas.List
	logger *zap.Logger

	input      textinput.Model
	bar        progress.Model
	mode       mode
	submitting bool
	notice     string
	width      int
}

// New создает модель. saved может быть nil, тогда сохранение недоступно.
func New(ctx context.Context, gen service.Generator, saved *savedideas.List, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	m := Model{
		ctx:    ctx,
		wiz:    wizard.NewController(gen, logger),
		gen:    gen,
		chat:   chat.NewSession(logger),
		saved:  saved,
		logger: logger,
		input:  ti,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		width:  80,
	}
	m.loadInput()
	return m
}

// State возвращает текущее состояние мастера
func (m Model) State() wizard.State {
	return m.wiz.State()
}

// Messages возвращает историю чата
func (m Model) Messages() []models.ChatMessage {
	return m.chat.Messages()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 6
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		s := m.wiz.State()
		if s.ShowResults {
			m.mode = modeResults
			m.notice = ""
		} else if msg.err != nil && s.Err == "" {
			m.notice = msg.err.Error()
		}
		return m, nil

	case chatDoneMsg:
		err := msg.err
		if err == nil && msg.reply == "" {
			err = errEmptyReply
		}
		m.chat.Complete(msg.reply, err)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeResults:
			return m.updateResults(msg)
		case modeChat:
			return m.updateChat(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	s := m.wiz.State()

	switch msg.Type {
	case tea.KeyEsc:
		m.wiz.Apply(wizard.Prev{})
		m.loadInput()
		return m, nil

	case tea.KeyCtrlD:
		if s.Current().Field == wizard.FieldTeamMembers && len(s.Team) > 1 {
			m.wiz.Apply(wizard.RemoveMember{Index: len(s.Team) - 1})
		}
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		if field := s.Current().Field; field != wizard.FieldTeamMembers {
			m.wiz.Apply(wizard.SetField{Field: field, Value: value})
			m.wiz.Apply(wizard.Next{})
			m.loadInput()
			return m, nil
		}
		if strings.TrimSpace(value) != "" {
			m.addMember(s, value)
			return m, nil
		}
		m.submitting = true
		m.notice = ""
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) addMember(s wizard.State, raw string) {
	member, err := wizard.ParseMember(raw)
	if err != nil {
		m.notice = err.Error()
		return
	}
	index := len(s.Team)
	if index == 1 && s.Team[0].Name == "" {
		index = 0
	} else {
		m.wiz.Apply(wizard.AddMember{})
	}
	m.wiz.Apply(wizard.UpdateMember{Index: index, Field: "name", Value: member.Name})
	m.wiz.Apply(wizard.UpdateMember{Index: index, Field: "skills", Value: member.Skills})
	m.wiz.Apply(wizard.UpdateMember{Index: index, Field: "skillLevel", Value: member.SkillLevel})
	m.notice = ""
	m.input.Reset()
}

func (m Model) submit() tea.Cmd {
	ctx, wiz := m.ctx, m.wiz
	return func() tea.Msg {
		return submitDoneMsg{err: wiz.Submit(ctx)}
	}
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "b":
		m.mode = modeForm
		m.loadInput()
	case "c":
		m.mode = modeChat
		m.input.Reset()
		m.input.Placeholder = "Ask about your project..."
	case "s":
		m.notice = m.saveIdea()
	}
	return m, nil
}

func (m Model) saveIdea() string {
	idea := m.wiz.State().Idea
	if m.saved == nil || idea == nil {
		return "Saving is not available"
	}
	if err := m.saved.AddIdea(m.ctx, idea); err != nil {
		m.logger.Error("save idea", zap.Error(err))
		return "Could not save idea"
	}
	return fmt.Sprintf("Saved %q", idea.ProjectTitle)
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeResults
		return m, nil
	case tea.KeyEnter:
		history, ok := m.chat.Begin(m.input.Value())
		if !ok {
			return m, nil
		}
		m.input.Reset()
		s := m.wiz.State()
		ctx, gen := m.ctx, m.gen
		req := models.ChatRequest{Messages: history, Idea: s.Idea, TaskBreakdown: s.Tasks}
		return m, func() tea.Msg {
			reply, err := gen.Chat(ctx, req)
			return chatDoneMsg{reply: reply, err: err}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// loadInput подставляет в поле ввода значение текущего шага
func (m *Model) loadInput() {
	s := m.wiz.State()
	m.input.Reset()
	switch s.Current().Field {
	case wizard.FieldTheme:
		m.input.SetValue(s.Form.Theme)
	case wizard.FieldTechnologies:
		m.input.SetValue(s.Form.Technologies)
	case wizard.FieldProblem:
		m.input.SetValue(s.Form.Problem)
	case wizard.FieldTimeRange:
		m.input.SetValue(s.Form.TimeRange)
	}
	m.input.Placeholder = s.Current().Explanation
	if s.Current().Field == wizard.FieldTeamMembers {
		m.input.Placeholder = "name:skills:level, empty line to generate"
	}
}

func (m Model) View() string {
	switch m.mode {
	case modeResults:
		return m.viewResults()
	case modeChat:
		return m.viewChat()
	}
	return m.viewForm()
}

func (m Model) viewForm() string {
	s := m.wiz.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Step %d of %d: %s", s.Step+1, len(wizard.Steps), s.Current().Name)))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(s.Progress() / 100))
	b.WriteString("\n\n")
	b.WriteString(s.Current().Explanation + "\n\n")

	if s.Current().Field == wizard.FieldTeamMembers {
		for i, member := range s.Team {
			name := member.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(&b, "%d. %s [%s] %s\n", i+1, name, member.SkillLevel, member.Skills)
		}
		b.WriteString("\n")
	}

	b.WriteString(boxStyle.Render("> " + m.input.View()))
	b.WriteString("\n")

	switch {
	case m.submitting || s.Busy:
		b.WriteString(hintStyle.Render("Generating idea and tasks...") + "\n")
	case s.Err != "":
		b.WriteString(errorStyle.Render(s.Err) + "\n")
		if s.RawResponse != "" {
			b.WriteString(hintStyle.Render(s.RawResponse) + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice) + "\n")
	}
	b.WriteString(hintStyle.Render("enter: next  esc: back  ctrl+d: remove member  ctrl+c: quit"))
	return b.String()
}

func (m Model) viewResults() string {
	s := m.wiz.State()
	var b strings.Builder
	b.WriteString(Render(IdeaMarkdown(s.Idea)+"\n"+TasksMarkdown(s.Tasks), m.width))
	if s.Err != "" {
		b.WriteString(errorStyle.Render(s.Err) + "\n")
	}
	if m.notice != "" {
		b.WriteString(hintStyle.Render(m.notice) + "\n")
	}
	b.WriteString(hintStyle.Render("c: chat  s: save idea  b: back  q: quit"))
	return b.String()
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Project chat") + "\n\n")
	wrap := lipgloss.NewStyle().Width(m.width - 2)
	for _, msg := range m.chat.Messages() {
		label := userStyle.Render("You: ")
		if msg.Role == models.RoleAssistant {
			label = botStyle.Render("Assistant: ")
		}
		b.WriteString(wrap.Render(label+msg.Content) + "\n")
	}
	b.WriteString("\n" + boxStyle.Render("> "+m.input.View()) + "\n")
	b.WriteString(hintStyle.Render("enter: send  esc: results  ctrl+c: quit"))
	return b.String()
}

// Run запускает интерфейс в терминале
func Run(ctx context.Context, gen service.Generator, saved *savedideas.List, logger *zap.Logger) error {
	_, err := tea.NewProgram(New(ctx, gen, saved, logger), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/interpreter"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/models"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/service"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/validator"
)

var (
	ErrBusy        = errors.New("wizard: submission already in progress")
	ErrNotLastStep = errors.New("wizard: submit is only allowed from the last step")
)

// Controller хранит состояние мастера и выполняет отправку.
// Пока отправка не завершена, повторная отправка отклоняется.
type Controller struct {
	mu     sync.Mutex
	state  State
	gen    service.Generator
	logger *zap.Logger
}

func NewController(gen service.Generator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		state:  NewState(),
		gen:    gen,
		logger: logger,
	}
}

// State возвращает копию текущего состояния
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Reduce(c.state, nil)
}

// Apply применяет событие формы и возвращает новое состояние
func (c *Controller) Apply(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, ev)
	return c.state
}

// Submit генерирует идею и сразу после нее - распределение задач.
// Ошибка второго шага оставляет идею в состоянии.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.state.IsLast() {
		c.mu.Unlock()
		return ErrNotLastStep
	}
	req := c.state.IdeaRequest()
	if err := validateSubmission(req, c.state.Team); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Reduce(c.state, SubmitStarted{})
	c.mu.Unlock()

	idea, err := c.gen.GenerateIdea(ctx, req)
	if err != nil {
		c.logger.Error("error generating idea", zap.Error(err))
		c.Apply(IdeaFailed{Err: describe(err), Raw: rawResponse(err)})
		return err
	}
	team := c.Apply(IdeaReady{Idea: idea}).Team

	tasks, err := c.gen.GenerateTasks(ctx, models.TaskRequest{Idea: idea, TeamMembers: team})
	if err != nil {
		c.logger.Error("error generating tasks", zap.Error(err))
		c.Apply(TasksFailed{Err: describe(err), Raw: rawResponse(err)})
		return err
	}
	c.Apply(TasksReady{Tasks: tasks})
	return nil
}

func validateSubmission(req models.IdeaRequest, team []models.TeamMember) error {
	if err := validator.ValidateIdeaRequest(req); err != nil {
		return err
	}
	if len(team) == 0 {
		return errors.New("at least one team member is required")
	}
	for i, m := range team {
		if err := validator.ValidateTeamMember(m); err != nil {
			return fmt.Errorf("team member %d: %w", i+1, err)
		}
	}
	return nil
}

func describe(err error) string {
	return "An error occurred: " + err.Error()
}

func rawResponse(err error) string {
	var fb *interpreter.RawFallback
	if errors.As(err, &fb) {
		return fb.Raw
	}
	return ""
}

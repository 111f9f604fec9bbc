package application

import (
	"context"

	"github.com/sirupsen/logrus"
)

// The registration flow is a sequence of remote calls with no transaction
// around them. Saga runs the steps in order; when one fails, the
// compensations of every completed step run in reverse. Compensation errors
// are logged and swallowed so the original failure is what the caller sees.

// SagaStep is one forward action with an optional undo.
type SagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error // nil when the step needs no undo
}

// Saga executes steps with compensation-on-failure semantics.
type Saga struct {
	Name   string
	Logger *logrus.Logger
	steps  []SagaStep
}

func NewSaga(name string, logger *logrus.Logger) *Saga {
	return &Saga{Name: name, Logger: logger}
}

func (s *Saga) AddStep(step SagaStep) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs the steps in order. On the first failure it unwinds the
// completed steps and returns the failing step's error.
func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.unwind(ctx, i-1)
			if s.Logger != nil {
				s.Logger.WithError(err).WithFields(logrus.Fields{"saga": s.Name, "step": step.Name}).Error("saga step failed")
			}
			return err
		}
	}
	return nil
}

func (s *Saga) unwind(ctx context.Context, from int) {
	for i := from; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"saga": s.Name, "step": step.Name}).Warn("saga compensation failed")
		}
	}
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSagaRunsStepsInOrder(t *testing.T) {
	var order []string
	saga := NewSaga("test", nil).
		AddStep(SagaStep{Name: "a", Run: func(context.Context) error { order = append(order, "a"); return nil }}).
		AddStep(SagaStep{Name: "b", Run: func(context.Context) error { order = append(order, "b"); return nil }})

	require.NoError(t, saga.Execute(context.Background()))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestSagaCompensatesInReverse(t *testing.T) {
	var undone []string
	boom := errors.New("step c failed")
	saga := NewSaga("test", nil).
		AddStep(SagaStep{
			Name: "a",
			Run:  func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				undone = append(undone, "a")
				return nil
			},
		}).
		AddStep(SagaStep{
			Name: "b",
			Run:  func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				undone = append(undone, "b")
				return nil
			},
		}).
		AddStep(SagaStep{Name: "c", Run: func(context.Context) error { return boom }})

	err := saga.Execute(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"b", "a"}, undone)
}

func TestSagaCompensationErrorsAreSwallowed(t *testing.T) {
	boom := errors.New("forward failure")
	saga := NewSaga("test", nil).
		AddStep(SagaStep{
			Name:       "a",
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { return errors.New("undo failed too") },
		}).
		AddStep(SagaStep{Name: "b", Run: func(context.Context) error { return boom }})

	// the caller sees the forward error, never the compensation one
	assert.ErrorIs(t, saga.Execute(context.Background()), boom)
}

func TestSagaStepWithoutCompensation(t *testing.T) {
	var undone []string
	saga := NewSaga("test", nil).
		AddStep(SagaStep{
			Name: "a",
			Run:  func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				undone = append(undone, "a")
				return nil
			},
		}).
		AddStep(SagaStep{Name: "b", Run: func(context.Context) error { return nil }}).
		AddStep(SagaStep{Name: "c", Run: func(context.Context) error { return errors.New("fail") }})

	require.Error(t, saga.Execute(context.Background()))
	assert.Equal(t, []string{"a"}, undone)
}

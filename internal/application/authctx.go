package application

import (
	"context"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
)

// AuthContext carries the authenticated caller's identity into use-case
// functions. Handlers build it from the session; services never reach into
// ambient request state.
type AuthContext struct {
	UserID string
	Email  string
	Role   entity.Role
}

// EmailPublisher is the queue the services hand email jobs to. Satisfied by
// helpers.RabbitPublisher; tests substitute a capture fake.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

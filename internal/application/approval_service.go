package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
	"github.com/bintangpradana/pressadmin/pkg/mailer"
	tpl "github.com/bintangpradana/pressadmin/pkg/mailer/templates"
)

// ApprovalService reviews pending registrations.
type ApprovalService struct {
	Users         repo.UserRepository
	Registrations repo.RegistrationRepository
	Publisher     EmailPublisher
	Logger        *logrus.Logger

	AppBaseURL string
	MailOn     bool
}

// ListRequests returns registration requests in the given status.
func (s *ApprovalService) ListRequests(ctx context.Context, auth AuthContext, status entity.Status, limit, offset int) ([]entity.RegistrationRequest, error) {
	if !auth.Role.CanReview() {
		return nil, ErrForbidden
	}
	if status == "" {
		status = entity.StatusPending
	}
	return s.Registrations.ListByStatus(ctx, status, limit, offset)
}

type DecisionInput struct {
	UserID string
	Status entity.Status // active or rejected
	Notes  string
}

// Decide applies an admin decision. The account's role and status are written
// in one statement: an approval lands the originally requested role directly,
// with no intermediate placeholder state.
func (s *ApprovalService) Decide(ctx context.Context, auth AuthContext, in DecisionInput) error {
	if !auth.Role.CanReview() {
		return ErrForbidden
	}
	if in.Status != entity.StatusActive && in.Status != entity.StatusRejected {
		return ErrInvalidDecision
	}

	reg, err := s.Registrations.GetByUserID(ctx, in.UserID)
	if err != nil {
		return ErrRequestNotFound
	}
	user, err := s.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return ErrUserNotFound
	}

	newRole := entity.RoleUser
	if in.Status == entity.StatusActive {
		newRole = reg.RequestedRole
	}
	if err := s.Users.UpdateRoleStatus(ctx, in.UserID, newRole, in.Status); err != nil {
		return err
	}
	if err := s.Registrations.UpdateDecision(ctx, in.UserID, in.Status, in.Notes, auth.UserID); err != nil {
		return err
	}

	s.notifyApplicant(ctx, user, in)
	return nil
}

// notifyApplicant emails the decision. Send failures are logged only: the
// decision is already recorded and the endpoint reports success.
func (s *ApprovalService) notifyApplicant(ctx context.Context, user *entity.User, in DecisionInput) {
	if !s.MailOn || s.Publisher == nil {
		return
	}
	decision := "approved"
	if in.Status == entity.StatusRejected {
		decision = "rejected"
	}
	job := mailer.EmailJob{
		To:       user.Email,
		Template: tpl.RegistrationDecision,
		Data: map[string]any{
			"Name":     user.Name,
			"Decision": decision,
			"Approved": in.Status == entity.StatusActive,
			"Notes":    in.Notes,
			"LoginURL": s.AppBaseURL + "/login",
		},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", user.Email).Warn("failed to enqueue decision email")
	}
}

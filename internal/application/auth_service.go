package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
	"github.com/bintangpradana/pressadmin/pkg/mailer"
	tpl "github.com/bintangpradana/pressadmin/pkg/mailer/templates"
)

// AuthService owns registration, OTP verification, password reset and
// session issuance.
type AuthService struct {
	Users         repo.UserRepository
	OTPs          repo.OTPRepository
	Registrations repo.RegistrationRepository
	Redis         *redis.Client
	JWT           *helpers.JWTManager
	Publisher     EmailPublisher
	Logger        *logrus.Logger

	AppBaseURL string
	OTPLength  int
	OTPTTL     time.Duration
	MailOn     bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     entity.Role
}

type RegisterResult struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// Register runs the sign-up saga: create the account, persist the OTP row,
// persist the registration request, then enqueue the verification email.
// Earlier steps are compensated when a later one fails. The email step sits
// outside the saga: a lost email is recoverable via resend, a half-created
// account is not.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if in.Role == "" {
		in.Role = entity.RoleUser
	}
	if !entity.ValidRole(in.Role) || in.Role == entity.RoleSuperAdmin {
		return nil, ErrInvalidRole
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, err := helpers.GenerateOTP(s.OTPLength)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Role:     entity.RoleUser, // effective role stays user until approval
		Status:   entity.StatusPending,
	}

	saga := NewSaga("register", s.Logger).
		AddStep(SagaStep{
			Name: "create_user",
			Run: func(ctx context.Context) error {
				return s.Users.Create(ctx, user)
			},
			Compensate: func(ctx context.Context) error {
				return s.Users.Delete(ctx, user.ID)
			},
		}).
		AddStep(SagaStep{
			Name: "issue_otp",
			Run: func(ctx context.Context) error {
				return s.issueOTP(ctx, user, code, entity.PurposeEmailVerification)
			},
			Compensate: func(ctx context.Context) error {
				return s.OTPs.DeleteByEmailPurpose(ctx, user.Email, entity.PurposeEmailVerification)
			},
		}).
		AddStep(SagaStep{
			Name: "create_registration_request",
			Run: func(ctx context.Context) error {
				return s.Registrations.Create(ctx, &entity.RegistrationRequest{
					UserID:        user.ID,
					Status:        entity.StatusPending,
					RequestedRole: in.Role,
					EmailVerified: false,
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.Registrations.DeleteByUserID(ctx, user.ID)
			},
		})

	if err := saga.Execute(ctx); err != nil {
		return nil, err
	}

	s.sendCode(ctx, user, code, tpl.VerificationCode)

	return &RegisterResult{UserID: user.ID, Status: string(entity.StatusPending)}, nil
}

// issueOTP supersedes any previous codes for the purpose and stores the new
// digest. The plain code never touches the database.
func (s *AuthService) issueOTP(ctx context.Context, user *entity.User, code string, purpose entity.OTPPurpose) error {
	if err := s.OTPs.DeleteByEmailPurpose(ctx, user.Email, purpose); err != nil {
		return err
	}
	return s.OTPs.Create(ctx, &entity.OTPVerification{
		UserID:    user.ID,
		Email:     user.Email,
		OTPHash:   helpers.HashOTP(code, user.Email),
		Purpose:   purpose,
		ExpiresAt: helpers.OTPExpiry(s.OTPTTL),
	})
}

func (s *AuthService) sendCode(ctx context.Context, user *entity.User, code, template string) {
	if !s.MailOn || s.Publisher == nil {
		return
	}
	job := mailer.EmailJob{
		To:       user.Email,
		Template: template,
		Data: map[string]any{
			"Name":      user.Name,
			"Code":      code,
			"ExpiresIn": s.OTPTTL.String(),
		},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", user.Email).Warn("failed to enqueue email")
	}
}

type VerifyInput struct {
	Email   string
	OTP     string
	Purpose entity.OTPPurpose
}

type VerifyResult struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// VerifyOTP consumes the most recent code for (email, purpose). Matched or
// expired codes are removed; a successful email_verification flips the
// registration request and notifies reviewers.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	if in.Purpose == "" {
		in.Purpose = entity.PurposeEmailVerification
	}
	row, err := s.OTPs.LatestByEmailPurpose(ctx, in.Email, in.Purpose)
	if err != nil {
		return nil, ErrNoVerification
	}
	if helpers.OTPExpired(row.ExpiresAt, time.Now().UTC()) {
		// An expired code can never verify; collect the garbage on read.
		if derr := s.OTPs.DeleteByID(ctx, row.ID); derr != nil && s.Logger != nil {
			s.Logger.WithError(derr).Warn("failed to delete expired otp row")
		}
		return nil, ErrOTPExpired
	}
	if !helpers.VerifyOTP(in.OTP, in.Email, row.OTPHash) {
		return nil, ErrOTPInvalid
	}

	// Single-use: remove every code for the purpose, including stale ones
	// from earlier resends. The verification decision stands even if the
	// delete fails.
	if derr := s.OTPs.DeleteByEmailPurpose(ctx, in.Email, in.Purpose); derr != nil && s.Logger != nil {
		s.Logger.WithError(derr).Warn("failed to delete consumed otp rows")
	}

	if in.Purpose != entity.PurposeEmailVerification {
		return &VerifyResult{UserID: row.UserID, Status: "verified"}, nil
	}

	// Admins only approve requests they can see as verified, so this write
	// is fatal on failure.
	if err := s.Registrations.SetEmailVerified(ctx, row.UserID); err != nil {
		return nil, fmt.Errorf("update registration request: %w", err)
	}

	s.notifyReviewers(ctx, row)

	if err := s.Users.SetEmailVerified(ctx, row.UserID); err != nil && s.Logger != nil {
		// Registration is still complete from the applicant's point of view.
		s.Logger.WithError(err).WithField("user_id", row.UserID).Warn("failed to stamp email_verified_at")
	}

	return &VerifyResult{UserID: row.UserID, Status: "pending_approval"}, nil
}

func (s *AuthService) notifyReviewers(ctx context.Context, row *entity.OTPVerification) {
	if !s.MailOn || s.Publisher == nil {
		return
	}
	reviewers, err := s.Users.ListReviewers(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("failed to list reviewers for notification")
		}
		return
	}
	reg, err := s.Registrations.GetByUserID(ctx, row.UserID)
	requestedRole := entity.RoleUser
	if err == nil {
		requestedRole = reg.RequestedRole
	}
	for _, admin := range reviewers {
		job := mailer.EmailJob{
			To:       admin.Email,
			Template: tpl.AdminNewRegistration,
			Data: map[string]any{
				"ApplicantEmail": row.Email,
				"RequestedRole":  string(requestedRole),
				"ReviewURL":      s.AppBaseURL + "/registrations",
			},
		}
		if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", admin.Email).Warn("failed to enqueue admin notification")
		}
	}
}

// ResendVerification re-issues a code for an existing account. The caller
// always receives the same generic answer, so an attacker cannot probe for
// registered addresses.
func (s *AuthService) ResendVerification(ctx context.Context, email string, purpose entity.OTPPurpose) error {
	if purpose == "" {
		purpose = entity.PurposeEmailVerification
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil // enumeration-safe: pretend success
	}
	code, err := helpers.GenerateOTP(s.OTPLength)
	if err != nil {
		return err
	}
	if err := s.issueOTP(ctx, user, code, purpose); err != nil {
		return err
	}
	template := tpl.VerificationCode
	if purpose == entity.PurposePasswordReset {
		template = tpl.PasswordReset
	}
	s.sendCode(ctx, user, code, template)
	return nil
}

// RequestPasswordReset issues a password_reset code, with the same
// enumeration resistance as ResendVerification.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.ResendVerification(ctx, email, entity.PurposePasswordReset)
}

// ResetPassword consumes a password_reset code and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	res, err := s.VerifyOTP(ctx, VerifyInput{Email: email, OTP: otp, Purpose: entity.PurposePasswordReset})
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, res.UserID, hash)
}

type LoginResponse struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   entity.Role `json:"role"`
}

// Login validates credentials and account status, then issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if u.Status != entity.StatusActive {
		return nil, TokenPair{}, fmt.Errorf("%w: %s", ErrAccountNotActive, u.Status)
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, pair, nil
}

// issueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and both tokens after validating that the
// refresh token still matches the live session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if u.Status != entity.StatusActive {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the Redis session.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("failed to delete session")
	}
}

// ActivateAdmin promotes an existing account to super_admin. Gated by the
// one-time activation key from the environment.
func (s *AuthService) ActivateAdmin(ctx context.Context, email, key, configuredKey string) (*entity.User, error) {
	if configuredKey == "" {
		return nil, ErrActivationDisabled
	}
	if key != configuredKey {
		return nil, ErrActivationKeyWrong
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if err := s.Users.UpdateRoleStatus(ctx, u.ID, entity.RoleSuperAdmin, entity.StatusActive); err != nil {
		return nil, err
	}
	u.Role = entity.RoleSuperAdmin
	u.Status = entity.StatusActive
	return u, nil
}

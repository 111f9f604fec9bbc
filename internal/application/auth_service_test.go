package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
	"github.com/bintangpradana/pressadmin/pkg/mailer"
	tpl "github.com/bintangpradana/pressadmin/pkg/mailer/templates"
)

func newAuthService(users *fakeUsers, otps *fakeOTPs, regs *fakeRegs, pub *capturePublisher) *AuthService {
	return &AuthService{
		Users:         users,
		OTPs:          otps,
		Registrations: regs,
		JWT:           helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour),
		Publisher:     pub,
		AppBaseURL:    "http://localhost:8080",
		OTPLength:     6,
		OTPTTL:        15 * time.Minute,
		MailOn:        true,
	}
}

// codeFromJob digs the plain OTP out of the captured email job.
func codeFromJob(t *testing.T, job any) string {
	t.Helper()
	ej, ok := job.(mailer.EmailJob)
	require.True(t, ok, "expected mailer.EmailJob, got %T", job)
	code, ok := ej.Data["Code"].(string)
	require.True(t, ok, "job data has no Code")
	return code
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
		Role:     entity.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status)

	u, err := users.GetByID(context.Background(), res.UserID)
	require.NoError(t, err)
	// the requested role never lands on the account before approval
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, entity.StatusPending, u.Status)
	assert.NotEqual(t, "password123", u.Password, "password must be stored hashed")

	reg, err := regs.GetByUserID(context.Background(), res.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEditor, reg.RequestedRole)
	assert.False(t, reg.EmailVerified)

	assert.Equal(t, 1, otps.count("alice@example.com", entity.PurposeEmailVerification))

	jobs := pub.published()
	require.Len(t, jobs, 1)
	ej := jobs[0].(mailer.EmailJob)
	assert.Equal(t, "alice@example.com", ej.To)
	assert.Equal(t, tpl.VerificationCode, ej.Template)
}

func TestRegisterRejectsSuperAdminRequest(t *testing.T) {
	svc := newAuthService(newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "eve@example.com", Password: "password123", Name: "Eve", Role: entity.RoleSuperAdmin,
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "alice@example.com", Password: "password123", Name: "Alice",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "Alice@Example.com", Password: "password456", Name: "Alice Again",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSagaRollsBackOnFailure(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	boom := errors.New("registration table unavailable")
	regs.fail("Create", boom)
	svc := newAuthService(users, otps, regs, pub)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "alice@example.com", Password: "password123", Name: "Alice",
	})
	require.ErrorIs(t, err, boom)

	// compensations removed both the user and the otp rows
	assert.Len(t, users.deleted, 1)
	assert.Empty(t, users.byID)
	assert.Equal(t, 0, otps.count("alice@example.com", entity.PurposeEmailVerification))
	assert.Empty(t, pub.published(), "no email goes out for a failed registration")
}

func register(t *testing.T, svc *AuthService, pub *capturePublisher, email string) (userID, code string) {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{
		Email: email, Password: "password123", Name: "Test User",
	})
	require.NoError(t, err)
	jobs := pub.published()
	require.NotEmpty(t, jobs)
	return res.UserID, codeFromJob(t, jobs[len(jobs)-1])
}

func TestVerifyOTPHappyPath(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	userID, code := register(t, svc, pub, "alice@example.com")

	res, err := svc.VerifyOTP(context.Background(), VerifyInput{Email: "alice@example.com", OTP: code})
	require.NoError(t, err)
	assert.Equal(t, userID, res.UserID)
	assert.Equal(t, "pending_approval", res.Status)

	reg, err := regs.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, reg.EmailVerified)

	// single-use: nothing left to verify with
	assert.Equal(t, 0, otps.count("alice@example.com", entity.PurposeEmailVerification))
	_, err = svc.VerifyOTP(context.Background(), VerifyInput{Email: "alice@example.com", OTP: code})
	assert.ErrorIs(t, err, ErrNoVerification)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	register(t, svc, pub, "alice@example.com")

	_, err := svc.VerifyOTP(context.Background(), VerifyInput{Email: "alice@example.com", OTP: "000000"})
	assert.ErrorIs(t, err, ErrOTPInvalid)
	// a failed attempt does not consume the code
	assert.Equal(t, 1, otps.count("alice@example.com", entity.PurposeEmailVerification))
}

func TestVerifyOTPExpiredIsCollected(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	_, code := register(t, svc, pub, "alice@example.com")

	// age the stored row past its expiry
	otps.mu.Lock()
	for _, r := range otps.rows {
		r.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}
	otps.mu.Unlock()

	_, err := svc.VerifyOTP(context.Background(), VerifyInput{Email: "alice@example.com", OTP: code})
	require.ErrorIs(t, err, ErrOTPExpired)
	assert.Equal(t, "verification code has expired", ErrOTPExpired.Error())

	// the dead row was garbage-collected on read
	assert.Equal(t, 0, otps.count("alice@example.com", entity.PurposeEmailVerification))
}

func TestResendSupersedesOldCode(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	_, oldCode := register(t, svc, pub, "alice@example.com")

	require.NoError(t, svc.ResendVerification(context.Background(), "alice@example.com", entity.PurposeEmailVerification))
	jobs := pub.published()
	require.Len(t, jobs, 2)
	newCode := codeFromJob(t, jobs[1])

	// only one live row after re-issue
	assert.Equal(t, 1, otps.count("alice@example.com", entity.PurposeEmailVerification))

	if oldCode != newCode {
		_, err := svc.VerifyOTP(context.Background(), VerifyInput{Email: "alice@example.com", OTP: oldCode})
		assert.ErrorIs(t, err, ErrOTPInvalid)
	}
	_, err := svc.VerifyOTP(context.Background(), VerifyInput{Email: "alice@example.com", OTP: newCode})
	assert.NoError(t, err)
}

func TestResendUnknownEmailIsSilent(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)

	err := svc.ResendVerification(context.Background(), "ghost@example.com", entity.PurposeEmailVerification)
	assert.NoError(t, err, "unknown addresses must get the same answer as known ones")
	assert.Empty(t, pub.published())
}

func TestPasswordResetFlow(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	userID, _ := register(t, svc, pub, "alice@example.com")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))
	jobs := pub.published()
	require.Len(t, jobs, 2)
	resetJob := jobs[1].(mailer.EmailJob)
	assert.Equal(t, tpl.PasswordReset, resetJob.Template)
	code := codeFromJob(t, jobs[1])

	require.NoError(t, svc.ResetPassword(context.Background(), "alice@example.com", code, "newpassword1"))

	u, err := users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "newpassword1"))
	assert.False(t, helpers.CompareHashAndPassword(u.Password, "password123"))

	// the reset code is spent
	err = svc.ResetPassword(context.Background(), "alice@example.com", code, "anotherpass1")
	assert.Error(t, err)
}

func TestResetCodeDoesNotVerifyEmail(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	userID, _ := register(t, svc, pub, "alice@example.com")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))
	jobs := pub.published()
	code := codeFromJob(t, jobs[len(jobs)-1])

	// a password_reset code must not complete email verification
	_, err := svc.VerifyOTP(context.Background(), VerifyInput{
		Email: "alice@example.com", OTP: code, Purpose: entity.PurposePasswordReset,
	})
	require.NoError(t, err)
	reg, err := regs.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, reg.EmailVerified)
}

func TestLoginStatusGate(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	userID, _ := register(t, svc, pub, "alice@example.com")

	// pending accounts cannot log in even with the right password
	_, _, err := svc.Login(context.Background(), "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountNotActive)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, users.UpdateRoleStatus(context.Background(), userID, entity.RoleUser, entity.StatusActive))
	res, pair, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, userID, res.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestActivateAdmin(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)
	userID, _ := register(t, svc, pub, "root@example.com")

	_, err := svc.ActivateAdmin(context.Background(), "root@example.com", "whatever", "")
	assert.ErrorIs(t, err, ErrActivationDisabled)

	_, err = svc.ActivateAdmin(context.Background(), "root@example.com", "wrong", "s3cret")
	assert.ErrorIs(t, err, ErrActivationKeyWrong)

	u, err := svc.ActivateAdmin(context.Background(), "root@example.com", "s3cret", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, u.Role)
	assert.Equal(t, entity.StatusActive, u.Status)

	stored, err := users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, stored.Role)
}

func TestVerifyNotifiesReviewers(t *testing.T) {
	users, otps, regs, pub := newFakeUsers(), newFakeOTPs(), newFakeRegs(), &capturePublisher{}
	svc := newAuthService(users, otps, regs, pub)

	// seat an active admin before the applicant verifies
	admin := &entity.User{Email: "admin@example.com", Name: "Admin", Role: entity.RoleAdmin, Status: entity.StatusActive}
	require.NoError(t, users.Create(context.Background(), admin))

	_, code := register(t, svc, pub, "applicant@example.com")
	before := len(pub.published())

	_, err := svc.VerifyOTP(context.Background(), VerifyInput{Email: "applicant@example.com", OTP: code})
	require.NoError(t, err)

	jobs := pub.published()
	require.Greater(t, len(jobs), before)
	last := jobs[len(jobs)-1].(mailer.EmailJob)
	assert.Equal(t, "admin@example.com", last.To)
	assert.Equal(t, tpl.AdminNewRegistration, last.Template)
}

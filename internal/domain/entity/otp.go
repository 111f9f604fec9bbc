package entity

import "time"

// OTPPurpose distinguishes why a code was issued.
type OTPPurpose string

const (
	PurposeEmailVerification OTPPurpose = "email_verification"
	PurposePasswordReset     OTPPurpose = "password_reset"
)

// OTPVerification is one issued code. Only the digest is stored; the plain
// code travels by email and is never persisted. Rows are single-use: the
// verify path deletes them on success, and re-issuing supersedes (deletes)
// older rows for the same purpose.
type OTPVerification struct {
	ID        string
	UserID    string
	Email     string
	OTPHash   string
	Purpose   OTPPurpose
	ExpiresAt time.Time
	CreatedAt time.Time
}

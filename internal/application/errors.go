package application

import "errors"

// Service-level sentinel errors. Handlers map these to HTTP statuses; anything
// else is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("requested role is not allowed")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrNoVerification     = errors.New("no verification records found")
	ErrOTPExpired         = errors.New("verification code has expired")
	ErrOTPInvalid         = errors.New("invalid verification code")
	ErrRequestNotFound    = errors.New("registration request not found")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrPostNotFound       = errors.New("post not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrMediaNotFound      = errors.New("media not found")
	ErrActivationKeyWrong = errors.New("invalid activation key")
	ErrActivationDisabled = errors.New("admin activation is not configured")
	ErrInvalidDecision    = errors.New("decision must be active or rejected")
)

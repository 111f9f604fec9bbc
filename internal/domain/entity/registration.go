package entity

import "time"

// RegistrationRequest tracks a sign-up through email verification and admin
// review. One row per user; not deleted in the normal path.
type RegistrationRequest struct {
	ID            string
	UserID        string
	Status        Status
	RequestedRole Role
	AdminNotes    string
	ReviewedBy    *string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

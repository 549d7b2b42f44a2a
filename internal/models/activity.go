package models

import "time"

// ActivityAction is the fixed set of audit tags.
type ActivityAction string

const (
	ActionSignIn                 ActivityAction = "signin"
	ActionSignUp                 ActivityAction = "signup"
	ActionEmailVerified          ActivityAction = "email_verified"
	ActionVerificationResent     ActivityAction = "verification_resent"
	ActionPasswordResetRequested ActivityAction = "password_reset_requested"
	ActionPasswordReset          ActivityAction = "password_reset"
	ActionPasswordChanged        ActivityAction = "password_changed"
	ActionProfileUpdated         ActivityAction = "profile_updated"
	ActionOAuthSignIn            ActivityAction = "oauth_signin"
)

// ActivityLog is append-only. ID is an ObjectID hex for Mongo and a UUID for
// Postgres.
type ActivityLog struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	UserID      string            `bson:"user_id" json:"userId"`
	Action      ActivityAction    `bson:"action" json:"action"`
	Description string            `bson:"description" json:"description"`
	Metadata    map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updatedAt"`
}

package services

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrFederatedAccount     = errors.New("account uses Google sign-in")
	ErrAccountMisconfigured = errors.New("account password is not set correctly")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrEmailTaken           = errors.New("email already registered")
	ErrAlreadyVerified      = errors.New("email already verified")
	ErrNoPasswordSet        = errors.New("account has no password; sign in with Google")

	ErrTokenExpired        = errors.New("token expired")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrWrongTokenPurpose   = errors.New("token not valid for this operation")
	ErrSecretNotConfigured = errors.New("JWT secret is not configured")
)

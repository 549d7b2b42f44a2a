package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/pkg/utils"
)

// AuthResult is returned by every flow that ends in a session.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// GoogleProfile is the subset of the userinfo response used for sign-in.
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type AuthService struct {
	cfg      *config.Config
	users    repository.UserRepository
	tokens   *TokenService
	mailer   Mailer
	activity *ActivityRecorder
	logger   *zap.Logger
}

func NewAuthService(cfg *config.Config, users repository.UserRepository, tokens *TokenService, mailer Mailer, activity *ActivityRecorder, logger *zap.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		activity: activity,
		logger:   logger,
	}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &utils.ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) findByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) session(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user, PurposeSession)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// SignIn checks credentials. The failure outcomes are distinct and checked in
// a fixed order: unknown, federated, misconfigured, wrong password, unverified.
func (s *AuthService) SignIn(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	email = utils.NormalizeEmail(email)
	if err := required("email", email); err != nil {
		return nil, err
	}
	if err := required("password", password); err != nil {
		return nil, err
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsFederated() && user.Password == "" {
		return nil, ErrFederatedAccount
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil {
		s.logger.Error("stored password hash unreadable", zap.String("user_id", user.ID.Hex()))
		return nil, ErrAccountMisconfigured
	}
	if !ok {
		return nil, ErrInvalidPassword
	}
	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	result, err := s.session(user)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, user.ID.Hex(), models.ActionSignIn, "User signed in", meta)
	return result, nil
}

// SignUp creates an unverified account and mails a verification link. It
// returns the new user's id.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string, meta RequestMeta) (string, error) {
	email = utils.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := required("email", email); err != nil {
		return "", err
	}
	if err := required("password", password); err != nil {
		return "", err
	}
	if err := required("name", name); err != nil {
		return "", err
	}
	if err := utils.ValidateEmail(email); err != nil {
		return "", err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return "", err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		// The account exists; the user can ask for another link.
		s.logger.Warn("verification email not sent", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}

	s.activity.Record(ctx, user.ID.Hex(), models.ActionSignUp, "User signed up", meta)
	return user.ID.Hex(), nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.tokens.Issue(user, PurposeVerifyEmail)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, verificationMessage(s.cfg.FrontendURL, user.Email, user.Name, token))
}

// VerifyEmail marks the account verified. A second verification is rejected
// with ErrAlreadyVerified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string, meta RequestMeta) (*AuthResult, error) {
	if err := required("token", token); err != nil {
		return nil, err
	}
	claims, err := s.tokens.VerifyFor(token, PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}

	user, err := s.findByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	// A concurrent verification of the same token may win between the read
	// above and this write; only the write decides.
	if err := s.users.MarkVerified(ctx, user.ID.Hex()); err != nil {
		if errors.Is(err, repository.ErrUnchanged) {
			return nil, ErrAlreadyVerified
		}
		return nil, err
	}
	user.IsVerified = true

	s.activity.Record(ctx, user.ID.Hex(), models.ActionEmailVerified, "Email verified", meta)
	return s.session(user)
}

func (s *AuthService) ResendVerification(ctx context.Context, email string, meta RequestMeta) error {
	email = utils.NormalizeEmail(email)
	if err := required("email", email); err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return err
	}
	s.activity.Record(ctx, user.ID.Hex(), models.ActionVerificationResent, "Verification email resent", meta)
	return nil
}

// RequestPasswordReset mails a reset link. Unknown addresses yield
// ErrUserNotFound.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	email = utils.NormalizeEmail(email)
	if err := required("email", email); err != nil {
		return err
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(user, PurposeResetPassword)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, resetMessage(s.cfg.FrontendURL, user.Email, user.Name, token)); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	s.activity.Record(ctx, user.ID.Hex(), models.ActionPasswordResetRequested, "Password reset requested", meta)
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string, meta RequestMeta) error {
	if err := required("token", token); err != nil {
		return err
	}
	if err := required("newPassword", newPassword); err != nil {
		return err
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	claims, err := s.tokens.VerifyFor(token, PurposeResetPassword)
	if err != nil {
		return err
	}
	user, err := s.findByID(ctx, claims.UserID)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID.Hex(), hash); err != nil {
		return err
	}

	s.activity.Record(ctx, user.ID.Hex(), models.ActionPasswordReset, "Password reset", meta)
	return nil
}

// FederatedSignIn resolves a Google profile to an account: by Google id, then
// by email (linking the identity), else a new passwordless verified user.
func (s *AuthService) FederatedSignIn(ctx context.Context, profile GoogleProfile, meta RequestMeta) (*AuthResult, error) {
	if profile.ID == "" {
		return nil, &utils.ValidationError{Field: "id", Message: "Google profile has no id"}
	}
	email := utils.NormalizeEmail(profile.Email)
	if email == "" || !profile.VerifiedEmail {
		return nil, &utils.ValidationError{Field: "email", Message: "Google account has no verified email"}
	}

	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		user, err = s.linkOrCreate(ctx, profile, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.activity.Record(ctx, user.ID.Hex(), models.ActionOAuthSignIn, "User signed in with Google", meta)
	return s.session(user)
}

func (s *AuthService) linkOrCreate(ctx context.Context, profile GoogleProfile, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogle(ctx, user.ID.Hex(), profile.ID); err != nil {
			return nil, err
		}
		user.GoogleID = profile.ID
		user.IsVerified = true
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Email:      email,
		Name:       strings.TrimSpace(profile.Name),
		GoogleID:   profile.ID,
		AvatarURL:  profile.Picture,
		IsVerified: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

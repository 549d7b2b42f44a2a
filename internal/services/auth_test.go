package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/internal/repository/repotest"
	"github.com/AnshRaj112/mealmate-backend/pkg/utils"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// lastToken pulls the token query parameter out of the most recent mail.
func (m *recordingMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	body := m.sent[len(m.sent)-1].Body
	for _, field := range strings.Fields(body) {
		if u, err := url.Parse(field); err == nil && u.Query().Get("token") != "" {
			return u.Query().Get("token")
		}
	}
	t.Fatalf("no token link in %q", body)
	return ""
}

type authFixture struct {
	svc    *AuthService
	store  *repository.Store
	mailer *recordingMailer
	tokens *TokenService
	logs   *repotest.ActivityLogs
}

func newAuthFixture() *authFixture {
	cfg := testConfig()
	store := repotest.NewStore()
	mailer := &recordingMailer{}
	tokens := NewTokenService(cfg)
	logger := zap.NewNop()
	activity := NewActivityRecorder(store.ActivityLogs, logger)
	return &authFixture{
		svc:    NewAuthService(cfg, store.Users, tokens, mailer, activity, logger),
		store:  store,
		mailer: mailer,
		tokens: tokens,
		logs:   store.ActivityLogs.(*repotest.ActivityLogs),
	}
}

func TestSignUpThenSignIn(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	id, err := f.svc.SignUp(ctx, "A@Example.com", "secret1", "A", RequestMeta{})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	user, err := f.store.Users.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", user.Email)
	require.False(t, user.IsVerified)
	require.NotEqual(t, "secret1", user.Password)

	_, err = f.svc.SignIn(ctx, "a@example.com", "secret1", RequestMeta{})
	require.ErrorIs(t, err, ErrEmailNotVerified)

	require.NoError(t, f.store.Users.MarkVerified(ctx, id))

	result, err := f.svc.SignIn(ctx, "a@example.com", "secret1", RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	claims, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, id, claims.UserID)
	require.Equal(t, "A", claims.Name)
	require.Equal(t, []models.ActivityAction{models.ActionSignUp, models.ActionSignIn}, f.logs.Actions())
}

func TestSignUpDuplicateIgnoresCaseAndWhitespace(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, "dup@example.com", "secret1", "D", RequestMeta{})
	require.NoError(t, err)

	for _, email := range []string{"DUP@example.com", "  dup@Example.COM  "} {
		_, err = f.svc.SignUp(ctx, email, "secret1", "D", RequestMeta{})
		require.ErrorIs(t, err, ErrEmailTaken, email)
	}
}

func TestSignUpValidation(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	cases := []struct{ email, password, name, field string }{
		{"", "secret1", "A", "email"},
		{"a@example.com", "", "A", "password"},
		{"a@example.com", "secret1", " ", "name"},
		{"not-an-email", "secret1", "A", "email"},
		{"a@example.com", "short", "A", "password"},
	}
	for _, tc := range cases {
		_, err := f.svc.SignUp(ctx, tc.email, tc.password, tc.name, RequestMeta{})
		var verr *utils.ValidationError
		require.True(t, errors.As(err, &verr), tc)
		require.Equal(t, tc.field, verr.Field)
	}
}

func TestSignUpSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture()
	f.mailer.err = errors.New("smtp down")

	id, err := f.svc.SignUp(context.Background(), "m@example.com", "secret1", "M", RequestMeta{})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestSignInOutcomes(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignIn(ctx, "nobody@example.com", "x", RequestMeta{})
	require.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.store.Users.Create(ctx, &models.User{Email: "g@example.com", GoogleID: "g-1", IsVerified: true}))
	_, err = f.svc.SignIn(ctx, "g@example.com", "x", RequestMeta{})
	require.ErrorIs(t, err, ErrFederatedAccount)

	require.NoError(t, f.store.Users.Create(ctx, &models.User{Email: "broken@example.com", Password: "plaintext", IsVerified: true}))
	_, err = f.svc.SignIn(ctx, "broken@example.com", "plaintext", RequestMeta{})
	require.ErrorIs(t, err, ErrAccountMisconfigured)

	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)
	require.NoError(t, f.store.Users.Create(ctx, &models.User{Email: "ok@example.com", Password: hash, IsVerified: true}))
	_, err = f.svc.SignIn(ctx, "ok@example.com", "wrong1", RequestMeta{})
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = f.svc.SignIn(ctx, " OK@example.com ", "secret1", RequestMeta{})
	require.NoError(t, err)
}

func TestVerifyEmailIsNotRepeatable(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	id, err := f.svc.SignUp(ctx, "v@example.com", "secret1", "V", RequestMeta{})
	require.NoError(t, err)
	token := f.mailer.lastToken(t)

	result, err := f.svc.VerifyEmail(ctx, token, RequestMeta{})
	require.NoError(t, err)
	require.True(t, result.User.IsVerified)
	require.Equal(t, id, result.User.ID)

	for i := 0; i < 3; i++ {
		_, err = f.svc.VerifyEmail(ctx, token, RequestMeta{})
		require.ErrorIs(t, err, ErrAlreadyVerified)
	}
}

// staleUsers serves reads from before any concurrent verification landed.
type staleUsers struct {
	repository.UserRepository
}

func (s staleUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsVerified = false
	return user, nil
}

func TestVerifyEmailLosesRaceToEarlierWrite(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, "race@example.com", "secret1", "R", RequestMeta{})
	require.NoError(t, err)
	token := f.mailer.lastToken(t)

	f.svc.users = staleUsers{f.store.Users}

	_, err = f.svc.VerifyEmail(ctx, token, RequestMeta{})
	require.NoError(t, err)
	_, err = f.svc.VerifyEmail(ctx, token, RequestMeta{})
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyEmailConcurrentSubmissions(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, "many@example.com", "secret1", "M", RequestMeta{})
	require.NoError(t, err)
	token := f.mailer.lastToken(t)
	f.svc.users = staleUsers{f.store.Users}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.VerifyEmail(ctx, token, RequestMeta{})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrAlreadyVerified) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, successes)
}

func TestVerifyEmailRejectsSessionToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user := &models.User{Email: "s@example.com"}
	require.NoError(t, f.store.Users.Create(ctx, user))
	session, err := f.tokens.Issue(user, PurposeSession)
	require.NoError(t, err)

	_, err = f.svc.VerifyEmail(ctx, session, RequestMeta{})
	require.ErrorIs(t, err, ErrWrongTokenPurpose)
}

func TestResendVerificationIssuesFreshToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, "r@example.com", "secret1", "R", RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, f.svc.ResendVerification(ctx, "R@example.com", RequestMeta{}))
	require.Len(t, f.mailer.sent, 2)

	_, err = f.svc.VerifyEmail(ctx, f.mailer.lastToken(t), RequestMeta{})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.ResendVerification(ctx, "r@example.com", RequestMeta{}), ErrAlreadyVerified)
	require.ErrorIs(t, f.svc.ResendVerification(ctx, "missing@example.com", RequestMeta{}), ErrUserNotFound)
}

func TestPasswordReset(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	id, err := f.svc.SignUp(ctx, "p@example.com", "secret1", "P", RequestMeta{})
	require.NoError(t, err)
	require.NoError(t, f.store.Users.MarkVerified(ctx, id))

	require.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "unknown@example.com", RequestMeta{}), ErrUserNotFound)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "p@example.com", RequestMeta{}))
	token := f.mailer.lastToken(t)

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "newsecret", RequestMeta{}))

	_, err = f.svc.SignIn(ctx, "p@example.com", "secret1", RequestMeta{})
	require.ErrorIs(t, err, ErrInvalidPassword)
	_, err = f.svc.SignIn(ctx, "p@example.com", "newsecret", RequestMeta{})
	require.NoError(t, err)

	require.Contains(t, f.logs.Actions(), models.ActionPasswordResetRequested)
	require.Contains(t, f.logs.Actions(), models.ActionPasswordReset)
}

func TestPasswordResetMailFailure(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SignUp(ctx, "q@example.com", "secret1", "Q", RequestMeta{})
	require.NoError(t, err)

	f.mailer.err = errors.New("smtp down")
	err = f.svc.RequestPasswordReset(ctx, "q@example.com", RequestMeta{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUserNotFound)
}

func TestFederatedSignIn(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	// Existing local account gets linked.
	id, err := f.svc.SignUp(ctx, "fed@example.com", "secret1", "F", RequestMeta{})
	require.NoError(t, err)

	result, err := f.svc.FederatedSignIn(ctx, GoogleProfile{ID: "google-1", Email: "Fed@Example.com", VerifiedEmail: true}, RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, id, result.User.ID)
	require.True(t, result.User.IsVerified)

	// Second sign-in resolves by Google id.
	again, err := f.svc.FederatedSignIn(ctx, GoogleProfile{ID: "google-1", Email: "fed@example.com", VerifiedEmail: true}, RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, id, again.User.ID)

	// Unknown identity creates a passwordless account.
	fresh, err := f.svc.FederatedSignIn(ctx, GoogleProfile{ID: "google-2", Email: "new@example.com", VerifiedEmail: true, Name: "New"}, RequestMeta{})
	require.NoError(t, err)
	require.True(t, fresh.User.Federated)

	_, err = f.svc.SignIn(ctx, "new@example.com", "anything", RequestMeta{})
	require.ErrorIs(t, err, ErrFederatedAccount)

	_, err = f.svc.FederatedSignIn(ctx, GoogleProfile{ID: "google-3", Email: "x@example.com"}, RequestMeta{})
	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))
}

package accounts_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-account-service/accounts"
	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/events"
	"github.com/jrsteele09/go-account-service/mail/mailfake"
	"github.com/jrsteele09/go-account-service/token"
	"github.com/jrsteele09/go-account-service/users"
	fakeuserrepo "github.com/jrsteele09/go-account-service/users/repofake"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	users.PasswordHashCost = bcrypt.MinCost
	m.Run()
}

type recordingPublisher struct {
	lock     sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ events.Event) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) Subjects() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]string(nil), p.subjects...)
}

// countingRepo counts writes so tests can assert nothing was persisted.
type countingRepo struct {
	*fakeuserrepo.FakeUserRepo
	lock    sync.Mutex
	updates int
}

func (r *countingRepo) Update(ctx context.Context, user *users.User) error {
	r.lock.Lock()
	r.updates++
	r.lock.Unlock()
	return r.FakeUserRepo.Update(ctx, user)
}

func (r *countingRepo) Updates() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.updates
}

type testFixture struct {
	now       time.Time
	repo      *countingRepo
	issuer    *token.Issuer
	mailer    *mailfake.Recorder
	publisher *recordingPublisher
	service   *accounts.Service
}

func setupTestFixture(t *testing.T, settings accounts.Settings) *testFixture {
	t.Helper()
	f := &testFixture{
		now:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		repo:      &countingRepo{FakeUserRepo: fakeuserrepo.NewFakeUserRepo()},
		mailer:    &mailfake.Recorder{},
		publisher: &recordingPublisher{},
	}
	nowTime := func() time.Time { return f.now }

	signer, err := token.NewHMACSigner("test-secret")
	require.NoError(t, err)
	f.issuer, err = token.NewIssuer(signer, token.WithNowTime(nowTime))
	require.NoError(t, err)

	if settings.BaseURL == "" {
		settings.BaseURL = "http://localhost:3000"
	}
	f.service, err = accounts.NewService(f.repo, f.issuer, settings,
		accounts.WithNowTime(nowTime),
		accounts.WithMailer(f.mailer),
		accounts.WithPublisher(f.publisher),
	)
	require.NoError(t, err)
	return f
}

func (f *testFixture) register(t *testing.T, email string) *accounts.Session {
	t.Helper()
	session, err := f.service.Register(context.Background(), accounts.RegisterInput{
		Name:            "Ann",
		Email:           email,
		Password:        "pw123456",
		ConfirmPassword: "pw123456",
	})
	require.NoError(t, err)
	return session
}

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %v", err)
	require.Equal(t, status, appErr.Status)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := accounts.NewService(nil, nil, accounts.Settings{})
	require.Error(t, err)

	_, err = accounts.NewService(fakeuserrepo.NewFakeUserRepo(), nil, accounts.Settings{})
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})
	session := f.register(t, "ann@example.com")

	require.NotEmpty(t, session.Identity.UserID)
	require.Equal(t, "Ann", session.Identity.Name)
	require.Equal(t, "ann@example.com", session.Identity.Email)

	claims, err := f.issuer.Verify(session.Token)
	require.NoError(t, err)
	require.Equal(t, session.Identity.UserID, claims.UserID)

	stored, err := f.repo.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "pw123456", stored.PasswordHash)
	require.True(t, stored.Verified, "verification disabled creates verified accounts")
	require.Empty(t, f.mailer.Messages())
	require.Equal(t, []string{events.SubjectUserRegistered}, f.publisher.Subjects())
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      accounts.RegisterInput
		status  int
		message string
	}{
		{"missing fields", accounts.RegisterInput{Name: "Ann", Email: "ann@example.com"}, 400, accounts.MsgMissingFields},
		{"invalid email", accounts.RegisterInput{Name: "Ann", Email: "not-an-email", Password: "pw123456", ConfirmPassword: "pw123456"}, 422, accounts.MsgInvalidEmail},
		{"short password", accounts.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw1", ConfirmPassword: "pw1"}, 400, users.ErrPasswordTooShort.Error()},
		{"mismatch", accounts.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw123456", ConfirmPassword: "pw654321"}, 400, accounts.MsgPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, accounts.Settings{})
			_, err := f.service.Register(context.Background(), tt.in)
			requireAppError(t, err, tt.status, tt.message)
			require.Equal(t, 0, f.repo.Len())
		})
	}
}

func TestRegisterPasswordOverBcryptLimit(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})
	password := strings.Repeat("a", 80)

	_, err := f.service.Register(context.Background(), accounts.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: password, ConfirmPassword: password,
	})
	requireAppError(t, err, 400, users.ErrPasswordTooLong.Error())
	require.Zero(t, f.repo.Len())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})
	f.register(t, "ann@example.com")

	_, err := f.service.Register(context.Background(), accounts.RegisterInput{
		Name: "Other", Email: "ann@example.com", Password: "another1", ConfirmPassword: "another1",
	})
	requireAppError(t, err, 409, accounts.MsgEmailTaken)
	require.Equal(t, 1, f.repo.Len())
}

func TestRegisterEntropyFloor(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{MinPasswordEntropy: 60})
	_, err := f.service.Register(context.Background(), accounts.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "aaaaaaaa", ConfirmPassword: "aaaaaaaa",
	})
	requireAppError(t, err, 400, "")
	require.Contains(t, err.Error(), "Password is too weak")
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Register(context.Background(), accounts.RegisterInput{
				Name: "Ann", Email: "race@example.com", Password: "pw123456", ConfirmPassword: "pw123456",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		requireAppError(t, err, 409, accounts.MsgEmailTaken)
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, f.repo.Len())
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})
	registered := f.register(t, "ann@example.com")

	session, err := f.service.Login(context.Background(), accounts.LoginInput{Email: "ann@example.com", Password: "pw123456"})
	require.NoError(t, err)
	require.Equal(t, registered.Identity, session.Identity)
	require.NotEmpty(t, session.Token)
}

func TestLoginFailures(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})
	f.register(t, "ann@example.com")

	tests := []struct {
		name    string
		in      accounts.LoginInput
		status  int
		message string
	}{
		{"missing password", accounts.LoginInput{Email: "ann@example.com"}, 400, accounts.MsgMissingFields},
		{"invalid email", accounts.LoginInput{Email: "ann", Password: "pw123456"}, 422, accounts.MsgInvalidEmail},
		{"unknown email", accounts.LoginInput{Email: "bob@example.com", Password: "pw123456"}, 401, accounts.MsgInvalidCredentials},
		{"wrong password", accounts.LoginInput{Email: "ann@example.com", Password: "wrong-password"}, 401, accounts.MsgInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), tt.in)
			requireAppError(t, err, tt.status, tt.message)
		})
	}
}

func TestUnverifiedLoginRejected(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true, AppName: "Accounts"})
	f.register(t, "ann@example.com")

	_, err := f.service.Login(context.Background(), accounts.LoginInput{Email: "ann@example.com", Password: "pw123456"})
	requireAppError(t, err, 401, accounts.MsgEmailNotVerified)
	require.ErrorIs(t, err, apperrors.ErrUserNotVerified)
}

func TestVerifyEmailFlow(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true, AppName: "Accounts"})
	f.register(t, "ann@example.com")

	msg, ok := f.mailer.Last()
	require.True(t, ok)
	require.Equal(t, "ann@example.com", msg.To)

	stored, err := f.repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.False(t, stored.Verified)
	require.NotEmpty(t, stored.VerificationToken)
	require.Contains(t, msg.Text, "http://localhost:3000/users/verify/"+stored.VerificationToken)

	require.NoError(t, f.service.VerifyEmail(ctx, stored.VerificationToken))

	// tokens are single use
	err = f.service.VerifyEmail(ctx, stored.VerificationToken)
	requireAppError(t, err, 400, accounts.MsgInvalidVerification)

	_, err = f.service.Login(ctx, accounts.LoginInput{Email: "ann@example.com", Password: "pw123456"})
	require.NoError(t, err)
	require.Contains(t, f.publisher.Subjects(), events.SubjectUserVerified)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true})
	requireAppError(t, f.service.VerifyEmail(context.Background(), "nope"), 400, accounts.MsgInvalidVerification)
	requireAppError(t, f.service.VerifyEmail(context.Background(), ""), 400, accounts.MsgInvalidVerification)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true, VerificationTokenTTL: 24 * time.Hour})
	f.register(t, "ann@example.com")
	stored, err := f.repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)

	f.now = f.now.Add(48 * time.Hour)
	requireAppError(t, f.service.VerifyEmail(ctx, stored.VerificationToken), 400, accounts.MsgInvalidVerification)
}

func TestMailFailureDoesNotFailRegistration(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true})
	f.mailer.Err = errors.New("smtp down")

	session := f.register(t, "ann@example.com")
	require.NotEmpty(t, session.Token)
	require.Len(t, f.mailer.Messages(), 1)
}

func TestResendVerification(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true})
	f.register(t, "ann@example.com")
	before, err := f.repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, f.service.ResendVerification(ctx, accounts.ResendVerificationInput{Email: "ann@example.com"}))
	after, err := f.repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotEqual(t, before.VerificationToken, after.VerificationToken)
	require.Len(t, f.mailer.Messages(), 2)

	requireAppError(t, f.service.VerifyEmail(ctx, before.VerificationToken), 400, accounts.MsgInvalidVerification)
	require.NoError(t, f.service.VerifyEmail(ctx, after.VerificationToken))

	// verified and unknown accounts are answered the same way without mail
	require.NoError(t, f.service.ResendVerification(ctx, accounts.ResendVerificationInput{Email: "ann@example.com"}))
	require.NoError(t, f.service.ResendVerification(ctx, accounts.ResendVerificationInput{Email: "bob@example.com"}))
	require.Len(t, f.mailer.Messages(), 2)

	requireAppError(t, f.service.ResendVerification(ctx, accounts.ResendVerificationInput{}), 400, accounts.MsgMissingFields)
}

func TestProfile(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{})
	session := f.register(t, "ann@example.com")

	identity, err := f.service.Profile(context.Background(), session.Identity.UserID)
	require.NoError(t, err)
	require.Equal(t, session.Identity, *identity)

	_, err = f.service.Profile(context.Background(), "missing")
	requireAppError(t, err, 404, accounts.MsgUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, accounts.Settings{})
	session := f.register(t, "ann@example.com")
	f.register(t, "bob@example.com")
	userID := session.Identity.UserID

	t.Run("nothing to update", func(t *testing.T) {
		_, err := f.service.UpdateProfile(ctx, userID, accounts.UpdateProfileInput{})
		requireAppError(t, err, 400, accounts.MsgNothingToUpdate)
	})
	t.Run("same name is rejected without persisting", func(t *testing.T) {
		before := f.repo.Updates()
		_, err := f.service.UpdateProfile(ctx, userID, accounts.UpdateProfileInput{Name: "Ann"})
		requireAppError(t, err, 400, accounts.MsgSameName)
		require.Equal(t, before, f.repo.Updates())
	})
	t.Run("same email is rejected without persisting", func(t *testing.T) {
		before := f.repo.Updates()
		_, err := f.service.UpdateProfile(ctx, userID, accounts.UpdateProfileInput{Email: "ann@example.com"})
		requireAppError(t, err, 400, accounts.MsgSameEmail)
		require.Equal(t, before, f.repo.Updates())
	})
	t.Run("invalid email is rejected without persisting", func(t *testing.T) {
		before := f.repo.Updates()
		_, err := f.service.UpdateProfile(ctx, userID, accounts.UpdateProfileInput{Name: "Annie", Email: "bad"})
		requireAppError(t, err, 422, accounts.MsgInvalidEmail)
		require.Equal(t, before, f.repo.Updates())

		stored, err := f.repo.GetByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "Ann", stored.Name)
	})
	t.Run("email taken by another account", func(t *testing.T) {
		_, err := f.service.UpdateProfile(ctx, userID, accounts.UpdateProfileInput{Email: "bob@example.com"})
		requireAppError(t, err, 409, accounts.MsgEmailTaken)
	})
	t.Run("missing user", func(t *testing.T) {
		_, err := f.service.UpdateProfile(ctx, "missing", accounts.UpdateProfileInput{Name: "X"})
		requireAppError(t, err, 404, accounts.MsgUserNotFound)
	})
	t.Run("updates name and email", func(t *testing.T) {
		identity, err := f.service.UpdateProfile(ctx, userID, accounts.UpdateProfileInput{Name: "Annie", Email: "annie@example.com"})
		require.NoError(t, err)
		require.Equal(t, accounts.Identity{UserID: userID, Name: "Annie", Email: "annie@example.com"}, *identity)

		_, err = f.service.Login(ctx, accounts.LoginInput{Email: "annie@example.com", Password: "pw123456"})
		require.NoError(t, err)
	})
}

func TestChangePasswordPrecedence(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, accounts.Settings{})
	userID := f.register(t, "ann@example.com").Identity.UserID

	tests := []struct {
		name    string
		in      accounts.ChangePasswordInput
		status  int
		message string
	}{
		{"missing fields", accounts.ChangePasswordInput{OldPassword: "pw123456"}, 400, accounts.MsgMissingFields},
		{"wrong old password wins", accounts.ChangePasswordInput{OldPassword: "wrong-old", NewPassword: "x", ConfirmPassword: "y"}, 401, accounts.MsgOldPasswordIncorrect},
		{"same as old before length", accounts.ChangePasswordInput{OldPassword: "pw123456", NewPassword: "pw123456", ConfirmPassword: "other"}, 400, accounts.MsgSamePassword},
		{"length before mismatch", accounts.ChangePasswordInput{OldPassword: "pw123456", NewPassword: "short", ConfirmPassword: "other"}, 400, users.ErrPasswordTooShort.Error()},
		{"over bcrypt limit", accounts.ChangePasswordInput{OldPassword: "pw123456", NewPassword: strings.Repeat("a", 80), ConfirmPassword: strings.Repeat("a", 80)}, 400, users.ErrPasswordTooLong.Error()},
		{"mismatch", accounts.ChangePasswordInput{OldPassword: "pw123456", NewPassword: "newpass99", ConfirmPassword: "newpass98"}, 400, accounts.MsgNewPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireAppError(t, f.service.ChangePassword(ctx, userID, tt.in), tt.status, tt.message)
		})
	}

	requireAppError(t, f.service.ChangePassword(ctx, "missing", accounts.ChangePasswordInput{
		OldPassword: "pw123456", NewPassword: "newpass99", ConfirmPassword: "newpass99",
	}), 404, accounts.MsgUserNotFound)

	require.NoError(t, f.service.ChangePassword(ctx, userID, accounts.ChangePasswordInput{
		OldPassword: "pw123456", NewPassword: "newpass99", ConfirmPassword: "newpass99",
	}))
	_, err := f.service.Login(ctx, accounts.LoginInput{Email: "ann@example.com", Password: "pw123456"})
	requireAppError(t, err, 401, accounts.MsgInvalidCredentials)
	_, err = f.service.Login(ctx, accounts.LoginInput{Email: "ann@example.com", Password: "newpass99"})
	require.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, accounts.Settings{})
	userID := f.register(t, "ann@example.com").Identity.UserID

	require.NoError(t, f.service.DeleteAccount(ctx, userID))
	requireAppError(t, f.service.DeleteAccount(ctx, userID), 404, accounts.MsgUserNotFound)

	_, err := f.service.Profile(ctx, userID)
	requireAppError(t, err, 404, accounts.MsgUserNotFound)
	require.Contains(t, f.publisher.Subjects(), events.SubjectUserDeleted)

	// the email can be registered again
	f.register(t, "ann@example.com")
}

func TestVerificationMailUsesUnescapedName(t *testing.T) {
	f := setupTestFixture(t, accounts.Settings{RequireEmailVerification: true})
	in := accounts.RegisterInput{Name: "O'Brien", Email: "ob@example.com", Password: "pw123456", ConfirmPassword: "pw123456"}
	in.Sanitize()

	_, err := f.service.Register(context.Background(), in)
	require.NoError(t, err)

	msg, ok := f.mailer.Last()
	require.True(t, ok)
	require.Contains(t, msg.Text, "Hi O'Brien,")
	require.Contains(t, msg.HTML, "Hi O&#39;Brien,")
	require.NotContains(t, msg.HTML, "&amp;")
}

func TestSanitizeInputs(t *testing.T) {
	in := accounts.RegisterInput{Name: " <b>Ann</b>\x00 ", Email: " ann@example.com\n", Password: " keep spaces "}
	in.Sanitize()
	require.Equal(t, "&lt;b&gt;Ann&lt;/b&gt;", in.Name)
	require.Equal(t, "ann@example.com", in.Email)
	require.Equal(t, " keep spaces ", in.Password)
	require.False(t, strings.ContainsRune(in.Name, 0))
}

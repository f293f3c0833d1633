// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/internal/users/auth"
	"github.com/inkpress-io/inkpress/pkg/uuid"
)

// # Test Doubles

type fakeUserRepository struct {
	users map[string]*auth.User // keyed by email
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = newHash
			return nil
		}
	}
	return apperr.NotFound("User")
}

type fakeSessionRepository struct {
	sessions map[string]*auth.Session // keyed by token hash
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (r *fakeSessionRepository) Create(_ context.Context, session *auth.Session) error {
	r.sessions[session.TokenHash] = session
	return nil
}

func (r *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	s, ok := r.sessions[tokenHash]
	if !ok || s.IsRevoked || s.ExpiresAt.Before(time.Now()) {
		return nil, apperr.NotFound("Session")
	}
	return s, nil
}

func (r *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	for _, s := range r.sessions {
		if s.ID == sessionID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, s := range r.sessions {
		if s.UserID == userID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	return "signed." + userID + "." + role, nil
}

type recordedEvent struct {
	eventType string
	actorID   string
}

type fakeAuditor struct {
	events []recordedEvent
}

func (a *fakeAuditor) Emit(eventType, _, actorID string) {
	a.events = append(a.events, recordedEvent{eventType: eventType, actorID: actorID})
}

// # Fixtures

type serviceFixture struct {
	service  *auth.Service
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	throttle *auth.MemoryThrottle
	auditor  *fakeAuditor
	clock    *fakeClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	clock := newFakeClock()
	fixture := &serviceFixture{
		users:    newFakeUserRepository(),
		sessions: newFakeSessionRepository(),
		throttle: auth.NewMemoryThrottleWith(5, 15*time.Minute, clock.Now),
		auditor:  &fakeAuditor{},
		clock:    clock,
	}

	// Minimum bcrypt cost keeps the suite fast without changing semantics.
	fixture.service = auth.NewService(
		fixture.users,
		fixture.sessions,
		fixture.throttle,
		fakeTokenProvider{},
		fixture.auditor,
		4,
	)

	return fixture
}

// seedUser registers an active account directly in the fake repository.
func (f *serviceFixture) seedUser(t *testing.T, email, password string, active bool) *auth.User {
	t.Helper()

	hash, err := sec.HashPasswordCost(password, 4)
	require.NoError(t, err)

	user := &auth.User{
		ID:           uuid.New(),
		Username:     "writer",
		Email:        email,
		PasswordHash: hash,
		Role:         sec.RoleUser,
		IsActive:     active,
	}
	f.users.users[email] = user
	return user
}

// # Registration

func TestService_Register_HashesAndPersists(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: "new_writer",
		Email:    "New@Example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	assert.Equal(t, "new_writer", user.Username)
	assert.Equal(t, "new@example.com", user.Email, "email must be normalized on enrollment")
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	assert.NotEqual(t, "Sunrise42over", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("Sunrise42over", user.PasswordHash))

	require.Len(t, fixture.auditor.events, 1)
	assert.Equal(t, "user_register", fixture.auditor.events[0].eventType)
}

func TestService_Register_RejectsTakenIdentity(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "taken@example.com", "Sunrise42over", true)

	_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Username: "someone_else",
		Email:    "taken@example.com",
		Password: "Sunrise42over",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFLICT", appError.Code)
	assert.Equal(t, "Username or email already exists", appError.Message)
}

// # Login

func TestService_Login_Succeeds(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	session, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, user.ID, session.User.ID)

	require.Len(t, fixture.auditor.events, 1)
	assert.Equal(t, "user_login", fixture.auditor.events[0].eventType)
	assert.Equal(t, user.ID, fixture.auditor.events[0].actorID)
}

func TestService_Login_IdenticalMessageForUnknownAndWrongPassword(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	_, unknownErr := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "Sunrise42over",
	})
	_, wrongErr := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "WrongPass99",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error(),
		"unknown-account and wrong-password responses must be indistinguishable")
	assert.Equal(t, "Invalid email or password", wrongErr.Error())
}

func TestService_Login_LocksAfterFiveFailures(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	for i := 0; i < 5; i++ {
		_, err := fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "alice@example.com",
			Password: "WrongPass99",
		})
		require.Error(t, err)
	}

	// Even the correct password is refused while locked.
	_, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "LOCKED_OUT", appError.Code)
	assert.Equal(t, 900, appError.RetryAfter)
}

func TestService_Login_LockExpiresAfterWindow(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	for i := 0; i < 5; i++ {
		_, _ = fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "alice@example.com",
			Password: "WrongPass99",
		})
	}

	fixture.clock.Advance(15*time.Minute + time.Second)

	session, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err, "expired lockout must allow a correct login")
	assert.NotEmpty(t, session.AccessToken)
}

func TestService_Login_SuccessResetsFailureCount(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	for i := 0; i < 4; i++ {
		_, _ = fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "alice@example.com",
			Password: "WrongPass99",
		})
	}

	_, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	// The reset means four fresh failures still do not lock.
	for i := 0; i < 4; i++ {
		_, _ = fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "alice@example.com",
			Password: "WrongPass99",
		})
	}

	locked, _, err := fixture.throttle.IsLocked(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestService_Login_DisabledAccountDistinctAndNotThrottled(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "gone@example.com", "Sunrise42over", false)

	for i := 0; i < 6; i++ {
		_, err := fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "gone@example.com",
			Password: "Sunrise42over",
		})
		require.Error(t, err)
		assert.Equal(t, "Your account has been disabled", err.Error())
	}

	// Disabled-account refusals are not credential guesses.
	locked, _, err := fixture.throttle.IsLocked(context.Background(), "gone@example.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestService_Login_NormalizesIdentifier(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	// Case variants of one email share the same throttle record.
	variants := []string{"Alice@Example.com", "ALICE@EXAMPLE.COM", " alice@example.com ", "alice@example.com", "Alice@example.COM"}
	for _, email := range variants {
		_, err := fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    email,
			Password: "WrongPass99",
		})
		require.Error(t, err)
	}

	locked, _, err := fixture.throttle.IsLocked(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, locked, "five failures across case variants must lock the canonical identifier")
}

// # Sessions

func TestService_Logout_IsIdempotent(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	session, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, fixture.service.Logout(context.Background(), session.RefreshToken),
		"second logout with the same token must succeed silently")
	require.NoError(t, fixture.service.Logout(context.Background(), "never-issued"),
		"logout with an unknown token must succeed silently")
}

func TestService_RefreshSession_RotatesToken(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	first, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	second, err := fixture.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replaying the consumed token must fail.
	_, err = fixture.service.RefreshSession(context.Background(), first.RefreshToken, "ua", "ip")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

func TestService_RefreshSession_RejectsDeactivatedUser(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	session, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	// Deactivation after login takes effect at the next rotation.
	user.IsActive = false

	_, err = fixture.service.RefreshSession(context.Background(), session.RefreshToken, "ua", "ip")
	require.Error(t, err)
	assert.Equal(t, "Your account has been disabled", err.Error())
}

// # Password Change

func TestService_ChangePassword_VerifiesCurrentAndRevokesSessions(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.seedUser(t, "alice@example.com", "Sunrise42over", true)

	session, err := fixture.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Sunrise42over",
	})
	require.NoError(t, err)

	err = fixture.service.ChangePassword(context.Background(), user.ID, "WrongPass99", "NextSunrise7")
	require.Error(t, err, "wrong current password must be refused")

	err = fixture.service.ChangePassword(context.Background(), user.ID, "Sunrise42over", "NextSunrise7")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("NextSunrise7", user.PasswordHash))

	// All sessions revoked: the old refresh token is dead.
	_, err = fixture.service.RefreshSession(context.Background(), session.RefreshToken, "ua", "ip")
	require.Error(t, err)
}

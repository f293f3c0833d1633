// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkpress-io/inkpress/internal/audit"
	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Auditor is the write-only contract to the audit trail. Emission is
// fire-and-forget; implementations must never block or fail the caller.
type Auditor interface {
	Emit(eventType, message, actorID string)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, throttling,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	throttle          LoginThrottle
	tokenProvider     TokenProvider
	auditor           Auditor
	bcryptCost        int
}

// NewService constructs a new authentication [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	throttle LoginThrottle,
	tokenProv TokenProvider,
	auditor Auditor,
	bcryptCost int,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		throttle:          throttle,
		tokenProvider:     tokenProv,
		auditor:           auditor,
		bcryptCost:        bcryptCost,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. The password arrives already
policy-checked by the transport layer; this method owns uniqueness, hashing,
and persistence.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)

	// Probe for an existing identity. One combined message so the response
	// does not reveal which of the two fields collided.
	taken, err := service.userRepository.ExistsByUsernameOrEmail(context, username, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_identity_probe_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict(msgIdentityTaken)
	}

	// Prevent storing plain-text passwords. Cost comes from configuration so
	// operators can raise it as hardware improves.
	hashedPassword, err := sec.HashPasswordCost(input.Password, service.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsActive:     true,
	}

	// Persist the user to the database. A racing registration can still trip
	// the unique index; surface it with the same combined message.
	if err := service.userRepository.Create(context, user); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "CONFLICT" {
			return nil, apperr.Conflict(msgIdentityTaken)
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.auditor.Emit(audit.EventUserRegister, "New account registered: "+user.Username, user.ID)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Checks the login throttle first, verifies identity with a
constant-time password comparison, and initializes a new session with rotated
security tokens.

# Throttle Ordering

The lockout check runs before any credential work, so a locked identifier is
rejected even when the submitted password is correct. Failed lookups and
failed password checks both count against the identifier; a correct login
resets it. An attempt against a locked identifier does not extend the window.

# Enumeration Safety

"No such account" and "wrong password" produce the byte-identical message, so
responses never reveal which emails are registered.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized, LockedOut, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	identifier := normalizeEmail(input.Email)

	// Gate on the throttle before touching credentials.
	locked, retryAfter, err := service.throttle.IsLocked(context, identifier)
	if err != nil {
		return nil, fmt.Errorf("auth_service_throttle_check_failed: %w", err)
	}
	if locked {
		return nil, apperr.LockedOut(retryAfter)
	}

	// Look up the account. A miss counts as a failed attempt.
	user, err := service.userRepository.FindByEmail(context, identifier)
	if err != nil {
		service.recordFailure(context, identifier)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	// A deactivated account is a distinct, non-secret state: the caller
	// already proved they know a registered email, and the failure is not
	// a credential guess, so it does not count against the throttle.
	if !user.IsActive {
		return nil, apperr.Unauthorized(msgAccountDisabled)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, identifier)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	// Successful authentication clears the identifier's attempt record.
	if err := service.throttle.Reset(context, identifier); err != nil {
		return nil, fmt.Errorf("auth_service_throttle_reset_failed: %w", err)
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	service.auditor.Emit(audit.EventUserLogin, "User logged in from "+input.IPAddress, user.ID)

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

/*
Logout permanently revokes the user's active session.

Description: Ensures that a tracked refresh token can never be used again.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// Find the session by token hash
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) session is already gone or invalid, we consider logout successful (idempotent operation).
	if err != nil {
		return nil
	}

	// If (err == nil) Revoke the session
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.auditor.Emit(audit.EventUserLogout, "User logged out", session.UserID)

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens. The
account's IsActive flag is re-checked so deactivation takes effect at the
next rotation even for sessions created before it.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized(msgAccountDisabled)
	}

	// Generate a fresh Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	// Generate a fresh Refresh Token for the rotation
	newRefreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_secure_token_failed: %w", err)
	}

	// Persist the new session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	newSession := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(newRefreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, newSession); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Password Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password, rotates the hash, and revokes
every active session to force re-login on all devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPasswordCost(newPassword, service.bcryptCost)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all sessions to force re-login everywhere
	_ = service.sessionRepository.RevokeAll(context, userID)

	return nil
}

// # Helpers

// recordFailure increments the throttle counter for a failed attempt.
// Best-effort: a throttle write fault must not change the client-facing
// outcome, which is already a generic Unauthorized.
func (service *Service) recordFailure(context context.Context, identifier string) {
	_ = service.throttle.RecordFailure(context, identifier)
}

// normalizeEmail canonicalizes an email for lookups and throttle keys, so
// "User@Example.com " and "user@example.com" count as one identifier.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

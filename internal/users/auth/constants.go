// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32
)

// # Client-Safe Messages

const (
	// msgInvalidCredentials is returned for both "no such account" and
	// "wrong password". Identical wording prevents account enumeration.
	msgInvalidCredentials = "Invalid email or password"

	// msgAccountDisabled is returned when credentials match a deactivated account.
	msgAccountDisabled = "Your account has been disabled"

	// msgIdentityTaken is returned when registration collides with an
	// existing username or email.
	msgIdentityTaken = "Username or email already exists"
)

// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the bcrypt work factor used when no explicit cost is
// configured. Cost 12 keeps single-hash latency around 250ms on commodity
// hardware, which is acceptable for login and punishing for offline cracking.
const DefaultBcryptCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm
// at [DefaultBcryptCost].
func HashPassword(plainTextPassword string) (string, error) {
	return HashPasswordCost(plainTextPassword, DefaultBcryptCost)
}

// HashPasswordCost hashes a plain-text password with an explicit cost factor.
// Costs outside bcrypt's supported range fall back to [DefaultBcryptCost].
func HashPasswordCost(plainTextPassword string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// bcrypt performs the comparison in constant time, so this never becomes a
// timing oracle. The raw password is never logged or echoed.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

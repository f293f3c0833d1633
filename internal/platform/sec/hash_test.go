// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress-io/inkpress/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies a hash produced here validates against
the original password and nothing else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPasswordCost("Sunrise42over", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "Sunrise42over", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "must be a bcrypt hash")

	assert.True(t, sec.CheckPasswordHash("Sunrise42over", hash))

	// A single changed character must fail verification.
	assert.False(t, sec.CheckPasswordHash("Sunrise42ovEr", hash))
	assert.False(t, sec.CheckPasswordHash("sunrise42over", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_UniqueSalts verifies two hashes of the same password differ.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPasswordCost("Sunrise42over", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := sec.HashPasswordCost("Sunrise42over", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salted hashes must never repeat")
}

/*
TestHashPasswordCost_ClampsInvalidCost verifies out-of-range cost factors
fall back to the platform default rather than failing.
*/
func TestHashPasswordCost_ClampsInvalidCost(t *testing.T) {
	hash, err := sec.HashPasswordCost("Sunrise42over", -1)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, sec.DefaultBcryptCost, cost)
}

/*
TestCheckPasswordHash_RejectsGarbage verifies malformed stored hashes fail
closed instead of panicking.
*/
func TestCheckPasswordHash_RejectsGarbage(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("Sunrise42over", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("Sunrise42over", ""))
}

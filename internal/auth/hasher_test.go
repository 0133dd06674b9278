package auth

import (
	"strings"
	"testing"

	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	var h BcryptHasher

	hash, err := h.Hash("Passw0rd", HashCost)
	require.NoError(t, err)
	require.NotEqual(t, "Passw0rd", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 12, cost)

	require.NoError(t, h.Compare(hash, "Passw0rd"))
	require.ErrorIs(t, h.Compare(hash, "NewPass1"), ErrMismatchedPassword)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	err := BcryptHasher{}.Compare("not-a-hash", "Passw0rd")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatchedPassword)
}

func TestCheckPasswordLength(t *testing.T) {
	require.NoError(t, CheckPasswordLength(strings.Repeat("a", MaxPasswordBytes)))

	err := CheckPasswordLength(strings.Repeat("a", MaxPasswordBytes+1))
	require.ErrorIs(t, err, common.ErrorValidation)

	// The limit counts bytes, not runes.
	require.ErrorIs(t, CheckPasswordLength(strings.Repeat("é", 37)), common.ErrorValidation)
}

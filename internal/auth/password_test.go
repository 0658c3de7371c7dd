package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	svc := NewPasswordServiceForTest(bcrypt.MinCost)

	hash, err := svc.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, svc.Verify(hash, "hunter22"))
	assert.Error(t, svc.Verify(hash, "hunter23"))
}

func TestPasswordHashIsSalted(t *testing.T) {
	svc := NewPasswordServiceForTest(bcrypt.MinCost)

	first, err := svc.Hash("hunter22")
	require.NoError(t, err)
	second, err := svc.Hash("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHashRejectsOverlong(t *testing.T) {
	svc := NewPasswordServiceForTest(bcrypt.MinCost)

	_, err := svc.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)

	_, err = svc.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestPasswordVerifyRejectsMalformedHash(t *testing.T) {
	svc := NewPasswordServiceForTest(bcrypt.MinCost)

	assert.Error(t, svc.Verify("not-a-bcrypt-hash", "hunter22"))
}

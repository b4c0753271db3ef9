package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 60, 7)
	userID := uuid.New()
	companyID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "jane@example.com", "admin", &companyID)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.CompanyID)
	assert.Equal(t, companyID, *claims.CompanyID)
}

func TestRefreshTokenHasNoCompany(t *testing.T) {
	m := NewManager("test-secret", 60, 7)

	token, err := m.GenerateRefreshToken(uuid.New(), "jane@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.CompanyID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 60, 7).GenerateAccessToken(uuid.New(), "x@example.com", "employee", nil)
	require.NoError(t, err)

	_, err = NewManager("secret-b", 60, 7).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -1, 7)
	token, err := m.GenerateAccessToken(uuid.New(), "x@example.com", "employee", nil)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewManager("test-secret", 60, 7).ValidateToken("not-a-token")
	assert.Error(t, err)
}

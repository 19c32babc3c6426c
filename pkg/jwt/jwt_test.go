package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secreto", "u-1", "org-1", RoleChef, "costeo-api", 5)
	require.NoError(t, err)

	userID, orgID, role, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "org-1", orgID)
	assert.Equal(t, RoleChef, role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secreto", "u-1", "org-1", RoleAdmin, "costeo-api", 5)
	require.NoError(t, err)

	_, _, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secreto", "u-1", "org-1", RoleAdmin, "costeo-api", -1)
	require.NoError(t, err)

	_, _, _, err = Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u", "o", RoleViewer, "i", 5)
	assert.Error(t, err)
	_, _, _, err = Parse("", "x")
	assert.Error(t, err)
}

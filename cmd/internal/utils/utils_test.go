package utils

import (
	"portalmunicipal/cmd/internal/domain/entity"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	require.NoError(t, InitHMAC(testSecret))
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("numeric user id", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": 42, "role": "EDITOR", "exp": exp}, testSecret)
		data, err := ValidateToken("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), data.UserID)
		assert.Equal(t, entity.RoleEditor, data.Role)
		assert.Equal(t, exp, data.Exp)
	})

	t.Run("string user id", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": "7", "role": "admin", "exp": exp}, testSecret)
		data, err := ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), data.UserID)
		assert.Equal(t, entity.RoleAdmin, data.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": 1, "role": "ROOT", "exp": exp}, testSecret)
		_, err := ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": 1, "role": "ADMIN", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret)
		_, err := ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing exp", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": 1, "role": "ADMIN"}, testSecret)
		_, err := ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"userId": 1, "role": "ADMIN", "exp": exp}, "other")
		_, err := ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateToken("Bearer ")
		assert.Error(t, err)
	})
}

func TestIsCNPJValid(t *testing.T) {
	assert.True(t, IsCNPJValid("11.222.333/0001-81"))
	assert.True(t, IsCNPJValid("11222333000181"))
	assert.False(t, IsCNPJValid("11222333000180"))
	assert.False(t, IsCNPJValid("00000000000000"))
	assert.False(t, IsCNPJValid("123"))
}

func TestSanitize(t *testing.T) {
	name := "  nome  "
	req := struct {
		Title string
		Name  *string
		Tags  []string
		Count int
	}{Title: " a ", Name: &name, Tags: []string{" x", "y "}, Count: 3}

	Sanitize(&req)
	assert.Equal(t, "a", req.Title)
	assert.Equal(t, "nome", *req.Name)
	assert.Equal(t, []string{"x", "y"}, req.Tags)
}

func TestCheckFileExt(t *testing.T) {
	ext, ok := CheckFileExt("Edital.PDF", []string{"pdf"})
	assert.True(t, ok)
	assert.Equal(t, "pdf", ext)

	_, ok = CheckFileExt("script.exe", []string{"pdf"})
	assert.False(t, ok)

	_, ok = CheckFileExt("noext", []string{"pdf"})
	assert.False(t, ok)
}

package utils

import (
	"errors"
	"fmt"
	"portalmunicipal/cmd/internal/domain/entity"
	"strconv"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var (
	keyMu        sync.RWMutex
	tokenKeyFunc jwt.Keyfunc
	validMethods []string
)

// InitHMAC validates tokens signed with a shared secret (HS256/384/512).
func InitHMAC(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("jwt secret is empty")
	}

	key := []byte(secret)
	setKeyFunc(func(*jwt.Token) (any, error) {
		return key, nil
	}, []string{"HS256", "HS384", "HS512"})
	return nil
}

// InitJWKS validates tokens against the public keys published at jwksURL.
func InitJWKS(jwksURL string) error {
	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	setKeyFunc(jwks.Keyfunc, []string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512", "EdDSA"})
	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return nil
}

func setKeyFunc(fn jwt.Keyfunc, methods []string) {
	keyMu.Lock()
	defer keyMu.Unlock()
	tokenKeyFunc = fn
	validMethods = methods
}

type TokenData struct {
	UserID int64
	Role   entity.Role
	Exp    int64
}

// ValidateToken parses AND validates the signature locally.
// It returns the data if the token is authentic, unexpired and carries a known role.
func ValidateToken(tokenString string) (*TokenData, error) {
	keyMu.RLock()
	fn, methods := tokenKeyFunc, validMethods
	keyMu.RUnlock()

	if fn == nil {
		return nil, errors.New("token validation not initialized")
	}

	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, errors.New("missing token")
	}

	token, err := jwt.Parse(clean, fn, jwt.WithValidMethods(methods), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	userID, ok := getID(claims, "userId")
	if !ok || userID <= 0 {
		return nil, errors.New("token has no valid userId claim")
	}

	role, ok := entity.ParseRole(getValue(claims, "role"))
	if !ok {
		return nil, errors.New("token has no valid role claim")
	}

	return &TokenData{
		UserID: userID,
		Role:   role,
		Exp:    getInt64(claims, "exp"),
	}, nil
}

func ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return ValidateToken(token)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

// getID accepts numeric ids and numeric strings, issuers disagree on this.
func getID(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), v == float64(int64(v))
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	}
	return 0, false
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}

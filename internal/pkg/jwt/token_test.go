package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() models.JWTConfig {
	return models.JWTConfig{
		Secret: "test-secret-key-for-jwt-signing",
		Issuer: "intranet",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := getTestConfig()

	tokenString, expiresAt, err := GenerateToken("intranet-web", cfg, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	claims, err := ValidateToken(tokenString, cfg)

	require.NoError(t, err)
	assert.Equal(t, "intranet-web", claims.Service)
	assert.Equal(t, "intranet", claims.Issuer)
}

func TestValidateToken_Rejections(t *testing.T) {
	cfg := getTestConfig()

	sign := func(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-token" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("other"), Claims{Service: "web", RegisteredClaims: valid()})
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				rc := valid()
				rc.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return sign(t, jwt.SigningMethodHS256, []byte(cfg.Secret), Claims{Service: "web", RegisteredClaims: rc})
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				rc := valid()
				rc.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte(cfg.Secret), Claims{Service: "web", RegisteredClaims: rc})
			},
		},
		{
			name: "no service",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(cfg.Secret), Claims{RegisteredClaims: valid()})
			},
		},
		{
			name: "alg none",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{Service: "web", RegisteredClaims: valid()})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token(t), cfg)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateToken_SubjectFallback(t *testing.T) {
	cfg := getTestConfig()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "cron",
		Issuer:  cfg.Issuer,
	}).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	claims, err := ValidateToken(s, cfg)

	require.NoError(t, err)
	assert.Equal(t, "cron", claims.Service)
}

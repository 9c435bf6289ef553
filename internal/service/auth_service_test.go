package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/uni-adm/reservation-api/internal/models"
	"github.com/uni-adm/reservation-api/pkg/config"
)

func newAuthService(t *testing.T) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.AuthConfig{
		JWTSecret:     "test-signing-key",
		TokenExpiry:   time.Hour,
		AdminEmail:    "admin@example.com",
		AdminPassword: string(hash),
		Issuer:        "reservation-api",
	}
	return NewAuthService(cfg, validator.New(), zap.NewNop())
}

func TestAuthServiceLogin(t *testing.T) {
	service := newAuthService(t)

	result, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "Admin@Example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	claims, err := service.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, "reservation-api", claims.Issuer)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "someone@example.com",
		Password: "secret",
	})
	require.Error(t, err)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	service := newAuthService(t)

	_, err := service.ValidateToken("not-a-token")
	require.Error(t, err)
}

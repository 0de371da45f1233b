package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cafe/internal/models"
	"cafe/internal/repositories"
	"cafe/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	user := &models.User{Username: " testuser ", Password: "password123", Role: models.RoleAdmin, Locked: true}
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, models.RoleCustomer, user.Role, "registration never grants admin")
	assert.False(t, user.Locked)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// username taken
	dup := &models.User{Username: "testuser", Password: "x"}
	mockRepo.On("Create", ctx, dup).Return(fmt.Errorf("username testuser: %w", repositories.ErrConflict)).Once()
	err = authService.RegisterUser(ctx, dup)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	// missing fields never reach the repository
	err = authService.RegisterUser(ctx, &models.User{Username: "  ", Password: "x"})
	assert.ErrorIs(t, err, services.ErrValidation)
	err = authService.RegisterUser(ctx, &models.User{Username: "bob"})
	assert.ErrorIs(t, err, services.ErrValidation)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	user := &models.User{ID: "u1", Username: "alice", Password: hashed(t, "secret"), Role: models.RoleCustomer}
	mockRepo.On("GetByUsername", ctx, "alice").Return(user, nil)
	mockRepo.On("GetByUsername", ctx, "ghost").Return(nil, fmt.Errorf("user: %w", repositories.ErrNotFound))

	got, token, err := authService.LoginUser(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleCustomer, claims.Role)

	_, _, err = authService.LoginUser(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = authService.LoginUser(ctx, "ghost", "secret")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_LoginLockedUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	locked := &models.User{ID: "u2", Username: "bob", Password: hashed(t, "pw"), Locked: true}
	mockRepo.On("GetByUsername", ctx, "bob").Return(locked, nil)

	_, token, err := authService.LoginUser(ctx, "bob", "pw")
	assert.ErrorIs(t, err, services.ErrAccountLocked)
	assert.Empty(t, token)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	// signed with another secret
	other := services.NewAuthService(new(MockUserRepository), "other", time.Hour)
	foreign, err := other.IssueToken(&models.User{ID: "1", Username: "x"})
	require.NoError(t, err)
	_, err = authService.ValidateToken(foreign)
	assert.Error(t, err)

	// expired
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "1",
		"username": "x",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = authService.ValidateToken(expiredString)
	assert.Error(t, err)

	_, err = authService.ValidateToken("garbage")
	assert.Error(t, err)
}

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-portal/internal/config"
	"github.com/jwalitptl/patient-portal/internal/email"
	"github.com/jwalitptl/patient-portal/internal/model"
	authService "github.com/jwalitptl/patient-portal/internal/service/auth"
	"github.com/jwalitptl/patient-portal/internal/session"
	"github.com/jwalitptl/patient-portal/internal/store"
	pkgauth "github.com/jwalitptl/patient-portal/pkg/auth"
	"github.com/jwalitptl/patient-portal/pkg/errors"
)

func newService(t *testing.T) (*authService.Service, *session.Provider) {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sessions := session.NewProvider(s)
	svc := authService.NewService(sessions, pkgauth.NewJWTService("test-secret", 1), email.NewService(config.SMTPConfig{}))
	return svc, sessions
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:       "a@b.com",
		Password:    "password123",
		FirstName:   "Jane",
		LastName:    "Doe",
		Phone:       "555-0100",
		DateOfBirth: "1990-01-01",
	}
}

func TestRegisterStartsSession(t *testing.T) {
	svc, sessions := newService(t)

	tokens, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, "a@b.com", tokens.User.Email)

	current, err := sessions.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, tokens.User.ID, current.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "a@b.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, tokens.User.ID)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "a@b.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@b.com",
		Password: "password123",
	})
	require.Error(t, err)
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sessions := newService(t)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))

	current, err := sessions.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newService(t)

	tokens, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, sessions := newService(t)

	tokens, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), tokens.User.ID, &model.UpdateProfileRequest{
		FirstName:   "Janet",
		LastName:    "Doe",
		Phone:       "555-0199",
		DateOfBirth: "1990-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "555-0199", updated.Phone)

	// Session copy is refreshed too.
	current, err := sessions.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Janet", current.FirstName)
}

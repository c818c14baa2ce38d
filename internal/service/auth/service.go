package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-portal/internal/email"
	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/session"
	pkgauth "github.com/jwalitptl/patient-portal/pkg/auth"
	"github.com/jwalitptl/patient-portal/pkg/errors"
	"github.com/jwalitptl/patient-portal/pkg/security"
)

const bcryptCost = 12

// Service registers and authenticates portal users against locally stored
// account records. There is no external auth server.
type Service struct {
	sessions *session.Provider
	hasher   security.PasswordHasher
	jwtSvc   pkgauth.JWTService
	notifier email.Service
}

func NewService(sessions *session.Provider, jwtSvc pkgauth.JWTService, notifier email.Service) *Service {
	return &Service{
		sessions: sessions,
		hasher:   security.NewBcryptHasher(bcryptCost),
		jwtSvc:   jwtSvc,
		notifier: notifier,
	}
}

// Register creates an account, starts a session and returns an access token.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	_, exists, err := s.sessions.FindByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if exists {
		return nil, errors.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.BadRequest("invalid password", err)
	}

	now := time.Now()
	account := model.Account{
		User: model.User{
			ID:          uuid.New(),
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Phone:       req.Phone,
			DateOfBirth: req.DateOfBirth,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		PasswordHash: hash,
	}

	if err := s.sessions.CreateAccount(&account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if err := s.sessions.SetCurrentUser(&account.User); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := s.notifier.SendWelcome(ctx, account.Email, account.FirstName); err != nil {
		log.Warn().Err(err).Str("email", account.Email).Msg("failed to send welcome email")
	}

	return s.tokenResponse(&account.User)
}

// Login verifies credentials and starts a session.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	account, found, err := s.sessions.FindByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !found {
		return nil, errors.Unauthorized("invalid credentials", nil)
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized("invalid credentials", nil)
	}

	if err := s.sessions.SetCurrentUser(&account.User); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return s.tokenResponse(&account.User)
}

// Logout clears the session document.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear()
}

// ValidateToken resolves an access token into its claims.
func (s *Service) ValidateToken(token string) (*model.TokenClaims, error) {
	return s.jwtSvc.ValidateToken(token)
}

// CurrentUser returns the profile of the given account.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	account, found, err := s.sessions.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !found {
		return nil, errors.NotFound("user", nil)
	}
	return &account.User, nil
}

// UpdateProfile replaces the mutable profile fields by whole-record
// replacement, then refreshes the session copy.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	account, found, err := s.sessions.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !found {
		return nil, errors.NotFound("user", nil)
	}

	account.FirstName = req.FirstName
	account.LastName = req.LastName
	account.Phone = req.Phone
	account.DateOfBirth = req.DateOfBirth
	account.Avatar = req.Avatar
	account.UpdatedAt = time.Now()

	if _, err := s.sessions.UpdateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	current, err := s.sessions.CurrentUser()
	if err == nil && current != nil && current.ID == userID {
		if err := s.sessions.SetCurrentUser(&account.User); err != nil {
			log.Warn().Err(err).Msg("failed to refresh session after profile update")
		}
	}

	return &account.User, nil
}

func (s *Service) tokenResponse(user *model.User) (*model.TokenResponse, error) {
	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

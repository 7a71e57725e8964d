package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

// Register hashes the password, creates the user and issues a token for it.
// Duplicate emails are reported by the store, not checked here.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_role").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			metrics.RegistrationsTotal.WithLabelValues("invalid_password").Inc()
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	res, err := s.result(created)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return res, nil
}

// Login verifies the password and issues a token. Unknown email and wrong
// password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("login: find user: %w", err)
		}
		// Pay for a comparison anyway so response time does not reveal the miss.
		s.hasher.Verify(ctx, password, "")
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.result(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return res, nil
}

// CurrentUser re-reads the caller's account from the store.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user.Public(), nil
}

func (s *AuthService) result(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user.Public(), AccessToken: token}, nil
}

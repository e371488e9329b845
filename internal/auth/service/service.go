package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"buyer_leads_backend/internal/auth/password"
	"buyer_leads_backend/internal/auth/repository"
	"buyer_leads_backend/internal/auth/transport"
	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

// Service issues access tokens and manages user accounts. Session machinery
// stays here so every other module only ever sees the opaque actor id.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, bus events.Bus) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus}
}

func (s *Service) SignUp(ctx context.Context, req transport.SignUpRequest) (transport.TokenResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(req.Name), email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.TokenResponse{}, apperr.Conflict("email already registered")
		}
		return transport.TokenResponse{}, err
	}

	s.bus.Publish(ctx, events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
	})

	return s.issueToken(user.ID)
}

func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (transport.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid credentials")
	}

	return s.issueToken(user.ID)
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (transport.ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ProfileResponse{}, apperr.NotFound("user not found")
		}
		return transport.ProfileResponse{}, err
	}

	return transport.ProfileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) issueToken(userID uuid.UUID) (transport.TokenResponse, error) {
	ttl := s.cfg.GetAccessTokenTTL()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return transport.TokenResponse{}, err
	}

	return transport.TokenResponse{
		AccessToken: signed,
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

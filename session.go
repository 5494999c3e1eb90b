package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"taskman/models"
)

const bearerPrefix = "Bearer "

// TokenPair is the response body of login and refresh.
type TokenPair struct {
	AccessToken            string `json:"accessToken"`
	ExpiresInMillis        int64  `json:"expiresInMillis"`
	RefreshToken           string `json:"refreshToken"`
	RefreshExpiresInMillis int64  `json:"refreshExpiresInMillis"`
}

// AuthService owns the session lifecycle: registration, login, refresh
// rotation and logout. It is the only writer to the blacklist.
type AuthService struct {
	users     UserStore
	tokens    *TokenService
	blacklist *TokenBlacklist
	log       zerolog.Logger
}

func NewAuthService(users UserStore, tokens *TokenService, blacklist *TokenBlacklist, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		log:       log,
	}
}

// Register stores a new user with a hashed password. It issues no tokens;
// the client logs in explicitly afterwards.
func (s *AuthService) Register(email, password, name string) error {
	taken, err := s.users.ExistsByEmail(email)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: hash, Name: name}
	if err := s.users.Create(user); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.log.Info().Str("email", email).Msg("user registered")
	return nil
}

// Login exchanges credentials for an access/refresh token pair. An unknown
// email and a wrong password answer identically.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil || !CheckPassword(password, user.PasswordHash) {
		s.log.Debug().Str("email", email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}
	return s.issuePair(user.Email)
}

// Refresh exchanges a valid refresh token for a fresh pair. The superseded
// refresh token is not revoked and stays valid until its own expiry.
func (s *AuthService) Refresh(rawToken string) (*TokenPair, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" {
		return nil, ErrInvalidCredentials
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.Kind != TokenKindRefresh {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return s.issuePair(user.Email)
}

// Logout blacklists the bearer token from the Authorization header until
// the token's own expiry. Best effort: a missing header, a foreign scheme
// or a token that does not verify all succeed without revoking anything.
func (s *AuthService) Logout(authorizationHeader string) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return
	}
	raw := strings.TrimPrefix(authorizationHeader, bearerPrefix)
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return
	}
	s.blacklist.Revoke(raw, claims.ExpiresAt.UnixMilli())
	s.log.Info().Str("email", claims.Subject).Msg("token revoked")
}

func (s *AuthService) issuePair(email string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(email)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:            access,
		ExpiresInMillis:        s.tokens.AccessTTL().Milliseconds(),
		RefreshToken:           refresh,
		RefreshExpiresInMillis: s.tokens.RefreshTTL().Milliseconds(),
	}, nil
}

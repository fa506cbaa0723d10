package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Strob0t/CRMForge/internal/config"
	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/user"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

const tokenIssuer = "crmforge"

// errInvalidCredentials hides whether the email or the password was wrong.
var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)

// AccessClaims are the claims carried by an access token. The subject is
// the user ID that owns every row the bearer touches.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthService handles registration, login and access-token validation.
type AuthService struct {
	users  database.Users
	cfg    *config.Auth
	secret []byte
	now    func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users database.Users, cfg *config.Auth) *AuthService {
	return &AuthService{
		users:  users,
		cfg:    cfg,
		secret: []byte(cfg.JWTSecret),
		now:    time.Now,
	}
}

// RegistrationOpen reports whether self-service registration is enabled.
func (s *AuthService) RegistrationOpen() bool {
	return s.cfg.AllowRegistration
}

// Register creates a new enabled user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *user.CreateRequest) (*user.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Enabled:      true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	u, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !u.Enabled {
		return nil, fmt.Errorf("account is disabled: %w", domain.ErrUnauthenticated)
	}

	token, err := s.sign(u)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &user.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.cfg.AccessTokenExpiry.Seconds()),
		User:        *u,
	}, nil
}

// ValidateAccessToken verifies the signature and expiry of an access token.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", domain.ErrUnauthenticated)
	}
	return claims, nil
}

// Me returns the user bound to the request identity.
func (s *AuthService) Me(ctx context.Context) (*user.User, error) {
	id := access.OwnerFromContext(ctx)
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.GetUser(ctx, id)
}

// ListUsers returns every account, for the admin CLI.
func (s *AuthService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *AuthService) sign(u *user.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpiry)),
		},
		Email: u.Email,
		Name:  u.Name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/xyz-asif/skycast/internal/pkg/jwt"
	"github.com/xyz-asif/skycast/internal/pkg/logger"
	"github.com/xyz-asif/skycast/internal/pkg/metrics"
	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

// UserStore is the persistence the service needs. *Repository implements it.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

const (
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid credentials"
)

type Service struct {
	users UserStore
	jwt   *jwt.Config
	cost  int
}

func NewService(users UserStore, jwtCfg *jwt.Config) *Service {
	return &Service{users: users, jwt: jwtCfg, cost: bcrypt.DefaultCost}
}

// Register creates an account and signs the caller in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (resp *AuthResponse, err error) {
	defer func() { recordAuth("register", err) }()

	if err := ValidateRegister(req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict(msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperrors.Conflict(msgEmailTaken)
		}
		return nil, err
	}

	logger.L().Info().Str("userId", user.ID.Hex()).Msg("user registered")
	return s.issue(user)
}

// Login checks the password against the stored hash. Unknown emails and wrong
// passwords get the same answer.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (resp *AuthResponse, err error) {
	defer func() { recordAuth("login", err) }()

	if err := ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	return s.issue(user)
}

// CurrentUser verifies token and re-reads the account it names, by id and
// then by email, so profile changes show without a new token.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	claims, err := jwt.ValidateToken(token, s.jwt)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, apperrors.Unauthorized("Token has expired")
		}
		return nil, apperrors.Unauthorized("Invalid token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil && claims.Email != "" {
		user, err = s.users.FindByEmail(ctx, NormalizeEmail(claims.Email))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, apperrors.Unauthorized("User not found")
	}
	return user, nil
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID.Hex(), user.Email, s.jwt)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{User: user, AccessToken: token}, nil
}

func recordAuth(event string, err error) {
	metrics.AuthEvents.WithLabelValues(event, metrics.Outcome(err)).Inc()
}

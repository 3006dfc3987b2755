package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// SessionTTL is the fixed validity of an issued session token.
const SessionTTL = 7 * 24 * time.Hour

// AuthService implements signup, login, and profile updates.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
}

func NewAuthService(repo ports.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{repo: repo, jwtSecret: jwtSecret}
}

// Signup creates an account with the fixed starting credit grant and returns
// it with a freshly issued session token.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", domain.ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Credits:      domain.StartingCredits,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(created.ID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login verifies credentials and issues a session token. The same
// ErrInvalidCredentials is returned for an unknown email and a wrong
// password so responses never reveal whether an account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UpdateName renames the account. The name is trimmed and rejected when empty
// or longer than domain.MaxNameLength.
func (s *AuthService) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > domain.MaxNameLength {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.UpdateName(ctx, userID, trimmed)
}

// IssueToken signs a session token carrying only the user id.
func (s *AuthService) IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(SessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

package ports

import (
	"context"

	"github.com/musemind/musemind-server/internal/core/domain"
)

// AuthService implements signup, login, and profile updates. Signup and Login
// return the signed session token alongside the user so the transport layer
// can deliver it as a cookie.
type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	UpdateName(ctx context.Context, userID, name string) (*domain.User, error)
}

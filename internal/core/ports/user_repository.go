package ports

import (
	"context"

	"github.com/musemind/musemind-server/internal/core/domain"
)

// UserRepository defines persistence for accounts and their credit balance.
//
// DeductCredit must be implemented as a single atomic conditional update at
// the storage layer ("decrement by 1 only where credits > 0") so that two
// concurrent paid operations can never drive the balance negative.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateName(ctx context.Context, id, name string) (*domain.User, error)

	// DeductCredit decrements the balance by exactly one and returns the new
	// balance. Returns domain.ErrInsufficientCredits when the conditional
	// update matched no document with credits > 0.
	DeductCredit(ctx context.Context, id string) (int, error)

	// AddCredits increments the balance by n and returns the new balance.
	AddCredits(ctx context.Context, id string, n int) (int, error)
}

package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/musemind/musemind-server/internal/api/handler"
	"github.com/musemind/musemind-server/internal/core/domain"
	"github.com/musemind/musemind-server/internal/core/ports"
)

type userRepoStub struct {
	credits int
}

func (s *userRepoStub) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Credits: s.credits}, nil
}

func (s *userRepoStub) UpdateName(ctx context.Context, id, name string) (*domain.User, error) {
	return &domain.User{ID: id, Username: name}, nil
}

func (s *userRepoStub) DeductCredit(ctx context.Context, id string) (int, error) {
	if s.credits <= 0 {
		return 0, domain.ErrInsufficientCredits
	}
	s.credits--
	return s.credits, nil
}

func (s *userRepoStub) AddCredits(ctx context.Context, id string, n int) (int, error) {
	s.credits += n
	return s.credits, nil
}

var _ ports.UserRepository = (*userRepoStub)(nil)

func TestPurchaseAddsPackCredits(t *testing.T) {
	repo := &userRepoStub{credits: 2}
	h := handler.NewCreditsHandler(repo)
	c, rec, e := newTestContext(t, http.MethodPost, "/credits/purchase", `{"pack":"standard"}`, "u1")

	invoke(c, e, h.Purchase)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["credits"] != float64(17) {
		t.Fatalf("expected 17 credits, got %v", body)
	}
}

func TestPurchaseRejectsUnknownPack(t *testing.T) {
	h := handler.NewCreditsHandler(&userRepoStub{})
	c, rec, e := newTestContext(t, http.MethodPost, "/credits/purchase", `{"pack":"mega"}`, "u1")

	invoke(c, e, h.Purchase)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPurchaseRequiresSession(t *testing.T) {
	h := handler.NewCreditsHandler(&userRepoStub{})
	c, rec, e := newTestContext(t, http.MethodPost, "/credits/purchase", `{"pack":"starter"}`, "")

	invoke(c, e, h.Purchase)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

package mocks

import (
	"context"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

type MockTokenRepo struct {
	domain.TokenRepository
	CreateFunc           func(ctx context.Context, token *domain.Token) error
	DeleteAllForUserFunc func(ctx context.Context, scope string, userID int) error
}

func (m *MockTokenRepo) Create(ctx context.Context, token *domain.Token) error {
	return m.CreateFunc(ctx, token)
}

func (m *MockTokenRepo) DeleteAllForUser(ctx context.Context, scope string, userID int) error {
	return m.DeleteAllForUserFunc(ctx, scope, userID)
}

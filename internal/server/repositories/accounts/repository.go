package accounts

import (
	"context"

	"github.com/dmitrijs2005/homedrive/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. Returns common.ErrorLoginTaken when the
	// login is already in use.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByLogin returns the account for a normalized login, or
	// common.ErrorNotFound.
	GetByLogin(ctx context.Context, login string) (*models.Account, error)

	// GetByID returns the account by id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// LockQuota reads the account quota under FOR UPDATE, serializing
	// concurrent space-consuming mutations on the same account for the
	// duration of the surrounding transaction.
	LockQuota(ctx context.Context, id string) (int64, error)
}

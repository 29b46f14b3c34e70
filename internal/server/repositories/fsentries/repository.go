package fsentries

import (
	"context"

	"github.com/dmitrijs2005/homedrive/internal/server/models"
)

type Repository interface {
	// Create inserts a new entry. Returns common.ErrorNameConflict when a
	// sibling with the same name already exists.
	Create(ctx context.Context, entry *models.FSEntry) (*models.FSEntry, error)

	// GetByID returns the entry only if it belongs to the given account;
	// an entry owned by anyone else is common.ErrorNotFound.
	GetByID(ctx context.Context, accountID, id string) (*models.FSEntry, error)

	// ListChildren returns the immediate children of parentID (nil for the
	// implicit root), in stable case-insensitive name order.
	ListChildren(ctx context.Context, accountID string, parentID *string) ([]*models.FSEntry, error)

	// UsedBytes sums the sizes of all file entries owned by the account.
	UsedBytes(ctx context.Context, accountID string) (int64, error)

	// Rename changes the entry name. common.ErrorNotFound if the entry does
	// not belong to the account, common.ErrorNameConflict on sibling clash.
	Rename(ctx context.Context, accountID, id, newName string) error

	// DeleteSubtree removes the entry and all its descendants, returning the
	// number of rows deleted. common.ErrorNotFound if the root of the
	// subtree does not belong to the account.
	DeleteSubtree(ctx context.Context, accountID, id string) (int64, error)
}

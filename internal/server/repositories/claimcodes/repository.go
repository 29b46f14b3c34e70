package claimcodes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/server/models"
)

type Repository interface {
	// Create registers a new unused claim code (administrative path).
	Create(ctx context.Context, code *models.ClaimCode) error

	// Get returns the code regardless of status, or common.ErrorNotFound.
	Get(ctx context.Context, code string) (*models.ClaimCode, error)

	// Redeem atomically flips an unused, unexpired code to redeemed and
	// returns it. common.ErrorNotFound means there was no redeemable row:
	// the code is missing, expired, or a concurrent redeemer won.
	Redeem(ctx context.Context, code string, now time.Time) (*models.ClaimCode, error)
}

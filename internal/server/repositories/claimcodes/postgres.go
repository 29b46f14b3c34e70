package claimcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, code *models.ClaimCode) error {

	query :=
		`INSERT INTO claim_codes (code, status, quota_bytes, expires_at)
         VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, code.Code, code.Status, code.QuotaBytes, code.ExpiresAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, code string) (*models.ClaimCode, error) {
	query :=
		`SELECT code, status, quota_bytes, expires_at, redeemed_at FROM claim_codes
		 WHERE code = $1
		 `

	c := &models.ClaimCode{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.Code, &c.Status, &c.QuotaBytes, &c.ExpiresAt, &c.RedeemedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

// Redeem relies on the conditional UPDATE touching at most one row: of any
// number of concurrent redeemers of the same code, exactly one sees a row.
func (r *PostgresRepository) Redeem(ctx context.Context, code string, now time.Time) (*models.ClaimCode, error) {
	query :=
		`UPDATE claim_codes
		 SET status = $1, redeemed_at = $2
		 WHERE code = $3 AND status = $4 AND (expires_at IS NULL OR expires_at > $2)
		 RETURNING code, status, quota_bytes, expires_at, redeemed_at
		 `

	c := &models.ClaimCode{}
	err := r.db.QueryRowContext(ctx, query, models.ClaimCodeRedeemed, now, code, models.ClaimCodeUnused).Scan(
		&c.Code, &c.Status, &c.QuotaBytes, &c.ExpiresAt, &c.RedeemedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

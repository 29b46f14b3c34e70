package fsentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.FSEntry) (*models.FSEntry, error) {

	query :=
		`INSERT INTO fs_entries (id, account_id, parent_id, name, kind, size_bytes)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.AccountID, entry.ParentID, entry.Name, entry.Kind, entry.SizeBytes).Scan(&entry.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorNameConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, accountID, id string) (*models.FSEntry, error) {
	query :=
		`SELECT id, account_id, parent_id, name, kind, size_bytes, created_at FROM fs_entries
		 WHERE account_id = $1 AND id = $2
		 `

	entry := &models.FSEntry{}
	err := r.db.QueryRowContext(ctx, query, accountID, id).Scan(
		&entry.ID, &entry.AccountID, &entry.ParentID, &entry.Name, &entry.Kind, &entry.SizeBytes, &entry.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) ListChildren(ctx context.Context, accountID string, parentID *string) ([]*models.FSEntry, error) {
	query :=
		`SELECT id, account_id, parent_id, name, kind, size_bytes, created_at FROM fs_entries
		 WHERE account_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		 ORDER BY lower(name), name, id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID, parentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.FSEntry, 0)
	for rows.Next() {
		entry := &models.FSEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.AccountID, &entry.ParentID, &entry.Name, &entry.Kind, &entry.SizeBytes, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func (r *PostgresRepository) UsedBytes(ctx context.Context, accountID string) (int64, error) {
	query :=
		`SELECT COALESCE(SUM(size_bytes), 0) FROM fs_entries
		 WHERE account_id = $1 AND kind = $2
		 `

	var used int64
	err := r.db.QueryRowContext(ctx, query, accountID, models.EntryKindFile).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return used, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, accountID, id, newName string) error {
	query :=
		`UPDATE fs_entries SET name = $1
		 WHERE account_id = $2 AND id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, newName, accountID, id)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorNameConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteSubtree(ctx context.Context, accountID, id string) (int64, error) {
	query :=
		`WITH RECURSIVE subtree AS (
		     SELECT id FROM fs_entries WHERE account_id = $1 AND id = $2
		     UNION ALL
		     SELECT e.id FROM fs_entries e
		     JOIN subtree s ON e.parent_id = s.id
		 )
		 DELETE FROM fs_entries WHERE id IN (SELECT id FROM subtree)
		 `

	res, err := r.db.ExecContext(ctx, query, accountID, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if deleted == 0 {
		return 0, common.ErrorNotFound
	}

	return deleted, nil
}

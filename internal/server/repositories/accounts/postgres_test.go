package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const accountCols = "id, login, salt, verifier, quota_bytes, created_at"

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).
		WithArgs("id-1", "alice", []byte("salt"), []byte("verifier"), int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	a := &models.Account{ID: "id-1", Login: "alice", Salt: []byte("salt"), Verifier: []byte("verifier"), QuotaBytes: 1000}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, got.CreatedAt)
	}
}

func TestCreate_LoginTaken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Account{ID: "id-1", Login: "alice"})
	if !errors.Is(err, common.ErrorLoginTaken) {
		t.Fatalf("expected ErrorLoginTaken, got %v", err)
	}
}

func TestGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+` + accountCols).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByLogin_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "login", "salt", "verifier", "quota_bytes", "created_at"}).
		AddRow("id-1", "alice", []byte("salt"), []byte("verifier"), int64(1000), time.Now())
	mock.ExpectQuery(`(?s)^SELECT\s+` + accountCols).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByLogin error: %v", err)
	}
	if got.ID != "id-1" || got.QuotaBytes != 1000 {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestLockQuota(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+quota_bytes\s+FROM\s+accounts.*FOR\s+UPDATE`).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"quota_bytes"}).AddRow(int64(2048)))

	quota, err := repo.LockQuota(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("LockQuota error: %v", err)
	}
	if quota != 2048 {
		t.Fatalf("expected 2048, got %d", quota)
	}
}

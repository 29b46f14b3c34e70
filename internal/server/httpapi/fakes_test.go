package httpapi

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/homedrive/internal/server/repositories/accounts"
	claimcodesrepo "github.com/dmitrijs2005/homedrive/internal/server/repositories/claimcodes"
	fsentriesrepo "github.com/dmitrijs2005/homedrive/internal/server/repositories/fsentries"
)

// In-memory repositories backing the services under the HTTP adapter, so
// handler tests exercise the full request path without PostgreSQL.

type fakeAccountsRepo struct {
	byLogin map[string]*models.Account
	byID    map[string]*models.Account

	createErr error
	lockQuota int64
}

func (f *fakeAccountsRepo) add(a *models.Account) {
	f.byLogin[a.Login] = a
	f.byID[a.ID] = a
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.add(a)
	return a, nil
}

func (f *fakeAccountsRepo) GetByLogin(ctx context.Context, login string) (*models.Account, error) {
	if a, ok := f.byLogin[login]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) LockQuota(ctx context.Context, id string) (int64, error) {
	return f.lockQuota, nil
}

type fakeClaimCodesRepo struct {
	redeemOut *models.ClaimCode
	redeemErr error

	getOut *models.ClaimCode
	getErr error
}

func (f *fakeClaimCodesRepo) Create(ctx context.Context, c *models.ClaimCode) error {
	return nil
}

func (f *fakeClaimCodesRepo) Get(ctx context.Context, code string) (*models.ClaimCode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeClaimCodesRepo) Redeem(ctx context.Context, code string, now time.Time) (*models.ClaimCode, error) {
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	return f.redeemOut, nil
}

type fakeEntriesRepo struct {
	byID map[string]*models.FSEntry

	children []*models.FSEntry

	createErr error
	created   []*models.FSEntry

	used int64

	// usedEntered/usedRelease, when set, make UsedBytes park mid-request:
	// it announces itself on usedEntered and waits for usedRelease.
	usedEntered chan struct{}
	usedRelease chan struct{}

	deleted int64
}

func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.FSEntry) (*models.FSEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeEntriesRepo) GetByID(ctx context.Context, accountID, id string) (*models.FSEntry, error) {
	if e, ok := f.byID[id]; ok && e.AccountID == accountID {
		return e, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeEntriesRepo) ListChildren(ctx context.Context, accountID string, parentID *string) ([]*models.FSEntry, error) {
	return f.children, nil
}

func (f *fakeEntriesRepo) UsedBytes(ctx context.Context, accountID string) (int64, error) {
	if f.usedEntered != nil {
		f.usedEntered <- struct{}{}
		<-f.usedRelease
	}
	return f.used, nil
}

func (f *fakeEntriesRepo) Rename(ctx context.Context, accountID, id, newName string) error {
	if e, ok := f.byID[id]; ok && e.AccountID == accountID {
		e.Name = newName
		return nil
	}
	return common.ErrorNotFound
}

func (f *fakeEntriesRepo) DeleteSubtree(ctx context.Context, accountID, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, common.ErrorNotFound
	}
	return f.deleted, nil
}

type fakeRepoManager struct {
	accounts   *fakeAccountsRepo
	claimCodes *fakeClaimCodesRepo
	entries    *fakeEntriesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository {
	return m.accounts
}

func (m *fakeRepoManager) ClaimCodes(db dbx.DBTX) claimcodesrepo.Repository {
	return m.claimCodes
}

func (m *fakeRepoManager) Entries(db dbx.DBTX) fsentriesrepo.Repository {
	return m.entries
}

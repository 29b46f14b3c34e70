package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/homedrive/internal/server/repositories/accounts"
	claimcodesrepo "github.com/dmitrijs2005/homedrive/internal/server/repositories/claimcodes"
	fsentriesrepo "github.com/dmitrijs2005/homedrive/internal/server/repositories/fsentries"
)

// --- fake repositories ---

type fakeAccountsRepo struct {
	byLogin map[string]*models.Account
	byID    map[string]*models.Account

	createErr error
	created   []*models.Account

	getErr error

	lockQuota int64
	lockErr   error
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAccountsRepo) GetByLogin(ctx context.Context, login string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byLogin[login]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) LockQuota(ctx context.Context, id string) (int64, error) {
	if f.lockErr != nil {
		return 0, f.lockErr
	}
	return f.lockQuota, nil
}

type fakeClaimCodesRepo struct {
	redeemOut *models.ClaimCode
	redeemErr error

	// redeemable, when set, is handed to exactly one redeemer under mu,
	// the way the conditional UPDATE admits exactly one transaction.
	mu         sync.Mutex
	redeemable *models.ClaimCode

	getOut *models.ClaimCode
	getErr error

	createErr error
	created   []*models.ClaimCode
}

func (f *fakeClaimCodesRepo) Create(ctx context.Context, c *models.ClaimCode) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeClaimCodesRepo) Get(ctx context.Context, code string) (*models.ClaimCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeClaimCodesRepo) Redeem(ctx context.Context, code string, now time.Time) (*models.ClaimCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.redeemable != nil {
		redeemed := *f.redeemable
		redeemed.Status = models.ClaimCodeRedeemed
		f.redeemable = nil
		f.getOut = &redeemed
		return &redeemed, nil
	}
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	if f.redeemOut != nil {
		return f.redeemOut, nil
	}
	return nil, common.ErrorNotFound
}

type fakeEntriesRepo struct {
	byID map[string]*models.FSEntry

	children    []*models.FSEntry
	childrenErr error

	createErr error
	created   []*models.FSEntry

	used    int64
	usedErr error

	renameErr error

	deleted   int64
	deleteErr error
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
	if f.childrenErr != nil {
		return nil, f.childrenErr
	}
	return f.children, nil
}

func (f *fakeEntriesRepo) UsedBytes(ctx context.Context, accountID string) (int64, error) {
	if f.usedErr != nil {
		return 0, f.usedErr
	}
	return f.used, nil
}

func (f *fakeEntriesRepo) Rename(ctx context.Context, accountID, id, newName string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	if e, ok := f.byID[id]; ok && e.AccountID == accountID {
		e.Name = newName
		return nil
	}
	return common.ErrorNotFound
}

func (f *fakeEntriesRepo) DeleteSubtree(ctx context.Context, accountID, id string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleted, nil
}

// --- fake repository manager ---

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

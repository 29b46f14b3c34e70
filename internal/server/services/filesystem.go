package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
	"github.com/dmitrijs2005/homedrive/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type FilesystemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFilesystemService(db *sql.DB, m repomanager.RepositoryManager) *FilesystemService {
	return &FilesystemService{
		db:          db,
		repomanager: m,
	}
}

// StorageUsage pairs consumed bytes with the account quota.
type StorageUsage struct {
	UsedBytes  int64
	QuotaBytes int64
}

func validEntryName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	return !strings.ContainsAny(name, "/\x00")
}

// GetStorageUsed returns the account's consumed and allotted bytes.
func (s *FilesystemService) GetStorageUsed(ctx context.Context, accountID string) (*StorageUsage, error) {

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: get account: %v", common.ErrorInternal, err)
	}

	used, err := s.repomanager.Entries(s.db).UsedBytes(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: sum used bytes: %v", common.ErrorInternal, err)
	}

	return &StorageUsage{UsedBytes: used, QuotaBytes: account.QuotaBytes}, nil
}

// GetFilesystem lists the immediate children of folderID, or of the
// implicit root when folderID is nil. A folder id that does not resolve to
// a folder owned by the caller is common.ErrorNotFound, whether it belongs
// to someone else or to nobody.
func (s *FilesystemService) GetFilesystem(ctx context.Context, accountID string, folderID *string) ([]*models.FSEntry, error) {

	entries := s.repomanager.Entries(s.db)

	if folderID != nil {
		folder, err := entries.GetByID(ctx, accountID, *folderID)
		if err != nil {
			return nil, err
		}
		if folder.Kind != models.EntryKindFolder {
			return nil, common.ErrorNotFound
		}
	}

	return entries.ListChildren(ctx, accountID, folderID)
}

func (s *FilesystemService) checkParent(ctx context.Context, tx dbx.DBTX, accountID string, parentID *string) error {
	if parentID == nil {
		return nil
	}

	parent, err := s.repomanager.Entries(tx).GetByID(ctx, accountID, *parentID)
	if err != nil {
		return err
	}
	if parent.Kind != models.EntryKindFolder {
		return common.ErrorNotFound
	}
	return nil
}

// CreateFolder adds an empty folder under parentID (root when nil).
// Folders never consume quota.
func (s *FilesystemService) CreateFolder(ctx context.Context, accountID string, parentID *string, name string) (*models.FSEntry, error) {

	name = strings.TrimSpace(name)
	if !validEntryName(name) {
		return nil, common.ErrorInvalidName
	}

	entry := &models.FSEntry{
		ID:        uuid.New().String(),
		AccountID: accountID,
		ParentID:  parentID,
		Name:      name,
		Kind:      models.EntryKindFolder,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkParent(ctx, tx, accountID, parentID); err != nil {
			return err
		}
		_, err := s.repomanager.Entries(tx).Create(ctx, entry)
		return err
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CreateFile records the metadata of a file whose content was stored
// outside this server. The account row is locked for the duration of the
// transaction, so two concurrent creations cannot both squeeze past the
// quota check.
func (s *FilesystemService) CreateFile(ctx context.Context, accountID string, parentID *string, name string, sizeBytes int64) (*models.FSEntry, error) {

	name = strings.TrimSpace(name)
	if !validEntryName(name) || sizeBytes < 0 {
		return nil, common.ErrorInvalidName
	}

	entry := &models.FSEntry{
		ID:        uuid.New().String(),
		AccountID: accountID,
		ParentID:  parentID,
		Name:      name,
		Kind:      models.EntryKindFile,
		SizeBytes: sizeBytes,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		quota, err := s.repomanager.Accounts(tx).LockQuota(ctx, accountID)
		if err != nil {
			return err
		}

		if err := s.checkParent(ctx, tx, accountID, parentID); err != nil {
			return err
		}

		entries := s.repomanager.Entries(tx)
		used, err := entries.UsedBytes(ctx, accountID)
		if err != nil {
			return err
		}
		if used+sizeBytes > quota {
			return common.ErrorQuotaExceeded
		}

		_, err = entries.Create(ctx, entry)
		return err
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RenameEntry changes an entry's name in place.
func (s *FilesystemService) RenameEntry(ctx context.Context, accountID, entryID, newName string) (*models.FSEntry, error) {

	newName = strings.TrimSpace(newName)
	if !validEntryName(newName) {
		return nil, common.ErrorInvalidName
	}

	var renamed *models.FSEntry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entries := s.repomanager.Entries(tx)
		if err := entries.Rename(ctx, accountID, entryID, newName); err != nil {
			return err
		}
		var err error
		renamed, err = entries.GetByID(ctx, accountID, entryID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return renamed, nil
}

// DeleteEntry removes an entry and everything below it, returning how many
// entries disappeared. The recursive delete is one statement, so a crash
// can never leave half a subtree behind.
func (s *FilesystemService) DeleteEntry(ctx context.Context, accountID, entryID string) (int64, error) {
	return s.repomanager.Entries(s.db).DeleteSubtree(ctx, accountID, entryID)
}

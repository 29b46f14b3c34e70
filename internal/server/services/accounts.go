// Package services implements the account-provisioning and
// filesystem-metadata operations of the homedrive server. Every logical
// operation that touches more than one row runs inside a single
// transaction, so each one either fully commits or reports an error.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/common"
	"github.com/dmitrijs2005/homedrive/internal/cryptox"
	"github.com/dmitrijs2005/homedrive/internal/dbx"
	"github.com/dmitrijs2005/homedrive/internal/server/config"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
	"github.com/dmitrijs2005/homedrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/homedrive/internal/server/sessions"
	"github.com/google/uuid"
)

// ClaimCodeByteLength is the entropy of operator-minted claim codes before
// hex encoding.
const ClaimCodeByteLength = 8

type AccountService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	registry          *sessions.Registry
	sessionSecret     []byte
	defaultQuotaBytes int64
	claimCodeValidity time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, registry *sessions.Registry, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                db,
		repomanager:       m,
		registry:          registry,
		sessionSecret:     []byte(cfg.SessionSecret),
		defaultQuotaBytes: cfg.DefaultQuotaBytes,
		claimCodeValidity: cfg.ClaimCodeValidity,
	}
}

// NormalizeLogin lowercases and trims a login so uniqueness is
// case-insensitive.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

func validLogin(login string) bool {
	if login == "" || len(login) > 64 {
		return false
	}
	for _, r := range login {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.') {
			return false
		}
	}
	return true
}

// ClaimAccount redeems a single-use claim code and creates the account in
// one transaction, then opens a session for it. Of N concurrent redeemers
// of one code exactly one succeeds; the rest get ErrorClaimCodeUsed (or
// ErrorInvalidClaimCode if the code never existed or has expired).
func (s *AccountService) ClaimAccount(ctx context.Context, code, login string, proof []byte) (*sessions.Session, error) {

	login = NormalizeLogin(login)
	if !validLogin(login) {
		return nil, common.ErrorInvalidName
	}

	// The slow KDF runs before the transaction so the store is never held
	// open across it.
	salt := cryptox.NewSalt()
	verifier := cryptox.DeriveVerifier(proof, salt)

	account := &models.Account{
		ID:       uuid.New().String(),
		Login:    login,
		Salt:     salt,
		Verifier: verifier,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		codes := s.repomanager.ClaimCodes(tx)

		claimed, err := codes.Redeem(ctx, code, time.Now())
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: redeem claim code: %v", common.ErrorInternal, err)
			}
			// No redeemable row: distinguish a consumed code from a
			// missing/expired one for the caller's sake.
			existing, getErr := codes.Get(ctx, code)
			if getErr == nil && existing.Status == models.ClaimCodeRedeemed {
				return common.ErrorClaimCodeUsed
			}
			return common.ErrorInvalidClaimCode
		}

		account.QuotaBytes = claimed.QuotaBytes
		if account.QuotaBytes <= 0 {
			account.QuotaBytes = s.defaultQuotaBytes
		}

		// A login clash rolls the whole transaction back, so the code is
		// not consumed without a resulting account.
		_, err = s.repomanager.Accounts(tx).Create(ctx, account)
		return err
	})

	if err != nil {
		return nil, err
	}

	return s.registry.Create(account.ID, account.Login)
}

// CheckClaimCode is a read-only probe. It reports one generic valid/invalid
// state: a redeemed code and a nonexistent one are indistinguishable.
func (s *AccountService) CheckClaimCode(ctx context.Context, code string) (bool, error) {
	c, err := s.repomanager.ClaimCodes(s.db).Get(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: get claim code: %v", common.ErrorInternal, err)
	}

	if c.Status != models.ClaimCodeUnused {
		return false, nil
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(time.Now()) {
		return false, nil
	}

	return true, nil
}

// GetUserSalt returns the salt a client needs for proof derivation. For a
// login with no account it returns a stable dummy salt derived from the
// login, so response shape and repeat queries cannot be used for
// enumeration.
func (s *AccountService) GetUserSalt(ctx context.Context, login string) ([]byte, error) {
	login = NormalizeLogin(login)

	account, err := s.repomanager.Accounts(s.db).GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return cryptox.DummySalt(s.sessionSecret, login), nil
		}
		return nil, fmt.Errorf("%w: get account by login: %v", common.ErrorInternal, err)
	}

	return account.Salt, nil
}

// zeroVerifier is what an unknown login's proof gets compared against: the
// comparison always fails, but only after the same KDF cost as a real one.
var zeroVerifier = make([]byte, cryptox.VerifierLength)

// Login verifies the submitted proof and opens a session. Unknown login and
// wrong proof produce the same error and the same amount of KDF work.
func (s *AccountService) Login(ctx context.Context, login string, proof []byte) (*sessions.Session, error) {
	login = NormalizeLogin(login)

	account, err := s.repomanager.Accounts(s.db).GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			candidate := cryptox.DeriveVerifier(proof, cryptox.DummySalt(s.sessionSecret, login))
			subtle.ConstantTimeCompare(candidate, zeroVerifier)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: get account by login: %v", common.ErrorInternal, err)
	}

	if !cryptox.VerifyProof(proof, account.Salt, account.Verifier) {
		return nil, common.ErrorUnauthorized
	}

	return s.registry.Create(account.ID, account.Login)
}

// Logout drops the session. Logging out an absent or expired token is not
// an error.
func (s *AccountService) Logout(ctx context.Context, sessionToken string) {
	s.registry.Delete(sessionToken)
}

// GetSessionInfo resolves a session token, refreshing its sliding window.
func (s *AccountService) GetSessionInfo(ctx context.Context, sessionToken string) (*sessions.Session, error) {
	return s.registry.Resolve(sessionToken)
}

// CreateClaimCode mints a new unused claim code (operator path). A
// non-positive quota falls back to the configured default; expiry follows
// the configured claim-code validity, with zero meaning no expiry.
func (s *AccountService) CreateClaimCode(ctx context.Context, quotaBytes int64) (*models.ClaimCode, error) {
	value, err := common.MakeRandHexString(ClaimCodeByteLength)
	if err != nil {
		return nil, fmt.Errorf("%w: generate claim code: %v", common.ErrorInternal, err)
	}

	if quotaBytes <= 0 {
		quotaBytes = s.defaultQuotaBytes
	}

	code := &models.ClaimCode{
		Code:       strings.ToUpper(value),
		Status:     models.ClaimCodeUnused,
		QuotaBytes: quotaBytes,
	}
	if s.claimCodeValidity > 0 {
		expires := time.Now().Add(s.claimCodeValidity)
		code.ExpiresAt = &expires
	}

	if err := s.repomanager.ClaimCodes(s.db).Create(ctx, code); err != nil {
		return nil, fmt.Errorf("%w: store claim code: %v", common.ErrorInternal, err)
	}

	return code, nil
}

// SessionCount reports the number of live sessions (operator path).
func (s *AccountService) SessionCount() int {
	return s.registry.Len()
}

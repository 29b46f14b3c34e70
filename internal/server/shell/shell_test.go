package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/homedrive/internal/logging"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
)

type fakeAccounts struct {
	sessions   int
	created    []int64
	createErr  error
	codeToMint string
}

func (f *fakeAccounts) CreateClaimCode(ctx context.Context, quotaBytes int64) (*models.ClaimCode, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, quotaBytes)
	return &models.ClaimCode{Code: f.codeToMint, Status: models.ClaimCodeUnused, QuotaBytes: quotaBytes}, nil
}

func (f *fakeAccounts) SessionCount() int {
	return f.sessions
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func runShell(t *testing.T, accounts AccountAdmin, input string) (string, bool) {
	t.Helper()

	var out bytes.Buffer
	cancelled := false

	sh := New(testLogger(), accounts, strings.NewReader(input), &out, func() { cancelled = true })
	sh.Run(context.Background())

	return out.String(), cancelled
}

func TestShell_StopCancelsContext(t *testing.T) {
	out, cancelled := runShell(t, &fakeAccounts{}, "stop\n")

	assert.True(t, cancelled)
	assert.Contains(t, out, "shutting down")
}

func TestShell_ExitAliases(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		t.Run(cmd, func(t *testing.T) {
			_, cancelled := runShell(t, &fakeAccounts{}, cmd+"\n")
			assert.True(t, cancelled)
		})
	}
}

func TestShell_EOFDoesNotCancel(t *testing.T) {
	_, cancelled := runShell(t, &fakeAccounts{}, "")
	assert.False(t, cancelled)
}

func TestShell_Sessions(t *testing.T) {
	out, _ := runShell(t, &fakeAccounts{sessions: 3}, "sessions\n")
	assert.Contains(t, out, "live sessions: 3")
}

func TestShell_NewCode(t *testing.T) {
	fa := &fakeAccounts{codeToMint: "A1B2C3D4E5F60718"}

	out, _ := runShell(t, fa, "newcode 1048576\nstop\n")

	require.Equal(t, []int64{1048576}, fa.created)
	assert.Contains(t, out, "A1B2C3D4E5F60718")
	assert.Contains(t, out, "1048576")
}

func TestShell_NewCodeDefaultQuota(t *testing.T) {
	fa := &fakeAccounts{codeToMint: "FFEEDDCCBBAA0099"}

	_, _ = runShell(t, fa, "newcode\nstop\n")

	require.Equal(t, []int64{0}, fa.created)
}

func TestShell_NewCodeInvalidQuota(t *testing.T) {
	fa := &fakeAccounts{}

	out, _ := runShell(t, fa, "newcode nope\nnewcode -5\nstop\n")

	assert.Empty(t, fa.created)
	assert.Contains(t, out, "invalid quota: nope")
	assert.Contains(t, out, "invalid quota: -5")
}

func TestShell_NewCodeError(t *testing.T) {
	fa := &fakeAccounts{createErr: errors.New("store unavailable")}

	out, _ := runShell(t, fa, "newcode\nstop\n")

	assert.Contains(t, out, "failed to create claim code")
}

func TestShell_UnknownCommand(t *testing.T) {
	out, _ := runShell(t, &fakeAccounts{}, "frobnicate\nstop\n")
	assert.Contains(t, out, "unknown command: frobnicate")
}

func TestShell_HelpAndBlankLines(t *testing.T) {
	out, _ := runShell(t, &fakeAccounts{}, "\n   \nhelp\nstop\n")
	assert.Contains(t, out, "newcode [quota-bytes]")
}

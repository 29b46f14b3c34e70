// Package shell is the operator control loop that runs alongside the HTTP
// server. It can inspect live sessions, mint claim codes and request
// graceful shutdown. It only ever signals shutdown; tearing down the
// listener and closing the store belong to the server loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/homedrive/internal/logging"
	"github.com/dmitrijs2005/homedrive/internal/server/models"
)

// AccountAdmin is the slice of the account service the shell needs.
type AccountAdmin interface {
	CreateClaimCode(ctx context.Context, quotaBytes int64) (*models.ClaimCode, error)
	SessionCount() int
}

type Shell struct {
	logger          logging.Logger
	accounts        AccountAdmin
	in              io.Reader
	out             io.Writer
	requestShutdown context.CancelFunc
}

func New(l logging.Logger, accounts AccountAdmin, in io.Reader, out io.Writer, requestShutdown context.CancelFunc) *Shell {
	return &Shell{
		logger:          l.With("module", "shell"),
		accounts:        accounts,
		in:              in,
		out:             out,
		requestShutdown: requestShutdown,
	}
}

// Run reads operator commands until EOF, the context is cancelled, or a
// stop command arrives. A stop command cancels the root context and
// returns; it does not touch the store.
func (s *Shell) Run(ctx context.Context) {
	scanner := bufio.NewScanner(s.in)
	fmt.Fprintln(s.out, "homedrive operator shell; type 'help' for commands")

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "help":
			fmt.Fprintln(s.out, "commands: help, sessions, newcode [quota-bytes], stop")
		case "sessions":
			fmt.Fprintf(s.out, "live sessions: %d\n", s.accounts.SessionCount())
		case "newcode":
			s.newCode(ctx, fields[1:])
		case "stop", "exit", "quit":
			fmt.Fprintln(s.out, "shutting down...")
			s.requestShutdown()
			return
		default:
			fmt.Fprintf(s.out, "unknown command: %s\n", fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.Error(ctx, "shell input error", "error", err.Error())
	}
}

func (s *Shell) newCode(ctx context.Context, args []string) {
	var quota int64
	if len(args) > 0 {
		parsed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || parsed < 0 {
			fmt.Fprintf(s.out, "invalid quota: %s\n", args[0])
			return
		}
		quota = parsed
	}

	code, err := s.accounts.CreateClaimCode(ctx, quota)
	if err != nil {
		fmt.Fprintf(s.out, "failed to create claim code: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "claim code: %s (quota %d bytes)\n", code.Code, code.QuotaBytes)
}

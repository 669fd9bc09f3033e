package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eagle-protocol/vault-deployer/internal/chain"
)

// Waiter polls on-chain bytecode presence for the predicted addresses.
// Bytecode is the authoritative confirmation signal on both execution paths:
// a smart-wallet outer transaction can succeed while an inner deploy did not
// land.
type Waiter struct {
	reader   chain.Reader
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewWaiter(reader chain.Reader, interval, timeout time.Duration, logger *slog.Logger) *Waiter {
	return &Waiter{
		reader:   reader,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Wait blocks until every address carries code or the timeout elapses. The
// returned timeout error carries the submission reference so the user can
// inspect it before retrying; a signed batch cannot be unsent.
func (w *Waiter) Wait(ctx context.Context, entries []AddressEntry, submission Submission) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	pending := make(map[common.Address]AddressEntry, len(entries))
	for _, entry := range entries {
		pending[entry.Address] = entry
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		for addr, entry := range pending {
			code, err := w.reader.CodeAt(ctx, addr)
			if err != nil {
				if ctx.Err() != nil {
					return w.timeoutError(pending, submission)
				}
				w.logger.With("err", err.Error()).With("contract", entry.Name).Warn("bytecode check failed, will retry")
				continue
			}
			if len(code) > 0 {
				w.logger.With("contract", entry.Name).With("address", addr.Hex()).Info("bytecode confirmed")
				delete(pending, addr)
			}
		}

		if len(pending) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return w.timeoutError(pending, submission)
		case <-ticker.C:
		}
	}
}

func (w *Waiter) timeoutError(pending map[common.Address]AddressEntry, submission Submission) error {
	names := make([]string, 0, len(pending))
	for _, entry := range pending {
		names = append(names, fmt.Sprintf("%s@%s", entry.Name, entry.Address.Hex()))
	}

	return &ConfirmationTimeoutError{
		Ref:     submission.Ref(),
		Pending: names,
	}
}

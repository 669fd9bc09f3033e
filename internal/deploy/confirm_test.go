package deploy

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
)

func confirmEntries() []AddressEntry {
	return []AddressEntry{
		{artifacts.NameVault, common.HexToAddress("0x5000000000000000000000000000000000000001")},
		{artifacts.NameWrapper, common.HexToAddress("0x5000000000000000000000000000000000000002")},
	}
}

func TestWaiterAllConfirmedImmediately(t *testing.T) {
	reader := newStubReader(big.NewInt(31337))
	entries := confirmEntries()
	for _, entry := range entries {
		reader.setCode(entry.Address, []byte{0xfe})
	}

	waiter := NewWaiter(reader, time.Millisecond, time.Second, testLogger())
	err := waiter.Wait(context.Background(), entries, Submission{Kind: SubmissionKindBundle, BundleID: "0xabc"})
	assert.NoError(t, err)
}

func TestWaiterConfirmsAfterPolling(t *testing.T) {
	reader := newStubReader(big.NewInt(31337))
	entries := confirmEntries()
	reader.setCode(entries[0].Address, []byte{0xfe})

	// The second contract lands a little later, as on a real chain.
	go func() {
		time.Sleep(20 * time.Millisecond)
		reader.setCode(entries[1].Address, []byte{0xfe})
	}()

	waiter := NewWaiter(reader, 5*time.Millisecond, time.Second, testLogger())
	err := waiter.Wait(context.Background(), entries, Submission{Kind: SubmissionKindBundle, BundleID: "0xabc"})
	assert.NoError(t, err)
}

func TestWaiterTimeoutNamesPendingContracts(t *testing.T) {
	reader := newStubReader(big.NewInt(31337))
	entries := confirmEntries()
	reader.setCode(entries[0].Address, []byte{0xfe})
	// entries[1] never gets code.

	submission := Submission{Kind: SubmissionKindTransaction, TxHash: common.HexToHash("0xdead")}

	waiter := NewWaiter(reader, 5*time.Millisecond, 50*time.Millisecond, testLogger())
	err := waiter.Wait(context.Background(), entries, submission)

	var timeoutErr *ConfirmationTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, submission.Ref(), timeoutErr.Ref)
	require.Len(t, timeoutErr.Pending, 1)
	assert.Contains(t, timeoutErr.Pending[0], string(artifacts.NameWrapper))
}

func TestWaiterRespectsCallerCancellation(t *testing.T) {
	reader := newStubReader(big.NewInt(31337))
	entries := confirmEntries()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	waiter := NewWaiter(reader, time.Millisecond, time.Minute, testLogger())
	err := waiter.Wait(ctx, entries, Submission{Kind: SubmissionKindBundle, BundleID: "0xabc"})

	var timeoutErr *ConfirmationTimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

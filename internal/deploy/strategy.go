package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/eagle-protocol/vault-deployer/internal/chain"
)

const smartWalletBatchGasLimit = uint64(12_000_000)

type (
	SubmissionKind string

	// Submission identifies what was handed to the chain: a single outer
	// transaction on the smart-wallet path, a call bundle on the direct path.
	Submission struct {
		Kind     SubmissionKind
		TxHash   common.Hash
		BundleID string
	}

	// TxSigner signs transactions for the active account.
	TxSigner interface {
		Address() common.Address
		SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
	}

	// ExecutionStrategy submits the planned batch atomically. Exactly one
	// signature covers the whole multi-contract deployment. onSubmit, when
	// non-nil, fires after the signature is obtained and immediately before
	// the batch leaves for the chain.
	ExecutionStrategy interface {
		Name() string
		Execute(ctx context.Context, calls []Call, onSubmit func()) (Submission, error)
	}

	// SmartWalletStrategy submits one transaction calling the owner wallet's
	// batch-execution entry point. The signer pays gas; the owner contract is
	// the sender of every inner call.
	SmartWalletStrategy struct {
		sender  chain.TxSender
		signer  TxSigner
		owner   common.Address
		chainID *big.Int
		logger  *slog.Logger
	}

	// DirectBatchStrategy submits the calls as one atomic wallet bundle from
	// the signer's own address.
	DirectBatchStrategy struct {
		wallet  chain.BatchCaller
		from    common.Address
		chainID *big.Int
		logger  *slog.Logger
	}
)

const (
	SubmissionKindTransaction SubmissionKind = "transaction"
	SubmissionKindBundle      SubmissionKind = "bundle"
)

// Ref is the identifier the user should check when confirmation is ambiguous.
func (s Submission) Ref() string {
	if s.Kind == SubmissionKindBundle {
		return s.BundleID
	}
	return s.TxHash.Hex()
}

// SelectStrategy picks the execution path once per request: the smart-wallet
// path whenever the owner differs from the signer, the direct atomic batch
// otherwise.
func SelectStrategy(owner common.Address, signer TxSigner, chainID *big.Int, sender chain.TxSender, batcher chain.BatchCaller, logger *slog.Logger) ExecutionStrategy {
	if owner != signer.Address() {
		return &SmartWalletStrategy{
			sender:  sender,
			signer:  signer,
			owner:   owner,
			chainID: chainID,
			logger:  logger,
		}
	}

	return &DirectBatchStrategy{
		wallet:  batcher,
		from:    signer.Address(),
		chainID: chainID,
		logger:  logger,
	}
}

func (s *SmartWalletStrategy) Name() string {
	return "smart-wallet"
}

func (s *SmartWalletStrategy) Execute(ctx context.Context, calls []Call, onSubmit func()) (Submission, error) {
	data, err := ownerWalletABI.Pack("executeBatch", calls)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to encode executeBatch: %w", err)
	}

	nonce, err := s.sender.PendingNonceAt(ctx, s.signer.Address())
	if err != nil {
		return Submission{}, &SubmissionError{Message: "failed to prepare transaction", Err: err}
	}

	gasFeeCap, gasTipCap, err := s.sender.SuggestFees(ctx)
	if err != nil {
		return Submission{}, &SubmissionError{Message: "failed to prepare transaction", Err: err}
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
		Gas:       smartWalletBatchGasLimit,
		To:        &s.owner,
		Value:     big.NewInt(0),
		Data:      data,
	})

	signed, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return Submission{}, &SubmissionError{Message: "wallet refused to sign the deployment", Err: err}
	}

	if onSubmit != nil {
		onSubmit()
	}

	if err := s.sender.SendTransaction(ctx, signed); err != nil {
		return Submission{}, &SubmissionError{Message: "node rejected the deployment transaction", Err: err}
	}

	s.logger.With("tx_hash", signed.Hash().Hex()).Info("smart-wallet batch submitted")

	return Submission{Kind: SubmissionKindTransaction, TxHash: signed.Hash()}, nil
}

func (s *DirectBatchStrategy) Name() string {
	return "direct-batch"
}

func (s *DirectBatchStrategy) Execute(ctx context.Context, calls []Call, onSubmit func()) (Submission, error) {
	supported, err := s.wallet.AtomicBatchSupported(ctx, s.from, s.chainID)
	if err != nil {
		return Submission{}, &SubmissionError{Message: "failed to query wallet capabilities", Err: err}
	}
	if !supported {
		return Submission{}, &CapabilityError{
			Message: "this wallet cannot batch calls atomically",
			Details: "use a smart wallet, or an externally-owned account whose wallet supports atomic batching",
		}
	}

	batch := make([]chain.BatchCall, 0, len(calls))
	for _, call := range calls {
		batch = append(batch, chain.BatchCall{
			To:    call.Target,
			Value: (*hexutil.Big)(call.Value),
			Data:  call.Data,
		})
	}

	// wallet_sendCalls prompts for the signature and submits in one RPC,
	// so from here on the bundle is already on its way.
	if onSubmit != nil {
		onSubmit()
	}

	bundleID, err := s.wallet.SendCalls(ctx, chain.SendCallsRequest{
		From:           s.from,
		ChainID:        (*hexutil.Big)(s.chainID),
		AtomicRequired: true,
		Calls:          batch,
	})
	if err != nil {
		return Submission{}, &SubmissionError{Message: "wallet rejected the call bundle", Err: err}
	}

	s.logger.With("bundle_id", bundleID).Info("direct atomic batch submitted")

	return Submission{Kind: SubmissionKindBundle, BundleID: bundleID}, nil
}

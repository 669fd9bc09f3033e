package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type (
	// BatchCaller is the EIP-5792 wallet surface used by the direct-batch
	// execution path.
	BatchCaller interface {
		AtomicBatchSupported(ctx context.Context, account common.Address, chainID *big.Int) (bool, error)
		SendCalls(ctx context.Context, req SendCallsRequest) (string, error)
	}

	// BatchCall is one call of a wallet_sendCalls bundle.
	BatchCall struct {
		To    common.Address `json:"to"`
		Value *hexutil.Big   `json:"value,omitempty"`
		Data  hexutil.Bytes  `json:"data,omitempty"`
	}

	SendCallsRequest struct {
		Version        string         `json:"version"`
		From           common.Address `json:"from"`
		ChainID        *hexutil.Big   `json:"chainId"`
		AtomicRequired bool           `json:"atomicRequired"`
		Calls          []BatchCall    `json:"calls"`
	}

	sendCallsResult struct {
		ID string `json:"id"`
	}

	chainCapabilities struct {
		Atomic struct {
			Status string `json:"status"`
		} `json:"atomic"`
	}
)

// AtomicBatchSupported queries wallet_getCapabilities and reports whether the
// wallet can execute a bundle atomically on the given chain.
func (c *Client) AtomicBatchSupported(ctx context.Context, account common.Address, chainID *big.Int) (bool, error) {
	var caps map[string]chainCapabilities
	err := c.rpc.CallContext(ctx, &caps, "wallet_getCapabilities", account, []string{hexutil.EncodeBig(chainID)})
	if err != nil {
		return false, fmt.Errorf("failed to query wallet capabilities: %w", err)
	}

	chainCaps, ok := caps[hexutil.EncodeBig(chainID)]
	if !ok {
		return false, nil
	}

	status := chainCaps.Atomic.Status

	return status == "supported" || status == "ready", nil
}

// SendCalls submits a call bundle via wallet_sendCalls and returns the bundle id.
func (c *Client) SendCalls(ctx context.Context, req SendCallsRequest) (string, error) {
	if req.Version == "" {
		req.Version = "2.0.0"
	}

	var result sendCallsResult
	if err := c.rpc.CallContext(ctx, &result, "wallet_sendCalls", req); err != nil {
		return "", fmt.Errorf("failed to send call bundle: %w", err)
	}

	c.logger.With("bundle_id", result.ID).Info("call bundle sent")

	return result.ID, nil
}

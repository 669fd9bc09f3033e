package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/eagle-protocol/vault-deployer/internal/logger"
)

type (
	// Reader is the read-only chain surface the deployment protocol needs.
	Reader interface {
		CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
		CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
		ChainID(ctx context.Context) (*big.Int, error)
	}

	// TxSender submits plain signed transactions.
	TxSender interface {
		PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error)
		SuggestFees(ctx context.Context) (gasFeeCap, gasTipCap *big.Int, err error)
		SendTransaction(ctx context.Context, tx *types.Transaction) error
	}

	// Client wraps an ethclient plus its underlying RPC connection so wallet
	// methods outside the standard eth namespace stay reachable.
	Client struct {
		eth    *ethclient.Client
		rpc    *rpc.Client
		logger *slog.Logger
	}
)

// Dial connects to an RPC endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC at %s: %w", url, err)
	}

	return &Client{
		eth:    ethclient.NewClient(rpcClient),
		rpc:    rpcClient,
		logger: logger.Named("chain_client"),
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch code at %s: %w", addr.Hex(), err)
	}
	return code, nil
}

func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}

	result, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract %s: %w", to.Hex(), err)
	}

	return result, nil
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID, nil
}

func (c *Client) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce for %s: %w", addr.Hex(), err)
	}
	return nonce, nil
}

func (c *Client) SuggestFees(ctx context.Context) (*big.Int, *big.Int, error) {
	tipCap, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get gas tip cap: %w", err)
	}

	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chain head: %w", err)
	}

	feeCap := new(big.Int).Add(
		tipCap,
		new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
	)

	return feeCap, tipCap, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.With("tx_hash", tx.Hash().Hex()).Info("transaction sent")

	return nil
}

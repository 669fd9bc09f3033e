package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/chain"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
)

// stubReader serves bytecode and view-call results from in-memory maps. It is
// safe for the concurrent reads preflight issues.
type stubReader struct {
	mu       sync.Mutex
	code     map[common.Address][]byte
	handlers map[common.Address]func(data []byte) ([]byte, error)
	chainID  *big.Int
}

func newStubReader(chainID *big.Int) *stubReader {
	return &stubReader{
		code:     make(map[common.Address][]byte),
		handlers: make(map[common.Address]func(data []byte) ([]byte, error)),
		chainID:  chainID,
	}
}

func (r *stubReader) setCode(addr common.Address, code []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code[addr] = code
}

func (r *stubReader) handle(addr common.Address, fn func(data []byte) ([]byte, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[addr] = fn
}

func (r *stubReader) CodeAt(_ context.Context, addr common.Address) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.code[addr], nil
}

func (r *stubReader) CallContract(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	r.mu.Lock()
	handler := r.handlers[to]
	r.mu.Unlock()

	if handler == nil {
		return nil, fmt.Errorf("no handler for contract %s", to.Hex())
	}
	return handler(data)
}

func (r *stubReader) ChainID(context.Context) (*big.Int, error) {
	return r.chainID, nil
}

// viewHandler dispatches incoming calls by 4-byte selector and answers each
// method with the packed value registered for it.
func viewHandler(contractABI abi.ABI, results map[string]any) func(data []byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		if len(data) < 4 {
			return nil, fmt.Errorf("call data too short")
		}
		method, err := contractABI.MethodById(data[:4])
		if err != nil {
			return nil, err
		}
		value, ok := results[method.Name]
		if !ok {
			return nil, fmt.Errorf("no stubbed result for %s", method.Name)
		}
		return method.Outputs.Pack(value)
	}
}

type stubSender struct {
	mu     sync.Mutex
	sent   []*types.Transaction
	err    error
	onSend func(*types.Transaction)
}

func (s *stubSender) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (s *stubSender) SuggestFees(context.Context) (*big.Int, *big.Int, error) {
	return big.NewInt(30_000_000_000), big.NewInt(1_000_000_000), nil
}

func (s *stubSender) SendTransaction(_ context.Context, tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, tx)
	if s.onSend != nil {
		s.onSend(tx)
	}
	return nil
}

type stubBatcher struct {
	supported bool
	bundleID  string
	sendErr   error
	requests  []chain.SendCallsRequest
	onSend    func(chain.SendCallsRequest)
}

func (b *stubBatcher) AtomicBatchSupported(context.Context, common.Address, *big.Int) (bool, error) {
	return b.supported, nil
}

func (b *stubBatcher) SendCalls(_ context.Context, req chain.SendCallsRequest) (string, error) {
	if b.sendErr != nil {
		return "", b.sendErr
	}
	b.requests = append(b.requests, req)
	if b.onSend != nil {
		b.onSend(req)
	}
	return b.bundleID, nil
}

// testInfra returns an address book with distinct recognizable addresses.
func testInfra() configs.Infrastructure {
	return configs.Infrastructure{
		ChainName:         "testchain",
		ChainID:           31337,
		LocalDeployer:     common.HexToAddress("0x1000000000000000000000000000000000000001"),
		UniversalFactory:  common.HexToAddress("0x1000000000000000000000000000000000000002"),
		EndpointRegistry:  common.HexToAddress("0x1000000000000000000000000000000000000003"),
		PoolManager:       common.HexToAddress("0x1000000000000000000000000000000000000004"),
		Hook:              common.HexToAddress("0x1000000000000000000000000000000000000005"),
		PriceFeed:         common.HexToAddress("0x1000000000000000000000000000000000000006"),
		ActivationBatcher: common.HexToAddress("0x1000000000000000000000000000000000000007"),
		LotteryManager:    common.HexToAddress("0x1000000000000000000000000000000000000008"),
	}
}

func testRequest() Request {
	return Request{
		CreatorToken: common.HexToAddress("0x2000000000000000000000000000000000000001"),
		ShareName:    "Eagle Creator Share",
		ShareSymbol:  "ECS",
		Owner:        common.HexToAddress("0x2000000000000000000000000000000000000002"),
		ChainID:      big.NewInt(31337),
	}
}

func testArtifacts(t *testing.T) artifacts.Set {
	t.Helper()
	set, err := artifacts.Load()
	require.NoError(t, err)
	return set
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

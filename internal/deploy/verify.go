package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/chain"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
)

type (
	// Check is one verified wiring edge.
	Check struct {
		Edge        string
		Passed      bool
		Explanation string
	}

	// VerificationReport is the ordered result of re-reading the deployed
	// graph. Produced once after confirmation, never mutated afterwards.
	VerificationReport struct {
		Checks []Check
	}

	// Verifier re-reads every wiring edge the planner wrote and asserts it
	// against the intended graph.
	Verifier struct {
		reader chain.Reader
		infra  configs.Infrastructure
		logger *slog.Logger
	}

	addressEdge struct {
		edge     string
		abi      abi.ABI
		target   common.Address
		method   string
		args     []any
		expected common.Address
	}

	boolEdge struct {
		edge   string
		abi    abi.ABI
		target common.Address
		method string
		args   []any
	}
)

func (r *VerificationReport) Passed() bool {
	for _, check := range r.Checks {
		if !check.Passed {
			return false
		}
	}
	return true
}

func (r *VerificationReport) FailedEdges() []string {
	var edges []string
	for _, check := range r.Checks {
		if !check.Passed {
			edges = append(edges, check.Edge)
		}
	}
	return edges
}

func NewVerifier(reader chain.Reader, infra configs.Infrastructure, logger *slog.Logger) *Verifier {
	return &Verifier{
		reader: reader,
		infra:  infra,
		logger: logger,
	}
}

// Verify checks every wiring edge independently; a read failure marks the
// edge failed rather than aborting the report.
func (v *Verifier) Verify(ctx context.Context, req Request, addrs AddressSet, set artifacts.Set) *VerificationReport {
	req = req.Normalized()

	report := &VerificationReport{}

	addressEdges := []addressEdge{
		{"wrapper.shareToken", set[artifacts.NameWrapper].ABI, addrs.Wrapper, "shareToken", nil, addrs.ShareToken},
		{"shareToken.registry", set[artifacts.NameShareToken].ABI, addrs.ShareToken, "registry", nil, addrs.Registry},
		{"shareToken.vault", set[artifacts.NameShareToken].ABI, addrs.ShareToken, "vault", nil, addrs.Vault},
		{"shareToken.feeSink", set[artifacts.NameShareToken].ABI, addrs.ShareToken, "feeSink", nil, addrs.Gauge},
		{"gauge.vault", set[artifacts.NameGaugeController].ABI, addrs.Gauge, "vault", nil, addrs.Vault},
		{"gauge.wrapper", set[artifacts.NameGaugeController].ABI, addrs.Gauge, "wrapper", nil, addrs.Wrapper},
		{"gauge.creatorToken", set[artifacts.NameGaugeController].ABI, addrs.Gauge, "creatorToken", nil, req.CreatorToken},
		{"gauge.lotteryManager", set[artifacts.NameGaugeController].ABI, addrs.Gauge, "lotteryManager", nil, v.infra.LotteryManager},
		{"vault.gauge", set[artifacts.NameVault].ABI, addrs.Vault, "gauge", nil, addrs.Gauge},
	}
	if req.IncludeOracle {
		addressEdges = append(addressEdges,
			addressEdge{"gauge.oracle", set[artifacts.NameGaugeController].ABI, addrs.Gauge, "oracle", nil, addrs.Oracle},
			addressEdge{"strategy.oracle", set[artifacts.NameLaunchStrategy].ABI, addrs.Strategy, "oracle", nil, addrs.Oracle},
		)
	}

	boolEdges := []boolEdge{
		{"shareToken.isMinter(wrapper)", set[artifacts.NameShareToken].ABI, addrs.ShareToken, "isMinter", []any{addrs.Wrapper}},
		{"vault.approvedCallers(wrapper)", set[artifacts.NameVault].ABI, addrs.Vault, "approvedCallers", []any{addrs.Wrapper}},
		{"strategy.approvedLaunchers(activationBatcher)", set[artifacts.NameLaunchStrategy].ABI, addrs.Strategy, "approvedLaunchers", []any{v.infra.ActivationBatcher}},
	}

	for _, edge := range addressEdges {
		report.Checks = append(report.Checks, v.checkAddress(ctx, edge.edge, edge.abi, edge.target, edge.method, edge.args, edge.expected))
	}
	for _, edge := range boolEdges {
		report.Checks = append(report.Checks, v.checkBool(ctx, edge.edge, edge.abi, edge.target, edge.method, edge.args))
	}

	for _, check := range report.Checks {
		v.logger.
			With("edge", check.Edge).
			With("passed", check.Passed).
			Debug("wiring edge verified")
	}

	return report
}

func (v *Verifier) checkAddress(ctx context.Context, edge string, contractABI abi.ABI, target common.Address, method string, args []any, expected common.Address) Check {
	value, err := v.read(ctx, contractABI, target, method, args)
	if err != nil {
		return Check{Edge: edge, Passed: false, Explanation: err.Error()}
	}

	actual, ok := value.(common.Address)
	if !ok {
		return Check{Edge: edge, Passed: false, Explanation: fmt.Sprintf("unexpected return type %T", value)}
	}

	if actual != expected {
		return Check{
			Edge:        edge,
			Passed:      false,
			Explanation: fmt.Sprintf("expected %s, contract reports %s", expected.Hex(), actual.Hex()),
		}
	}

	return Check{Edge: edge, Passed: true, Explanation: fmt.Sprintf("points at %s", expected.Hex())}
}

func (v *Verifier) checkBool(ctx context.Context, edge string, contractABI abi.ABI, target common.Address, method string, args []any) Check {
	value, err := v.read(ctx, contractABI, target, method, args)
	if err != nil {
		return Check{Edge: edge, Passed: false, Explanation: err.Error()}
	}

	actual, ok := value.(bool)
	if !ok {
		return Check{Edge: edge, Passed: false, Explanation: fmt.Sprintf("unexpected return type %T", value)}
	}

	if !actual {
		return Check{Edge: edge, Passed: false, Explanation: "expected true, contract reports false"}
	}

	return Check{Edge: edge, Passed: true, Explanation: "approved"}
}

func (v *Verifier) read(ctx context.Context, contractABI abi.ABI, target common.Address, method string, args []any) (any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	result, err := v.reader.CallContract(ctx, target, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", method, err)
	}

	values, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected %s result arity %d", method, len(values))
	}

	return values[0], nil
}

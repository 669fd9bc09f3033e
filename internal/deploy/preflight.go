package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/chain"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
	"github.com/eagle-protocol/vault-deployer/internal/oracle"
)

type (
	// Preflight runs every read-only check that must pass before a signature
	// is requested.
	Preflight struct {
		reader chain.Reader
		infra  configs.Infrastructure
		logger *slog.Logger
	}

	// Findings carries chain state the planner needs: whether the bootstrap
	// registry already exists, the resolved messaging endpoint for this
	// chain, and the oracle venue parameters when an oracle was requested.
	Findings struct {
		RegistryDeployed bool
		Endpoint         common.Address
		OracleParams     *oracle.Params
	}
)

func NewPreflight(reader chain.Reader, infra configs.Infrastructure, logger *slog.Logger) *Preflight {
	return &Preflight{
		reader: reader,
		infra:  infra,
		logger: logger,
	}
}

// Run dispatches the ownership, dependency, collision and endpoint checks in
// parallel. Any failure aborts the deployment before a single call is built.
func (p *Preflight) Run(ctx context.Context, req Request, prediction Prediction, signer common.Address) (Findings, error) {
	req = req.Normalized()

	var findings Findings

	g, ctx := errgroup.WithContext(ctx)

	if req.Owner != signer {
		g.Go(func() error {
			return p.checkOwnership(ctx, req.Owner, signer)
		})
	}

	for _, dep := range p.dependencies(req) {
		g.Go(func() error {
			return p.checkDependency(ctx, dep.name, dep.addr)
		})
	}

	registryDeployed := false
	for _, entry := range prediction.Addresses.Entries(req.IncludeOracle) {
		g.Go(func() error {
			code, err := p.reader.CodeAt(ctx, entry.Address)
			if err != nil {
				return fmt.Errorf("failed to check target %s: %w", entry.Name, err)
			}
			if len(code) == 0 {
				return nil
			}

			// The bootstrap registry is shared across all of an owner's
			// deployments; finding it on-chain is expected, and the planner
			// skips its deploy call.
			if entry.Name == artifacts.NameBootstrapRegistry {
				registryDeployed = true
				return nil
			}

			return &PreflightError{
				Reason:  ReasonTargetAlreadyDeployed,
				Message: "a deployment already exists for this input",
				Details: fmt.Sprintf("%s at %s already has bytecode", entry.Name, entry.Address.Hex()),
			}
		})
	}

	var endpoint common.Address
	g.Go(func() error {
		resolved, err := p.resolveEndpoint(ctx, req.ChainID)
		if err != nil {
			return err
		}
		endpoint = resolved
		return nil
	})

	var oracleParams *oracle.Params
	if req.IncludeOracle {
		g.Go(func() error {
			params, err := p.readOracleParams(ctx, req.CreatorToken)
			if err != nil {
				return err
			}
			oracleParams = params
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Findings{}, err
	}

	findings.RegistryDeployed = registryDeployed
	findings.Endpoint = endpoint
	findings.OracleParams = oracleParams

	p.logger.
		With("registry_deployed", findings.RegistryDeployed).
		With("endpoint", findings.Endpoint.Hex()).
		Info("preflight checks passed")

	return findings, nil
}

// checkOwnership requires the owner contract to exist and to report the
// signer as an authorized controller.
func (p *Preflight) checkOwnership(ctx context.Context, owner, signer common.Address) error {
	code, err := p.reader.CodeAt(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to check owner contract: %w", err)
	}
	if len(code) == 0 {
		return &PreflightError{
			Reason:  ReasonOwnerNotDeployed,
			Message: "owner wallet not deployed",
			Details: fmt.Sprintf("no bytecode at owner address %s", owner.Hex()),
		}
	}

	data, err := ownerWalletABI.Pack("isController", signer)
	if err != nil {
		return fmt.Errorf("failed to encode isController call: %w", err)
	}

	result, err := p.reader.CallContract(ctx, owner, data)
	if err != nil {
		return fmt.Errorf("failed to read owner controllers: %w", err)
	}

	values, err := ownerWalletABI.Unpack("isController", result)
	if err != nil {
		return fmt.Errorf("failed to decode isController result: %w", err)
	}

	authorized := len(values) == 1 && values[0] == true
	if !authorized {
		return &PreflightError{
			Reason:  ReasonSignerNotAuthorized,
			Message: "connected signer is not a controller of the owner wallet",
			Details: fmt.Sprintf("owner %s does not recognize signer %s", owner.Hex(), signer.Hex()),
		}
	}

	return nil
}

func (p *Preflight) checkDependency(ctx context.Context, name string, addr common.Address) error {
	code, err := p.reader.CodeAt(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to check dependency %s: %w", name, err)
	}
	if len(code) == 0 {
		return &PreflightError{
			Reason:  ReasonMissingDependency,
			Message: fmt.Sprintf("required contract %s is not deployed on this chain", name),
			Details: fmt.Sprintf("no bytecode at %s", addr.Hex()),
		}
	}
	return nil
}

// resolveEndpoint looks up the cross-chain messaging endpoint for the current
// chain; a zero result aborts rather than guessing a default.
func (p *Preflight) resolveEndpoint(ctx context.Context, chainID *big.Int) (common.Address, error) {
	data, err := endpointRegistryABI.Pack("endpointForChain", chainID)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to encode endpoint lookup: %w", err)
	}

	result, err := p.reader.CallContract(ctx, p.infra.EndpointRegistry, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to resolve messaging endpoint: %w", err)
	}

	values, err := endpointRegistryABI.Unpack("endpointForChain", result)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode endpoint lookup: %w", err)
	}

	endpoint, ok := values[0].(common.Address)
	if !ok || endpoint == (common.Address{}) {
		return common.Address{}, &PreflightError{
			Reason:  ReasonEndpointNotResolvable,
			Message: "no messaging endpoint registered for this chain",
			Details: fmt.Sprintf("endpoint registry %s returned zero for chain %s", p.infra.EndpointRegistry.Hex(), chainID),
		}
	}

	return endpoint, nil
}

func (p *Preflight) readOracleParams(ctx context.Context, creatorToken common.Address) (*oracle.Params, error) {
	tickData, err := hookABI.Pack("currentTick", creatorToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tick read: %w", err)
	}

	tickResult, err := p.reader.CallContract(ctx, p.infra.Hook, tickData)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool tick: %w", err)
	}

	tickValues, err := hookABI.Unpack("currentTick", tickResult)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pool tick: %w", err)
	}

	answerData, err := priceFeedABI.Pack("latestAnswer")
	if err != nil {
		return nil, fmt.Errorf("failed to encode price feed read: %w", err)
	}

	answerResult, err := p.reader.CallContract(ctx, p.infra.PriceFeed, answerData)
	if err != nil {
		return nil, fmt.Errorf("failed to read price feed: %w", err)
	}

	answerValues, err := priceFeedABI.Unpack("latestAnswer", answerResult)
	if err != nil {
		return nil, fmt.Errorf("failed to decode price feed answer: %w", err)
	}

	tick, ok := tickValues[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected tick type %T", tickValues[0])
	}
	answer, ok := answerValues[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected price feed answer type %T", answerValues[0])
	}

	params := oracle.DeriveParams(tick, answer)
	return &params, nil
}

func (p *Preflight) dependencies(req Request) []struct {
	name string
	addr common.Address
} {
	deps := []struct {
		name string
		addr common.Address
	}{
		{"local deployer", p.infra.LocalDeployer},
		{"universal factory", p.infra.UniversalFactory},
		{"endpoint registry", p.infra.EndpointRegistry},
		{"pool manager", p.infra.PoolManager},
		{"hook", p.infra.Hook},
		{"activation batcher", p.infra.ActivationBatcher},
		{"lottery manager", p.infra.LotteryManager},
	}

	if req.IncludeOracle {
		deps = append(deps, struct {
			name string
			addr common.Address
		}{"price feed aggregator", p.infra.PriceFeed})
	}

	return deps
}

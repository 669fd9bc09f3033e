package deploy

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
)

type (
	// Call is one atomic unit of the deployment batch.
	Call struct {
		Target common.Address
		Value  *big.Int
		Data   []byte
	}

	// Planner assembles the ordered call batch: factory deployments first,
	// wiring afterwards. A wiring call never precedes the deployment of its
	// target.
	Planner struct {
		infra  configs.Infrastructure
		logger *slog.Logger
	}
)

func NewPlanner(infra configs.Infrastructure, logger *slog.Logger) *Planner {
	return &Planner{
		infra:  infra,
		logger: logger,
	}
}

// Plan builds the full deployment batch for a request. The bootstrap-registry
// deployment is omitted when preflight already found it on-chain; the
// endpoint-configuration call is always included since repeating it with the
// same value is harmless.
func (p *Planner) Plan(req Request, salts SaltSet, prediction Prediction, findings Findings, set artifacts.Set) ([]Call, error) {
	req = req.Normalized()
	addrs := prediction.Addresses

	var calls []Call

	// Same-chain contracts through the local deployer.
	for _, name := range []artifacts.Name{artifacts.NameVault, artifacts.NameWrapper} {
		call, err := p.localDeployCall(name, salts, prediction)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}

	// Chain-agnostic contracts through the universal factory. The factory
	// takes raw salt ++ initCode as call data, no selector.
	if !findings.RegistryDeployed {
		calls = append(calls, p.universalDeployCall(salts.Registry, prediction.InitCodes[artifacts.NameBootstrapRegistry]))
	}

	endpointData, err := set[artifacts.NameBootstrapRegistry].ABI.Pack("setEndpoint", req.ChainID, findings.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setEndpoint call: %w", err)
	}
	calls = append(calls, Call{Target: addrs.Registry, Value: big.NewInt(0), Data: endpointData})

	calls = append(calls, p.universalDeployCall(salts.Share, prediction.InitCodes[artifacts.NameShareToken]))

	gaugeDeploy, err := p.localDeployCall(artifacts.NameGaugeController, salts, prediction)
	if err != nil {
		return nil, err
	}
	calls = append(calls, gaugeDeploy)

	strategyDeploy, err := p.localDeployCall(artifacts.NameLaunchStrategy, salts, prediction)
	if err != nil {
		return nil, err
	}
	calls = append(calls, strategyDeploy)

	if req.IncludeOracle {
		oracleDeploy, err := p.localDeployCall(artifacts.NameOracle, salts, prediction)
		if err != nil {
			return nil, err
		}
		calls = append(calls, oracleDeploy)
	}

	wiring, err := p.wiringCalls(req, addrs, findings, set)
	if err != nil {
		return nil, err
	}
	calls = append(calls, wiring...)

	p.logger.
		With("calls", len(calls)).
		With("registry_deploy_skipped", findings.RegistryDeployed).
		Info("deployment batch planned")

	return calls, nil
}

// wiringCalls points every deployed contract at its collaborators, one
// configuration call per contract.
func (p *Planner) wiringCalls(req Request, addrs AddressSet, findings Findings, set artifacts.Set) ([]Call, error) {
	var calls []Call

	appendCall := func(name artifacts.Name, target common.Address, method string, args ...any) error {
		data, err := set[name].ABI.Pack(method, args...)
		if err != nil {
			return fmt.Errorf("failed to encode %s.%s: %w", name, method, err)
		}
		calls = append(calls, Call{Target: target, Value: big.NewInt(0), Data: data})
		return nil
	}

	if err := appendCall(artifacts.NameWrapper, addrs.Wrapper, "setShareToken", addrs.ShareToken); err != nil {
		return nil, err
	}
	if err := appendCall(artifacts.NameShareToken, addrs.ShareToken, "configure", addrs.Registry, addrs.Vault, addrs.Wrapper, addrs.Gauge); err != nil {
		return nil, err
	}
	if err := appendCall(artifacts.NameGaugeController, addrs.Gauge, "configure", addrs.Vault, addrs.Wrapper, req.CreatorToken, p.infra.LotteryManager, addrs.Oracle); err != nil {
		return nil, err
	}
	if err := appendCall(artifacts.NameVault, addrs.Vault, "configure", addrs.Gauge, addrs.Wrapper); err != nil {
		return nil, err
	}

	// Without this approval the protocol's automated graduation step can
	// never fire.
	if err := appendCall(artifacts.NameLaunchStrategy, addrs.Strategy, "setApprovedLauncher", p.infra.ActivationBatcher, true); err != nil {
		return nil, err
	}

	if req.IncludeOracle {
		if findings.OracleParams == nil {
			return nil, fmt.Errorf("oracle requested but no oracle params resolved")
		}
		if err := appendCall(artifacts.NameLaunchStrategy, addrs.Strategy, "setOracleParams",
			addrs.Oracle, findings.OracleParams.Bucket, findings.OracleParams.TwapUSD); err != nil {
			return nil, err
		}
	}

	return calls, nil
}

func (p *Planner) localDeployCall(name artifacts.Name, salts SaltSet, prediction Prediction) (Call, error) {
	salt, err := saltFor(name, salts)
	if err != nil {
		return Call{}, err
	}

	initCode, ok := prediction.InitCodes[name]
	if !ok {
		return Call{}, fmt.Errorf("no init code predicted for %s", name)
	}

	data, err := localDeployerABI.Pack("deploy", salt, initCode)
	if err != nil {
		return Call{}, fmt.Errorf("failed to encode deploy call for %s: %w", name, err)
	}

	return Call{Target: p.infra.LocalDeployer, Value: big.NewInt(0), Data: data}, nil
}

func (p *Planner) universalDeployCall(salt common.Hash, initCode []byte) Call {
	data := make([]byte, 0, len(salt)+len(initCode))
	data = append(data, salt.Bytes()...)
	data = append(data, initCode...)

	return Call{Target: p.infra.UniversalFactory, Value: big.NewInt(0), Data: data}
}

func saltFor(name artifacts.Name, salts SaltSet) ([32]byte, error) {
	switch name {
	case artifacts.NameVault:
		return salts.Vault, nil
	case artifacts.NameWrapper:
		return salts.Wrapper, nil
	case artifacts.NameGaugeController:
		return salts.Gauge, nil
	case artifacts.NameLaunchStrategy:
		return salts.Strategy, nil
	case artifacts.NameOracle:
		return salts.Oracle, nil
	default:
		return [32]byte{}, fmt.Errorf("no same-chain salt for %s", name)
	}
}

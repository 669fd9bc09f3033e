package deploy

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
)

type (
	// AddressSet is every address one deployment will occupy, computed before
	// any call is sent. Oracle stays zero when the request does not include one.
	AddressSet struct {
		Vault      common.Address
		Wrapper    common.Address
		ShareToken common.Address
		Gauge      common.Address
		Strategy   common.Address
		Oracle     common.Address
		Registry   common.Address
	}

	// AddressEntry is a named address for downstream consumers (UI progress,
	// the vault health report).
	AddressEntry struct {
		Name    artifacts.Name
		Address common.Address
	}

	// Prediction pairs the predicted addresses with the init codes they were
	// derived from, so planning reuses the exact bytes the prediction hashed.
	Prediction struct {
		Addresses AddressSet
		InitCodes map[artifacts.Name][]byte
	}
)

// Predict computes the full address set for a request. Recomputing from the
// same request always yields the same result.
func Predict(req Request, salts SaltSet, infra configs.Infrastructure, set artifacts.Set) (Prediction, error) {
	req = req.Normalized()

	prediction := Prediction{
		InitCodes: make(map[artifacts.Name][]byte, 7),
	}

	vaultInit, err := initCodeFor(set, artifacts.NameVault, req.CreatorToken, req.CreatorTreasury, req.Owner)
	if err != nil {
		return Prediction{}, err
	}
	prediction.InitCodes[artifacts.NameVault] = vaultInit
	prediction.Addresses.Vault = PredictAddress(infra.LocalDeployer, salts.Vault, vaultInit)

	wrapperInit, err := initCodeFor(set, artifacts.NameWrapper, prediction.Addresses.Vault, req.Owner)
	if err != nil {
		return Prediction{}, err
	}
	prediction.InitCodes[artifacts.NameWrapper] = wrapperInit
	prediction.Addresses.Wrapper = PredictAddress(infra.LocalDeployer, salts.Wrapper, wrapperInit)

	// Registry and share token go through the universal factory with
	// chain-agnostic salts and chain-agnostic constructor args: identical
	// (owner, shareSymbol) lands on identical addresses on every chain.
	registryInit, err := initCodeFor(set, artifacts.NameBootstrapRegistry, req.Owner)
	if err != nil {
		return Prediction{}, err
	}
	prediction.InitCodes[artifacts.NameBootstrapRegistry] = registryInit
	prediction.Addresses.Registry = PredictAddress(infra.UniversalFactory, salts.Registry, registryInit)

	shareInit, err := initCodeFor(set, artifacts.NameShareToken, req.ShareName, req.ShareSymbol, req.Owner)
	if err != nil {
		return Prediction{}, err
	}
	prediction.InitCodes[artifacts.NameShareToken] = shareInit
	prediction.Addresses.ShareToken = PredictAddress(infra.UniversalFactory, salts.Share, shareInit)

	gaugeInit, err := initCodeFor(set, artifacts.NameGaugeController, req.Owner)
	if err != nil {
		return Prediction{}, err
	}
	prediction.InitCodes[artifacts.NameGaugeController] = gaugeInit
	prediction.Addresses.Gauge = PredictAddress(infra.LocalDeployer, salts.Gauge, gaugeInit)

	strategyInit, err := initCodeFor(set, artifacts.NameLaunchStrategy, prediction.Addresses.Vault, infra.PoolManager, infra.Hook, req.Owner)
	if err != nil {
		return Prediction{}, err
	}
	prediction.InitCodes[artifacts.NameLaunchStrategy] = strategyInit
	prediction.Addresses.Strategy = PredictAddress(infra.LocalDeployer, salts.Strategy, strategyInit)

	if req.IncludeOracle {
		oracleInit, err := initCodeFor(set, artifacts.NameOracle, req.CreatorToken, infra.PriceFeed, req.Owner)
		if err != nil {
			return Prediction{}, err
		}
		prediction.InitCodes[artifacts.NameOracle] = oracleInit
		prediction.Addresses.Oracle = PredictAddress(infra.LocalDeployer, salts.Oracle, oracleInit)
	}

	return prediction, nil
}

func initCodeFor(set artifacts.Set, name artifacts.Name, args ...any) ([]byte, error) {
	artifact, err := set.Get(name)
	if err != nil {
		return nil, err
	}

	initCode, err := artifact.InitCode(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build init code: %w", err)
	}

	return initCode, nil
}

// Entries lists the planned contracts in deployment order.
func (s AddressSet) Entries(includeOracle bool) []AddressEntry {
	entries := []AddressEntry{
		{artifacts.NameVault, s.Vault},
		{artifacts.NameWrapper, s.Wrapper},
		{artifacts.NameBootstrapRegistry, s.Registry},
		{artifacts.NameShareToken, s.ShareToken},
		{artifacts.NameGaugeController, s.Gauge},
		{artifacts.NameLaunchStrategy, s.Strategy},
	}
	if includeOracle {
		entries = append(entries, AddressEntry{artifacts.NameOracle, s.Oracle})
	}
	return entries
}

// All lists the planned addresses in deployment order.
func (s AddressSet) All(includeOracle bool) []common.Address {
	entries := s.Entries(includeOracle)
	addrs := make([]common.Address, 0, len(entries))
	for _, entry := range entries {
		addrs = append(addrs, entry.Address)
	}
	return addrs
}

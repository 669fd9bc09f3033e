package configs

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

//go:embed chains.yaml
var chainsYAML []byte

type (
	// Infrastructure is the per-chain book of shared protocol contracts the
	// deployment batch depends on. All of them must already carry bytecode
	// before a deployment is attempted.
	Infrastructure struct {
		ChainName         string         `yaml:"name"`
		ChainID           int64          `yaml:"id"`
		LocalDeployer     common.Address `yaml:"-"`
		UniversalFactory  common.Address `yaml:"-"`
		EndpointRegistry  common.Address `yaml:"-"`
		PoolManager       common.Address `yaml:"-"`
		Hook              common.Address `yaml:"-"`
		PriceFeed         common.Address `yaml:"-"`
		ActivationBatcher common.Address `yaml:"-"`
		LotteryManager    common.Address `yaml:"-"`
	}

	rawInfrastructure struct {
		Name              string `yaml:"name"`
		ID                int64  `yaml:"id"`
		LocalDeployer     string `yaml:"local-deployer"`
		UniversalFactory  string `yaml:"universal-factory"`
		EndpointRegistry  string `yaml:"endpoint-registry"`
		PoolManager       string `yaml:"pool-manager"`
		Hook              string `yaml:"hook"`
		PriceFeed         string `yaml:"price-feed"`
		ActivationBatcher string `yaml:"activation-batcher"`
		LotteryManager    string `yaml:"lottery-manager"`
	}

	chainsFile struct {
		Chains []rawInfrastructure `yaml:"chains"`
	}
)

var (
	chainsOnce sync.Once
	chainsByID map[int64]Infrastructure
	chainsErr  error
)

// InfrastructureFor returns the shared-contract address book for a chain.
func InfrastructureFor(chainID int64) (Infrastructure, error) {
	chainsOnce.Do(loadChains)
	if chainsErr != nil {
		return Infrastructure{}, chainsErr
	}

	infra, ok := chainsByID[chainID]
	if !ok {
		return Infrastructure{}, fmt.Errorf("chain %d is not in the embedded chain registry", chainID)
	}

	return infra, nil
}

func loadChains() {
	var file chainsFile
	if err := yaml.Unmarshal(chainsYAML, &file); err != nil {
		chainsErr = fmt.Errorf("failed to parse embedded chains.yaml: %w", err)
		return
	}

	chainsByID = make(map[int64]Infrastructure, len(file.Chains))
	for _, raw := range file.Chains {
		infra, err := raw.resolve()
		if err != nil {
			chainsErr = fmt.Errorf("chains.yaml entry %q: %w", raw.Name, err)
			return
		}
		chainsByID[raw.ID] = infra
	}
}

func (r rawInfrastructure) resolve() (Infrastructure, error) {
	infra := Infrastructure{ChainName: r.Name, ChainID: r.ID}

	fields := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"local-deployer", r.LocalDeployer, &infra.LocalDeployer},
		{"universal-factory", r.UniversalFactory, &infra.UniversalFactory},
		{"endpoint-registry", r.EndpointRegistry, &infra.EndpointRegistry},
		{"pool-manager", r.PoolManager, &infra.PoolManager},
		{"hook", r.Hook, &infra.Hook},
		{"price-feed", r.PriceFeed, &infra.PriceFeed},
		{"activation-batcher", r.ActivationBatcher, &infra.ActivationBatcher},
		{"lottery-manager", r.LotteryManager, &infra.LotteryManager},
	}

	for _, f := range fields {
		if !common.IsHexAddress(f.value) {
			return Infrastructure{}, fmt.Errorf("%s %q is not a valid address", f.name, f.value)
		}
		*f.dst = common.HexToAddress(f.value)
	}

	return infra, nil
}

package deploy

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABIs of contracts the protocol talks to but does not deploy.
var (
	localDeployerABI = mustABI(`[{"type":"function","name":"deploy","inputs":[{"name":"_salt","type":"bytes32","internalType":"bytes32"},{"name":"_initCode","type":"bytes","internalType":"bytes"}],"outputs":[{"name":"","type":"address","internalType":"address"}],"stateMutability":"payable"}]`)

	endpointRegistryABI = mustABI(`[{"type":"function","name":"endpointForChain","inputs":[{"name":"_chainId","type":"uint256","internalType":"uint256"}],"outputs":[{"name":"","type":"address","internalType":"address"}],"stateMutability":"view"}]`)

	ownerWalletABI = mustABI(`[{"type":"function","name":"isController","inputs":[{"name":"_account","type":"address","internalType":"address"}],"outputs":[{"name":"","type":"bool","internalType":"bool"}],"stateMutability":"view"},{"type":"function","name":"executeBatch","inputs":[{"name":"_calls","type":"tuple[]","internalType":"struct Call[]","components":[{"name":"target","type":"address","internalType":"address"},{"name":"value","type":"uint256","internalType":"uint256"},{"name":"data","type":"bytes","internalType":"bytes"}]}],"outputs":[],"stateMutability":"payable"}]`)

	priceFeedABI = mustABI(`[{"type":"function","name":"latestAnswer","inputs":[],"outputs":[{"name":"","type":"int256","internalType":"int256"}],"stateMutability":"view"}]`)

	hookABI = mustABI(`[{"type":"function","name":"currentTick","inputs":[{"name":"_token","type":"address","internalType":"address"}],"outputs":[{"name":"","type":"int256","internalType":"int256"}],"stateMutability":"view"}]`)
)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

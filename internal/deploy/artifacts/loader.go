package artifacts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

//go:embed compiled/contracts.json
var compiledContractsFS embed.FS

// Load reads the embedded compiled contract set.
func Load() (Set, error) {
	data, err := compiledContractsFS.ReadFile("compiled/contracts.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded contracts: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (Set, error) {
	var result map[string]struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	set := make(Set, len(names))

	for name, contract := range result {
		if _, ok := names[Name(name)]; !ok {
			continue
		}

		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		bytecode := common.FromHex(contract.Bytecode)
		if len(bytecode) == 0 {
			return nil, fmt.Errorf("empty creation bytecode for %s", name)
		}

		set[Name(name)] = Artifact{
			Name:     Name(name),
			ABI:      parsedABI,
			RawABI:   string(contract.ABI),
			Bytecode: bytecode,
		}
	}

	for name := range names {
		if _, ok := set[name]; !ok {
			return nil, fmt.Errorf("compiled contracts are missing %s", name)
		}
	}

	return set, nil
}

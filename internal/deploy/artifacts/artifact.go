package artifacts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type (
	Name string

	// Artifact is a compiled contract: its ABI and creation bytecode.
	Artifact struct {
		Name     Name
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}

	Set map[Name]Artifact
)

const (
	NameVault             Name = "EagleOVault"
	NameWrapper           Name = "EagleVaultWrapper"
	NameShareToken        Name = "EagleShareOFT"
	NameGaugeController   Name = "GaugeController"
	NameLaunchStrategy    Name = "LaunchStrategy"
	NameOracle            Name = "EagleOracle"
	NameBootstrapRegistry Name = "BootstrapRegistry"
)

var names = map[Name]struct{}{
	NameVault:             {},
	NameWrapper:           {},
	NameShareToken:        {},
	NameGaugeController:   {},
	NameLaunchStrategy:    {},
	NameOracle:            {},
	NameBootstrapRegistry: {},
}

// InitCode ABI-encodes the constructor arguments and appends them to the
// creation bytecode.
func (a Artifact) InitCode(args ...any) ([]byte, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor args for %s: %w", a.Name, err)
	}

	initCode := make([]byte, 0, len(a.Bytecode)+len(packed))
	initCode = append(initCode, a.Bytecode...)
	initCode = append(initCode, packed...)

	return initCode, nil
}

// InitCodeHash returns keccak256 of the full init code, the quantity the
// deterministic-address formula consumes.
func (a Artifact) InitCodeHash(args ...any) (common.Hash, error) {
	initCode, err := a.InitCode(args...)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(crypto.Keccak256(initCode)), nil
}

// Get returns the named artifact or an error when the compiled set is
// missing it.
func (s Set) Get(name Name) (Artifact, error) {
	artifact, ok := s[name]
	if !ok {
		return Artifact{}, fmt.Errorf("compiled artifact %s not found", name)
	}
	return artifact, nil
}

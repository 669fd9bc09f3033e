package artifacts

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedContracts(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	for name := range names {
		artifact, err := set.Get(name)
		require.NoError(t, err, "missing %s", name)
		assert.Equal(t, name, artifact.Name)
		assert.NotEmpty(t, artifact.Bytecode)
	}
}

func TestParseRejectsIncompleteSet(t *testing.T) {
	_, err := parse([]byte(`{"EagleOVault":{"abi":[],"bytecode":"0x60"}}`))
	assert.Error(t, err)
}

func TestParseRejectsEmptyBytecode(t *testing.T) {
	_, err := parse([]byte(`{"EagleOVault":{"abi":[],"bytecode":"0x"}}`))
	assert.Error(t, err)
}

func TestInitCodeAppendsConstructorArgs(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	registry, err := set.Get(NameBootstrapRegistry)
	require.NoError(t, err)

	owner := common.HexToAddress("0x2000000000000000000000000000000000000002")
	initCode, err := registry.InitCode(owner)
	require.NoError(t, err)

	require.Greater(t, len(initCode), len(registry.Bytecode))
	assert.Equal(t, registry.Bytecode, initCode[:len(registry.Bytecode)])
	// The owner address sits ABI-encoded in the trailing constructor args.
	assert.Contains(t, common.Bytes2Hex(initCode[len(registry.Bytecode):]), common.Bytes2Hex(owner.Bytes()))
}

func TestInitCodeRejectsWrongArity(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	registry, err := set.Get(NameBootstrapRegistry)
	require.NoError(t, err)

	_, err = registry.InitCode()
	assert.Error(t, err)
}

func TestInitCodeHashMatchesKeccak(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	registry, err := set.Get(NameBootstrapRegistry)
	require.NoError(t, err)

	owner := common.HexToAddress("0x2000000000000000000000000000000000000002")

	initCode, err := registry.InitCode(owner)
	require.NoError(t, err)

	hash, err := registry.InitCodeHash(owner)
	require.NoError(t, err)

	assert.Equal(t, common.BytesToHash(crypto.Keccak256(initCode)), hash)
}

func TestGetUnknownArtifact(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	_, err = set.Get("NoSuchContract")
	assert.Error(t, err)
}

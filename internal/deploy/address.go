package deploy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PredictAddress computes the deterministic deployment address:
// lastBytes20(keccak256(0xff ++ factory ++ salt ++ keccak256(initCode))).
func PredictAddress(factory common.Address, salt common.Hash, initCode []byte) common.Address {
	return crypto.CreateAddress2(factory, salt, crypto.Keccak256(initCode))
}

// PredictAddressFromHash is PredictAddress for callers that already hold the
// init-code hash.
func PredictAddressFromHash(factory common.Address, salt common.Hash, initCodeHash common.Hash) common.Address {
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes())
}

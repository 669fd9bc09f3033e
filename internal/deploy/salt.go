package deploy

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// SaltSet holds every CREATE2 salt one deployment uses. Same-chain salts are
// children of a base salt bound to (creatorToken, owner, chainId); the
// registry and share salts deliberately omit chainId and creatorToken so the
// bootstrap registry and share token land on the same address on every chain.
type SaltSet struct {
	Base     common.Hash
	Vault    common.Hash
	Wrapper  common.Hash
	Gauge    common.Hash
	Strategy common.Hash
	Oracle   common.Hash
	Registry common.Hash
	Share    common.Hash
}

const registrySaltLabel = "registry"

// DeriveSalts derives the full salt set for a request. Inputs are hashed in
// their ABI-packed binary forms, never as joined strings, so structurally
// different inputs cannot collide on a shared string boundary.
func DeriveSalts(req Request) SaltSet {
	req = req.Normalized()

	base := common.BytesToHash(crypto.Keccak256(
		req.CreatorToken.Bytes(),
		req.Owner.Bytes(),
		math.U256Bytes(req.ChainID),
	))

	return SaltSet{
		Base:     base,
		Vault:    childSalt(base, "vault"),
		Wrapper:  childSalt(base, "wrapper"),
		Gauge:    childSalt(base, "gauge"),
		Strategy: childSalt(base, "strategy"),
		Oracle:   childSalt(base, "oracle"),
		Registry: common.BytesToHash(crypto.Keccak256(req.Owner.Bytes(), []byte(registrySaltLabel))),
		Share:    common.BytesToHash(crypto.Keccak256(req.Owner.Bytes(), []byte(strings.ToLower(req.ShareSymbol)))),
	}
}

func childSalt(base common.Hash, label string) common.Hash {
	return common.BytesToHash(crypto.Keccak256(base.Bytes(), []byte(label)))
}

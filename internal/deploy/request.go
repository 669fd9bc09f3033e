package deploy

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Request describes one vault-constellation deployment. It is immutable for
// the lifetime of a deployment attempt; Normalized returns the canonical form
// every derivation runs against.
type Request struct {
	CreatorToken    common.Address
	ShareName       string
	ShareSymbol     string
	CreatorTreasury common.Address
	// Owner is the identity that will control the deployed contracts. It may
	// differ from the transaction signer when deploying on behalf of a smart
	// wallet.
	Owner         common.Address
	IncludeOracle bool
	ChainID       *big.Int
}

// Normalized returns the request with defaults applied: an unset treasury
// falls back to the owner.
func (r Request) Normalized() Request {
	if r.CreatorTreasury == (common.Address{}) {
		r.CreatorTreasury = r.Owner
	}
	return r
}

func (r Request) Validate() error {
	var errs []error

	if r.CreatorToken == (common.Address{}) {
		errs = append(errs, errors.New("creator token address is required"))
	}
	if r.Owner == (common.Address{}) {
		errs = append(errs, errors.New("owner address is required"))
	}
	if r.ShareName == "" {
		errs = append(errs, errors.New("share token name is required"))
	}
	if r.ShareSymbol == "" {
		errs = append(errs, errors.New("share token symbol is required"))
	}
	if r.ChainID == nil || r.ChainID.Sign() <= 0 {
		errs = append(errs, errors.New("chain id is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid deployment request: %w", errors.Join(errs...))
	}

	return nil
}

package configs

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	Config struct {
		Chain  Chain  `mapstructure:"chain"`
		Deploy Deploy `mapstructure:"deploy"`
		Log    Log    `mapstructure:"log"`
	}

	Chain struct {
		ID     int64  `mapstructure:"id"`
		RPCURL string `mapstructure:"rpc-url"`
	}

	Deploy struct {
		SignerPrivateKey string        `mapstructure:"signer-private-key"`
		Owner            string        `mapstructure:"owner"`
		CreatorToken     string        `mapstructure:"creator-token"`
		CreatorTreasury  string        `mapstructure:"creator-treasury"`
		ShareName        string        `mapstructure:"share-name"`
		ShareSymbol      string        `mapstructure:"share-symbol"`
		IncludeOracle    bool          `mapstructure:"include-oracle"`
		PollInterval     time.Duration `mapstructure:"poll-interval"`
		ConfirmTimeout   time.Duration `mapstructure:"confirm-timeout"`
	}

	Log struct {
		Level string `mapstructure:"level"`
	}
)

// Redacted returns a copy safe to log: the signer key is masked, everything
// else passes through unchanged.
func (d Deploy) Redacted() Deploy {
	if d.SignerPrivateKey != "" {
		d.SignerPrivateKey = "[redacted]"
	}
	return d
}

func (c *Config) Validate() error {
	var errs []error

	if c.Chain.ID == 0 {
		errs = append(errs, errors.New("chain.id is required"))
	}
	if c.Chain.RPCURL == "" {
		errs = append(errs, errors.New("chain.rpc-url is required"))
	}
	if c.Deploy.SignerPrivateKey == "" {
		errs = append(errs, errors.New("deploy.signer-private-key is required"))
	}
	if c.Deploy.CreatorToken == "" {
		errs = append(errs, errors.New("deploy.creator-token is required"))
	} else if !common.IsHexAddress(c.Deploy.CreatorToken) {
		errs = append(errs, fmt.Errorf("deploy.creator-token %q is not a valid address", c.Deploy.CreatorToken))
	}
	if c.Deploy.CreatorTreasury != "" && !common.IsHexAddress(c.Deploy.CreatorTreasury) {
		errs = append(errs, fmt.Errorf("deploy.creator-treasury %q is not a valid address", c.Deploy.CreatorTreasury))
	}
	if c.Deploy.Owner != "" && !common.IsHexAddress(c.Deploy.Owner) {
		errs = append(errs, fmt.Errorf("deploy.owner %q is not a valid address", c.Deploy.Owner))
	}
	if c.Deploy.ShareName == "" {
		errs = append(errs, errors.New("deploy.share-name is required"))
	}
	if c.Deploy.ShareSymbol == "" {
		errs = append(errs, errors.New("deploy.share-symbol is required"))
	}
	if c.Deploy.PollInterval <= 0 {
		errs = append(errs, errors.New("deploy.poll-interval must be positive"))
	}
	if c.Deploy.ConfirmTimeout <= 0 {
		errs = append(errs, errors.New("deploy.confirm-timeout must be positive"))
	}

	if c.Chain.ID != 0 {
		if _, err := InfrastructureFor(c.Chain.ID); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

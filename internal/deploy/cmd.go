package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/chain"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
	"github.com/eagle-protocol/vault-deployer/internal/wallet"
)

var CMD = &cobra.Command{
	Use:   "vault",
	Short: "Commands for deploying and inspecting creator vault constellations",
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a full vault constellation in one atomic batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("starting vault deploy. Validating config", slog.Any("config", configs.Values.Deploy.Redacted()))

		if err := configs.Values.Validate(); err != nil {
			return err
		}

		env, err := newEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.client.Close()

		orchestrator := NewOrchestrator(
			env.client, env.client, env.client, env.wallet,
			env.infra, env.artifacts,
			WithObserver(logTransition),
			WithConfirmation(configs.Values.Deploy.PollInterval, configs.Values.Deploy.ConfirmTimeout),
		)

		result, err := orchestrator.Deploy(cmd.Context(), env.request)
		if result != nil {
			printAddresses(result.Addresses, env.request.IncludeOracle)
		}
		if err != nil {
			var timeout *ConfirmationTimeoutError
			if errors.As(err, &timeout) {
				slog.With("ref", timeout.Ref).Warn("confirmation timed out; the batch may still land")
			}
			return fmt.Errorf("error occurred deploying vault: %w", err)
		}

		slog.With("ref", result.Submission.Ref()).Info("vault deployed and verified")

		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print the deterministic addresses a deployment would produce, without sending anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.Values.Validate(); err != nil {
			return err
		}

		env, err := newEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.client.Close()

		orchestrator := NewOrchestrator(env.client, env.client, env.client, env.wallet, env.infra, env.artifacts)

		addrs, err := orchestrator.Predict(env.request)
		if err != nil {
			return fmt.Errorf("error occurred predicting addresses: %w", err)
		}

		printAddresses(addrs, env.request.IncludeOracle)

		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-check the wiring of an already deployed vault constellation",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.Values.Validate(); err != nil {
			return err
		}

		env, err := newEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.client.Close()

		orchestrator := NewOrchestrator(env.client, env.client, env.client, env.wallet, env.infra, env.artifacts)

		report, err := orchestrator.Verify(cmd.Context(), env.request)
		if report != nil {
			for _, check := range report.Checks {
				slog.With("edge", check.Edge).With("passed", check.Passed).Info("wiring check")
			}
		}
		if err != nil {
			return fmt.Errorf("error occurred verifying vault: %w", err)
		}

		slog.Info("all wiring checks passed")

		return nil
	},
}

// environment bundles everything the subcommands construct from configuration.
type environment struct {
	client    *chain.Client
	wallet    *wallet.Wallet
	infra     configs.Infrastructure
	artifacts artifacts.Set
	request   Request
}

func newEnvironment(ctx context.Context) (*environment, error) {
	cfg := configs.Values

	infra, err := configs.InfrastructureFor(cfg.Chain.ID)
	if err != nil {
		return nil, err
	}

	set, err := artifacts.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load contract artifacts: %w", err)
	}

	w, err := wallet.FromPrivateKey(cfg.Deploy.SignerPrivateKey)
	if err != nil {
		return nil, err
	}

	client, err := chain.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, err
	}

	remoteID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}
	if remoteID.Int64() != cfg.Chain.ID {
		client.Close()
		return nil, fmt.Errorf("RPC endpoint serves chain %s, config expects %d", remoteID, cfg.Chain.ID)
	}

	// An unset owner means the signer deploys for itself.
	owner := w.Address()
	if cfg.Deploy.Owner != "" {
		owner = common.HexToAddress(cfg.Deploy.Owner)
	}

	req := Request{
		CreatorToken:  common.HexToAddress(cfg.Deploy.CreatorToken),
		ShareName:     cfg.Deploy.ShareName,
		ShareSymbol:   cfg.Deploy.ShareSymbol,
		Owner:         owner,
		IncludeOracle: cfg.Deploy.IncludeOracle,
		ChainID:       big.NewInt(cfg.Chain.ID),
	}
	if cfg.Deploy.CreatorTreasury != "" {
		req.CreatorTreasury = common.HexToAddress(cfg.Deploy.CreatorTreasury)
	}

	return &environment{
		client:    client,
		wallet:    w,
		infra:     infra,
		artifacts: set,
		request:   req,
	}, nil
}

func logTransition(t Transition) {
	if t.State == StateFailed {
		return
	}
	slog.With("state", t.State.String()).Info("deployment state changed")
}

func printAddresses(addrs AddressSet, includeOracle bool) {
	for _, entry := range addrs.Entries(includeOracle) {
		slog.With("contract", string(entry.Name)).With("address", entry.Address.Hex()).Info("deterministic address")
	}
}

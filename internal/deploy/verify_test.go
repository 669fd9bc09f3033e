package deploy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
)

// wireHealthyGraph answers every verification read the way a correctly wired
// deployment would.
func wireHealthyGraph(t *testing.T, reader *stubReader, req Request, addrs AddressSet, infra configs.Infrastructure, set artifacts.Set) {
	t.Helper()

	reader.handle(addrs.Wrapper, viewHandler(set[artifacts.NameWrapper].ABI, map[string]any{
		"shareToken": addrs.ShareToken,
	}))
	reader.handle(addrs.ShareToken, viewHandler(set[artifacts.NameShareToken].ABI, map[string]any{
		"registry": addrs.Registry,
		"vault":    addrs.Vault,
		"feeSink":  addrs.Gauge,
		"isMinter": true,
	}))
	reader.handle(addrs.Gauge, viewHandler(set[artifacts.NameGaugeController].ABI, map[string]any{
		"vault":          addrs.Vault,
		"wrapper":        addrs.Wrapper,
		"creatorToken":   req.CreatorToken,
		"lotteryManager": infra.LotteryManager,
		"oracle":         addrs.Oracle,
	}))
	reader.handle(addrs.Vault, viewHandler(set[artifacts.NameVault].ABI, map[string]any{
		"gauge":           addrs.Gauge,
		"approvedCallers": true,
	}))
	reader.handle(addrs.Strategy, viewHandler(set[artifacts.NameLaunchStrategy].ABI, map[string]any{
		"oracle":            addrs.Oracle,
		"approvedLaunchers": true,
	}))
}

func verifyFixture(t *testing.T, req Request) (*Verifier, *stubReader, AddressSet) {
	t.Helper()

	infra := testInfra()
	set := testArtifacts(t)

	prediction, err := Predict(req, DeriveSalts(req), infra, set)
	require.NoError(t, err)

	reader := newStubReader(req.ChainID)
	wireHealthyGraph(t, reader, req, prediction.Addresses, infra, set)

	return NewVerifier(reader, infra, testLogger()), reader, prediction.Addresses
}

func TestVerifyHealthyGraph(t *testing.T) {
	req := testRequest()
	verifier, _, addrs := verifyFixture(t, req)

	report := verifier.Verify(context.Background(), req, addrs, testArtifacts(t))

	assert.True(t, report.Passed())
	assert.Empty(t, report.FailedEdges())
	// 9 address edges and 3 approval flags without an oracle.
	assert.Len(t, report.Checks, 12)
}

func TestVerifyOracleEdges(t *testing.T) {
	req := testRequest()
	req.IncludeOracle = true

	verifier, _, addrs := verifyFixture(t, req)

	report := verifier.Verify(context.Background(), req, addrs, testArtifacts(t))

	assert.True(t, report.Passed())
	assert.Len(t, report.Checks, 14)
}

func TestVerifyNamesFailedEdge(t *testing.T) {
	req := testRequest()
	verifier, reader, addrs := verifyFixture(t, req)
	set := testArtifacts(t)

	// The launcher approval was never granted.
	reader.handle(addrs.Strategy, viewHandler(set[artifacts.NameLaunchStrategy].ABI, map[string]any{
		"oracle":            addrs.Oracle,
		"approvedLaunchers": false,
	}))

	report := verifier.Verify(context.Background(), req, addrs, set)

	assert.False(t, report.Passed())
	assert.Equal(t, []string{"strategy.approvedLaunchers(activationBatcher)"}, report.FailedEdges())
}

func TestVerifyCatchesWrongLotteryManager(t *testing.T) {
	req := testRequest()
	verifier, reader, addrs := verifyFixture(t, req)
	set := testArtifacts(t)
	infra := testInfra()

	// The gauge was wired against somebody else's lottery manager.
	reader.handle(addrs.Gauge, viewHandler(set[artifacts.NameGaugeController].ABI, map[string]any{
		"vault":          addrs.Vault,
		"wrapper":        addrs.Wrapper,
		"creatorToken":   req.CreatorToken,
		"lotteryManager": addrs.Registry,
		"oracle":         addrs.Oracle,
	}))

	report := verifier.Verify(context.Background(), req, addrs, set)

	assert.False(t, report.Passed())
	assert.Equal(t, []string{"gauge.lotteryManager"}, report.FailedEdges())
	for _, check := range report.Checks {
		if check.Edge == "gauge.lotteryManager" {
			assert.Contains(t, check.Explanation, infra.LotteryManager.Hex())
		}
	}
}

// One unreadable contract must not stop the remaining edges from being
// checked; the report stays complete.
func TestVerifyChecksAreIndependent(t *testing.T) {
	req := testRequest()
	verifier, reader, addrs := verifyFixture(t, req)
	set := testArtifacts(t)

	reader.handle(addrs.Gauge, func([]byte) ([]byte, error) {
		return nil, assert.AnError
	})

	report := verifier.Verify(context.Background(), req, addrs, set)

	assert.False(t, report.Passed())
	assert.Len(t, report.Checks, 12, "every edge must still be reported")
	assert.ElementsMatch(t, []string{"gauge.vault", "gauge.wrapper", "gauge.creatorToken", "gauge.lotteryManager"}, report.FailedEdges())
}

func TestVerifyWrongAddressExplained(t *testing.T) {
	req := testRequest()
	verifier, reader, addrs := verifyFixture(t, req)
	set := testArtifacts(t)

	// The wrapper points at a stranger's share token.
	reader.handle(addrs.Wrapper, viewHandler(set[artifacts.NameWrapper].ABI, map[string]any{
		"shareToken": addrs.Registry,
	}))

	report := verifier.Verify(context.Background(), req, addrs, set)

	require.False(t, report.Passed())
	for _, check := range report.Checks {
		if check.Edge == "wrapper.shareToken" {
			assert.False(t, check.Passed)
			assert.Contains(t, check.Explanation, addrs.ShareToken.Hex())
			assert.Contains(t, check.Explanation, addrs.Registry.Hex())
		}
	}
}

package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eagle-protocol/vault-deployer/configs"
	"github.com/eagle-protocol/vault-deployer/internal/chain"
	"github.com/eagle-protocol/vault-deployer/internal/deploy/artifacts"
	"github.com/eagle-protocol/vault-deployer/internal/logger"
)

type (
	// Transition is one state change of a deployment attempt, delivered to
	// the caller's observer as it happens.
	Transition struct {
		State State
		Err   error
	}

	// Result is what a completed deployment hands downstream consumers.
	Result struct {
		Addresses  AddressSet
		Submission Submission
		Report     *VerificationReport
	}

	// Orchestrator drives one deployment attempt through its stages:
	// preflight, planning, signed submission, bytecode confirmation and
	// wiring verification. Attempts never share state; each Deploy call
	// builds everything fresh from the request.
	Orchestrator struct {
		reader    chain.Reader
		sender    chain.TxSender
		batcher   chain.BatchCaller
		signer    TxSigner
		infra     configs.Infrastructure
		artifacts artifacts.Set

		pollInterval   time.Duration
		confirmTimeout time.Duration

		onTransition func(Transition)
		logger       *slog.Logger
	}

	// Option tunes an Orchestrator.
	Option func(*Orchestrator)
)

// WithObserver registers a callback receiving every state transition. The UI
// layers its progress rendering on top of this stream.
func WithObserver(fn func(Transition)) Option {
	return func(o *Orchestrator) {
		o.onTransition = fn
	}
}

// WithConfirmation overrides the confirmation poll interval and timeout.
func WithConfirmation(interval, timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = interval
		o.confirmTimeout = timeout
	}
}

func NewOrchestrator(reader chain.Reader, sender chain.TxSender, batcher chain.BatchCaller, signer TxSigner, infra configs.Infrastructure, set artifacts.Set, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reader:         reader,
		sender:         sender,
		batcher:        batcher,
		signer:         signer,
		infra:          infra,
		artifacts:      set,
		pollInterval:   2 * time.Second,
		confirmTimeout: 2 * time.Minute,
		logger:         logger.Named("deploy_orchestrator"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Predict computes the deterministic address set for a request. It touches
// no chain state and is safe to call repeatedly.
func (o *Orchestrator) Predict(req Request) (AddressSet, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return AddressSet{}, err
	}

	prediction, err := Predict(req, DeriveSalts(req), o.infra, o.artifacts)
	if err != nil {
		return AddressSet{}, err
	}

	return prediction.Addresses, nil
}

// Deploy runs one full deployment attempt.
func (o *Orchestrator) Deploy(ctx context.Context, req Request) (*Result, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, o.fail(err)
	}

	o.transition(StatePreparing)
	o.logger.With("creator_token", req.CreatorToken.Hex()).With("owner", req.Owner.Hex()).Info("preparing deployment")

	salts := DeriveSalts(req)

	prediction, err := Predict(req, salts, o.infra, o.artifacts)
	if err != nil {
		return nil, o.fail(fmt.Errorf("failed to predict addresses: %w", err))
	}

	preflight := NewPreflight(o.reader, o.infra, o.logger)
	findings, err := preflight.Run(ctx, req, prediction, o.signer.Address())
	if err != nil {
		return nil, o.fail(err)
	}

	planner := NewPlanner(o.infra, o.logger)
	calls, err := planner.Plan(req, salts, prediction, findings, o.artifacts)
	if err != nil {
		return nil, o.fail(fmt.Errorf("failed to plan deployment batch: %w", err))
	}

	strategy := SelectStrategy(req.Owner, o.signer, req.ChainID, o.sender, o.batcher, o.logger)
	o.logger.With("strategy", strategy.Name()).With("calls", len(calls)).Info("executing deployment batch")

	// The wallet prompt is user-controlled and unbounded; declining it
	// leaves nothing outstanding. The strategy reports back once the
	// signature is in hand and submission begins.
	o.transition(StateAwaitingSignature)

	submission, err := strategy.Execute(ctx, calls, func() {
		o.transition(StateSubmitting)
	})
	if err != nil {
		return nil, o.fail(err)
	}

	o.transition(StateConfirming)

	waiter := NewWaiter(o.reader, o.pollInterval, o.confirmTimeout, o.logger)
	entries := prediction.Addresses.Entries(req.IncludeOracle)
	if err := waiter.Wait(ctx, entries, submission); err != nil {
		return nil, o.fail(err)
	}

	o.transition(StateVerifying)

	verifier := NewVerifier(o.reader, o.infra, o.logger)
	report := verifier.Verify(ctx, req, prediction.Addresses, o.artifacts)

	result := &Result{
		Addresses:  prediction.Addresses,
		Submission: submission,
		Report:     report,
	}

	if !report.Passed() {
		// Contracts exist on-chain regardless; the report names the edges
		// left to repair manually.
		verr := &VerificationError{Report: report}
		o.failWith(verr)
		return result, verr
	}

	o.transition(StateComplete)
	o.logger.Info("deployment complete and verified")

	return result, nil
}

// Verify re-derives the address set for a request and re-checks the wiring
// of an existing deployment.
func (o *Orchestrator) Verify(ctx context.Context, req Request) (*VerificationReport, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prediction, err := Predict(req, DeriveSalts(req), o.infra, o.artifacts)
	if err != nil {
		return nil, fmt.Errorf("failed to predict addresses: %w", err)
	}

	verifier := NewVerifier(o.reader, o.infra, o.logger)
	report := verifier.Verify(ctx, req, prediction.Addresses, o.artifacts)

	if !report.Passed() {
		return report, &VerificationError{Report: report}
	}

	return report, nil
}

func (o *Orchestrator) transition(state State) {
	if o.onTransition != nil {
		o.onTransition(Transition{State: state})
	}
}

func (o *Orchestrator) fail(err error) error {
	o.failWith(err)
	return err
}

func (o *Orchestrator) failWith(err error) {
	o.logger.With("err", err.Error()).Error("deployment failed")
	if o.onTransition != nil {
		o.onTransition(Transition{State: StateFailed, Err: err})
	}
}

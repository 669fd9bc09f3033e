package deploy

import "fmt"

// PreflightReason classifies why a deployment was rejected before any
// signature was requested.
type PreflightReason string

const (
	ReasonMissingDependency     PreflightReason = "missing-dependency"
	ReasonOwnerNotDeployed      PreflightReason = "owner-not-deployed"
	ReasonSignerNotAuthorized   PreflightReason = "signer-not-authorized"
	ReasonTargetAlreadyDeployed PreflightReason = "target-already-deployed"
	ReasonEndpointNotResolvable PreflightReason = "endpoint-not-resolvable"
)

// PreflightError is fatal before any signature is requested and is never
// retried automatically.
type PreflightError struct {
	Reason  PreflightReason
	Message string
	Details string
}

func (e *PreflightError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

// CapabilityError means the connected wallet cannot execute an atomic batch.
// The flow must not degrade to sequential submission; the user needs a
// different wallet.
type CapabilityError struct {
	Message string
	Details string
}

func (e *CapabilityError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

// SubmissionError means nothing was deployed: the wallet rejected the prompt
// or the node rejected the submission. The whole flow is safe to retry.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ConfirmationTimeoutError is ambiguous: the batch may or may not have
// landed. Ref identifies the submitted transaction or bundle so the user can
// check before retrying.
type ConfirmationTimeoutError struct {
	Ref     string
	Pending []string
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for deployed bytecode (check submission %s before retrying; still pending: %v)", e.Ref, e.Pending)
}

// VerificationError means the contracts exist on-chain but at least one
// wiring edge does not match the intended graph. The report names every edge
// so the user can repair manually.
type VerificationError struct {
	Report *VerificationReport
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("deployment completed, but verification failed: %v", e.Report.FailedEdges())
}

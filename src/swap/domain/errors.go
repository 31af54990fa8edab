package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errors surfaced to callers. Per-provider failures during aggregation are
// never in this file's vocabulary: they are logged and the provider is
// skipped for the round.
var (
	ErrInvalidToken     = errors.New("token decimals could not be resolved")
	ErrInvalidSlippage  = errors.New("slippage must be between 0 and 100")
	ErrInvalidAmount    = errors.New("amount is not a valid decimal number")
	ErrSubmissionFailed = errors.New("signer returned no signed transaction")
	ErrReceiptNotFound  = errors.New("no receipt found for submitted transaction")
)

// NoValidQuoteError means no provider produced a usable quote. It carries
// the providers that were considered, not the empty quote list.
type NoValidQuoteError struct {
	Providers []string
}

func (e *NoValidQuoteError) Error() string {
	if len(e.Providers) == 0 {
		return "no valid quote: no active providers"
	}
	return fmt.Sprintf("no valid quote from providers [%s]", strings.Join(e.Providers, ", "))
}

// UnsupportedProviderError means the caller named a provider that is not
// currently active.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %q is not active", e.Provider)
}

// UnsupportedSignerError means the chosen provider returned a transaction
// family the configured signer cannot process.
type UnsupportedSignerError struct {
	Family TxFamily
}

func (e *UnsupportedSignerError) Error() string {
	return fmt.Sprintf("signer cannot handle %s transactions", e.Family)
}

// Stage names the execution step an error occurred in.
type Stage string

const (
	StageNormalizing Stage = "normalizing"
	StageQuoting     Stage = "quoting"
	StageSelecting   Stage = "selecting"
	StageApproving   Stage = "approving"
	StageBuilding    Stage = "building"
	StageSigning     Stage = "signing"
	StageSubmitting  Stage = "submitting"
	StageConfirming  Stage = "confirming"
)

// ExecutionError wraps a fatal failure with the stage and provider it
// happened at, so the caller can decide whether to retry the whole request.
type ExecutionError struct {
	Stage    Stage
	Provider string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("swap failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("swap failed at %s (provider %s): %v", e.Stage, e.Provider, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

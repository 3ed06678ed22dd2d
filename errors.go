package swapcall

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for common failure conditions.
var (
	// ErrNoRoute indicates the plan cannot be routed at all (empty or inconsistent).
	ErrNoRoute = errors.New("swapcall: no viable route for swap plan")

	// ErrUnsupportedOptions indicates an invalid combination of execution options.
	ErrUnsupportedOptions = errors.New("swapcall: unsupported execution options")

	// ErrBothLegsNative indicates both the sell and buy legs were flagged as native currency.
	ErrBothLegsNative = errors.New("swapcall: cannot sell and buy native currency in the same swap")

	// ErrSellTokenFee indicates an affiliate fee denominated in the sell token.
	ErrSellTokenFee = errors.New("swapcall: affiliate fees denominated in the sell token are not supported")

	// ErrNativeLegMismatch indicates a native leg whose plan token is not the
	// network's wrapped native token.
	ErrNativeLegMismatch = errors.New("swapcall: native leg requires the wrapped native token")

	// ErrRouteInvariant indicates an encoder was handed fills its route cannot represent.
	ErrRouteInvariant = errors.New("swapcall: route selection invariant violated")

	// ErrUnresolvedIdentifier indicates a fork, pool provider or deployment is missing
	// from the network configuration.
	ErrUnresolvedIdentifier = errors.New("swapcall: unresolved network identifier")

	// ErrUnknownNetwork indicates the selector was bound to an unconfigured network.
	ErrUnknownNetwork = errors.New("swapcall: unknown network")

	// ErrInvalidSlippage indicates a slippage rate outside [0, 1].
	ErrInvalidSlippage = errors.New("swapcall: slippage rate must be within [0, 1]")
)

// PlanError describes why a swap plan was rejected before route selection.
// It always unwraps to ErrNoRoute.
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("swapcall: invalid swap plan: %s", e.Reason)
}

func (e *PlanError) Unwrap() error {
	return ErrNoRoute
}

// OptionsError indicates an execution option failed normalization.
type OptionsError struct {
	Field string
	Err   error
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("swapcall: option %s: %v", e.Field, e.Err)
}

// Unwrap returns both the specific cause and ErrUnsupportedOptions so callers
// can match either.
func (e *OptionsError) Unwrap() []error {
	return []error{e.Err, ErrUnsupportedOptions}
}

// RouteInvariantError is returned when an encoder receives a fill set its route
// does not support. This is a defect in rule evaluation, never a user error.
type RouteInvariantError struct {
	Route  RouteKind
	Reason string
}

func (e *RouteInvariantError) Error() string {
	return fmt.Sprintf("swapcall: route %s: invariant violated: %s", e.Route, e.Reason)
}

func (e *RouteInvariantError) Unwrap() error {
	return ErrRouteInvariant
}

// UnresolvedIdentifierError indicates a lookup in a network table failed.
type UnresolvedIdentifierError struct {
	Kind    string
	Name    string
	ChainID ChainID
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("swapcall: %s %q not configured for chain %d", e.Kind, e.Name, e.ChainID)
}

func (e *UnresolvedIdentifierError) Unwrap() error {
	return ErrUnresolvedIdentifier
}

// EncodingError indicates the ABI packer rejected the arguments for a method or payload.
type EncodingError struct {
	Method string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("swapcall: encoding %s: %v", e.Method, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// MethodNotFoundError indicates the contract doesn't have the requested method.
type MethodNotFoundError struct {
	Contract common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("swapcall: method %q not found in contract %s", e.Method, e.Contract.Hex())
}

// ArgumentCountError indicates a method was invoked with the wrong number of arguments.
type ArgumentCountError struct {
	Method string
	Want   int
	Got    int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("swapcall: method %q expects %d arguments, got %d", e.Method, e.Want, e.Got)
}

// PipelineError indicates a transformation pipeline step could not be compiled.
type PipelineError struct {
	Index int
	Step  Step
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("swapcall: pipeline step %d (%s): %v", e.Index, e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

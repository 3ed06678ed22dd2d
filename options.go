package swapcall

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// AffiliateFeeType selects how an affiliate is paid.
type AffiliateFeeType uint8

const (
	// NoFee pays no affiliate.
	NoFee AffiliateFeeType = iota

	// PercentageFee pays a fixed buy-token amount to the recipient.
	PercentageFee

	// PositiveSlippageFee pays any output above the best-case amount.
	PositiveSlippageFee
)

func (t AffiliateFeeType) String() string {
	switch t {
	case NoFee:
		return "none"
	case PercentageFee:
		return "percentage"
	case PositiveSlippageFee:
		return "positive-slippage"
	default:
		return "unknown"
	}
}

// AffiliateFee describes the affiliate fee schedule of a swap.
type AffiliateFee struct {
	Type               AffiliateFeeType
	Recipient          common.Address
	BuyTokenFeeAmount  *big.Int
	SellTokenFeeAmount *big.Int
}

// ExecutionOptions holds the normalized caller configuration for one swap.
// Build it with NewExecutionOptions.
type ExecutionOptions struct {
	IsFromETH               bool
	IsToETH                 bool
	AffiliateFee            AffiliateFee
	RefundReceiver          common.Address
	ShouldSellEntireBalance bool
}

// ExecutionOption configures ExecutionOptions.
type ExecutionOption func(*ExecutionOptions)

// defaultExecutionOptions returns the default execution options.
func defaultExecutionOptions() *ExecutionOptions {
	return &ExecutionOptions{
		AffiliateFee: AffiliateFee{
			Type:               NoFee,
			BuyTokenFeeAmount:  new(big.Int),
			SellTokenFeeAmount: new(big.Int),
		},
	}
}

// NewExecutionOptions merges opts over the defaults and normalizes the result.
// Both legs native and sell-token affiliate fees are rejected.
func NewExecutionOptions(opts ...ExecutionOption) (*ExecutionOptions, error) {
	o := defaultExecutionOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.normalize(); err != nil {
		return nil, err
	}
	return o, nil
}

// MustExecutionOptions is like NewExecutionOptions but panics on error.
func MustExecutionOptions(opts ...ExecutionOption) *ExecutionOptions {
	o, err := NewExecutionOptions(opts...)
	if err != nil {
		panic(err)
	}
	return o
}

func (o *ExecutionOptions) normalize() error {
	if o.IsFromETH && o.IsToETH {
		return &OptionsError{Field: "native legs", Err: ErrBothLegsNative}
	}
	if o.AffiliateFee.BuyTokenFeeAmount == nil {
		o.AffiliateFee.BuyTokenFeeAmount = new(big.Int)
	}
	if o.AffiliateFee.SellTokenFeeAmount == nil {
		o.AffiliateFee.SellTokenFeeAmount = new(big.Int)
	}
	if o.AffiliateFee.SellTokenFeeAmount.Sign() != 0 {
		return &OptionsError{Field: "affiliate fee", Err: ErrSellTokenFee}
	}
	if o.AffiliateFee.BuyTokenFeeAmount.Sign() < 0 {
		return &OptionsError{Field: "affiliate fee", Err: ErrUnsupportedOptions}
	}
	if o.AffiliateFee.Type > PositiveSlippageFee {
		return &OptionsError{Field: "affiliate fee type", Err: ErrUnsupportedOptions}
	}
	return nil
}

// checkNativeLegs ensures each native leg trades the wrapped native token,
// which is what the exchange proxy wraps and unwraps.
func (o *ExecutionOptions) checkNativeLegs(plan *SwapPlan, wrappedNative common.Address) error {
	if o.IsFromETH && plan.TakerToken != wrappedNative {
		return &OptionsError{Field: "native sell leg", Err: ErrNativeLegMismatch}
	}
	if o.IsToETH && plan.MakerToken != wrappedNative {
		return &OptionsError{Field: "native buy leg", Err: ErrNativeLegMismatch}
	}
	return nil
}

// WithFromETH marks the sell leg as native currency.
func WithFromETH() ExecutionOption {
	return func(o *ExecutionOptions) {
		o.IsFromETH = true
	}
}

// WithToETH marks the buy leg as native currency.
func WithToETH() ExecutionOption {
	return func(o *ExecutionOptions) {
		o.IsToETH = true
	}
}

// WithAffiliateFee sets the affiliate fee schedule.
func WithAffiliateFee(fee AffiliateFee) ExecutionOption {
	return func(o *ExecutionOptions) {
		o.AffiliateFee = fee
	}
}

// WithRefundReceiver sets who receives refunded protocol fees in the fill step.
func WithRefundReceiver(addr common.Address) ExecutionOption {
	return func(o *ExecutionOptions) {
		o.RefundReceiver = addr
	}
}

// WithSellEntireBalance sells the taker's full balance instead of the quoted amount.
func WithSellEntireBalance() ExecutionOption {
	return func(o *ExecutionOptions) {
		o.ShouldSellEntireBalance = true
	}
}

// requiresPipeline reports whether the options can only be honoured by the
// transformation pipeline.
func (o *ExecutionOptions) requiresPipeline() bool {
	fee := o.AffiliateFee
	if fee.BuyTokenFeeAmount.Sign() != 0 || fee.SellTokenFeeAmount.Sign() != 0 {
		return true
	}
	if fee.Type == PositiveSlippageFee {
		return true
	}
	return o.ShouldSellEntireBalance
}

// SelectorOption configures a Selector.
type SelectorOption func(*selectorConfig)

// selectorConfig holds configuration for NewSelector.
type selectorConfig struct {
	logger log.Logger
}

// defaultSelectorConfig returns the default selector configuration.
func defaultSelectorConfig() *selectorConfig {
	return &selectorConfig{
		logger: log.Root(),
	}
}

// WithLogger sets the logger used for route decisions and invariant failures.
func WithLogger(logger log.Logger) SelectorOption {
	return func(c *selectorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

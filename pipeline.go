package swapcall

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// FallbackGasOverhead is the extra gas the transformation pipeline costs over a
// specialised entry point. It is also the gas allowance priced into the
// positive-slippage fee threshold.
const FallbackGasOverhead = 30_000

// Pipeline builds an ordered list of transformERC20 steps. Deployment nonces
// are resolved when the pipeline is compiled, not when steps are added.
type Pipeline struct {
	deployments *DeploymentTable
	steps       []pipelineStep
}

type pipelineStep struct {
	step Step
	data []byte
}

// NewPipeline creates an empty pipeline resolving steps against deployments.
func NewPipeline(deployments *DeploymentTable) *Pipeline {
	return &Pipeline{
		deployments: deployments,
		steps:       make([]pipelineStep, 0, 6),
	}
}

// Add appends a step with its encoded payload.
func (p *Pipeline) Add(step Step, data []byte) {
	p.steps = append(p.steps, pipelineStep{step: step, data: data})
}

// Len returns the number of steps in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// StepAt returns the step at the given index.
func (p *Pipeline) StepAt(i int) (Step, bool) {
	if i < 0 || i >= len(p.steps) {
		return "", false
	}
	return p.steps[i].step, true
}

// Transformations compiles the pipeline into transformERC20 arguments.
func (p *Pipeline) Transformations() ([]Transformation, error) {
	out := make([]Transformation, 0, len(p.steps))
	for i, s := range p.steps {
		nonce, err := p.deployments.Nonce(s.step)
		if err != nil {
			return nil, &PipelineError{Index: i, Step: s.step, Err: err}
		}
		out = append(out, Transformation{DeploymentNonce: nonce, Data: s.data})
	}
	return out, nil
}

// addFillQuote appends a fill-quote step for fills trading sellToken for buyToken.
func (p *Pipeline) addFillQuote(in *routeInput, sellToken, buyToken common.Address, fillAmount *big.Int, fills []SlippedFill) error {
	d, err := newFillQuoteData(in.plan.Side, sellToken, buyToken, fills, fillAmount, in.opts.RefundReceiver)
	if err != nil {
		return err
	}
	data, err := encodeFillQuoteData(d)
	if err != nil {
		return err
	}
	p.Add(StepFillQuote, data)
	return nil
}

func (p *Pipeline) addWrapNative(token common.Address, amount *big.Int) error {
	data, err := encodeWrapNativeData(&WrapNativeData{Token: token, Amount: amount})
	if err != nil {
		return err
	}
	p.Add(StepWrapNative, data)
	return nil
}

// encodeTransformERC20 builds the general-purpose pipeline:
//
//	[wrap native] -> fill quote (one per hop) -> [unwrap] -> [fee] -> pay taker
func encodeTransformERC20(in *routeInput) (*Call, error) {
	plan, opts := in.plan, in.opts
	p := NewPipeline(in.net.Deployments)

	sellAmount := plan.SellAmount()
	inputAmount := sellAmount
	if opts.ShouldSellEntireBalance {
		inputAmount = MaxUint256
	}

	inputToken := plan.TakerToken
	if opts.IsFromETH {
		inputToken = ETHToken
		if err := p.addWrapNative(ETHToken, inputAmount); err != nil {
			return nil, err
		}
	}

	var intermediate common.Address
	if plan.IsTwoHop {
		if len(in.fills) != 2 {
			return nil, &RouteInvariantError{Route: RouteTransformERC20, Reason: "two-hop plan without two fills"}
		}
		first, second := in.fills[:1], in.fills[1:]
		intermediate = first[0].Fill.MakerToken

		firstAmount, secondAmount := MaxUint256, MaxUint256
		if plan.Side == Buy {
			// The first hop buys exactly what the second hop will spend.
			firstAmount = second[0].TakerAmount
			secondAmount = plan.buyAmount()
		}
		if err := p.addFillQuote(in, plan.TakerToken, intermediate, firstAmount, first); err != nil {
			return nil, err
		}
		if err := p.addFillQuote(in, intermediate, plan.MakerToken, secondAmount, second); err != nil {
			return nil, err
		}
	} else {
		fillAmount := MaxUint256
		if plan.Side == Buy {
			fillAmount = plan.buyAmount()
		}
		if err := p.addFillQuote(in, plan.TakerToken, plan.MakerToken, fillAmount, in.fills); err != nil {
			return nil, err
		}
	}

	outputToken := plan.MakerToken
	if opts.IsToETH {
		outputToken = ETHToken
		if err := p.addWrapNative(in.net.WrappedNative, MaxUint256); err != nil {
			return nil, err
		}
	}

	fee := opts.AffiliateFee
	switch {
	case fee.Type == PositiveSlippageFee:
		data, err := encodePositiveSlippageFeeData(&PositiveSlippageFeeData{
			Token:          outputToken,
			BestCaseAmount: positiveSlippageThreshold(plan),
			Recipient:      fee.Recipient,
		})
		if err != nil {
			return nil, err
		}
		p.Add(StepPositiveSlippageFee, data)
	case fee.BuyTokenFeeAmount.Sign() > 0:
		data, err := encodeAffiliateFeeData(&AffiliateFeeData{Fees: []AffiliateFeeEntry{{
			Token:     outputToken,
			Amount:    fee.BuyTokenFeeAmount,
			Recipient: fee.Recipient,
		}}})
		if err != nil {
			return nil, err
		}
		p.Add(StepAffiliateFee, data)
	}

	// The pipeline may leave dust of the sell token, the intermediate token or
	// refunded protocol fees; sweep them all back to the taker.
	sweep := []common.Address{plan.TakerToken}
	if plan.IsTwoHop {
		sweep = append(sweep, intermediate)
	}
	if !opts.IsToETH {
		sweep = append(sweep, ETHToken)
	}
	data, err := encodePayTakerData(&PayTakerData{Tokens: sweep, Amounts: []*big.Int{}})
	if err != nil {
		return nil, err
	}
	p.Add(StepPayTaker, data)

	transformations, err := p.Transformations()
	if err != nil {
		return nil, err
	}
	return in.proxy.Invoke(MethodTransformERC20,
		inputToken,
		outputToken,
		inputAmount,
		minBuyAmount(plan, opts),
		transformations,
	)
}

// minBuyAmount is the worst-case output less any buy-token affiliate fee,
// floored at zero.
func minBuyAmount(plan *SwapPlan, opts *ExecutionOptions) *big.Int {
	out := new(big.Int).Set(plan.WorstCase.MakerAmount)
	fee := opts.AffiliateFee
	if fee.Type != PositiveSlippageFee && fee.BuyTokenFeeAmount.Sign() > 0 {
		out.Sub(out, fee.BuyTokenFeeAmount)
		if out.Sign() < 0 {
			out.SetInt64(0)
		}
	}
	return out
}

// positiveSlippageThreshold is the best-case output plus the pipeline's gas
// overhead priced in the buy token. Output above it is positive slippage.
func positiveSlippageThreshold(plan *SwapPlan) *big.Int {
	best := plan.BestCase.MakerAmount
	gasPrice := plan.GasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	overhead := decimal.NewFromInt(FallbackGasOverhead).
		Mul(decimal.NewFromBigInt(gasPrice, 0)).
		Mul(plan.MakerAmountPerEth).
		Floor().
		BigInt()
	withSurplus := new(big.Int).Add(best, overhead)
	if withSurplus.Cmp(best) < 0 {
		return new(big.Int).Set(best)
	}
	return withSurplus
}

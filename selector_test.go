package swapcall

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSelectRoutePriority(t *testing.T) {
	feeOpts := MustExecutionOptions(WithAffiliateFee(AffiliateFee{
		Type:              PercentageFee,
		Recipient:         affiliate,
		BuyTokenFeeAmount: amt(5),
	}))

	twoHop := func(first, second Fill) *SwapPlan {
		p := sellPlan(tokenA, tokenC, 100, 1000, 950, first, second)
		p.IsTwoHop = true
		return p
	}

	tests := []struct {
		name  string
		chain ChainID
		plan  *SwapPlan
		opts  *ExecutionOptions
		want  RouteKind
	}{
		{
			name:  "single uniswap v2 fill",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000)),
			want:  RouteUniswapVIP,
		},
		{
			name:  "single sushiswap fill",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceSushiSwap, tokenA, tokenB, 100, 1000)),
			want:  RouteUniswapVIP,
		},
		{
			name:  "single uniswap v3 fill",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV3Fill(tokenA, tokenB, 100, 1000)),
			want:  RouteUniswapV3VIP,
		},
		{
			name:  "single fork fill on mainnet",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourcePancakeSwap, tokenA, tokenB, 100, 1000)),
			want:  RouteTransformERC20,
		},
		{
			name:  "single fork fill on bsc",
			chain: BSC,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourcePancakeSwap, tokenA, tokenB, 100, 1000)),
			want:  RouteForkVIP,
		},
		{
			name:  "fork not enabled for vip on bsc",
			chain: BSC,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceCafeSwap, tokenA, tokenB, 100, 1000)),
			want:  RouteTransformERC20,
		},
		{
			name:  "single curve fill",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, curveFill(tokenA, tokenB, 100, 1000)),
			want:  RouteCurveVIP,
		},
		{
			name:  "curve fill touching wrapped native",
			chain: Mainnet,
			plan:  sellPlan(mainWETH, tokenB, 100, 1000, 950, curveFill(mainWETH, tokenB, 100, 1000)),
			want:  RouteTransformERC20,
		},
		{
			name:  "several rfq orders",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 1000, rfqFill(tokenA, tokenB, 50, 500), rfqFill(tokenA, tokenB, 50, 500)),
			want:  RouteRfqVIP,
		},
		{
			name:  "rfq on polygon",
			chain: Polygon,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 1000, rfqFill(tokenA, tokenB, 100, 1000)),
			want:  RouteRfqVIP,
		},
		{
			name:  "rfq with fee",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 1000, rfqFill(tokenA, tokenB, 100, 1000)),
			opts:  feeOpts,
			want:  RouteTransformERC20,
		},
		{
			name:  "rfq selling native",
			chain: Mainnet,
			plan:  sellPlan(mainWETH, tokenB, 100, 1000, 1000, rfqFill(mainWETH, tokenB, 100, 1000)),
			opts:  MustExecutionOptions(WithFromETH()),
			want:  RouteMultiplexBatch,
		},
		{
			name:  "single otc order",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 1000, otcFill(tokenA, tokenB, 100, 1000)),
			want:  RouteOtcVIP,
		},
		{
			name:  "split across amms",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 50, 500), uniV3Fill(tokenA, tokenB, 50, 500)),
			want:  RouteMultiplexBatch,
		},
		{
			name:  "split starting with curve",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, curveFill(tokenA, tokenB, 50, 500), uniV3Fill(tokenA, tokenB, 50, 500)),
			want:  RouteTransformERC20,
		},
		{
			name:  "split with limit order",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV3Fill(tokenA, tokenB, 50, 500), limitFill(tokenA, tokenB, 50, 500)),
			want:  RouteTransformERC20,
		},
		{
			name:  "split with fee",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 50, 500), uniV3Fill(tokenA, tokenB, 50, 500)),
			opts:  feeOpts,
			want:  RouteTransformERC20,
		},
		{
			name:  "two amm hops",
			chain: Mainnet,
			plan:  twoHop(uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 500), uniV3Fill(tokenB, tokenC, 500, 1000)),
			want:  RouteMultiplexMultiHop,
		},
		{
			name:  "two hops through curve",
			chain: Mainnet,
			plan:  twoHop(uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 500), curveFill(tokenB, tokenC, 500, 1000)),
			want:  RouteTransformERC20,
		},
		{
			name:  "single amm fill with fee",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000)),
			opts:  feeOpts,
			want:  RouteTransformERC20,
		},
		{
			name:  "sell entire balance",
			chain: Mainnet,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000)),
			opts:  MustExecutionOptions(WithSellEntireBalance()),
			want:  RouteTransformERC20,
		},
		{
			name:  "buy plan",
			chain: Mainnet,
			plan:  buyPlan(tokenA, tokenB, 100, 200, 210, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 200, 100)),
			want:  RouteTransformERC20,
		},
		{
			name:  "uniswap v2 on polygon",
			chain: Polygon,
			plan:  sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000)),
			want:  RouteTransformERC20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := mustSelector(t, tt.chain)
			got, err := sel.SelectRoute(tt.plan, tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			res, err := sel.SelectAndEncode(tt.plan, tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Route)
		})
	}
}

func TestSelectAndEncodeResult(t *testing.T) {
	sel := mustSelector(t, Mainnet)

	t.Run("specialised route", func(t *testing.T) {
		plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
		plan.WorstCase.ProtocolFeeInWei = amt(7)

		res, err := sel.SelectAndEncode(plan, nil)
		require.NoError(t, err)
		require.Equal(t, exchangeProxyAddress, res.To)
		require.Equal(t, exchangeProxyAddress, res.AllowanceTarget)
		require.Equal(t, uint64(0), res.GasOverhead)
		requireAmount(t, amt(7), res.Value)
	})

	t.Run("native sell attaches value", func(t *testing.T) {
		plan := sellPlan(mainWETH, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, mainWETH, tokenB, 100, 1000))
		plan.WorstCase.ProtocolFeeInWei = amt(7)

		res, err := sel.SelectAndEncode(plan, MustExecutionOptions(WithFromETH()))
		require.NoError(t, err)
		requireAmount(t, amt(107), res.Value)
	})

	t.Run("pipeline gas overhead", func(t *testing.T) {
		plan := buyPlan(tokenA, tokenB, 100, 200, 210, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 200, 100))
		res, err := sel.SelectAndEncode(plan, nil)
		require.NoError(t, err)
		require.Equal(t, uint64(FallbackGasOverhead), res.GasOverhead)
		requireAmount(t, amt(0), res.Value)
	})

	t.Run("json form", func(t *testing.T) {
		plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
		res, err := sel.SelectAndEncode(plan, nil)
		require.NoError(t, err)

		out, err := json.Marshal(res)
		require.NoError(t, err)
		require.Contains(t, string(out), `"route":"uniswap_vip"`)
		require.Contains(t, string(out), `"data":"0xd9627aa4`)
		require.Contains(t, string(out), `"value":"0x0"`)
		require.Contains(t, string(out), `"gasOverhead":"0x0"`)

		var back CalldataResult
		require.NoError(t, json.Unmarshal(out, &back))
		require.Equal(t, res.Data, back.Data)
		require.Equal(t, res.To, back.To)
		require.Equal(t, res.Route, back.Route)
		requireAmount(t, res.Value, back.Value)
	})

	t.Run("is deterministic", func(t *testing.T) {
		plan := sellPlan(tokenA, tokenB, 100, 1000, 950,
			rfqFill(tokenA, tokenB, 40, 400),
			uniV2Fill(SourceUniswapV2, tokenA, tokenB, 40, 380),
			bridgeFill("Balancer", tokenA, tokenB, 20, 190),
		)
		first, err := sel.SelectAndEncode(plan, nil)
		require.NoError(t, err)
		second, err := sel.SelectAndEncode(plan, nil)
		require.NoError(t, err)
		require.Equal(t, first.Data, second.Data)
	})
}

func TestSelectAndEncodeErrors(t *testing.T) {
	sel := mustSelector(t, Mainnet)

	t.Run("nil plan", func(t *testing.T) {
		_, err := sel.SelectAndEncode(nil, nil)
		require.ErrorIs(t, err, ErrNoRoute)
	})

	t.Run("plan without fills", func(t *testing.T) {
		_, err := sel.SelectAndEncode(sellPlan(tokenA, tokenB, 100, 1000, 950), nil)
		require.ErrorIs(t, err, ErrNoRoute)
	})

	t.Run("both legs native", func(t *testing.T) {
		plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
		_, err := sel.SelectAndEncode(plan, &ExecutionOptions{IsFromETH: true, IsToETH: true})
		require.ErrorIs(t, err, ErrBothLegsNative)
		require.ErrorIs(t, err, ErrUnsupportedOptions)
	})

	t.Run("native legs must trade the wrapped token", func(t *testing.T) {
		tests := []struct {
			name string
			fill Fill
			opts *ExecutionOptions
		}{
			{"curve buying native", curveFill(tokenA, tokenB, 100, 1000), MustExecutionOptions(WithToETH())},
			{"uniswap v3 buying native", uniV3Fill(tokenA, tokenB, 100, 1000), MustExecutionOptions(WithToETH())},
			{"uniswap v2 selling native", uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000), MustExecutionOptions(WithFromETH())},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				plan := sellPlan(tokenA, tokenB, 100, 1000, 950, tt.fill)
				_, err := sel.SelectAndEncode(plan, tt.opts)
				require.ErrorIs(t, err, ErrNativeLegMismatch)
				require.ErrorIs(t, err, ErrUnsupportedOptions)

				_, err = sel.SelectRoute(plan, tt.opts)
				require.ErrorIs(t, err, ErrNativeLegMismatch)
			})
		}
	})

	t.Run("sell token fee", func(t *testing.T) {
		plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
		opts := &ExecutionOptions{AffiliateFee: AffiliateFee{Type: PercentageFee, SellTokenFeeAmount: amt(3)}}
		_, err := sel.SelectAndEncode(plan, opts)
		require.ErrorIs(t, err, ErrSellTokenFee)
	})

	t.Run("inconsistent plans", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*SwapPlan)
		}{
			{"missing bound", func(p *SwapPlan) { p.BestCase.MakerAmount = nil }},
			{"negative amount", func(p *SwapPlan) { p.WorstCase.TotalTakerAmount = amt(-1) }},
			{"worst above best", func(p *SwapPlan) { p.WorstCase.MakerAmount = amt(2000) }},
			{"fill without data", func(p *SwapPlan) { p.Fills[0].Data = nil }},
			{"two-hop with one fill", func(p *SwapPlan) { p.IsTwoHop = true }},
			{"overflowing amount", func(p *SwapPlan) { p.Fills[0].TakerAmount = new(big.Int).Lsh(big.NewInt(1), 256) }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
				tt.mutate(plan)
				_, err := sel.SelectAndEncode(plan, nil)
				require.ErrorIs(t, err, ErrNoRoute)
			})
		}
	})

	t.Run("missing pipeline deployment", func(t *testing.T) {
		net, err := DefaultNetwork(Mainnet)
		require.NoError(t, err)
		net.Deployments = NewDeploymentTable(Mainnet, map[Step]uint32{StepFillQuote: 23, StepPayTaker: 17})
		s, err := NewSelector(net, quietLogger())
		require.NoError(t, err)

		plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
		opts := MustExecutionOptions(WithAffiliateFee(AffiliateFee{Type: PercentageFee, Recipient: affiliate, BuyTokenFeeAmount: amt(5)}))
		_, err = s.SelectAndEncode(plan, opts)
		require.ErrorIs(t, err, ErrUnresolvedIdentifier)

		var pipeErr *PipelineError
		require.True(t, errors.As(err, &pipeErr))
		require.Equal(t, StepAffiliateFee, pipeErr.Step)
	})
}

func TestCurveWithoutProviderFallsBack(t *testing.T) {
	net, err := DefaultNetwork(Mainnet)
	require.NoError(t, err)
	net.CurveLiquidityProvider = common.Address{}
	sel, err := NewSelector(net, quietLogger())
	require.NoError(t, err)

	plan := sellPlan(tokenA, tokenB, 100, 1000, 950, curveFill(tokenA, tokenB, 100, 1000))
	res, err := sel.SelectAndEncode(plan, nil)
	require.NoError(t, err)
	require.Equal(t, RouteTransformERC20, res.Route)
}

func TestNewSelector(t *testing.T) {
	t.Run("unknown chain", func(t *testing.T) {
		_, err := NewSelectorForChain(10)
		require.ErrorIs(t, err, ErrUnknownNetwork)
	})

	t.Run("incomplete network", func(t *testing.T) {
		net, err := DefaultNetwork(BSC)
		require.NoError(t, err)
		net.ExchangeProxy = common.Address{}
		_, err = NewSelector(net)
		require.ErrorIs(t, err, ErrUnresolvedIdentifier)
	})

	t.Run("copies the network", func(t *testing.T) {
		net, err := DefaultNetwork(Mainnet)
		require.NoError(t, err)
		sel, err := NewSelector(net, quietLogger())
		require.NoError(t, err)

		net.Routes = nil
		require.True(t, sel.Network().RouteEnabled(RouteUniswapVIP))

		sel.Network().Routes[0] = RouteTransformERC20
		require.Equal(t, RouteUniswapVIP, sel.Network().Routes[0])
	})
}

func TestSelectorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sel, err := NewSelectorForChain(Mainnet, WithLogger(logger))
	require.NoError(t, err)

	plan := sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000))
	_, err = sel.SelectAndEncode(plan, nil)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"msg":"Selected swap route"`)
	require.Contains(t, out, `"route":"uniswap_vip"`)
	require.Contains(t, out, `"chain":1`)
}

func TestSelectorConcurrentUse(t *testing.T) {
	sel := mustSelector(t, Mainnet)
	plans := []*SwapPlan{
		sellPlan(tokenA, tokenB, 100, 1000, 950, uniV2Fill(SourceUniswapV2, tokenA, tokenB, 100, 1000)),
		sellPlan(tokenA, tokenB, 100, 1000, 950, rfqFill(tokenA, tokenB, 60, 600), uniV3Fill(tokenA, tokenB, 40, 380)),
		buyPlan(tokenA, tokenB, 100, 200, 210, curveFill(tokenA, tokenB, 200, 100)),
	}

	want := make([][]byte, len(plans))
	for i, p := range plans {
		res, err := sel.SelectAndEncode(p, nil)
		require.NoError(t, err)
		want[i] = res.Data
	}

	var g errgroup.Group
	for n := 0; n < 32; n++ {
		g.Go(func() error {
			for i, p := range plans {
				res, err := sel.SelectAndEncode(p, nil)
				if err != nil {
					return err
				}
				if !bytes.Equal(want[i], res.Data) {
					return errors.New("call data differs between goroutines")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestRouteKind(t *testing.T) {
	for _, r := range routes {
		require.True(t, r.kind.valid(), r.kind)
		require.False(t, strings.ContainsAny(r.kind.String(), " -"))
	}
	require.False(t, RouteKind("sell_to_balancer").valid())
	require.Equal(t, RouteTransformERC20, routes[len(routes)-1].kind)
}

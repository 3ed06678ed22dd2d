// Package swapcall turns a computed swap plan into call data for one entry
// point of the 0x exchange proxy.
//
// A plan (fills plus best- and worst-case bounds) comes from a routing engine.
// The selector checks it against a fixed list of route rules, from the cheapest
// specialised entry point down to the general transformation pipeline, and
// encodes the first route the plan is compatible with:
//   - sellToUniswap / sellToPancakeSwap for single AMM fork fills
//   - the UniswapV3 entry points for single concentrated-liquidity fills
//   - sellToLiquidityProvider for single stable-swap fills
//   - fillRfqOrder / batchFillRfqOrders and the OTC fills for signed orders
//   - multiplexBatchSell* and multiplexMultiHopSell* for split and two-hop plans
//   - transformERC20 for everything else
//
// # Basic Usage
//
//	sel, err := swapcall.NewSelectorForChain(swapcall.Mainnet)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts, err := swapcall.NewExecutionOptions(swapcall.WithFromETH())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := sel.SelectAndEncode(plan, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Submit res.Data to res.To with res.Value attached.
//
// # Slippage
//
// The slippage rate is derived from the plan's own bounds. Native orders are
// signed and keep their amounts; AMM outputs are floored (sells) or inputs
// ceiled (buys). Fill amounts never exceed what remains of the sell amount.
//
// # Networks
//
// Built-in configuration exists for Mainnet, BSC and Polygon. Each Network
// lists the specialised routes it enables and the deployment nonces of the
// pipeline steps. LoadNetworks reads overrides and new chains from YAML.
//
// # Concurrency
//
// A Selector is immutable after construction and may be shared between
// goroutines.
package swapcall

package swapcall

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// networkFile is the YAML layout accepted by LoadNetworks.
//
//	networks:
//	  - chain_id: 1
//	    exchange_proxy: "0xDef1C0ded9bec7F1a1670819833240f027b25EfF"
//	    routes: [uniswap_vip, rfq_vip]
//	    deployments:
//	      fill_quote: 23
//	      pay_taker: 17
type networkFile struct {
	Networks []networkEntry `yaml:"networks"`
}

type networkEntry struct {
	ChainID                ChainID         `yaml:"chain_id"`
	ExchangeProxy          *common.Address `yaml:"exchange_proxy"`
	WrappedNative          *common.Address `yaml:"wrapped_native"`
	CurveLiquidityProvider *common.Address `yaml:"curve_liquidity_provider"`
	Routes                 []RouteKind     `yaml:"routes"`
	UniswapVIPSources      []Source        `yaml:"uniswap_vip_sources"`
	ForkVIPSources         []Source        `yaml:"fork_vip_sources"`
	Deployments            map[Step]uint32 `yaml:"deployments"`
}

// LoadNetworks parses network definitions from YAML. Entries for chains with
// built-in defaults overlay those defaults; list and map fields replace them
// wholesale. Every returned network has passed Validate.
func LoadNetworks(r io.Reader) (map[ChainID]*Network, error) {
	var file networkFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing network config: %w", err)
	}

	out := make(map[ChainID]*Network, len(file.Networks))
	for i, entry := range file.Networks {
		if entry.ChainID == 0 {
			return nil, fmt.Errorf("network entry %d: chain_id is required", i)
		}
		if _, dup := out[entry.ChainID]; dup {
			return nil, fmt.Errorf("network entry %d: duplicate chain_id %d", i, entry.ChainID)
		}
		n, err := entry.apply()
		if err != nil {
			return nil, fmt.Errorf("network entry %d: %w", i, err)
		}
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("network entry %d: %w", i, err)
		}
		log.Info("Loaded network configuration", "chain", n.ChainID, "proxy", n.ExchangeProxy, "routes", len(n.Routes))
		out[n.ChainID] = n
	}
	return out, nil
}

// LoadNetworksFile is LoadNetworks reading from path.
func LoadNetworksFile(path string) (map[ChainID]*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening network config: %w", err)
	}
	defer f.Close()
	return LoadNetworks(f)
}

func (e *networkEntry) apply() (*Network, error) {
	n, err := DefaultNetwork(e.ChainID)
	if err != nil {
		n = &Network{ChainID: e.ChainID}
	}
	if e.ExchangeProxy != nil {
		n.ExchangeProxy = *e.ExchangeProxy
	}
	if e.WrappedNative != nil {
		n.WrappedNative = *e.WrappedNative
	}
	if e.CurveLiquidityProvider != nil {
		n.CurveLiquidityProvider = *e.CurveLiquidityProvider
	}
	if e.Routes != nil {
		for _, r := range e.Routes {
			if !r.valid() {
				return nil, fmt.Errorf("unknown route %q", r)
			}
		}
		n.Routes = e.Routes
	}
	if e.UniswapVIPSources != nil {
		n.UniswapVIPSources = e.UniswapVIPSources
	}
	if e.ForkVIPSources != nil {
		for _, s := range e.ForkVIPSources {
			if _, err := forkIndex(s, e.ChainID); err != nil {
				return nil, err
			}
		}
		n.ForkVIPSources = e.ForkVIPSources
	}
	if e.Deployments != nil {
		n.Deployments = NewDeploymentTable(e.ChainID, e.Deployments)
	}
	return n, nil
}

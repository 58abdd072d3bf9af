package hdkey

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network is the Bitcoin network an extended key is valid for.
type Network int

const (
	// Mainnet ...
	Mainnet Network = iota
	// Testnet covers testnet3, signet and regtest, which share HD versions.
	Testnet
)

// ParseNetwork accepts the network names found in wallet exports, including
// Coldcard chain codes (BTC, XTN, XRT).
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "btc", "main", "mainnet", "bitcoin":
		return Mainnet, nil
	case "xtn", "xrt", "tbtc", "test", "testnet", "testnet3", "testnet4",
		"regtest", "signet":
		return Testnet, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
}

// Params returns the chain parameters of the network.
func (n Network) Params() *chaincfg.Params {
	if n == Testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// CoinType returns the BIP44 coin type of the network.
func (n Network) CoinType() uint32 {
	if n == Testnet {
		return 1
	}
	return 0
}

func (n Network) String() string {
	if n == Testnet {
		return "testnet"
	}
	return "mainnet"
}

// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config defines the wallet's compiled-in per-network
// endpoint defaults and the command-line flags that can override
// them.
package config

// NetParams groups the default remote-node endpoints and wallet file
// suffix for one network.
type NetParams struct {
	Name       string
	RPCURL     string
	WSURL      string
	FileSuffix string
}

// MainNet is the default, public mainnet node pair.
var MainNet = NetParams{
	Name:       "mainnet",
	RPCURL:     "https://mynano.ninja/api/node",
	WSURL:      "wss://ws.mynano.ninja/",
	FileSuffix: "",
}

// TestNet is a second public node pair used when the wallet is run
// with --testnet. There is no chain-validation difference between the
// two; only the default endpoints and the wallet file suffix change.
var TestNet = NetParams{
	Name:       "testnet",
	RPCURL:     "https://beta.mynano.ninja/api/node",
	WSURL:      "wss://beta.ws.mynano.ninja/",
	FileSuffix: "-testnet",
}

// ActiveNet returns TestNet when testnet is true, otherwise MainNet.
func ActiveNet(testnet bool) NetParams {
	if testnet {
		return TestNet
	}
	return MainNet
}

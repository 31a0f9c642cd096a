// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"github.com/jessevdk/go-flags"
)

// defaultWalletFile is the seed store path used when --walletfile is
// not supplied.
const defaultWalletFile = "nanors.wal"

// Config holds the command-line-overridable settings the wallet
// starts with. Compiled-in NetParams defaults are used for any field
// left at its zero value.
type Config struct {
	TestNet    bool   `long:"testnet" description:"use the testnet endpoint defaults instead of mainnet"`
	RPCURL     string `long:"rpcurl" description:"override the default remote node RPC URL"`
	WSURL      string `long:"wsurl" description:"override the default remote node WebSocket URL"`
	WalletFile string `long:"walletfile" description:"path to the encrypted seed store" default:"nanors.wal"`
}

// Load parses args (typically os.Args[1:]) into a Config, filling
// RPCURL/WSURL/WalletFile from the active network's defaults wherever
// the corresponding flag was not supplied.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	net := ActiveNet(cfg.TestNet)
	if cfg.RPCURL == "" {
		cfg.RPCURL = net.RPCURL
	}
	if cfg.WSURL == "" {
		cfg.WSURL = net.WSURL
	}
	if cfg.WalletFile == defaultWalletFile {
		cfg.WalletFile = defaultWalletFile + net.FileSuffix
	}
	return cfg, nil
}

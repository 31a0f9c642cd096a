// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command nanovaultd is a menu-driven CLI wallet for a block-lattice
// account-chain network. It wires the config, seedstore, rpc,
// wsreactor, and manager packages together; the chain-state engine
// they orchestrate is the part of this program worth reading.
package main

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ede0m/nanovaultd/account"
	"github.com/ede0m/nanovaultd/codec"
	"github.com/ede0m/nanovaultd/config"
	"github.com/ede0m/nanovaultd/manager"
	"github.com/ede0m/nanovaultd/rpc"
	"github.com/ede0m/nanovaultd/seedstore"
	"github.com/ede0m/nanovaultd/wallet"
	"github.com/ede0m/nanovaultd/walletlog"
	"github.com/ede0m/nanovaultd/wsreactor"
)

var log = walletlog.SubsystemLogger("NVLT")

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer walletlog.Close()

	manager.UseLogger(walletlog.SubsystemLogger("MGR"))
	rpc.UseLogger(walletlog.SubsystemLogger("RPC "))
	wsreactor.UseLogger(walletlog.SubsystemLogger("WSR "))

	probe := rpc.NewClient(cfg.RPCURL)
	if _, err := probe.Telemetry(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach node at %s: %v\n", cfg.RPCURL, err)
		os.Exit(1)
	}

	store := seedstore.New(cfg.WalletFile)
	mgr := manager.New(cfg.RPCURL, cfg.WSURL, store)
	defer mgr.Close()

	log.Infof("nanovaultd starting against %s (wallet file %s)", cfg.RPCURL, cfg.WalletFile)
	runMenu(mgr, store, bufio.NewScanner(os.Stdin))
}

func runMenu(mgr *manager.Manager, store *seedstore.Store, in *bufio.Scanner) {
	for {
		fmt.Print("wallet> ")
		if !in.Scan() {
			return
		}
		switch strings.TrimSpace(in.Text()) {
		case "new":
			walletNew(mgr, store, in)
		case "load":
			walletLoad(mgr, store, in)
		case "show":
			walletShow(mgr)
		case "account":
			accountMenu(mgr, in)
		case "exit", "quit":
			return
		default:
			fmt.Println("commands: new, load, show, account, exit")
		}
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	in.Scan()
	return strings.TrimSpace(in.Text())
}

func walletNew(mgr *manager.Manager, store *seedstore.Store, in *bufio.Scanner) {
	name := prompt(in, "  name: ")
	password := prompt(in, "  password: ")

	seedBytes, err := codec.RandomSeed()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	var seed [32]byte
	copy(seed[:], seedBytes)

	if err := store.Create(name, 1, seed, password); err != nil {
		fmt.Println("error:", err)
		return
	}

	w := wallet.New(name)
	w.Accounts.Add(account.New(seed, 0))
	if err := mgr.SetWallet(w); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("created wallet %q with account %s\n", name, w.Accounts.Addresses()[0])
}

func walletLoad(mgr *manager.Manager, store *seedstore.Store, in *bufio.Scanner) {
	name := prompt(in, "  name: ")
	password := prompt(in, "  password: ")

	count, seed, err := store.Load(name, password)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	w := wallet.New(name)
	for i := 0; i < count; i++ {
		w.Accounts.Add(account.New(seed, uint32(i)))
	}
	if err := mgr.SetWallet(w); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("loaded wallet %q with %d account(s)\n", name, count)
}

func walletShow(mgr *manager.Manager) {
	if mgr.Wallet == nil {
		fmt.Println("no wallet loaded")
		return
	}
	fmt.Printf("wallet %q\n", mgr.Wallet.Name)
	for _, addr := range mgr.Wallet.Accounts.Addresses() {
		a := mgr.Wallet.Accounts.Get(addr)
		fmt.Printf("  [%d] %s balance=%s\n", a.Index, a.Address, a.Balance.String())
	}
}

func accountMenu(mgr *manager.Manager, in *bufio.Scanner) {
	if mgr.Wallet == nil {
		fmt.Println("no wallet loaded")
		return
	}
	for {
		fmt.Print("account> ")
		if !in.Scan() {
			return
		}
		switch strings.TrimSpace(in.Text()) {
		case "create", "new":
			accountCreate(mgr, in)
		case "send":
			accountSend(mgr, in)
		case "change":
			accountChange(mgr, in)
		case "show":
			walletShow(mgr)
		case "back":
			return
		default:
			fmt.Println("commands: create, send, change, show, back")
		}
	}
}

func accountCreate(mgr *manager.Manager, in *bufio.Scanner) {
	password := prompt(in, "  password: ")
	a, err := mgr.AccountAdd(password)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("added account [%d] %s\n", a.Index, a.Address)
}

func accountSend(mgr *manager.Manager, in *bufio.Scanner) {
	from := prompt(in, "  from: ")
	to := prompt(in, "  to: ")
	amountStr := prompt(in, "  amount (raw): ")

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		fmt.Println("error: malformed amount")
		return
	}
	hash, err := mgr.Send(amount, from, to)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("sent, block hash", hash)
}

func accountChange(mgr *manager.Manager, in *bufio.Scanner) {
	from := prompt(in, "  from: ")
	rep := prompt(in, "  new representative: ")

	hash, err := mgr.Change(from, rep)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("changed, block hash", hash)
}

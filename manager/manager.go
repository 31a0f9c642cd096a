// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package manager orchestrates a loaded wallet against a remote node:
// pulling each account's chain head and pending transfers on
// synchronize, publishing user-initiated send/change/account_add
// operations, and auto-receiving inbound transfers observed on the
// confirmation stream.
package manager

import (
	"errors"
	"math/big"
	"sync"

	"github.com/decred/slog"

	"github.com/ede0m/nanovaultd/account"
	"github.com/ede0m/nanovaultd/block"
	"github.com/ede0m/nanovaultd/codec"
	"github.com/ede0m/nanovaultd/rpc"
	"github.com/ede0m/nanovaultd/seedstore"
	"github.com/ede0m/nanovaultd/wallet"
	"github.com/ede0m/nanovaultd/work"
	"github.com/ede0m/nanovaultd/wsreactor"
)

// ErrFromNotFound is returned by any operation naming an account
// address the current wallet does not track.
var ErrFromNotFound = errors.New("manager: address not tracked by the loaded wallet")

// ErrNoWalletLoaded is returned by any operation requiring a loaded
// wallet when none has been set.
var ErrNoWalletLoaded = errors.New("manager: no wallet loaded")

// log is the manager's subsystem logger, wired by UseLogger. It
// defaults to a disabled sink.
var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Manager is the orchestrator: one RPC handle, one WebSocket endpoint,
// one seed store, and at most one loaded wallet with a live
// confirmation reactor bound to it.
type Manager struct {
	rpc    *rpc.Client
	wsAddr string
	store  *seedstore.Store

	mu      sync.Mutex
	Wallet  *wallet.Wallet
	reactor *wsreactor.Reactor
}

// New returns a Manager with no wallet loaded, talking to the node at
// rpcAddr and wsAddr through store for seed persistence.
func New(rpcAddr, wsAddr string, store *seedstore.Store) *Manager {
	return &Manager{
		rpc:    rpc.NewClient(rpcAddr),
		wsAddr: wsAddr,
		store:  store,
	}
}

// SetWallet cancels any reactor bound to a previously loaded wallet,
// installs w, synchronizes every account against the node, and starts
// a new reactor watching w's addresses.
func (m *Manager) SetWallet(w *wallet.Wallet) error {
	m.mu.Lock()
	if m.reactor != nil {
		m.reactor.Close()
		m.reactor = nil
	}
	m.Wallet = w
	m.mu.Unlock()

	if err := m.Synchronize(); err != nil {
		return err
	}

	r, err := wsreactor.New(m.wsAddr, w.Accounts.Addresses())
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.reactor = r
	m.mu.Unlock()

	go m.watchReactor(w, r)
	return nil
}

// Close shuts down the reactor bound to the currently loaded wallet,
// if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reactor != nil {
		m.reactor.Close()
		m.reactor = nil
	}
}

func (m *Manager) watchReactor(w *wallet.Wallet, r *wsreactor.Reactor) {
	for conf := range r.Events {
		if conf.Block.SubType != string(block.SubTypeSend) {
			continue
		}
		addr := conf.Block.LinkAsAccount
		if !w.Accounts.Exists(addr) {
			// Confirmations for addresses this wallet does not track
			// are not ours to auto-receive.
			continue
		}
		amount, ok := new(big.Int).SetString(conf.Amount, 10)
		if !ok {
			log.Warnf("manager: malformed confirmation amount %q for %s", conf.Amount, addr)
			continue
		}
		if err := m.receiveFlow(amount, conf.Hash, addr); err != nil {
			log.Warnf("manager: reactor receive_flow for %s: %v", addr, err)
		}
	}
}

// Synchronize pulls the current chain head and drains pending inbound
// transfers for every account in the loaded wallet. Per-account
// failures are logged and do not abort the remaining accounts; a
// transient RPC failure on one account is repaired on the next call.
func (m *Manager) Synchronize() error {
	m.mu.Lock()
	w := m.Wallet
	m.mu.Unlock()
	if w == nil {
		return ErrNoWalletLoaded
	}

	for _, addr := range w.Accounts.Addresses() {
		if err := m.synchronizeAccount(w, addr); err != nil {
			log.Warnf("manager: synchronize %s: %v", addr, err)
		}
	}
	return nil
}

func (m *Manager) synchronizeAccount(w *wallet.Wallet, addr string) error {
	info, err := m.rpc.AccountInfo(addr)
	if err != nil {
		return err
	}
	if info != nil {
		balance, ok := new(big.Int).SetString(info.Balance, 10)
		if !ok {
			return errors.New("manager: malformed account_info balance")
		}
		w.Accounts.Lock()
		a := w.Accounts.Locked(addr)
		var loadErr error
		if a != nil {
			loadErr = a.Load(balance, info.Frontier, info.Representative)
		}
		w.Accounts.Unlock()
		if loadErr != nil {
			return loadErr
		}
	}

	hashes, err := m.rpc.Pending(addr)
	if err != nil {
		return err
	}
	for _, hash := range hashes {
		bi, err := m.rpc.BlockInfo(hash)
		if err != nil {
			log.Warnf("manager: block_info %s: %v", hash, err)
			continue
		}
		amount, ok := new(big.Int).SetString(bi.Amount, 10)
		if !ok {
			log.Warnf("manager: malformed block_info amount %q for %s", bi.Amount, hash)
			continue
		}
		if err := m.receiveFlow(amount, hash, addr); err != nil {
			log.Warnf("manager: receive_flow %s %s: %v", addr, hash, err)
		}
	}
	return nil
}

// Send publishes a send block debiting amount from the from account to
// the to address. ErrFromNotFound is returned if from is not tracked
// by the loaded wallet.
func (m *Manager) Send(amount *big.Int, from, to string) (string, error) {
	return m.publish(from, func(a *account.Account) (*block.Block, error) {
		if err := m.ensureWork(a, work.SendDefault); err != nil {
			return nil, err
		}
		return a.Send(amount, to)
	})
}

// Change publishes a change block designating newRepresentative as
// the from account's representative; balance is unchanged.
func (m *Manager) Change(from, newRepresentative string) (string, error) {
	return m.publish(from, func(a *account.Account) (*block.Block, error) {
		if err := m.ensureWork(a, work.SendDefault); err != nil {
			return nil, err
		}
		return a.Change(newRepresentative)
	})
}

// receiveFlow publishes an open or receive block (depending on whether
// the account's chain has been opened yet) crediting amount from
// sourceHash, then re-caches work at send difficulty for the account's
// next block.
func (m *Manager) receiveFlow(amount *big.Int, sourceHash, addr string) error {
	_, err := m.publish(addr, func(a *account.Account) (*block.Block, error) {
		if err := m.ensureWork(a, work.ReceiveDifficulty); err != nil {
			return nil, err
		}
		if a.Frontier == ([32]byte{}) {
			return a.Open(amount, sourceHash)
		}
		return a.Receive(amount, sourceHash)
	})
	return err
}

// publish looks up addr under the wallet's account lock, holds that
// lock for the full build-sign-process-accept sequence build performs,
// and on success pre-caches send-difficulty work for the account's
// next block. Holding the lock for the whole flow is what prevents two
// blocks sharing the same previous for this account.
func (m *Manager) publish(addr string, build func(*account.Account) (*block.Block, error)) (string, error) {
	m.mu.Lock()
	w := m.Wallet
	m.mu.Unlock()
	if w == nil {
		return "", ErrNoWalletLoaded
	}

	w.Accounts.Lock()
	defer w.Accounts.Unlock()

	a := w.Accounts.Locked(addr)
	if a == nil {
		return "", ErrFromNotFound
	}

	b, err := build(a)
	if err != nil {
		return "", err
	}

	hash, err := m.rpc.Process(b)
	if err != nil {
		return "", err
	}
	a.Accept(b)

	if err := m.ensureWork(a, work.SendDefault); err != nil {
		log.Warnf("manager: pre-cache work for %s: %v", addr, err)
	}
	return hash, nil
}

func (m *Manager) ensureWork(a *account.Account, threshold uint64) error {
	if a.HasWork() {
		return nil
	}
	nonce, err := work.Search(a.Root(), threshold)
	if err != nil {
		return err
	}
	a.CacheWork(codec.ToHexUpper(nonce[:]))
	return nil
}

// AccountAdd derives and registers the next account in sequence for
// the loaded wallet, re-encrypting the seed record with the new
// account count. password must match the password the wallet's seed
// was saved under.
func (m *Manager) AccountAdd(password string) (*account.Account, error) {
	m.mu.Lock()
	w := m.Wallet
	m.mu.Unlock()
	if w == nil {
		return nil, ErrNoWalletLoaded
	}

	_, seed, err := m.store.Load(w.Name, password)
	if err != nil {
		return nil, err
	}

	index := uint32(w.Accounts.Len())
	a := account.New(seed, index)
	w.Accounts.Add(a)

	if err := m.store.Save(w.Name, int(index)+1, seed, password); err != nil {
		return a, err
	}
	return a, nil
}

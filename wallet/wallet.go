// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet holds a named collection of derived accounts behind a
// single mutual-exclusion lock. The lock serializes every operation
// that touches an account's chain head or work cache, so two blocks
// sharing the same previous can never be published for one account.
package wallet

import (
	"sync"

	"github.com/ede0m/nanovaultd/account"
)

// AccountRegistry is a mutex-protected collection of accounts keyed by
// address. Accounts are never evicted, only added as the wallet grows;
// the lock exists purely for mutual exclusion between concurrent
// operations (user commands, synchronize, and reactor callbacks), not
// for a bounded-cache eviction policy.
type AccountRegistry struct {
	sync.Mutex
	accounts map[string]*account.Account
	order    []string
}

// NewAccountRegistry returns an empty registry.
func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{
		accounts: make(map[string]*account.Account),
	}
}

// Add registers a, keyed by its address. Safe for concurrent access.
func (r *AccountRegistry) Add(a *account.Account) {
	r.Lock()
	defer r.Unlock()
	if _, exists := r.accounts[a.Address]; !exists {
		r.order = append(r.order, a.Address)
	}
	r.accounts[a.Address] = a
}

// Exists reports whether an account for address is registered.
func (r *AccountRegistry) Exists(address string) bool {
	r.Lock()
	defer r.Unlock()
	_, ok := r.accounts[address]
	return ok
}

// Get returns the account registered for address, or nil if none is.
func (r *AccountRegistry) Get(address string) *account.Account {
	r.Lock()
	defer r.Unlock()
	return r.accounts[address]
}

// Len returns the number of registered accounts.
func (r *AccountRegistry) Len() int {
	r.Lock()
	defer r.Unlock()
	return len(r.order)
}

// Addresses returns every registered address, in the order accounts
// were added.
func (r *AccountRegistry) Addresses() []string {
	r.Lock()
	defer r.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Each invokes fn for every registered account, in add order, holding
// the registry lock for the duration. fn must not itself call back
// into the registry.
func (r *AccountRegistry) Each(fn func(*account.Account)) {
	r.Lock()
	defer r.Unlock()
	for _, addr := range r.order {
		fn(r.accounts[addr])
	}
}

// Locked returns the account registered for address without acquiring
// the registry lock. Callers must already hold it (via the embedded
// Lock/Unlock) for the duration of a multi-step publication flow, the
// way a single send or receive spans a build-sign-process-accept
// sequence that must not interleave with another operation on the same
// account.
func (r *AccountRegistry) Locked(address string) *account.Account {
	return r.accounts[address]
}

// LockedAppend registers a without acquiring the registry lock. Callers
// must already hold it.
func (r *AccountRegistry) LockedAppend(a *account.Account) {
	if _, exists := r.accounts[a.Address]; !exists {
		r.order = append(r.order, a.Address)
	}
	r.accounts[a.Address] = a
}

// Wallet is a named seed-derived set of accounts.
type Wallet struct {
	Name     string
	Accounts *AccountRegistry
}

// New returns a Wallet named name with an empty account registry.
func New(name string) *Wallet {
	return &Wallet{
		Name:     name,
		Accounts: NewAccountRegistry(),
	}
}

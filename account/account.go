// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account implements a single account chain: its in-memory
// head (balance, frontier, representative), its cached proof-of-work
// nonce, and the operations that construct and sign the next state
// block for that chain.
package account

import (
	"errors"
	"math/big"

	"github.com/ede0m/nanovaultd/block"
	"github.com/ede0m/nanovaultd/codec"
	"github.com/ede0m/nanovaultd/internal/ed25519blake2b"
	"github.com/ede0m/nanovaultd/keys"
)

// DefaultRepresentative is the representative newly created accounts
// vote through until the owner changes it.
const DefaultRepresentative = "nano_1center16ci77qw5w69ww8sy4i4bfmgfhr81ydzpurm91cauj11jn6y3uc5y"

// ErrArithmeticUnderflow is returned by Send when the requested amount
// exceeds the account's current balance.
var ErrArithmeticUnderflow = errors.New("account: send amount exceeds balance")

// ErrNoWorkCached is returned by any block-constructing operation when
// no proof-of-work nonce has been cached for the account's current
// root.
var ErrNoWorkCached = errors.New("account: no work cached for current root")

// Account is one chain in the block-lattice ledger: a deterministic
// key pair plus the mutable head fields the network maintains.
type Account struct {
	Index          uint32
	Address        string
	PublicKey      [32]byte
	Balance        *big.Int
	Frontier       [32]byte
	Representative string

	workCache string // hex nonce, empty when none is cached

	priv *ed25519blake2b.PrivateKey
}

// New derives the account at index under seed and initializes an
// unopened chain: zero balance, zero frontier, the default
// representative, and no cached work.
func New(seed [32]byte, index uint32) *Account {
	secret, public := keys.DeriveAccount(seed, index)
	return &Account{
		Index:          index,
		Address:        keys.EncodeAddress(public),
		PublicKey:      public,
		Balance:        big.NewInt(0),
		Representative: DefaultRepresentative,
		priv:           ed25519blake2b.NewPrivateKey(secret),
	}
}

// Root is the value proof-of-work is computed against for this
// account's next block: the public key while the chain is unopened,
// the frontier otherwise.
func (a *Account) Root() [32]byte {
	if a.Frontier == ([32]byte{}) {
		return a.PublicKey
	}
	return a.Frontier
}

// Load overwrites the account's mutable chain fields from an
// authoritative source (typically the result of an account_info RPC
// call) and invalidates any cached work, since the root may have
// changed.
func (a *Account) Load(balance *big.Int, frontierHex, representative string) error {
	frontier, err := codec.FromHex(frontierHex)
	if err != nil || len(frontier) != 32 {
		return errors.New("account: malformed frontier hex")
	}
	a.Balance = new(big.Int).Set(balance)
	copy(a.Frontier[:], frontier)
	a.Representative = representative
	a.workCache = ""
	return nil
}

// HasWork reports whether a proof-of-work nonce is currently cached
// for this account's root.
func (a *Account) HasWork() bool {
	return a.workCache != ""
}

// CacheWork stores nonceHex as the proof-of-work for the account's
// current root.
func (a *Account) CacheWork(nonceHex string) {
	a.workCache = nonceHex
}

// Open constructs, signs, and returns the account's first block: an
// Open state block receiving amount from sourceHash.
func (a *Account) Open(amount *big.Int, sourceHash string) (*block.Block, error) {
	if !a.HasWork() {
		return nil, ErrNoWorkCached
	}
	newBalance := new(big.Int).Add(a.Balance, amount)
	return a.build(newBalance, sourceHash, block.SubTypeOpen)
}

// Receive constructs, signs, and returns a Receive state block
// crediting amount from sourceHash onto an already-opened chain.
func (a *Account) Receive(amount *big.Int, sourceHash string) (*block.Block, error) {
	if !a.HasWork() {
		return nil, ErrNoWorkCached
	}
	newBalance := new(big.Int).Add(a.Balance, amount)
	return a.build(newBalance, sourceHash, block.SubTypeReceive)
}

// Send constructs, signs, and returns a Send state block debiting
// amount to destination. ErrArithmeticUnderflow is returned, with no
// block constructed and the work cache untouched, if amount exceeds
// the current balance.
func (a *Account) Send(amount *big.Int, destination string) (*block.Block, error) {
	if !a.HasWork() {
		return nil, ErrNoWorkCached
	}
	if amount.Cmp(a.Balance) > 0 {
		return nil, ErrArithmeticUnderflow
	}
	newBalance := new(big.Int).Sub(a.Balance, amount)
	return a.build(newBalance, destination, block.SubTypeSend)
}

// Change constructs, signs, and returns a Change state block
// designating newRepresentative as the account's representative. The
// balance is unchanged.
func (a *Account) Change(newRepresentative string) (*block.Block, error) {
	if !a.HasWork() {
		return nil, ErrNoWorkCached
	}
	b, err := block.New(a.Address, a.Frontier, newRepresentative, new(big.Int).Set(a.Balance), "", block.SubTypeChange)
	if err != nil {
		return nil, err
	}
	b.Work = a.workCache
	b.Sign(a.priv)
	return b, nil
}

func (a *Account) build(newBalance *big.Int, link string, subType block.SubType) (*block.Block, error) {
	b, err := block.New(a.Address, a.Frontier, a.Representative, newBalance, link, subType)
	if err != nil {
		return nil, err
	}
	b.Work = a.workCache
	b.Sign(a.priv)
	return b, nil
}

// Accept is called after the network has processed b for this
// account: the frontier advances to b's hash, the balance becomes b's
// balance, and the cached work is invalidated (the root has changed).
func (a *Account) Accept(b *block.Block) {
	a.Frontier = b.Hash
	a.Balance = new(big.Int).Set(b.Balance)
	a.Representative = b.Representative
	a.workCache = ""
}

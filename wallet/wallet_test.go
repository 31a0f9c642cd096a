// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"sync"
	"testing"

	"github.com/ede0m/nanovaultd/account"
)

var testSeed = [32]byte{0x1}

func TestAddAndExists(t *testing.T) {
	r := NewAccountRegistry()
	a := account.New(testSeed, 0)

	if r.Exists(a.Address) {
		t.Fatal("registry should be empty before Add")
	}
	r.Add(a)
	if !r.Exists(a.Address) {
		t.Fatal("registry should report the account as present after Add")
	}
	if got := r.Get(a.Address); got != a {
		t.Fatal("Get should return the same account pointer that was added")
	}
}

func TestAddTwiceDoesNotDuplicateOrder(t *testing.T) {
	r := NewAccountRegistry()
	a := account.New(testSeed, 0)
	r.Add(a)
	r.Add(a)
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after adding the same account twice", r.Len())
	}
	if len(r.Addresses()) != 1 {
		t.Fatalf("Addresses has %d entries, want 1", len(r.Addresses()))
	}
}

func TestConcurrentAddIsRace_Free(t *testing.T) {
	r := NewAccountRegistry()
	var wg sync.WaitGroup
	for i := uint32(0); i < 16; i++ {
		wg.Add(1)
		go func(idx uint32) {
			defer wg.Done()
			r.Add(account.New(testSeed, idx))
		}(i)
	}
	wg.Wait()
	if r.Len() != 16 {
		t.Fatalf("Len = %d, want 16", r.Len())
	}
}

func TestWalletNewHasEmptyRegistry(t *testing.T) {
	w := New("alice")
	if w.Name != "alice" {
		t.Fatalf("Name = %q, want alice", w.Name)
	}
	if w.Accounts.Len() != 0 {
		t.Fatal("a freshly created wallet should have no accounts")
	}
}

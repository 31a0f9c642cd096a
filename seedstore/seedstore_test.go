// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package seedstore

import (
	"path/filepath"
	"testing"

	"github.com/ede0m/nanovaultd/codec"
)

func TestScenarioDRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "nanors.wal"))

	seed, err := codec.RandomSeed()
	if err != nil {
		t.Fatalf("RandomSeed: %v", err)
	}
	var seedArr [32]byte
	copy(seedArr[:], seed)

	if err := store.Create("alice", 1, seedArr, "p@ss"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, loaded, err := store.Load("alice", "p@ss")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if count != 1 {
		t.Fatalf("account count = %d, want 1", count)
	}
	if loaded != seedArr {
		t.Fatal("loaded seed does not match saved seed")
	}

	if _, _, err := store.Load("alice", "wrong"); err != ErrBadPassword {
		t.Fatalf("expected ErrBadPassword for wrong password, got %v", err)
	}

	if err := store.Save("alice", 2, seedArr, "p@ss"); err != nil {
		t.Fatalf("Save (replace): %v", err)
	}
	names, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	aliceCount := 0
	for _, n := range names {
		if n == "alice" {
			aliceCount++
		}
	}
	if aliceCount != 1 {
		t.Fatalf("expected exactly one alice record, found %d", aliceCount)
	}
	count, _, err = store.Load("alice", "p@ss")
	if err != nil {
		t.Fatalf("Load after replace: %v", err)
	}
	if count != 2 {
		t.Fatalf("account count after replace = %d, want 2", count)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "nanors.wal"))
	var seed [32]byte

	if err := store.Create("bob", 1, seed, "pw"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create("bob", 1, seed, "pw"); err != ErrWalletExists {
		t.Fatalf("expected ErrWalletExists, got %v", err)
	}
}

func TestLoadMissingWallet(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "nanors.wal"))
	if _, _, err := store.Load("nobody", "pw"); err != ErrWalletNotFound {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

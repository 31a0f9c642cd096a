// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work

import (
	"testing"

	"github.com/ede0m/nanovaultd/codec"
)

func TestScenarioEWorkHashEdge(t *testing.T) {
	pkBytes, err := codec.FromHex("611C5C60034E6AD9ED9591E62DD1A78B482C2EDF1A02C5E063E5ABE692AED065"[:64])
	if err != nil {
		t.Fatalf("hex decode public key: %v", err)
	}
	var pk [32]byte
	copy(pk[:], pkBytes)

	nonceBytes, err := codec.FromHex("41945D40C39DD008")
	if err != nil {
		t.Fatalf("hex decode nonce: %v", err)
	}
	var nonce [8]byte
	copy(nonce[:], nonceBytes)

	const threshold = 0xffffffc000000000
	if !Meets(nonce, pk, threshold) {
		t.Fatalf("Hash(nonce, pk) = %#x, want >= %#x", Hash(nonce, pk), uint64(threshold))
	}
}

func TestSearchFindsNonceAtSendDifficulty(t *testing.T) {
	var root [32]byte
	root[0] = 0x7

	nonce, err := Search(root, SendDefault)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	reversed := reverse8(nonce)
	if !Meets(reversed, root, SendDefault) {
		t.Fatal("returned nonce does not satisfy the send difficulty threshold")
	}
}

func TestSearchFindsNonceAtReceiveDifficulty(t *testing.T) {
	var root [32]byte
	root[3] = 0x42

	nonce, err := Search(root, ReceiveDifficulty)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	reversed := reverse8(nonce)
	if !Meets(reversed, root, ReceiveDifficulty) {
		t.Fatal("returned nonce does not satisfy the receive difficulty threshold")
	}
}

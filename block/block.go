// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block implements the state-block record: its canonical hash
// preimage, subtype-dependent link interpretation, and signature
// attachment. A state block is the only block kind this protocol uses;
// open, receive, send, and change differ only in how previous, link,
// and balance are populated.
package block

import (
	"errors"
	"math/big"

	"github.com/ede0m/nanovaultd/codec"
	"github.com/ede0m/nanovaultd/internal/ed25519blake2b"
	"github.com/ede0m/nanovaultd/keys"
)

// SubType tags the reason a state block was produced. It is a
// transport hint only: it is never part of the hash preimage.
type SubType string

const (
	SubTypeOpen    SubType = "open"
	SubTypeReceive SubType = "receive"
	SubTypeSend    SubType = "send"
	SubTypeChange  SubType = "change"
)

// sigPreamble is the fixed 32-byte prefix of every hash preimage: 31
// zero bytes followed by the state-block type tag 0x06.
var sigPreamble = [32]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 6,
}

// ErrBadLink describes an error where the link field could not be
// interpreted under the block's subtype (a malformed destination
// address for a send, or malformed hex for a receive/open source hash).
var ErrBadLink = errors.New("block: malformed link field")

// Block is a fully constructed, signed (or about-to-be-signed) state
// block.
type Block struct {
	Account        string
	Previous       [32]byte
	Representative string
	Balance        *big.Int
	Link           string
	SubType        SubType
	Work           string
	Signature      [64]byte
	Hash           [32]byte
}

// New builds a state block from its logical fields and computes its
// hash. Link is interpreted according to subType: for Send it is a
// destination address; for Receive and Open it is a hex-encoded source
// block hash; for Change it is ignored and treated as all-zero.
func New(account string, previous [32]byte, representative string, balance *big.Int, link string, subType SubType) (*Block, error) {
	b := &Block{
		Account:        account,
		Previous:       previous,
		Representative: representative,
		Balance:        new(big.Int).Set(balance),
		Link:           link,
		SubType:        subType,
	}
	hash, err := b.computeHash()
	if err != nil {
		return nil, err
	}
	b.Hash = hash
	return b, nil
}

// linkBytes resolves the 32-byte link value used in the hash preimage,
// per subType.
func (b *Block) linkBytes() ([32]byte, error) {
	var out [32]byte
	switch b.SubType {
	case SubTypeSend:
		pk, err := keys.DecodeAddress(b.Link)
		if err != nil {
			return out, ErrBadLink
		}
		return pk, nil
	case SubTypeReceive, SubTypeOpen:
		raw, err := codec.FromHex(b.Link)
		if err != nil || len(raw) != 32 {
			return out, ErrBadLink
		}
		copy(out[:], raw)
		return out, nil
	case SubTypeChange:
		return out, nil
	default:
		return out, ErrBadLink
	}
}

// computeHash builds the 176-byte canonical preimage and returns its
// BLAKE2b-256 digest.
func (b *Block) computeHash() ([32]byte, error) {
	var hash [32]byte
	pkAccount, err := keys.DecodeAddress(b.Account)
	if err != nil {
		return hash, err
	}
	pkRep, err := keys.DecodeAddress(b.Representative)
	if err != nil {
		return hash, err
	}
	link, err := b.linkBytes()
	if err != nil {
		return hash, err
	}

	balance := balanceBytes(b.Balance)

	preimage := make([]byte, 0, 176)
	preimage = append(preimage, sigPreamble[:]...)
	preimage = append(preimage, pkAccount[:]...)
	preimage = append(preimage, b.Previous[:]...)
	preimage = append(preimage, pkRep[:]...)
	preimage = append(preimage, balance[:]...)
	preimage = append(preimage, link[:]...)

	digest := codec.Blake2b(32, preimage)
	copy(hash[:], digest)
	return hash, nil
}

// balanceBytes renders n as a 16-byte big-endian, zero-padded integer.
func balanceBytes(n *big.Int) [16]byte {
	var out [16]byte
	b := n.Bytes()
	copy(out[16-len(b):], b)
	return out
}

// Root returns the value proof-of-work is computed against: the
// account's public key for an open block (previous is all-zero),
// otherwise previous.
func (b *Block) Root(publicKey [32]byte) [32]byte {
	if b.Previous == ([32]byte{}) {
		return publicKey
	}
	return b.Previous
}

// Sign computes a signature over the block's hash using priv and
// stores it in the Signature field. It is the caller's responsibility to ensure priv
// corresponds to the account named by Account.
func (b *Block) Sign(priv *ed25519blake2b.PrivateKey) {
	b.Signature = priv.Sign(b.Hash[:])
}

// Verify reports whether the block's signature is valid for public.
func (b *Block) Verify(public [32]byte) bool {
	return ed25519blake2b.Verify(public, b.Hash[:], b.Signature)
}

// wireBlock mirrors the JSON shape the remote node expects and
// returns for a state block.
type wireBlock struct {
	Type           string `json:"type"`
	Account        string `json:"account"`
	Previous       string `json:"previous"`
	Representative string `json:"representative"`
	Balance        string `json:"balance"`
	Link           string `json:"link"`
	Signature      string `json:"signature"`
	Work           string `json:"work"`
	SubType        string `json:"subtype,omitempty"`
}

// Wire returns the JSON-serializable wire representation of the block.
func (b *Block) Wire() interface{} {
	return wireBlock{
		Type:           "state",
		Account:        b.Account,
		Previous:       codec.ToHexUpper(b.Previous[:]),
		Representative: b.Representative,
		Balance:        b.Balance.String(),
		Link:           b.Link,
		Signature:      codec.ToHexUpper(b.Signature[:]),
		Work:           b.Work,
		SubType:        string(b.SubType),
	}
}

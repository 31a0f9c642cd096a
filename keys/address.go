// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys implements deterministic account key derivation and the
// textual account address encoding: seed and index in, secret and
// public key out; public key and address are a checksum-validate pair
// in both directions.
package keys

import (
	"errors"
	"regexp"

	"github.com/ede0m/nanovaultd/codec"
	"github.com/ede0m/nanovaultd/internal/ed25519blake2b"
)

// AddressPrefix is prepended to every encoded address.
const AddressPrefix = "nano_"

// bodyLen is the number of base32 characters the 256-bit public key
// encodes to (4 bits of padding + 256 bits of key = 260 bits = 52
// base32 groups).
const bodyLen = 52

// checksumLen is the number of base32 characters the 5-byte address
// checksum encodes to (40 bits = 8 base32 groups).
const checksumLen = 8

// ErrMalformedAddress describes an error where the supplied string is
// not shaped like an account address (wrong prefix, wrong length, or a
// character outside the address alphabet).
var ErrMalformedAddress = errors.New("keys: malformed address")

// ErrChecksumMismatch describes an error where an address's trailing
// checksum does not match the checksum computed from its public key.
var ErrChecksumMismatch = errors.New("keys: checksum mismatch")

var addressPattern = regexp.MustCompile(`^(nano|xrb)_[13][13456789abcdefghijkmnopqrstuwxyz]{59}$`)

// DeriveSecret computes the BLAKE2b-256 secret key material for the
// account at index under seed: BLAKE2b-256(seed ‖ big-endian u32(index)).
func DeriveSecret(seed [32]byte, index uint32) [32]byte {
	input := make([]byte, 0, 36)
	input = append(input, seed[:]...)
	input = append(input, byte(index>>24), byte(index>>16), byte(index>>8), byte(index))
	digest := codec.Blake2b(32, input)
	var secret [32]byte
	copy(secret[:], digest)
	return secret
}

// DerivePublic expands secret into its Ed25519-BLAKE2b public key.
func DerivePublic(secret [32]byte) [32]byte {
	return ed25519blake2b.NewPrivateKey(secret).Public()
}

// DeriveAccount derives the (secret, public) key pair for index under
// seed. Derivation is pure: the same (seed, index) always yields the
// same pair.
func DeriveAccount(seed [32]byte, index uint32) (secret, public [32]byte) {
	secret = DeriveSecret(seed, index)
	public = DerivePublic(secret)
	return secret, public
}

// checksum returns the 5-byte address checksum for a public key: the
// BLAKE2b-5 digest of the key, byte-reversed (the digest is treated
// little-endian in this protocol).
func checksum(public [32]byte) [5]byte {
	digest := codec.Blake2b(5, public[:])
	var cs [5]byte
	for i := range digest {
		cs[i] = digest[len(digest)-1-i]
	}
	return cs
}

// EncodeAddress renders public as a textual address: the "nano_"
// prefix, a 52-character base32 body (4 zero padding bits followed by
// the 256-bit public key), and an 8-character base32 checksum.
func EncodeAddress(public [32]byte) string {
	body := codec.EncodeBase32(public[:], 4)
	cs := checksum(public)
	csEncoded := codec.EncodeBase32(cs[:], 0)
	return AddressPrefix + body + csEncoded
}

// DecodeAddress parses address, verifies its checksum, and returns the
// 32-byte public key it encodes. ErrMalformedAddress is returned for
// any string not shaped like an address; ErrChecksumMismatch when the
// trailing checksum does not match the decoded public key.
func DecodeAddress(address string) ([32]byte, error) {
	var public [32]byte
	if !addressPattern.MatchString(address) {
		return public, ErrMalformedAddress
	}
	prefixLen := len(address) - (bodyLen + checksumLen)
	body := address[prefixLen : prefixLen+bodyLen]
	csText := address[prefixLen+bodyLen:]

	pkBytes, err := codec.DecodeBase32(body, 4, 256)
	if err != nil {
		return public, ErrMalformedAddress
	}
	copy(public[:], pkBytes)

	csBytes, err := codec.DecodeBase32(csText, 0, 40)
	if err != nil {
		return public, ErrMalformedAddress
	}
	want := checksum(public)
	for i := range want {
		if csBytes[i] != want[i] {
			return public, ErrChecksumMismatch
		}
	}
	return public, nil
}

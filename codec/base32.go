// Copyright (c) 2018 The ExchangeCoin team
// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec implements the wire-level primitives the rest of the
// wallet builds on: the account address base32 alphabet, hex helpers,
// BLAKE2b digests, HKDF-SHA256 key derivation, and AES-128-GCM sealing.
package codec

import (
	"errors"
	"math/big"
)

// alphabet is the 32-character account address alphabet. It
// deliberately excludes characters that are easy to confuse visually
// (0, 2, l, v) and is indexed by the 5-bit value of each base32 group.
const alphabet = "13456789abcdefghijkmnopqrstuwxyz"

// ErrBadAlphabet is returned by DecodeBase32 when the input string
// contains a character outside the account address alphabet.
var ErrBadAlphabet = errors.New("codec: character outside base32 alphabet")

var alphabetIndex [256]int8

func init() {
	for i := range alphabetIndex {
		alphabetIndex[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		alphabetIndex[alphabet[i]] = int8(i)
	}
}

// EncodeBase32 encodes data as a big-endian bit string, preceded by
// padBits leading zero bits, into the account address alphabet. The
// total bit width (padBits + 8*len(data)) must be a multiple of 5.
func EncodeBase32(data []byte, padBits int) string {
	totalBits := padBits + 8*len(data)
	if totalBits%5 != 0 {
		panic("codec: EncodeBase32 total bit length not a multiple of 5")
	}
	n := new(big.Int).SetBytes(data)
	numGroups := totalBits / 5
	out := make([]byte, numGroups)
	m := new(big.Int).Set(n)
	mask := big.NewInt(0x1f)
	group := new(big.Int)
	for i := numGroups - 1; i >= 0; i-- {
		group.And(m, mask)
		out[i] = alphabet[group.Uint64()]
		m.Rsh(m, 5)
	}
	return string(out)
}

// DecodeBase32 decodes s (which must consist entirely of characters
// from the account address alphabet) back into padBits of leading
// zero padding followed by dataBits worth of payload, and returns the
// payload as a big-endian byte slice of dataBits/8 bytes. dataBits
// must be a multiple of 8 and padBits+dataBits must equal 5*len(s).
func DecodeBase32(s string, padBits, dataBits int) ([]byte, error) {
	if dataBits%8 != 0 {
		panic("codec: DecodeBase32 dataBits not a multiple of 8")
	}
	if padBits+dataBits != 5*len(s) {
		panic("codec: DecodeBase32 bit width mismatch")
	}
	n := new(big.Int)
	for i := 0; i < len(s); i++ {
		idx := alphabetIndex[s[i]]
		if idx < 0 {
			return nil, ErrBadAlphabet
		}
		n.Lsh(n, 5)
		n.Or(n, big.NewInt(int64(idx)))
	}
	// Keep only the low dataBits bits; the top padBits are discarded.
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(dataBits)), big.NewInt(1))
	n.And(n, mask)
	out := make([]byte, dataBits/8)
	n.FillBytes(out)
	return out, nil
}

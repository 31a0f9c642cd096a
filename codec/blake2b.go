// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/hex"

	"github.com/minio/blake2b-simd"
)

// Blake2b returns the outLen-byte BLAKE2b digest of message. outLen
// must be between 1 and 64 inclusive. The wallet only ever requests
// 5 (address checksum), 8 (work threshold digest), 32 (block hash,
// account secret derivation), and 64 (the BLAKE2b-512 used in place
// of SHA-512 by the account signing key pair).
func Blake2b(outLen int, message []byte) []byte {
	cfg := &blake2b.Config{Size: uint8(outLen)}
	h, err := blake2b.New(cfg)
	if err != nil {
		panic("codec: invalid blake2b digest size: " + err.Error())
	}
	h.Write(message)
	return h.Sum(nil)
}

// Blake2b512 is a small convenience wrapper around Blake2b(64, ...)
// for the two internal hash calls required by the account signing
// scheme (see internal/ed25519blake2b).
func Blake2b512(message ...[]byte) []byte {
	h, err := blake2b.New(&blake2b.Config{Size: 64})
	if err != nil {
		panic("codec: invalid blake2b-512 config: " + err.Error())
	}
	for _, m := range message {
		h.Write(m)
	}
	return h.Sum(nil)
}

// ToHex encodes b as lowercase hex.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// ToHexUpper encodes b as uppercase hex, the form the state-block
// work and signature fields are transmitted in.
func ToHexUpper(b []byte) string {
	return upper(hex.EncodeToString(b))
}

func upper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// FromHex decodes hex-encoded data, case-insensitively.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

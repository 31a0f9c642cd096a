// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ed25519blake2b

import (
	"math/big"

	"github.com/ede0m/nanovaultd/codec"
)

// PrivateKey is an expanded Ed25519-BLAKE2b signing key: the 32-byte
// seed (the account's derived secret, see keys.DeriveAccount), the
// clamped scalar and hash prefix derived from it, and the
// corresponding public point.
type PrivateKey struct {
	seed   [32]byte
	scalar *big.Int
	prefix [32]byte
	public [32]byte
}

// NewPrivateKey expands seed into a signing key the way Ed25519 does:
// h = BLAKE2b-512(seed); the low 32 bytes, clamped, become the scalar
// a such that the public key is A = a*B; the high 32 bytes become the
// deterministic nonce prefix used by Sign.
func NewPrivateKey(seed [32]byte) *PrivateKey {
	h := codec.Blake2b512(seed[:])
	var a [32]byte
	copy(a[:], h[:32])
	a[0] &= 248
	a[31] &= 127
	a[31] |= 64

	scalar := leToInt(a[:])
	pub := scalarBaseMult(scalar).encode()

	priv := &PrivateKey{seed: seed, scalar: scalar, public: pub}
	copy(priv.prefix[:], h[32:64])
	return priv
}

// Public returns the 32-byte compressed public point A = scalar*B.
func (priv *PrivateKey) Public() [32]byte {
	return priv.public
}

// Sign produces a 64-byte Ed25519-BLAKE2b signature (R || S) over
// message.
func (priv *PrivateKey) Sign(message []byte) [64]byte {
	r := mod2(leToInt(codec.Blake2b512(priv.prefix[:], message)), groupOrder)
	R := scalarBaseMult(r).encode()

	k := mod2(leToInt(codec.Blake2b512(R[:], priv.public[:], message)), groupOrder)
	s := new(big.Int).Mul(k, priv.scalar)
	s.Add(s, r)
	s.Mod(s, groupOrder)

	var sig [64]byte
	copy(sig[:32], R[:])
	copy(sig[32:], intToLE(s, 32))
	return sig
}

// Verify reports whether sig is a valid Ed25519-BLAKE2b signature by
// public over message.
func Verify(public [32]byte, message []byte, sig [64]byte) bool {
	A, ok := decodePoint(public)
	if !ok {
		return false
	}
	var R [32]byte
	copy(R[:], sig[:32])
	Rp, ok := decodePoint(R)
	if !ok {
		return false
	}
	s := leToInt(sig[32:])
	if s.Cmp(groupOrder) >= 0 {
		return false
	}

	k := mod2(leToInt(codec.Blake2b512(R[:], public[:], message)), groupOrder)

	lhs := scalarBaseMult(s)
	rhs := add(Rp, scalarMult(k, A))
	return lhs.x.Cmp(rhs.x) == 0 && lhs.y.Cmp(rhs.y) == 0
}

// leToInt interprets b as a little-endian unsigned integer.
func leToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	return new(big.Int).SetBytes(be)
}

// intToLE serializes n as a little-endian byte slice of length size.
func intToLE(n *big.Int, size int) []byte {
	be := n.Bytes()
	out := make([]byte, size)
	for i := 0; i < len(be) && i < size; i++ {
		out[i] = be[len(be)-1-i]
	}
	return out
}

func mod2(v, m *big.Int) *big.Int {
	v.Mod(v, m)
	return v
}

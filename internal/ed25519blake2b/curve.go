// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ed25519blake2b implements the Ed25519 signature scheme with
// BLAKE2b-512 substituted for SHA-512 in all three of the scheme's
// internal hash calls (seed expansion, the per-message nonce, and the
// challenge). This is not standard Ed25519: verifying a signature
// produced here against a stock Ed25519 implementation, or vice versa,
// will fail. The account-chain network this wallet talks to rejects
// any signature made with the standard SHA-512 variant, so the
// substitution is not optional.
//
// The curve arithmetic below operates on affine coordinates using
// math/big. It favors obvious correctness over the performance a
// production signer would want. This wallet signs at most a few
// blocks per operation; it is not a validator in a hot path.
package ed25519blake2b

import "math/big"

// Field prime p = 2^255 - 19.
var fieldPrime = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}()

// Edwards25519 curve constant d = -121665/121666 mod p.
var curveD, _ = new(big.Int).SetString("37095705934669439343138083508754565189542113879843219016388785533085940283555", 10)

// Group order L = 2^252 + 27742317777372353535851937790883648493.
var groupOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// sqrtMinus1 = 2^((p-1)/4) mod p, used to fix up the two candidate
// square roots when decompressing a point.
var sqrtMinus1 = func() *big.Int {
	e := new(big.Int).Sub(fieldPrime, big.NewInt(1))
	e.Rsh(e, 2)
	return new(big.Int).Exp(big.NewInt(2), e, fieldPrime)
}()

// basePoint is the standard Ed25519 generator.
var basePoint = func() *point {
	bx, _ := new(big.Int).SetString("15112221349535400772501151409588531511454012693041857206046113283949847762202", 10)
	by, _ := new(big.Int).SetString("46316835694926478169428394003475163141307993866256225615783033603165251855960", 10)
	return &point{x: bx, y: by}
}()

// identity is the neutral element (0, 1).
func identity() *point {
	return &point{x: big.NewInt(0), y: big.NewInt(1)}
}

// point is an affine point on the twisted Edwards curve
// -x^2 + y^2 = 1 + d*x^2*y^2 (mod p).
type point struct {
	x, y *big.Int
}

func mod(v *big.Int) *big.Int {
	v.Mod(v, fieldPrime)
	return v
}

func inv(v *big.Int) *big.Int {
	// p is prime, so v^(p-2) mod p is the modular inverse of v.
	e := new(big.Int).Sub(fieldPrime, big.NewInt(2))
	return new(big.Int).Exp(v, e, fieldPrime)
}

// add returns p1 + p2 using the unified twisted-Edwards addition law
// (a = -1), which also correctly doubles when p1 == p2.
func add(p1, p2 *point) *point {
	x1y2 := mod(new(big.Int).Mul(p1.x, p2.y))
	y1x2 := mod(new(big.Int).Mul(p1.y, p2.x))
	y1y2 := mod(new(big.Int).Mul(p1.y, p2.y))
	x1x2 := mod(new(big.Int).Mul(p1.x, p2.x))

	dxxyy := mod(new(big.Int).Mul(curveD, mod(new(big.Int).Mul(x1x2, y1y2))))

	xNum := mod(new(big.Int).Add(x1y2, y1x2))
	xDen := mod(new(big.Int).Add(big.NewInt(1), dxxyy))
	yNum := mod(new(big.Int).Add(y1y2, x1x2))
	yDen := mod(new(big.Int).Sub(big.NewInt(1), dxxyy))

	x3 := mod(new(big.Int).Mul(xNum, inv(xDen)))
	y3 := mod(new(big.Int).Mul(yNum, inv(yDen)))
	return &point{x: x3, y: y3}
}

// scalarMult returns k*p via double-and-add. k must be non-negative.
func scalarMult(k *big.Int, p *point) *point {
	result := identity()
	addend := &point{x: new(big.Int).Set(p.x), y: new(big.Int).Set(p.y)}
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result = add(result, addend)
		}
		addend = add(addend, addend)
	}
	return result
}

func scalarBaseMult(k *big.Int) *point {
	return scalarMult(k, basePoint)
}

// encode serializes p as the standard 32-byte little-endian Ed25519
// point encoding: the y-coordinate little-endian, with the low bit of
// x folded into the top bit of the last byte.
func (p *point) encode() [32]byte {
	var out [32]byte
	yBytes := p.y.Bytes() // big-endian, big.Int strips leading zeros
	for i := 0; i < len(yBytes); i++ {
		out[i] = yBytes[len(yBytes)-1-i]
	}
	if p.x.Bit(0) == 1 {
		out[31] |= 0x80
	}
	return out
}

// decodePoint inverts encode, solving for x via the curve equation
// and the standard p ≡ 5 (mod 8) square-root trick, then fixing the
// sign to match the encoded parity bit.
func decodePoint(b [32]byte) (*point, bool) {
	signBit := b[31] >> 7
	var yBytes [32]byte
	for i := 0; i < 32; i++ {
		yBytes[i] = b[31-i]
	}
	yBytes[0] &= 0x7f
	y := new(big.Int).SetBytes(yBytes[:])
	if y.Cmp(fieldPrime) >= 0 {
		return nil, false
	}

	ySq := mod(new(big.Int).Mul(y, y))
	num := mod(new(big.Int).Sub(ySq, big.NewInt(1)))
	den := mod(new(big.Int).Add(big.NewInt(1), mod(new(big.Int).Mul(curveD, ySq))))
	xSq := mod(new(big.Int).Mul(num, inv(den)))

	x := sqrtCandidate(xSq)
	if x == nil {
		return nil, false
	}
	check := mod(new(big.Int).Mul(x, x))
	if check.Cmp(xSq) != 0 {
		x = mod(new(big.Int).Mul(x, sqrtMinus1))
		check = mod(new(big.Int).Mul(x, x))
		if check.Cmp(xSq) != 0 {
			return nil, false
		}
	}
	if x.Sign() == 0 && signBit == 1 {
		return nil, false
	}
	if uint(x.Bit(0)) != uint(signBit) {
		x = mod(new(big.Int).Sub(fieldPrime, x))
	}
	return &point{x: x, y: y}, true
}

// sqrtCandidate returns a^((p+3)/8) mod p, the first-pass candidate
// square root used by decodePoint; it must still be checked against a.
func sqrtCandidate(a *big.Int) *big.Int {
	e := new(big.Int).Add(fieldPrime, big.NewInt(3))
	e.Rsh(e, 3)
	return new(big.Int).Exp(a, e, fieldPrime)
}

// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"testing"
)

func TestBase32RoundTrip(t *testing.T) {
	pk, err := FromHex("30878ECBB5119B0FE4E986589ECFD2BD915D3A6CBA4843C3EE547DE649AD2BC0"[:64])
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	body := EncodeBase32(pk, 4)
	if len(body) != 52 {
		t.Fatalf("expected 52 char body, got %d", len(body))
	}
	got, err := DecodeBase32(body, 4, 256)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, pk) {
		t.Fatalf("round trip mismatch: got %x want %x", got, pk)
	}
}

func TestBase32BadAlphabet(t *testing.T) {
	bad := make([]byte, 52)
	for i := range bad {
		bad[i] = '0'
	}
	if _, err := DecodeBase32(string(bad), 4, 256); err != ErrBadAlphabet {
		t.Fatalf("expected ErrBadAlphabet, got %v", err)
	}
}

func TestBlake2bSizes(t *testing.T) {
	for _, n := range []int{5, 8, 32, 64} {
		d := Blake2b(n, []byte("nano"))
		if len(d) != n {
			t.Fatalf("blake2b(%d) returned %d bytes", n, len(d))
		}
	}
}

func TestAESGCMRoundTrip(t *testing.T) {
	pw := []byte("p@ss")
	info := []byte("alice")
	pt := []byte("0123456789012345678901234567890123456789")
	ct, nonce, err := AESGCMSeal(pw, pt, info)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	got, err := AESGCMOpen(pw, nonce, ct, info)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(got, pt) {
		t.Fatalf("round trip mismatch")
	}
	if _, err := AESGCMOpen([]byte("wrong"), nonce, ct, info); err != ErrDecrypt {
		t.Fatalf("expected ErrDecrypt for wrong password, got %v", err)
	}
}

func TestRandomSeedLength(t *testing.T) {
	seed, err := RandomSeed()
	if err != nil {
		t.Fatalf("RandomSeed: %v", err)
	}
	if len(seed) != SeedLen {
		t.Fatalf("expected %d byte seed, got %d", SeedLen, len(seed))
	}
}

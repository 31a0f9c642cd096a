// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SeedLen is the size in bytes of a wallet seed.
const SeedLen = 32

// aesKeyLen is the size in bytes of the AES-128 key HKDF derives.
const aesKeyLen = 16

// gcmNonceLen is the size in bytes of the AES-GCM nonce stored
// alongside each seed record.
const gcmNonceLen = 12

// ErrDecrypt is returned by AESGCMOpen when the ciphertext cannot be
// authenticated under the derived key, almost always because the
// supplied password was wrong.
var ErrDecrypt = errors.New("codec: AES-GCM authentication failed")

// RandomSeed returns 32 cryptographically random bytes suitable for
// use as a wallet seed.
func RandomSeed() ([]byte, error) {
	seed := make([]byte, SeedLen)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// HKDFExpand derives a 16-byte AES-128 key from password using
// HKDF-SHA256 with an empty salt and info as the context string. The
// seed store uses the wallet name as info so that two wallets sharing
// a password still derive distinct keys.
func HKDFExpand(password, info []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, password, nil, info)
	key := make([]byte, aesKeyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// AESGCMSeal encrypts plaintext under AES-128-GCM with a key derived
// from password via HKDFExpand(password, info), and a freshly
// generated random nonce. It returns the ciphertext (including the
// GCM authentication tag) and the nonce used.
func AESGCMSeal(password, plaintext, info []byte) (ciphertext, nonce []byte, err error) {
	key, err := HKDFExpand(password, info)
	if err != nil {
		return nil, nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, gcmNonceLen)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, gcmNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	ciphertext = gcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// AESGCMOpen decrypts ciphertext produced by AESGCMSeal, deriving the
// same AES-128 key from password and info. ErrDecrypt is returned
// rather than the underlying cipher.ErrAuthFailed so callers never
// need to inspect or log the cryptographic failure detail; a wrong
// password must never surface the attempted password or derived key.
func AESGCMOpen(password, nonce, ciphertext, info []byte) ([]byte, error) {
	key, err := HKDFExpand(password, info)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, gcmNonceLen)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

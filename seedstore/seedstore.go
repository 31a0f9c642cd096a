// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package seedstore implements the encrypted on-disk wallet file: one
// line per wallet name, each holding the account count and an
// AES-128-GCM-sealed seed keyed by a password-derived HKDF secret.
package seedstore

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/ede0m/nanovaultd/codec"
)

// ErrWalletExists is returned by Create when a record for the given
// name is already present.
var ErrWalletExists = errors.New("seedstore: wallet name already exists")

// ErrWalletNotFound is returned by Load when no record matches name.
var ErrWalletNotFound = errors.New("seedstore: wallet not found")

// ErrBadPassword is returned by Load when password does not
// authenticate the stored ciphertext. It is codec.ErrDecrypt itself,
// re-exported so this package's own error taxonomy names the failure, without
// callers needing to import codec to recognize it.
var ErrBadPassword = codec.ErrDecrypt

// record is one parsed line of the wallet file.
type record struct {
	name         string
	accountCount int
	ciphertext   []byte
	nonce        []byte
}

// Store is a line-oriented encrypted wallet file at Path.
type Store struct {
	Path string
}

// New returns a Store backed by path. The file need not exist yet;
// Save creates it on first write.
func New(path string) *Store {
	return &Store{Path: path}
}

func (s *Store) readRecords() ([]record, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []record
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		r, err := parseRecord(line)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func parseRecord(line string) (record, error) {
	fields := strings.Split(line, "|")
	if len(fields) != 4 {
		return record{}, errors.New("seedstore: malformed record line")
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return record{}, errors.New("seedstore: malformed account count")
	}
	ciphertext, err := codec.FromHex(fields[2])
	if err != nil {
		return record{}, errors.New("seedstore: malformed ciphertext hex")
	}
	nonce, err := codec.FromHex(fields[3])
	if err != nil {
		return record{}, errors.New("seedstore: malformed nonce hex")
	}
	return record{
		name:         fields[0],
		accountCount: count,
		ciphertext:   ciphertext,
		nonce:        nonce,
	}, nil
}

func (r record) String() string {
	return r.name + "|" + strconv.Itoa(r.accountCount) + "|" +
		codec.ToHexUpper(r.ciphertext) + "|" + codec.ToHexUpper(r.nonce)
}

func (s *Store) writeRecords(records []record) error {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return os.WriteFile(s.Path, []byte(b.String()), 0600)
}

// Create saves a brand new wallet record for name. ErrWalletExists is
// returned, and nothing is written, if a record for name is already
// present; use Save to update an existing wallet's account count.
func (s *Store) Create(name string, accountCount int, seed [32]byte, password string) error {
	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return ErrWalletExists
	}
	return s.Save(name, accountCount, seed, password)
}

// Save encrypts seed under password (via HKDF with name as info) and
// writes a record for name holding accountCount and the sealed seed.
// An existing record for name is replaced in place; otherwise the
// record is appended.
func (s *Store) Save(name string, accountCount int, seed [32]byte, password string) error {
	if strings.Contains(name, "|") {
		return errors.New("seedstore: wallet name must not contain '|'")
	}
	records, err := s.readRecords()
	if err != nil {
		return err
	}
	ciphertext, nonce, err := codec.AESGCMSeal([]byte(password), seed[:], []byte(name))
	if err != nil {
		return err
	}
	newRecord := record{name: name, accountCount: accountCount, ciphertext: ciphertext, nonce: nonce}

	replaced := false
	for i, r := range records {
		if r.name == name {
			records[i] = newRecord
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, newRecord)
	}
	return s.writeRecords(records)
}

// Load decrypts the seed stored for name under password and returns
// the account count alongside it. ErrWalletNotFound is returned if no
// record matches name; ErrBadPassword if password does not
// authenticate the ciphertext.
func (s *Store) Load(name, password string) (accountCount int, seed [32]byte, err error) {
	records, err := s.readRecords()
	if err != nil {
		return 0, seed, err
	}
	for _, r := range records {
		if r.name != name {
			continue
		}
		plaintext, err := codec.AESGCMOpen([]byte(password), r.nonce, r.ciphertext, []byte(name))
		if err != nil {
			return 0, seed, err
		}
		copy(seed[:], plaintext)
		return r.accountCount, seed, nil
	}
	return 0, seed, ErrWalletNotFound
}

// List returns the names of every wallet record in the store, in file
// order.
func (s *Store) List() ([]string, error) {
	records, err := s.readRecords()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.name
	}
	return names, nil
}

// Exists reports whether a record for name is present.
func (s *Store) Exists(name string) (bool, error) {
	records, err := s.readRecords()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.name == name {
			return true, nil
		}
	}
	return false, nil
}

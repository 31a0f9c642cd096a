// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ede0m/nanovaultd/account"
)

func TestTelemetryRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req telemetryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Action != "telemetry" {
			t.Errorf("unexpected action %q", req.Action)
		}
		json.NewEncoder(w).Encode(Telemetry{ActiveDifficulty: "fffffff800000000"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Telemetry()
	if err != nil {
		t.Fatalf("Telemetry: %v", err)
	}
	if got.ActiveDifficulty != "fffffff800000000" {
		t.Fatalf("active_difficulty = %s", got.ActiveDifficulty)
	}
}

func TestAccountInfoNotOpenedReturnsNilNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AccountInfo{Error: "Account not found"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	info, err := c.AccountInfo("nano_1whatever")
	if err != nil {
		t.Fatalf("AccountInfo: %v", err)
	}
	if info != nil {
		t.Fatal("expected a nil result for an unopened account")
	}
}

func TestTransportFailureOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Telemetry(); err != ErrTransportFailure {
		t.Fatalf("expected ErrTransportFailure, got %v", err)
	}
}

func TestPendingEmptyStringMeansNoneOutstanding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"blocks":""}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	hashes, err := c.Pending("nano_1whatever")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(hashes) != 0 {
		t.Fatalf("hashes = %v, want none", hashes)
	}
}

func TestPendingArrayOfHashes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pendingResponse{Blocks: pendingBlocks{"AB00", "CD00"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	hashes, err := c.Pending("nano_1whatever")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(hashes) != 2 || hashes[0] != "AB00" || hashes[1] != "CD00" {
		t.Fatalf("hashes = %v, want [AB00 CD00]", hashes)
	}
}

func TestProcessRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(processResponse{Error: "Fork"})
	}))
	defer srv.Close()

	var seed [32]byte
	a := account.New(seed, 0)
	a.CacheWork("ffffffffffffffff")
	sourceHash := "AB00000000000000000000000000000000000000000000000000000000000000"[:64]
	b, err := a.Open(big.NewInt(100), sourceHash)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	c := NewClient(srv.URL)
	if _, err := c.Process(b); err != ErrProcessRejected {
		t.Fatalf("expected ErrProcessRejected, got %v", err)
	}
}

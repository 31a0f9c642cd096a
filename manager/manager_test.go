// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package manager

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ede0m/nanovaultd/account"
	"github.com/ede0m/nanovaultd/seedstore"
	"github.com/ede0m/nanovaultd/wallet"
)

var testSeed = [32]byte{0x89, 0xc5, 0x68, 0xe5, 0x4b, 0x78, 0xb9, 0xb2, 0x09, 0xbe, 0xf8, 0x16,
	0x8c, 0xf6, 0x8c, 0x8f, 0xf7, 0xae, 0x61, 0x9a, 0xcc, 0x50, 0xa7, 0x27, 0x79, 0x43, 0x23, 0xbe,
	0x30, 0x3c, 0xf4, 0x0b}

// stubRPC dispatches JSON-RPC style requests by their "action" field to
// caller-supplied handlers, mirroring how a real node multiplexes the
// single RPC endpoint.
type stubRPC struct {
	mu       sync.Mutex
	handlers map[string]func(body map[string]interface{}) interface{}
}

func newStubRPC() *stubRPC {
	return &stubRPC{handlers: make(map[string]func(map[string]interface{}) interface{})}
}

func (s *stubRPC) on(action string, fn func(map[string]interface{}) interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[action] = fn
}

func (s *stubRPC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)
	action, _ := body["action"].(string)

	s.mu.Lock()
	fn, ok := s.handlers[action]
	s.mu.Unlock()
	if !ok {
		json.NewEncoder(w).Encode(map[string]string{"error": "unhandled action " + action})
		return
	}
	json.NewEncoder(w).Encode(fn(body))
}

func TestSynchronizeLoadsHeadAndDrainsPending(t *testing.T) {
	a := account.New(testSeed, 0)

	stub := newStubRPC()
	stub.on("account_info", func(map[string]interface{}) interface{} {
		return map[string]string{
			"frontier":       strings.Repeat("AB", 32),
			"representative": account.DefaultRepresentative,
			"balance":        "500",
		}
	})
	stub.on("pending", func(map[string]interface{}) interface{} {
		return map[string]interface{}{"blocks": []string{strings.Repeat("CD", 32)}}
	})
	blockInfoCalls := 0
	stub.on("block_info", func(map[string]interface{}) interface{} {
		blockInfoCalls++
		return map[string]string{"amount": "100", "subtype": "send"}
	})
	processCalls := 0
	stub.on("process", func(map[string]interface{}) interface{} {
		processCalls++
		return map[string]string{"hash": strings.Repeat("EF", 32)}
	})

	srv := httptest.NewServer(stub)
	defer srv.Close()

	w := wallet.New("alice")
	w.Accounts.Add(a)

	m := New(srv.URL, "", nil)
	m.Wallet = w

	if err := m.Synchronize(); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if blockInfoCalls != 1 || processCalls != 1 {
		t.Fatalf("expected one block_info and one process call, got %d %d", blockInfoCalls, processCalls)
	}
	if a.Balance.String() != "600" {
		t.Fatalf("balance after receive = %s, want 600", a.Balance.String())
	}
}

func TestSendUnknownAccountFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	m := New(srv.URL, "", nil)
	m.Wallet = wallet.New("alice")

	if _, err := m.Send(nil, "nano_1nosuchaccount", "nano_1dest"); err != ErrFromNotFound {
		t.Fatalf("expected ErrFromNotFound, got %v", err)
	}
}

func TestAccountAddDerivesNextIndexAndPersists(t *testing.T) {
	dir := t.TempDir()
	store := seedstore.New(dir + "/wallet.dat")
	if err := store.Create("alice", 1, testSeed, "p@ss"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	w := wallet.New("alice")
	w.Accounts.Add(account.New(testSeed, 0))

	m := New("", "", store)
	m.Wallet = w

	a, err := m.AccountAdd("p@ss")
	if err != nil {
		t.Fatalf("AccountAdd: %v", err)
	}
	if a.Index != 1 {
		t.Fatalf("new account index = %d, want 1", a.Index)
	}
	if w.Accounts.Len() != 2 {
		t.Fatalf("registry has %d accounts, want 2", w.Accounts.Len())
	}

	count, seed, err := store.Load("alice", "p@ss")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if count != 2 || seed != testSeed {
		t.Fatalf("persisted record mismatch: count=%d seed=%x", count, seed)
	}
}

func TestReactorConfirmationTriggersReceive(t *testing.T) {
	a := account.New(testSeed, 0)

	stub := newStubRPC()
	stub.on("account_info", func(map[string]interface{}) interface{} {
		return map[string]string{"error": "Account not found"}
	})
	stub.on("pending", func(map[string]interface{}) interface{} {
		return map[string]interface{}{"blocks": []string{}}
	})
	processed := make(chan struct{}, 1)
	stub.on("process", func(map[string]interface{}) interface{} {
		processed <- struct{}{}
		return map[string]string{"hash": strings.Repeat("EF", 32)}
	})
	rpcSrv := httptest.NewServer(stub)
	defer rpcSrv.Close()

	upgrader := websocket.Upgrader{}
	subscribed := make(chan struct{}, 1)
	wsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var req map[string]interface{}
		conn.ReadJSON(&req)
		subscribed <- struct{}{}

		push := map[string]interface{}{
			"topic": "confirmation",
			"message": map[string]interface{}{
				"account": a.Address,
				"amount":  "250",
				"hash":    strings.Repeat("11", 32),
				"block":   map[string]string{"subtype": "send", "link_as_account": a.Address},
			},
		}
		conn.WriteJSON(push)
		time.Sleep(500 * time.Millisecond)
	}))
	defer wsSrv.Close()
	wsURL := "ws" + strings.TrimPrefix(wsSrv.URL, "http")

	w := wallet.New("alice")
	w.Accounts.Add(a)

	m := New(rpcSrv.URL, wsURL, nil)
	if err := m.SetWallet(w); err != nil {
		t.Fatalf("SetWallet: %v", err)
	}
	defer m.Close()

	select {
	case <-subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscribe")
	}

	select {
	case <-processed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for auto-receive to publish")
	}

	if a.Balance.String() != "250" {
		t.Fatalf("balance after auto-receive = %s, want 250", a.Balance.String())
	}
}

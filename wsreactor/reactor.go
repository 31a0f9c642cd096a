// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wsreactor subscribes to a remote node's confirmation
// WebSocket feed and forwards decoded confirmation events to the
// Manager over a bounded channel. The reactor runs two cooperating
// goroutines, a reader and a keepalive pinger, joined by a shared
// context: either goroutine's failure cancels the context and the
// other goroutine's next select unblocks and exits.
package wsreactor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

// keepaliveInterval is how often the reactor pings the node to keep
// the connection alive.
const keepaliveInterval = 40 * time.Second

// eventBufferSize bounds the channel of confirmation events delivered
// to the Manager; the reader blocks (backpressuring the websocket
// read loop) once it is full.
const eventBufferSize = 32

// ErrConnectFailure is returned by New when the initial WebSocket
// dial fails.
var ErrConnectFailure = errors.New("wsreactor: failed to connect to confirmation stream")

// ErrDecodeFailure marks an inbound frame the reader could not
// interpret as a confirmation message; the reactor logs and continues
// rather than failing, since a single malformed push should not tear
// down the subscription.
var ErrDecodeFailure = errors.New("wsreactor: failed to decode inbound frame")

// ErrKeepaliveFailure is logged when a keepalive ping cannot be
// written, at which point the reactor shuts down.
var ErrKeepaliveFailure = errors.New("wsreactor: failed to send keepalive ping")

// log is the reactor's subsystem logger, wired by UseLogger. It
// defaults to a disabled sink so the package is silent until a caller
// opts in.
var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Block is the subset of a confirmed block's wire fields the reactor
// decodes.
type Block struct {
	SubType       string `json:"subtype"`
	LinkAsAccount string `json:"link_as_account"`
}

// Confirmation is a decoded confirmation push event.
type Confirmation struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Hash    string `json:"hash"`
	Block   Block  `json:"block"`
}

type confirmationMessage struct {
	Topic   string       `json:"topic"`
	Message Confirmation `json:"message"`
}

type subscribeRequest struct {
	Action  string              `json:"action"`
	Topic   string              `json:"topic"`
	Options subscribeOptionsReq `json:"options"`
}

type subscribeOptionsReq struct {
	Accounts []string `json:"accounts"`
}

type pingRequest struct {
	Action string `json:"action"`
}

// Reactor is a live subscription to a node's confirmation topic.
type Reactor struct {
	conn   *websocket.Conn
	Events <-chan Confirmation

	cancel context.CancelFunc
}

// New dials addr, subscribes to confirmations for accounts, and starts
// the reader and keepalive goroutines. Callers receive confirmation
// events from the returned Reactor's Events channel until Close is
// called or the reactor fails.
func New(addr string, accounts []string) (*Reactor, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, ErrConnectFailure
	}

	req := subscribeRequest{
		Action: "subscribe",
		Topic:  "confirmation",
		Options: subscribeOptionsReq{
			Accounts: accounts,
		},
	}
	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		return nil, ErrConnectFailure
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Confirmation, eventBufferSize)
	r := &Reactor{
		conn:   conn,
		Events: events,
		cancel: cancel,
	}

	go r.readLoop(ctx, events)
	go r.keepaliveLoop(ctx)

	return r, nil
}

// Close cancels the reactor's two goroutines and closes the
// underlying WebSocket connection.
func (r *Reactor) Close() {
	r.cancel()
	r.conn.Close()
}

func (r *Reactor) readLoop(ctx context.Context, events chan<- Confirmation) {
	defer r.cancel()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, data, err := r.conn.ReadMessage()
		if err != nil {
			log.Errorf("confirmation stream read failed: %v", err)
			return
		}
		var msg confirmationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warnf("%v: %v", ErrDecodeFailure, err)
			continue
		}
		if msg.Topic != "confirmation" {
			continue
		}
		select {
		case events <- msg.Message:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reactor) keepaliveLoop(ctx context.Context) {
	defer r.cancel()
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.conn.WriteJSON(pingRequest{Action: "ping"}); err != nil {
				log.Errorf("%v: %v", ErrKeepaliveFailure, err)
				return
			}
		}
	}
}

// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/decred/slog"

	"github.com/ede0m/nanovaultd/block"
)

// log is this package's subsystem logger, wired by UseLogger. It
// defaults to a disabled sink so the package is silent until a caller
// opts in.
var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// ErrTransportFailure is returned when the HTTP round trip itself
// fails, or the node returns a non-2xx status, or the response body
// cannot be decoded as JSON. It is distinct from a well-formed "not
// found" response, which callers see as a nil result with a nil error.
var ErrTransportFailure = errors.New("rpc: transport failure")

// ErrProcessRejected is returned by Process when the node accepts the
// HTTP request but rejects the block itself (fork, gap, or
// insufficient work).
var ErrProcessRejected = errors.New("rpc: node rejected the block")

// defaultTimeout bounds every RPC round trip.
const defaultTimeout = 10 * time.Second

// Client is a blocking HTTP+JSON client for one remote node's RPC
// endpoint.
type Client struct {
	addr string
	http *http.Client
}

// NewClient returns a Client posting requests to addr.
func NewClient(addr string) *Client {
	return &Client{
		addr: addr,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// post marshals req, posts it to the node, and unmarshals the
// response into resp. It returns ErrTransportFailure for any failure
// of the HTTP round trip, a non-2xx status, or a malformed response
// body.
func (c *Client) post(req, resp interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpResp, err := c.http.Post(c.addr, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Warnf("rpc: post to %s failed: %v", c.addr, err)
		return ErrTransportFailure
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		log.Warnf("rpc: reading response from %s failed: %v", c.addr, err)
		return ErrTransportFailure
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		log.Warnf("rpc: %s returned status %d", c.addr, httpResp.StatusCode)
		return ErrTransportFailure
	}
	if err := json.Unmarshal(data, resp); err != nil {
		log.Warnf("rpc: decoding response from %s failed: %v", c.addr, err)
		return ErrTransportFailure
	}
	return nil
}

// Telemetry probes the node for its active difficulty and version
// information. It is used as a liveness check at start-up.
func (c *Client) Telemetry() (*Telemetry, error) {
	var resp Telemetry
	if err := c.post(telemetryRequest{Action: "telemetry"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AccountInfo returns the frontier/representative/balance for addr,
// or (nil, nil) if the account has not been opened on-chain yet.
func (c *Client) AccountInfo(addr string) (*AccountInfo, error) {
	var resp AccountInfo
	req := accountInfoRequest{Action: "account_info", Account: addr, Representative: "true"}
	if err := c.post(req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, nil
	}
	return &resp, nil
}

// Pending returns the hashes of blocks sending to addr that have not
// yet been received, or an empty slice if there are none.
func (c *Client) Pending(addr string) ([]string, error) {
	var resp pendingResponse
	req := pendingRequest{Action: "pending", Account: addr, IncludeActive: "true"}
	if err := c.post(req, &resp); err != nil {
		return nil, err
	}
	return resp.Blocks, nil
}

// BlockInfo returns the amount, subtype, and contents of the block
// identified by hash.
func (c *Client) BlockInfo(hash string) (*BlockInfo, error) {
	var resp BlockInfo
	req := blockInfoRequest{Action: "block_info", JSONBlock: "true", Hash: hash}
	if err := c.post(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkGenerate delegates proof-of-work computation for root (a hex
// account public key or frontier hash) to the node.
func (c *Client) WorkGenerate(rootHex string) (string, error) {
	var resp workGenerateResponse
	req := workGenerateRequest{Action: "work_generate", Hash: rootHex}
	if err := c.post(req, &resp); err != nil {
		return "", err
	}
	return resp.Work, nil
}

// Process submits b for confirmation. On success it returns the
// node-assigned block hash; ErrProcessRejected is returned if the node
// declines to process the block (a stale frontier, insufficient work,
// or any other protocol-level rejection).
func (c *Client) Process(b *block.Block) (string, error) {
	var resp processResponse
	req := processRequest{
		Action:    "process",
		JSONBlock: true,
		SubType:   b.SubType,
		Block:     b.Wire(),
	}
	if err := c.post(req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" || resp.Hash == "" {
		return "", ErrProcessRejected
	}
	return resp.Hash, nil
}

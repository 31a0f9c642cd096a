// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc implements a blocking HTTP+JSON client for the remote
// node's RPC verbs: telemetry, account_info, pending, block_info,
// process, and work_generate.
package rpc

import (
	"encoding/json"
	"errors"

	"github.com/ede0m/nanovaultd/block"
)

// accountInfoRequest is the account_info request envelope.
type accountInfoRequest struct {
	Action         string `json:"action"`
	Account        string `json:"account"`
	Representative string `json:"representative"`
}

// AccountInfo is the decoded result of a successful account_info call.
type AccountInfo struct {
	Frontier       string `json:"frontier"`
	Representative string `json:"representative"`
	Balance        string `json:"balance"`
	Error          string `json:"error"`
}

// pendingRequest is the pending request envelope.
type pendingRequest struct {
	Action        string `json:"action"`
	Account       string `json:"account"`
	IncludeActive string `json:"include_active"`
}

// pendingResponse is the raw pending response; Blocks is an array of
// hex hashes when pending transfers exist, but the node encodes "no
// pending transfers" as the bare string "" rather than an empty array.
type pendingResponse struct {
	Blocks pendingBlocks `json:"blocks"`
}

// pendingBlocks decodes the pending RPC's dual-shaped blocks field: a
// JSON array of hashes, or the empty string meaning none are pending.
type pendingBlocks []string

// UnmarshalJSON accepts either a JSON array of strings or a bare JSON
// string (which the node only ever sends as "", for an empty pending
// list); any non-empty string value is rejected as malformed.
func (p *pendingBlocks) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			return errors.New("rpc: non-empty string for pending blocks")
		}
		*p = nil
		return nil
	}
	var blocks []string
	if err := json.Unmarshal(data, &blocks); err != nil {
		return err
	}
	*p = blocks
	return nil
}

// blockInfoRequest is the block_info request envelope.
type blockInfoRequest struct {
	Action    string `json:"action"`
	JSONBlock string `json:"json_block"`
	Hash      string `json:"hash"`
}

// BlockInfo is the decoded result of a successful block_info call.
type BlockInfo struct {
	Amount  string       `json:"amount"`
	SubType string       `json:"subtype"`
	Block   wireBlockDTO `json:"contents"`
}

// wireBlockDTO mirrors the subset of a wire state block this wallet
// reads back out of block_info/process responses.
type wireBlockDTO struct {
	Account        string `json:"account"`
	Previous       string `json:"previous"`
	Representative string `json:"representative"`
	Balance        string `json:"balance"`
	Link           string `json:"link"`
	LinkAsAccount  string `json:"link_as_account"`
}

// workGenerateRequest is the work_generate request envelope.
type workGenerateRequest struct {
	Action string `json:"action"`
	Hash   string `json:"hash"`
}

// workGenerateResponse is the decoded result of a successful
// work_generate call.
type workGenerateResponse struct {
	Work string `json:"work"`
}

// processRequest wraps a signed block for submission.
type processRequest struct {
	Action    string        `json:"action"`
	JSONBlock bool          `json:"json_block"`
	SubType   block.SubType `json:"subtype"`
	Block     interface{}   `json:"block"`
}

// processResponse is the decoded result of a successful process call.
type processResponse struct {
	Hash  string `json:"hash"`
	Error string `json:"error"`
}

// telemetryRequest is the telemetry request envelope.
type telemetryRequest struct {
	Action string `json:"action"`
}

// Telemetry is the decoded subset of a telemetry response the wallet
// uses as a liveness probe and a work-difficulty hint.
type Telemetry struct {
	ActiveDifficulty string `json:"active_difficulty"`
	BlockCount       string `json:"block_count"`
	PeerCount        string `json:"peer_count"`
}

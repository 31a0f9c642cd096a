// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package work implements local proof-of-work nonce search and the
// wallet's two fixed difficulty thresholds. Finding a nonce is a
// parallel search over the 2^64 nonce space: the space is partitioned
// into contiguous segments, one goroutine per segment, racing to
// publish the first solution onto a one-shot channel.
package work

import (
	"encoding/binary"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ede0m/nanovaultd/codec"
)

// SendDefault is the difficulty threshold required for send, change,
// and outgoing-chain-advancing blocks in general.
const SendDefault uint64 = 0xfffffff800000000

// ReceiveDifficulty is the (lower) threshold required for receive and
// open blocks.
const ReceiveDifficulty uint64 = 0xfffffe0000000000

// ErrWorkExhausted is returned when a local search covers every
// segment of the nonce space without finding a qualifying nonce. Astronomically
// unlikely for either difficulty constant above, but possible in
// principle, so it is specified rather than left to a panic.
var ErrWorkExhausted = errors.New("work: nonce space exhausted without a solution")

// workers is the number of goroutines the local search partitions the
// nonce space across.
var workers = runtime.NumCPU()

// Hash returns BLAKE2b-8(nonce ‖ root), the quantity compared against
// a difficulty threshold. nonce is 8 bytes, little-endian.
func Hash(nonce [8]byte, root [32]byte) uint64 {
	input := make([]byte, 0, 40)
	input = append(input, nonce[:]...)
	input = append(input, root[:]...)
	digest := codec.Blake2b(8, input)
	return binary.LittleEndian.Uint64(digest)
}

// Meets reports whether nonce satisfies threshold against root.
func Meets(nonce [8]byte, root [32]byte, threshold uint64) bool {
	return Hash(nonce, root) >= threshold
}

// Search finds an 8-byte nonce such that Hash(nonce, root) meets
// threshold, partitioning the full 2^64 nonce space across the local
// CPU count and racing the resulting goroutines. The nonce is returned
// in its wire-ready form (byte-reversed, since network nonces are
// transmitted little-endian-of-the-big-endian-counted-segment). Search
// blocks until a solution is found; ErrWorkExhausted is returned only
// if every segment is fully searched without success, which does not
// happen in practice at these difficulties.
func Search(root [32]byte, threshold uint64) ([8]byte, error) {
	n := uint64(workers)
	if n == 0 {
		n = 1
	}
	segSize := ^uint64(0) / n

	results := make(chan result, 1)
	var found atomic.Bool
	var wg sync.WaitGroup

	for i := uint64(0); i < n; i++ {
		low := segSize * i
		high := segSize * (i + 1)
		if i == n-1 {
			high = ^uint64(0)
		}
		wg.Add(1)
		go func(low, high uint64) {
			defer wg.Done()
			searchSegment(low, high, root, threshold, &found, results)
		}(low, high)
	}
	// Once every segment has returned, report exhaustion; the send is
	// dropped if a solution already fills the channel.
	go func() {
		wg.Wait()
		select {
		case results <- result{}:
		default:
		}
	}()

	r := <-results
	found.Store(true)
	if !r.ok {
		return [8]byte{}, ErrWorkExhausted
	}
	return reverse8(r.nonce), nil
}

func searchSegment(low, high uint64, root [32]byte, threshold uint64, found *atomic.Bool, results chan<- result) {
	for nonce := low; nonce < high; nonce++ {
		if found.Load() {
			return
		}
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], nonce)
		if Meets(n, root, threshold) {
			select {
			case results <- result{nonce: n, ok: true}:
			default:
			}
			return
		}
	}
}

type result struct {
	nonce [8]byte
	ok    bool
}

func reverse8(b [8]byte) [8]byte {
	var out [8]byte
	for i := range b {
		out[i] = b[7-i]
	}
	return out
}

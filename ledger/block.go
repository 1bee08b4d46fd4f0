// Copyright 2025 Silo Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the opaque JSON document attached to a block. Callers may
// store arbitrary keys; a handful of well-known keys drive side effects
// and analytics.
type Payload map[string]any

// Status returns the well-known "status" key, if present as a string.
func (p Payload) Status() (string, bool) {
	v, ok := p["status"].(string)
	return v, ok
}

// Type returns the well-known "type" key, if present as a string.
func (p Payload) Type() (string, bool) {
	v, ok := p["type"].(string)
	return v, ok
}

// Action returns the well-known "action" key, if present as a string.
func (p Payload) Action() (string, bool) {
	v, ok := p["action"].(string)
	return v, ok
}

// IsShipment reports whether the payload describes a shipment or
// transport event.
func (p Payload) IsShipment() bool {
	if t, ok := p.Type(); ok && t == "shipment" {
		return true
	}
	if a, ok := p.Action(); ok && a == "transport" {
		return true
	}
	return false
}

// BlockContent is the caller-supplied portion of a block. Sequence
// number, previous hash, and hash are always computed by the ledger on
// append and never accepted from the caller.
type BlockContent struct {
	Timestamp time.Time
	Actor     string
	ActorRole string
	Location  string
	Payload   Payload
}

// Block is a single entry in an entity's provenance chain.
type Block struct {
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actorRole,omitempty"`
	Location  string    `json:"location"`
	Payload   Payload   `json:"payload"`
	PrevHash  string    `json:"prevHash"`
	Hash      string    `json:"hash"`
}

// canonicalPayload returns the deterministic JSON encoding of a
// payload. encoding/json writes map keys in sorted order, so equal
// payloads always produce equal bytes.
func canonicalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, ErrInvalidPayload
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return data, nil
}

// ComputeHash derives the content digest for a block from its scalar
// fields, its canonical payload encoding, and the hash of the previous
// block. The genesis block uses an empty previous hash.
func ComputeHash(
	sequence uint64,
	timestamp time.Time,
	actor string,
	actorRole string,
	location string,
	payloadJSON []byte,
	prevHash string,
) string {
	h := sha256.New()
	fmt.Fprintf(
		h,
		"%d|%d|%s|%s|%s|%s|%s",
		sequence,
		timestamp.UnixMilli(),
		actor,
		actorRole,
		location,
		payloadJSON,
		prevHash,
	)
	return hex.EncodeToString(h.Sum(nil))
}

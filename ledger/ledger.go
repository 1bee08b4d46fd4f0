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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/event"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerConfig is the configuration for the ledger.
type LedgerConfig struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

// Ledger maintains the append-only provenance chain of each batch and
// product. Appends are serialized per entity so sequence numbers and
// hash links never race; reads are unsynchronized.
type Ledger struct {
	config  LedgerConfig
	metrics *ledgerMetrics
	locks   entityLocks
}

// NewLedger creates a new ledger using the provided configuration.
func NewLedger(cfg LedgerConfig) (*Ledger, error) {
	if cfg.Database == nil {
		return nil, errors.New("database is required")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	l := &Ledger{
		config: cfg,
	}
	if cfg.PromRegistry != nil {
		l.initMetrics(cfg.PromRegistry)
	}
	return l, nil
}

// entityLocks hands out one mutex per entity key. Locks are never
// reclaimed; the entity population is small and long-lived.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (e *entityLocks) acquire(key string) func() {
	e.mu.Lock()
	if e.locks == nil {
		e.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	e.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// AppendBatchBlock appends a block to a batch's chain. The sequence
// number, previous hash, and content hash are computed here; anything
// the caller may have computed is ignored. A payload carrying a string
// "status" field also updates the batch's status.
func (l *Ledger) AppendBatchBlock(
	batchID string,
	content BlockContent,
) (Block, error) {
	payloadJSON, err := canonicalPayload(content.Payload)
	if err != nil {
		return Block{}, err
	}
	// Batch chains carry no actor role; drop it so stored rows
	// round-trip through verification
	content.ActorRole = ""
	unlock := l.locks.acquire("batch/" + batchID)
	defer unlock()
	if _, err := l.config.Database.BatchByID(batchID); err != nil {
		return Block{}, err
	}
	var sequence uint64 = 1
	var prevHash string
	head, err := l.config.Database.BatchBlockHead(batchID)
	if err != nil {
		if !errors.Is(err, models.ErrBlockNotFound) {
			return Block{}, err
		}
	} else {
		sequence = head.Sequence + 1
		prevHash = head.Hash
	}
	block := l.buildBlock(sequence, prevHash, content, payloadJSON)
	row := models.BatchBlock{
		BatchID:   batchID,
		Sequence:  block.Sequence,
		Timestamp: block.Timestamp.UnixMilli(),
		Actor:     block.Actor,
		Location:  block.Location,
		PrevHash:  block.PrevHash,
		Hash:      block.Hash,
	}
	status, hasStatus := content.Payload.Status()
	err = l.config.Database.BatchBlockAppend(
		row,
		payloadJSON,
		status,
		hasStatus,
	)
	if err != nil {
		return Block{}, fmt.Errorf("failed to append block: %w", err)
	}
	l.afterAppend("batch", batchID, block)
	return block, nil
}

// AppendProductBlock appends a block to a product's chain.
func (l *Ledger) AppendProductBlock(
	productID string,
	content BlockContent,
) (Block, error) {
	payloadJSON, err := canonicalPayload(content.Payload)
	if err != nil {
		return Block{}, err
	}
	unlock := l.locks.acquire("product/" + productID)
	defer unlock()
	if _, err := l.config.Database.ProductByID(productID); err != nil {
		return Block{}, err
	}
	var sequence uint64 = 1
	var prevHash string
	head, err := l.config.Database.ProductBlockHead(productID)
	if err != nil {
		if !errors.Is(err, models.ErrBlockNotFound) {
			return Block{}, err
		}
	} else {
		sequence = head.Sequence + 1
		prevHash = head.Hash
	}
	block := l.buildBlock(sequence, prevHash, content, payloadJSON)
	row := models.ProductBlock{
		ProductID: productID,
		Sequence:  block.Sequence,
		Timestamp: block.Timestamp.UnixMilli(),
		Actor:     block.Actor,
		ActorRole: block.ActorRole,
		Location:  block.Location,
		PrevHash:  block.PrevHash,
		Hash:      block.Hash,
	}
	if err := l.config.Database.ProductBlockAppend(row, payloadJSON); err != nil {
		return Block{}, fmt.Errorf("failed to append block: %w", err)
	}
	l.afterAppend("product", productID, block)
	return block, nil
}

func (l *Ledger) buildBlock(
	sequence uint64,
	prevHash string,
	content BlockContent,
	payloadJSON []byte,
) Block {
	timestamp := content.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	// Normalize to millisecond precision so the stored timestamp
	// round-trips through the hash input exactly
	timestamp = time.UnixMilli(timestamp.UnixMilli()).UTC()
	return Block{
		Sequence:  sequence,
		Timestamp: timestamp,
		Actor:     content.Actor,
		ActorRole: content.ActorRole,
		Location:  content.Location,
		Payload:   content.Payload,
		PrevHash:  prevHash,
		Hash: ComputeHash(
			sequence,
			timestamp,
			content.Actor,
			content.ActorRole,
			content.Location,
			payloadJSON,
			prevHash,
		),
	}
}

func (l *Ledger) afterAppend(entityKind string, entityID string, block Block) {
	l.config.Logger.Debug(
		"appended block",
		"component", "ledger",
		"kind", entityKind,
		"entity", entityID,
		"sequence", block.Sequence,
	)
	if l.metrics != nil {
		l.metrics.appends.WithLabelValues(entityKind).Inc()
	}
	if l.config.EventBus != nil {
		l.config.EventBus.Publish(
			BlockAppendedEventType,
			event.NewEvent(
				BlockAppendedEventType,
				BlockAppendedEvent{
					EntityKind: entityKind,
					EntityID:   entityID,
					Block:      block,
				},
			),
		)
	}
}

// BatchChain loads the full chain of a batch ordered by sequence.
func (l *Ledger) BatchChain(batchID string) ([]Block, error) {
	rows, err := l.config.Database.BatchBlockRows(batchID)
	if err != nil {
		return nil, err
	}
	ret := make([]Block, 0, len(rows))
	for _, row := range rows {
		payload, err := l.loadPayload("batch", batchID, row.Sequence)
		if err != nil {
			return nil, err
		}
		ret = append(ret, Block{
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.Timestamp).UTC(),
			Actor:     row.Actor,
			Location:  row.Location,
			Payload:   payload,
			PrevHash:  row.PrevHash,
			Hash:      row.Hash,
		})
	}
	return ret, nil
}

// ProductChain loads the full chain of a product ordered by sequence.
func (l *Ledger) ProductChain(productID string) ([]Block, error) {
	rows, err := l.config.Database.ProductBlockRows(productID)
	if err != nil {
		return nil, err
	}
	ret := make([]Block, 0, len(rows))
	for _, row := range rows {
		payload, err := l.loadPayload("product", productID, row.Sequence)
		if err != nil {
			return nil, err
		}
		ret = append(ret, Block{
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.Timestamp).UTC(),
			Actor:     row.Actor,
			ActorRole: row.ActorRole,
			Location:  row.Location,
			Payload:   payload,
			PrevHash:  row.PrevHash,
			Hash:      row.Hash,
		})
	}
	return ret, nil
}

func (l *Ledger) loadPayload(
	entityKind string,
	entityID string,
	sequence uint64,
) (Payload, error) {
	data, err := l.config.Database.PayloadGet(entityKind, entityID, sequence)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to load payload for %s %s sequence %d: %w",
			entityKind,
			entityID,
			sequence,
			err,
		)
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf(
			"failed to decode payload for %s %s sequence %d: %w",
			entityKind,
			entityID,
			sequence,
			err,
		)
	}
	return payload, nil
}

// Copyright 2026 Silo Labs Software
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

package silo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/silolabs-io/silo/api"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/event"
	"github.com/silolabs-io/silo/ledger"
)

// generateEntityID builds an identifier like "BATCH-1A2B3C4D" from a
// random UUID.
func generateEntityID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:8])
}

// CreateBatch registers a new harvest batch. An identifier is
// generated when the caller doesn't supply one, and the harvest date
// defaults to the current time.
func (n *Node) CreateBatch(params api.BatchParams) (models.Batch, error) {
	batchID := params.BatchID
	if batchID == "" {
		batchID = generateEntityID("BATCH")
	}
	harvestDate := params.HarvestDate
	if harvestDate.IsZero() {
		harvestDate = time.Now()
	}
	batch := models.Batch{
		BatchID:          batchID,
		ProductType:      params.ProductType,
		Location:         params.Location,
		ResponsibleStaff: params.ResponsibleStaff,
		Status:           params.Status,
		Notes:            params.Notes,
		Quantity:         params.Quantity,
		HarvestDate:      harvestDate,
	}
	if err := n.db.BatchCreate(&batch); err != nil {
		return models.Batch{}, err
	}
	n.eventBus.Publish(
		BatchCreatedEventType,
		event.NewEvent(
			BatchCreatedEventType,
			BatchCreatedEvent{Batch: batch},
		),
	)
	n.config.logger.Info(
		"created batch",
		"component", "node",
		"batch", batchID,
		"product_type", batch.ProductType,
		"location", batch.Location,
	)
	return batch, nil
}

// BatchList returns a page of batches plus the total count.
func (n *Node) BatchList(
	offset int,
	limit int,
) ([]models.Batch, int, error) {
	batches, err := n.db.Batches(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := n.db.BatchCount()
	if err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// Batch returns a batch and its full provenance chain.
func (n *Node) Batch(
	batchID string,
) (models.Batch, []ledger.Block, error) {
	batch, err := n.db.BatchByID(batchID)
	if err != nil {
		return models.Batch{}, nil, err
	}
	blocks, err := n.ledger.BatchChain(batchID)
	if err != nil {
		return models.Batch{}, nil, err
	}
	return batch, blocks, nil
}

// AppendBatchBlock appends a block to a batch's provenance chain.
func (n *Node) AppendBatchBlock(
	batchID string,
	content ledger.BlockContent,
) (ledger.Block, error) {
	return n.ledger.AppendBatchBlock(batchID, content)
}

// BatchProducts returns the products registered under a batch.
func (n *Node) BatchProducts(batchID string) ([]models.Product, error) {
	if _, err := n.db.BatchByID(batchID); err != nil {
		return nil, err
	}
	return n.db.ProductsByBatch(batchID)
}

// VerifyBatch checks the integrity of a batch's provenance chain.
func (n *Node) VerifyBatch(batchID string) (ledger.VerifyReport, error) {
	return n.ledger.VerifyBatch(batchID)
}

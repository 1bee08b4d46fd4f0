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
	"context"

	"github.com/silolabs-io/silo/logistics"
)

// BatchLogistics projects a batch's chain into its logistics view.
func (n *Node) BatchLogistics(
	batchID string,
) (logistics.Extraction, error) {
	batch, err := n.db.BatchByID(batchID)
	if err != nil {
		return logistics.Extraction{}, err
	}
	blocks, err := n.ledger.BatchChain(batchID)
	if err != nil {
		return logistics.Extraction{}, err
	}
	return logistics.Extract(
		batch.BatchID,
		batch.ProductType,
		batch.Location,
		blocks,
	), nil
}

// BatchInsights analyzes a single batch's journey, augmented with
// model-generated narrative when a text generator is configured.
func (n *Node) BatchInsights(
	ctx context.Context,
	batchID string,
) (logistics.Insights, error) {
	data, err := n.BatchLogistics(batchID)
	if err != nil {
		return logistics.Insights{}, err
	}
	return n.augmenter.EntityInsights(ctx, data), nil
}

// FleetInsights analyzes the journeys of every batch in the system.
func (n *Node) FleetInsights(
	ctx context.Context,
) (logistics.ConsolidatedInsights, error) {
	batches, err := n.db.Batches(0, 0)
	if err != nil {
		return logistics.ConsolidatedInsights{}, err
	}
	extractions := make([]logistics.Extraction, 0, len(batches))
	for _, batch := range batches {
		blocks, err := n.ledger.BatchChain(batch.BatchID)
		if err != nil {
			return logistics.ConsolidatedInsights{}, err
		}
		extractions = append(extractions, logistics.Extract(
			batch.BatchID,
			batch.ProductType,
			batch.Location,
			blocks,
		))
	}
	return n.augmenter.FleetInsights(ctx, extractions)
}

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

package api

import (
	"time"

	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/ledger"
)

// PingResponse is returned by GET /ping.
type PingResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// BatchRequest is the body for POST /api/batches.
type BatchRequest struct {
	BatchID          string    `json:"batchId"`
	ProductType      string    `json:"productType"`
	Location         string    `json:"location"`
	ResponsibleStaff string    `json:"responsibleStaff"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	Quantity         uint      `json:"quantity"`
	HarvestDate      time.Time `json:"harvestDate"`
}

// BatchResponse represents a batch, optionally with its chain.
type BatchResponse struct {
	BatchID          string         `json:"batchId"`
	ProductType      string         `json:"productType"`
	Location         string         `json:"location"`
	ResponsibleStaff string         `json:"responsibleStaff,omitempty"`
	Status           string         `json:"status"`
	Notes            string         `json:"notes,omitempty"`
	Quantity         uint           `json:"quantity"`
	HarvestDate      time.Time      `json:"harvestDate"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	Blocks           []ledger.Block `json:"blocks,omitempty"`
}

func newBatchResponse(batch models.Batch, blocks []ledger.Block) BatchResponse {
	return BatchResponse{
		BatchID:          batch.BatchID,
		ProductType:      batch.ProductType,
		Location:         batch.Location,
		ResponsibleStaff: batch.ResponsibleStaff,
		Status:           batch.Status,
		Notes:            batch.Notes,
		Quantity:         batch.Quantity,
		HarvestDate:      batch.HarvestDate,
		CreatedAt:        batch.CreatedAt,
		UpdatedAt:        batch.UpdatedAt,
		Blocks:           blocks,
	}
}

// ProductRequest is the body for POST /api/products.
type ProductRequest struct {
	ProductID string  `json:"productId"`
	BatchID   string  `json:"batchId"`
	Size      string  `json:"size"`
	Quality   string  `json:"quality"`
	Notes     string  `json:"notes"`
	Weight    float64 `json:"weight"`
}

// ProductResponse represents a product, optionally with its chain.
type ProductResponse struct {
	ProductID string         `json:"productId"`
	BatchID   string         `json:"batchId"`
	Size      string         `json:"size,omitempty"`
	Quality   string         `json:"quality,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Weight    float64        `json:"weight"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Blocks    []ledger.Block `json:"blocks,omitempty"`
}

func newProductResponse(
	product models.Product,
	blocks []ledger.Block,
) ProductResponse {
	return ProductResponse{
		ProductID: product.ProductID,
		BatchID:   product.BatchID,
		Size:      product.Size,
		Quality:   product.Quality,
		Notes:     product.Notes,
		Weight:    product.Weight,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
		Blocks:    blocks,
	}
}

// BlockRequest is the body for block append endpoints. Sequence
// numbers and hashes are never accepted from the caller.
type BlockRequest struct {
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Actor     string         `json:"actor"`
	ActorRole string         `json:"actorRole,omitempty"`
	Location  string         `json:"location"`
	Data      ledger.Payload `json:"data"`
}

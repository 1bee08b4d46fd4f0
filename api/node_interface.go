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
	"context"
	"time"

	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"
	"github.com/silolabs-io/silo/recipes"
)

// Node is the interface the API server uses to operate on provenance
// data. This decouples the HTTP server from the concrete Node struct
// and enables testing with mock implementations.
type Node interface {
	// CreateBatch registers a new batch. A generated batch ID is
	// assigned when none is supplied.
	CreateBatch(params BatchParams) (models.Batch, error)

	// BatchList returns a page of batches plus the total count.
	BatchList(offset int, limit int) ([]models.Batch, int, error)

	// Batch returns a batch and its full chain.
	Batch(batchID string) (models.Batch, []ledger.Block, error)

	// AppendBatchBlock appends a block to a batch's chain.
	AppendBatchBlock(
		batchID string,
		content ledger.BlockContent,
	) (ledger.Block, error)

	// BatchProducts returns the products packed out of a batch.
	BatchProducts(batchID string) ([]models.Product, error)

	// VerifyBatch audits a batch's stored chain.
	VerifyBatch(batchID string) (ledger.VerifyReport, error)

	// CreateProduct registers a new product under an existing batch.
	CreateProduct(params ProductParams) (models.Product, error)

	// ProductList returns a page of products plus the total count.
	ProductList(offset int, limit int) ([]models.Product, int, error)

	// Product returns a product and its full chain.
	Product(productID string) (models.Product, []ledger.Block, error)

	// AppendProductBlock appends a block to a product's chain.
	AppendProductBlock(
		productID string,
		content ledger.BlockContent,
	) (ledger.Block, error)

	// VerifyProduct audits a product's stored chain.
	VerifyProduct(productID string) (ledger.VerifyReport, error)

	// ProductLocationStats counts products per genesis location.
	ProductLocationStats() ([]database.LocationCount, error)

	// BatchLogistics returns the logistics projection of a batch.
	BatchLogistics(batchID string) (logistics.Extraction, error)

	// BatchInsights analyzes a single batch's journey.
	BatchInsights(
		ctx context.Context,
		batchID string,
	) (logistics.Insights, error)

	// FleetInsights analyzes all batches together.
	FleetInsights(ctx context.Context) (logistics.ConsolidatedInsights, error)

	// RecipeSuggestions asks the text-generation model for dishes
	// built around an ingredient.
	RecipeSuggestions(
		ctx context.Context,
		ingredient string,
	) (recipes.Suggestions, error)
}

// BatchParams holds the caller-supplied fields for a new batch.
type BatchParams struct {
	BatchID          string
	ProductType      string
	Location         string
	ResponsibleStaff string
	Status           string
	Notes            string
	Quantity         uint
	HarvestDate      time.Time
}

// ProductParams holds the caller-supplied fields for a new product.
type ProductParams struct {
	ProductID string
	BatchID   string
	Size      string
	Quality   string
	Notes     string
	Weight    float64
}

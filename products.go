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
	"github.com/silolabs-io/silo/api"
	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/event"
	"github.com/silolabs-io/silo/ledger"
)

// CreateProduct registers a new product under an existing batch. The
// batch's quantity is incremented as a side effect.
func (n *Node) CreateProduct(
	params api.ProductParams,
) (models.Product, error) {
	productID := params.ProductID
	if productID == "" {
		productID = generateEntityID("PROD")
	}
	product := models.Product{
		ProductID: productID,
		BatchID:   params.BatchID,
		Size:      params.Size,
		Quality:   params.Quality,
		Notes:     params.Notes,
		Weight:    params.Weight,
	}
	if err := n.db.ProductCreate(&product); err != nil {
		return models.Product{}, err
	}
	n.eventBus.Publish(
		ProductCreatedEventType,
		event.NewEvent(
			ProductCreatedEventType,
			ProductCreatedEvent{Product: product},
		),
	)
	n.config.logger.Info(
		"created product",
		"component", "node",
		"product", productID,
		"batch", product.BatchID,
	)
	return product, nil
}

// ProductList returns a page of products plus the total count.
func (n *Node) ProductList(
	offset int,
	limit int,
) ([]models.Product, int, error) {
	products, err := n.db.Products(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := n.db.ProductCount()
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Product returns a product and its full provenance chain.
func (n *Node) Product(
	productID string,
) (models.Product, []ledger.Block, error) {
	product, err := n.db.ProductByID(productID)
	if err != nil {
		return models.Product{}, nil, err
	}
	blocks, err := n.ledger.ProductChain(productID)
	if err != nil {
		return models.Product{}, nil, err
	}
	return product, blocks, nil
}

// AppendProductBlock appends a block to a product's provenance chain.
func (n *Node) AppendProductBlock(
	productID string,
	content ledger.BlockContent,
) (ledger.Block, error) {
	return n.ledger.AppendProductBlock(productID, content)
}

// VerifyProduct checks the integrity of a product's provenance chain.
func (n *Node) VerifyProduct(
	productID string,
) (ledger.VerifyReport, error) {
	return n.ledger.VerifyProduct(productID)
}

// ProductLocationStats counts products by their first recorded
// location.
func (n *Node) ProductLocationStats() ([]database.LocationCount, error) {
	return n.db.ProductLocationStats()
}

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

package database

import (
	"errors"

	"github.com/silolabs-io/silo/database/models"

	"gorm.io/gorm"
)

var ErrProductExists = errors.New("product already exists")

// ProductCreate inserts a new product record and increments the parent
// batch quantity in the same transaction. Returns
// models.ErrBatchNotFound when the parent batch does not exist.
func (d *Database) ProductCreate(product *models.Product) error {
	return d.metadata.Transaction(func(tx *gorm.DB) error {
		var batch models.Batch
		result := tx.Where("batch_id = ?", product.BatchID).First(&batch)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return models.ErrBatchNotFound
			}
			return result.Error
		}
		var existing models.Product
		result = tx.Where("product_id = ?", product.ProductID).
			First(&existing)
		if result.Error == nil {
			return ErrProductExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		result = tx.Model(&models.Batch{}).
			Where("batch_id = ?", product.BatchID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		return result.Error
	})
}

// ProductByID retrieves a product record by its product ID.
func (d *Database) ProductByID(productID string) (models.Product, error) {
	var ret models.Product
	result := d.metadata.Where("product_id = ?", productID).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrProductNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// Products returns product records in insertion order. A limit of zero
// returns all records from the given offset.
func (d *Database) Products(offset int, limit int) ([]models.Product, error) {
	var ret []models.Product
	query := d.metadata.Order("id")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// ProductCount returns the total number of product records.
func (d *Database) ProductCount() (int, error) {
	var count int64
	result := d.metadata.Model(&models.Product{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(count), nil
}

// ProductsByBatch returns the products packed out of a batch.
func (d *Database) ProductsByBatch(batchID string) ([]models.Product, error) {
	var ret []models.Product
	result := d.metadata.
		Where("batch_id = ?", batchID).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// ProductBlockHead returns the highest-sequence block row of a product
// chain, or models.ErrBlockNotFound when the chain is empty.
func (d *Database) ProductBlockHead(
	productID string,
) (models.ProductBlock, error) {
	var ret models.ProductBlock
	result := d.metadata.
		Where("product_id = ?", productID).
		Order("sequence DESC").
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrBlockNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// ProductBlockRows returns all block rows of a product chain ordered by
// sequence number.
func (d *Database) ProductBlockRows(
	productID string,
) ([]models.ProductBlock, error) {
	var ret []models.ProductBlock
	result := d.metadata.
		Where("product_id = ?", productID).
		Order("sequence").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// ProductBlockAppend commits one block append to a product chain. Same
// write ordering as BatchBlockAppend.
func (d *Database) ProductBlockAppend(
	row models.ProductBlock,
	payload []byte,
) error {
	if err := d.PayloadSet("product", row.ProductID, row.Sequence, payload); err != nil {
		return err
	}
	if err := d.metadata.Create(&row).Error; err != nil {
		if delErr := d.PayloadDelete("product", row.ProductID, row.Sequence); delErr != nil {
			d.logger.Warn(
				"failed to remove orphaned block payload",
				"component", "database",
				"product", row.ProductID,
				"error", delErr,
			)
		}
		return err
	}
	return nil
}

// LocationCount is one row of the product location statistics.
type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// ProductLocationStats counts products grouped by the location recorded
// on each product's genesis block.
func (d *Database) ProductLocationStats() ([]LocationCount, error) {
	var ret []LocationCount
	result := d.metadata.
		Model(&models.ProductBlock{}).
		Select("location, count(*) as count").
		Where("sequence = ?", 1).
		Group("location").
		Order("count DESC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

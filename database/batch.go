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

var ErrBatchExists = errors.New("batch already exists")

// BatchCreate inserts a new batch record.
func (d *Database) BatchCreate(batch *models.Batch) error {
	return d.metadata.Transaction(func(tx *gorm.DB) error {
		var existing models.Batch
		result := tx.Where("batch_id = ?", batch.BatchID).First(&existing)
		if result.Error == nil {
			return ErrBatchExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		return tx.Create(batch).Error
	})
}

// BatchByID retrieves a batch record by its batch ID.
func (d *Database) BatchByID(batchID string) (models.Batch, error) {
	var ret models.Batch
	result := d.metadata.Where("batch_id = ?", batchID).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrBatchNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// Batches returns batch records in insertion order. A limit of zero
// returns all records from the given offset.
func (d *Database) Batches(offset int, limit int) ([]models.Batch, error) {
	var ret []models.Batch
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

// BatchCount returns the total number of batch records.
func (d *Database) BatchCount() (int, error) {
	var count int64
	result := d.metadata.Model(&models.Batch{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(count), nil
}

// BatchBlockHead returns the highest-sequence block row of a batch
// chain, or models.ErrBlockNotFound when the chain is empty.
func (d *Database) BatchBlockHead(batchID string) (models.BatchBlock, error) {
	var ret models.BatchBlock
	result := d.metadata.
		Where("batch_id = ?", batchID).
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

// BatchBlockRows returns all block rows of a batch chain ordered by
// sequence number.
func (d *Database) BatchBlockRows(batchID string) ([]models.BatchBlock, error) {
	var ret []models.BatchBlock
	result := d.metadata.
		Where("batch_id = ?", batchID).
		Order("sequence").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// BatchBlockAppend commits one block append: the payload document goes
// to the blob store, then the block row and the optional batch status
// update are written in a single metadata transaction. The blob write
// is rolled back if the transaction fails.
func (d *Database) BatchBlockAppend(
	row models.BatchBlock,
	payload []byte,
	status string,
	updateStatus bool,
) error {
	if err := d.PayloadSet("batch", row.BatchID, row.Sequence, payload); err != nil {
		return err
	}
	err := d.metadata.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if updateStatus {
			result := tx.Model(&models.Batch{}).
				Where("batch_id = ?", row.BatchID).
				Update("status", status)
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	if err != nil {
		// Best effort cleanup of the orphaned payload
		if delErr := d.PayloadDelete("batch", row.BatchID, row.Sequence); delErr != nil {
			d.logger.Warn(
				"failed to remove orphaned block payload",
				"component", "database",
				"batch", row.BatchID,
				"error", delErr,
			)
		}
		return err
	}
	return nil
}

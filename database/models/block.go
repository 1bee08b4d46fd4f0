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

package models

import (
	"errors"
)

var ErrBlockNotFound = errors.New("block not found")

// BatchBlock holds the scalar fields and hash links of a batch chain
// entry. The opaque payload document lives in the blob store, keyed by
// batch ID and sequence number. Timestamp is unix milliseconds.
type BatchBlock struct {
	BatchID   string `gorm:"uniqueIndex:batch_block_seq,priority:1;size:64"`
	Actor     string
	Location  string
	PrevHash  string `gorm:"size:64"`
	Hash      string `gorm:"size:64"`
	ID        uint   `gorm:"primarykey"`
	Sequence  uint64 `gorm:"uniqueIndex:batch_block_seq,priority:2"`
	Timestamp int64
}

func (BatchBlock) TableName() string {
	return "batch_block"
}

// ProductBlock holds the scalar fields and hash links of a product
// chain entry.
type ProductBlock struct {
	ProductID string `gorm:"uniqueIndex:product_block_seq,priority:1;size:64"`
	Actor     string
	ActorRole string
	Location  string
	PrevHash  string `gorm:"size:64"`
	Hash      string `gorm:"size:64"`
	ID        uint   `gorm:"primarykey"`
	Sequence  uint64 `gorm:"uniqueIndex:product_block_seq,priority:2"`
	Timestamp int64
}

func (ProductBlock) TableName() string {
	return "product_block"
}

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
	"time"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a single unit packed out of a batch.
type Product struct {
	ProductID string `gorm:"uniqueIndex;size:64"`
	BatchID   string `gorm:"index;size:64"`
	Size      string
	Quality   string
	Notes     string
	ID        uint `gorm:"primarykey"`
	Weight    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string {
	return "product"
}

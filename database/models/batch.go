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

var ErrBatchNotFound = errors.New("batch not found")

// Batch is a harvested lot tracked from its origin region onward.
// Location holds the origin region; Status reflects the latest status
// recorded on the batch's chain.
type Batch struct {
	BatchID          string `gorm:"uniqueIndex;size:64"`
	ProductType      string
	Location         string
	ResponsibleStaff string
	Status           string
	Notes            string
	ID               uint `gorm:"primarykey"`
	Quantity         uint
	HarvestDate      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Batch) TableName() string {
	return "batch"
}

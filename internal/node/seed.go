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

package node

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/internal/config"
	"github.com/silolabs-io/silo/ledger"
)

type seedProduct struct {
	productID string
	batchID   string
	size      string
	quality   string
	actor     string
	location  string
	weight    float64
}

var seedBatches = []models.Batch{
	{
		BatchID:          "BATCH-SR001",
		ProductType:      "durian",
		HarvestDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Location:         "Tien Giang",
		ResponsibleStaff: "Nguyen Van Sau",
		Quantity:         100,
		Status:           "harvested",
		Notes:            "early season durian",
	},
	{
		BatchID:          "BATCH-DH002",
		ProductType:      "watermelon",
		HarvestDate:      time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Location:         "Long An",
		ResponsibleStaff: "Tran Thi Dua",
		Quantity:         80,
		Status:           "harvested",
	},
	{
		BatchID:          "BATCH-TA003",
		ProductType:      "apple",
		HarvestDate:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Location:         "Lam Dong",
		ResponsibleStaff: "Le Van Tao",
		Quantity:         120,
		Status:           "harvested",
	},
}

var seedProducts = []seedProduct{
	{"PROD-SR-001", "BATCH-SR001", "L", "A", "Nguyen Van Sau", "Tien Giang", 2.5},
	{"PROD-SR-002", "BATCH-SR001", "M", "B", "Nguyen Van Sau", "Tien Giang", 2.3},
	{"PROD-DH-003", "BATCH-DH002", "L", "A", "Tran Thi Dua", "Long An", 1.8},
	{"PROD-DH-004", "BATCH-DH002", "M", "A", "Tran Thi Dua", "Long An", 1.7},
	{"PROD-TA-005", "BATCH-TA003", "S", "A", "Le Van Tao", "Lam Dong", 0.5},
	{"PROD-TA-006", "BATCH-TA003", "M", "B", "Le Van Tao", "Lam Dong", 0.6},
	{"PROD-SR-007", "BATCH-SR001", "L", "A", "Nguyen Van Sau", "Tien Giang", 2.7},
	{"PROD-DH-008", "BATCH-DH002", "L", "A", "Tran Thi Dua", "Long An", 1.9},
	{"PROD-TA-009", "BATCH-TA003", "L", "A", "Le Van Tao", "Lam Dong", 0.7},
	{"PROD-SR-010", "BATCH-SR001", "M", "B", "Nguyen Van Sau", "Tien Giang", 2.4},
}

// Seed populates an empty database with sample batches and products.
// Each product gets a registration block appended through the regular
// ledger path so seeded chains verify like any other.
func Seed(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.New(&database.Config{
		DataDir: cfg.DatabasePath,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	count, err := db.BatchCount()
	if err != nil {
		return fmt.Errorf("checking existing data: %w", err)
	}
	if count > 0 {
		return fmt.Errorf(
			"database already contains %d batches, refusing to seed",
			count,
		)
	}

	l, err := ledger.NewLedger(ledger.LedgerConfig{
		Database: db,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	for i := range seedBatches {
		batch := seedBatches[i]
		if err := db.BatchCreate(&batch); err != nil {
			return fmt.Errorf("seeding batch %s: %w", batch.BatchID, err)
		}
	}
	for _, sp := range seedProducts {
		product := models.Product{
			ProductID: sp.productID,
			BatchID:   sp.batchID,
			Size:      sp.size,
			Quality:   sp.quality,
			Weight:    sp.weight,
		}
		if err := db.ProductCreate(&product); err != nil {
			return fmt.Errorf("seeding product %s: %w", sp.productID, err)
		}
		_, err := l.AppendProductBlock(sp.productID, ledger.BlockContent{
			Actor:     sp.actor,
			ActorRole: "producer",
			Location:  sp.location,
			Payload:   ledger.Payload{},
		})
		if err != nil {
			return fmt.Errorf(
				"seeding registration block for %s: %w",
				sp.productID,
				err,
			)
		}
	}

	logger.Info(
		fmt.Sprintf(
			"seeded %d batches and %d products",
			len(seedBatches),
			len(seedProducts),
		),
		"component", "node",
	)
	return nil
}

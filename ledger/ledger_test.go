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

package ledger_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*ledger.Ledger, *database.Database) {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	l, err := ledger.NewLedger(ledger.LedgerConfig{
		Database: db,
	})
	require.NoError(t, err)
	return l, db
}

func createTestBatch(t *testing.T, db *database.Database, batchID string) {
	t.Helper()
	err := db.BatchCreate(&models.Batch{
		BatchID:     batchID,
		ProductType: "dragon fruit",
		Location:    "Binh Thuan",
		Status:      "harvested",
		HarvestDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func TestAppendBatchBlockChainLinks(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-TEST1")
	var prevHash string
	for i := 1; i <= 3; i++ {
		block, err := l.AppendBatchBlock("BATCH-TEST1", ledger.BlockContent{
			Actor:    "farm-operator",
			Location: "Binh Thuan",
			Payload: ledger.Payload{
				"action": "inspection",
				"round":  float64(i),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), block.Sequence) // #nosec G115
		assert.Equal(t, prevHash, block.PrevHash)
		assert.NotEmpty(t, block.Hash)
		prevHash = block.Hash
	}
	chain, err := l.BatchChain("BATCH-TEST1")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	report := ledger.Verify(chain)
	assert.True(t, report.OK)
	assert.Equal(t, -1, report.FirstBrokenIndex)
}

func TestAppendIgnoresCallerTimestampPrecision(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-TS")
	eventTime := time.Date(2025, 7, 2, 10, 30, 0, 123456789, time.UTC)
	block, err := l.AppendBatchBlock("BATCH-TS", ledger.BlockContent{
		Timestamp: eventTime,
		Actor:     "driver",
		Location:  "Da Lat",
		Payload:   ledger.Payload{"type": "shipment"},
	})
	require.NoError(t, err)
	// Stored timestamps are millisecond precision so stored chains
	// re-verify
	assert.Equal(t, eventTime.UnixMilli(), block.Timestamp.UnixMilli())
	report, err := l.VerifyBatch("BATCH-TS")
	require.NoError(t, err)
	assert.True(t, report.OK)
}

func TestAppendStatusSideEffect(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-STATUS")
	_, err := l.AppendBatchBlock("BATCH-STATUS", ledger.BlockContent{
		Actor:    "warehouse",
		Location: "Ho Chi Minh City",
		Payload: ledger.Payload{
			"type":   "shipment",
			"status": "in-transit",
		},
	})
	require.NoError(t, err)
	batch, err := db.BatchByID("BATCH-STATUS")
	require.NoError(t, err)
	assert.Equal(t, "in-transit", batch.Status)

	// A payload without a status field leaves the batch status alone
	_, err = l.AppendBatchBlock("BATCH-STATUS", ledger.BlockContent{
		Actor:    "warehouse",
		Location: "Ho Chi Minh City",
		Payload:  ledger.Payload{"action": "inspection"},
	})
	require.NoError(t, err)
	batch, err = db.BatchByID("BATCH-STATUS")
	require.NoError(t, err)
	assert.Equal(t, "in-transit", batch.Status)
}

func TestAppendUnknownBatch(t *testing.T) {
	l, _ := newTestLedger(t)
	_, err := l.AppendBatchBlock("BATCH-MISSING", ledger.BlockContent{
		Payload: ledger.Payload{"action": "inspection"},
	})
	assert.ErrorIs(t, err, models.ErrBatchNotFound)
}

func TestAppendNilPayload(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-NIL")
	_, err := l.AppendBatchBlock("BATCH-NIL", ledger.BlockContent{
		Actor: "farm-operator",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidPayload)
}

func TestVerifyDetectsTamperedPayload(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-TAMPER")
	for i := 0; i < 3; i++ {
		_, err := l.AppendBatchBlock("BATCH-TAMPER", ledger.BlockContent{
			Actor:    "farm-operator",
			Location: "Binh Thuan",
			Payload:  ledger.Payload{"round": float64(i)},
		})
		require.NoError(t, err)
	}
	chain, err := l.BatchChain("BATCH-TAMPER")
	require.NoError(t, err)
	chain[1].Payload["round"] = float64(99)
	report := ledger.Verify(chain)
	assert.False(t, report.OK)
	assert.Equal(t, 1, report.FirstBrokenIndex)
	assert.Equal(t, "content digest mismatch", report.Reason)
}

func TestVerifyDetectsBrokenLink(t *testing.T) {
	blocks := []ledger.Block{
		{
			Sequence: 1,
			Payload:  ledger.Payload{},
			PrevHash: "deadbeef",
		},
	}
	report := ledger.Verify(blocks)
	assert.False(t, report.OK)
	assert.Equal(t, 0, report.FirstBrokenIndex)
	assert.Equal(t, "genesis block has a previous hash", report.Reason)
}

func TestVerifyBatchBrokenChainIntegrityError(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-BROKEN")
	for i := 0; i < 2; i++ {
		_, err := l.AppendBatchBlock("BATCH-BROKEN", ledger.BlockContent{
			Actor:    "farm-operator",
			Location: "Binh Thuan",
			Payload:  ledger.Payload{"round": float64(i)},
		})
		require.NoError(t, err)
	}
	// Overwrite a stored payload behind the ledger's back
	err := db.PayloadSet(
		"batch",
		"BATCH-BROKEN",
		2,
		[]byte(`{"round":99}`),
	)
	require.NoError(t, err)

	report, err := l.VerifyBatch("BATCH-BROKEN")
	var integrityErr ledger.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, 1, integrityErr.Index())
	assert.Equal(t, "content digest mismatch", integrityErr.Reason())
	assert.False(t, report.OK)
	assert.Equal(t, 1, report.FirstBrokenIndex)
}

func TestVerifyEmptyChain(t *testing.T) {
	report := ledger.Verify(nil)
	assert.True(t, report.OK)
	assert.Equal(t, 0, report.Blocks)
}

func TestConcurrentAppendsSameBatch(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-CONC")
	const appends = 20
	var wg sync.WaitGroup
	errs := make([]error, appends)
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = l.AppendBatchBlock(
				"BATCH-CONC",
				ledger.BlockContent{
					Actor:    "farm-operator",
					Location: "Binh Thuan",
					Payload:  ledger.Payload{"idx": float64(idx)},
				},
			)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	chain, err := l.BatchChain("BATCH-CONC")
	require.NoError(t, err)
	require.Len(t, chain, appends)
	report := ledger.Verify(chain)
	assert.True(t, report.OK)
}

func TestProductChainAppend(t *testing.T) {
	l, db := newTestLedger(t)
	createTestBatch(t, db, "BATCH-PROD")
	err := db.ProductCreate(&models.Product{
		ProductID: "PROD-TEST1",
		BatchID:   "BATCH-PROD",
		Weight:    0.5,
		Quality:   "A",
	})
	require.NoError(t, err)
	block, err := l.AppendProductBlock("PROD-TEST1", ledger.BlockContent{
		Actor:     "packer",
		ActorRole: "packaging",
		Location:  "Binh Thuan",
		Payload:   ledger.Payload{"action": "packed"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), block.Sequence)
	report, err := l.VerifyProduct("PROD-TEST1")
	require.NoError(t, err)
	assert.True(t, report.OK)

	// Creating the product incremented the parent batch quantity
	batch, err := db.BatchByID("BATCH-PROD")
	require.NoError(t, err)
	assert.Equal(t, uint(1), batch.Quantity)

	_, err = l.AppendProductBlock("PROD-MISSING", ledger.BlockContent{
		Payload: ledger.Payload{"action": "packed"},
	})
	assert.True(t, errors.Is(err, models.ErrProductNotFound))
}

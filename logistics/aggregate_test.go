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

package logistics_test

import (
	"testing"

	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidateEmptyDataset(t *testing.T) {
	_, err := logistics.Consolidate(nil)
	assert.ErrorIs(t, err, logistics.ErrEmptyDataset)
}

func TestConsolidateScoring(t *testing.T) {
	// Region "Hub" appears in both batches (batchCount 2), records 3
	// shipment events, is origin of both batches and final location
	// of one:
	//   0.4*2 + 0.3*3 + 0.15*(2/2) + 0.15*(1/2) = 1.925
	batch1 := logistics.Extract("BATCH-1", "mango", "Hub", []ledger.Block{
		shipmentBlock(1, "Hub", ts(1, 0)),
		shipmentBlock(2, "Hub", ts(2, 0)),
	})
	batch2 := logistics.Extract("BATCH-2", "mango", "Hub", []ledger.Block{
		shipmentBlock(1, "Hub", ts(1, 0)),
		shipmentBlock(2, "Out", ts(3, 0)),
	})
	ret, err := logistics.Consolidate(
		[]logistics.Extraction{batch1, batch2},
	)
	require.NoError(t, err)
	require.NotEmpty(t, ret.RegionPerformance)
	top := ret.RegionPerformance[0]
	assert.Equal(t, "Hub", top.Name)
	assert.InDelta(t, 1.925, top.Score, 0.001)
	assert.Equal(t, 2, top.BatchesProcessed)
	assert.Equal(t, 2, ret.Summary.TotalBatches)
	assert.Equal(t, 2, ret.Summary.UniqueRegions)
	assert.Equal(t, 1, ret.Summary.ProductTypes)
	assert.Equal(t, "mango", ret.Summary.MostCommonProduct)
	assert.Equal(t, "Hub", ret.RegionPrediction.TopRegionNextQuarter)
}

func TestConsolidateSingleShipmentNoTransitCredit(t *testing.T) {
	// An entity with fewer than two shipment events contributes no
	// shipment counts or transit time
	batch := logistics.Extract("BATCH-1", "mango", "A", []ledger.Block{
		shipmentBlock(1, "A", ts(1, 0)),
	})
	ret, err := logistics.Consolidate([]logistics.Extraction{batch})
	require.NoError(t, err)
	require.Len(t, ret.RegionPerformance, 1)
	// Only batch count and origin/final position score:
	//   0.4*1 + 0.3*0 + 0.15*1 + 0.15*1 = 0.7
	assert.InDelta(t, 0.7, ret.RegionPerformance[0].Score, 0.001)
	assert.Contains(t, ret.TrendAnalysis, "average transit time of 0.0 days")
}

func TestConsolidateStableTieOrder(t *testing.T) {
	// Two regions with identical scores keep first-encounter order
	batch := logistics.Extract("BATCH-1", "mango", "A", []ledger.Block{
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(2, 0)),
	})
	batch.Regions.Origin = "" // neither region is origin
	batch.Regions.CurrentLocation = ""
	ret, err := logistics.Consolidate([]logistics.Extraction{batch})
	require.NoError(t, err)
	require.Len(t, ret.RegionPerformance, 2)
	assert.Equal(t, "A", ret.RegionPerformance[0].Name)
	assert.Equal(t, "B", ret.RegionPerformance[1].Name)
}

func TestConsolidateTopFivePerformanceRows(t *testing.T) {
	blocks := []ledger.Block{}
	regions := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, region := range regions {
		blocks = append(
			blocks,
			shipmentBlock(uint64(i)+1, region, ts(i+1, 0)), // #nosec G115
		)
	}
	batch := logistics.Extract("BATCH-1", "mango", "A", blocks)
	ret, err := logistics.Consolidate([]logistics.Extraction{batch})
	require.NoError(t, err)
	assert.Len(t, ret.RegionPerformance, 5)
	assert.Equal(t, 7, ret.Summary.UniqueRegions)
}

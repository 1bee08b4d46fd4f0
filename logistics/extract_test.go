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
	"time"

	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(day int, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func shipmentBlock(seq uint64, location string, at time.Time) ledger.Block {
	return ledger.Block{
		Sequence:  seq,
		Timestamp: at,
		Actor:     "driver",
		Location:  location,
		Payload:   ledger.Payload{"type": "shipment"},
	}
}

func TestExtractRegionPathDedup(t *testing.T) {
	blocks := []ledger.Block{
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(2, 0)),
		shipmentBlock(3, "A", ts(3, 0)),
		shipmentBlock(4, "C", ts(4, 0)),
	}
	data := logistics.Extract("BATCH-1", "mango", "A", blocks)
	assert.Equal(t, []string{"A", "B", "C"}, data.Regions.Path)
	assert.Equal(t, "C", data.Regions.CurrentLocation)
	assert.Equal(t, "A", data.Regions.Origin)
}

func TestExtractEmptyChain(t *testing.T) {
	data := logistics.Extract("BATCH-1", "mango", "Da Lat", nil)
	assert.Empty(t, data.Regions.Path)
	assert.Equal(t, "Da Lat", data.Regions.CurrentLocation)
	assert.Empty(t, data.ShipmentLogs)
	assert.Empty(t, data.Timestamps)
}

func TestExtractShipmentFilter(t *testing.T) {
	blocks := []ledger.Block{
		{
			Sequence:  1,
			Timestamp: ts(1, 0),
			Location:  "A",
			Payload:   ledger.Payload{"type": "shipment"},
		},
		{
			Sequence:  2,
			Timestamp: ts(2, 0),
			Location:  "A",
			Payload:   ledger.Payload{"action": "inspection"},
		},
		{
			Sequence:  3,
			Timestamp: ts(3, 0),
			Location:  "B",
			Payload:   ledger.Payload{"action": "transport"},
		},
	}
	data := logistics.Extract("BATCH-1", "mango", "A", blocks)
	require.Len(t, data.ShipmentLogs, 2)
	assert.Equal(t, uint64(1), data.ShipmentLogs[0].Sequence)
	assert.Equal(t, uint64(3), data.ShipmentLogs[1].Sequence)
	// Every block appears in the timestamp trace
	require.Len(t, data.Timestamps, 3)
	assert.Equal(t, "unknown", data.Timestamps[0].Action)
	assert.Equal(t, "inspection", data.Timestamps[1].Action)
	assert.Equal(t, "transport", data.Timestamps[2].Action)
}

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

package logistics

import (
	"time"

	"github.com/silolabs-io/silo/ledger"
)

// ShipmentLog is one shipment or transport event from a chain.
type ShipmentLog struct {
	Details   ledger.Payload `json:"details"`
	Actor     string         `json:"actor"`
	Location  string         `json:"location"`
	Timestamp time.Time      `json:"timestamp"`
	Sequence  uint64         `json:"blockId"`
}

// TraceEntry is one row of the full timestamp trace of a chain.
type TraceEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Sequence  uint64    `json:"blockId"`
}

// Regions summarizes where an entity has been.
type Regions struct {
	Origin          string   `json:"origin"`
	CurrentLocation string   `json:"currentLocation"`
	Path            []string `json:"path"`
}

// Extraction is the logistics projection of one entity's chain.
type Extraction struct {
	EntityID     string        `json:"batchId"`
	ProductType  string        `json:"productType"`
	ShipmentLogs []ShipmentLog `json:"shipmentLogs"`
	Timestamps   []TraceEntry  `json:"timestamps"`
	Regions      Regions       `json:"regions"`
}

// Extract projects an entity's chain into its logistics view: shipment
// events, the full timestamp trace, and the region path. The path
// keeps the first occurrence of each region in chain order; the
// current location is the last block's location, or the origin for an
// empty chain.
func Extract(
	entityID string,
	productType string,
	origin string,
	blocks []ledger.Block,
) Extraction {
	ret := Extraction{
		EntityID:     entityID,
		ProductType:  productType,
		ShipmentLogs: []ShipmentLog{},
		Timestamps:   []TraceEntry{},
		Regions: Regions{
			Origin:          origin,
			CurrentLocation: origin,
			Path:            []string{},
		},
	}
	seen := make(map[string]bool)
	for _, block := range blocks {
		if block.Payload.IsShipment() {
			ret.ShipmentLogs = append(ret.ShipmentLogs, ShipmentLog{
				Sequence:  block.Sequence,
				Actor:     block.Actor,
				Location:  block.Location,
				Timestamp: block.Timestamp,
				Details:   block.Payload,
			})
		}
		action, ok := block.Payload.Action()
		if !ok {
			action = "unknown"
		}
		ret.Timestamps = append(ret.Timestamps, TraceEntry{
			Sequence:  block.Sequence,
			Timestamp: block.Timestamp,
			Action:    action,
		})
		if !seen[block.Location] {
			seen[block.Location] = true
			ret.Regions.Path = append(ret.Regions.Path, block.Location)
		}
	}
	if len(blocks) > 0 {
		ret.Regions.CurrentLocation = blocks[len(blocks)-1].Location
	}
	return ret
}

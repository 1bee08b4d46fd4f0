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
	"strings"
	"testing"
	"time"

	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"

	"github.com/stretchr/testify/assert"
)

// journey builds an extraction from shipment hops given as
// (location, timestamp) pairs.
func journey(productType string, hops ...ledger.Block) logistics.Extraction {
	origin := ""
	if len(hops) > 0 {
		origin = hops[0].Location
	}
	return logistics.Extract("BATCH-J", productType, origin, hops)
}

func TestDwellTimeAdjacentPairsOnly(t *testing.T) {
	// A revisited region gets no dwell credit for the time spent
	// elsewhere in between
	data := journey("mango",
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(2, 0)),
		shipmentBlock(3, "A", ts(5, 0)),
	)
	insights := logistics.GenerateInsights(data)
	// No adjacent same-location pair exists, so all dwell times are
	// zero and the first path region wins the efficiency tie
	assert.Equal(t, "A", insights.RegionPrediction.TopRegionNextQuarter)
}

func TestPredictedRegionHalfThreshold(t *testing.T) {
	// Y is most active (first in path); X is fastest. X is predicted
	// only when its dwell is under half of Y's.
	build := func(xDwellHours int) logistics.Extraction {
		return journey("mango",
			shipmentBlock(1, "Y", ts(1, 0)),
			shipmentBlock(2, "Y", ts(1, 30)),
			shipmentBlock(3, "X", ts(3, 0)),
			shipmentBlock(4, "X", ts(3, xDwellHours)),
		)
	}
	// dwell(Y)=30h, dwell(X)=10h: 10 < 15, fastest region wins
	insights := logistics.GenerateInsights(build(10))
	assert.Equal(t, "X", insights.RegionPrediction.TopRegionNextQuarter)
	// dwell(Y)=30h, dwell(X)=20h: 20 >= 15, most active region wins
	insights = logistics.GenerateInsights(build(20))
	assert.Equal(t, "Y", insights.RegionPrediction.TopRegionNextQuarter)
}

func TestEfficiencyNarrative(t *testing.T) {
	// 3 day journey over 2 regions: 1.5 days per region, efficient
	data := journey("dragon fruit",
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(4, 0)),
	)
	insights := logistics.GenerateInsights(data)
	assert.Contains(t, insights.TrendAnalysis, "efficient transport")
	assert.Contains(t, insights.TrendAnalysis, "1.5 days per region")
	assert.Contains(
		t,
		insights.TrendAnalysis,
		"The relatively direct path suggests good supply chain optimization.",
	)
	assert.Contains(t, insights.Insights, "This dragon fruit batch")
	assert.Contains(t, insights.Insights, "2 regions")
	assert.Contains(t, insights.Insights, "approximately 3 days")

	// 9 day journey over 2 regions: 4.5 days per region, inefficient
	data = journey("dragon fruit",
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(10, 0)),
	)
	insights = logistics.GenerateInsights(data)
	assert.Contains(t, insights.TrendAnalysis, "inefficient transport")
}

func TestComplexPathNarrative(t *testing.T) {
	data := journey("mango",
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(2, 0)),
		shipmentBlock(3, "C", ts(3, 0)),
		shipmentBlock(4, "D", ts(4, 0)),
	)
	insights := logistics.GenerateInsights(data)
	assert.Contains(
		t,
		insights.TrendAnalysis,
		"Multiple handling points suggest a complex supply chain that could benefit from optimization.",
	)
}

func TestMaintainVersusShiftRecommendation(t *testing.T) {
	// Journey ends in the predicted region
	data := journey("mango",
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "A", ts(1, 1)),
	)
	insights := logistics.GenerateInsights(data)
	assert.True(
		t,
		strings.HasPrefix(insights.StrategicRecommendation, "Maintain"),
		insights.StrategicRecommendation,
	)

	// Journey ends away from the predicted region
	data = journey("mango",
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "A", ts(1, 1)),
		shipmentBlock(3, "B", ts(2, 0)),
		shipmentBlock(4, "B", ts(4, 0)),
		shipmentBlock(5, "A", ts(5, 0)),
		shipmentBlock(6, "B", ts(6, 0)),
	)
	insights = logistics.GenerateInsights(data)
	if insights.RegionPrediction.TopRegionNextQuarter != data.Regions.CurrentLocation {
		assert.True(
			t,
			strings.HasPrefix(insights.StrategicRecommendation, "Shift"),
			insights.StrategicRecommendation,
		)
	}
}

func TestInsightsEmptyChainUsesOrigin(t *testing.T) {
	data := logistics.Extract("BATCH-E", "mango", "Da Lat", nil)
	insights := logistics.GenerateInsights(data)
	assert.Equal(t, "Da Lat", insights.RegionPrediction.TopRegionNextQuarter)
	assert.Contains(t, insights.Insights, "1 regions")
}

func TestZeroJourneyTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	data := journey("mango",
		shipmentBlock(1, "A", at),
		shipmentBlock(2, "A", at),
	)
	insights := logistics.GenerateInsights(data)
	assert.Contains(t, insights.Insights, "approximately 0 days")
	assert.Contains(t, insights.TrendAnalysis, "0.0 days per region")
}

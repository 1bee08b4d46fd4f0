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
	"fmt"
	"math"
	"time"
)

// RegionPrediction names the region expected to perform best next
// quarter and why.
type RegionPrediction struct {
	TopRegionNextQuarter string `json:"top_region_next_quarter"`
	Reason               string `json:"reason"`
}

// Insights is the narrative analysis of one entity's journey.
type Insights struct {
	Insights                string           `json:"insights"`
	TrendAnalysis           string           `json:"trend_analysis"`
	RegionPrediction        RegionPrediction `json:"region_prediction"`
	StrategicRecommendation string           `json:"strategic_recommendation"`
}

// regionDwell accumulates time spent per region while preserving the
// order regions were first encountered, so ties always resolve the
// same way.
type regionDwell struct {
	order  []string
	values map[string]time.Duration
}

func newRegionDwell(regions []string) *regionDwell {
	d := &regionDwell{
		values: make(map[string]time.Duration),
	}
	for _, region := range regions {
		if _, ok := d.values[region]; !ok {
			d.order = append(d.order, region)
			d.values[region] = 0
		}
	}
	return d
}

func (d *regionDwell) add(region string, delta time.Duration) {
	if _, ok := d.values[region]; ok {
		d.values[region] += delta
	}
}

func (d *regionDwell) min() string {
	var ret string
	for i, region := range d.order {
		if i == 0 || d.values[region] < d.values[ret] {
			ret = region
		}
	}
	return ret
}

func (d *regionDwell) max() string {
	var ret string
	for i, region := range d.order {
		if i == 0 || d.values[region] > d.values[ret] {
			ret = region
		}
	}
	return ret
}

// GenerateInsights derives the heuristic journey analysis from an
// entity's logistics projection.
func GenerateInsights(data Extraction) Insights {
	path := data.Regions.Path
	if len(path) == 0 {
		// An entity with no recorded blocks has only its origin
		path = []string{data.Regions.Origin}
	}
	dwell := newRegionDwell(path)
	// Dwell time accumulates only between adjacent shipment events in
	// the same region; a region revisited later gets no credit for the
	// gap spent elsewhere
	for i := 1; i < len(data.ShipmentLogs); i++ {
		prev := data.ShipmentLogs[i-1]
		cur := data.ShipmentLogs[i]
		if prev.Location == cur.Location {
			dwell.add(cur.Location, cur.Timestamp.Sub(prev.Timestamp))
		}
	}
	fastestRegion := dwell.min()

	// The path holds each region once, so the frequency scan falls
	// back to the first region traveled
	frequency := make(map[string]int)
	for _, region := range path {
		frequency[region]++
	}
	mostActiveRegion := path[0]
	for _, region := range path {
		if frequency[region] > frequency[mostActiveRegion] {
			mostActiveRegion = region
		}
	}

	var predictedRegion string
	switch {
	case fastestRegion == mostActiveRegion:
		predictedRegion = fastestRegion
	case dwell.values[fastestRegion] < dwell.values[mostActiveRegion]/2:
		predictedRegion = fastestRegion
	default:
		predictedRegion = mostActiveRegion
	}

	var journeyDays float64
	if len(data.ShipmentLogs) > 1 {
		first := data.ShipmentLogs[0].Timestamp
		last := data.ShipmentLogs[len(data.ShipmentLogs)-1].Timestamp
		journeyDays = last.Sub(first).Hours() / 24
	}
	var efficiency float64
	if len(path) > 0 {
		efficiency = journeyDays / float64(len(path))
	}

	efficiencyWord := "inefficient"
	if efficiency < 2 {
		efficiencyWord = "efficient"
	}
	pathComment := "The relatively direct path suggests good supply chain optimization."
	if len(path) > 3 {
		pathComment = "Multiple handling points suggest a complex supply chain that could benefit from optimization."
	}
	predictionReason := "showed the highest throughput"
	if predictedRegion == fastestRegion {
		predictionReason = "demonstrated superior processing times"
	}
	recommendationVerb := "Shift"
	if predictedRegion == data.Regions.CurrentLocation {
		recommendationVerb = "Maintain"
	}
	recommendationDetail := fmt.Sprintf(
		"develop capabilities in %s to improve overall efficiency",
		fastestRegion,
	)
	if fastestRegion == predictedRegion {
		recommendationDetail = fmt.Sprintf(
			"consider reducing reliance on slower regions like %s",
			dwell.max(),
		)
	}

	return Insights{
		Insights: fmt.Sprintf(
			"This %s batch traveled through %d regions over approximately %d days, with %s showing the highest activity and %s demonstrating the best processing efficiency.",
			data.ProductType,
			len(path),
			int(math.Round(journeyDays)),
			mostActiveRegion,
			fastestRegion,
		),
		TrendAnalysis: fmt.Sprintf(
			"The movement pattern shows %s transport with an average of %.1f days per region transfer. %s",
			efficiencyWord,
			efficiency,
			pathComment,
		),
		RegionPrediction: RegionPrediction{
			TopRegionNextQuarter: predictedRegion,
			Reason: fmt.Sprintf(
				"%s %s while maintaining quality standards. Historical data suggests this region's infrastructure and processes are optimally aligned with this product type.",
				predictedRegion,
				predictionReason,
			),
		},
		StrategicRecommendation: fmt.Sprintf(
			"%s primary distribution through %s and %s.",
			recommendationVerb,
			predictedRegion,
			recommendationDetail,
		),
	}
}

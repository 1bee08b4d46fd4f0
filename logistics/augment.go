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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// TextGenerator produces free-form text from a prompt. Implemented by
// textgen.Client; nil disables augmentation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Augmenter produces journey insights, optionally augmented with
// narrative text from a remote model. Every augmentation failure
// falls back to the locally generated result; callers never see a
// remote error.
type Augmenter struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewAugmenter creates an Augmenter. A nil generator disables remote
// augmentation entirely.
func NewAugmenter(generator TextGenerator, logger *slog.Logger) *Augmenter {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Augmenter{
		generator: generator,
		logger:    logger,
	}
}

// EntityInsights analyzes a single entity's journey.
func (a *Augmenter) EntityInsights(
	ctx context.Context,
	data Extraction,
) Insights {
	local := GenerateInsights(data)
	if a.generator == nil {
		return local
	}
	remote, ok := a.generate(ctx, entityPrompt(data))
	if !ok {
		return local
	}
	return Insights{
		Insights:                remote.Insights,
		TrendAnalysis:           remote.TrendAnalysis,
		RegionPrediction:        remote.RegionPrediction,
		StrategicRecommendation: remote.StrategicRecommendation,
	}
}

// FleetInsights analyzes all entity projections together. The summary
// counts and region performance table are always computed locally;
// only the narrative fields can come from the remote model.
func (a *Augmenter) FleetInsights(
	ctx context.Context,
	batches []Extraction,
) (ConsolidatedInsights, error) {
	agg, err := aggregate(batches)
	if err != nil {
		return ConsolidatedInsights{}, err
	}
	local, err := Consolidate(batches)
	if err != nil {
		return ConsolidatedInsights{}, err
	}
	if a.generator == nil {
		return local, nil
	}
	remote, ok := a.generate(ctx, fleetPrompt(agg))
	if !ok {
		return local, nil
	}
	return ConsolidatedInsights{
		Insights:                remote.Insights,
		TrendAnalysis:           remote.TrendAnalysis,
		RegionPrediction:        remote.RegionPrediction,
		StrategicRecommendation: remote.StrategicRecommendation,
		Summary: Summary{
			TotalBatches:  agg.total,
			UniqueRegions: len(agg.regionOrder),
			ProductTypes:  len(agg.productTypeOrder),
		},
		RegionPerformance: agg.augmentedPerformanceTable(5),
	}, nil
}

// remoteInsights are the narrative fields we accept from the model.
type remoteInsights struct {
	Insights                string           `json:"insights"`
	TrendAnalysis           string           `json:"trend_analysis"`
	RegionPrediction        RegionPrediction `json:"region_prediction"`
	StrategicRecommendation string           `json:"strategic_recommendation"`
}

func (a *Augmenter) generate(
	ctx context.Context,
	prompt string,
) (remoteInsights, bool) {
	var ret remoteInsights
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn(
			"insight augmentation failed, using local analysis",
			"component", "logistics",
			"error", err,
		)
		return ret, false
	}
	doc, ok := extractJSON(text)
	if !ok {
		a.logger.Warn(
			"no JSON document in generated text, using local analysis",
			"component", "logistics",
		)
		return ret, false
	}
	if err := json.Unmarshal(doc, &ret); err != nil {
		a.logger.Warn(
			"could not decode generated insights, using local analysis",
			"component", "logistics",
			"error", err,
		)
		return ret, false
	}
	if ret.Insights == "" {
		a.logger.Warn(
			"generated insights missing required fields, using local analysis",
			"component", "logistics",
		)
		return ret, false
	}
	return ret, true
}

// extractJSON pulls the outermost {...} span out of free-form model
// output, which tends to wrap the document in prose or markdown
// fences.
func extractJSON(text string) ([]byte, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}

func entityPrompt(data Extraction) string {
	path, _ := json.Marshal(data.Regions.Path)
	logs, _ := json.Marshal(data.ShipmentLogs)
	return fmt.Sprintf(`You are a supply chain and market intelligence expert with a strong background in logistics analytics, predictive modeling, and regional economic forecasting.

Analyze the following product journey data across multiple geographic regions and time periods:

Product Type: %s
Regions in Path: %s
Origin: %s
Current Location: %s
Shipment Logs: %s

Your task is to:
1. Analyze the movement and activity pattern of the product.
2. Identify key trends, bottlenecks, or strategic pivots in regional logistics.
3. Evaluate which regions showed the most favorable conditions (e.g., efficiency, low delay, high turnover).
4. Use that information to predict which region is likely to be optimal for product performance in the upcoming quarter.
5. Provide your answer in the form of a structured report with reasoning.

Response MUST be in valid JSON format with these keys: insights, trend_analysis, region_prediction (with nested top_region_next_quarter and reason), and strategic_recommendation.`,
		data.ProductType,
		path,
		data.Regions.Origin,
		data.Regions.CurrentLocation,
		logs,
	)
}

func fleetPrompt(agg *aggregation) string {
	type productTypeSummary struct {
		Name           string  `json:"name"`
		Count          int     `json:"count"`
		AvgTransitTime float64 `json:"avg_transit_time"`
	}
	summary := struct {
		BatchCount          int                  `json:"batch_count"`
		UniqueRegions       int                  `json:"unique_regions"`
		TopRegions          []string             `json:"top_regions"`
		MostConnectedRegion string               `json:"most_connected_region"`
		ProductTypes        []productTypeSummary `json:"product_types"`
	}{
		BatchCount:          agg.total,
		UniqueRegions:       len(agg.regionOrder),
		TopRegions:          agg.topRegions,
		MostConnectedRegion: agg.mostConnected,
	}
	for _, name := range agg.productTypeOrder {
		ptm := agg.productTypes[name]
		summary.ProductTypes = append(summary.ProductTypes, productTypeSummary{
			Name:           name,
			Count:          ptm.Count,
			AvgTransitTime: ptm.AverageTransitDays,
		})
	}
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")
	return fmt.Sprintf(`You are a supply chain and market intelligence expert with a strong background in logistics analytics, predictive modeling, and regional economic forecasting.

Analyze the following aggregate supply chain data across multiple batches and regions:

%s

Your task is to:
1. Analyze the movement patterns and supply chain structure.
2. Identify key trends and strategic optimization opportunities.
3. Evaluate which regions showed the most favorable conditions.
4. Predict which region is likely to be optimal for overall supply chain performance in the upcoming quarter.
5. Provide your answer in the form of a structured report with reasoning.

Response MUST be in valid JSON format with these keys: insights, trend_analysis, region_prediction (with nested top_region_next_quarter and reason), and strategic_recommendation.`,
		summaryJSON,
	)
}

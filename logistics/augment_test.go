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
	"context"
	"errors"
	"testing"

	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(
	ctx context.Context,
	prompt string,
) (string, error) {
	return f.text, f.err
}

func testExtraction() logistics.Extraction {
	return logistics.Extract("BATCH-1", "mango", "A", []ledger.Block{
		shipmentBlock(1, "A", ts(1, 0)),
		shipmentBlock(2, "B", ts(3, 0)),
	})
}

func TestAugmenterNilGenerator(t *testing.T) {
	aug := logistics.NewAugmenter(nil, nil)
	data := testExtraction()
	got := aug.EntityInsights(context.Background(), data)
	assert.Equal(t, logistics.GenerateInsights(data), got)
}

func TestAugmenterFallbackOnError(t *testing.T) {
	aug := logistics.NewAugmenter(
		&fakeGenerator{err: errors.New("boom")},
		nil,
	)
	data := testExtraction()
	got := aug.EntityInsights(context.Background(), data)
	// The remote failure is invisible; the result is exactly the
	// local analysis
	assert.Equal(t, logistics.GenerateInsights(data), got)
}

func TestAugmenterFallbackOnGarbage(t *testing.T) {
	for _, text := range []string{
		"no json here at all",
		"{ not valid json }",
		`{"trend_analysis": "missing the insights key"}`,
	} {
		aug := logistics.NewAugmenter(&fakeGenerator{text: text}, nil)
		data := testExtraction()
		got := aug.EntityInsights(context.Background(), data)
		assert.Equal(t, logistics.GenerateInsights(data), got, text)
	}
}

func TestAugmenterUsesGeneratedText(t *testing.T) {
	aug := logistics.NewAugmenter(&fakeGenerator{
		text: "Here is the report:\n" +
			`{"insights": "remote insight", "trend_analysis": "remote trend", ` +
			`"region_prediction": {"top_region_next_quarter": "B", "reason": "remote reason"}, ` +
			`"strategic_recommendation": "remote recommendation"}` +
			"\nHope that helps!",
	}, nil)
	got := aug.EntityInsights(context.Background(), testExtraction())
	assert.Equal(t, "remote insight", got.Insights)
	assert.Equal(t, "remote trend", got.TrendAnalysis)
	assert.Equal(t, "B", got.RegionPrediction.TopRegionNextQuarter)
	assert.Equal(t, "remote recommendation", got.StrategicRecommendation)
}

func TestAugmenterFleetKeepsLocalTables(t *testing.T) {
	aug := logistics.NewAugmenter(&fakeGenerator{
		text: `{"insights": "remote insight", "trend_analysis": "remote trend", ` +
			`"region_prediction": {"top_region_next_quarter": "B", "reason": "r"}, ` +
			`"strategic_recommendation": "remote recommendation"}`,
	}, nil)
	batches := []logistics.Extraction{testExtraction()}
	got, err := aug.FleetInsights(context.Background(), batches)
	require.NoError(t, err)
	// Narrative fields come from the model, numbers stay local
	assert.Equal(t, "remote insight", got.Insights)
	assert.Equal(t, 1, got.Summary.TotalBatches)
	assert.Equal(t, 2, got.Summary.UniqueRegions)
	require.Len(t, got.RegionPerformance, 2)
	assert.Equal(t, 1, got.RegionPerformance[0].BatchesProcessed)
	assert.Equal(t, 1, got.RegionPerformance[0].ProductDiversity)
	assert.Zero(t, got.RegionPerformance[0].Score)
}

func TestAugmenterFleetEmptyDataset(t *testing.T) {
	aug := logistics.NewAugmenter(nil, nil)
	_, err := aug.FleetInsights(context.Background(), nil)
	assert.ErrorIs(t, err, logistics.ErrEmptyDataset)
}

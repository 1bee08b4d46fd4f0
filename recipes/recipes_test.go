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

package recipes

import (
	"context"
	"errors"
	"testing"

	"github.com/silolabs-io/silo/textgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text       string
	err        error
	lastPrompt string
	lastParams textgen.GenerateParams
}

func (f *fakeGenerator) GenerateWithParams(
	_ context.Context,
	prompt string,
	params textgen.GenerateParams,
) (string, error) {
	f.lastPrompt = prompt
	f.lastParams = params
	return f.text, f.err
}

func TestSuggestNoGenerator(t *testing.T) {
	s := NewSuggester(nil, nil)
	_, err := s.Suggest(context.Background(), "durian")
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestSuggestGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model loading")}
	s := NewSuggester(gen, nil)
	_, err := s.Suggest(context.Background(), "durian")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model loading")
}

func TestSuggestPromptAndParams(t *testing.T) {
	gen := &fakeGenerator{text: "1. Salad: fresh and simple."}
	s := NewSuggester(gen, nil)
	got, err := s.Suggest(context.Background(), "Dragon Fruit")
	require.NoError(t, err)
	// The "fruit" qualifier is stripped before prompting
	assert.Equal(t, "dragon", got.Ingredient)
	assert.Contains(
		t,
		gen.lastPrompt,
		"Suggest two simple dishes I can make with dragon.",
	)
	assert.Equal(t, 150, gen.lastParams.MaxNewTokens)
	assert.InDelta(t, 0.7, gen.lastParams.Temperature, 0.001)
	assert.InDelta(t, 0.9, gen.lastParams.TopP, 0.001)
	assert.True(t, gen.lastParams.DoSample)
}

func TestParseRecipesTitled(t *testing.T) {
	got := parseRecipes(
		"1. Durian Sticky Rice: sweet rice steamed with durian. " +
			"2. Durian Smoothie: blended durian with condensed milk.",
	)
	require.Len(t, got, 2)
	assert.Equal(t, "Durian Sticky Rice", got[0].Title)
	assert.Equal(
		t,
		"sweet rice steamed with durian.",
		got[0].Description,
	)
	assert.Equal(t, "Durian Smoothie", got[1].Title)
}

func TestParseRecipesSentenceFallback(t *testing.T) {
	// Multi-line output defeats the "Title: description" pattern, so
	// the first sentence becomes the title
	got := parseRecipes("1. A simple stir fry.\nCook it hot and fast.")
	require.Len(t, got, 1)
	assert.Equal(t, "A simple stir fry", got[0].Title)
	assert.Equal(t, "Cook it hot and fast.", got[0].Description)
}

func TestParseRecipesAtMostTwo(t *testing.T) {
	got := parseRecipes(
		"1. One: first. 2. Two: second. 3. Three: third.",
	)
	assert.Len(t, got, 2)
}

func TestNormalizeIngredient(t *testing.T) {
	testDefs := []struct {
		in   string
		want string
	}{
		{"Durian", "durian"},
		{"dragon fruit", "dragon"},
		{"Passion Fruit", "passion"},
		{"fruit", "fruit"},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.want,
			normalizeIngredient(testDef.in),
			testDef.in,
		)
	}
}

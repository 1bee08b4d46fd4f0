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

// Package recipes suggests dishes for a harvested ingredient using a
// text-generation model. Unlike the logistics insights there is no
// local fallback; without a configured generator the feature is
// simply unavailable.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/silolabs-io/silo/textgen"
)

// ErrNoGenerator is returned when suggestions are requested but no
// text generation credential is configured.
var ErrNoGenerator = errors.New("no text generation token configured")

// TextGenerator produces free-form text from a prompt with per-request
// generation parameters. Implemented by textgen.Client.
type TextGenerator interface {
	GenerateWithParams(
		ctx context.Context,
		prompt string,
		params textgen.GenerateParams,
	) (string, error)
}

// Recipe is one suggested dish.
type Recipe struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Suggestions holds the suggested dishes for one ingredient.
type Suggestions struct {
	Ingredient string   `json:"ingredient"`
	Recipes    []Recipe `json:"recipes"`
}

// Suggester asks a text-generation model for dish ideas.
type Suggester struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewSuggester creates a Suggester. A nil generator leaves the feature
// disabled; Suggest then returns ErrNoGenerator.
func NewSuggester(generator TextGenerator, logger *slog.Logger) *Suggester {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Suggester{
		generator: generator,
		logger:    logger,
	}
}

var (
	fruitSuffix  = regexp.MustCompile(`\s+fruit$`)
	recipeSplit  = regexp.MustCompile(`\d\.\s+`)
	titledRecipe = regexp.MustCompile(`^([^:.]+)[:.](.+)$`)
)

// normalizeIngredient lowercases the ingredient and drops a trailing
// "fruit" qualifier, so "Dragon Fruit" prompts for dragon dishes.
func normalizeIngredient(ingredient string) string {
	return strings.TrimSpace(
		fruitSuffix.ReplaceAllString(strings.ToLower(ingredient), ""),
	)
}

// Suggest asks the model for two simple dishes built around the given
// ingredient. Generation failures are surfaced to the caller.
func (s *Suggester) Suggest(
	ctx context.Context,
	ingredient string,
) (Suggestions, error) {
	if s.generator == nil {
		return Suggestions{}, ErrNoGenerator
	}
	normalized := normalizeIngredient(ingredient)
	s.logger.Debug(
		"generating recipe suggestions",
		"component", "recipes",
		"ingredient", normalized,
	)
	prompt := fmt.Sprintf(
		"Suggest two simple dishes I can make with %s. Include a brief description for each dish.",
		normalized,
	)
	text, err := s.generator.GenerateWithParams(
		ctx,
		prompt,
		textgen.GenerateParams{
			MaxNewTokens: 150,
			Temperature:  0.7,
			TopP:         0.9,
			DoSample:     true,
		},
	)
	if err != nil {
		return Suggestions{}, fmt.Errorf(
			"recipe generation failed: %w",
			err,
		)
	}
	return Suggestions{
		Ingredient: normalized,
		Recipes:    parseRecipes(text),
	}, nil
}

// parseRecipes splits numbered model output into at most two titled
// recipes. A "Title: description" line keeps its title; otherwise the
// first sentence becomes the title.
func parseRecipes(text string) []Recipe {
	ret := []Recipe{}
	for _, chunk := range recipeSplit.Split(text, -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if len(ret) == 2 {
			break
		}
		if m := titledRecipe.FindStringSubmatch(chunk); m != nil {
			ret = append(ret, Recipe{
				Title:       strings.TrimSpace(m[1]),
				Description: strings.TrimSpace(m[2]),
			})
			continue
		}
		sentences := strings.Split(chunk, ".")
		ret = append(ret, Recipe{
			Title: strings.TrimSpace(sentences[0]),
			Description: strings.TrimSpace(
				strings.Join(sentences[1:], "."),
			),
		})
	}
	return ret
}

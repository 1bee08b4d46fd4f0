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

package silo

import (
	"context"

	"github.com/silolabs-io/silo/recipes"
)

// RecipeSuggestions asks the configured text-generation model for dish
// ideas built around an ingredient. Returns recipes.ErrNoGenerator
// when no token is configured; there is no local fallback.
func (n *Node) RecipeSuggestions(
	ctx context.Context,
	ingredient string,
) (recipes.Suggestions, error) {
	return n.suggester.Suggest(ctx, ingredient)
}

// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands_test

import (
	"errors"
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	test "github.com/jaycherian/voice-catalog-assistant/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v float64) *float64 {
	return &v
}

func clothRows() []*model.CatalogRow {
	return []*model.CatalogRow{
		{ID: "1", Name: "FabIndia Cotton Kurta", Price: 1299, SubCategory: "kurta", Color: model.StringPtr("Red"), Size: model.StringPtr("M"), Rating: rating(4.4)},
		{ID: "2", Name: "Biba Silk Kurta", Price: 2499, SubCategory: "Kurta", Color: model.StringPtr("red"), Size: model.StringPtr("L"), Rating: rating(4.1)},
		{ID: "3", Name: "W Printed Kurta", Price: 899, SubCategory: "kurta", Color: model.StringPtr("Blue"), Size: model.StringPtr("M"), Rating: rating(3.8)},
		{ID: "4", Name: "Levi's Slim Jeans", Price: 1999, SubCategory: "jeans", Color: model.StringPtr("Blue"), Size: model.StringPtr("32")},
	}
}

func TestBuildSearchPredicatesKurta(t *testing.T) {
	req := &model.SearchRequest{
		Table:       "cloth_accessories",
		SubCategory: " Kurta",
		Budget:      model.NewNumber(1500),
		Color:       model.StringPtr("Red"),
		Size:        model.StringPtr("M"),
	}

	preds := commands.BuildSearchPredicates(req, registry())

	assert.Equal(t, []model.Predicate{
		{Column: model.ColumnSubCategory, Op: model.OpILike, Value: "kurta"},
		{Column: model.ColumnPrice, Op: model.OpLte, Value: 1500.0},
		{Column: model.ColumnColor, Op: model.OpILike, Value: "red"},
		{Column: model.ColumnSize, Op: model.OpILike, Value: "m"},
	}, preds)
}

// TestBuildSearchPredicatesIgnoresDisallowedFilters covers a pet food search
// with a color: pet has no color column, so the filter is dropped.
func TestBuildSearchPredicatesIgnoresDisallowedFilters(t *testing.T) {
	req := &model.SearchRequest{
		Table:       "pet",
		SubCategory: "food",
		Color:       model.StringPtr("brown"),
		Size:        model.StringPtr("L"),
		Budget:      model.NewNumber(0),
		MinRating:   model.NewNumber(4),
	}

	preds := commands.BuildSearchPredicates(req, registry())

	assert.Equal(t, []model.Predicate{
		{Column: model.ColumnSubCategory, Op: model.OpILike, Value: "food"},
		{Column: model.ColumnRating, Op: model.OpGte, Value: 4.0},
	}, preds)
}

func TestBudgetNarrowsResults(t *testing.T) {
	store := test.NewFakeCatalogStore(nil, clothRows())
	search := commands.NewProductSearch("product-search", store, registry())

	run := func(budget model.Number) []*model.SearchResult {
		chainCtx := cor.NewBaseContext()
		chainCtx.Add(commands.ParamSearchRequest, &model.SearchRequest{Table: "cloth_accessories", SubCategory: "kurta", Budget: budget})
		search.Execute(chainCtx)
		require.False(t, chainCtx.HasErrors())
		return chainCtx.Get(commands.ParamSearchResults).([]*model.SearchResult)
	}

	ids := func(results []*model.SearchResult) []string {
		out := make([]string, 0, len(results))
		for _, r := range results {
			out = append(out, r.ID)
		}
		return out
	}

	previous := ids(run(model.Number{}))
	assert.Equal(t, []string{"1", "2", "3"}, previous)
	for _, budget := range []float64{3000, 1500, 1000, 500} {
		current := ids(run(model.NewNumber(budget)))
		assert.Subset(t, previous, current)
		previous = current
	}
	assert.Empty(t, previous)
}

func TestFilterByBrand(t *testing.T) {
	rows := clothRows()

	assert.Len(t, commands.FilterByBrand(rows, "  "), 4)
	filtered := commands.FilterByBrand(rows, "biba")
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)
	assert.Empty(t, commands.FilterByBrand(rows, "Zara"))
}

func TestProductSearchProjectsAndFiltersBrand(t *testing.T) {
	store := test.NewFakeCatalogStore(nil, clothRows())
	search := commands.NewProductSearch("product-search", store, registry())

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamSearchRequest, &model.SearchRequest{
		Table: "cloth_accessories", SubCategory: "kurta", Brand: model.StringPtr("FABINDIA"),
	})
	search.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	results := chainCtx.Get(commands.ParamSearchResults).([]*model.SearchResult)
	require.Len(t, results, 1)
	assert.Equal(t, &model.SearchResult{ID: "1", Name: "FabIndia Cotton Kurta", Price: 1299, SubCategory: "kurta"}, results[0])
	assert.Equal(t, 3, chainCtx.Get(commands.ParamRetrievedCount))
}

func TestProductSearchStoreError(t *testing.T) {
	store := test.NewFakeCatalogStore(nil, nil)
	store.SearchErr = errors.New(`pq: relation "pet" does not exist`)
	search := commands.NewProductSearch("product-search", store, registry())

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamSearchRequest, &model.SearchRequest{Table: "pet", SubCategory: "food"})
	search.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.StoreError, e.Kind)
	assert.Equal(t, "Failed to fetch products", e.Message)
	assert.Empty(t, e.Detail)
}

func TestSearchRequestValidator(t *testing.T) {
	validator := commands.NewSearchRequestValidator("search-request-validator", registry())

	cases := []struct {
		req     *model.SearchRequest
		message string
	}{
		{&model.SearchRequest{Table: "", SubCategory: "food"}, "Missing table or category"},
		{&model.SearchRequest{Table: "pet", SubCategory: "  "}, "Missing table or category"},
		{&model.SearchRequest{Table: "pets; DROP TABLE pet", SubCategory: "food"}, "Unknown table"},
	}
	for _, c := range cases {
		chainCtx := cor.NewBaseContext()
		chainCtx.Add(commands.ParamSearchRequest, c.req)
		validator.Execute(chainCtx)

		e := model.AsError(chainCtx.FirstError())
		assert.Equal(t, model.SearchInputError, e.Kind)
		assert.Equal(t, c.message, e.Message)
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamSearchRequest, &model.SearchRequest{Table: "pet", SubCategory: "food"})
	validator.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())
}

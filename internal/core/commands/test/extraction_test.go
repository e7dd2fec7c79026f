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
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductQueryFenced(t *testing.T) {
	raw := "```json\n{\"source_table\": \"pet\", \"sub_category\": \"food\", \"color\": null, \"brand\": \"null\", \"budget\": \"500\", \"min_rating\": 4}\n```"

	query, err := commands.ParseProductQuery(raw, false)
	require.NoError(t, err)

	assert.Equal(t, "pet", query.SourceTable)
	assert.Equal(t, "food", model.StringValue(query.SubCategory))
	assert.Nil(t, query.Color)
	assert.Nil(t, query.Brand)
	assert.Equal(t, model.NewNumber(500), query.Budget)
	assert.Equal(t, model.NewNumber(4), query.MinRating)
	assert.False(t, query.CategoryFallback)
}

func TestParseProductQueryStrict(t *testing.T) {
	rejected := []string{
		`Sure! Here it is: {"sub_category": "food"}`,
		`{"sub_category": "food"} Hope this helps!`,
		`{"sub_category": "food"}{"sub_category": "toys"}`,
		`{"category": "food"}`,
		`{"sub_category": "food"`,
		``,
	}
	for _, raw := range rejected {
		_, err := commands.ParseProductQuery(raw, false)
		assert.Error(t, err, raw)
	}
}

func TestParseProductQueryLenient(t *testing.T) {
	query, err := commands.ParseProductQuery(`Sure! {"sub_category": "food", "brand": "Pedigree"} Hope this helps!`, true)
	require.NoError(t, err)
	assert.Equal(t, "food", model.StringValue(query.SubCategory))
	assert.Equal(t, "Pedigree", model.StringValue(query.Brand))

	_, err = commands.ParseProductQuery(`no object here`, true)
	assert.Error(t, err)
}

func TestParseProductQueryLenientIgnoresUnknownKeys(t *testing.T) {
	raw := `{"source_table": "pet", "sub_category": "food", "rating": 4, "in_stock": true}`

	query, err := commands.ParseProductQuery(raw, true)
	require.NoError(t, err)
	assert.Equal(t, "pet", query.SourceTable)
	assert.Equal(t, "food", model.StringValue(query.SubCategory))
	assert.False(t, query.MinRating.Valid)

	_, err = commands.ParseProductQuery(raw, false)
	assert.Error(t, err)
}

func TestFilterJsonToStructDropsDisallowedSize(t *testing.T) {
	parser := commands.NewFilterJsonToStruct("filter-json-to-struct", registry(), false)

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamTable, "pet")
	chainCtx.Add(commands.ParamRawExtraction, `{"sub_category": "food", "size": "M"}`)
	parser.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	query := chainCtx.Get(commands.ParamProductQuery).(*model.ProductQuery)
	assert.Equal(t, "pet", query.Table)
	assert.Equal(t, "pet", query.SourceTable)
	assert.Nil(t, query.Size)
}

func TestFilterJsonToStructParseError(t *testing.T) {
	parser := commands.NewFilterJsonToStruct("filter-json-to-struct", registry(), false)

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamTable, "pet")
	chainCtx.Add(commands.ParamRawExtraction, `I could not find anything`)
	parser.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.ExtractionParseError, e.Kind)
	assert.Equal(t, "Parsing failed", e.Message)
}

// TestCategoryFallback covers the extraction fallback: whatever the model
// returns, the validated sub-category is a catalog member or nil.
func TestCategoryFallback(t *testing.T) {
	catalog := model.NewCategoryCatalog("kurta", "jeans")

	cases := []struct {
		in       *string
		want     *string
		fallback bool
	}{
		{model.StringPtr(" Jeans "), model.StringPtr("jeans"), false},
		{model.StringPtr("saree"), model.StringPtr("kurta"), true},
		{nil, model.StringPtr("kurta"), true},
	}
	for _, c := range cases {
		query := &model.ProductQuery{SubCategory: c.in}
		applied := commands.ApplyCategoryFallback(query, catalog)
		assert.Equal(t, c.fallback, applied)
		assert.Equal(t, c.fallback, query.CategoryFallback)
		assert.Equal(t, c.want, query.SubCategory)
		assert.True(t, catalog.Contains(*query.SubCategory))
	}

	query := &model.ProductQuery{SubCategory: model.StringPtr("saree")}
	assert.True(t, commands.ApplyCategoryFallback(query, model.NewCategoryCatalog()))
	assert.Nil(t, query.SubCategory)
}

func TestProductQueryValidatorCommand(t *testing.T) {
	validator := commands.NewProductQueryValidator("product-query-validator")

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamCategories, model.NewCategoryCatalog("food", "toys"))
	chainCtx.Add(commands.ParamProductQuery, &model.ProductQuery{Table: "pet", SubCategory: model.StringPtr("treats")})
	validator.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	query := chainCtx.Get(commands.ParamProductQuery).(*model.ProductQuery)
	assert.Equal(t, "food", model.StringValue(query.SubCategory))
	assert.True(t, query.CategoryFallback)
}

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

package workflow_test

import (
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/workflow"
	test "github.com/jaycherian/voice-catalog-assistant/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

// scriptedClassifier answers routing prompts with table and extraction
// prompts with extraction.
func scriptedClassifier(table string, extraction string) *test.FakeClassifier {
	return &test.FakeClassifier{
		Reply: func(_ string, format commands.ReplyFormat) (string, error) {
			if format == commands.ReplyJSON {
				return extraction, nil
			}
			return table, nil
		},
	}
}

func resolve(t *testing.T, cfg *cloud.Config, classifier *test.FakeClassifier, prompt string) cor.Context {
	t.Helper()
	traceCtx, span := tracer.Start(ctx, "query-resolution-test")
	defer span.End()

	resolution := workflow.NewQueryResolutionWorkflow(cfg, cfg.TableRegistry(), classifier, classifier, catalog)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(traceCtx)
	chainCtx.Add(commands.ParamUserPrompt, prompt)
	resolution.Execute(chainCtx)

	if chainCtx.HasErrors() {
		span.SetStatus(codes.Error, "query resolution failed")
	}
	return chainCtx
}

func TestQueryResolutionKurta(t *testing.T) {
	classifier := scriptedClassifier("cloth_accessories",
		"```json\n{\"source_table\": \"cloth_accessories\", \"sub_category\": \"Kurta\", \"color\": \"blue\", \"brand\": null, \"budget\": 500, \"min_rating\": 4, \"size\": null}\n```")

	chainCtx := resolve(t, config, classifier, "find me a blue kurta under 500 with good rating")

	require.False(t, chainCtx.HasErrors())
	query := chainCtx.Get(commands.ParamProductQuery).(*model.ProductQuery)
	assert.Equal(t, "cloth_accessories", query.Table)
	assert.Equal(t, "kurta", model.StringValue(query.SubCategory))
	assert.Equal(t, "blue", model.StringValue(query.Color))
	assert.Nil(t, query.Brand)
	assert.Equal(t, model.NewNumber(500), query.Budget)
	assert.Equal(t, model.NewNumber(4), query.MinRating)
	assert.False(t, query.CategoryFallback)

	catalogValues := chainCtx.Get(commands.ParamCategories).(*model.CategoryCatalog).Values()
	assert.Equal(t, []string{"kurta", "jeans", "shoes"}, catalogValues)
	require.Len(t, classifier.Prompts, 2)
	assert.Contains(t, classifier.Prompts[1], `"size":`)
}

func TestQueryResolutionFallsBackToFirstCategory(t *testing.T) {
	classifier := scriptedClassifier("cloth_accessories",
		`{"source_table": "cloth_accessories", "sub_category": "saree", "color": null, "brand": null, "budget": null, "min_rating": null}`)

	chainCtx := resolve(t, config, classifier, "show me a saree")

	require.False(t, chainCtx.HasErrors())
	query := chainCtx.Get(commands.ParamProductQuery).(*model.ProductQuery)
	assert.Equal(t, "kurta", model.StringValue(query.SubCategory))
	assert.True(t, query.CategoryFallback)
}

func TestQueryResolutionUnknownTable(t *testing.T) {
	classifier := scriptedClassifier("Clothing", `{}`)

	chainCtx := resolve(t, config, classifier, "a red dress")

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.TableRoutingError, e.Kind)
	assert.Len(t, classifier.Prompts, 1)
}

func TestQueryResolutionToleratesChattyReply(t *testing.T) {
	classifier := scriptedClassifier("pet", `{"source_table": "pet", "sub_category": "food", "brand": "Pedigree"} Let me know if you need more!`)

	chainCtx := resolve(t, config, classifier, "pedigree dog food")

	require.False(t, chainCtx.HasErrors())
	query := chainCtx.Get(commands.ParamProductQuery).(*model.ProductQuery)
	assert.Equal(t, "pet", query.Table)
	assert.Equal(t, "food", model.StringValue(query.SubCategory))
	assert.Equal(t, "Pedigree", model.StringValue(query.Brand))
}

func TestQueryResolutionStrictRejectsChattyReply(t *testing.T) {
	strict := *config
	strict.Extraction.LenientRecovery = false
	classifier := scriptedClassifier("pet", `{"source_table": "pet", "sub_category": "food"} Let me know if you need more!`)

	chainCtx := resolve(t, &strict, classifier, "dog food")

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.ExtractionParseError, e.Kind)
	assert.Equal(t, 500, e.Kind.HTTPStatus())
}

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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements the
// workflow that resolves a free-form shopping request into a structured,
// validated product filter.
//
// Logic Flow:
//
//  1. TableRouter: the language model picks one table of the closed set.
//  2. CategoryEnumerator: the table's sub-categories are paged out of the store.
//  3. FilterExtractor: the language model fills in the filter as JSON.
//  4. FilterJsonToStruct: the reply is parsed into a model.ProductQuery.
//  5. ProductQueryValidator: the sub-category is forced into the catalog.
package workflow

import (
	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// QueryResolutionWorkflow reads the prompt from commands.ParamUserPrompt and
// leaves the *model.ProductQuery under commands.ParamProductQuery.
type QueryResolutionWorkflow struct {
	cor.BaseCommand
	config    *cloud.Config
	tables    *model.TableRegistry
	router    commands.LanguageClassifier
	extractor commands.LanguageClassifier
	store     commands.CatalogStore
	chain     cor.Chain
}

func (q *QueryResolutionWorkflow) Execute(context cor.Context) {
	q.chain.Execute(context)
}

func (q *QueryResolutionWorkflow) initializeChain() {
	out := cor.NewBaseChain(q.GetName())
	out.AddCommand(commands.NewTableRouter("table-router", q.router, q.tables, q.config.PromptTemplates.TableRouting))
	out.AddCommand(commands.NewCategoryEnumerator("category-enumerator", q.store, q.config.Catalog.PageSize))
	out.AddCommand(commands.NewFilterExtractor("filter-extractor", q.extractor, q.tables, q.config.PromptTemplates.FilterExtraction))
	out.AddCommand(commands.NewFilterJsonToStruct("filter-json-to-struct", q.tables, q.config.Extraction.LenientRecovery))
	out.AddCommand(commands.NewProductQueryValidator("product-query-validator"))
	q.chain = out
}

// NewQueryResolutionWorkflow builds the workflow.
//
// Inputs:
//   - config: Supplies prompt overrides, the page size and the parse policy.
//   - tables: The closed set of routable tables.
//   - router: Classifier used for table routing.
//   - extractor: Classifier used for filter extraction. May be the same as router.
//   - store: The product catalog.
func NewQueryResolutionWorkflow(
	config *cloud.Config,
	tables *model.TableRegistry,
	router commands.LanguageClassifier,
	extractor commands.LanguageClassifier,
	store commands.CatalogStore) *QueryResolutionWorkflow {

	out := &QueryResolutionWorkflow{
		BaseCommand: *cor.NewBaseCommand("query-resolution-workflow"),
		config:      config,
		tables:      tables,
		router:      router,
		extractor:   extractor,
		store:       store,
	}
	out.InputParamName = commands.ParamUserPrompt
	out.initializeChain()
	return out
}

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

package workflow

import (
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// ProductSearchWorkflow validates a *model.SearchRequest placed under
// commands.ParamSearchRequest and leaves the projected results under
// commands.ParamSearchResults.
type ProductSearchWorkflow struct {
	cor.BaseCommand
	tables *model.TableRegistry
	store  commands.CatalogStore
	chain  cor.Chain
}

func (p *ProductSearchWorkflow) Execute(context cor.Context) {
	p.chain.Execute(context)
}

func (p *ProductSearchWorkflow) initializeChain() {
	out := cor.NewBaseChain(p.GetName())
	out.AddCommand(commands.NewSearchRequestValidator("search-request-validator", p.tables))
	out.AddCommand(commands.NewProductSearch("product-search", p.store, p.tables))
	p.chain = out
}

func NewProductSearchWorkflow(tables *model.TableRegistry, store commands.CatalogStore) *ProductSearchWorkflow {
	out := &ProductSearchWorkflow{
		BaseCommand: *cor.NewBaseCommand("product-search-workflow"),
		tables:      tables,
		store:       store,
	}
	out.InputParamName = commands.ParamSearchRequest
	out.initializeChain()
	return out
}

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

package commands

import (
	"fmt"
	"log/slog"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

const DefaultCategoryPageSize = 1000

// CategoryEnumerator pages through the chosen table's sub_category column and
// builds its CategoryCatalog.
//
// A store error part way through is not fatal: enumeration stops and the
// catalog is built from the pages already read. Only an empty catalog fails
// the request.
type CategoryEnumerator struct {
	cor.BaseCommand
	store    CatalogStore
	pageSize int
}

func NewCategoryEnumerator(name string, store CatalogStore, pageSize int) *CategoryEnumerator {
	if pageSize <= 0 {
		pageSize = DefaultCategoryPageSize
	}
	out := &CategoryEnumerator{BaseCommand: *cor.NewBaseCommand(name), store: store, pageSize: pageSize}
	out.InputParamName = ParamTable
	return out
}

func (c *CategoryEnumerator) Execute(context cor.Context) {
	table := context.Get(c.GetInputParam()).(string)

	catalog := model.NewCategoryCatalog()
	rows := 0
	for offset := 0; ; offset += c.pageSize {
		page, err := c.store.PageColumn(context.GetContext(), table, model.ColumnSubCategory, offset, c.pageSize)
		if err != nil {
			slog.ErrorContext(context.GetContext(), "category page fetch failed, keeping partial catalog",
				"kind", model.CategoryFetchError, "table", table, "offset", offset, "error", err)
			break
		}
		if len(page) == 0 {
			break
		}
		rows += len(page)
		catalog.Add(page...)
	}

	slog.InfoContext(context.GetContext(), "fetched sub-categories", "table", table, "rows", rows, "distinct", catalog.Len())
	if catalog.Len() == 0 {
		c.Fail(context, model.NewError(model.CategoryFetchError, "No categories found", fmt.Errorf("table %s has no sub-categories", table)).WithDetail(""))
		return
	}

	c.Succeed(context)
	context.Add(ParamCategories, catalog)
	context.Add(c.GetOutputParam(), catalog)
}

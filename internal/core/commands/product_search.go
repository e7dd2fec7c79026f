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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// catalog search stage.
//
// Logic Flow:
//
//  1. Compose store predicates from the request:
//     - sub_category: case-insensitive partial match, always.
//     - price <= budget: when a non-zero budget is given.
//     - color: case-insensitive partial match, only if the table allows color.
//     - rating >= min_rating: when min_rating is a valid number.
//     - size: case-insensitive partial match, only if the table allows size.
//  2. Run the search against the CatalogStore. A store error is a StoreError.
//  3. Keep rows whose name contains the brand, case-insensitively. Brand is
//     never sent to the store.
//  4. Project each row to the public `model.SearchResult` shape.
package commands

import (
	"log/slog"
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// BuildSearchPredicates composes the store predicates for req, honouring the
// table's filter allow-list.
func BuildSearchPredicates(req *model.SearchRequest, tables *model.TableRegistry) []model.Predicate {
	out := []model.Predicate{
		{Column: model.ColumnSubCategory, Op: model.OpILike, Value: model.NormalizeCategory(req.SubCategory)},
	}
	if req.Budget.Valid && req.Budget.Value != 0 {
		out = append(out, model.Predicate{Column: model.ColumnPrice, Op: model.OpLte, Value: req.Budget.Value})
	}
	if color := model.StringValue(req.Color); color != "" && tables.Allows(req.Table, model.ColumnColor) {
		out = append(out, model.Predicate{Column: model.ColumnColor, Op: model.OpILike, Value: strings.ToLower(color)})
	}
	if req.MinRating.Valid {
		out = append(out, model.Predicate{Column: model.ColumnRating, Op: model.OpGte, Value: req.MinRating.Value})
	}
	if size := model.StringValue(req.Size); size != "" && tables.Allows(req.Table, model.ColumnSize) {
		out = append(out, model.Predicate{Column: model.ColumnSize, Op: model.OpILike, Value: strings.ToLower(size)})
	}
	return out
}

// FilterByBrand keeps rows whose name contains brand, ignoring case. A blank
// brand keeps everything.
func FilterByBrand(rows []*model.CatalogRow, brand string) []*model.CatalogRow {
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		return rows
	}
	out := make([]*model.CatalogRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), brand) {
			out = append(out, r)
		}
	}
	return out
}

// ProductSearch runs a validated SearchRequest against the catalog.
type ProductSearch struct {
	cor.BaseCommand
	store  CatalogStore
	tables *model.TableRegistry
}

func NewProductSearch(name string, store CatalogStore, tables *model.TableRegistry) *ProductSearch {
	out := &ProductSearch{BaseCommand: *cor.NewBaseCommand(name), store: store, tables: tables}
	out.InputParamName = ParamSearchRequest
	return out
}

func (c *ProductSearch) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.SearchRequest)

	rows, err := c.store.Search(context.GetContext(), req.Table, BuildSearchPredicates(req, c.tables))
	if err != nil {
		c.Fail(context, model.NewError(model.StoreError, "Failed to fetch products", err).WithDetail(""))
		return
	}

	filtered := FilterByBrand(rows, model.StringValue(req.Brand))
	results := make([]*model.SearchResult, 0, len(filtered))
	ids := make([]string, 0, len(filtered))
	for _, r := range filtered {
		results = append(results, r.Project())
		ids = append(ids, r.ID)
	}

	slog.InfoContext(context.GetContext(), "fetched products", "table", req.Table, "retrieved", len(rows), "returned", len(results), "ids", ids)
	c.Succeed(context)
	context.Add(ParamRetrievedCount, len(rows))
	context.Add(ParamSearchResults, results)
	context.Add(c.GetOutputParam(), results)
}

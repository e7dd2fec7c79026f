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
	"log/slog"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// ApplyCategoryFallback makes sure query.SubCategory is a member of catalog.
// A missing or unknown value is replaced with the catalog's first entry (nil
// for an empty catalog) and CategoryFallback is set. It reports whether the
// fallback was applied.
func ApplyCategoryFallback(query *model.ProductQuery, catalog *model.CategoryCatalog) bool {
	if query.SubCategory != nil && catalog.Contains(*query.SubCategory) {
		v := model.NormalizeCategory(*query.SubCategory)
		query.SubCategory = &v
		return false
	}

	query.CategoryFallback = true
	if first, ok := catalog.First(); ok {
		query.SubCategory = &first
	} else {
		query.SubCategory = nil
	}
	return true
}

// ProductQueryValidator enforces catalog membership on the extracted
// sub-category.
type ProductQueryValidator struct {
	cor.BaseCommand
}

func NewProductQueryValidator(name string) *ProductQueryValidator {
	out := &ProductQueryValidator{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ParamProductQuery
	return out
}

func (c *ProductQueryValidator) Execute(context cor.Context) {
	query := context.Get(c.GetInputParam()).(*model.ProductQuery)
	catalog := context.Get(ParamCategories).(*model.CategoryCatalog)

	received := model.StringValue(query.SubCategory)
	if ApplyCategoryFallback(query, catalog) {
		slog.WarnContext(context.GetContext(), "unknown category from classifier, applying fallback",
			"table", query.Table, "received", received, "fallback", model.StringValue(query.SubCategory))
	}

	c.Succeed(context)
	context.Add(ParamProductQuery, query)
	context.Add(c.GetOutputParam(), query)
}

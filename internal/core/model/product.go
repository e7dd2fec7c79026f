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

package model

import (
	"encoding/json"
	"strings"
)

// Catalog column names.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnPrice       = "price"
	ColumnImageURL    = "image_url"
	ColumnSubCategory = "sub_category"
	ColumnColor       = "color"
	ColumnSize        = "size"
	ColumnRating      = "rating"
)

// ProductQuery is the structured filter extracted from a free-form prompt.
type ProductQuery struct {
	SourceTable      string  `json:"source_table"`
	Table            string  `json:"table"`
	SubCategory      *string `json:"sub_category"`
	Color            *string `json:"color"`
	Brand            *string `json:"brand"`
	Budget           Number  `json:"budget"`
	MinRating        Number  `json:"min_rating"`
	Size             *string `json:"size,omitempty"`
	CategoryFallback bool    `json:"category_fallback,omitempty"`
	SizeAllowed      bool    `json:"-"` // The table has a size column, so size is always rendered.
}

// MarshalJSON renders size as null rather than omitting it when the table
// has a size column.
func (q ProductQuery) MarshalJSON() ([]byte, error) {
	type plain ProductQuery
	if !q.SizeAllowed {
		return json.Marshal(plain(q))
	}
	return json.Marshal(struct {
		plain
		Size *string `json:"size"`
	}{plain: plain(q), Size: q.Size})
}

// SearchRequest is the body accepted by the product search endpoint.
type SearchRequest struct {
	Table       string  `json:"table"`
	SubCategory string  `json:"sub_category"`
	Budget      Number  `json:"budget"`
	Color       *string `json:"color"`
	Brand       *string `json:"brand"`
	MinRating   Number  `json:"min_rating"`
	Size        *string `json:"size"`
}

// CatalogRow is a full product row as stored in a catalog table.
type CatalogRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	SubCategory string   `json:"sub_category"`
	Color       *string  `json:"color,omitempty"`
	Size        *string  `json:"size,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// SearchResult is the public projection of a CatalogRow.
type SearchResult struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	SubCategory string  `json:"sub_category"`
}

// Project returns the public view of the row.
func (r *CatalogRow) Project() *SearchResult {
	return &SearchResult{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.ImageURL,
		SubCategory: r.SubCategory,
	}
}

// Operator is a comparison understood by every CatalogStore.
type Operator string

const (
	OpEq    Operator = "eq"
	OpILike Operator = "ilike" // Case-insensitive substring match.
	OpLte   Operator = "lte"
	OpGte   Operator = "gte"
)

// Predicate is a single column condition. Predicates passed together are
// combined with AND.
type Predicate struct {
	Column string
	Op     Operator
	Value  interface{}
}

// Matches evaluates the predicate against a row in memory. Columns the row
// has no value for never match.
func (p Predicate) Matches(row *CatalogRow) bool {
	switch p.Column {
	case ColumnID:
		return p.matchString(row.ID)
	case ColumnName:
		return p.matchString(row.Name)
	case ColumnImageURL:
		return p.matchString(row.ImageURL)
	case ColumnSubCategory:
		return p.matchString(row.SubCategory)
	case ColumnColor:
		return row.Color != nil && p.matchString(*row.Color)
	case ColumnSize:
		return row.Size != nil && p.matchString(*row.Size)
	case ColumnPrice:
		return p.matchNumber(row.Price)
	case ColumnRating:
		return row.Rating != nil && p.matchNumber(*row.Rating)
	}
	return false
}

func (p Predicate) matchString(v string) bool {
	want, ok := p.Value.(string)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return v == want
	case OpILike:
		return strings.Contains(strings.ToLower(v), strings.ToLower(want))
	}
	return false
}

func (p Predicate) matchNumber(v float64) bool {
	want, ok := p.Value.(float64)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return v == want
	case OpLte:
		return v <= want
	case OpGte:
		return v >= want
	}
	return false
}

// StringValue returns the trimmed value of s, or "" when s is nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

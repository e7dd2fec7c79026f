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

package services

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// knownColumns are the only columns predicates may reference. Table and
// column names end up in SQL text, values never do.
var knownColumns = map[string]struct{}{
	model.ColumnID:          {},
	model.ColumnName:        {},
	model.ColumnPrice:       {},
	model.ColumnImageURL:    {},
	model.ColumnSubCategory: {},
	model.ColumnColor:       {},
	model.ColumnSize:        {},
	model.ColumnRating:      {},
}

func checkColumn(column string) error {
	if _, ok := knownColumns[column]; !ok {
		return fmt.Errorf("unsupported column %q", column)
	}
	return nil
}

// likePattern wraps v for a substring LIKE match, escaping the wildcards it
// contains.
func likePattern(v interface{}) string {
	s := fmt.Sprint(v)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return "%" + s + "%"
}

// rowFromValues maps a column-name keyed record, as returned by SELECT *, onto
// a CatalogRow. Columns a table lacks stay empty.
func rowFromValues(values map[string]interface{}) *model.CatalogRow {
	row := &model.CatalogRow{
		ID:          toString(values[model.ColumnID]),
		Name:        toString(values[model.ColumnName]),
		ImageURL:    toString(values[model.ColumnImageURL]),
		SubCategory: toString(values[model.ColumnSubCategory]),
	}
	if p, ok := toFloat(values[model.ColumnPrice]); ok {
		row.Price = p
	}
	if v, ok := values[model.ColumnColor]; ok && v != nil {
		row.Color = model.StringPtr(toString(v))
	}
	if v, ok := values[model.ColumnSize]; ok && v != nil {
		row.Size = model.StringPtr(toString(v))
	}
	if r, ok := toFloat(values[model.ColumnRating]); ok {
		row.Rating = &r
	}
	return row
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case *big.Rat:
		if t == nil {
			return 0, false
		}
		f, _ := t.Float64()
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

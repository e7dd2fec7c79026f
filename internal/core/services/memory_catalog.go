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
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// MemoryCatalog is a read-only CatalogStore held in memory, used for local
// runs and tests. Rows keep their seed order, which stands in for id order.
type MemoryCatalog struct {
	tables map[string][]*model.CatalogRow
}

// NewMemoryCatalog wraps tables. The map is not copied and must not be
// modified afterwards.
func NewMemoryCatalog(tables map[string][]*model.CatalogRow) *MemoryCatalog {
	if tables == nil {
		tables = make(map[string][]*model.CatalogRow)
	}
	return &MemoryCatalog{tables: tables}
}

// LoadMemoryCatalog reads a JSON object mapping table names to row arrays.
func LoadMemoryCatalog(fileName string) (*MemoryCatalog, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	tables := make(map[string][]*model.CatalogRow)
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("invalid catalog seed %s: %w", fileName, err)
	}
	return NewMemoryCatalog(tables), nil
}

func (m *MemoryCatalog) rows(table string) ([]*model.CatalogRow, error) {
	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", table)
	}
	return rows, nil
}

func (m *MemoryCatalog) PageColumn(_ context.Context, table string, column string, offset int, limit int) ([]string, error) {
	if err := checkColumn(column); err != nil {
		return nil, err
	}
	rows, err := m.rows(table)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(rows))
	for _, r := range rows {
		if v, ok := columnValue(r, column); ok {
			values = append(values, v)
		}
	}
	if offset >= len(values) {
		return []string{}, nil
	}
	end := offset + limit
	if end > len(values) {
		end = len(values)
	}
	return values[offset:end], nil
}

func (m *MemoryCatalog) Search(_ context.Context, table string, predicates []model.Predicate) ([]*model.CatalogRow, error) {
	rows, err := m.rows(table)
	if err != nil {
		return nil, err
	}
	for _, p := range predicates {
		if err := checkColumn(p.Column); err != nil {
			return nil, err
		}
	}

	out := make([]*model.CatalogRow, 0)
	for _, r := range rows {
		matched := true
		for _, p := range predicates {
			if !p.Matches(r) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, r)
		}
	}
	return out, nil
}

func columnValue(r *model.CatalogRow, column string) (string, bool) {
	switch column {
	case model.ColumnSubCategory:
		return r.SubCategory, r.SubCategory != ""
	case model.ColumnName:
		return r.Name, true
	case model.ColumnID:
		return r.ID, true
	case model.ColumnImageURL:
		return r.ImageURL, r.ImageURL != ""
	case model.ColumnColor:
		if r.Color == nil {
			return "", false
		}
		return *r.Color, true
	case model.ColumnSize:
		if r.Size == nil {
			return "", false
		}
		return *r.Size, true
	}
	return "", false
}

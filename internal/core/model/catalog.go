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

import "strings"

// NormalizeCategory is the canonical form used for catalog membership.
func NormalizeCategory(in string) string {
	return strings.ToLower(strings.TrimSpace(in))
}

// CategoryCatalog is the ordered, duplicate free list of normalized
// sub-categories found in a table.
type CategoryCatalog struct {
	values []string
	index  map[string]struct{}
}

// NewCategoryCatalog builds a catalog from raw values. Blank values are
// dropped and the first occurrence of each normalized value wins.
func NewCategoryCatalog(raw ...string) *CategoryCatalog {
	c := &CategoryCatalog{values: make([]string, 0, len(raw)), index: make(map[string]struct{})}
	c.Add(raw...)
	return c
}

// Add appends any values not already present.
func (c *CategoryCatalog) Add(raw ...string) {
	for _, r := range raw {
		v := NormalizeCategory(r)
		if v == "" {
			continue
		}
		if _, ok := c.index[v]; ok {
			continue
		}
		c.index[v] = struct{}{}
		c.values = append(c.values, v)
	}
}

// Contains reports whether the normalized form of v is in the catalog.
func (c *CategoryCatalog) Contains(v string) bool {
	_, ok := c.index[NormalizeCategory(v)]
	return ok
}

// First returns the deterministic fallback category, or "" and false when
// the catalog is empty.
func (c *CategoryCatalog) First() (string, bool) {
	if len(c.values) == 0 {
		return "", false
	}
	return c.values[0], true
}

// Values returns a copy of the catalog in discovery order.
func (c *CategoryCatalog) Values() []string {
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

func (c *CategoryCatalog) Len() int {
	return len(c.values)
}

// TableSchema names a catalog table and the optional filter columns it
// supports.
type TableSchema struct {
	Name   string   `toml:"name"`
	Fields []string `toml:"fields"`
}

// TableRegistry is the closed set of routable catalog tables. It is built once
// from configuration and never mutated afterwards.
type TableRegistry struct {
	names   []string
	schemas map[string]map[string]struct{}
}

// NewTableRegistry builds a registry preserving the order of schemas. A
// repeated table name keeps its first definition.
func NewTableRegistry(schemas []TableSchema) *TableRegistry {
	r := &TableRegistry{names: make([]string, 0, len(schemas)), schemas: make(map[string]map[string]struct{})}
	for _, s := range schemas {
		if s.Name == "" {
			continue
		}
		if _, ok := r.schemas[s.Name]; ok {
			continue
		}
		fields := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			fields[f] = struct{}{}
		}
		r.names = append(r.names, s.Name)
		r.schemas[s.Name] = fields
	}
	return r
}

// Contains is an exact, case-sensitive membership test.
func (r *TableRegistry) Contains(table string) bool {
	_, ok := r.schemas[table]
	return ok
}

// Allows reports whether field is in the table's filter allow-list. Unknown
// tables allow nothing.
func (r *TableRegistry) Allows(table string, field string) bool {
	fields, ok := r.schemas[table]
	if !ok {
		return false
	}
	_, ok = fields[field]
	return ok
}

// Names returns a copy of the table names in configuration order.
func (r *TableRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

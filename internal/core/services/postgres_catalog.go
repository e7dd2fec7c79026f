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

// Package services holds the adapters between the pipeline capabilities and
// the outside world. This file implements the CatalogStore on Postgres, which
// is what the hosted product catalog (Supabase) runs on.
//
// Each catalog table is a Postgres table with at least id, name, price,
// image_url, sub_category and rating. Tables whose schema allows it also carry
// color and size. Identifiers are quoted with pq.QuoteIdentifier and every
// value is passed as a positional parameter.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/lib/pq"
)

// PostgresCatalog is a CatalogStore over a Postgres database.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// BuildPgPageQuery returns the SQL for one page of column values.
func BuildPgPageQuery(table string, column string) (string, error) {
	if err := checkColumn(column); err != nil {
		return "", err
	}
	col := pq.QuoteIdentifier(column)
	return fmt.Sprintf(QryPgPageColumn, col, pq.QuoteIdentifier(table), col), nil
}

// BuildPgSearchQuery returns the SQL and positional arguments for a search.
func BuildPgSearchQuery(table string, predicates []model.Predicate) (string, []interface{}, error) {
	clauses := make([]string, 0, len(predicates))
	args := make([]interface{}, 0, len(predicates))
	for _, p := range predicates {
		if err := checkColumn(p.Column); err != nil {
			return "", nil, err
		}
		col := pq.QuoteIdentifier(p.Column)
		placeholder := fmt.Sprintf("$%d", len(args)+1)
		switch p.Op {
		case model.OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = %s", col, placeholder))
			args = append(args, p.Value)
		case model.OpILike:
			clauses = append(clauses, fmt.Sprintf("CAST(%s AS TEXT) ILIKE %s", col, placeholder))
			args = append(args, likePattern(p.Value))
		case model.OpLte:
			clauses = append(clauses, fmt.Sprintf("%s <= %s", col, placeholder))
			args = append(args, p.Value)
		case model.OpGte:
			clauses = append(clauses, fmt.Sprintf("%s >= %s", col, placeholder))
			args = append(args, p.Value)
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}
	where := "TRUE"
	if len(clauses) > 0 {
		where = strings.Join(clauses, " AND ")
	}
	return fmt.Sprintf(QryPgSearch, pq.QuoteIdentifier(table), where), args, nil
}

func (s *PostgresCatalog) PageColumn(ctx context.Context, table string, column string, offset int, limit int) ([]string, error) {
	query, err := BuildPgPageQuery(table, column)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			out = append(out, v.String)
		}
	}
	return out, rows.Err()
}

func (s *PostgresCatalog) Search(ctx context.Context, table string, predicates []model.Predicate) ([]*model.CatalogRow, error) {
	query, args, err := BuildPgSearchQuery(table, predicates)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]*model.CatalogRow, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		record := make(map[string]interface{}, len(columns))
		for i, c := range columns {
			record[c] = values[i]
		}
		out = append(out, rowFromValues(record))
	}
	return out, rows.Err()
}

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
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"google.golang.org/api/iterator"
)

// BigQueryCatalog is a CatalogStore over one BigQuery dataset holding a table
// per catalog table.
type BigQueryCatalog struct {
	BigqueryClient *bigquery.Client
	DatasetName    string
}

func NewBigQueryCatalog(client *bigquery.Client, dataset string) *BigQueryCatalog {
	return &BigQueryCatalog{BigqueryClient: client, DatasetName: dataset}
}

// GetFQN returns the fully qualified name of table in dot notation.
func (s *BigQueryCatalog) GetFQN(table string) string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(table).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// BuildBqWhere renders predicates as a BigQuery WHERE clause with named
// parameters p0, p1 and so on.
func BuildBqWhere(predicates []model.Predicate) (string, []bigquery.QueryParameter, error) {
	clauses := make([]string, 0, len(predicates))
	params := make([]bigquery.QueryParameter, 0, len(predicates))
	for i, p := range predicates {
		if err := checkColumn(p.Column); err != nil {
			return "", nil, err
		}
		name := fmt.Sprintf("p%d", i)
		switch p.Op {
		case model.OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = @%s", p.Column, name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: p.Value})
		case model.OpILike:
			clauses = append(clauses, fmt.Sprintf("LOWER(CAST(%s AS STRING)) LIKE @%s", p.Column, name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: strings.ToLower(likePattern(p.Value))})
		case model.OpLte:
			clauses = append(clauses, fmt.Sprintf("%s <= @%s", p.Column, name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: p.Value})
		case model.OpGte:
			clauses = append(clauses, fmt.Sprintf("%s >= @%s", p.Column, name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: p.Value})
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}
	if len(clauses) == 0 {
		return "TRUE", params, nil
	}
	return strings.Join(clauses, " AND "), params, nil
}

func (s *BigQueryCatalog) PageColumn(ctx context.Context, table string, column string, offset int, limit int) ([]string, error) {
	if err := checkColumn(column); err != nil {
		return nil, err
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryBqPageColumn, column, s.GetFQN(table), column))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
		{Name: "offset", Value: offset},
	}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}

	out := make([]string, 0, limit)
	for {
		var row struct {
			Value bigquery.NullString `bigquery:"value"`
		}
		err := itr.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate results: %w", err)
		}
		if row.Value.Valid {
			out = append(out, row.Value.StringVal)
		}
	}
	return out, nil
}

func (s *BigQueryCatalog) Search(ctx context.Context, table string, predicates []model.Predicate) ([]*model.CatalogRow, error) {
	where, params, err := BuildBqWhere(predicates)
	if err != nil {
		return nil, err
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryBqSearch, s.GetFQN(table), where))
	q.Parameters = params
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}

	out := make([]*model.CatalogRow, 0)
	for {
		values := make(map[string]bigquery.Value)
		err := itr.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate results: %w", err)
		}
		record := make(map[string]interface{}, len(values))
		for k, v := range values {
			record[k] = v
		}
		out = append(out, rowFromValues(record))
	}
	return out, nil
}

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

const (
	// QryPgPageColumn pages the non-null values of one column, ordered by id.
	// Placeholders: column, table, column. Parameters: $1 limit, $2 offset.
	QryPgPageColumn = "SELECT CAST(%s AS TEXT) FROM %s WHERE %s IS NOT NULL ORDER BY id LIMIT $1 OFFSET $2"

	// QryPgSearch selects whole rows. Placeholders: table, where clause.
	QryPgSearch = "SELECT * FROM %s WHERE %s ORDER BY id"

	// QryBqPageColumn is the BigQuery form of QryPgPageColumn.
	// Placeholders: column, fully qualified table, column.
	QryBqPageColumn = "SELECT CAST(%s AS STRING) AS value FROM `%s` WHERE %s IS NOT NULL ORDER BY id LIMIT @limit OFFSET @offset"

	// QryBqSearch is the BigQuery form of QryPgSearch.
	QryBqSearch = "SELECT * FROM `%s` WHERE %s ORDER BY id"
)

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

// Package model_test contains unit tests for the data models defined in the
// model package. This file covers the optional numeric JSON type used for
// budgets and ratings.
package model_test

import (
	"encoding/json"
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		value float64
	}{
		{`1500`, true, 1500},
		{`4.5`, true, 4.5},
		{`"2000"`, true, 2000},
		{`" ₹1,999 "`, true, 1999},
		{`null`, false, 0},
		{`""`, false, 0},
		{`"cheap"`, false, 0},
		{`true`, false, 0},
	}
	for _, c := range cases {
		var n model.Number
		require.NoError(t, json.Unmarshal([]byte(c.in), &n), c.in)
		assert.Equal(t, c.valid, n.Valid, c.in)
		assert.Equal(t, c.value, n.Value, c.in)
	}
}

func TestNumberRejectsNonScalars(t *testing.T) {
	var n model.Number
	assert.Error(t, json.Unmarshal([]byte(`{"amount": 5}`), &n))
	assert.Error(t, json.Unmarshal([]byte(`[5]`), &n))
}

func TestNumberInsideStruct(t *testing.T) {
	var req model.SearchRequest
	err := json.Unmarshal([]byte(`{"table":"pet","sub_category":"food","budget":"500","min_rating":null}`), &req)
	require.NoError(t, err)

	assert.True(t, req.Budget.Valid)
	assert.Equal(t, 500.0, req.Budget.Value)
	assert.False(t, req.MinRating.Valid)
	assert.Nil(t, req.MinRating.Ptr())
}

func TestNumberMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A model.Number `json:"a"`
		B model.Number `json:"b"`
	}{A: model.NewNumber(4), B: model.Number{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":4,"b":null}`, string(out))
}

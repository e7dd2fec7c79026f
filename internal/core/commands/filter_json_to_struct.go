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
// command that turns the language model's raw extraction reply into a
// `model.ProductQuery`.
//
// Logic Flow:
//
//  1. Remove markdown code fences the model may wrap its answer in.
//  2. In the default lenient mode the text is cut just after the first '}'
//     so commentary around the object is ignored, and unknown keys are
//     skipped. This only works for flat objects, which is what the prompt
//     asks for.
//  3. In strict mode exactly one JSON object with no unknown keys and nothing
//     after it must decode.
//  4. Any other shape is an ExtractionParseError.
//  5. String values of "null" or "" are treated as absent, and `size` is
//     dropped for tables whose schema has no size column.
//  6. Stamp the chosen table on the result.
package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// StripCodeFences removes every ```json and ``` marker and trims the result.
func StripCodeFences(in string) string {
	out := strings.ReplaceAll(in, "```json", "")
	out = strings.ReplaceAll(out, "```JSON", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}

// ParseProductQuery decodes a fenced or bare extraction reply. With lenient
// set the reply is truncated after its first '}' and unknown keys are
// ignored. Without it the reply must be one object of known keys.
func ParseProductQuery(raw string, lenient bool) (*model.ProductQuery, error) {
	content := StripCodeFences(raw)
	if lenient {
		end := strings.Index(content, "}")
		if end < 0 {
			return nil, errors.New("no JSON object in reply")
		}
		if start := strings.Index(content, "{"); start >= 0 && start < end {
			content = content[start : end+1]
		} else {
			content = content[:end+1]
		}
	}
	if !strings.HasPrefix(content, "{") {
		return nil, errors.New("reply is not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	if !lenient {
		dec.DisallowUnknownFields()
	}

	out := &model.ProductQuery{}
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("invalid extraction JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected content after JSON object")
	}

	out.SubCategory = nullable(out.SubCategory)
	out.Color = nullable(out.Color)
	out.Brand = nullable(out.Brand)
	out.Size = nullable(out.Size)
	out.CategoryFallback = false
	return out, nil
}

func nullable(in *string) *string {
	if in == nil {
		return nil
	}
	v := strings.TrimSpace(*in)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

// FilterJsonToStruct parses the raw extraction reply.
type FilterJsonToStruct struct {
	cor.BaseCommand
	tables  *model.TableRegistry
	lenient bool
}

// NewFilterJsonToStruct creates the parser. lenient enables first-brace
// truncation of the reply and tolerates unknown keys.
func NewFilterJsonToStruct(name string, tables *model.TableRegistry, lenient bool) *FilterJsonToStruct {
	out := &FilterJsonToStruct{BaseCommand: *cor.NewBaseCommand(name), tables: tables, lenient: lenient}
	out.InputParamName = ParamRawExtraction
	return out
}

func (c *FilterJsonToStruct) Execute(context cor.Context) {
	raw := context.Get(c.GetInputParam()).(string)
	table, _ := context.Get(ParamTable).(string)

	query, err := ParseProductQuery(raw, c.lenient)
	if err != nil {
		c.Fail(context, model.NewError(model.ExtractionParseError, "Parsing failed", err))
		return
	}

	query.Table = table
	if query.SourceTable == "" {
		query.SourceTable = table
	}
	query.SizeAllowed = c.tables.Allows(table, model.ColumnSize)
	if !query.SizeAllowed {
		query.Size = nil
	}

	c.Succeed(context)
	context.Add(ParamProductQuery, query)
	context.Add(c.GetOutputParam(), query)
}

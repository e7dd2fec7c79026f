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
// filter extraction stage of query resolution.
//
// Logic Flow:
//
//  1. Read the chosen table and its CategoryCatalog from the context.
//  2. Render the extraction prompt. It embeds the catalog as a bullet list and
//     the exact JSON object the model must answer with. The `size` key is only
//     requested when the table's schema allow-list has a size column.
//  3. Ask the language model for a JSON reply and store the raw text for the
//     parser that follows.
package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// DefaultFilterExtractionPrompt is used when configuration does not supply one.
// The template receives PROMPT, TABLE, CATEGORIES and INCLUDE_SIZE.
const DefaultFilterExtractionPrompt = `
You are a smart product filter extractor.
User query: "{{ .PROMPT }}"
Available categories:
{{ .CATEGORIES }}

Return this JSON:
{
  "source_table": "{{ .TABLE }}",
  "sub_category": "exact match from list above or null",
  "color": "if mentioned, else null",
  "brand": "if mentioned, else null",
  "budget": "if mentioned (numeric), else null",
  "min_rating": "if mentioned (numeric) or implied (e.g., 'very good' = 4, 'excellent' or 'best' = 4.5+), else null"{{ if .INCLUDE_SIZE }},
  "size": "if mentioned, else null"{{ end }}
}
  Do not guess similar categories (e.g., "men's clothing"). Match exactly.
  Respond ONLY with clean JSON. Do not add explanations or markdown.`

// FilterExtractor asks the language model for the structured filter.
type FilterExtractor struct {
	cor.BaseCommand
	classifier LanguageClassifier
	tables     *model.TableRegistry
	template   *template.Template
}

func NewFilterExtractor(name string, classifier LanguageClassifier, tables *model.TableRegistry, promptTemplate string) *FilterExtractor {
	if strings.TrimSpace(promptTemplate) == "" {
		promptTemplate = DefaultFilterExtractionPrompt
	}
	out := &FilterExtractor{
		BaseCommand: *cor.NewBaseCommand(name),
		classifier:  classifier,
		tables:      tables,
		template:    template.Must(template.New(name).Parse(promptTemplate)),
	}
	out.InputParamName = ParamCategories
	return out
}

// GenerateParams builds the template data for the extraction prompt.
func (c *FilterExtractor) GenerateParams(context cor.Context) map[string]interface{} {
	table, _ := context.Get(ParamTable).(string)
	catalog := context.Get(c.GetInputParam()).(*model.CategoryCatalog)

	lines := make([]string, 0, catalog.Len())
	for _, v := range catalog.Values() {
		lines = append(lines, fmt.Sprintf("- %s", v))
	}

	params := make(map[string]interface{})
	params["PROMPT"], _ = context.Get(ParamUserPrompt).(string)
	params["TABLE"] = table
	params["CATEGORIES"] = strings.Join(lines, "\n")
	params["INCLUDE_SIZE"] = c.tables.Allows(table, model.ColumnSize)
	return params
}

func (c *FilterExtractor) Execute(context cor.Context) {
	var prompt bytes.Buffer
	if err := c.template.Execute(&prompt, c.GenerateParams(context)); err != nil {
		c.Fail(context, model.NewError(model.ClassifierError, "Parsing failed", err))
		return
	}

	reply, err := c.classifier.Classify(context.GetContext(), prompt.String(), ReplyJSON)
	if err != nil {
		c.Fail(context, model.NewError(model.ClassifierError, "Parsing failed", err))
		return
	}

	c.Succeed(context)
	context.Add(ParamRawExtraction, reply)
	context.Add(c.GetOutputParam(), reply)
}

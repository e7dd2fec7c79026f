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
// first stage of query resolution: picking the catalog table a free-form
// shopping request belongs to.
//
// Logic Flow:
//
//  1. Render a prompt listing every routable table and the user's words.
//  2. Ask the language model for a plain text reply.
//  3. Trim the reply and accept it only if it is exactly one of the table
//     names, case included. Anything else ends the request with a
//     TableRoutingError. There is no fuzzy matching and no second attempt.
package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// DefaultTableRoutingPrompt is used when configuration does not supply one.
const DefaultTableRoutingPrompt = `
You are a product assistant. Choose the best matching table from:
{{ .TABLES }}
User said: "{{ .PROMPT }}"
Strictly Return only exact table name or "Unknown".
Return only exact table name from the list above (case-sensitive). Do not add punctuation.`

// TableRouter maps the user prompt to one table of the registry.
type TableRouter struct {
	cor.BaseCommand
	classifier LanguageClassifier
	tables     *model.TableRegistry
	template   *template.Template
}

// NewTableRouter creates the command. An empty promptTemplate selects
// DefaultTableRoutingPrompt. The template receives TABLES and PROMPT.
func NewTableRouter(name string, classifier LanguageClassifier, tables *model.TableRegistry, promptTemplate string) *TableRouter {
	if strings.TrimSpace(promptTemplate) == "" {
		promptTemplate = DefaultTableRoutingPrompt
	}
	out := &TableRouter{
		BaseCommand: *cor.NewBaseCommand(name),
		classifier:  classifier,
		tables:      tables,
		template:    template.Must(template.New(name).Parse(promptTemplate)),
	}
	out.InputParamName = ParamUserPrompt
	return out
}

func (c *TableRouter) Execute(context cor.Context) {
	userPrompt := context.Get(c.GetInputParam()).(string)

	var prompt bytes.Buffer
	err := c.template.Execute(&prompt, map[string]string{
		"TABLES": strings.Join(c.tables.Names(), ", "),
		"PROMPT": userPrompt,
	})
	if err != nil {
		c.Fail(context, model.NewError(model.ClassifierError, "Table selection failed", err))
		return
	}

	reply, err := c.classifier.Classify(context.GetContext(), prompt.String(), ReplyText)
	if err != nil {
		c.Fail(context, model.NewError(model.ClassifierError, "Table selection failed", err))
		return
	}

	table := strings.TrimSpace(reply)
	if !c.tables.Contains(table) {
		slog.WarnContext(context.GetContext(), "table not in list", "received", table)
		c.Fail(context, model.NewError(model.TableRoutingError, "No valid table match.", fmt.Errorf("classifier returned %q", table)).WithDetail(""))
		return
	}

	slog.InfoContext(context.GetContext(), "chosen table", "table", table)
	c.Succeed(context)
	context.Add(ParamTable, table)
	context.Add(c.GetOutputParam(), table)
}

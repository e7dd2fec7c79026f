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

package commands

import (
	"fmt"
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// SearchRequestValidator checks the required search fields. The table name
// doubles as a store identifier, so it must be an exact registry member.
type SearchRequestValidator struct {
	cor.BaseCommand
	tables *model.TableRegistry
}

func NewSearchRequestValidator(name string, tables *model.TableRegistry) *SearchRequestValidator {
	out := &SearchRequestValidator{BaseCommand: *cor.NewBaseCommand(name), tables: tables}
	out.InputParamName = ParamSearchRequest
	return out
}

func (c *SearchRequestValidator) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.SearchRequest)

	if strings.TrimSpace(req.Table) == "" || strings.TrimSpace(req.SubCategory) == "" {
		c.Fail(context, model.NewError(model.SearchInputError, "Missing table or category", nil))
		return
	}
	if !c.tables.Contains(req.Table) {
		c.Fail(context, model.NewError(model.SearchInputError, "Unknown table", fmt.Errorf("table %q is not searchable", req.Table)).WithDetail(""))
		return
	}

	c.Succeed(context)
	context.Add(c.GetOutputParam(), req)
}

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
// splitter that turns long text into pieces small enough for the speech
// synthesis service.
//
// Logic Flow:
//
//  1. Trim the input and take a window of at most `size` characters.
//  2. If the last '.' in the window sits beyond `minCut`, shorten the window to
//     end just after it. Short windows are never cut on a period so chunks do
//     not degrade into single words.
//  3. Emit the trimmed window as the next chunk, drop the window from the
//     remaining text and trim again.
//  4. Repeat until nothing is left.
//
// Sizes are counted in characters (runes), never bytes, so multi-byte text is
// never split inside a character.
package commands

import (
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

const (
	DefaultChunkSize   = 300
	DefaultChunkMinCut = 100
)

// SplitText splits text into ordered chunks of at most size characters.
// A non-positive size or a negative minCut falls back to the default.
func SplitText(text string, size int, minCut int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if minCut < 0 {
		minCut = DefaultChunkMinCut
	}

	chunks := make([]string, 0)
	remaining := []rune(strings.TrimSpace(text))
	for len(remaining) > 0 {
		window := remaining
		if len(window) > size {
			window = window[:size]
		}
		if cut := lastIndexRune(window, '.'); cut > minCut {
			window = window[:cut+1]
		}
		chunks = append(chunks, strings.TrimSpace(string(window)))
		remaining = []rune(strings.TrimSpace(string(remaining[len(window):])))
	}
	return chunks
}

func lastIndexRune(in []rune, r rune) int {
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] == r {
			return i
		}
	}
	return -1
}

// TextChunker splits the synthesis text into model.TextChunk values.
type TextChunker struct {
	cor.BaseCommand
	size   int
	minCut int
}

func NewTextChunker(name string, size int, minCut int) *TextChunker {
	out := &TextChunker{BaseCommand: *cor.NewBaseCommand(name), size: size, minCut: minCut}
	out.InputParamName = ParamSynthesisText
	return out
}

func (c *TextChunker) Execute(context cor.Context) {
	text, _ := context.Get(c.GetInputParam()).(string)
	if strings.TrimSpace(text) == "" {
		c.Fail(context, model.NewError(model.RequestError, "Text is required for TTS.", nil))
		return
	}

	parts := SplitText(text, c.size, c.minCut)
	chunks := make([]*model.TextChunk, len(parts))
	for i, p := range parts {
		chunks[i] = &model.TextChunk{Index: i, Text: p}
	}

	c.Succeed(context)
	context.Add(ParamTextChunks, chunks)
	context.Add(c.GetOutputParam(), chunks)
}

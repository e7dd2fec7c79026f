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

// Package commands_test contains unit tests for the individual pipeline
// commands, run against the fakes in internal/testutil.
package commands_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squash(in string) string {
	return strings.Join(strings.Fields(in), "")
}

// TestSplitTextBounds checks every chunk is non-empty, within budget, and that
// joining the chunks gives back the input modulo whitespace.
func TestSplitTextBounds(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog near the river bank. "
	inputs := []string{
		strings.Repeat(sentence, 20),
		strings.Repeat("a", 1000),
		strings.Repeat("नमस्ते दुनिया. ", 60),
		"Short text.",
	}

	for _, in := range inputs {
		chunks := commands.SplitText(in, 300, 100)
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.NotEmpty(t, c)
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 300)
		}
		assert.Equal(t, squash(in), squash(strings.Join(chunks, "")))
	}
}

func TestSplitTextCutsAfterLastPeriod(t *testing.T) {
	first := strings.Repeat("x", 150) + "."
	second := strings.Repeat("y", 200)
	chunks := commands.SplitText(first+" "+second, 300, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, first, chunks[0])
	assert.Equal(t, second, chunks[1])
}

func TestSplitTextIgnoresEarlyPeriod(t *testing.T) {
	// A period at offset <= 100 does not move the cut.
	in := strings.Repeat("x", 50) + "." + strings.Repeat("y", 400)
	chunks := commands.SplitText(in, 300, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, 300, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, in[300:], chunks[1])
}

func TestSplitTextBlank(t *testing.T) {
	assert.Empty(t, commands.SplitText("   ", 300, 100))
}

func TestTextChunkerRejectsBlankText(t *testing.T) {
	chunker := commands.NewTextChunker("text-chunker", 300, 100)
	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamSynthesisText, "  \n ")

	chunker.Execute(chainCtx)

	require.True(t, chainCtx.HasErrors())
	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.RequestError, e.Kind)
	assert.Equal(t, "Text is required for TTS.", e.Message)
}

func TestTextChunkerIndexesChunks(t *testing.T) {
	chunker := commands.NewTextChunker("text-chunker", 300, 100)
	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamSynthesisText, strings.Repeat("word ", 150))

	chunker.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	chunks := chainCtx.Get(commands.ParamTextChunks).([]*model.TextChunk)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

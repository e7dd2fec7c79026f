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

// Package cor_test exercises the chain, command and context building blocks.
package cor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendCommand appends its suffix to the string input and writes it out.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	err    error
	ran    *[]string
}

func newAppendCommand(name string, suffix string, ran *[]string) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix, ran: ran}
}

func (c *appendCommand) Execute(context cor.Context) {
	*c.ran = append(*c.ran, c.GetName())
	if c.err != nil {
		c.Fail(context, c.err)
		return
	}
	in := context.Get(c.GetInputParam()).(string)
	c.Succeed(context)
	context.Add(c.GetOutputParam(), in+c.suffix)
}

func TestChainPipesOutputToInput(t *testing.T) {
	ran := make([]string, 0)
	chain := cor.NewBaseChain("pipe")
	chain.AddCommand(newAppendCommand("a", "-a", &ran))
	chain.AddCommand(newAppendCommand("b", "-b", &ran))

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(cor.CtxIn, "start")
	chain.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, "start-a-b", chainCtx.Get(cor.CtxIn))
	assert.Nil(t, chainCtx.Get(cor.CtxOut))
	assert.Len(t, chain.Commands(), 2)
}

func TestChainStopsAtFirstFailure(t *testing.T) {
	ran := make([]string, 0)
	failing := newAppendCommand("b", "-b", &ran)
	failing.err = errors.New("boom")

	chain := cor.NewBaseChain("stop")
	chain.AddCommand(newAppendCommand("a", "-a", &ran))
	chain.AddCommand(failing)
	chain.AddCommand(newAppendCommand("c", "-c", &ran))

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(cor.CtxIn, "start")
	chain.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.EqualError(t, chainCtx.FirstError(), "boom")
}

func TestChainRecordsUnexecutableCommand(t *testing.T) {
	ran := make([]string, 0)
	chain := cor.NewBaseChain("missing-input")
	chain.AddCommand(newAppendCommand("a", "-a", &ran))

	chainCtx := cor.NewBaseContext()
	chain.Execute(chainCtx)

	assert.Empty(t, ran)
	require.Contains(t, chainCtx.GetErrors(), "a")
}

func TestFirstErrorKeepsInsertionOrder(t *testing.T) {
	chainCtx := cor.NewBaseContext()
	first := errors.New("first")
	chainCtx.AddError("z", first)
	chainCtx.AddError("a", errors.New("second"))
	chainCtx.AddError("z", errors.New("replaced"))

	assert.EqualError(t, chainCtx.FirstError(), "replaced")
	assert.Len(t, chainCtx.GetErrors(), 2)
}

func TestCloseRemovesTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.wav")
	tracked := filepath.Join(dir, "tracked.wav")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(tracked, []byte("x"), 0o644))

	chainCtx := cor.NewBaseContext()
	chainCtx.AddTempFile(tracked)
	chainCtx.AddTempFile(filepath.Join(dir, "never-created.wav"))
	chainCtx.AddTempFile("")
	assert.Len(t, chainCtx.GetTempFiles(), 2)

	chainCtx.Close()

	assert.NoFileExists(t, tracked)
	assert.FileExists(t, kept)
	assert.Empty(t, chainCtx.GetTempFiles())
}

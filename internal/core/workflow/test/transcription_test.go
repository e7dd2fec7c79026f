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

package workflow_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/workflow"
	test "github.com/jaycherian/voice-catalog-assistant/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptionWorkflow(t *testing.T) {
	traceCtx, span := tracer.Start(ctx, "transcription-test")
	defer span.End()

	cfg := test.ScratchConfig(t)
	transcoder := &test.FakeTranscoder{}
	stt := &test.FakeSpeechToText{Transcript: " find me a blue kurta under 500 "}
	transcription := workflow.NewTranscriptionWorkflow(cfg, transcoder, stt)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(traceCtx)
	chainCtx.Add(commands.ParamUploadHeader, test.FileHeader(t, "file", "voice.webm", test.WavBytes()))

	assert.True(t, transcription.IsExecutable(chainCtx))
	transcription.Execute(chainCtx)

	for k, err := range chainCtx.GetErrors() {
		t.Logf("error (%s): %v", k, err)
	}
	require.False(t, chainCtx.HasErrors())
	assert.Equal(t, "find me a blue kurta under 500", chainCtx.Get(commands.ParamTranscript))
	assert.Equal(t, []string{cfg.Speech.LanguageCode}, stt.Languages)

	files := chainCtx.GetTempFiles()
	require.Len(t, files, 2)
	assert.Equal(t, files[0]+".wav", files[1])
	assert.Equal(t, files[1], stt.Paths[0])
	assert.Equal(t, cfg.Storage.UploadDir, filepath.Dir(files[0]))

	chainCtx.Close()
	for _, f := range files {
		assert.NoFileExists(t, f)
	}
}

func TestTranscriptionWorkflowConversionFailure(t *testing.T) {
	cfg := test.ScratchConfig(t)
	stt := &test.FakeSpeechToText{Transcript: "unused"}
	transcription := workflow.NewTranscriptionWorkflow(cfg, &test.FakeTranscoder{Err: errors.New("invalid data")}, stt)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.ParamUploadHeader, test.FileHeader(t, "file", "voice.mp3", []byte("not really audio")))
	transcription.Execute(chainCtx)
	defer chainCtx.Close()

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.ConversionError, e.Kind)
	assert.Empty(t, stt.Paths)
}

func TestTranscriptionWorkflowMissingUpload(t *testing.T) {
	cfg := test.ScratchConfig(t)
	transcription := workflow.NewTranscriptionWorkflow(cfg, &test.FakeTranscoder{}, &test.FakeSpeechToText{})

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	assert.False(t, transcription.IsExecutable(chainCtx))

	transcription.Execute(chainCtx)
	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.UploadError, e.Kind)
}

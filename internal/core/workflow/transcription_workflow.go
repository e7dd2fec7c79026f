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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements the
// workflow that turns an uploaded recording into text.
package workflow

import (
	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
)

// TranscriptionWorkflow saves the upload, converts it to WAV and sends it to
// the speech-to-text service. The caller puts the multipart file header under
// commands.ParamUploadHeader and reads commands.ParamTranscript afterwards.
// Upload and WAV are tracked on the context and removed by its Close.
type TranscriptionWorkflow struct {
	cor.BaseCommand
	config     *cloud.Config
	transcoder commands.AudioTranscoder
	speech     commands.SpeechToText
	chain      cor.Chain
}

// Execute runs the underlying command chain.
func (t *TranscriptionWorkflow) Execute(context cor.Context) {
	t.chain.Execute(context)
}

func (t *TranscriptionWorkflow) initializeChain() {
	out := cor.NewBaseChain(t.GetName())
	out.AddCommand(commands.NewUploadToTempFile("upload-to-temp-file", t.config.Storage.UploadDir))
	out.AddCommand(commands.NewAudioTranscode("audio-transcode", t.transcoder))
	out.AddCommand(commands.NewSpeechToTextCommand("speech-to-text", t.speech, t.config.Speech.LanguageCode))
	t.chain = out
}

// NewTranscriptionWorkflow builds the workflow.
//
// Inputs:
//   - config: Supplies the upload directory and the language hint.
//   - transcoder: Converts the upload to WAV.
//   - speech: The speech-to-text capability.
func NewTranscriptionWorkflow(config *cloud.Config, transcoder commands.AudioTranscoder, speech commands.SpeechToText) *TranscriptionWorkflow {
	out := &TranscriptionWorkflow{
		BaseCommand: *cor.NewBaseCommand("transcription-workflow"),
		config:      config,
		transcoder:  transcoder,
		speech:      speech,
	}
	out.InputParamName = commands.ParamUploadHeader
	out.initializeChain()
	return out
}

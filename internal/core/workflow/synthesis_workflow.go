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

package workflow

import (
	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
)

// SynthesisWorkflow turns text into a single WAV file: chunk, synthesize each
// chunk in order, then concatenate. The caller puts the text under
// commands.ParamSynthesisText and reads the *model.MergedAudioAsset from
// commands.ParamMergedAudio. Every intermediate and the merged file are
// tracked on the context, so the caller must only Close it once the merged
// file has been sent.
type SynthesisWorkflow struct {
	cor.BaseCommand
	config       *cloud.Config
	speech       commands.TextToSpeech
	concatenator commands.AudioConcatenator
	chain        cor.Chain
}

func (s *SynthesisWorkflow) Execute(context cor.Context) {
	s.chain.Execute(context)
}

func (s *SynthesisWorkflow) initializeChain() {
	out := cor.NewBaseChain(s.GetName())
	out.AddCommand(commands.NewTextChunker("text-chunker", s.config.Synthesis.ChunkSize, s.config.Synthesis.MinCut))
	out.AddCommand(commands.NewSpeechSynthesis("speech-synthesis", s.speech, s.config.Voice, s.config.Storage.AudioDir))
	out.AddCommand(commands.NewAudioConcat("audio-concat", s.concatenator, s.config.Storage.AudioDir))
	s.chain = out
}

func NewSynthesisWorkflow(config *cloud.Config, speech commands.TextToSpeech, concatenator commands.AudioConcatenator) *SynthesisWorkflow {
	out := &SynthesisWorkflow{
		BaseCommand:  *cor.NewBaseCommand("synthesis-workflow"),
		config:       config,
		speech:       speech,
		concatenator: concatenator,
	}
	out.InputParamName = commands.ParamSynthesisText
	out.initializeChain()
	return out
}

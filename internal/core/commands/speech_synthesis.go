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
// ordered synthesis stage.
//
// Logic Flow:
// Chunks are synthesized one at a time in index order. The concat manifest
// built by the next command lists segments in the order they appear in the
// output slice, so this loop must never be parallelised without re-sorting.
//
//  1. For each chunk, call the TextToSpeech capability with the fixed voice.
//  2. An error or an empty payload aborts the whole request with a
//     SynthesisServiceError; segments already written stay tracked for cleanup.
//  3. Write the payload to `chunk_<index>_<unixmillis>_<uuid>.wav` in the audio
//     scratch directory.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SpeechSynthesis turns ordered text chunks into ordered audio segments.
type SpeechSynthesis struct {
	cor.BaseCommand
	client   TextToSpeech
	voice    model.VoiceParams
	audioDir string
}

// NewSpeechSynthesis creates the command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - client: The synthesis capability.
//   - voice: Voice parameters sent with every chunk.
//   - audioDir: Scratch directory for segment files. Created if missing.
func NewSpeechSynthesis(name string, client TextToSpeech, voice model.VoiceParams, audioDir string) *SpeechSynthesis {
	out := &SpeechSynthesis{BaseCommand: *cor.NewBaseCommand(name), client: client, voice: voice, audioDir: audioDir}
	out.InputParamName = ParamTextChunks
	return out
}

func (c *SpeechSynthesis) Execute(context cor.Context) {
	chunks := context.Get(c.GetInputParam()).([]*model.TextChunk)

	if err := os.MkdirAll(c.audioDir, 0o755); err != nil {
		c.Fail(context, model.NewError(model.SynthesisServiceError, "TTS failed to process long input.", err))
		return
	}

	segments := make([]*model.SynthesizedAudioSegment, 0, len(chunks))
	for _, chunk := range chunks {
		ctx, span := c.Tracer.Start(context.GetContext(), fmt.Sprintf("%s_chunk", c.GetName()),
			trace.WithAttributes(attribute.Int("chunk.index", chunk.Index), attribute.Int("chunk.length", len(chunk.Text))))

		audio, err := c.client.Synthesize(ctx, chunk.Text, c.voice)
		if err == nil && len(audio) == 0 {
			err = fmt.Errorf("no audio returned for chunk %d", chunk.Index)
		}
		if err != nil {
			span.RecordError(err)
			span.End()
			c.Fail(context, model.NewError(model.SynthesisServiceError, "TTS failed to process long input.", err))
			return
		}

		path, err := filepath.Abs(filepath.Join(c.audioDir, ScratchFileName(fmt.Sprintf("chunk_%d", chunk.Index), ".wav")))
		if err == nil {
			context.AddTempFile(path)
			err = os.WriteFile(path, audio, 0o644)
		}
		span.End()
		if err != nil {
			c.Fail(context, model.NewError(model.SynthesisServiceError, "TTS failed to process long input.", err))
			return
		}
		segments = append(segments, &model.SynthesizedAudioSegment{Index: chunk.Index, Path: path})
	}

	slog.DebugContext(context.GetContext(), "synthesized segments", "count", len(segments))
	c.Succeed(context)
	context.Add(ParamAudioSegments, segments)
	context.Add(c.GetOutputParam(), segments)
}

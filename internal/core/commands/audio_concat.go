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
	"os"
	"path/filepath"
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// BuildConcatManifest renders the concat demuxer listing for segments, one
// `file '<path>'` line per segment in slice order.
func BuildConcatManifest(segments []*model.SynthesizedAudioSegment) string {
	var sb strings.Builder
	for i, s := range segments {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(s.Path, "'", `'\''`))
		sb.WriteString("'")
	}
	return sb.String()
}

// AudioConcat writes the concat manifest and joins the segments into one file.
type AudioConcat struct {
	cor.BaseCommand
	concatenator AudioConcatenator
	audioDir     string
}

func NewAudioConcat(name string, concatenator AudioConcatenator, audioDir string) *AudioConcat {
	out := &AudioConcat{BaseCommand: *cor.NewBaseCommand(name), concatenator: concatenator, audioDir: audioDir}
	out.InputParamName = ParamAudioSegments
	return out
}

func (c *AudioConcat) Execute(context cor.Context) {
	segments := context.Get(c.GetInputParam()).([]*model.SynthesizedAudioSegment)
	if len(segments) == 0 {
		c.Fail(context, model.NewError(model.ConcatError, "TTS failed to process long input.", fmt.Errorf("no segments to concatenate")))
		return
	}

	manifest := filepath.Join(c.audioDir, ScratchFileName("list", ".txt"))
	context.AddTempFile(manifest)
	if err := os.WriteFile(manifest, []byte(BuildConcatManifest(segments)), 0o644); err != nil {
		c.Fail(context, model.NewError(model.ConcatError, "TTS failed to process long input.", err))
		return
	}

	merged := filepath.Join(c.audioDir, ScratchFileName("merged", ".wav"))
	context.AddTempFile(merged)
	if err := c.concatenator.Concat(context.GetContext(), manifest, merged); err != nil {
		c.Fail(context, model.NewError(model.ConcatError, "TTS failed to process long input.", err))
		return
	}

	asset := &model.MergedAudioAsset{Path: merged, ManifestPath: manifest, Segments: segments}
	c.Succeed(context)
	context.Add(ParamMergedAudio, asset)
	context.Add(c.GetOutputParam(), asset)
}

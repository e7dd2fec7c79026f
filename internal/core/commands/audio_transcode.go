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
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// AudioTranscode converts the uploaded asset into a WAV file next to it.
type AudioTranscode struct {
	cor.BaseCommand
	transcoder AudioTranscoder
}

func NewAudioTranscode(name string, transcoder AudioTranscoder) *AudioTranscode {
	out := &AudioTranscode{BaseCommand: *cor.NewBaseCommand(name), transcoder: transcoder}
	out.InputParamName = ParamUploadedAudio
	return out
}

func (c *AudioTranscode) Execute(context cor.Context) {
	asset := context.Get(c.GetInputParam()).(*model.UploadedAudioAsset)
	out := asset.Path + ".wav"

	// Tracked before the run so a partially written file is also removed.
	context.AddTempFile(out)
	if err := c.transcoder.Transcode(context.GetContext(), asset.Path, out); err != nil {
		c.Fail(context, model.NewError(model.ConversionError, "Audio conversion failed", err))
		return
	}

	c.Succeed(context)
	context.Add(ParamWavPath, out)
	context.Add(c.GetOutputParam(), out)
}

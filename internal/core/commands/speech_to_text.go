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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// SpeechToTextCommand sends the WAV file to the recognition service with a
// fixed language hint.
type SpeechToTextCommand struct {
	cor.BaseCommand
	client       SpeechToText
	languageCode string
}

func NewSpeechToTextCommand(name string, client SpeechToText, languageCode string) *SpeechToTextCommand {
	out := &SpeechToTextCommand{BaseCommand: *cor.NewBaseCommand(name), client: client, languageCode: languageCode}
	out.InputParamName = ParamWavPath
	return out
}

func (c *SpeechToTextCommand) Execute(context cor.Context) {
	wavPath := context.Get(c.GetInputParam()).(string)

	transcript, err := c.client.Transcribe(context.GetContext(), wavPath, c.languageCode)
	if err != nil {
		e := model.NewError(model.TranscriptionServiceError, "STT failed", err)
		var upstream *model.UpstreamError
		if errors.As(err, &upstream) {
			e.WithDetail(fmt.Sprintf("status %d: %s", upstream.Status, upstream.Body))
		}
		c.Fail(context, e)
		return
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		slog.WarnContext(context.GetContext(), "speech service returned no transcript", "file", wavPath)
		transcript = TranscriptPlaceholder
	}

	c.Succeed(context)
	context.Add(ParamTranscript, transcript)
	context.Add(c.GetOutputParam(), transcript)
}

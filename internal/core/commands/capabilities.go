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
// Responsibility (COR) pattern's Command interface. This file declares the
// narrow capabilities the commands depend on. Each external collaborator
// (media utility, speech service, language model, catalog store) is reached
// only through one of these interfaces, so every chain can run against fakes.
package commands

import (
	"context"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// AudioTranscoder converts an audio file of any supported container into a
// canonical WAV file.
type AudioTranscoder interface {
	Transcode(ctx context.Context, inputPath string, outputPath string) error
}

// AudioConcatenator joins the files listed in a concat manifest, in order and
// without re-encoding, into outputPath.
type AudioConcatenator interface {
	Concat(ctx context.Context, manifestPath string, outputPath string) error
}

// SpeechToText returns the transcript of a WAV file. An empty transcript with
// a nil error means the service recognised nothing.
type SpeechToText interface {
	Transcribe(ctx context.Context, wavPath string, languageCode string) (string, error)
}

// TextToSpeech returns the decoded audio for text. An empty payload with a nil
// error means the service produced no audio.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, voice model.VoiceParams) ([]byte, error)
}

// ReplyFormat tells a LanguageClassifier what shape of answer is expected.
type ReplyFormat int

const (
	ReplyText ReplyFormat = iota
	ReplyJSON
)

// LanguageClassifier sends one prompt to a language model and returns its
// single textual reply.
type LanguageClassifier interface {
	Classify(ctx context.Context, prompt string, format ReplyFormat) (string, error)
}

// CatalogStore is the read side of the product catalog.
type CatalogStore interface {
	// PageColumn returns the non-null values of column ordered by row id,
	// skipping offset rows and returning at most limit values. An empty slice
	// marks the end of the table.
	PageColumn(ctx context.Context, table string, column string, offset int, limit int) ([]string, error)
	// Search returns every row of table matching all predicates.
	Search(ctx context.Context, table string, predicates []model.Predicate) ([]*model.CatalogRow, error)
}

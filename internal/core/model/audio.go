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

// Package model holds the request-scoped data types passed between pipeline
// commands. None of them outlive the HTTP request that created them.
package model

// UploadedAudioAsset is an audio file received from a client and saved to the
// upload scratch directory.
type UploadedAudioAsset struct {
	Path     string // Absolute path of the saved upload.
	Format   string // Container extension, without the dot (e.g. "webm").
	MIMEType string
}

// TextChunk is one ordered slice of the text handed to synthesis.
type TextChunk struct {
	Index int
	Text  string
}

// SynthesizedAudioSegment is the audio produced for the TextChunk of the same
// index.
type SynthesizedAudioSegment struct {
	Index int
	Path  string
}

// MergedAudioAsset is the final audio assembled from the segments.
type MergedAudioAsset struct {
	Path         string
	ManifestPath string
	Segments     []*SynthesizedAudioSegment
}

// VoiceParams are the fixed voice settings sent with every synthesis call.
type VoiceParams struct {
	Model          string  `toml:"model"`
	Speaker        string  `toml:"speaker"`
	TargetLanguage string  `toml:"target_language"`
	Pace           float64 `toml:"pace"`
}

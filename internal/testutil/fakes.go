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

package test

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// FakeTranscoder writes a fixed WAV payload to the output path.
type FakeTranscoder struct {
	Err    error
	Inputs []string
}

func (f *FakeTranscoder) Transcode(_ context.Context, inputPath string, outputPath string) error {
	f.Inputs = append(f.Inputs, inputPath)
	if f.Err != nil {
		return f.Err
	}
	return os.WriteFile(outputPath, WavBytes(), 0o644)
}

// FakeConcatenator records the manifest it was given and writes the
// concatenated segment payloads to the output path.
type FakeConcatenator struct {
	Err      error
	Manifest string
}

func (f *FakeConcatenator) Concat(_ context.Context, manifestPath string, outputPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return err
	}
	f.Manifest = string(data)
	if f.Err != nil {
		return f.Err
	}

	var merged []byte
	for _, line := range strings.Split(f.Manifest, "\n") {
		path := strings.TrimSuffix(strings.TrimPrefix(line, "file '"), "'")
		segment, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		merged = append(merged, segment...)
	}
	return os.WriteFile(outputPath, merged, 0o644)
}

// FakeSpeechToText returns Transcript or Err.
type FakeSpeechToText struct {
	Transcript string
	Err        error
	Languages  []string
	Paths      []string
}

func (f *FakeSpeechToText) Transcribe(_ context.Context, wavPath string, languageCode string) (string, error) {
	f.Paths = append(f.Paths, wavPath)
	f.Languages = append(f.Languages, languageCode)
	return f.Transcript, f.Err
}

// FakeTextToSpeech returns "<text>|" as audio for every chunk so the merged
// output shows the order the chunks were synthesized in. EmptyAt makes the
// call with that index return no audio.
type FakeTextToSpeech struct {
	mu      sync.Mutex
	Err     error
	EmptyAt int
	Texts   []string
	Voices  []model.VoiceParams
}

// NewFakeTextToSpeech returns a fake that always answers with audio.
func NewFakeTextToSpeech() *FakeTextToSpeech {
	return &FakeTextToSpeech{EmptyAt: -1}
}

func (f *FakeTextToSpeech) Synthesize(_ context.Context, text string, voice model.VoiceParams) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := len(f.Texts)
	f.Texts = append(f.Texts, text)
	f.Voices = append(f.Voices, voice)
	if f.Err != nil {
		return nil, f.Err
	}
	if index == f.EmptyAt {
		return nil, nil
	}
	return []byte(text + "|"), nil
}

// Calls returns the number of Synthesize calls so far.
func (f *FakeTextToSpeech) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Texts)
}

// FakeClassifier answers with the next reply in Replies, or with the result
// of Reply when it is set.
type FakeClassifier struct {
	mu      sync.Mutex
	Replies []string
	Reply   func(prompt string, format commands.ReplyFormat) (string, error)
	Err     error
	Prompts []string
	Formats []commands.ReplyFormat
}

func (f *FakeClassifier) Classify(_ context.Context, prompt string, format commands.ReplyFormat) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	f.Formats = append(f.Formats, format)
	if f.Err != nil {
		return "", f.Err
	}
	if f.Reply != nil {
		return f.Reply(prompt, format)
	}
	if len(f.Replies) == 0 {
		return "", nil
	}
	reply := f.Replies[0]
	f.Replies = f.Replies[1:]
	return reply, nil
}

// FakeCatalogStore serves pre-built pages and search rows. When PageErrAt is
// non-negative, the page request with that index fails with PageErr.
type FakeCatalogStore struct {
	Pages      [][]string
	PageErrAt  int
	PageErr    error
	Rows       []*model.CatalogRow
	SearchErr  error
	Offsets    []int
	Predicates []model.Predicate
	Table      string
}

// NewFakeCatalogStore returns a store serving pages and rows.
func NewFakeCatalogStore(pages [][]string, rows []*model.CatalogRow) *FakeCatalogStore {
	return &FakeCatalogStore{Pages: pages, Rows: rows, PageErrAt: -1}
}

func (f *FakeCatalogStore) PageColumn(_ context.Context, table string, _ string, offset int, _ int) ([]string, error) {
	f.Table = table
	index := len(f.Offsets)
	f.Offsets = append(f.Offsets, offset)
	if index == f.PageErrAt {
		return nil, f.PageErr
	}
	if index >= len(f.Pages) {
		return []string{}, nil
	}
	return f.Pages[index], nil
}

func (f *FakeCatalogStore) Search(_ context.Context, table string, predicates []model.Predicate) ([]*model.CatalogRow, error) {
	f.Table = table
	f.Predicates = predicates
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	out := make([]*model.CatalogRow, 0)
	for _, r := range f.Rows {
		matched := true
		for _, p := range predicates {
			if !p.Matches(r) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, r)
		}
	}
	return out, nil
}

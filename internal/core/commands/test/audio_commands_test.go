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

package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	test "github.com/jaycherian/voice-catalog-assistant/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchFileName(t *testing.T) {
	pattern := regexp.MustCompile(`^chunk_3_\d+_[0-9a-f-]{36}\.wav$`)
	a := commands.ScratchFileName("chunk_3", ".wav")
	b := commands.ScratchFileName("chunk_3", ".wav")
	assert.Regexp(t, pattern, a)
	assert.NotEqual(t, a, b)
}

func TestUploadToTempFileSniffsWav(t *testing.T) {
	dir := t.TempDir()
	upload := commands.NewUploadToTempFile("upload-to-temp-file", dir)

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamUploadHeader, test.FileHeader(t, "file", "recording.webm", test.WavBytes()))
	upload.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	asset := chainCtx.Get(commands.ParamUploadedAudio).(*model.UploadedAudioAsset)
	assert.Equal(t, "wav", asset.Format)
	assert.Equal(t, dir, filepath.Dir(asset.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(asset.Path), "upload_"))
	assert.FileExists(t, asset.Path)
	assert.Equal(t, []string{asset.Path}, chainCtx.GetTempFiles())

	chainCtx.Close()
	assert.NoFileExists(t, asset.Path)
}

func TestUploadToTempFileMissing(t *testing.T) {
	upload := commands.NewUploadToTempFile("upload-to-temp-file", t.TempDir())
	chainCtx := cor.NewBaseContext()

	assert.True(t, upload.IsExecutable(chainCtx))
	upload.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.UploadError, e.Kind)
	assert.Equal(t, 400, e.Kind.HTTPStatus())
}

func TestAudioTranscodeFailure(t *testing.T) {
	transcoder := &test.FakeTranscoder{Err: errors.New("ffmpeg exited with status 1")}
	transcode := commands.NewAudioTranscode("audio-transcode", transcoder)

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamUploadedAudio, &model.UploadedAudioAsset{Path: filepath.Join(t.TempDir(), "upload_1.webm")})
	transcode.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.ConversionError, e.Kind)
	assert.Equal(t, "Audio conversion failed", e.Message)
	assert.Len(t, chainCtx.GetTempFiles(), 1)
}

func TestSpeechToTextPlaceholder(t *testing.T) {
	stt := &test.FakeSpeechToText{Transcript: "   "}
	command := commands.NewSpeechToTextCommand("speech-to-text", stt, "en-IN")

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamWavPath, "/tmp/converted.wav")
	command.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	assert.Equal(t, commands.TranscriptPlaceholder, chainCtx.Get(commands.ParamTranscript))
	assert.Equal(t, []string{"en-IN"}, stt.Languages)
}

func TestSpeechToTextUpstreamDetail(t *testing.T) {
	stt := &test.FakeSpeechToText{Err: &model.UpstreamError{Service: "speech-to-text", Status: 403, Body: `{"error":"invalid key"}`}}
	command := commands.NewSpeechToTextCommand("speech-to-text", stt, "en-IN")

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamWavPath, "/tmp/converted.wav")
	command.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.TranscriptionServiceError, e.Kind)
	assert.Equal(t, "STT failed", e.Message)
	assert.Equal(t, `status 403: {"error":"invalid key"}`, e.Detail)
}

func chunks(texts ...string) []*model.TextChunk {
	out := make([]*model.TextChunk, len(texts))
	for i, text := range texts {
		out[i] = &model.TextChunk{Index: i, Text: text}
	}
	return out
}

func TestSpeechSynthesisKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	tts := test.NewFakeTextToSpeech()
	voice := model.VoiceParams{Model: "bulbul:v2", Speaker: "vidya", TargetLanguage: "en-IN", Pace: 0.7}
	synthesis := commands.NewSpeechSynthesis("speech-synthesis", tts, voice, dir)

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamTextChunks, chunks("one", "two", "three"))
	synthesis.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	assert.Equal(t, []string{"one", "two", "three"}, tts.Texts)
	assert.Equal(t, voice, tts.Voices[0])

	segments := chainCtx.Get(commands.ParamAudioSegments).([]*model.SynthesizedAudioSegment)
	require.Len(t, segments, 3)
	for i, s := range segments {
		assert.Equal(t, i, s.Index)
		assert.True(t, filepath.IsAbs(s.Path))
		assert.True(t, strings.HasPrefix(filepath.Base(s.Path), "chunk_"))
	}
	data, err := os.ReadFile(segments[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "two|", string(data))
	assert.Len(t, chainCtx.GetTempFiles(), 3)
}

func TestSpeechSynthesisEmptyAudioAborts(t *testing.T) {
	tts := test.NewFakeTextToSpeech()
	tts.EmptyAt = 1
	synthesis := commands.NewSpeechSynthesis("speech-synthesis", tts, model.VoiceParams{}, t.TempDir())

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamTextChunks, chunks("one", "two", "three"))
	synthesis.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.SynthesisServiceError, e.Kind)
	assert.Equal(t, 2, tts.Calls())
	assert.Nil(t, chainCtx.Get(commands.ParamAudioSegments))
}

func TestBuildConcatManifest(t *testing.T) {
	manifest := commands.BuildConcatManifest([]*model.SynthesizedAudioSegment{
		{Index: 0, Path: "/a/chunk_0.wav"},
		{Index: 1, Path: "/a/it's/chunk_1.wav"},
	})
	assert.Equal(t, "file '/a/chunk_0.wav'\nfile '/a/it'\\''s/chunk_1.wav'", manifest)
}

func TestAudioConcat(t *testing.T) {
	dir := t.TempDir()
	paths := make([]*model.SynthesizedAudioSegment, 0)
	for i, payload := range []string{"a|", "b|"} {
		p := filepath.Join(dir, commands.ScratchFileName("chunk", ".wav"))
		require.NoError(t, os.WriteFile(p, []byte(payload), 0o644))
		paths = append(paths, &model.SynthesizedAudioSegment{Index: i, Path: p})
	}
	concatenator := &test.FakeConcatenator{}
	concat := commands.NewAudioConcat("audio-concat", concatenator, dir)

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamAudioSegments, paths)
	concat.Execute(chainCtx)

	require.False(t, chainCtx.HasErrors())
	merged := chainCtx.Get(commands.ParamMergedAudio).(*model.MergedAudioAsset)
	data, err := os.ReadFile(merged.Path)
	require.NoError(t, err)
	assert.Equal(t, "a|b|", string(data))
	assert.Equal(t, commands.BuildConcatManifest(paths), concatenator.Manifest)
	assert.ElementsMatch(t, []string{merged.Path, merged.ManifestPath}, chainCtx.GetTempFiles())
}

func TestAudioConcatFailure(t *testing.T) {
	dir := t.TempDir()
	concat := commands.NewAudioConcat("audio-concat", &test.FakeConcatenator{Err: errors.New("ffmpeg failed")}, dir)

	segment := filepath.Join(dir, "chunk_0.wav")
	require.NoError(t, os.WriteFile(segment, []byte("a"), 0o644))

	chainCtx := cor.NewBaseContext()
	chainCtx.Add(commands.ParamAudioSegments, []*model.SynthesizedAudioSegment{{Index: 0, Path: segment}})
	concat.Execute(chainCtx)

	e := model.AsError(chainCtx.FirstError())
	assert.Equal(t, model.ConcatError, e.Kind)
}

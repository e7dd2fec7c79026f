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

// Package services holds the adapters between the pipeline capabilities and
// the outside world. This file wraps the ffmpeg command line tool.
//
// Logic Flow:
// Both operations run ffmpeg as a child process bound to the request context,
// so a cancelled request kills the process. Standard error is captured and its
// tail is attached to the returned error for diagnostics.
//
//   - Transcode: `ffmpeg -y -hide_banner -i <in> -f wav <out>`
//   - Concat:    `ffmpeg -y -hide_banner -f concat -safe 0 -i <list> -c copy <out>`
package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const (
	DefaultFfmpegCommand = "ffmpeg"
	maxStderrTail        = 2048
)

// FFmpeg implements AudioTranscoder and AudioConcatenator.
type FFmpeg struct {
	commandPath string
}

// NewFFmpeg returns a wrapper around the binary at commandPath, or the ffmpeg
// found on PATH when commandPath is blank.
func NewFFmpeg(commandPath string) *FFmpeg {
	if strings.TrimSpace(commandPath) == "" {
		commandPath = DefaultFfmpegCommand
	}
	return &FFmpeg{commandPath: commandPath}
}

// TranscodeArgs returns the argument list used to convert in to WAV.
func TranscodeArgs(in string, out string) []string {
	return []string{"-y", "-hide_banner", "-i", in, "-f", "wav", out}
}

// ConcatArgs returns the argument list used to join the files listed in
// manifest without re-encoding.
func ConcatArgs(manifest string, out string) []string {
	return []string{"-y", "-hide_banner", "-f", "concat", "-safe", "0", "-i", manifest, "-c", "copy", out}
}

func (f *FFmpeg) Transcode(ctx context.Context, inputPath string, outputPath string) error {
	return f.run(ctx, TranscodeArgs(inputPath, outputPath))
}

func (f *FFmpeg) Concat(ctx context.Context, manifestPath string, outputPath string) error {
	return f.run(ctx, ConcatArgs(manifestPath, outputPath))
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.commandPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > maxStderrTail {
			tail = tail[len(tail)-maxStderrTail:]
		}
		return fmt.Errorf("error running ffmpeg: %w: %s", err, strings.TrimSpace(tail))
	}
	return nil
}

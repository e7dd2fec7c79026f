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
// command that saves an uploaded audio file to local scratch storage.
//
// Logic Flow:
//
//  1. Read the multipart file header placed in the context by the HTTP handler.
//  2. Create a uniquely named file in the upload scratch directory and copy the
//     upload into it. The file is tracked on the context straight away so it is
//     removed even if a later step fails.
//  3. Sniff the container format from the file's magic bytes, falling back to
//     the client supplied extension when the content is not recognised.
//  4. Put the resulting `model.UploadedAudioAsset` into the context.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// ScratchFileName returns "<prefix>_<unixmillis>_<uuid><ext>". The uuid keeps
// names unique across concurrent requests landing in the same millisecond.
func ScratchFileName(prefix string, ext string) string {
	return fmt.Sprintf("%s_%d_%s%s", prefix, time.Now().UnixMilli(), uuid.NewString(), ext)
}

// UploadToTempFile persists a multipart upload into the upload scratch directory.
type UploadToTempFile struct {
	cor.BaseCommand
	uploadDir string
}

// NewUploadToTempFile creates the command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - uploadDir: Directory receiving the saved uploads. Created if missing.
func NewUploadToTempFile(name string, uploadDir string) *UploadToTempFile {
	out := &UploadToTempFile{BaseCommand: *cor.NewBaseCommand(name), uploadDir: uploadDir}
	out.InputParamName = ParamUploadHeader
	return out
}

// IsExecutable only needs a live context. A missing upload is reported by
// Execute as an UploadError.
func (c *UploadToTempFile) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

func (c *UploadToTempFile) Execute(context cor.Context) {
	header, ok := context.Get(c.GetInputParam()).(*multipart.FileHeader)
	if !ok || header == nil {
		c.Fail(context, model.NewError(model.UploadError, "No audio file uploaded", nil))
		return
	}

	src, err := header.Open()
	if err != nil {
		c.Fail(context, model.NewError(model.UploadError, "Unreadable upload", err))
		return
	}
	defer src.Close()

	if err := os.MkdirAll(c.uploadDir, 0o755); err != nil {
		c.Fail(context, model.NewError(model.UploadError, "Upload storage unavailable", err))
		return
	}

	clientExt := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(c.uploadDir, ScratchFileName("upload", clientExt))
	dst, err := os.Create(path)
	if err != nil {
		c.Fail(context, model.NewError(model.UploadError, "Upload storage unavailable", err))
		return
	}
	context.AddTempFile(path)

	written, err := io.Copy(dst, src)
	_ = dst.Close()
	if err != nil {
		c.Fail(context, model.NewError(model.UploadError, "Failed to save upload", err))
		return
	}

	asset := &model.UploadedAudioAsset{Path: path, Format: strings.TrimPrefix(clientExt, ".")}
	if kind, err := filetype.MatchFile(path); err == nil && kind != filetype.Unknown {
		asset.Format = kind.Extension
		asset.MIMEType = kind.MIME.Value
	} else if ct := header.Header.Get("Content-Type"); ct != "" {
		asset.MIMEType = ct
	}

	slog.DebugContext(context.GetContext(), "saved upload", "path", path, "bytes", written, "format", asset.Format)
	c.Succeed(context)
	context.Add(ParamUploadedAudio, asset)
	context.Add(c.GetOutputParam(), asset)
}

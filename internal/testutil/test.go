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

// Package test provides the helpers shared by the test suites: loading the
// test configuration and building multipart uploads.
package test

import (
	"bytes"
	"errors"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
)

// StateManager caches the test configuration for the whole test binary.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ModuleRoot walks up from the working directory until it finds go.mod.
// Tests run from their package directory, so relative config paths need an
// anchor.
func ModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

// ConfigDir returns the absolute path of the configs directory.
func ConfigDir() string {
	root, err := ModuleRoot()
	if err != nil {
		log.Fatalf("failed to locate module root: %v\n", err)
	}
	return filepath.Join(root, "configs")
}

// SetupOS points the configuration loader at configs/.env.toml with the
// configs/.env.test.toml override.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, ConfigDir())
	if err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig loads the test configuration once and returns the cached copy.
// A relative catalog seed file is resolved against the configs directory.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		if seed := config.Catalog.SeedFile; seed != "" && !filepath.IsAbs(seed) {
			config.Catalog.SeedFile = filepath.Join(ConfigDir(), seed)
		}
		state.config = config
	}
	return state.config
}

// ScratchConfig returns a copy of the test configuration whose scratch
// directories live under a per-test temporary directory.
func ScratchConfig(t *testing.T) *cloud.Config {
	t.Helper()
	out := *GetConfig()
	dir := t.TempDir()
	out.Storage.UploadDir = filepath.Join(dir, "uploads")
	out.Storage.AudioDir = filepath.Join(dir, "audios")
	return &out
}

// FileHeader builds the *multipart.FileHeader a handler gets for a form file
// called field with the given name and content.
func FileHeader(t *testing.T, field string, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

// WavBytes returns a minimal RIFF/WAVE header, enough for content sniffing.
func WavBytes() []byte {
	return []byte{
		'R', 'I', 'F', 'F', 0x24, 0x00, 0x00, 0x00, 'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
		0x80, 0x3e, 0x00, 0x00, 0x00, 0x7d, 0x00, 0x00, 0x02, 0x00, 0x10, 0x00,
		'd', 'a', 't', 'a', 0x00, 0x00, 0x00, 0x00,
	}
}

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

// Package cloud provides components for interacting with external services.
// This file contains general-purpose utility functions that support the cloud package.
//
// Functions:
//   - LoadConfig: Implements a hierarchical configuration loader. It first reads a base
//     configuration file and then overwrites values with a second, environment-specific
//     file (e.g., .env.local.toml, .env.test.toml). The environment is determined by
//     an environment variable.
//   - LoadSecrets: Populates the process environment from an optional dotenv file.
//   - Secret: Reads a required secret from the environment.
//   - GenerateText: Calls a rate limited Gemini model once and returns the
//     text of its first candidate, recording token usage.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig decodes the base configuration file and then the runtime
// specific override into baseConfig. Missing files are skipped; a file that
// exists but does not decode is an error.
func LoadConfig(baseConfig interface{}) error {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	slog.Debug("configuration files", "base", baseConfigFileName, "runtime", envConfigFileName)

	for _, fileName := range []string{baseConfigFileName, envConfigFileName} {
		if !fileExists(fileName) {
			continue
		}
		if _, err := toml.DecodeFile(fileName, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", fileName, err)
		}
	}
	return nil
}

// LoadSecrets loads fileName into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadSecrets(fileName string) error {
	if fileName == "" || !fileExists(fileName) {
		return nil
	}
	return godotenv.Load(fileName)
}

// Secret returns the value of the environment variable name, failing when it
// is unset or blank.
func Secret(name string) (string, error) {
	if name == "" {
		return "", errors.New("no secret name configured")
	}
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return "", fmt.Errorf("%s not set", name)
	}
	return v, nil
}

// GenerateText sends content to the model once and returns the text of the
// first candidate. There is no retry; a failure is returned as is.
func GenerateText(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content,
	responseMIMEType string) (string, error) {

	resp, err := model.GenerateContent(ctx, content, responseMIMEType)
	if err != nil {
		return "", err
	}
	if resp.UsageMetadata != nil {
		if inputTokenCounter != nil {
			inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		}
		if outputTokenCounter != nil {
			outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
		}
	}

	return CandidateText(resp)
}

// CandidateText returns the text of the first candidate, joining its parts.
// Further candidates are ignored so the reply is a single choice.
func CandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("model returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// NewTextPart wraps a single user prompt.
func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}

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

// Package main contains the setup and initialization logic for the
// application's state: configuration, secrets, service clients, the adapters
// behind each capability and the workflows the HTTP handlers run.
//
// Functions:
//   - SetupOS: Points the configuration loader at the configs directory.
//   - GetConfig: Loads the configuration once and caches it.
//   - InitState: Creates the clients and adapters and wires the workflows.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jaycherian/voice-catalog-assistant/internal/api"
	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/services"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/workflow"
)

// StateManager holds the shared, read-only dependencies of the server.
type StateManager struct {
	config   *cloud.Config
	cloud    *cloud.ServiceClients
	tables   *model.TableRegistry
	handlers *api.Handlers
}

var state = &StateManager{}

// SetupOS sets the configuration directory and runtime unless the
// environment already provides them.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the configuration on first use and returns the cached copy
// afterwards.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load configuration: %v\n", err)
		}
		if err := cloud.LoadSecrets(config.Application.DotEnvFile); err != nil {
			log.Fatalf("failed to load secrets: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// newCatalogStore picks the CatalogStore for the configured backend.
func newCatalogStore(config *cloud.Config, clients *cloud.ServiceClients) (commands.CatalogStore, error) {
	switch config.Catalog.Backend {
	case cloud.CatalogPostgres:
		return services.NewPostgresCatalog(clients.DB), nil
	case cloud.CatalogBigQuery:
		return services.NewBigQueryCatalog(clients.BiqQueryClient, config.Catalog.Dataset), nil
	case cloud.CatalogMemory:
		if config.Catalog.SeedFile == "" {
			return services.NewMemoryCatalog(nil), nil
		}
		return services.LoadMemoryCatalog(config.Catalog.SeedFile)
	}
	return nil, fmt.Errorf("unknown catalog backend %q", config.Catalog.Backend)
}

// InitState builds every client, adapter and workflow.
//
// Inputs:
//   - ctx: The root context, used while creating clients.
//
// Outputs:
//   - error: Set when a client, secret or adapter cannot be created.
func InitState(ctx context.Context) error {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	state.cloud = cloudClients

	for _, dir := range []string{config.Storage.UploadDir, config.Storage.AudioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
		}
	}

	speechKey, err := cloud.Secret(config.Speech.APIKeyEnv)
	if err != nil {
		return err
	}
	stt := services.NewSarvamSTT(config.Speech.STTEndpoint, speechKey, config.Speech.Timeout())
	tts := services.NewSarvamTTS(config.Speech.TTSEndpoint, speechKey, config.Speech.Timeout())
	ffmpeg := services.NewFFmpeg(config.Media.FFmpegPath)

	router, err := services.NewClassifier(config.RoutingAgentName(), cloudClients)
	if err != nil {
		return err
	}
	extractor, err := services.NewClassifier(config.Extraction.Agent, cloudClients)
	if err != nil {
		return err
	}

	store, err := newCatalogStore(config, cloudClients)
	if err != nil {
		return err
	}

	state.tables = config.TableRegistry()
	state.handlers = &api.Handlers{
		Transcription:   workflow.NewTranscriptionWorkflow(config, ffmpeg, stt),
		Synthesis:       workflow.NewSynthesisWorkflow(config, tts, ffmpeg),
		QueryResolution: workflow.NewQueryResolutionWorkflow(config, state.tables, router, extractor, store),
		ProductSearch:   workflow.NewProductSearchWorkflow(state.tables, store),
	}
	return nil
}

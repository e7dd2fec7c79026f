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
// This file defines `ServiceClients`, the set of long lived clients shared by
// every request.
//
// Only the clients the configuration actually needs are created: a Gemini
// client when some agent uses the vertex provider, a BigQuery client for the
// bigquery catalog backend, and a Postgres pool for the postgres backend.
package cloud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	_ "github.com/lib/pq"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ServiceClients holds the shared clients and the configured agent models.
type ServiceClients struct {
	GenAIClient    *genai.Client
	BiqQueryClient *bigquery.Client
	DB             *sql.DB
	AgentModels    map[string]*QuotaAwareGenerativeAIModel // Vertex agents keyed by config name.
	ChatModels     map[string]*QuotaAwareChatModel         // OpenAI compatible agents keyed by config name.
}

// Close releases every client that was opened.
func (c *ServiceClients) Close() {
	if c.BiqQueryClient != nil {
		_ = c.BiqQueryClient.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

// NewCloudServiceClients creates the clients required by config. Secrets are
// read from the environment, so LoadSecrets must run first.
func NewCloudServiceClients(ctx context.Context, config *Config) (_ *ServiceClients, err error) {
	cloud := &ServiceClients{
		AgentModels: make(map[string]*QuotaAwareGenerativeAIModel),
		ChatModels:  make(map[string]*QuotaAwareChatModel),
	}
	defer func() {
		if err != nil {
			cloud.Close()
		}
	}()

	for name, values := range config.AgentModels {
		switch values.Provider {
		case ProviderVertex:
			if cloud.GenAIClient == nil {
				cloud.GenAIClient, err = genai.NewClient(ctx, &genai.ClientConfig{
					Project:  config.Application.GoogleProjectId,
					Location: config.Application.GoogleLocation,
					Backend:  genai.BackendVertexAI,
				})
				if err != nil {
					return nil, fmt.Errorf("error creating genai client: %w", err)
				}
			}
			modelConfig := &genai.GenerateContentConfig{
				Temperature:    genai.Ptr[float32](values.Temperature),
				SafetySettings: DefaultSafetySettings,
			}
			if values.TopP > 0 {
				modelConfig.TopP = genai.Ptr[float32](values.TopP)
			}
			if values.MaxTokens > 0 {
				modelConfig.MaxOutputTokens = values.MaxTokens
			}
			if values.SystemInstructions != "" {
				modelConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
			}
			cloud.AgentModels[name] = NewQuotaAwareModel(modelConfig, values.Model, cloud.GenAIClient.Models, values.RateLimit)

		case ProviderOpenAI, "":
			apiKey, err := Secret(values.APIKeyEnv)
			if err != nil {
				return nil, fmt.Errorf("agent %s: %w", name, err)
			}
			clientConfig := openai.DefaultConfig(apiKey)
			if values.BaseURL != "" {
				clientConfig.BaseURL = values.BaseURL
			}
			cloud.ChatModels[name] = NewQuotaAwareChatModel(openai.NewClientWithConfig(clientConfig), values)

		default:
			return nil, fmt.Errorf("agent %s: unknown provider %q", name, values.Provider)
		}
		slog.Info("configured agent model", "agent", name, "provider", values.Provider, "model", values.Model)
	}

	switch config.Catalog.Backend {
	case CatalogBigQuery:
		cloud.BiqQueryClient, err = bigquery.NewClient(ctx, config.Application.GoogleProjectId)
		if err != nil {
			return nil, fmt.Errorf("error creating bigquery client: %w", err)
		}
	case CatalogPostgres:
		dsn, err := Secret(config.Catalog.DatabaseURLEnv)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		cloud.DB, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("error opening postgres: %w", err)
		}
		if err = cloud.DB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("error connecting to postgres: %w", err)
		}
	case CatalogMemory:
	default:
		return nil, errors.New("unknown catalog backend: " + config.Catalog.Backend)
	}

	return cloud, nil
}

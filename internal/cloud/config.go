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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients built from it.
//
// This file centralizes all configuration-related structs.
//
// Structs:
//   - Storage: Scratch directories for uploads and synthesis intermediates.
//   - SpeechService: Endpoints and language hint of the speech provider.
//   - AgentModel: A language model used for table routing and filter extraction.
//   - CatalogConfig: Catalog backend selection and the closed table set.
//   - PromptTemplates: Optional overrides of the routing and extraction prompts.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor returning a Config populated with defaults.
package cloud

import (
	"time"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
	"google.golang.org/genai"
)

// DefaultSafetySettings defines the content safety thresholds for Gemini
// agents. Shopping prompts are benign, so nothing is blocked.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Agent model providers.
const (
	ProviderOpenAI = "openai" // Any OpenAI compatible chat API, Groq included.
	ProviderVertex = "vertex"
)

// Catalog backends.
const (
	CatalogPostgres = "postgres"
	CatalogBigQuery = "bigquery"
	CatalogMemory   = "memory"
)

// Storage holds the local scratch directories. Both are created on demand.
type Storage struct {
	UploadDir string `toml:"upload_dir"` // Incoming multipart uploads and their WAV conversions.
	AudioDir  string `toml:"audio_dir"`  // Synthesized segments, concat manifests and merged output.
}

// SpeechService configures the speech-to-text and text-to-speech provider.
type SpeechService struct {
	STTEndpoint    string `toml:"stt_endpoint"`
	TTSEndpoint    string `toml:"tts_endpoint"`
	LanguageCode   string `toml:"language_code"` // Language hint sent with every transcription.
	APIKeyEnv      string `toml:"api_key_env"`   // Environment variable holding the subscription key.
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-call timeout.
func (s SpeechService) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AgentModel describes one language model.
type AgentModel struct {
	Provider           string  `toml:"provider"` // "openai" or "vertex".
	Model              string  `toml:"model"`
	BaseURL            string  `toml:"base_url"`    // OpenAI provider only.
	APIKeyEnv          string  `toml:"api_key_env"` // OpenAI provider only.
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	MaxTokens          int32   `toml:"max_tokens"`
	RateLimit          int     `toml:"rate_limit"` // Requests per second. Zero disables limiting.
}

// CatalogConfig selects the product catalog backend and lists the routable tables.
type CatalogConfig struct {
	Backend        string              `toml:"backend"`          // "postgres", "bigquery" or "memory".
	PageSize       int                 `toml:"page_size"`        // Rows per sub-category page.
	DatabaseURLEnv string              `toml:"database_url_env"` // Environment variable holding the Postgres DSN.
	Dataset        string              `toml:"dataset"`          // BigQuery dataset holding one table per catalog table.
	SeedFile       string              `toml:"seed_file"`        // JSON seed for the memory backend.
	Tables         []model.TableSchema `toml:"tables"`
}

// PromptTemplates holds optional Go templates replacing the built-in prompts.
type PromptTemplates struct {
	TableRouting     string `toml:"table_routing"`
	FilterExtraction string `toml:"filter_extraction"`
}

// Config is the top-level application configuration.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                   string `toml:"name"`
		GoogleProjectId        string `toml:"google_project_id"`
		GoogleLocation         string `toml:"location"`
		Port                   int    `toml:"port"`
		ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
		DotEnvFile             string `toml:"dotenv_file"` // Optional file loaded into the environment before secrets are read.
	} `toml:"application"`
	Telemetry struct {
		Exporter string `toml:"exporter"` // "gcp" exports traces and metrics, anything else keeps them in process.
	} `toml:"telemetry"`
	Storage Storage `toml:"storage"`
	Media   struct {
		FFmpegPath string `toml:"ffmpeg_path"`
	} `toml:"media"`
	Speech    SpeechService     `toml:"speech"`
	Voice     model.VoiceParams `toml:"voice"`
	Synthesis struct {
		ChunkSize int `toml:"chunk_size"`
		MinCut    int `toml:"min_cut"`
	} `toml:"synthesis"`
	Extraction struct {
		RoutingAgent    string `toml:"routing_agent"`    // Key into AgentModels. Defaults to Agent.
		Agent           string `toml:"agent"`            // Key into AgentModels.
		LenientRecovery bool   `toml:"lenient_recovery"` // First-brace truncation of the extraction reply. False demands one exact object.
	} `toml:"extraction"`
	PromptTemplates PromptTemplates       `toml:"prompt_templates"`
	AgentModels     map[string]AgentModel `toml:"agent_models"`
	Catalog         CatalogConfig         `toml:"catalog"`
}

// NewConfig returns a Config holding the defaults every deployment starts
// from. TOML files loaded on top only override what they set.
func NewConfig() *Config {
	c := &Config{AgentModels: make(map[string]AgentModel)}
	c.Application.Name = "voice-catalog-assistant"
	c.Application.Port = 3001
	c.Application.ShutdownTimeoutSeconds = 5
	c.Telemetry.Exporter = "none"
	c.Storage = Storage{UploadDir: "uploads", AudioDir: "audios"}
	c.Media.FFmpegPath = "ffmpeg"
	c.Speech = SpeechService{
		STTEndpoint:    "https://api.sarvam.ai/speech-to-text",
		TTSEndpoint:    "https://api.sarvam.ai/text-to-speech",
		LanguageCode:   "en-IN",
		APIKeyEnv:      "SARVAM_API_KEY",
		TimeoutSeconds: 60,
	}
	c.Voice = model.VoiceParams{Model: "bulbul:v2", Speaker: "vidya", TargetLanguage: "en-IN", Pace: 0.7}
	c.Synthesis.ChunkSize = 300
	c.Synthesis.MinCut = 100
	c.Extraction.Agent = "groq-scout"
	c.Extraction.LenientRecovery = true
	c.Catalog = CatalogConfig{Backend: CatalogPostgres, PageSize: 1000, DatabaseURLEnv: "DATABASE_URL"}
	return c
}

// RoutingAgentName returns the agent used for table routing.
func (c *Config) RoutingAgentName() string {
	if c.Extraction.RoutingAgent != "" {
		return c.Extraction.RoutingAgent
	}
	return c.Extraction.Agent
}

// TableRegistry builds the immutable table registry from the catalog section.
func (c *Config) TableRegistry() *model.TableRegistry {
	return model.NewTableRegistry(c.Catalog.Tables)
}

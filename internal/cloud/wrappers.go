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
// This file contains the rate limited wrappers around the language model
// clients.
//
// Both wrappers block on a token bucket before each call and give up when
// the request context ends. They never retry: a failed call is returned to
// the caller, which fails the request.
package cloud

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// newLimiter returns a limiter allowing requestsPerSecond calls per second with
// an equal burst, or nil when limiting is disabled.
func newLimiter(requestsPerSecond int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// QuotaAwareGenerativeAIModel is a Gemini model with a request rate limit.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               *rate.Limiter
}

func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               newLimiter(requestsPerSecond),
	}
}

// GenerateContent waits for quota and calls the model. A non-empty
// responseMIMEType overrides the configured one for this call only.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content, responseMIMEType string) (*genai.GenerateContentResponse, error) {
	if err := wait(ctx, q.RateLimit); err != nil {
		return nil, err
	}
	config := q.GenerativeContentConfig
	if responseMIMEType != "" {
		copied := *config
		copied.ResponseMIMEType = responseMIMEType
		config = &copied
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, config)
}

// QuotaAwareChatModel is an OpenAI compatible chat model with a request rate
// limit. Groq is reached through this type by pointing BaseURL at its API.
type QuotaAwareChatModel struct {
	Client    *openai.Client
	ModelName string
	Settings  AgentModel
	RateLimit *rate.Limiter
}

func NewQuotaAwareChatModel(client *openai.Client, settings AgentModel) *QuotaAwareChatModel {
	return &QuotaAwareChatModel{
		Client:    client,
		ModelName: settings.Model,
		Settings:  settings,
		RateLimit: newLimiter(settings.RateLimit),
	}
}

// CreateChatCompletion waits for quota and sends req, filling in the model
// name and sampling settings the request leaves unset.
func (q *QuotaAwareChatModel) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := wait(ctx, q.RateLimit); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	if req.Model == "" {
		req.Model = q.ModelName
	}
	if req.Temperature == 0 {
		req.Temperature = q.Settings.Temperature
	}
	if req.TopP == 0 {
		req.TopP = q.Settings.TopP
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = int(q.Settings.MaxTokens)
	}
	return q.Client.CreateChatCompletion(ctx, req)
}

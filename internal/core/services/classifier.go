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
// the outside world. This file provides the two LanguageClassifier
// implementations.
//
//   - ChatClassifier talks to any OpenAI compatible chat completion API. The
//     default deployment points it at Groq.
//   - GeminiClassifier talks to Gemini on Vertex AI through genai.
//
// Both send the prompt as a single system message, return the first choice's
// text and count prompt and completion tokens.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaycherian/voice-catalog-assistant/internal/cloud"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type tokenCounters struct {
	input  metric.Int64Counter
	output metric.Int64Counter
}

func newTokenCounters(name string) tokenCounters {
	meter := otel.Meter(cor.MeterName)
	in, _ := meter.Int64Counter(fmt.Sprintf("%s.token.input", name))
	out, _ := meter.Int64Counter(fmt.Sprintf("%s.token.output", name))
	return tokenCounters{input: in, output: out}
}

// ChatClassifier is a LanguageClassifier over an OpenAI compatible API.
type ChatClassifier struct {
	model    *cloud.QuotaAwareChatModel
	counters tokenCounters
}

func NewChatClassifier(name string, model *cloud.QuotaAwareChatModel) *ChatClassifier {
	return &ChatClassifier{model: model, counters: newTokenCounters(name)}
}

func (c *ChatClassifier) Classify(ctx context.Context, prompt string, format commands.ReplyFormat) (string, error) {
	req := openai.ChatCompletionRequest{
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
	}
	if format == commands.ReplyJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.model.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if c.counters.input != nil {
		c.counters.input.Add(ctx, int64(resp.Usage.PromptTokens))
	}
	if c.counters.output != nil {
		c.counters.output.Add(ctx, int64(resp.Usage.CompletionTokens))
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiClassifier is a LanguageClassifier over Gemini.
type GeminiClassifier struct {
	model    *cloud.QuotaAwareGenerativeAIModel
	counters tokenCounters
}

func NewGeminiClassifier(name string, model *cloud.QuotaAwareGenerativeAIModel) *GeminiClassifier {
	return &GeminiClassifier{model: model, counters: newTokenCounters(name)}
}

func (g *GeminiClassifier) Classify(ctx context.Context, prompt string, format commands.ReplyFormat) (string, error) {
	mimeType := "text/plain"
	if format == commands.ReplyJSON {
		mimeType = "application/json"
	}
	return cloud.GenerateText(ctx, g.counters.input, g.counters.output, g.model, cloud.NewTextPart(prompt), mimeType)
}

// NewClassifier returns the classifier for the agent called name.
func NewClassifier(name string, clients *cloud.ServiceClients) (commands.LanguageClassifier, error) {
	if m, ok := clients.ChatModels[name]; ok {
		return NewChatClassifier(name, m), nil
	}
	if m, ok := clients.AgentModels[name]; ok {
		return NewGeminiClassifier(name, m), nil
	}
	return nil, fmt.Errorf("no agent model named %q", name)
}

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

package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// SarvamTTS is a TextToSpeech backed by the Sarvam text-to-speech REST API.
type SarvamTTS struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewSarvamTTS(endpoint string, apiKey string, timeout time.Duration) *SarvamTTS {
	return &SarvamTTS{endpoint: endpoint, apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}
}

type ttsRequest struct {
	Text               string  `json:"text"`
	Model              string  `json:"model"`
	Speaker            string  `json:"speaker"`
	TargetLanguageCode string  `json:"target_language_code"`
	Pace               float64 `json:"pace"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize returns the decoded first audio of the reply. A reply without
// audio yields an empty slice and no error.
func (s *SarvamTTS) Synthesize(ctx context.Context, text string, voice model.VoiceParams) ([]byte, error) {
	payload, err := json.Marshal(ttsRequest{
		Text:               text,
		Model:              voice.Model,
		Speaker:            voice.Speaker,
		TargetLanguageCode: voice.TargetLanguage,
		Pace:               voice.Pace,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SubscriptionKeyHeader, s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &model.UpstreamError{Service: "text-to-speech", Status: resp.StatusCode, Body: string(errBody)}
	}

	var out ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid text-to-speech response: %w", err)
	}
	if len(out.Audios) == 0 || out.Audios[0] == "" {
		return nil, nil
	}
	audio, err := base64.StdEncoding.DecodeString(out.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("invalid audio encoding: %w", err)
	}
	return audio, nil
}

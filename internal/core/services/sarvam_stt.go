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
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// SubscriptionKeyHeader carries the speech provider API key.
const SubscriptionKeyHeader = "api-subscription-key"

const maxErrorBody = 4096

// SarvamSTT is a SpeechToText backed by the Sarvam speech-to-text REST API.
// The WAV file is posted as multipart field "file" together with
// "language_code"; the reply's "transcript" field is the result.
type SarvamSTT struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewSarvamSTT(endpoint string, apiKey string, timeout time.Duration) *SarvamSTT {
	return &SarvamSTT{endpoint: endpoint, apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}
}

type sttResponse struct {
	Transcript string `json:"transcript"`
}

func (s *SarvamSTT) Transcribe(ctx context.Context, wavPath string, languageCode string) (string, error) {
	audio, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="converted.wav"`)
	partHeader.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("language_code", languageCode); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(SubscriptionKeyHeader, s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech-to-text request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &model.UpstreamError{Service: "speech-to-text", Status: resp.StatusCode, Body: string(errBody)}
	}

	var out sttResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("invalid speech-to-text response: %w", err)
	}
	return out.Transcript, nil
}

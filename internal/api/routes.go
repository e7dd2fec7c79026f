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

// Package api contains the HTTP route definitions for the assistant.
//
// Every handler follows the same shape: build a request scoped cor.Context on
// the gin request's context, put the request payload under the workflow's
// input key, run the workflow, then either render the first recorded error or
// read the result back from the context. The context is closed when the
// handler returns, which removes every scratch file the workflow created.
//
// Routes:
//   - POST /api/transcribe: multipart `file` to `{transcription}`.
//   - POST /tts: `{text}` to an audio/wav body.
//   - POST /product-suggest: `{prompt}` to `{parsed}`.
//   - POST /api/product-search: a search request to `{results}`.
//   - GET /healthz: liveness.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/voice-catalog-assistant/internal/core/commands"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/cor"
	"github.com/jaycherian/voice-catalog-assistant/internal/core/model"
)

// Client facing messages for request validation done before a workflow runs.
const (
	MsgTextRequired   = "Text is required for TTS."
	MsgPromptRequired = "No prompt provided."
	MsgInvalidBody    = "Invalid request body"
)

// Handlers holds one workflow per endpoint. Workflows keep no per-request
// state and are shared by concurrent requests.
type Handlers struct {
	Transcription   cor.Command
	Synthesis       cor.Command
	QueryResolution cor.Command
	ProductSearch   cor.Command
}

type ttsRequest struct {
	Text string `json:"text"`
}

type suggestRequest struct {
	Prompt string `json:"prompt"`
}

// Register adds every route to r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/healthz", h.health)
	r.POST("/tts", h.textToSpeech)
	r.POST("/product-suggest", h.productSuggest)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/transcribe", h.transcribe)
		apiGroup.POST("/product-search", h.productSearch)
	}
}

// NewRouter returns a gin engine with the recovery middleware, the given
// extra middleware and every route registered.
func NewRouter(h *Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)
	h.Register(r)
	return r
}

func newRequestContext(c *gin.Context) cor.Context {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(c.Request.Context())
	return chainCtx
}

// renderError writes the first error recorded on chainCtx. withDetail
// controls whether upstream diagnostics are exposed.
func renderError(c *gin.Context, chainCtx cor.Context, withDetail bool) {
	e := model.AsError(chainCtx.FirstError())
	slog.ErrorContext(c.Request.Context(), "request failed",
		"path", c.FullPath(), "kind", e.Kind, "message", e.Message, "error", e.Err)

	body := gin.H{"error": e.Message}
	if withDetail && e.Detail != "" {
		body["detail"] = e.Detail
	}
	c.JSON(e.Kind.HTTPStatus(), body)
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) transcribe(c *gin.Context) {
	chainCtx := newRequestContext(c)
	defer chainCtx.Close()

	// A missing part is reported by the upload command itself.
	if header, err := c.FormFile("file"); err == nil {
		chainCtx.Add(commands.ParamUploadHeader, header)
	}

	h.Transcription.Execute(chainCtx)
	if chainCtx.HasErrors() {
		renderError(c, chainCtx, true)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcription": chainCtx.Get(commands.ParamTranscript)})
}

func (h *Handlers) textToSpeech(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgTextRequired})
		return
	}

	chainCtx := newRequestContext(c)
	defer chainCtx.Close()
	chainCtx.Add(commands.ParamSynthesisText, req.Text)

	h.Synthesis.Execute(chainCtx)
	if chainCtx.HasErrors() {
		renderError(c, chainCtx, false)
		return
	}

	merged, ok := chainCtx.Get(commands.ParamMergedAudio).(*model.MergedAudioAsset)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "TTS failed to process long input."})
		return
	}
	// ServeFile writes synchronously, so the deferred Close only runs after
	// the whole body has been sent.
	c.Header("Content-Type", "audio/wav")
	c.File(merged.Path)
}

func (h *Handlers) productSuggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgPromptRequired})
		return
	}

	chainCtx := newRequestContext(c)
	defer chainCtx.Close()
	chainCtx.Add(commands.ParamUserPrompt, req.Prompt)

	h.QueryResolution.Execute(chainCtx)
	if chainCtx.HasErrors() {
		renderError(c, chainCtx, true)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parsed": chainCtx.Get(commands.ParamProductQuery)})
}

func (h *Handlers) productSearch(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return
	}

	chainCtx := newRequestContext(c)
	defer chainCtx.Close()
	chainCtx.Add(commands.ParamSearchRequest, &req)

	h.ProductSearch.Execute(chainCtx)
	if chainCtx.HasErrors() {
		renderError(c, chainCtx, false)
		return
	}

	results, _ := chainCtx.Get(commands.ParamSearchResults).([]*model.SearchResult)
	if results == nil {
		results = make([]*model.SearchResult, 0)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

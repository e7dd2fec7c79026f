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

package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a pipeline failure. The kind alone decides the HTTP
// status a handler answers with.
type ErrorKind string

const (
	UploadError               ErrorKind = "upload"
	RequestError              ErrorKind = "request"
	ConversionError           ErrorKind = "conversion"
	TranscriptionServiceError ErrorKind = "transcription_service"
	SynthesisServiceError     ErrorKind = "synthesis_service"
	ConcatError               ErrorKind = "concat"
	ClassifierError           ErrorKind = "classifier"
	TableRoutingError         ErrorKind = "table_routing"
	CategoryFetchError        ErrorKind = "category_fetch"
	ExtractionParseError      ErrorKind = "extraction_parse"
	SearchInputError          ErrorKind = "search_input"
	StoreError                ErrorKind = "store"
)

// HTTPStatus maps the kind to 400 for client input problems and 500 for
// everything the service or its upstreams got wrong.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case UploadError, RequestError, TableRoutingError, SearchInputError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error shape produced by every pipeline stage.
type Error struct {
	Kind    ErrorKind
	Message string // Short, client-facing message.
	Detail  string // Upstream diagnostics, if any. Empty means "do not expose".
	Err     error
}

// NewError builds an Error of kind with message wrapping err. When err is
// non-nil its text becomes the detail.
func NewError(kind ErrorKind, message string, err error) *Error {
	out := &Error{Kind: kind, Message: message, Err: err}
	if err != nil {
		out.Detail = err.Error()
	}
	return out
}

// WithDetail replaces the diagnostic detail.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err. Anything else is reported as a generic
// internal failure without detail.
func AsError(err error) *Error {
	var out *Error
	if errors.As(err, &out) {
		return out
	}
	return &Error{Kind: "internal", Message: "Internal error", Err: err}
}

// UpstreamError describes a non-success reply from an external HTTP service.
// Status and Body are kept for diagnostics.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

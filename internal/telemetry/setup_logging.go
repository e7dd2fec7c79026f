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

// Package telemetry sets up logging, tracing and metrics for the assistant.
// This file configures structured JSON logging. Records carry the trace and
// span of the request that produced them so a log line can be joined with the
// spans each command opens.
package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Field names understood by Cloud Logging for log/trace correlation.
const (
	TraceKey        = "logging.googleapis.com/trace"
	SpanKey         = "logging.googleapis.com/spanId"
	TraceSampledKey = "logging.googleapis.com/trace_sampled"
)

// spanContextLogHandler decorates records with the span found on the context.
type spanContextLogHandler struct {
	slog.Handler
}

func (h *spanContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any(TraceKey, s.TraceID()),
			slog.Any(SpanKey, s.SpanID()),
			slog.Bool(TraceSampledKey, s.TraceFlags().IsSampled()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *spanContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanContextLogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *spanContextLogHandler) WithGroup(name string) slog.Handler {
	return &spanContextLogHandler{Handler: h.Handler.WithGroup(name)}
}

// replacer renames the slog keys to the severity/timestamp/message names
// Cloud Logging expects; WARN is spelled WARNING there.
func replacer(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// NewLogHandler builds the JSON handler used by the service, writing to w.
func NewLogHandler(w io.Writer, level slog.Level) slog.Handler {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replacer})
	return &spanContextLogHandler{Handler: jsonHandler}
}

// SetupLogging installs the JSON handler as the slog default and points the
// standard logger at the same output. Output goes to stdout and, when
// LOG_FILE is set, to that file as well.
func SetupLogging() {
	var out io.Writer = os.Stdout
	if name := os.Getenv("LOG_FILE"); name != "" {
		if file, err := os.Create(name); err == nil {
			out = io.MultiWriter(os.Stdout, file)
		}
	}

	log.SetOutput(out)
	log.SetPrefix("[INFO] ")
	log.SetFlags(log.Ldate | log.Ltime)

	slog.SetDefault(slog.New(NewLogHandler(out, slog.LevelInfo)))
}

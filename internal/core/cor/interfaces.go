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

// Package cor (Chain of Responsibility) provides the building blocks every
// request pipeline in this service is assembled from. A pipeline is a Chain of
// Commands that share one request-scoped Context.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain uses to pipe the output of one
// command into the input of the next.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state of a single pipeline execution. It carries the
// request's Go context, named values, the errors recorded by commands and the
// scratch files that must be released when the request is done.
type Context interface {
	// SetContext sets the Go context used for cancellation and tracing.
	SetContext(context context.Context)

	// GetContext returns the Go context.
	GetContext() context.Context

	// Add stores a value under key and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records err under key, usually the failing command's name.
	// Errors keep the order in which they were recorded.
	AddError(key string, err error)

	// GetErrors returns every recorded error keyed by command name.
	GetErrors() map[string]error

	// FirstError returns the earliest recorded error, or nil.
	FirstError() error

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes the value stored under key.
	Remove(key string)

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool

	// AddTempFile tracks a scratch file owned by this execution.
	AddTempFile(file string)

	// GetTempFiles returns the tracked scratch files in creation order.
	GetTempFiles() []string

	// Close releases every tracked scratch file. Removal failures are never
	// reported to the caller. Handlers defer Close right after creating the
	// Context so release is tied to the request lifetime.
	Close()
}

// Executable is anything with pipeline logic.
type Executable interface {
	Execute(context Context)
}

// Command is one step of a pipeline.
type Command interface {
	Executable

	// GetName returns the command name used in spans, metrics and error keys.
	GetName() string

	// GetInputParam returns the key the command reads its primary input from.
	GetInputParam() string

	// GetOutputParam returns the key the command writes its primary output to.
	GetOutputParam() string

	// IsExecutable is the precondition checked before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands and is itself a Command, so chains
// can be nested.
type Chain interface {
	Command

	// ContinueOnFailure controls whether later commands still run after one fails.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the sequence.
	AddCommand(command Command) Chain
}

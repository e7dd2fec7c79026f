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

// Package cor (Chain of Responsibility) provides the building blocks for
// request pipelines. This file defines `BaseContext`, the default
// implementation of the `Context` interface.
//
// A BaseContext lives exactly as long as one HTTP request. Besides the data bag
// that commands use to hand values to each other, it owns the list of scratch
// files (uploads, transcoded audio, synthesized segments, concat manifests,
// merged outputs) created while serving that request. The handler defers
// Close, which removes all of them once the response has been written.
package cor

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// BaseContext is the default implementation of the Context interface.
type BaseContext struct {
	data      map[string]interface{}
	errors    map[string]error
	errorKeys []string // Insertion order of errors, so FirstError is stable.
	tempFiles []string
	context   context.Context
}

// NewBaseContext returns an empty Context bound to context.Background. Callers
// usually replace the Go context with the request's.
func NewBaseContext() Context {
	return &BaseContext{
		data:      make(map[string]interface{}),
		errors:    make(map[string]error),
		errorKeys: make([]string, 0),
		tempFiles: make([]string, 0),
		context:   context.Background(),
	}
}

// SetContext sets the underlying Go context.
func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

// GetContext returns the underlying Go context.
func (c *BaseContext) GetContext() context.Context {
	return c.context
}

// Close removes every tracked scratch file. A file that is already gone is not
// worth a log line; anything else is logged at debug level and swallowed.
func (c *BaseContext) Close() {
	for _, file := range c.tempFiles {
		if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Debug("failed to remove scratch file", "file", file, "error", err)
		}
	}
	c.tempFiles = c.tempFiles[:0]
}

// Add stores a value under key.
func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

// AddTempFile tracks file for removal on Close. Empty paths are ignored.
func (c *BaseContext) AddTempFile(file string) {
	if file == "" {
		return
	}
	c.tempFiles = append(c.tempFiles, file)
}

// GetTempFiles returns the tracked scratch files in creation order.
func (c *BaseContext) GetTempFiles() []string {
	return c.tempFiles
}

// AddError records err under key. Recording a second error under the same
// key replaces the error but keeps its original position.
func (c *BaseContext) AddError(key string, err error) {
	if _, ok := c.errors[key]; !ok {
		c.errorKeys = append(c.errorKeys, key)
	}
	c.errors[key] = err
}

// GetErrors returns every recorded error keyed by command name.
func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

// FirstError returns the earliest recorded error, or nil.
func (c *BaseContext) FirstError() error {
	if len(c.errorKeys) == 0 {
		return nil
	}
	return c.errors[c.errorKeys[0]]
}

// Get returns the value stored under key, or nil.
func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

// Remove deletes the value stored under key.
func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

// HasErrors reports whether any error was recorded.
func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the language-model service behind a small Generator
// interface and models every call outcome as a Result value, so callers
// choose fallbacks with plain functions instead of error-handling chains.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

var (
	// ErrEmptyResponse is returned when the model replies with blank text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrTimeout is returned when a call exceeds its bounded timeout.
	ErrTimeout = errors.New("model call timed out")
)

// Generator sends one prompt to a model and returns its free-text reply.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CallError is a transport-level failure: the call itself did not produce a
// usable reply (connection, quota, timeout, empty text).
type CallError struct {
	Stage string
	Err   error
}

func (e *CallError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	return e.Stage + ": " + e.Err.Error()
}

func (e *CallError) Unwrap() error { return e.Err }

// MalformedResponseError is a reply that could not be parsed into the
// expected structure.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Result is the outcome of one model call: a value or the failure that
// prevented it.
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure wraps an error.
func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the call produced a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Labeled tags a CallError with the pipeline stage that issued the call.
func (r Result[T]) Labeled(stage string) Result[T] {
	var ce *CallError
	if errors.As(r.Err, &ce) && ce.Stage == "" {
		ce.Stage = stage
	}
	return r
}

// Call issues one prompt with a bounded timeout. It never blocks longer than
// timeout even if the generator ignores its context. A deadline maps to
// ErrTimeout and a blank reply to ErrEmptyResponse.
func Call(ctx context.Context, gen Generator, prompt string, timeout time.Duration) Result[string] {
	if timeout <= 0 {
		timeout = types.DefaultLLMTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := gen.Generate(ctx, prompt)
		done <- reply{text, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return Failure[string](&CallError{Err: fmt.Errorf("%w: %w", ErrTimeout, r.err)})
			}
			return Failure[string](&CallError{Err: r.err})
		}
		if strings.TrimSpace(r.text) == "" {
			return Failure[string](&CallError{Err: ErrEmptyResponse})
		}
		return Success(r.text)
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
		}
		return Failure[string](&CallError{Err: err})
	}
}

// DecodeJSON strips any code fence from a successful reply and unmarshals it
// into T. A failed call stays failed; a parse error becomes a
// MalformedResponseError.
func DecodeJSON[T any](r Result[string]) Result[T] {
	if !r.OK() {
		return Failure[T](r.Err)
	}
	var v T
	if err := json.Unmarshal([]byte(StripCodeFence(r.Value)), &v); err != nil {
		return Failure[T](&MalformedResponseError{Raw: r.Value, Err: err})
	}
	return Success(v)
}

// New builds the process-wide generator for cfg.Provider.
func New(ctx context.Context, cfg types.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	switch cfg.Provider {
	case types.ProviderGoogle, "":
		return NewGeminiBackend(ctx, cfg.APIKey, cfg.Model)
	case types.ProviderAnthropic:
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

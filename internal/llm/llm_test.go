// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

type funcGenerator func(ctx context.Context, prompt string) (string, error)

func (f funcGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"no fence with whitespace", "  {\"a\":1}\n", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading only", "```json\n{\"a\":1}", `{"a":1}`},
		{"trailing only", "{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "\n\n```json\n{\"a\":1}\n```\n\n", `{"a":1}`},
		{"inner content preserved", "```json\n{\n  \"a\": [1, 2]\n}\n```", "{\n  \"a\": [1, 2]\n}"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestStripCodeFence_Idempotent(t *testing.T) {
	for _, in := range []string{`{"x":"y"}`, "plain text", "```json\n{}\n```"} {
		once := StripCodeFence(in)
		assert.Equal(t, once, StripCodeFence(once), "input %q", in)
	}
}

func TestCall_Success(t *testing.T) {
	gen := funcGenerator(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	r := Call(context.Background(), gen, "hi", time.Second)
	require.True(t, r.OK())
	assert.Equal(t, "echo: hi", r.Value)
}

func TestCall_TransportError(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := funcGenerator(func(context.Context, string) (string, error) { return "", boom })

	r := Call(context.Background(), gen, "hi", time.Second).Labeled("select template")
	require.False(t, r.OK())

	var ce *CallError
	require.ErrorAs(t, r.Err, &ce)
	assert.Equal(t, "select template", ce.Stage)
	assert.ErrorIs(t, r.Err, boom)
	assert.Equal(t, "select template: quota exceeded", r.Err.Error())
}

func TestCall_EmptyResponse(t *testing.T) {
	gen := funcGenerator(func(context.Context, string) (string, error) { return "  \n", nil })
	r := Call(context.Background(), gen, "hi", time.Second)
	assert.ErrorIs(t, r.Err, ErrEmptyResponse)
}

func TestCall_TimeoutWhenGeneratorIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	gen := funcGenerator(func(context.Context, string) (string, error) {
		<-release
		return "late", nil
	})

	start := time.Now()
	r := Call(context.Background(), gen, "hi", 20*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, r.Err, ErrTimeout)
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
}

func TestCall_TimeoutReportedByGenerator(t *testing.T) {
	gen := funcGenerator(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	r := Call(context.Background(), gen, "hi", 10*time.Millisecond)
	assert.ErrorIs(t, r.Err, ErrTimeout)
}

func TestDecodeJSON(t *testing.T) {
	type verdict struct {
		Selected string `json:"selected_template"`
	}

	t.Run("fenced reply", func(t *testing.T) {
		r := DecodeJSON[verdict](Success("```json\n{\"selected_template\":\"a\"}\n```"))
		require.True(t, r.OK())
		assert.Equal(t, "a", r.Value.Selected)
	})

	t.Run("malformed reply", func(t *testing.T) {
		r := DecodeJSON[verdict](Success("not json"))
		var me *MalformedResponseError
		require.ErrorAs(t, r.Err, &me)
		assert.Equal(t, "not json", me.Raw)
	})

	t.Run("failed call stays failed", func(t *testing.T) {
		cause := &CallError{Err: errors.New("down")}
		r := DecodeJSON[verdict](Failure[string](cause))
		assert.Same(t, cause, r.Err)
	})
}

func TestClaudeBackend_Generate(t *testing.T) {
	var gotReq claudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"part one "},{"type":"tool_use"},{"type":"text","text":"part two"}]}`))
	}))
	defer srv.Close()

	orig := claudeAPIURL
	claudeAPIURL = srv.URL
	defer func() { claudeAPIURL = orig }()

	b := &ClaudeBackend{APIKey: "test-key", Model: "claude-test"}
	text, err := b.Generate(context.Background(), "summarize")
	require.NoError(t, err)
	assert.Equal(t, "part one part two", text)
	assert.Equal(t, "claude-test", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "summarize", gotReq.Messages[0].Content)
}

func TestClaudeBackend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	orig := claudeAPIURL
	claudeAPIURL = srv.URL
	defer func() { claudeAPIURL = orig }()

	b := &ClaudeBackend{APIKey: "k"}
	_, err := b.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), types.LLMConfig{Provider: types.ProviderAnthropic})
	assert.Error(t, err, "missing key")

	_, err = New(context.Background(), types.LLMConfig{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)

	gen, err := New(context.Background(), types.LLMConfig{Provider: types.ProviderAnthropic, APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeBackend{}, gen)
}

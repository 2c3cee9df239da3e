// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// LLM providers understood by internal/llm.
const (
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-analyst/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LLMConfig describes the process-wide LLM client. It is read-only after
// startup and shared by every pipeline run.
type LLMConfig struct {
	// Provider selects the backend: "google" (Gemini) or "anthropic".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider. Usually left empty in the
	// config file and resolved from the environment or .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout bounds every individual LLM call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// SearchConfig holds settings for the paper source.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the number of search hits requested (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// ExactTitle keeps only hits whose title equals the query keywords.
	ExactTitle bool `json:"exact_title" yaml:"exact_title" mapstructure:"exact_title"`
}

// AcquisitionConfig holds settings for PDF download and text extraction.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// PDFDir is where downloaded PDFs are stored (default ./pdfs).
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir" mapstructure:"pdf_dir"`

	// MaxPages bounds how many pages are read from each PDF (default 10).
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`

	// MaxChars bounds the extracted text length in characters (default 8000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
}

// AnalysisConfig holds settings for the template pipeline.
type AnalysisConfig struct {
	// PromptBudget is the paper-text prefix, in characters, embedded in the
	// template-generation and focused-summary prompts (default 6000).
	PromptBudget int `json:"prompt_budget" yaml:"prompt_budget" mapstructure:"prompt_budget"`

	// SnippetChars is the length of the text snippet kept on the record (default 500).
	SnippetChars int `json:"snippet_chars" yaml:"snippet_chars" mapstructure:"snippet_chars"`

	// ExecutiveSummary enables the extra executive-summary call.
	ExecutiveSummary bool `json:"executive_summary" yaml:"executive_summary" mapstructure:"executive_summary"`

	// Workers is the number of papers analysed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// ArchiveConfig holds settings for the SQLite record archive.
type ArchiveConfig struct {
	// Dir contains records.db and export files. Empty disables archiving.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default number of records returned by List (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the tool server.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups all stage configurations.
type AppConfig struct {
	LLM         LLMConfig         `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search      SearchConfig      `json:"search" yaml:"search" mapstructure:"search"`
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition" mapstructure:"acquisition"`
	Analysis    AnalysisConfig    `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Archive     ArchiveConfig     `json:"archive" yaml:"archive" mapstructure:"archive"`
	Server      ServerConfig      `json:"server" yaml:"server" mapstructure:"server"`
	Log         LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
}

const (
	DefaultModel        = "gemini-2.5-flash"
	DefaultClaudeModel  = "claude-sonnet-4-5"
	DefaultUserAgent    = "paper-analyst/0.1"
	DefaultLLMTimeout   = 60 * time.Second
	DefaultHTTPTimeout  = 20 * time.Second
	DefaultPromptBudget = 6000
	DefaultSnippetChars = 500
	DefaultMaxPages     = 10
	DefaultMaxChars     = 8000
	DefaultMaxResults   = 5
)

// DefaultAppConfig returns the configuration used when no file or
// environment override is present.
func DefaultAppConfig() AppConfig {
	httpCfg := HTTPConfig{Timeout: DefaultHTTPTimeout, UserAgent: DefaultUserAgent}
	return AppConfig{
		LLM: LLMConfig{
			Provider: ProviderGoogle,
			Model:    DefaultModel,
			Timeout:  DefaultLLMTimeout,
		},
		Search: SearchConfig{
			HTTPConfig: httpCfg,
			MaxResults: DefaultMaxResults,
			ExactTitle: true,
		},
		Acquisition: AcquisitionConfig{
			HTTPConfig: httpCfg,
			PDFDir:     "./pdfs",
			MaxPages:   DefaultMaxPages,
			MaxChars:   DefaultMaxChars,
		},
		Analysis: AnalysisConfig{
			PromptBudget: DefaultPromptBudget,
			SnippetChars: DefaultSnippetChars,
			Workers:      1,
		},
		Archive: ArchiveConfig{Dir: "archive", MaxResults: 20},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// Normalize replaces missing or out-of-range values with defaults.
func (c *AppConfig) Normalize() {
	d := DefaultAppConfig()

	switch c.LLM.Provider {
	case ProviderGoogle, ProviderAnthropic:
	default:
		c.LLM.Provider = d.LLM.Provider
	}
	switch {
	case c.LLM.Provider == ProviderAnthropic && (c.LLM.Model == "" || strings.HasPrefix(c.LLM.Model, "gemini")):
		c.LLM.Model = DefaultClaudeModel
	case c.LLM.Model == "":
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = d.LLM.Timeout
	}

	normalizeHTTP(&c.Search.HTTPConfig, d.Search.HTTPConfig)
	normalizeHTTP(&c.Acquisition.HTTPConfig, d.Acquisition.HTTPConfig)
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = d.Search.MaxResults
	}
	if c.Acquisition.PDFDir == "" {
		c.Acquisition.PDFDir = d.Acquisition.PDFDir
	}
	if c.Acquisition.MaxPages <= 0 {
		c.Acquisition.MaxPages = d.Acquisition.MaxPages
	}
	if c.Acquisition.MaxChars <= 0 {
		c.Acquisition.MaxChars = d.Acquisition.MaxChars
	}

	if c.Analysis.PromptBudget <= 0 {
		c.Analysis.PromptBudget = d.Analysis.PromptBudget
	}
	if c.Analysis.SnippetChars <= 0 {
		c.Analysis.SnippetChars = d.Analysis.SnippetChars
	}
	if c.Analysis.Workers < 1 {
		c.Analysis.Workers = d.Analysis.Workers
	}

	if c.Archive.MaxResults <= 0 {
		c.Archive.MaxResults = d.Archive.MaxResults
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

func normalizeHTTP(h *HTTPConfig, d HTTPConfig) {
	if h.Timeout <= 0 {
		h.Timeout = d.Timeout
	}
	if h.UserAgent == "" {
		h.UserAgent = d.UserAgent
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-analyst CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/archive"
	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/internal/logging"
	"github.com/pdiddy/paper-analyst/internal/secrets"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-analyst CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-analyst",
	Short: "Fetch research papers and analyse them through LLM-generated lenses",
	Long: `paper-analyst searches arXiv, downloads each matching PDF, extracts its
text, and asks an LLM to invent analysis templates for the paper, apply each
one, pick the most valuable, and write focused and holistic summaries.

The same tools are available over HTTP with "serve". Results are archived
in a local SQLite database and can be listed or exported with "records".`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-analyst.yaml or ~/.config/paper-analyst/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of API key files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-analyst")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-analyst"))
		}
	}

	viper.SetEnvPrefix("PAPER_ANALYST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultAppConfig())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment overrides are seen
// by Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper, d types.AppConfig) {
	defaults := map[string]any{
		"llm.provider":               d.LLM.Provider,
		"llm.model":                  d.LLM.Model,
		"llm.api_key":                d.LLM.APIKey,
		"llm.timeout":                d.LLM.Timeout,
		"search.timeout":             d.Search.Timeout,
		"search.user_agent":          d.Search.UserAgent,
		"search.max_results":         d.Search.MaxResults,
		"search.exact_title":         d.Search.ExactTitle,
		"acquisition.timeout":        d.Acquisition.Timeout,
		"acquisition.user_agent":     d.Acquisition.UserAgent,
		"acquisition.pdf_dir":        d.Acquisition.PDFDir,
		"acquisition.max_pages":      d.Acquisition.MaxPages,
		"acquisition.max_chars":      d.Acquisition.MaxChars,
		"analysis.prompt_budget":     d.Analysis.PromptBudget,
		"analysis.snippet_chars":     d.Analysis.SnippetChars,
		"analysis.executive_summary": d.Analysis.ExecutiveSummary,
		"analysis.workers":           d.Analysis.Workers,
		"archive.dir":                d.Archive.Dir,
		"archive.max_results":        d.Archive.MaxResults,
		"server.addr":                d.Server.Addr,
		"log.level":                  d.Log.Level,
		"log.format":                 d.Log.Format,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// loadConfig decodes v into an AppConfig and normalizes it.
func loadConfig(v *viper.Viper) (types.AppConfig, error) {
	cfg := types.DefaultAppConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// appConfig loads the config and applies the persistent flags.
func appConfig(cmd *cobra.Command) (types.AppConfig, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// newLogger builds the zap logger for cfg.
func newLogger(cfg types.AppConfig) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

// newGenerator resolves the API key and builds the configured LLM backend.
func newGenerator(ctx context.Context, cmd *cobra.Command, cfg types.AppConfig) (llm.Generator, error) {
	dir, _ := cmd.Flags().GetString("secrets-dir")
	key, err := secrets.APIKey(cfg.LLM.Provider, cfg.LLM.APIKey, dir)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("no API key for provider %q: set it in the config, the environment (%s, %s), or %s",
			cfg.LLM.Provider, secrets.GeminiKeyEnv, secrets.AnthropicKeyEnv, dir)
	}
	lc := cfg.LLM
	lc.APIKey = key
	return llm.New(ctx, lc)
}

// openArchive opens the record archive, or returns nil when archiving is
// disabled.
func openArchive(cfg types.AppConfig, disabled bool) (*archive.Store, error) {
	if disabled || strings.TrimSpace(cfg.Archive.Dir) == "" {
		return nil, nil
	}
	return archive.NewStore(cfg.Archive)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

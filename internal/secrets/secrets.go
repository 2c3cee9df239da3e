// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves LLM API keys from flags, the environment, and a
// directory of plain-text files. In the directory each file is one secret:
// the filename is the key name and the trimmed contents are the value.
//
// Supported key files: gemini-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// DefaultDir is the secrets directory used when none is configured.
const DefaultDir = ".secrets"

// Secret file names.
const (
	GeminiKeyFile    = "gemini-api-key"
	AnthropicKeyFile = "anthropic-api-key"
)

// Environment variables consulted before the secrets directory.
const (
	GeminiKeyEnv    = "GEMINI_API_KEY"
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey returns the key for provider. Precedence: explicit (flag or config
// file), then the provider's environment variable, then its file in dir.
// An empty result means no key was found anywhere.
func APIKey(provider, explicit, dir string) (string, error) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, nil
	}

	envName, fileName := GeminiKeyEnv, GeminiKeyFile
	if provider == types.ProviderAnthropic {
		envName, fileName = AnthropicKeyEnv, AnthropicKeyFile
	}
	if k := strings.TrimSpace(os.Getenv(envName)); k != "" {
		return k, nil
	}

	if dir == "" {
		dir = DefaultDir
	}
	loaded, err := Load(dir)
	if err != nil {
		return "", err
	}
	return loaded[fileName], nil
}

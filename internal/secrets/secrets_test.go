// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "gemini-api-key", "  gk_abc123  \n")
				writeFile(t, dir, "anthropic-api-key", "ak_xyz789")
				return dir
			},
			want: map[string]string{
				"gemini-api-key":    "gk_abc123",
				"anthropic-api-key": "ak_xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "gemini-api-key", "gk_real")
				return dir
			},
			want: map[string]string{
				"gemini-api-key": "gk_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestAPIKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, GeminiKeyFile, "gk_file")
	writeFile(t, dir, AnthropicKeyFile, "ak_file")

	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv(GeminiKeyEnv, "gk_env")
		got, err := APIKey(types.ProviderGoogle, " gk_flag ", dir)
		require.NoError(t, err)
		assert.Equal(t, "gk_flag", got)
	})

	t.Run("environment before file", func(t *testing.T) {
		t.Setenv(GeminiKeyEnv, "gk_env")
		got, err := APIKey(types.ProviderGoogle, "", dir)
		require.NoError(t, err)
		assert.Equal(t, "gk_env", got)
	})

	t.Run("file fallback per provider", func(t *testing.T) {
		t.Setenv(GeminiKeyEnv, "")
		t.Setenv(AnthropicKeyEnv, "")
		got, err := APIKey(types.ProviderAnthropic, "", dir)
		require.NoError(t, err)
		assert.Equal(t, "ak_file", got)

		got, err = APIKey("", "", dir)
		require.NoError(t, err)
		assert.Equal(t, "gk_file", got)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv(GeminiKeyEnv, "")
		got, err := APIKey(types.ProviderGoogle, "", filepath.Join(dir, "missing"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

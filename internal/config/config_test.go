package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.VisionBackend)
	assert.Equal(t, PolicyStrict, cfg.CredentialPolicy)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("VISION_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("RESPONSE_MODE", "raw")
	t.Setenv("INFERENCE_TIMEOUT", "15s")
	t.Setenv("HISTORY_DB_PATH", "/tmp/history.db")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "claude", cfg.VisionBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, "raw", cfg.ResponseMode)
	assert.Equal(t, 15*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, "/tmp/history.db", cfg.HistoryDBPath)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SNAPBACK_TEST_KEY_FROM_FILE=md-file\n"), 0600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("MOONDREAM_API_KEY", "md-env")
	t.Cleanup(func() { _ = os.Unsetenv("SNAPBACK_TEST_KEY_FROM_FILE") })

	cfg := Load()

	assert.Equal(t, "md-file", os.Getenv("SNAPBACK_TEST_KEY_FROM_FILE"))
	// Variables already set win over the file.
	assert.Equal(t, "md-env", cfg.MoondreamAPIKey)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("INFERENCE_TIMEOUT", "soon")

	assert.Equal(t, 60*time.Second, Load().InferenceTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		anyErr  bool
	}{
		{name: "moondream with key", cfg: Config{VisionBackend: "moondream", MoondreamAPIKey: "k", CredentialPolicy: PolicyStrict}},
		{name: "moondream without key", cfg: Config{VisionBackend: "moondream", CredentialPolicy: PolicyStrict}, wantErr: ErrMissingCredential},
		{name: "claude without key", cfg: Config{VisionBackend: "claude", CredentialPolicy: PolicyLenient}, wantErr: ErrMissingCredential},
		{name: "gemini without key", cfg: Config{VisionBackend: "gemini", CredentialPolicy: PolicyStrict}, wantErr: ErrMissingCredential},
		{name: "ollama needs no key", cfg: Config{VisionBackend: "ollama", CredentialPolicy: PolicyStrict}},
		{name: "unknown backend", cfg: Config{VisionBackend: "llava", CredentialPolicy: PolicyStrict}, anyErr: true},
		{name: "unknown policy", cfg: Config{VisionBackend: "ollama", CredentialPolicy: "maybe"}, anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestMissingCredentialNamesVariable(t *testing.T) {
	cfg := Config{VisionBackend: "moondream", CredentialPolicy: PolicyStrict}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOONDREAM_API_KEY")
	assert.True(t, cfg.Strict())
	assert.False(t, (&Config{CredentialPolicy: PolicyLenient}).Strict())
}

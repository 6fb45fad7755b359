package util

import (
	"os"
	"path/filepath"
	"testing"

	"newsalpha/internal/domain"

	"github.com/stretchr/testify/require"
)

func writeSecretsFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("NEWSALPHA_SECRETS_FILE", path)
}

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FINNHUB_API_KEY", "FRED_API_KEY", "OPENAI_API_KEY", "NEWSALPHA_INFERENCE_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Run("reads the secrets file", func(t *testing.T) {
		clearSecretEnv(t)
		writeSecretsFile(t, `{"finnhub": "fh-key", "fred": "fred-key", "gpt": "gpt-key", "inferenceUrl": "http://localhost:8000"}`)

		secrets, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, "fh-key", secrets.FinnhubApiKey)
		require.Equal(t, "fred-key", secrets.FredApiKey)
		require.Equal(t, "gpt-key", secrets.ChatGPTApiKey)
		require.Equal(t, "http://localhost:8000", secrets.InferenceUrl)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		clearSecretEnv(t)
		writeSecretsFile(t, `{"finnhub": "file-key"}`)
		t.Setenv("FINNHUB_API_KEY", "env-key")

		secrets, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, "env-key", secrets.FinnhubApiKey)
	})

	t.Run("missing file is fine when env is set", func(t *testing.T) {
		clearSecretEnv(t)
		t.Setenv("NEWSALPHA_SECRETS_FILE", filepath.Join(t.TempDir(), "nope.json"))
		t.Setenv("OPENAI_API_KEY", "env-gpt")

		secrets, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, "env-gpt", secrets.ChatGPTApiKey)
		require.Empty(t, secrets.FinnhubApiKey)
	})

	t.Run("unparseable file is a configuration error", func(t *testing.T) {
		clearSecretEnv(t)
		writeSecretsFile(t, "{not json")

		_, err := LoadSecrets()
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestRequireSecret(t *testing.T) {
	require.NoError(t, RequireSecret("FINNHUB_API_KEY", "something"))

	err := RequireSecret("FINNHUB_API_KEY", "")
	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.ErrorContains(t, err, "FINNHUB_API_KEY")
}

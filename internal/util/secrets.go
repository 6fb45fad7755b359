package util

import (
	"encoding/json"
	"fmt"
	"os"

	"newsalpha/internal/domain"
)

// Secrets hold provider credentials and model locations. They are read
// from secrets.json, but any value present in the process environment
// wins over the file - credentials never have a safe default, so a
// missing required secret is a startup failure.
type Secrets struct {
	FinnhubApiKey string `json:"finnhub"`
	FredApiKey    string `json:"fred"`
	ChatGPTApiKey string `json:"gpt"`
	InferenceUrl  string `json:"inferenceUrl"`
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "secrets.json"
	if f := os.Getenv("NEWSALPHA_SECRETS_FILE"); f != "" {
		secretsFile = f
	}

	secrets := Secrets{}
	f, err := os.ReadFile(secretsFile)
	if err == nil {
		if err := json.Unmarshal(f, &secrets); err != nil {
			return nil, fmt.Errorf("%w: could not parse %s: %s", domain.ErrConfiguration, secretsFile, err)
		}
	}

	// env always overrides the file
	overrides := []struct {
		env    string
		target *string
	}{
		{"FINNHUB_API_KEY", &secrets.FinnhubApiKey},
		{"FRED_API_KEY", &secrets.FredApiKey},
		{"OPENAI_API_KEY", &secrets.ChatGPTApiKey},
		{"NEWSALPHA_INFERENCE_URL", &secrets.InferenceUrl},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}

	return &secrets, nil
}

// RequireSecret fails fast when a command needs a credential that was
// neither in the secrets file nor the environment.
func RequireSecret(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: missing required secret %s", domain.ErrConfiguration, name)
	}
	return nil
}

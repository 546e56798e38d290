package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredential reports that the selected vision backend needs an API
// key and none is configured.
var ErrMissingCredential = errors.New("API key is missing")

const (
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

type Config struct {
	ListenAddr       string
	VisionBackend    string
	MoondreamAPIKey  string
	MoondreamURL     string
	OllamaHost       string
	OllamaModel      string
	ClaudeAPIKey     string
	ClaudeModel      string
	GeminiAPIKey     string
	GeminiModel      string
	ResponseMode     string
	CredentialPolicy string
	InferenceTimeout time.Duration
	HistoryDBPath    string
	LogLevel         string
	LogFile          string
}

// Load reads configuration from the environment. Values from ENV_FILE
// (default .env) fill in variables that are not already set; a missing file
// is not an error.
func Load() *Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		VisionBackend:    getEnv("VISION_BACKEND", "moondream"),
		MoondreamAPIKey:  getEnv("MOONDREAM_API_KEY", ""),
		MoondreamURL:     getEnv("MOONDREAM_URL", "https://api.moondream.ai"),
		OllamaHost:       getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "moondream"),
		ClaudeAPIKey:     getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:      getEnv("CLAUDE_MODEL", "claude-opus-4-6"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ResponseMode:     getEnv("RESPONSE_MODE", "structured"),
		CredentialPolicy: getEnv("CREDENTIAL_POLICY", PolicyStrict),
		InferenceTimeout: getDuration("INFERENCE_TIMEOUT", 60*time.Second),
		HistoryDBPath:    getEnv("HISTORY_DB_PATH", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

// CredentialEnv names the environment variable holding the API key for the
// selected backend, or "" when the backend needs none.
func (c *Config) CredentialEnv() string {
	switch c.VisionBackend {
	case "moondream":
		return "MOONDREAM_API_KEY"
	case "claude":
		return "CLAUDE_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

func (c *Config) credential() string {
	switch c.VisionBackend {
	case "moondream":
		return c.MoondreamAPIKey
	case "claude":
		return c.ClaudeAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// Validate checks the backend selection and its credential.
func (c *Config) Validate() error {
	switch c.VisionBackend {
	case "moondream", "ollama", "claude", "gemini":
	default:
		return fmt.Errorf("unknown VISION_BACKEND %q", c.VisionBackend)
	}
	switch c.CredentialPolicy {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("unknown CREDENTIAL_POLICY %q", c.CredentialPolicy)
	}
	if env := c.CredentialEnv(); env != "" && c.credential() == "" {
		return fmt.Errorf("%w: set %s in the environment or .env file", ErrMissingCredential, env)
	}
	return nil
}

// Strict reports whether a missing credential must block analysis.
func (c *Config) Strict() bool {
	return c.CredentialPolicy != PolicyLenient
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return d
}

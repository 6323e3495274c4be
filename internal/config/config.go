package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Engine         EngineConfig  `yaml:"engine"`
	LLM            LLMConfig     `yaml:"llm"`
}

// EngineConfig controls roadmap generation.
type EngineConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig holds settings for the Ollama client.
type LLMConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("HACKHUB_ADDR", ":8080"),
		JWTSecret:      getEnv("HACKHUB_JWT_SECRET", "supersecretkey"),
		APITimeout:     60 * time.Second,
		DatabasePath:   getEnv("HACKHUB_DATABASE_PATH", "hackhub.db"),
		TokenDuration:  24 * time.Hour,
		AllowedOrigins: splitList(getEnv("HACKHUB_ALLOWED_ORIGINS", "*")),
		Engine: EngineConfig{
			Model:   getEnv("HACKHUB_MODEL", "llama3"),
			Timeout: 45 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:                 getEnv("HACKHUB_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 45 * time.Second,
			Retries:                 2,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

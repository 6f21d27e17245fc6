// Package config resolves the small configuration surface: which generation
// provider to use, the per-pass model identifiers, the case library location,
// and the similarity pool bounds. Values come from an optional YAML file with
// environment variables taking precedence; everything has a working default
// except live-provider credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved settings for one process.
type Config struct {
	// Provider selects the generation backend: offline, gemini, or openai.
	// Empty means offline, the documented zero-cost fallback. Unrecognized
	// values are carried through and rejected by the provider factory; they
	// are never silently remapped.
	Provider string `yaml:"provider"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	OpenAIAPIKey string `yaml:"openai_api_key"`

	// PassAModel and PassBModel name the models for structured reasoning and
	// narrative rendering respectively.
	PassAModel string `yaml:"pass_a_model"`
	PassBModel string `yaml:"pass_b_model"`

	// DBPath locates the SQLite case library.
	DBPath string `yaml:"db_path"`

	// SimilarPoolSize caps how many most-recent cases similarity scoring
	// considers; SimilarTopK caps the ranked output.
	SimilarPoolSize int `yaml:"similar_pool_size"`
	SimilarTopK     int `yaml:"similar_top_k"`
}

// Default returns the baseline configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Provider:        "offline",
		PassAModel:      "gemini-2.5-flash",
		PassBModel:      "gemini-2.5-flash",
		DBPath:          filepath.Join(home, ".decisionmap", "cases.sqlite3"),
		SimilarPoolSize: 200,
		SimilarTopK:     3,
	}
}

// Load resolves configuration: defaults, then the YAML file at path (if path
// is empty or the file is absent it is skipped), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file.
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = "offline"
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. Env wins over file.
func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*dst = n
			}
		}
	}

	setString(&cfg.Provider, "LLM_PROVIDER")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.PassAModel, "PASS_A_MODEL")
	setString(&cfg.PassBModel, "PASS_B_MODEL")
	setString(&cfg.DBPath, "BCE_DB_PATH")
	setInt(&cfg.SimilarPoolSize, "SIMILAR_POOL_SIZE")
	setInt(&cfg.SimilarTopK, "SIMILAR_TOP_K")
}

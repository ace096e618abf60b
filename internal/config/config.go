// Package config loads process configuration: env vars (optionally via
// a .env file), the GitHub token, and an optional YAML tuning file for
// the pipeline's heuristic constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"reposcope/internal/tree"
)

type Config struct {
	Port        string
	Provider    string
	GitHubToken string
	Tuning      Tuning
}

// Tuning carries the heuristic constants of the pipeline. They have no
// derived basis and are the most likely candidates for future
// adjustment, so they live in a file rather than in code. Zero values
// mean "use the default".
type Tuning struct {
	MaxChildren     int      `yaml:"max_children"`
	MaxTotalEntries int      `yaml:"max_total_entries"`
	MaxDocBytes     int64    `yaml:"max_doc_bytes"`
	MaxSourceBytes  int64    `yaml:"max_source_bytes"`
	MaxFilePicks    int      `yaml:"max_file_picks"`
	MaxDepth        int      `yaml:"max_depth"`
	MaxAPICalls     int      `yaml:"max_api_calls"`
	GuidedMinTokens int      `yaml:"guided_min_tokens"`
	IgnoreGlobs     []string `yaml:"ignore"`
}

func (t Tuning) PruneConfig() tree.PruneConfig {
	cfg := tree.DefaultPruneConfig()
	if t.MaxChildren > 0 {
		cfg.MaxChildren = t.MaxChildren
	}
	if t.MaxTotalEntries > 0 {
		cfg.MaxTotalEntries = t.MaxTotalEntries
	}
	return cfg
}

func (t Tuning) FallbackConfig() tree.FallbackConfig {
	cfg := tree.DefaultFallbackConfig()
	if t.MaxDocBytes > 0 {
		cfg.MaxDocBytes = t.MaxDocBytes
	}
	if t.MaxSourceBytes > 0 {
		cfg.MaxSourceBytes = t.MaxSourceBytes
	}
	if t.MaxFilePicks > 0 {
		cfg.MaxPicks = t.MaxFilePicks
	}
	return cfg
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present. tuningPath may be empty;
// the REPOSCOPE_CONFIG env var is the fallback location.
func Load(tuningPath string) (*Config, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	if tuningPath == "" {
		tuningPath = strings.TrimSpace(os.Getenv("REPOSCOPE_CONFIG"))
	}
	tuning, err := LoadTuning(tuningPath)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        port,
		Provider:    strings.TrimSpace(os.Getenv("LLM_PROVIDER")),
		GitHubToken: GitHubToken("", false),
		Tuning:      tuning,
	}, nil
}

// LoadTuning parses the YAML tuning file at path. An empty path or a
// missing file yields zero tuning (all defaults).
func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return t, nil
}

// GitHubToken resolves the API token: explicit file, GITHUB_TOKEN env
// var, then the conventional ~/.ssh/github_token. noToken forces
// unauthenticated access.
func GitHubToken(tokenFile string, noToken bool) string {
	if noToken {
		return ""
	}
	if tokenFile != "" {
		if raw, err := os.ReadFile(tokenFile); err == nil {
			return strings.TrimSpace(string(raw))
		}
	}
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		return token
	}
	if home, err := os.UserHomeDir(); err == nil {
		if raw, err := os.ReadFile(filepath.Join(home, ".ssh", "github_token")); err == nil {
			return strings.TrimSpace(string(raw))
		}
	}
	return ""
}

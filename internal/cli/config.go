// Package cli wires configuration files and environment variables into a
// running engine for the jobatlas command.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/steps"
)

// DefaultConfigPath is tried when no --config flag is given. A missing
// default file is not an error; a missing explicit file is.
const DefaultConfigPath = "jobatlas.yaml"

// Config is the full configuration of the jobatlas command.
type Config struct {
	Store    StoreConfig      `mapstructure:"store"`
	OpenAI   OpenAIConfig     `mapstructure:"openai"`
	Fidelity string           `mapstructure:"fidelity"`
	EndUsers int              `mapstructure:"end_users"`
	Jobs     int              `mapstructure:"jobs"`
	Pipeline []steps.StepSpec `mapstructure:"pipeline"`
}

// StoreConfig selects and configures the tree store backend.
type StoreConfig struct {
	// Backend is one of "file", "redis" or "memory".
	Backend string      `mapstructure:"backend"`
	Path    string      `mapstructure:"path"`
	Redis   RedisConfig `mapstructure:"redis"`
	// EncryptionKey is a hex-encoded 32-byte key. When set, node text is
	// encrypted at rest with AES-256-GCM.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys are previous hex-encoded keys kept readable during
	// rotation.
	FallbackKeys []string `mapstructure:"fallback_keys"`
	// RedactPatterns are regular expressions matched against node names.
	// Matching nodes get their description blanked before persistence.
	RedactPatterns []string `mapstructure:"redact_patterns"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// Lock enables the distributed per-industry lock, for deployments
	// where several instances share one redis.
	Lock bool `mapstructure:"lock"`
}

// OpenAIConfig configures the generation gateway.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Fidelity: string(domain.FidelityComprehensive),
	}
}

// Load reads a YAML config file and merges it over the defaults. An empty
// path means DefaultConfigPath, which is allowed to be absent. Environment
// variables fill in credentials the file leaves out.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		applyEnv(&cfg)
		return cfg, cfg.Validate()
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// applyEnv fills credentials from the environment when the file leaves
// them empty, so keys can stay out of checked-in config.
func applyEnv(cfg *Config) {
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("JOBATLAS_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("JOBATLAS_REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if cfg.Store.EncryptionKey == "" {
		cfg.Store.EncryptionKey = os.Getenv("JOBATLAS_ENCRYPTION_KEY")
	}
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("unknown store backend %q (want file, redis or memory)", c.Store.Backend)
	}

	switch domain.Fidelity(c.Fidelity) {
	case domain.FidelityLow, domain.FidelityMed, domain.FidelityHigh, domain.FidelityComprehensive:
	default:
		return fmt.Errorf("unknown fidelity %q", c.Fidelity)
	}
	return nil
}

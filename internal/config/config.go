package config

import (
	"fmt"
	"os"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/internal/util"
	"github.com/OFFIS-RIT/contingency/backend/pkg/graph"

	"gopkg.in/yaml.v3"
)

// Config is the pipeline configuration. Values come from the optional YAML
// file named by PIPELINE_CONFIG and are then overridden by the environment.
type Config struct {
	AI struct {
		Adapter          string        `yaml:"adapter"`
		ChatModel        string        `yaml:"chat_model"`
		ChatURL          string        `yaml:"chat_url"`
		ChatKey          string        `yaml:"chat_key"`
		ParallelRequests int           `yaml:"parallel_requests"`
		Attempts         int           `yaml:"attempts"`
		BaseDelay        time.Duration `yaml:"base_delay"`
		Temperature      float64       `yaml:"temperature"`
		TokenEncoder     string        `yaml:"token_encoder"`
		ContextWarnToken int           `yaml:"context_warn_tokens"`
	} `yaml:"ai"`
	Stages struct {
		Conditions bool `yaml:"conditions"`
		Modulating bool `yaml:"modulating"`
	} `yaml:"stages"`
	Store struct {
		Adapter        string        `yaml:"adapter"`
		DatabaseURL    string        `yaml:"database_url"`
		SQLitePath     string        `yaml:"sqlite_path"`
		MigrationsPath string        `yaml:"migrations_path"`
		LeaseTTL       time.Duration `yaml:"lease_ttl"`
	} `yaml:"store"`
}

// Default returns the configuration used when neither file nor environment
// sets a value.
func Default() *Config {
	cfg := &Config{}
	cfg.AI.Adapter = "openai"
	cfg.AI.ParallelRequests = 15
	cfg.AI.Attempts = 3
	cfg.AI.BaseDelay = 2 * time.Second
	cfg.AI.Temperature = 0.01
	cfg.AI.TokenEncoder = "o200k_base"
	cfg.AI.ContextWarnToken = 100000
	cfg.Store.Adapter = "postgres"
	cfg.Store.SQLitePath = "analyses.db"
	cfg.Store.LeaseTTL = 5 * time.Minute
	return cfg
}

// Load reads the YAML file at path over the defaults and applies env
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read pipeline config: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse pipeline config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv loads the file named by PIPELINE_CONFIG, if any.
func FromEnv() (*Config, error) {
	return Load(util.GetEnv("PIPELINE_CONFIG"))
}

func (c *Config) applyEnv() {
	c.AI.Adapter = util.GetEnvString("AI_ADAPTER", c.AI.Adapter)
	c.AI.ChatModel = util.GetEnvString("AI_CHAT_MODEL", c.AI.ChatModel)
	c.AI.ChatURL = util.GetEnvString("AI_CHAT_URL", c.AI.ChatURL)
	c.AI.ChatKey = util.GetEnvString("AI_CHAT_KEY", c.AI.ChatKey)
	c.AI.ParallelRequests = int(util.GetEnvNumeric("AI_PARALLEL_REQ", c.AI.ParallelRequests))
	c.AI.Attempts = int(util.GetEnvNumeric("AI_RETRY_ATTEMPTS", c.AI.Attempts))
	c.AI.BaseDelay = util.GetEnvDuration("AI_RETRY_BASE_DELAY", c.AI.BaseDelay)
	c.AI.TokenEncoder = util.GetEnvString("AI_TOKEN_ENCODER", c.AI.TokenEncoder)
	c.AI.ContextWarnToken = int(util.GetEnvNumeric("AI_CONTEXT_WARN_TOKENS", c.AI.ContextWarnToken))
	if v := util.GetEnv("AI_TEMPERATURE"); v != "" {
		var t float64
		if _, err := fmt.Sscanf(v, "%g", &t); err == nil {
			c.AI.Temperature = t
		}
	}

	c.Stages.Conditions = util.GetEnvBool("STAGE_CONDITIONS", c.Stages.Conditions)
	c.Stages.Modulating = util.GetEnvBool("STAGE_MODULATING", c.Stages.Modulating)

	c.Store.Adapter = util.GetEnvString("STORE_ADAPTER", c.Store.Adapter)
	c.Store.DatabaseURL = util.GetEnvString("DATABASE_URL", c.Store.DatabaseURL)
	c.Store.SQLitePath = util.GetEnvString("SQLITE_PATH", c.Store.SQLitePath)
	c.Store.MigrationsPath = util.GetEnvString("MIGRATIONS_PATH", c.Store.MigrationsPath)
	c.Store.LeaseTTL = util.GetEnvDuration("TASK_LEASE_TTL", c.Store.LeaseTTL)
}

// GraphParams maps the configuration onto the pipeline client parameters.
func (c *Config) GraphParams() graph.NewGraphClientParams {
	return graph.NewGraphClientParams{
		TokenEncoder:      c.AI.TokenEncoder,
		ContextWarnTokens: c.AI.ContextWarnToken,
		MaxRetries:        c.AI.Attempts,
		RetryBaseDelay:    c.AI.BaseDelay,
		Temperature:       c.AI.Temperature,
		EnableConditions:  c.Stages.Conditions,
		EnableModulating:  c.Stages.Modulating,
	}
}

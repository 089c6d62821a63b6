// Package config loads the triage configuration from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/adapters/openai"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit file is given. Its absence is not an error.
const DefaultPath = "triage.yaml"

// Environment overrides.
const (
	EnvModel     = "TRIAGE_LLM_MODEL"
	EnvBaseURL   = "TRIAGE_LLM_BASE_URL"
	EnvLogLevel  = "TRIAGE_LOG_LEVEL"
	EnvLogFormat = "TRIAGE_LOG_FORMAT"
	EnvMaxInput  = "TRIAGE_MAX_INPUT_SIZE"
)

// Config is the root of triage.yaml.
type Config struct {
	LLM     LLM     `yaml:"llm" mapstructure:"llm"`
	Engine  Engine  `yaml:"engine" mapstructure:"engine"`
	Server  Server  `yaml:"server" mapstructure:"server"`
	Log     Log     `yaml:"log" mapstructure:"log"`
	Prompts Prompts `yaml:"prompts" mapstructure:"prompts"`
	Input   Input   `yaml:"input" mapstructure:"input"`
}

// LLM selects the completion endpoint.
type LLM struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// Engine tunes the executor.
type Engine struct {
	NodeTimeout time.Duration `yaml:"node_timeout" mapstructure:"node_timeout"`
}

// Server configures `triage serve`.
type Server struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Prompts points at a directory of prompt overrides.
type Prompts struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Input bounds queries accepted by every front end.
type Input struct {
	// MaxSize is the largest accepted query in bytes.
	MaxSize int `yaml:"max_size" mapstructure:"max_size"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LLM: LLM{
			BaseURL:   openai.DefaultBaseURL,
			Model:     openai.DefaultModel,
			APIKeyEnv: "GROQ_API_KEY",
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Format: string(logging.FormatText)},
		Input:  Input{MaxSize: runner.DefaultMaxInputSize},
	}
}

// Load reads path (or DefaultPath when empty) over the defaults and applies
// environment overrides. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode unmarshals YAML onto cfg, keeping defaults for absent keys.
// Durations need Go syntax with a unit ("30s"); bare numbers other than 0 are
// rejected. Unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			durationUnitHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var durationType = reflect.TypeOf(time.Duration(0))

func durationUnitHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from.Kind() == reflect.String {
		return data, nil
	}
	if v := reflect.ValueOf(data); v.CanInt() && v.Int() == 0 {
		return data, nil
	}
	return nil, fmt.Errorf("duration %v has no unit, write it like \"30s\"", data)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvMaxInput); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxInput, err)
		}
		c.Input.MaxSize = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	if c.Engine.NodeTimeout < 0 {
		return fmt.Errorf("engine.node_timeout: must not be negative, got %s", c.Engine.NodeTimeout)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature: must be within [0, 2], got %s", strconv.FormatFloat(c.LLM.Temperature, 'g', -1, 64))
	}
	if c.Input.MaxSize <= 0 {
		return fmt.Errorf("input.max_size: must be positive, got %d", c.Input.MaxSize)
	}
	if c.LLM.APIKeyEnv == "" {
		return errors.New("llm.api_key_env: must not be empty")
	}
	return nil
}

// APIKey reads the key from the variable named by llm.api_key_env.
func (c Config) APIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

// LoadDotEnv loads variables from the given files (default ".env") into the
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

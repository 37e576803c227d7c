package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Data    DataConfig
	Graph   GraphConfig
	Logging LoggingConfig
	LLM     LLMConfig
	Tasks   TaskConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
	AllowCredentials  bool
}

// DataConfig points at the directory holding the demo datasets.
type DataConfig struct {
	Root string
}

// Friendship sources accepted by GraphConfig.Source.
const (
	SourceCSV   = "csv"
	SourceNeo4j = "neo4j"
)

// GraphConfig describes connectivity to the optional Neo4j friendship store.
type GraphConfig struct {
	Source         string
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
	File          string
	MaxSizeMB     int
	MaxAgeDays    int
	MaxBackups    int
}

// LLMConfig configures the OpenAI-compatible chat completion client.
type LLMConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float64
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Enabled reports whether an API key is present.
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// TaskConfig bounds the background task manager.
type TaskConfig struct {
	Workers   int
	Retention time.Duration
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 60 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultDataRoot         = "./data"
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultLogFileMaxSize   = 100
	defaultLogFileMaxAge    = 28
	defaultGraphMaxSessions = 10
	defaultLLMBaseURL       = "https://api.openai.com/v1"
	defaultLLMModel         = "gpt-3.5-turbo"
	defaultLLMTemperature   = 1.0
	defaultLLMTimeout       = 60 * time.Second
	defaultLLMRate          = 1.0
	defaultTaskWorkers      = 2
	defaultTaskRetention    = 30 * time.Minute

	// ConfigFileEnv names the optional YAML overlay file.
	ConfigFileEnv = "DEMOLAB_CONFIG"
)

// Load reads configuration from a .env file, an optional YAML overlay and
// environment variables, in increasing order of precedence.
func Load() (Config, error) {
	return loadFrom(".env")
}

func loadFrom(dotenvPath string) (Config, error) {
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	overlay := os.Getenv(ConfigFileEnv)
	if overlay == "" {
		overlay = dotenv[ConfigFileEnv]
	}
	file, err := readOverlay(overlay)
	if err != nil {
		return Config{}, err
	}
	return build(source{dotenv: dotenv, file: file})
}

func build(src source) (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              src.valueOrDefault("SERVER_HOST", defaultHost),
			AllowedOriginsCSV: src.value("CORS_ALLOWED_ORIGINS"),
			AllowCredentials:  src.parseBoolWithDefault("CORS_ALLOW_CREDENTIALS", false),
		},
		Data: DataConfig{
			Root: src.valueOrDefault("DATA_ROOT", defaultDataRoot),
		},
		Logging: LoggingConfig{
			Level:         src.valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        src.valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: src.parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
			File:          src.value("LOG_FILE"),
			MaxSizeMB:     src.parseIntWithDefault("LOG_FILE_MAX_SIZE_MB", defaultLogFileMaxSize),
			MaxAgeDays:    src.parseIntWithDefault("LOG_FILE_MAX_AGE_DAYS", defaultLogFileMaxAge),
			MaxBackups:    src.parseIntWithDefault("LOG_FILE_MAX_BACKUPS", 0),
		},
		Graph: GraphConfig{
			Source:         strings.ToLower(src.valueOrDefault("GRAPH_SOURCE", SourceCSV)),
			URI:            src.value("GRAPH_URI"),
			Database:       src.value("GRAPH_DATABASE"),
			Username:       src.value("GRAPH_USERNAME"),
			Password:       src.value("GRAPH_PASSWORD"),
			MaxConnections: src.parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		LLM: LLMConfig{
			APIKey:  src.value("OPENAI_API_KEY"),
			BaseURL: strings.TrimRight(src.valueOrDefault("OPENAI_BASE_URL", defaultLLMBaseURL), "/"),
			Model:   src.valueOrDefault("OPENAI_MODEL", defaultLLMModel),
		},
		Tasks: TaskConfig{
			Workers: src.parseIntWithDefault("TASK_WORKERS", defaultTaskWorkers),
		},
	}

	switch cfg.Graph.Source {
	case SourceCSV, SourceNeo4j:
	default:
		return Config{}, fmt.Errorf("invalid GRAPH_SOURCE %q: expected %s or %s", cfg.Graph.Source, SourceCSV, SourceNeo4j)
	}

	port, err := src.parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
		{"OPENAI_TIMEOUT", defaultLLMTimeout, &cfg.LLM.Timeout},
		{"TASK_RETENTION", defaultTaskRetention, &cfg.Tasks.Retention},
	}
	for _, d := range durations {
		v, err := src.parseDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}

	if cfg.LLM.Temperature, err = src.parseFloat("OPENAI_TEMPERATURE", defaultLLMTemperature); err != nil {
		return Config{}, err
	}
	if cfg.LLM.RequestsPerSecond, err = src.parseFloat("OPENAI_REQUESTS_PER_SECOND", defaultLLMRate); err != nil {
		return Config{}, err
	}
	if cfg.Tasks.Workers <= 0 {
		cfg.Tasks.Workers = defaultTaskWorkers
	}

	return cfg, nil
}

// readOverlay parses a flat YAML mapping whose keys mirror the environment
// variable names, case-insensitively (data_root: ./data).
func readOverlay(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

// source resolves keys from the environment first, then the YAML overlay,
// then the .env file.
type source struct {
	dotenv map[string]string
	file   map[string]string
}

func (s source) value(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.file[key]; v != "" {
		return v
	}
	return s.dotenv[key]
}

func (s source) valueOrDefault(key, fallback string) string {
	if v := s.value(key); v != "" {
		return v
	}
	return fallback
}

func (s source) parseBoolWithDefault(key string, fallback bool) bool {
	if v := s.value(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func (s source) parseIntWithDefault(key string, fallback int) int {
	if v := s.value(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func (s source) parseFloat(key string, fallback float64) (float64, error) {
	v := s.value(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return f, nil
}

func (s source) parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := s.value(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func (s source) parsePort(key string, fallback int) (int, error) {
	if v := s.value(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}

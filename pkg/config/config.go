package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	KB        KBConfig        `yaml:"kb"`
	Request   RequestConfig   `yaml:"request"`
	LLM       LLMConfig       `yaml:"llm"`
	Translate TranslateConfig `yaml:"translate"`
	TTS       TTSConfig       `yaml:"tts"`
	Speech    SpeechConfig    `yaml:"speech"`
	Weather   WeatherConfig   `yaml:"weather"`
	Detect    DetectConfig    `yaml:"detect"`
	Artifacts ArtifactConfig  `yaml:"artifacts"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	LLM      LogSettings `yaml:"llm"`
	TTS      LogSettings `yaml:"tts"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path     string   `yaml:"path"`
	CacheTTL Duration `yaml:"cache_ttl"`
}

// KBConfig holds knowledge-base settings.
type KBConfig struct {
	Path string `yaml:"path"`
}

// RequestConfig holds outbound HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// LLMConfig holds settings for the Large Language Model provider.
type LLMConfig struct {
	Provider string            `yaml:"provider"` // "gemini", "none"
	Model    string            `yaml:"model"`
	Key      string            `yaml:"key"`
	Timeout  Duration          `yaml:"timeout"`
	Profiles map[string]string `yaml:"profiles"` // Map intent -> model
}

// TranslateConfig holds translation gateway settings.
type TranslateConfig struct {
	Provider string   `yaml:"provider"` // "gemini", "passthrough"
	Timeout  Duration `yaml:"timeout"`
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine       string            `yaml:"engine"` // "edge-tts", "mock"
	Timeout      Duration          `yaml:"timeout"`
	DefaultVoice string            `yaml:"default_voice"`
	Voices       map[string]string `yaml:"voices"` // language code -> voice ID
}

// SpeechConfig holds speech-recognition settings.
type SpeechConfig struct {
	Endpoint string   `yaml:"endpoint"` // ASR service URL, empty disables recognition
	Timeout  Duration `yaml:"timeout"`
}

// WeatherConfig holds weather collaborator settings.
type WeatherConfig struct {
	Key             string   `yaml:"key"`
	BaseURL         string   `yaml:"base_url"`
	DefaultLocation string   `yaml:"default_location"`
	Timeout         Duration `yaml:"timeout"`
}

// DetectConfig holds image-classifier collaborator settings.
type DetectConfig struct {
	Endpoint string   `yaml:"endpoint"` // classifier service URL, empty disables /api/detect
	Timeout  Duration `yaml:"timeout"`
}

// ArtifactConfig holds audio artifact storage settings.
type ArtifactConfig struct {
	Dir string `yaml:"dir"` // empty means a fresh os.MkdirTemp directory
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:8090",
		},
		Log: LogConfig{
			Server:   LogSettings{Path: "./logs/server.log", Level: "INFO"},
			Requests: LogSettings{Path: "./logs/requests.log", Level: "INFO"},
			LLM:      LogSettings{Path: "./logs/llm.log", Level: "INFO"},
			TTS:      LogSettings{Path: "./logs/tts.log", Level: "INFO"},
		},
		DB: DBConfig{
			Path:     "./data/krishi.db",
			CacheTTL: Duration(30 * time.Minute),
		},
		KB: KBConfig{
			Path: "./data/disease_info.json",
		},
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(30 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(30 * time.Second),
			},
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash-lite",
			Key:      "",
			Timeout:  Duration(30 * time.Second),
			Profiles: map[string]string{
				"answer":    "gemini-2.5-flash",
				"translate": "gemini-2.5-flash-lite",
			},
		},
		Translate: TranslateConfig{
			Provider: "gemini",
			Timeout:  Duration(10 * time.Second),
		},
		TTS: TTSConfig{
			Engine:       "edge-tts",
			Timeout:      Duration(20 * time.Second),
			DefaultVoice: "en-IN-NeerjaNeural",
			Voices: map[string]string{
				"en": "en-IN-NeerjaNeural",
				"hi": "hi-IN-SwaraNeural",
				"te": "te-IN-ShrutiNeural",
				"bn": "bn-IN-TanishaaNeural",
				"ta": "ta-IN-PallaviNeural",
			},
		},
		Speech: SpeechConfig{
			Endpoint: "",
			Timeout:  Duration(10 * time.Second),
		},
		Weather: WeatherConfig{
			Key:             "",
			BaseURL:         "https://api.openweathermap.org/data/2.5/weather",
			DefaultLocation: "Delhi",
			Timeout:         Duration(10 * time.Second),
		},
		Detect: DetectConfig{
			Endpoint: "",
			Timeout:  Duration(30 * time.Second),
		},
		Artifacts: ArtifactConfig{
			Dir: "",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		cfg.applyEnv()
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills empty credentials and endpoints from the environment. Keys
// never written to the config file still work via .env / process env, and an
// absent key only disables its dependent feature.
func (c *Config) applyEnv() {
	if c.LLM.Key == "" {
		c.LLM.Key = os.Getenv("GEMINI_API_KEY")
	}
	if c.Weather.Key == "" {
		c.Weather.Key = os.Getenv("OPENWEATHER_API_KEY")
	}
	if c.Speech.Endpoint == "" {
		c.Speech.Endpoint = os.Getenv("ASR_ENDPOINT")
	}
	if c.Detect.Endpoint == "" {
		c.Detect.Endpoint = os.Getenv("CLASSIFIER_ENDPOINT")
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# KrishiGo Configuration
# ---------------------
# Credentials (llm.key, weather.key) may be left empty and provided via
# environment instead: GEMINI_API_KEY, OPENWEATHER_API_KEY, ASR_ENDPOINT,
# CLASSIFIER_ENDPOINT. A missing credential disables only that feature.
# Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: edge-tts, mock\n${1}engine:"))

	reProvider := regexp.MustCompile(`(?m)^(\s+)provider: gemini`)
	data = reProvider.ReplaceAll(data, []byte("${1}# Options: gemini, passthrough/none\n${1}provider: gemini"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}

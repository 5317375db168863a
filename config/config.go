package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// GoogleAIConfig configures the Gemini provider. The credentials file
// falls back to GOOGLE_APPLICATION_CREDENTIALS, the key to GOOGLE_API_KEY.
type GoogleAIConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	APIKeyEnv       string `yaml:"api_key_env"`
	Model           string `yaml:"model"`
	EmbeddingModel  string `yaml:"embedding_model"`
}

// OpenAIConfig configures any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// OllamaConfig configures a local Ollama server.
type OllamaConfig struct {
	ServerURL      string `yaml:"server_url"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// ChunkingConfig configures how extracted text is split before embedding.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// Config is the root application configuration.
type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	UIAddr     string         `yaml:"ui_addr"`
	APIBaseURL string         `yaml:"api_base_url"`
	Provider   string         `yaml:"provider"`
	GoogleAI   GoogleAIConfig `yaml:"googleai"`
	OpenAI     OpenAIConfig   `yaml:"openai"`
	Ollama     OllamaConfig   `yaml:"ollama"`
	Chunking   ChunkingConfig `yaml:"chunking"`
	TopK       int            `yaml:"top_k"`
	MaxUpload  int            `yaml:"max_upload_mb"`
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultTopK         = 4
	defaultMaxUploadMB  = 50
)

// Load reads the config from path. A missing file is not an error: the
// defaults describe a working googleai setup driven entirely by env vars.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr: ":8000",
		UIAddr:     ":7860",
		APIBaseURL: "http://127.0.0.1:8000",
		Provider:   "googleai",
		GoogleAI: GoogleAIConfig{
			APIKeyEnv:      "GOOGLE_API_KEY",
			Model:          "gemini-pro",
			EmbeddingModel: "embedding-001",
		},
		OpenAI: OpenAIConfig{
			APIKeyEnv:      "OPENAI_API_KEY",
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Ollama: OllamaConfig{
			ServerURL:      "http://localhost:11434",
			Model:          "llama3",
			EmbeddingModel: "nomic-embed-text",
		},
		Chunking:  ChunkingConfig{Size: defaultChunkSize, Overlap: defaultChunkOverlap},
		TopK:      defaultTopK,
		MaxUpload: defaultMaxUploadMB,
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.UIAddr == "" {
		cfg.UIAddr = def.UIAddr
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = def.APIBaseURL
	}
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if cfg.GoogleAI.APIKeyEnv == "" {
		cfg.GoogleAI.APIKeyEnv = def.GoogleAI.APIKeyEnv
	}
	if cfg.GoogleAI.Model == "" {
		cfg.GoogleAI.Model = def.GoogleAI.Model
	}
	if cfg.GoogleAI.EmbeddingModel == "" {
		cfg.GoogleAI.EmbeddingModel = def.GoogleAI.EmbeddingModel
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = def.OpenAI.APIKeyEnv
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = def.OpenAI.Model
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = def.OpenAI.EmbeddingModel
	}
	if cfg.Ollama.ServerURL == "" {
		cfg.Ollama.ServerURL = def.Ollama.ServerURL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = def.Ollama.Model
	}
	if cfg.Ollama.EmbeddingModel == "" {
		cfg.Ollama.EmbeddingModel = def.Ollama.EmbeddingModel
	}
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking.Size = defaultChunkSize
	}
	if cfg.Chunking.Overlap < 0 {
		cfg.Chunking.Overlap = defaultChunkOverlap
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = defaultMaxUploadMB
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("UI_ADDR"); v != "" {
		cfg.UIAddr = v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if cfg.GoogleAI.CredentialsFile == "" {
		cfg.GoogleAI.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
}

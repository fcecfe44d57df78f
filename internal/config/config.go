package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	RAG      RAGConfig      `yaml:"rag"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	UploadDir string `yaml:"upload_dir"`
}

type RAGConfig struct {
	Store          string `yaml:"store"` // memory, chromem or pgvector
	StorePath      string `yaml:"store_path"`
	CollectionName string `yaml:"collection_name"`
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap"`
	PerDocumentK   int    `yaml:"per_document_k"`
	EncryptionKey  string `yaml:"encryption_key"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // openai or ollama
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = "./pdfs_posted"
	}
	if cfg.RAG.Store == "" {
		cfg.RAG.Store = "memory"
	}
	if cfg.RAG.StorePath == "" {
		cfg.RAG.StorePath = "./chromemdb"
	}
	if cfg.RAG.CollectionName == "" {
		cfg.RAG.CollectionName = "resumes"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.PerDocumentK == 0 {
		cfg.RAG.PerDocumentK = 2
	}
}

// applyEnv lets secrets come from the environment instead of the yaml
// file. A .env in the working directory is honored when present.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.ChatLLM.Key = v
	}
	if v := os.Getenv("EMBED_API_KEY"); v != "" {
		cfg.EmbedLLM.Key = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		cfg.ChatLLM.Model = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Server.UploadDir = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		cfg.RAG.StorePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
}

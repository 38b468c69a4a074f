package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Admin  AdminConfig  `mapstructure:"admin"`
	Store  StoreConfig  `mapstructure:"store"`
	Index  IndexConfig  `mapstructure:"index"`
	LLM    LLMConfig    `mapstructure:"llm"`
	RAG    RAGConfig    `mapstructure:"rag"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AdminConfig holds authentication for destructive endpoints
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// StoreConfig selects and configures the metadata/history store backend
type StoreConfig struct {
	Backend    string `mapstructure:"backend"` // sqlite, mongo
	SQLitePath string `mapstructure:"sqlite_path"`
	MongoURI   string `mapstructure:"mongo_uri"`
	MongoDB    string `mapstructure:"mongo_db"`
}

// IndexConfig selects and configures the vector index backend
type IndexConfig struct {
	Backend          string `mapstructure:"backend"` // memory, qdrant
	QdrantURL        string `mapstructure:"qdrant_url"`
	QdrantAPIKey     string `mapstructure:"qdrant_api_key"`
	QdrantCollection string `mapstructure:"qdrant_collection"`
}

// LLMConfig holds embedding/LLM provider configuration
type LLMConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	ChatModel      string `mapstructure:"chat_model"`
}

// RAGConfig holds pipeline tuning parameters
type RAGConfig struct {
	ChunkSize        int `mapstructure:"chunk_size"`         // tokens per chunk
	ChunkOverlap     int `mapstructure:"chunk_overlap"`      // token-suffix overlap
	TopKDefault      int `mapstructure:"top_k_default"`      // retrieval depth when unset
	MaxHistoryTurns  int `mapstructure:"max_history_turns"`  // history read window
	EmbedConcurrency int `mapstructure:"embed_concurrency"`  // parallel embedding calls per upload
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("DOCQA")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("admin.api_key", "")

	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.sqlite_path", "./data/docqa.db")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_db", "conversational_rag")

	v.SetDefault("index.backend", "memory")
	v.SetDefault("index.qdrant_url", "http://localhost:6333")
	v.SetDefault("index.qdrant_api_key", "")
	v.SetDefault("index.qdrant_collection", "document_chunks")

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.embedding_model", "text-embedding-3-small")
	v.SetDefault("llm.chat_model", "gpt-3.5-turbo")

	v.SetDefault("rag.chunk_size", 400)
	v.SetDefault("rag.chunk_overlap", 50)
	v.SetDefault("rag.top_k_default", 4)
	v.SetDefault("rag.max_history_turns", 5)
	v.SetDefault("rag.embed_concurrency", 4)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

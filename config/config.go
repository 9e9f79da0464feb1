package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"lingotutor/crawler"
	"lingotutor/search"
	"lingotutor/summarize"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort             int
	ProxyURL            string
	TranscriptsDir      string
	TranscriptQueueSize int

	Search  *search.Config
	Crawler *crawler.CrawlerConfig
	LLM     summarize.LLMConfig
}

// fileConfig is the layout of the optional YAML file named by LINGOTUTOR_CONFIG.
type fileConfig struct {
	Search  search.Config         `yaml:"search"`
	Crawler crawler.CrawlerConfig `yaml:"crawler"`
	LLM     summarize.LLMConfig   `yaml:"llm"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	queueSize, err := strconv.Atoi(getEnv("TRANSCRIPT_QUEUE_SIZE", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIPT_QUEUE_SIZE: %w", err)
	}

	fc := fileConfig{
		Search:  *search.DefaultConfig(),
		Crawler: *crawler.DefaultConfig(),
		LLM: summarize.LLMConfig{
			Model: "gpt-4o-mini",
		},
	}
	if path := os.Getenv("LINGOTUTOR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	llm := fc.LLM
	llm.APIKey = os.Getenv("OPENAI_API_KEY")
	llm.Model = getEnv("OPENAI_MODEL", llm.Model)
	llm.BaseURL = getEnv("OPENAI_BASE_URL", llm.BaseURL)

	return &Config{
		AppPort:             appPort,
		ProxyURL:            os.Getenv("PROXY_URL"),
		TranscriptsDir:      getEnv("TRANSCRIPTS_DIR", "Transcripts"),
		TranscriptQueueSize: queueSize,
		Search:              &fc.Search,
		Crawler:             &fc.Crawler,
		LLM:                 llm,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

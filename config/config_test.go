package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lingotutor/crawler"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "PROXY_URL", "TRANSCRIPTS_DIR", "TRANSCRIPT_QUEUE_SIZE",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "LINGOTUTOR_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.AppPort)
	}
	if cfg.TranscriptsDir != "Transcripts" || cfg.TranscriptQueueSize != 64 {
		t.Errorf("unexpected transcript settings %q %d", cfg.TranscriptsDir, cfg.TranscriptQueueSize)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.APIKey != "" {
		t.Errorf("unexpected llm settings %+v", cfg.LLM)
	}
	if cfg.Search.Endpoint != "https://html.duckduckgo.com/html/" || cfg.Search.DefaultMaxResults != 5 {
		t.Errorf("unexpected search settings %+v", cfg.Search)
	}
	if cfg.Crawler.RequestTimeout != 10*time.Second || cfg.Crawler.MaxChars != 5000 {
		t.Errorf("unexpected crawler settings %+v", cfg.Crawler)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PROXY_URL", "http://proxy.local:3128")
	t.Setenv("TRANSCRIPTS_DIR", "/tmp/transcripts")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppPort != 9090 || cfg.ProxyURL != "http://proxy.local:3128" || cfg.TranscriptsDir != "/tmp/transcripts" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LLM.APIKey != "sk-test" || cfg.LLM.Model != "gpt-4o" || cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("unexpected llm settings %+v", cfg.LLM)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "lingotutor.yaml")
	yamlDoc := `
search:
  locale: es-es
  pool_multiplier: 4
crawler:
  request_timeout: 3s
  extractor_mode: readability
  max_chars: 2000
llm:
  model: gpt-4.1-mini
  temperature: 0.3
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	t.Setenv("LINGOTUTOR_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.Locale != "es-es" || cfg.Search.PoolMultiplier != 4 {
		t.Errorf("search overrides not applied: %+v", cfg.Search)
	}
	if cfg.Search.OrganicSelector != "div.web-result" {
		t.Errorf("unset search fields must keep defaults, got %q", cfg.Search.OrganicSelector)
	}
	if cfg.Crawler.RequestTimeout != 3*time.Second || cfg.Crawler.ExtractorMode != crawler.ExtractorReadability || cfg.Crawler.MaxChars != 2000 {
		t.Errorf("crawler overrides not applied: %+v", cfg.Crawler)
	}
	if cfg.Crawler.ParagraphLimit != 20 {
		t.Errorf("unset crawler fields must keep defaults, got %d", cfg.Crawler.ParagraphLimit)
	}
	if cfg.LLM.Model != "gpt-4.1-mini" || cfg.LLM.Temperature != 0.3 {
		t.Errorf("llm overrides not applied: %+v", cfg.LLM)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("BadPort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_PORT", "eighty")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for non-numeric APP_PORT")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LINGOTUTOR_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := Load(); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("search: [unterminated"), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		t.Setenv("LINGOTUTOR_CONFIG", path)
		if _, err := Load(); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})
}

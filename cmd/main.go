package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"lingotutor/api"
	"lingotutor/config"
	"lingotutor/crawler"
	"lingotutor/pipeline"
	"lingotutor/search"
	"lingotutor/summarize"
	"lingotutor/tools"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lingotutor",
		Short: "Web search tool and transcript sink for the Spanish tutor voice agent",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tool and transcript HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	var maxResults int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web once and print the summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchOnce(cmd.Context(), strings.Join(args, " "), maxResults)
		},
	}
	searchCmd.Flags().IntVarP(&maxResults, "max-results", "n", 5, "number of search results to read")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve() error {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Metrics
	// =========
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := pipeline.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// =========
	// Search pipeline
	// =========
	searchPipeline, err := newSearchPipeline(cfg, metrics, logger)
	if err != nil {
		return err
	}

	// =========
	// Tools
	// =========
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewWebSearchTool(searchPipeline, cfg.Search.DefaultMaxResults, cfg.Search.MaxResultsLimit)); err != nil {
		return err
	}

	// =========
	// Transcripts
	// =========
	sessions := api.NewSessionStore(cfg.TranscriptsDir, cfg.TranscriptQueueSize, logger)

	// =========
	// HTTP API
	// =========
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(":"+strconv.Itoa(cfg.AppPort), registry, sessions, reg, logger)
	return server.Start(ctx)
}

func searchOnce(ctx context.Context, query string, maxResults int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	searchPipeline, err := newSearchPipeline(cfg, nil, logger)
	if err != nil {
		return err
	}

	summary, err := searchPipeline.Run(ctx, query, maxResults)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func newSearchPipeline(cfg *config.Config, metrics *pipeline.Metrics, logger *zap.Logger) (*pipeline.SearchPipeline, error) {
	httpClient, httpTransport, err := NewHttpClient(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}

	engine := search.NewDuckDuckGoSearchEngine(httpClient, cfg.Search, logger)
	fetcher := crawler.NewDocumentFetcher(cfg.Crawler, httpTransport, logger)

	model, err := summarize.NewOpenAIModel(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarization model: %w", err)
	}
	summarizer := summarize.NewMapReduceSummarizer(model, cfg.LLM.Temperature, logger)

	return pipeline.NewSearchPipeline(engine, fetcher, summarizer, metrics, logger), nil
}

// NewHttpClient builds the shared outbound client. An empty proxyUrl uses the
// proxy settings from the environment.
func NewHttpClient(proxyUrl string) (*http.Client, *http.Transport, error) {
	proxy := http.ProxyFromEnvironment
	if proxyUrl != "" {
		proxyURL, err := url.Parse(proxyUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid PROXY_URL: %w", err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, nil, fmt.Errorf("invalid PROXY_URL %q: scheme and host required", proxyUrl)
		}
		proxy = http.ProxyURL(proxyURL)
	}
	transport := &http.Transport{
		Proxy:                 proxy,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}

	return client, transport, nil
}

// Package main is the movierec CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jayveertalekar0/movie-recommendation-system/internal/cli"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/config"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/engine"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/metadata"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/models"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/server"
	"github.com/jayveertalekar0/movie-recommendation-system/internal/watcher"
	"github.com/jayveertalekar0/movie-recommendation-system/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/movierec/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "movierec server" from the project dir uses the
// project's config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "recommend":
		runRecommend()
	case "browse":
		runBrowse()
	case "pack":
		runPack()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("movierec version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// newEnricher builds the metadata provider chain: OMDb client, circuit
// breaker, SQLite response cache. An empty API key disables enrichment.
// The returned closer releases the cache; it is non-nil even when a nil
// cache makes it a no-op.
func newEnricher(cfg *config.Config, logger *zap.Logger) (*metadata.Enricher, func(), error) {
	if cfg.Metadata.APIKey == "" {
		return metadata.NewEnricher(nil, cfg.Metadata.FetchConcurrency, logger), func() {}, nil
	}
	var provider metadata.Provider = metadata.NewOMDbClient(
		cfg.Metadata.BaseURL,
		cfg.Metadata.APIKey,
		time.Duration(cfg.Metadata.TimeoutSeconds)*time.Second,
	)
	provider = metadata.NewBreakerProvider(provider, logger)

	closer := func() {}
	if cfg.Metadata.CachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Metadata.CachePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		cache, err := metadata.NewCache(cfg.Metadata.CachePath, time.Duration(cfg.Metadata.CacheTTLHours)*time.Hour)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open metadata cache: %w", err)
		}
		provider = metadata.NewCachedProvider(provider, cache, logger)
		closer = func() { _ = cache.Close() }
	}
	return metadata.NewEnricher(provider, cfg.Metadata.FetchConcurrency, logger), closer, nil
}

func initEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, func(), error) {
	enricher, closeCache, err := newEnricher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(context.Background(), cfg, enricher, logger)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return eng, func() {
		_ = eng.Close()
		closeCache()
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	eng, closeEngine, err := initEngine(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}
	defer closeEngine()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watch *watcher.Watcher
	if cfg.Bundle.WatchReloadOrDefault() {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watch = watcher.New(cfg.Bundle.Path, func() {
			if err := eng.Reload(context.Background()); err != nil {
				logger.Warn("bundle reload failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start bundle watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(eng, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watch != nil {
		watch.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word titles work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(raw string) (cli.OutputFormat, error) {
	switch raw {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", raw)
	}
}

func runSearch() {
	searchArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load the bundle directly)")
	limit := fs.Int("limit", 10, "number of keyword hits")
	kwEnabled := fs.Bool("keyword", false, "also search descriptive text (plot fragments)")
	enrich := fs.Bool("enrich", false, "attach provider metadata to matches")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: movierec search [flags] <title>")
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	query := &models.SearchQuery{
		Query:          queryStr,
		Limit:          *limit,
		KeywordEnabled: *kwEnabled,
		Enrich:         *enrich,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, query)
	} else {
		response, err = searchDirect(*configPath, query)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResponse(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchDirect(configPath string, query *models.SearchQuery) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	eng, closeEngine, err := initEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeEngine()
	return eng.Search(context.Background(), query)
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	var response models.SearchResponse
	if err := postJSON(serverURL+"/api/v1/search", query, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func runRecommend() {
	recArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load the bundle directly)")
	topN := fs.Int("top-n", 5, "number of recommendations")
	enrich := fs.Bool("enrich", false, "attach provider metadata")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(recArgs)

	title := buildQuery(fs.Args())
	if title == "" {
		fmt.Println("Usage: movierec recommend [flags] <title>")
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var response *models.RecommendResponse
	if *serverURL != "" {
		response, err = recommendViaHTTP(*serverURL, title, *topN, *enrich)
	} else {
		response, err = recommendDirect(*configPath, title, *topN, *enrich)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recommend failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRecommendResponse(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func recommendDirect(configPath, title string, topN int, enrich bool) (*models.RecommendResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	eng, closeEngine, err := initEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeEngine()
	return eng.Recommend(context.Background(), &models.RecommendQuery{Title: title, TopN: topN, Enrich: enrich})
}

func recommendViaHTTP(serverURL, title string, topN int, enrich bool) (*models.RecommendResponse, error) {
	u := fmt.Sprintf("%s/api/v1/recommendations?title=%s&top_n=%d&enrich=%t",
		serverURL, url.QueryEscape(title), topN, enrich)
	var response models.RecommendResponse
	if err := getJSON(u, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func runBrowse() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: movierec browse <popular|featured|languages> [flags]")
		fmt.Println("  movierec browse popular --language hi   Popular movies for a language")
		fmt.Println("  movierec browse featured                Shuffled cross-language picks")
		fmt.Println("  movierec browse languages               List browsable languages")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load the bundle directly)")
	language := fs.String("language", "", "language for the popular listing")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[3:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	switch sub {
	case "popular":
		if *language == "" {
			fmt.Println("Usage: movierec browse popular --language <code>")
			os.Exit(1)
		}
		response, err := browseFetch(*serverURL, *configPath,
			"/api/v1/movies/popular?language="+url.QueryEscape(*language),
			func(ctx context.Context, eng *engine.Engine) *models.BrowseResponse {
				return eng.Popular(ctx, *language)
			})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Browse failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteBrowseResponse(os.Stdout, response, format)
	case "featured":
		response, err := browseFetch(*serverURL, *configPath, "/api/v1/movies/featured",
			func(ctx context.Context, eng *engine.Engine) *models.BrowseResponse {
				return eng.Featured(ctx)
			})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Browse failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteBrowseResponse(os.Stdout, response, format)
	case "languages":
		languages, err := fetchLanguages(*serverURL, *configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Browse failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteLanguages(os.Stdout, languages, format)
	default:
		fmt.Printf("Unknown browse subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func browseFetch(serverURL, configPath, path string, direct func(context.Context, *engine.Engine) *models.BrowseResponse) (*models.BrowseResponse, error) {
	if serverURL != "" {
		var response models.BrowseResponse
		if err := getJSON(serverURL+path, &response); err != nil {
			return nil, err
		}
		return &response, nil
	}
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	eng, closeEngine, err := initEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeEngine()
	return direct(context.Background(), eng), nil
}

func fetchLanguages(serverURL, configPath string) ([]models.LanguageInfo, error) {
	if serverURL != "" {
		var out struct {
			Languages []models.LanguageInfo `json:"languages"`
		}
		if err := getJSON(serverURL+"/api/v1/languages", &out); err != nil {
			return nil, err
		}
		return out.Languages, nil
	}
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	eng, closeEngine, err := initEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeEngine()
	return eng.Languages(), nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load the bundle directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if *serverURL != "" {
		if err := getJSON(*serverURL+"/status", &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		eng, closeEngine, err := initEngine(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer closeEngine()
		st := eng.Status()
		status = map[string]interface{}{
			"bundle_path":        st.BundlePath,
			"loaded_at":          st.LoadedAt,
			"records":            st.Records,
			"languages":          st.Languages,
			"keyword_docs":       st.KeywordDocs,
			"enrichment_enabled": st.EnrichmentEnabled,
		}
		if diskBytes, err := utils.DiskUsageBytes(cfg.Bundle.Path, cfg.Metadata.CachePath, cfg.Search.KeywordIndexPath); err == nil {
			status["disk_usage_bytes"] = diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		for _, key := range []string{"bundle_path", "loaded_at", "records", "languages", "keyword_docs", "enrichment_enabled", "disk_usage_bytes"} {
			if v, ok := status[key]; ok {
				fmt.Printf("%-20s %v\n", key+":", v)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func postJSON(u string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(u, "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func getJSON(u string, out interface{}) error {
	resp, err := http.Get(u)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Println(`movierec - per-language movie recommendation service

Usage:
  movierec server [flags]                Start the HTTP server
  movierec search [flags] <title>        Fuzzy title search (optionally keyword)
  movierec recommend [flags] <title>     Recommend similar movies
  movierec browse <popular|featured|languages> [flags]
  movierec pack [flags]                  Build a bundle from catalog + vector files
  movierec status [flags]                Show catalog/index status
  movierec version                       Show version
  movierec help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/movierec/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to load the bundle directly.
  --limit int        Number of keyword hits (default: 10)
  --keyword          Also search descriptive text, so the query can be a plot fragment
  --enrich           Attach provider metadata (needs an API key in config)
  --output string    Output format: text or json (default: text)

Recommend Flags:
  --server string    Server URL (empty = load the bundle directly)
  --top-n int        Number of recommendations (default: 5)
  --enrich           Attach provider metadata
  --output string    Output format: text or json

Pack Flags:
  --catalog string   Catalog file (.csv or .xlsx) with title, language, feature_text columns
  --vectors string   Vector file (.csv), one row of floats per catalog row
  --out string       Output bundle path

Examples:
  movierec server
  movierec search the matrx
  movierec search --keyword "heist inside a dream"
  movierec recommend "The Matrix" --top-n 10
  movierec browse popular --language hi
  movierec browse featured
  movierec pack --catalog movies.xlsx --vectors vectors.csv --out movies.bundle
  movierec status --output json`)
}

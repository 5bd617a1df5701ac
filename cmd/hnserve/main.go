package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hnserve/internal/client"
	"hnserve/internal/config"
	"hnserve/internal/feed"
	"hnserve/internal/hn"
	httpapp "hnserve/internal/http"
	"hnserve/internal/rate"
	"hnserve/internal/resolve"
	"hnserve/internal/scrape"
)

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}
	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println("hnserve v0.1.0")
		return
	}
	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "item":
		cmdItem(args)
	case "feed", "read":
		cmdFeed(args)
	case "user":
		cmdUser(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hnserve - read-only Hacker News API facade

Usage: hnserve <command> [options]

Server:
  server              Start the hnserve server (default if no command)

Client Commands (read from a running facade):
  item                Fetch a single item, optionally with its comment tree
  feed                Fetch a feed of stories
  user                Fetch a user profile

Examples:
  hnserve item --id 8863 --comments
  hnserve feed --name top --limit 10
  hnserve user --handle pg --submitted

Environment Variables (server):
  HNSERVE_ADDR            Listen address (default: :8080)
  HNSERVE_API_BASE        Upstream API base URL
  HNSERVE_WEB_BASE        Website base URL for ranked scraping
  HNSERVE_TIMEOUT         Upstream request timeout (default: 30s)
  HNSERVE_MAX_DEPTH       Comment tree recursion ceiling (default: 50)
  HNSERVE_MAX_FANOUT      Children expanded per node (default: 512)
  HNSERVE_MAX_CONCURRENT  In-flight upstream fetches per batch (default: 64)
  HNSERVE_SCRAPE_PAGES    Listing pages scraped per ranked feed (default: 4)
  HNSERVE_RL_PER_MIN      Requests per minute per client IP (default: 300)
  HNSERVE_LOG_LEVEL       debug, info, warn or error (default: info)`)
}

// ============================================================================
// SERVER
// ============================================================================

func runServer() {
	cfg := config.Load()
	logger := setupLogger(cfg.LogLevel)

	fetcher := hn.New(hn.Config{BaseURL: cfg.APIBase, Timeout: cfg.Timeout}, logger)
	resolver := resolve.New(fetcher, resolve.Config{
		MaxDepth:      cfg.MaxDepth,
		MaxFanout:     cfg.MaxFanout,
		MaxConcurrent: cfg.MaxConcurrent,
	}, logger)
	scraper := scrape.New(scrape.Config{BaseURL: cfg.WebBase, Timeout: cfg.Timeout}, logger)
	orchestrator := feed.New(scraper, resolver, cfg.ScrapePages, logger)
	limiter := rate.NewMemory(cfg.RateLimits.RequestsPerMinute, time.Minute)

	server := httpapp.NewServer(resolver, orchestrator, limiter, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("hnserve listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ============================================================================
// CLIENT COMMANDS
// ============================================================================

func cmdItem(args []string) {
	fs := flag.NewFlagSet("item", flag.ExitOnError)
	id := fs.Int("id", 0, "Item id (required)")
	comments := fs.Bool("comments", false, "Resolve the full comment tree")
	baseURL := fs.String("url", "http://localhost:8080", "hnserve base URL")
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "Error: --id is required")
		os.Exit(1)
	}

	c := client.New(strings.TrimSuffix(*baseURL, "/"))
	item, err := c.Item(*id, *comments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !item.Exists() {
		fmt.Fprintf(os.Stderr, "Item %d not found\n", *id)
		os.Exit(1)
	}
	printJSON(item)
}

func cmdFeed(args []string) {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	name := fs.String("name", "top", "Feed: top, new, best, ask, show, job")
	limit := fs.Int("limit", 10, "Number of stories to print")
	baseURL := fs.String("url", "http://localhost:8080", "hnserve base URL")
	fs.Parse(args)

	c := client.New(strings.TrimSuffix(*baseURL, "/"))
	items, err := c.Feed(*name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *limit > 0 && *limit < len(items) {
		items = items[:*limit]
	}
	for i, it := range items {
		fmt.Printf("%d. %s\n", i+1, it.Title)
		fmt.Printf("   %d pts | %d comments | by %s | #%d\n\n",
			it.Score, it.Descendants, it.By, it.ID)
	}
}

func cmdUser(args []string) {
	fs := flag.NewFlagSet("user", flag.ExitOnError)
	handle := fs.String("handle", "", "User handle (required)")
	submitted := fs.Bool("submitted", false, "Resolve submissions into items")
	baseURL := fs.String("url", "http://localhost:8080", "hnserve base URL")
	fs.Parse(args)

	if *handle == "" {
		fmt.Fprintln(os.Stderr, "Error: --handle is required")
		os.Exit(1)
	}

	c := client.New(strings.TrimSuffix(*baseURL, "/"))
	if *submitted {
		detail, err := c.UserDetail(*handle)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !detail.Exists() {
			fmt.Fprintf(os.Stderr, "User %q not found\n", *handle)
			os.Exit(1)
		}
		printJSON(detail)
		return
	}

	user, err := c.User(*handle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !user.Exists() {
		fmt.Fprintf(os.Stderr, "User %q not found\n", *handle)
		os.Exit(1)
	}
	printJSON(user)
}

func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

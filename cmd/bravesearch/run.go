package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"bravesearch/internal/adapter/brave"
	"bravesearch/internal/adapter/cache"
	"bravesearch/internal/domain"
	"bravesearch/internal/infra/config"
	"bravesearch/internal/infra/logger"
	"bravesearch/internal/infra/tracer"
	"bravesearch/internal/usecase"
)

// searchFlags holds the per-invocation query parameters.
type searchFlags struct {
	configPath string
	count      int
	offset     int
	lang       string
	country    string
	freshness  string
	safesearch string
	spellcheck string
	asJSON     bool
}

func run(args []string) error {
	fs := flag.NewFlagSet("bravesearch", flag.ContinueOnError)
	var f searchFlags
	fs.StringVar(&f.configPath, "config", "config.yaml", "config file path")
	fs.IntVar(&f.count, "count", 0, "number of results (1-50)")
	fs.IntVar(&f.offset, "offset", 0, "pagination offset in result pages")
	fs.StringVar(&f.lang, "lang", "", "search language code")
	fs.StringVar(&f.country, "country", "", "country code")
	fs.StringVar(&f.freshness, "freshness", "", "result age: day, week or month")
	fs.StringVar(&f.safesearch, "safesearch", "", "content filtering: off, moderate or strict")
	fs.StringVar(&f.spellcheck, "spellcheck", "", "force spellcheck: true or false")
	fs.BoolVar(&f.asJSON, "json", false, "print raw JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("no query given; run 'bravesearch --help' for usage")
	}

	// Local .env files are a convenient place for BRAVE_API_KEY.
	_ = godotenv.Load()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("setup tracer: %w", err)
	}
	defer shutdownTracer(context.Background())

	if cfg.Search.APIKey == "" {
		return fmt.Errorf("no API key configured; set BRAVE_API_KEY or search.api_key in %s", f.configPath)
	}

	q, err := buildQuery(text, f)
	if err != nil {
		return err
	}

	backend := brave.NewBackend(cfg.Search, cfg.Search.APIKey, log)
	client := usecase.NewClient(cfg.Search, backend, cache.New(cfg.Search.CacheTTL), log)

	resp, err := client.Fetch(ctx, q)
	if err != nil {
		return err
	}

	if f.asJSON {
		return printJSON(resp)
	}
	printText(resp)
	return nil
}

func buildQuery(text string, f searchFlags) (domain.Query, error) {
	q := domain.Query{
		Text:       text,
		Count:      f.count,
		Offset:     f.offset,
		Language:   f.lang,
		Country:    f.country,
		SafeSearch: domain.SafeSearch(f.safesearch),
	}

	switch strings.ToLower(f.freshness) {
	case "":
	case "day", "pd":
		q.Freshness = domain.FreshnessDay
	case "week", "pw":
		q.Freshness = domain.FreshnessWeek
	case "month", "pm":
		q.Freshness = domain.FreshnessMonth
	default:
		return domain.Query{}, fmt.Errorf("invalid -freshness %q: want day, week or month", f.freshness)
	}

	switch strings.ToLower(f.spellcheck) {
	case "":
	case "true", "on":
		v := true
		q.Spellcheck = &v
	case "false", "off":
		v := false
		q.Spellcheck = &v
	default:
		return domain.Query{}, fmt.Errorf("invalid -spellcheck %q: want true or false", f.spellcheck)
	}

	return q, nil
}

func printJSON(resp *domain.SearchResponse) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func printText(resp *domain.SearchResponse) {
	if len(resp.Results) == 0 {
		fmt.Printf("No results for %q.\n", resp.Query)
		return
	}

	fmt.Printf("Results for %q", resp.Query)
	if resp.TotalEstimated > len(resp.Results) {
		fmt.Printf(" (showing %d of ~%d)", len(resp.Results), resp.TotalEstimated)
	}
	fmt.Println(":")
	fmt.Println()

	for i, r := range resp.Results {
		fmt.Printf("%d. %s\n", i+1, r.Title)
		fmt.Printf("   %s\n", r.URL)
		if r.Description != "" {
			fmt.Printf("   %s\n", r.Description)
		}
		var meta []string
		if r.Hostname != "" {
			meta = append(meta, r.Hostname)
		}
		if r.Age != "" {
			meta = append(meta, r.Age)
		}
		if r.Kind != domain.KindWeb {
			meta = append(meta, string(r.Kind))
		}
		if len(meta) > 0 {
			fmt.Printf("   [%s]\n", strings.Join(meta, " · "))
		}
		fmt.Println()
	}
}

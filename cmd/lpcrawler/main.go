// cmd/lpcrawler/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fundscope/lpcrawler/internal/browser"
	"github.com/fundscope/lpcrawler/internal/config"
	"github.com/fundscope/lpcrawler/internal/monitoring"
	"github.com/fundscope/lpcrawler/internal/output"
	"github.com/fundscope/lpcrawler/internal/scraper"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration (defaults apply when omitted)")
	headed := flag.Bool("headed", false, "run the browser visibly instead of headless")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	// .env is optional; real environment wins either way.
	_ = godotenv.Load()

	setupLogging(*verbose)
	log.Info().Msg("starting LP fund list crawler")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	if *headed {
		cfg.Browser.Headless = false
		log.Info().Msg("running in headed mode (browser visible)")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func run(cfg *config.Config) error {
	renderer, err := browser.NewChromeRenderer(browser.Options{
		Headless:          cfg.Browser.Headless,
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.Browser.NavigationTimeout.Std(),
		SettleDelay:       cfg.Browser.SettleDelay.Std(),
	})
	if err != nil {
		return err
	}
	defer renderer.Close()

	sinks, archives, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, sink := range append(sinks, archives...) {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("sink close failed")
			}
		}
	}()

	if cfg.Metrics.Enabled {
		server := monitoring.NewServer(cfg.Metrics.Address)
		server.Start()
		defer server.Shutdown()
	}

	engine := scraper.NewEngine(renderer, cfg, sinks, archives)
	summary, err := engine.Run(context.Background())
	if err != nil {
		if errors.Is(err, scraper.ErrNoURLs) {
			log.Error().Msg("no fund URLs found, the page structure may have changed")
			return err
		}
		return err
	}

	log.Info().
		Int("discovered", summary.Discovered).
		Int("succeeded", summary.Succeeded).
		Int("soft_failed", summary.SoftFailed).
		Int("failed", summary.Failed).
		Str("csv", cfg.Output.CSVPath).
		Str("excel", cfg.Output.ExcelPath).
		Msg("scraping complete")
	return nil
}

// buildSinks wires the primary exports (CSV stream and Excel batch) plus
// any archive sinks enabled in configuration. Archive construction failures
// are fatal here: a misconfigured archive is better caught before the crawl
// spends an hour rendering pages.
func buildSinks(cfg *config.Config) (sinks, archives []scraper.RecordSink, err error) {
	csvWriter, err := output.NewCSVWriter(cfg.Output.CSVPath)
	if err != nil {
		return nil, nil, err
	}
	excelWriter, err := output.NewExcelWriter(cfg.Output.ExcelPath)
	if err != nil {
		csvWriter.Close()
		return nil, nil, err
	}
	sinks = []scraper.RecordSink{csvWriter, excelWriter}

	if cfg.Output.Database != nil {
		dbWriter, err := output.NewDatabaseWriter(cfg.Output.Database)
		if err != nil {
			return nil, nil, err
		}
		archives = append(archives, dbWriter)
	}
	if cfg.Output.MongoDB != nil {
		mongoWriter, err := output.NewMongoWriter(cfg.Output.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		archives = append(archives, mongoWriter)
	}
	return sinks, archives, nil
}

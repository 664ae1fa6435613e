// Command traceq searches a trajectory dataset for a behavioral pattern.
//
// Usage:
//
//	traceq --query pattern.txt --data dataset.yaml --out results.csv
//
// The query file holds one behavioral query (lines starting with '#' are
// comments); the dataset file holds agents and pairs as documented in
// package loader. Results land in the output CSV, best match first.
//
// Engine knobs (strategy, min-confidence, max-memory, coefficient,
// max-results, workers) come from flags or an optional traceq.yaml config
// file in the working directory; flags win.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/traceq/traceq/core"
	"github.com/traceq/traceq/loader"
	"github.com/traceq/traceq/query"
	"github.com/traceq/traceq/search"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "traceq:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("traceq", pflag.ContinueOnError)
	flags.String("query", "", "path to the query file (required)")
	flags.String("data", "", "path to the dataset YAML (required)")
	flags.String("out", "results.csv", "path of the output CSV")
	flags.String("strategy", "AVG", "confidence conjunction strategy: AVG or MIN")
	flags.Float64("min-confidence", core.DefaultMinConfidence, "pruning threshold for time-graph paths")
	flags.Int("max-memory", core.DefaultMaxMemory, "best paths kept per time-graph vertex")
	flags.Float64("coefficient", core.DefaultCoefficient, "comparer coefficient: 0 conformity, 1 reliability")
	flags.Int("max-results", 100, "size of the global ranking")
	flags.Int("workers", 1, "parallel assignment evaluators")
	flags.Bool("debug", false, "verbose engine logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfgFile := viper.New()
	cfgFile.SetConfigName("traceq")
	cfgFile.SetConfigType("yaml")
	cfgFile.AddConfigPath(".")
	if err := cfgFile.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if err := cfgFile.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	level := zerolog.InfoLevel
	if cfgFile.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	queryPath := cfgFile.GetString("query")
	dataPath := cfgFile.GetString("data")
	if queryPath == "" || dataPath == "" {
		return fmt.Errorf("both --query and --data are required")
	}

	strategy, err := core.ParseStrategy(strings.ToUpper(cfgFile.GetString("strategy")))
	if err != nil {
		return err
	}

	cfg := core.DefaultConfig()
	cfg.Strategy = strategy
	cfg.MinConfidence = cfgFile.GetFloat64("min-confidence")
	cfg.MaxMemory = cfgFile.GetInt("max-memory")
	cfg.Coefficient = cfgFile.GetFloat64("coefficient")
	cfg.Debug = cfgFile.GetBool("debug")
	if err := cfg.Validate(); err != nil {
		return err
	}

	queryText, err := readQueryFile(queryPath)
	if err != nil {
		return err
	}

	root, err := query.Parse(queryText)
	if err != nil {
		return err
	}

	tpl, err := search.NewTemplate(root, cfg)
	if err != nil {
		return err
	}
	if tpl.Root.Name() == "" {
		tpl.Root.SetName(queryFileName(queryPath))
	}

	dataset, err := loader.Load(dataPath)
	if err != nil {
		return err
	}
	logger.Info().
		Int("agents", len(dataset.Agents)).
		Int("pairs", len(dataset.Pairs)).
		Str("query", queryPath).
		Msg("dataset loaded")

	opts := search.DefaultSearchOptions()
	opts.MaxResults = cfgFile.GetInt("max-results")
	opts.Workers = cfgFile.GetInt("workers")
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := tpl.Search(ctx, dataset.Agents, dataset.Pairs, opts)
	if err != nil {
		return err
	}

	outPath := cfgFile.GetString("out")
	if err := search.WriteResultsFile(outPath, tpl, results); err != nil {
		return err
	}
	logger.Info().Int("results", len(results)).Str("out", outPath).Msg("results written")

	return nil
}

// readQueryFile reads a query file, skipping '#' comment lines and joining
// the rest into one query string.
func readQueryFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading query: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, " "), nil
}

// queryFileName derives a template name from the query file's base name.
func queryFileName(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/transroute/internal"
	"github.com/valpere/transroute/internal/detector"
	"github.com/valpere/transroute/internal/quality"
	"github.com/valpere/transroute/internal/router"
	"github.com/valpere/transroute/internal/sanitize"
	"github.com/valpere/transroute/internal/store"
)

var (
	inputFile  string
	sourceLang string
	targetLang string

	providers     []string
	preferred     string
	minConfidence float64

	googleCredentials string
	systranKey        string
	mymemoryEmail     string

	cacheSize int
	cacheTTL  time.Duration

	callTimeout time.Duration

	dbPath       string
	showQuality  bool
	showStats    bool
	verboseFlags bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text through the provider fallback chain",
	Long: `Translate text using the resilient provider chain. Providers are tried
in priority order with health checks, circuit breaking, and a confidence
gate; the first acceptable result is cached and returned.

Available providers:
  - google     Google Translate (requires credentials)
  - systran    Systran Translate (requires API key)
  - mymemory   MyMemory (free, 5000 chars/day)

A built-in fallback provider guarantees the chain never runs empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		ctx := context.Background()
		log := buildLogger(verboseFlags)
		defer log.Sync()

		// Auto-detect source language when not specified.
		if sourceLang == "auto" {
			det := detector.New()
			if detected, ok := det.DetectISO(text); ok {
				sourceLang = detected
				fmt.Fprintf(os.Stderr, "Detected source language: %s\n", sourceLang)
			} else {
				sourceLang = "en"
			}
		}

		cfg := router.DefaultConfig()
		cfg.TargetLanguage = targetLang
		cfg.SourceLanguage = sourceLang
		cfg.PreferredProvider = preferred
		cfg.ProviderOrder = providers
		cfg.MinConfidence = minConfidence
		cfg.CacheSize = cacheSize
		cfg.CacheTTL = cacheTTL

		googleCreds, sysKey, mmEmail := providerCredentials()
		r, _, err := buildRouter(cfg, providers, googleCreds, sysKey, mmEmail,
			defaultBreakerConfig(callTimeout), log)
		if err != nil {
			return err
		}

		req := internal.TranslationRequest{
			ID:         uuid.NewString(),
			SourceText: text,
			SourceLang: sourceLang,
			TargetLang: targetLang,
			Timestamp:  time.Now(),
		}

		start := time.Now()
		res, routeErr := r.Route(ctx, text, sourceLang)
		elapsed := time.Since(start)

		if dbPath != "" {
			saveHistory(ctx, req, res.Text, res.Provider, res.Confidence, res.CostEstimate, elapsed, res.FromCache, routeErr)
		}
		if routeErr != nil {
			return routeErr
		}

		cleaned := sanitize.Clean(res.Text)
		fmt.Println(cleaned)
		fmt.Fprintf(os.Stderr, "Provider: %s, confidence: %.2f, latency: %s\n",
			res.Provider, res.Confidence, elapsed.Round(time.Millisecond))

		if showQuality {
			v := quality.New(quality.Config{
				MinConfidence: viper.GetFloat64("quality.min_confidence"),
				CheckLanguage: true,
			})
			report := v.Validate(text, res, cleaned)
			printQualityReport(report)
		}

		if showStats {
			stats := r.GetCacheStats()
			fmt.Fprintf(os.Stderr, "Cache: size=%d/%d hits=%d misses=%d hit_rate=%.2f\n",
				stats.Size, stats.MaxSize, stats.Hits, stats.Misses, stats.HitRate)
			for name, bs := range r.BreakerStats() {
				fmt.Fprintf(os.Stderr, "Breaker %s: state=%s calls=%d failed=%d rejected=%d opened=%d\n",
					name, bs.State, bs.TotalCalls, bs.FailedCalls, bs.Rejections, bs.TimesOpened)
			}
		}

		return nil
	},
}

func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if inputFile == "" {
		return "", fmt.Errorf("provide text as an argument or with --input")
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

func saveHistory(ctx context.Context, req internal.TranslationRequest, text, provider string, confidence, cost float64, elapsed time.Duration, fromCache bool, routeErr error) {
	db, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history store unavailable: %v\n", err)
		return
	}
	defer db.Close()

	if err := db.SaveRequest(ctx, req); err != nil {
		fmt.Fprintf(os.Stderr, "failed to record request: %v\n", err)
		return
	}
	errMsg := ""
	if routeErr != nil {
		errMsg = routeErr.Error()
	}
	if provider == "" {
		provider = "none"
	}
	if err := db.SaveOutcome(ctx, req.ID, provider, text, confidence, cost,
		int(elapsed.Milliseconds()), fromCache, errMsg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to record outcome: %v\n", err)
	}
}

func printQualityReport(report quality.Report) {
	fmt.Fprintf(os.Stderr, "Quality: %.2f (%s) translation=%.2f sanitization=%.2f intent=%.2f confidence=%.2f\n",
		report.OverallScore, report.Level, report.TranslationScore,
		report.SanitizationScore, report.IntentScore, report.ConfidenceScore)
	for _, issue := range report.Issues {
		fmt.Fprintf(os.Stderr, "  issue: %s\n", issue)
	}
	for _, rec := range report.Recommendations {
		fmt.Fprintf(os.Stderr, "  recommendation: %s\n", rec)
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (alternative to positional text)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code (auto = detect)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "en", "Target language code")

	translateCmd.Flags().StringSliceVar(&providers, "providers", []string{"mymemory"}, "Providers in priority order")
	translateCmd.Flags().StringVar(&preferred, "preferred", "", "Provider to try first")
	translateCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.5, "Minimum acceptable confidence")

	translateCmd.Flags().StringVar(&googleCredentials, "google-credentials", "", "Google service account credentials file")
	translateCmd.Flags().StringVar(&systranKey, "systran-key", "", "Systran API key")
	translateCmd.Flags().StringVar(&mymemoryEmail, "mymemory-email", "", "MyMemory contact email (raises quota)")

	translateCmd.Flags().IntVar(&cacheSize, "cache-size", 1000, "Maximum cached translations")
	translateCmd.Flags().DurationVar(&cacheTTL, "cache-ttl", time.Hour, "Cached translation lifetime")
	translateCmd.Flags().DurationVar(&callTimeout, "call-timeout", 30*time.Second, "Per-provider call timeout")

	translateCmd.Flags().StringVar(&dbPath, "db", "", "SQLite history database path (empty disables history)")
	translateCmd.Flags().BoolVar(&showQuality, "quality", false, "Print a quality report for the result")
	translateCmd.Flags().BoolVar(&showStats, "stats", false, "Print cache and breaker statistics")
	translateCmd.Flags().BoolVarP(&verboseFlags, "verbose", "v", false, "Verbose logging")

	_ = viper.BindPFlag("systran.api_key", translateCmd.Flags().Lookup("systran-key"))
	_ = viper.BindPFlag("google.credentials", translateCmd.Flags().Lookup("google-credentials"))
	_ = viper.BindPFlag("mymemory.email", translateCmd.Flags().Lookup("mymemory-email"))
	viper.SetDefault("quality.min_confidence", 0.7)
}

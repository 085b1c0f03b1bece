package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/api"
	"github.com/ZaguanLabs/polyglot/cache"
	"github.com/ZaguanLabs/polyglot/config"
)

type rootFlags struct {
	verbose bool
	jsonLog bool
	noCache bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "polyglot",
		Short:         "Translate text and files through the Polyglot service",
		Version:       polyglot.FullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(flags)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.jsonLog, "json-log", false, "emit logs as JSON")
	cmd.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "bypass the local translation cache")

	cmd.AddCommand(
		newTextCmd(flags),
		newFilesCmd(flags),
		newUsageCmd(flags),
		newLanguagesCmd(flags),
		newGlossaryCmd(flags),
		newCacheCmd(),
		newConfigCmd(),
	)

	return cmd
}

func initLogger(flags *rootFlags) {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if flags.jsonLog {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	slog.SetDefault(slog.New(handler))
}

// app bundles the wired-up collaborators a network command needs.
type app struct {
	cfg        config.Config
	client     *api.Client
	store      *cache.SQLiteCache
	translator *polyglot.Translator
}

// newApp loads configuration and wires client, cache and translator.
func newApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	key := cfg.APIKey()
	if key == "" {
		return nil, errors.New("no API key configured; run `polyglot config set api.key <key>` or set " + config.EnvAPIKey)
	}

	clientOpts := []api.Option{}
	if cfg.API.BaseURL != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(cfg.API.BaseURL))
	}
	client := api.NewClient(key, clientOpts...)

	a := &app{cfg: cfg, client: client}

	translatorOpts := []polyglot.TranslatorOption{
		polyglot.WithRetryConfig(polyglot.RetryConfig{
			MaxRetries:     cfg.Request.MaxRetries,
			BaseDelay:      time.Second,
			MaxDelay:       30 * time.Second,
			AttemptTimeout: cfg.RequestTimeout(),
		}),
	}

	if cfg.Cache.Enabled && !flags.noCache {
		path, err := cfg.CachePath()
		if err != nil {
			return nil, err
		}
		store, err := cache.NewSQLiteCache(cache.SQLiteConfig{
			Path:    path,
			MaxSize: cfg.Cache.MaxSize,
			TTL:     cfg.CacheTTL(),
		})
		if err != nil {
			return nil, err
		}
		a.store = store
		translatorOpts = append(translatorOpts, polyglot.WithCache(store))
	}

	a.translator = polyglot.NewTranslator(client, translatorOpts...)
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// reportTrace decorates a failed command error with the latest trace id for
// support correlation.
func (a *app) reportTrace(err error) error {
	if err == nil {
		return nil
	}
	if trace := polyglot.ErrorTrace(err); trace != "" {
		slog.Error("request failed", "trace", trace)
	} else if trace := a.client.LastTraceID(); trace != "" {
		slog.Error("request failed", "last_trace", trace)
	}
	return err
}

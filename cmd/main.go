package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jhong93/multilang-captions/internal/config"
	"github.com/jhong93/multilang-captions/internal/dictionary"
	"github.com/jhong93/multilang-captions/internal/httpapi"
	"github.com/jhong93/multilang-captions/internal/library"
	"github.com/jhong93/multilang-captions/internal/persistence"
	"github.com/jhong93/multilang-captions/internal/service"
	"github.com/jhong93/multilang-captions/internal/tokenizer"
	"github.com/jhong93/multilang-captions/internal/transcache"
	"github.com/jhong93/multilang-captions/internal/translator"
	"github.com/jhong93/multilang-captions/pkg/icron"
	"github.com/jhong93/multilang-captions/pkg/log"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var hostFlag string
	var portFlag int
	var cacheDirFlag string
	var dictDirFlag string
	var envFileFlag string

	rootCmd := &cobra.Command{
		Use:           "captions-server",
		Short:         "Caption tokenization and translation server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFileFlag != "" {
				if err := godotenv.Load(envFileFlag); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			} else {
				_ = godotenv.Load()
			}
			cfg, err := config.NewFromEnv(
				config.WithAddr(hostFlag, portFlag),
				config.WithCacheDir(cacheDirFlag),
				config.WithDictDir(dictDirFlag),
			)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().StringVar(&hostFlag, "host", "", "Listen host (overrides HOST)")
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&cacheDirFlag, "cache-dir", "", "Video cache directory (overrides CACHE_DIR)")
	rootCmd.Flags().StringVar(&dictDirFlag, "dict-dir", "", "Dictionary data directory (overrides DICT_DIR)")
	rootCmd.Flags().StringVar(&envFileFlag, "env-file", "", "Env file to load before reading configuration")

	return rootCmd
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.InitLogger(log.ParseLevel(cfg.LogLevel))

	store, err := persistence.NewSQLiteStore(cfg.Library.DBPath)
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}
	defer store.Close()

	scanner := library.NewScanner(
		cfg.Library.CacheDir,
		library.WithMetaStore(store),
		library.WithMetaTTL(time.Duration(cfg.Library.MetaTTLMinutes)*time.Minute),
	)

	tokenizers := tokenizer.NewRegistry(tokenizer.NewRemoteEngineProvider(
		tokenizer.RemoteEngineConfig{
			BaseURL: cfg.Tagger.APIURL,
			Timeout: cfg.Tagger.Timeout,
		}))

	dicts, err := dictionary.NewStore(
		cfg.Library.DictDir,
		dictionary.WithMaxGlossLen(cfg.Translate.MaxGlossLen),
	)
	if err != nil {
		return fmt.Errorf("open dictionary store: %w", err)
	}

	phrases, err := translator.NewClient(translator.ClientConfig{
		APIKey:  cfg.Translate.APIKey,
		APIURL:  cfg.Translate.APIURL,
		Timeout: cfg.Translate.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create translation client: %w", err)
	}

	svc := service.NewCaptionService(
		scanner,
		tokenizers,
		transcache.NewCache(translator.NewRegistry(dicts, phrases)),
	)

	scheduler, err := startMetaPruner(cfg, store)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	server := httpapi.NewServer(svc,
		httpapi.WithUI(cfg.Server.UIStaticDir, cfg.Server.UIStaticDir != ""))

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s", cfg.Server.Addr())
		errCh <- server.ListenAndServe(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// startMetaPruner schedules periodic deletion of expired video metadata.
func startMetaPruner(cfg *config.Config, store *persistence.SQLiteStore) (*cron.Cron, error) {
	expr := cfg.Library.MetaPruneCron
	info, err := icron.GetTriggerInfo(expr, time.Now())
	if err != nil {
		return nil, fmt.Errorf("invalid META_PRUNE_CRON: %w", err)
	}
	log.Info("Metadata prune scheduled; next run in %s", info.TimeUntilNext)

	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		deleted, err := store.DeleteExpiredVideoMeta(ctx, time.Now())
		if err != nil {
			log.Error("Metadata prune failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Info("Pruned %d expired metadata entries", deleted)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule metadata prune: %w", err)
	}
	scheduler.Start()
	return scheduler, nil
}

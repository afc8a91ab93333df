package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumenfold/lumenfold/internal/rendercache"
	"github.com/lumenfold/lumenfold/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve social-card renders over HTTP",
	Long: `Serve the /og-render endpoint: a 1200x630 portrait card for a share
query, cached immutably. The same share params always yield the same
bytes.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("cache", "./cards.db", "SQLite cache path (empty disables caching)")
	serveCmd.Flags().Int("max-concurrent-renders", 2, "Max concurrent card renders")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.cache", "cache")
	mustBind("serve.max_concurrent_renders", "max-concurrent-renders")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	cachePath := viper.GetString("serve.cache")
	maxConc := viper.GetInt("serve.max_concurrent_renders")

	var cache *rendercache.Cache
	if cachePath != "" {
		var err error
		cache, err = rendercache.Open(cachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	cards := server.NewCardServer(cache, server.CardConfig{
		MaxConcurrentRenders: maxConc,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/og-render", cards.Handler())

	logger.Info("card server listening",
		"addr", addr,
		"cache", cachePath,
		"max_concurrent_renders", maxConc,
	)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

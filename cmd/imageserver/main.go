// Command imageserver は画像生成 API とその Web UI を提供します。
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shouni/prompt-image-kit/pkg/app"
	"github.com/shouni/prompt-image-kit/pkg/config"
	"github.com/shouni/prompt-image-kit/pkg/logger"
	"github.com/shouni/prompt-image-kit/pkg/server"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("サーバーが異常終了しました", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comp, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	if err := comp.Backend.ValidateKey(""); err != nil {
		// リクエストごとの apiKey で上書きできるので起動は続ける
		log.Warn("サーバー設定の API キーが使えません。リクエストで apiKey を渡してください", "key", utils.MaskKey(cfg.APIKey()), "error", err)
	}

	srv, err := server.New(comp.Service, server.Options{
		OutputDir:  cfg.OutputDir,
		PromptsDir: cfg.PromptsDir,
		WebDir:     cfg.WebDir,
		KeyEnvName: app.KeyEnvName(cfg),
	}, log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("サーバーを起動します", "addr", httpServer.Addr, "backend", comp.Backend.Name())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("シャットダウンします")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

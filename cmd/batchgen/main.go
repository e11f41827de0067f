// Command batchgen はプロンプトディレクトリ内のすべての .txt から画像を生成します。
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/prompt-image-kit/pkg/app"
	"github.com/shouni/prompt-image-kit/pkg/config"
	"github.com/shouni/prompt-image-kit/pkg/generator"
	"github.com/shouni/prompt-image-kit/pkg/logger"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("バッチ生成に失敗しました", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	cfg.RegisterFlags(flag.CommandLine)
	skipAuth := flag.Bool("skip-auth-check", false, "skip the OpenRouter auth check before generating")
	flag.DurationVar(&cfg.BatchDelay, "delay", cfg.BatchDelay, "wait between requests")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comp, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	if err := comp.Backend.ValidateKey(""); err != nil {
		return fmt.Errorf("%s が不正です (%s): %w", app.KeyEnvName(cfg), utils.MaskKey(cfg.APIKey()), err)
	}
	if comp.OpenRouter != nil && !*skipAuth {
		if err := comp.OpenRouter.CheckAuth(ctx, ""); err != nil {
			return err
		}
	}

	log.Info("バッチ生成の設定", "backend", comp.Backend.Name(), "prompts_dir", cfg.PromptsDir, "output_dir", cfg.OutputDir)
	result, err := generator.RunBatch(ctx, comp.Service, comp.Reader, cfg.PromptsDir, cfg.BatchDelay)
	if err != nil {
		return err
	}

	fmt.Printf("Complete! Success: %d, Failed: %d\n", result.Succeeded, result.Failed)
	if result.Succeeded == 0 {
		return fmt.Errorf("画像を1枚も生成できませんでした")
	}
	return nil
}

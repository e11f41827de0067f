package app

import (
	"context"
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/prompt-image-kit/pkg/adapters"
	"github.com/shouni/prompt-image-kit/pkg/config"
	"github.com/shouni/prompt-image-kit/pkg/generator"
)

// Components はコマンドが共有する組み立て済みの部品です。
type Components struct {
	Backend    adapters.ImageBackend
	OpenRouter *adapters.OpenRouterGenerator // BACKEND=openrouter のときのみ
	Service    *generator.ImageService
	// Reader はバッチ生成でプロンプトファイルを読むために使います。
	Reader remoteio.InputReader
}

// Build は設定からバックエンドと画像サービスを組み立てます。
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	httpClient := httpkit.New(cfg.HTTPTimeout)
	core := adapters.NewImageCore(httpClient)

	// GCS / S3 クライアントは持たないため、ローカルパスのみを扱う
	comp := &Components{Reader: remoteio.NewUniversalInputReader(nil, nil)}
	writer := remoteio.NewUniversalIOWriter(nil, nil)

	switch cfg.Backend {
	case config.BackendGemini:
		g, err := adapters.NewGeminiImageGenerator(core, adapters.NewGeminiModel, cfg.GeminiAPIKey, cfg.ImageModel)
		if err != nil {
			return nil, err
		}
		comp.Backend = g
	case config.BackendOpenRouter:
		g, err := adapters.NewOpenRouterGenerator(core, httpClient, cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.ImageModel)
		if err != nil {
			return nil, err
		}
		comp.Backend = g
		comp.OpenRouter = g
	default:
		return nil, fmt.Errorf("未対応のバックエンドです: %s", cfg.Backend)
	}

	svc, err := generator.NewImageService(comp.Backend, writer, generator.Options{
		OutputDir:   cfg.OutputDir,
		JPEGQuality: cfg.JPEGQuality,
	})
	if err != nil {
		return nil, err
	}
	comp.Service = svc
	return comp, nil
}

// KeyEnvName は選択中のバックエンドの API キーを表す環境変数名です。
func KeyEnvName(cfg *config.Config) string {
	if cfg.Backend == config.BackendGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENROUTER_API_KEY"
}

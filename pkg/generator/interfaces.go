package generator

import (
	"context"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// ImageGenerator はサーバーや CLI が利用する統合窓口です。
type ImageGenerator interface {
	// Generate はプロンプトから画像を生成して保存し、保存したファイルの情報を返します。
	Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.SavedImage, error)
}

// Backend は上流の画像生成サービスです。adapters.ImageBackend が満たします。
type Backend interface {
	Name() string
	ValidateKey(apiKey string) error
	Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error)
}

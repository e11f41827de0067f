package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

// DefaultGeminiModel は Gemini バックエンドで使用する既定の画像モデルです。
const DefaultGeminiModel = "gemini-2.5-flash-image"

// GeneratorFactory は API キーごとに gemini.GenerativeModel を生成します。
type GeneratorFactory func(ctx context.Context, apiKey string) (gemini.GenerativeModel, error)

// NewGeminiModel は go-gemini-client のクライアントを生成します。
// リトライは go-gemini-client の既定設定に従います。
func NewGeminiModel(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// GeminiImageGenerator は go-gemini-client 経由で画像を生成するバックエンドです。
type GeminiImageGenerator struct {
	imgCore    *ImageCore
	factory    GeneratorFactory
	defaultKey string
	model      string
}

// NewGeminiImageGenerator は ImageCore と依存関係を注入して初期化します。
func NewGeminiImageGenerator(core *ImageCore, factory GeneratorFactory, apiKey, model string) (*GeminiImageGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("ImageCore is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("GeneratorFactory is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiImageGenerator{
		imgCore:    core,
		factory:    factory,
		defaultKey: apiKey,
		model:      model,
	}, nil
}

func (g *GeminiImageGenerator) Name() string { return "gemini" }

// ValidateKey は空でないキーであれば受け入れます。
func (g *GeminiImageGenerator) ValidateKey(apiKey string) error {
	if g.resolveKey(apiKey) == "" {
		return fmt.Errorf("Gemini APIキーが設定されていません")
	}
	return nil
}

// Generate はプロンプトを Gemini に送り、返されたすべてのインライン画像を返します。
func (g *GeminiImageGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error) {
	key := g.resolveKey(req.APIKey)
	aiClient, err := g.factory(ctx, key)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{{Text: generationInstruction(req.Prompt)}}

	slog.InfoContext(ctx, "Gemini に画像生成をリクエストします", "model", g.model)
	resp, err := aiClient.GenerateWithParts(ctx, g.model, parts, gemini.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	return g.imgCore.ParseToResponse(resp.RawResponse)
}

func (g *GeminiImageGenerator) resolveKey(apiKey string) string {
	return utils.FirstNonBlank(apiKey, g.defaultKey)
}

// generationInstruction は上流モデルに送る指示文を組み立てます。
func generationInstruction(prompt string) string {
	return "Generate an image based on this prompt: " + prompt
}

package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// ImageService はプロンプトを上流に送り、返ってきた画像を出力ディレクトリへ保存します。
type ImageService struct {
	backend Backend
	writer  remoteio.OutputWriter
	opts    Options
}

// NewImageService は依存関係を注入して ImageService を初期化します。
func NewImageService(backend Backend, writer remoteio.OutputWriter, opts Options) (*ImageService, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer (remoteio.OutputWriter) is required")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.JPEGQuality < 0 || opts.JPEGQuality > 100 {
		return nil, fmt.Errorf("JPEG品質は0〜100で指定してください: %d", opts.JPEGQuality)
	}
	if err := os.MkdirAll(opts.OutputDir, outputDirPerm); err != nil {
		return nil, fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	return &ImageService{backend: backend, writer: writer, opts: opts}, nil
}

// OutputDir は画像の保存先ディレクトリを返します。
func (s *ImageService) OutputDir() string { return s.opts.OutputDir }

// Generate は1件のプロンプトから画像を生成して保存します。
func (s *ImageService) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.SavedImage, error) {
	// キーの検査はプロンプトより先に行う
	if err := s.backend.ValidateKey(req.APIKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, ErrNoPrompt
	}
	req.BaseName = SanitizeBaseName(req.BaseName)

	slog.InfoContext(ctx, "画像を生成します", "backend", s.backend.Name(), "base_name", req.BaseName)
	images, err := s.backend.Generate(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "画像生成に失敗しました", "backend", s.backend.Name(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrNoImages, err)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	saved := s.saveImages(ctx, req.BaseName, images)
	if len(saved) == 0 {
		return nil, fmt.Errorf("%w: すべての画像の保存に失敗しました", ErrNoImages)
	}
	return saved, nil
}

package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/imgutil"
)

// ImageBackend は、プロンプトから画像を生成する上流サービスの共通インターフェースです。
type ImageBackend interface {
	// Name はログ出力用のバックエンド名を返します。
	Name() string
	// ValidateKey は、リクエストに使う API キーが利用可能かを検証します。
	ValidateKey(apiKey string) error
	// Generate は1回の生成リクエストを実行し、得られたすべての画像を返します。
	Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error)
}

// ImageCore は、バックエンド間で共通の画像取得・変換ロジックを保持するコンポーネントです。
type ImageCore struct {
	httpClient httpkit.ClientInterface
}

// NewImageCore は依存関係を注入して ImageCore のインスタンスを生成します。
func NewImageCore(httpClient httpkit.ClientInterface) *ImageCore {
	return &ImageCore{httpClient: httpClient}
}

// ResolveImage は、data URL または http(s) URL から画像データを取得します。
// http(s) の場合は SSRF 対策のバリデーション後にダウンロードします。
func (c *ImageCore) ResolveImage(ctx context.Context, rawURL string) (*domain.ImageResponse, error) {
	if imgutil.IsImageDataURL(rawURL) {
		mimeType, data, err := imgutil.DecodeDataURL(rawURL)
		if err != nil {
			return nil, err
		}
		return &domain.ImageResponse{Data: data, MimeType: mimeType}, nil
	}

	if c.httpClient == nil {
		return nil, fmt.Errorf("リモート画像の取得にはHTTPクライアントが必要です")
	}
	if safe, err := c.httpClient.IsSafeURL(rawURL); !safe || err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		if err == nil {
			err = fmt.Errorf("制限されたURLです")
		}
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}

	data, err := c.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	img := c.ToImage(data)
	if img == nil {
		return nil, fmt.Errorf("ダウンロードしたデータが画像ではありません: %s", rawURL)
	}
	return img, nil
}

// ToImage はバイト列を ImageResponse に変換します。画像でなければ nil を返します。
func (c *ImageCore) ToImage(data []byte) *domain.ImageResponse {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないため変換できませんでした", "detected_mime_type", mimeType)
		return nil
	}
	return &domain.ImageResponse{Data: data, MimeType: mimeType}
}

// ParseToResponse は Gemini のレスポンスから画像パーツをすべて取り出します。
func (c *ImageCore) ParseToResponse(resp *genai.GenerateContentResponse) ([]domain.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]

	var images []domain.ImageResponse
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				images = append(images, domain.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				})
			}
		}
	}
	if len(images) > 0 {
		return images, nil
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != "" && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("画像生成が異常終了しました (FinishReason: %s)", candidate.FinishReason)
	}

	return nil, fmt.Errorf("画像データが見つかりませんでした")
}

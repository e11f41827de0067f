package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

const (
	// DefaultOpenRouterBaseURL は OpenRouter API のベース URL です。
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel は OpenRouter 経由で使用する画像モデルです。
	DefaultOpenRouterModel = "google/gemini-2.5-flash-image"
	// OpenRouterKeyPrefix は OpenRouter API キーの接頭辞です。
	OpenRouterKeyPrefix = "sk-or-v1-"

	openRouterReferer = "https://github.com/shouni/prompt-image-kit"
	openRouterTitle   = "Prompt Image Generator"

	previewRunes = 120
)

// OpenRouterGenerator は OpenRouter の chat/completions API で画像を生成するバックエンドです。
type OpenRouterGenerator struct {
	imgCore    *ImageCore
	httpClient httpkit.ClientInterface
	baseURL    string
	defaultKey string
	model      string
}

// NewOpenRouterGenerator は依存関係を注入して OpenRouterGenerator を初期化します。
func NewOpenRouterGenerator(core *ImageCore, httpClient httpkit.ClientInterface, baseURL, apiKey, model string) (*OpenRouterGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("ImageCore is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return &OpenRouterGenerator{
		imgCore:    core,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		defaultKey: apiKey,
		model:      model,
	}, nil
}

func (g *OpenRouterGenerator) Name() string { return "openrouter" }

// ValidateKey は、キーが OpenRouter の形式 (sk-or-v1-) かを確認します。
func (g *OpenRouterGenerator) ValidateKey(apiKey string) error {
	key := g.resolveKey(apiKey)
	if !strings.HasPrefix(key, OpenRouterKeyPrefix) {
		return fmt.Errorf("OpenRouter APIキーの形式が不正です (%s)", utils.MaskKey(key))
	}
	return nil
}

// --- リクエスト / レスポンスの型 ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Modalities []string      `json:"modalities"`
}

type imageURL struct {
	URL string `json:"url"`
}

// responseImage は images 配列の要素です。
// {"type":"image_url","image_url":{"url":...}} と {"url":...} の両方の形を受け付けます。
type responseImage struct {
	Type     string    `json:"type"`
	ImageURL *imageURL `json:"image_url"`
	URL      string    `json:"url"`
}

func (r responseImage) resolveURL() string {
	if r.Type == "image_url" && r.ImageURL != nil {
		return r.ImageURL.URL
	}
	return r.URL
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
			Images  []responseImage `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate はプロンプトを OpenRouter に送り、返された画像をすべて返します。
func (g *OpenRouterGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error) {
	payload := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: generationInstruction(req.Prompt)},
		},
		Modalities: []string{"image", "text"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	g.setHeaders(httpReq, req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", openRouterReferer)
	httpReq.Header.Set("X-Title", openRouterTitle)

	slog.InfoContext(ctx, "OpenRouter に画像生成をリクエストします", "model", g.model, "base_name", req.BaseName)
	respBody, err := g.httpClient.DoRequest(httpReq)
	if err != nil {
		return nil, fmt.Errorf("OpenRouter画像生成エラー: %w", err)
	}

	return g.parseResponse(ctx, respBody)
}

// CheckAuth は models エンドポイントを呼び出して API キーが有効かを確認します。
func (g *OpenRouterGenerator) CheckAuth(ctx context.Context, apiKey string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	g.setHeaders(httpReq, apiKey)

	slog.InfoContext(ctx, "認証チェック", "key", utils.MaskKey(g.resolveKey(apiKey)), "endpoint", httpReq.URL.String())
	if _, err := g.httpClient.DoRequest(httpReq); err != nil {
		return fmt.Errorf("認証チェックに失敗しました: %w", err)
	}
	return nil
}

func (g *OpenRouterGenerator) setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+g.resolveKey(apiKey))
	req.Header.Set("Accept", "application/json")
}

func (g *OpenRouterGenerator) resolveKey(apiKey string) string {
	return utils.FirstNonBlank(apiKey, g.defaultKey)
}

// parseResponse は chat/completions の応答から画像を取り出します。
// 個々の画像のデコード失敗はログに残してスキップします。
func (g *OpenRouterGenerator) parseResponse(ctx context.Context, body []byte) ([]domain.ImageResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("OpenRouter応答のパースに失敗しました: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("OpenRouter応答に choices がありません")
	}
	message := resp.Choices[0].Message

	var images []domain.ImageResponse
	for i, img := range message.Images {
		u := img.resolveURL()
		if u == "" {
			continue
		}
		out, err := g.imgCore.ResolveImage(ctx, u)
		if err != nil {
			slog.WarnContext(ctx, "画像の取得に失敗したためスキップします", "index", i+1, "error", err)
			continue
		}
		images = append(images, *out)
	}
	if len(images) > 0 {
		return images, nil
	}

	// content に data URL が直接入っている場合のフォールバック
	var content string
	if len(message.Content) > 0 {
		_ = json.Unmarshal(message.Content, &content)
	}
	if strings.HasPrefix(content, "data:image") {
		out, err := g.imgCore.ResolveImage(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("インライン画像のデコードに失敗しました: %w", err)
		}
		return []domain.ImageResponse{*out}, nil
	}

	slog.WarnContext(ctx, "応答に画像データがありません", "assistant", preview(content, previewRunes))
	return nil, nil
}

// preview はログ用に先頭 n 文字 (rune 単位) だけを返します。
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

package form

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

// Controller は、フォーム送信ごとに1回のリクエスト/レスポンスを処理し、
// ファイル選択ごとにプレビュー入力を行うコンポーネントです。
type Controller struct {
	el       Elements
	client   Doer
	endpoint string
	logger   *slog.Logger

	// UI 要素への書き込みを直列化する
	mu sync.Mutex
}

// NewController は UI 要素と HTTP クライアントを注入して Controller を初期化します。
func NewController(el Elements, client Doer, endpoint string, logger *slog.Logger) (*Controller, error) {
	if el.Prompt == nil || el.Name == nil || el.APIKey == nil {
		return nil, fmt.Errorf("prompt, name and apiKey fields are required")
	}
	if el.Status == nil {
		return nil, fmt.Errorf("status line is required")
	}
	if el.Results == nil {
		return nil, fmt.Errorf("results container is required")
	}
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		el:       el,
		client:   client,
		endpoint: endpoint,
		logger:   logger,
	}, nil
}

// OnFileSelected は、選択されたファイルの内容をプロンプト欄と名前欄へベストエフォートで反映します。
// 読み込みに失敗しても何も表示せず、エラーも返しません。
func (c *Controller) OnFileSelected(ctx context.Context, file domain.PromptFile) {
	if file == nil {
		return
	}

	text, err := readText(file)
	if err != nil {
		c.logger.DebugContext(ctx, "プレビュー用のファイル読み込みに失敗しました", "file", file.Name(), "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if text != "" && c.el.Prompt.Value() == "" {
		c.el.Prompt.SetValue(text)
	}
	if c.el.Name.Value() == "" {
		c.el.Name.SetValue(utils.TrimExtension(file.Name()))
	}
}

// OnSubmit は、フォームの内容を1回だけ送信し、結果をステータス行と結果領域に反映します。
// どの失敗もこのサイクルで終了し、再試行はしません。
func (c *Controller) OnSubmit(ctx context.Context) Outcome {
	// 1. 結果をクリアして送信中表示
	c.mu.Lock()
	c.el.Results.Clear()
	c.el.Status.SetText(StatusGenerating)
	in := CollectInput(c.el)
	c.mu.Unlock()

	// 2. リクエストの組み立てと送信
	req, err := BuildRequest(ctx, c.endpoint, in)
	if err != nil {
		return c.networkError(ctx, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return c.networkError(ctx, err)
	}
	defer resp.Body.Close()

	// 3. レスポンスの解析
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.setStatus(StatusInvalidResponse)
		return OutcomeParseError
	}
	data, err := ParseResponse(body)
	if err != nil {
		c.logger.WarnContext(ctx, "サーバーの応答が不正です", "status", resp.StatusCode, "error", err)
		c.setStatus(StatusInvalidResponse)
		return OutcomeParseError
	}

	if !isSuccessStatus(resp.StatusCode) {
		c.setStatus(FailureMessage(data))
		return OutcomeServerError
	}

	// 4. 成功時はステータスと結果をまとめて更新
	c.mu.Lock()
	defer c.mu.Unlock()
	c.el.Status.SetText(DoneMessage(len(data.Images)))
	renderResults(c.el.Results, data.URLs, data.Images)
	return OutcomeSuccess
}

// RenderResults は結果領域を urls と filenames から作り直します。
func (c *Controller) RenderResults(urls, filenames []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	renderResults(c.el.Results, urls, filenames)
}

func (c *Controller) networkError(ctx context.Context, err error) Outcome {
	c.logger.ErrorContext(ctx, "画像生成リクエストの送信に失敗しました", "endpoint", c.endpoint, "error", err)
	c.setStatus(StatusNetworkError)
	return OutcomeNetworkError
}

func (c *Controller) setStatus(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.el.Status.SetText(msg)
}

func readText(file domain.PromptFile) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// 送信フィールド名
const (
	fieldName       = "name"
	fieldPrompt     = "prompt"
	fieldPromptFile = "prompt_file"
	fieldAPIKey     = "apiKey"
)

// jsonBody は JSON 送信時のボディです。name と apiKey は空なら省略されます。
type jsonBody struct {
	Name   string `json:"name,omitempty"`
	Prompt string `json:"prompt"`
	APIKey string `json:"apiKey,omitempty"`
}

// CollectInput は、送信時点のフォーム値から SubmissionInput を組み立てます。
// すべてのテキスト値はトリムされます。
func CollectInput(el Elements) domain.SubmissionInput {
	in := domain.SubmissionInput{
		Name:   strings.TrimSpace(fieldValue(el.Name)),
		Prompt: strings.TrimSpace(fieldValue(el.Prompt)),
		APIKey: strings.TrimSpace(fieldValue(el.APIKey)),
	}
	if el.PromptFile != nil {
		in.File = el.PromptFile.File()
	}
	return in
}

// BuildRequest は、入力内容から /api/generate への POST リクエストを作成します。
// ファイルが添付されていればマルチパート、なければ JSON で送信します。
func BuildRequest(ctx context.Context, endpoint string, in domain.SubmissionInput) (*http.Request, error) {
	var (
		body        []byte
		contentType string
		err         error
	)
	if in.HasFile() {
		body, contentType, err = encodeMultipart(in)
	} else {
		body, err = encodeJSON(in)
		contentType = "application/json"
	}
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成失敗: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

func encodeJSON(in domain.SubmissionInput) ([]byte, error) {
	b, err := json.Marshal(jsonBody{
		Name:   strings.TrimSpace(in.Name),
		Prompt: strings.TrimSpace(in.Prompt),
		APIKey: strings.TrimSpace(in.APIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("JSONエンコード失敗: %w", err)
	}
	return b, nil
}

// encodeMultipart はフィールドを name, prompt, prompt_file, apiKey の順に書き込みます。
// 空のテキストフィールドは送信しません。
func encodeMultipart(in domain.SubmissionInput) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	if err := writeOptionalField(mw, fieldName, in.Name); err != nil {
		return nil, "", err
	}
	if err := writeOptionalField(mw, fieldPrompt, in.Prompt); err != nil {
		return nil, "", err
	}

	rc, err := in.File.Open()
	if err != nil {
		return nil, "", fmt.Errorf("プロンプトファイルを開けません: %w", err)
	}
	defer rc.Close()

	part, err := mw.CreateFormFile(fieldPromptFile, filepath.Base(in.File.Name()))
	if err != nil {
		return nil, "", fmt.Errorf("マルチパート作成失敗: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("プロンプトファイルの読み込み失敗: %w", err)
	}

	if err := writeOptionalField(mw, fieldAPIKey, in.APIKey); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("マルチパート作成失敗: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func writeOptionalField(mw *multipart.Writer, name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if err := mw.WriteField(name, value); err != nil {
		return fmt.Errorf("フィールド %s の書き込み失敗: %w", name, err)
	}
	return nil
}

func fieldValue(f Field) string {
	if f == nil {
		return ""
	}
	return f.Value()
}

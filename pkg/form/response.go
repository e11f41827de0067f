package form

import (
	"encoding/json"
	"fmt"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// ParseResponse は、レスポンスボディを GenerationResponse として解釈します。
// ステータスコードに関係なく、ボディが JSON でなければエラーを返します。
func ParseResponse(body []byte) (*domain.GenerationResponse, error) {
	var data domain.GenerationResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("レスポンスの解析に失敗しました: %w", err)
	}
	return &data, nil
}

// FailureMessage は、失敗レスポンスからステータス行に出すメッセージを決めます。
func FailureMessage(data *domain.GenerationResponse) string {
	if data != nil && data.Error != "" {
		return data.Error
	}
	return StatusFailed
}

// DoneMessage は、成功時のステータスメッセージを返します。
func DoneMessage(imageCount int) string {
	return fmt.Sprintf(StatusDoneFormat, imageCount)
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

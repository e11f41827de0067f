package imgutil

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURL は "data:image/png;base64,...." 形式の URL を MIME タイプとバイト列に分解します。
func DecodeDataURL(dataURL string) (string, []byte, error) {
	if !IsImageDataURL(dataURL) {
		return "", nil, fmt.Errorf("画像の data URL ではありません")
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL にカンマがありません")
	}

	mimeType := strings.TrimPrefix(header, "data:")
	mimeType, _, _ = strings.Cut(mimeType, ";")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("base64 デコード失敗: %w", err)
	}
	return mimeType, data, nil
}

// IsImageDataURL は、文字列が画像の data URL かどうかを返します。
func IsImageDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// ExtensionFor は、MIME タイプ（または data URL のヘッダ）から保存用の拡張子を決めます。
// 判別できない場合は png です。
func ExtensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "image/png"):
		return "png"
	case strings.Contains(mimeType, "image/jpeg"), strings.Contains(mimeType, "image/jpg"):
		return "jpg"
	default:
		return "png"
	}
}

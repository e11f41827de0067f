package utils

import (
	"regexp"
	"strings"
)

var extPattern = regexp.MustCompile(`\.[^.]+$`)

// TrimExtension は、ファイル名の末尾の拡張子（最後の "." 以降）を取り除きます。
// 拡張子がない場合はそのまま返します。
func TrimExtension(name string) string {
	return extPattern.ReplaceAllString(name, "")
}

// MaskKey は、ログ出力用に API キーの中央部分を伏せ字にします。
func MaskKey(key string) string {
	if key == "" {
		return "<missing>"
	}
	if len(key) <= 10 {
		return key[:min(3, len(key))] + "..." + key[max(0, len(key)-2):]
	}
	return key[:8] + "..." + key[len(key)-6:]
}

// FirstNonBlank は、空白のみではない最初の値をトリムして返します。
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

package generator

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeBaseName は保存ファイル名のベースを1つのパス要素に正規化するのだ。
// ディレクトリ部分と制御文字を取り除き、何も残らなければ DefaultBaseName を返すのだ。
func SanitizeBaseName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == ':' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	switch name {
	case "", ".", "..", "/":
		return DefaultBaseName
	}
	return name
}

package domain

// ImageGenerationRequest は、プロンプトから画像を生成する単一の要求です。
type ImageGenerationRequest struct {
	Prompt   string
	BaseName string // 保存ファイル名のベース（拡張子なし）
	APIKey   string // 空の場合はサーバー設定のキーを使用
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// SavedImage は、出力ディレクトリに保存された画像ファイルの情報です。
type SavedImage struct {
	Filename string
	Path     string
	Bytes    int
}

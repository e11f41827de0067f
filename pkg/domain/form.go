package domain

import "io"

// PromptFile は、ユーザーが選択したプロンプトファイルを表します。
// Open は呼び出しのたびに先頭から読める新しい Reader を返す必要があります。
type PromptFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// SubmissionInput は、送信時点のフォーム値から組み立てた送信内容です。
type SubmissionInput struct {
	Name   string
	Prompt string
	File   PromptFile // nil の場合は JSON で送信
	APIKey string
}

// HasFile は、プロンプトファイルが添付されているかどうかを返します。
func (in SubmissionInput) HasFile() bool {
	return in.File != nil
}

// GenerationResponse は /api/generate のレスポンスボディです。
// Images と URLs は同じインデックス同士が対応します。
type GenerationResponse struct {
	Images []string `json:"images,omitempty"`
	URLs   []string `json:"urls,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Link は結果カード内のアクションリンクです。
type Link struct {
	Href     string
	Text     string
	Download string // ダウンロード時のファイル名ヒント
	Target   string
	Rel      string
}

// ResultCard は、生成画像1枚分の表示カードです。
type ResultCard struct {
	Index    int
	ImageSrc string
	Alt      string
	Download Link
	Open     Link
}

package form

import (
	"net/http"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// Field は、テキスト入力欄（プロンプト、名前、API キー）のハンドルです。
type Field interface {
	Value() string
	SetValue(v string)
}

// FileInput は、プロンプトファイル選択欄のハンドルです。未選択なら nil を返します。
type FileInput interface {
	File() domain.PromptFile
}

// StatusLine は、ユーザーに現在の状態を1行で伝える表示領域です。
type StatusLine interface {
	SetText(msg string)
}

// ResultsContainer は、生成結果のカードを表示する領域です。
type ResultsContainer interface {
	// Clear は表示中の結果をすべて破棄します。
	Clear()
	// ShowMessage は結果の代わりにメッセージだけを表示します。
	ShowMessage(msg string)
	// Replace は表示中の結果を cards で丸ごと置き換えます。
	Replace(cards []domain.ResultCard)
}

// Elements は、Controller が操作する UI 要素一式です。
type Elements struct {
	Prompt     Field
	Name       Field
	APIKey     Field
	PromptFile FileInput
	Status     StatusLine
	Results    ResultsContainer
}

// Doer は、HTTP リクエストを1回だけ送信するクライアントです。*http.Client が満たします。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

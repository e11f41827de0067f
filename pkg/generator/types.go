package generator

import (
	"errors"
	"time"
)

const (
	// DefaultBaseName は名前が指定されなかったときの保存ファイル名です。
	DefaultBaseName = "image"
	// DefaultBatchDelay はバッチ生成でリクエスト間に置く待ち時間です。
	DefaultBatchDelay = 2 * time.Second

	outputDirPerm = 0o755
	promptExt     = ".txt"
)

var (
	// ErrNoPrompt はプロンプトが空のときに返されます。
	ErrNoPrompt = errors.New("no prompt provided")
	// ErrInvalidAPIKey は上流の API キーが無い、または形式が不正なときに返されます。
	ErrInvalidAPIKey = errors.New("missing or invalid API key")
	// ErrNoImages は上流が画像を1枚も返さなかったときに返されます。
	ErrNoImages = errors.New("no images returned from model")
)

// Options は画像の保存方法を指定します。
type Options struct {
	OutputDir string
	// JPEGQuality が 1 以上なら保存前に JPEG へ再圧縮します。
	JPEGQuality int
}

// BatchResult はバッチ生成の集計です。
type BatchResult struct {
	Succeeded int
	Failed    int
	Saved     []string
}

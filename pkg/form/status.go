package form

// ステータス行に表示するメッセージ
const (
	StatusGenerating      = "Generating…"
	StatusNetworkError    = "Network error. See console."
	StatusInvalidResponse = "Invalid server response"
	StatusFailed          = "Generation failed"
	StatusDoneFormat      = "Done. %d image(s)."

	MessageNoImages = "No images returned."
)

// DefaultEndpoint は画像生成 API のパスです。
const DefaultEndpoint = "/api/generate"

// Outcome は1回の送信サイクルの終了状態です。
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNetworkError
	OutcomeParseError
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNetworkError:
		return "network-error"
	case OutcomeParseError:
		return "parse-error"
	case OutcomeServerError:
		return "server-error"
	default:
		return "unknown"
	}
}

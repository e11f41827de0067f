package form

import (
	"fmt"
	"html/template"
	"io"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

var resultsTemplate = template.Must(template.New("results").Parse(`<div id="results">
{{- if .Message}}
<p>{{.Message}}</p>
{{- end}}
{{- range .Cards}}
<div class="imgCard">
<img src="{{.ImageSrc}}" alt="{{.Alt}}">
<div class="imgActions">
<a href="{{.Download.Href}}" download="{{.Download.Download}}">{{.Download.Text}}</a>
<a href="{{.Open.Href}}" target="{{.Open.Target}}" rel="{{.Open.Rel}}">{{.Open.Text}}</a>
</div>
</div>
{{- end}}
</div>
`))

// RenderHTML は結果領域を HTML 断片として書き出します。
// message が空でなければカードの代わりにメッセージを出します。
func RenderHTML(w io.Writer, message string, cards []domain.ResultCard) error {
	data := struct {
		Message string
		Cards   []domain.ResultCard
	}{Message: message}
	if message == "" {
		data.Cards = cards
	}
	if err := resultsTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("HTML 出力に失敗しました: %w", err)
	}
	return nil
}

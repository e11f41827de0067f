package form

import (
	"fmt"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

const (
	linkTextDownload = "Download"
	linkTextOpen     = "Open"
	targetBlank      = "_blank"
	relNoOpener      = "noopener noreferrer"
)

// BuildCards は、URL ごとに1枚の結果カードを作ります。
// filenames が urls より短い場合、代替テキストは image_<n>、ダウンロード名は空になります。
func BuildCards(urls, filenames []string) []domain.ResultCard {
	cards := make([]domain.ResultCard, 0, len(urls))
	for i, u := range urls {
		filename := ""
		if i < len(filenames) {
			filename = filenames[i]
		}
		alt := filename
		if alt == "" {
			alt = fmt.Sprintf("image_%d", i+1)
		}

		cards = append(cards, domain.ResultCard{
			Index:    i,
			ImageSrc: u,
			Alt:      alt,
			Download: domain.Link{Href: u, Text: linkTextDownload, Download: filename},
			Open:     domain.Link{Href: u, Text: linkTextOpen, Target: targetBlank, Rel: relNoOpener},
		})
	}
	return cards
}

// renderResults は結果領域を丸ごと置き換えます。呼び出し側でロックを保持していること。
func renderResults(results ResultsContainer, urls, filenames []string) {
	results.Clear()
	if len(urls) == 0 {
		results.ShowMessage(MessageNoImages)
		return
	}
	results.Replace(BuildCards(urls, filenames))
}

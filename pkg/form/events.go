package form

import (
	"context"
	"sync"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// EventKind は UI から届くイベントの種類です。
type EventKind int

const (
	EventFileSelected EventKind = iota
	EventSubmit
)

// Event は UI イベントソースが発行する1件のイベントです。
type Event struct {
	Kind EventKind
	File domain.PromptFile // EventFileSelected のときだけ使用
}

// FileSelected はファイル選択イベントを作ります。
func FileSelected(file domain.PromptFile) Event {
	return Event{Kind: EventFileSelected, File: file}
}

// Submit は送信イベントを作ります。
func Submit() Event {
	return Event{Kind: EventSubmit}
}

// Run は events を読み続け、イベントごとに別の goroutine で処理します。
// プレビューと送信は互いを待たず、送信が重なった場合は後に応答したものが表示に残ります。
// events が閉じられるか ctx が終了すると、処理中のイベントを待ってから戻ります。
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func(ev Event) {
				defer wg.Done()
				c.dispatch(ctx, ev)
			}(ev)
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventFileSelected:
		c.OnFileSelected(ctx, ev.File)
	case EventSubmit:
		outcome := c.OnSubmit(ctx)
		c.logger.DebugContext(ctx, "送信サイクルが終了しました", "outcome", outcome.String())
	default:
		c.logger.WarnContext(ctx, "未知のイベントを無視しました", "kind", int(ev.Kind))
	}
}

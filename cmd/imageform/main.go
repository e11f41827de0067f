// Command imageform は画像生成フォームのターミナル版です。
// プロンプトまたはプロンプトファイルを /api/generate に送り、結果のカードを表示します。
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/form"
	"github.com/shouni/prompt-image-kit/pkg/logger"
)

type options struct {
	server      string
	prompt      string
	promptFile  string
	name        string
	apiKey      string
	htmlOut     string
	interactive bool
	logLevel    string
}

func main() {
	var opts options
	flag.StringVar(&opts.server, "server", "http://127.0.0.1:5000", "base URL of the image server")
	flag.StringVar(&opts.prompt, "prompt", "", "prompt text")
	flag.StringVar(&opts.promptFile, "prompt-file", "", "path to a .txt prompt file")
	flag.StringVar(&opts.name, "name", "", "base name for the saved images")
	flag.StringVar(&opts.apiKey, "api-key", "", "API key to use instead of the server's")
	flag.StringVar(&opts.htmlOut, "html", "", "write the result cards to this HTML file")
	flag.BoolVar(&opts.interactive, "i", false, "interactive mode")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	flag.Parse()

	log := logger.Setup(opts.logLevel, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	endpoint, err := url.JoinPath(opts.server, form.DefaultEndpoint)
	if err != nil {
		return fmt.Errorf("サーバー URL が不正です: %w", err)
	}

	view := form.NewTerminalView(os.Stdout)
	slot := &form.FileSlot{}
	el := form.Elements{
		Prompt:     form.NewTextField(opts.prompt),
		Name:       form.NewTextField(opts.name),
		APIKey:     form.NewTextField(opts.apiKey),
		PromptFile: slot,
		Status:     view,
		Results:    view,
	}
	ctrl, err := form.NewController(el, &http.Client{}, endpoint, log)
	if err != nil {
		return err
	}

	if opts.interactive {
		session := newSession(el, slot)
		if err := session.loop(ctx, ctrl, bufio.NewScanner(os.Stdin), os.Stdout); err != nil {
			return err
		}
		return writeHTML(opts, view)
	}

	if opts.promptFile != "" {
		file := form.LocalFile{Path: opts.promptFile}
		slot.Select(file)
		ctrl.OnFileSelected(ctx, file)
	}
	outcome := ctrl.OnSubmit(ctx)
	if err := writeHTML(opts, view); err != nil {
		return err
	}
	if outcome != form.OutcomeSuccess {
		return errors.New(view.Status())
	}
	return nil
}

// writeHTML は -html が指定されていれば、結果領域をサーバーの絶対 URL 付きで書き出します。
func writeHTML(opts options, view *form.TerminalView) error {
	if opts.htmlOut == "" {
		return nil
	}
	message, cards := view.Snapshot()
	cards = absolutize(opts.server, cards)

	f, err := os.Create(opts.htmlOut)
	if err != nil {
		return fmt.Errorf("HTML ファイルを作成できません: %w", err)
	}
	defer f.Close()
	return form.RenderHTML(f, message, cards)
}

// absolutize はカードの相対 URL を base に対する絶対 URL に置き換えます。
func absolutize(base string, cards []domain.ResultCard) []domain.ResultCard {
	baseURL, err := url.Parse(base)
	if err != nil {
		return cards
	}
	resolve := func(ref string) string {
		u, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return baseURL.ResolveReference(u).String()
	}

	out := make([]domain.ResultCard, len(cards))
	for i, c := range cards {
		c.ImageSrc = resolve(c.ImageSrc)
		c.Download.Href = resolve(c.Download.Href)
		c.Open.Href = resolve(c.Open.Href)
		out[i] = c
	}
	return out
}

package form

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// TextField はメモリ上に値を保持する Field 実装です。
type TextField struct {
	mu    sync.RWMutex
	value string
}

// NewTextField は初期値を持つ TextField を作ります。
func NewTextField(v string) *TextField {
	return &TextField{value: v}
}

func (f *TextField) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

func (f *TextField) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

// FileSlot は選択中のファイルを1つ保持する FileInput 実装です。
type FileSlot struct {
	mu   sync.RWMutex
	file domain.PromptFile
}

func (s *FileSlot) File() domain.PromptFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file
}

// Select はファイルを選択状態にします。nil で選択解除です。
func (s *FileSlot) Select(file domain.PromptFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = file
}

// LocalFile はローカルディスク上のファイルを PromptFile として扱います。
type LocalFile struct {
	Path string
}

func (f LocalFile) Name() string { return filepath.Base(f.Path) }

func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// TerminalView はステータス行と結果カードをテキストで書き出すビューです。
// StatusLine と ResultsContainer の両方を満たします。
type TerminalView struct {
	mu      sync.Mutex
	w       io.Writer
	status  string
	message string
	cards   []domain.ResultCard
}

// NewTerminalView は w に書き出す TerminalView を作ります。
func NewTerminalView(w io.Writer) *TerminalView {
	return &TerminalView{w: w}
}

func (v *TerminalView) SetText(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = msg
	fmt.Fprintf(v.w, "[status] %s\n", msg)
}

func (v *TerminalView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = ""
	v.cards = nil
}

func (v *TerminalView) ShowMessage(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = msg
	v.cards = nil
	fmt.Fprintln(v.w, msg)
}

func (v *TerminalView) Replace(cards []domain.ResultCard) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = ""
	v.cards = append([]domain.ResultCard(nil), cards...)
	for _, c := range cards {
		fmt.Fprintf(v.w, "%2d. %s\n    download: %s (%s)\n    open:     %s\n",
			c.Index+1, c.Alt, c.Download.Href, c.Download.Download, c.Open.Href)
	}
}

// Status は最後に表示したステータスを返します。
func (v *TerminalView) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Snapshot は現在の結果領域の内容（メッセージとカード）を返します。
func (v *TerminalView) Snapshot() (string, []domain.ResultCard) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message, append([]domain.ResultCard(nil), v.cards...)
}

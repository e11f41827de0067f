package form

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// --- Mocks ---

// memFile はメモリ上の内容を返す PromptFile なのだ。
type memFile struct {
	name string
	data []byte
}

func (f memFile) Name() string { return f.name }

func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// brokenFile は Open に必ず失敗する PromptFile なのだ。
type brokenFile struct{ name string }

func (f brokenFile) Name() string { return f.name }

func (f brokenFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

// mockDoer は送信されたリクエストを記録し、doFunc の結果を返すのだ。
type mockDoer struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	doFunc   func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()
	return m.doFunc(req)
}

func (m *mockDoer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func jsonResponse(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}
}

// newTestElements はテスト用の UI 要素一式と、それを表示する TerminalView を返すのだ。
func newTestElements(prompt, name, apiKey string) (Elements, *FileSlot, *TerminalView) {
	view := NewTerminalView(io.Discard)
	slot := &FileSlot{}
	el := Elements{
		Prompt:     NewTextField(prompt),
		Name:       NewTextField(name),
		APIKey:     NewTextField(apiKey),
		PromptFile: slot,
		Status:     view,
		Results:    view,
	}
	return el, slot, view
}

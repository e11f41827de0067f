package adapters

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"sync"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"
)

// --- Mocks ---

var (
	_ httpkit.ClientInterface = (*mockHTTPClient)(nil)
	_ gemini.GenerativeModel  = (*mockAIClient)(nil)
)

// mockHTTPClient は httpkit.ClientInterface を実装するのだ。
type mockHTTPClient struct {
	mu        sync.Mutex
	requests  []*http.Request
	bodies    [][]byte
	doFunc    func(req *http.Request) ([]byte, error)
	rawFunc   func(req *http.Request) (*http.Response, error)
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
	safeFunc  func(rawURL string) (bool, error)
}

func (m *mockHTTPClient) record(req *http.Request) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.record(req)
	if m.rawFunc != nil {
		return m.rawFunc(req)
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Request: req}, nil
}

func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	m.record(req)
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, nil
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return nil, nil
}

// IsSafeURL は safeFunc が無ければ、IP リテラルのホストだけを見る簡易判定をするのだ。
func (m *mockHTTPClient) IsSafeURL(rawURL string) (bool, error) {
	if m.safeFunc != nil {
		return m.safeFunc(rawURL)
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, errors.New("不許可スキーム")
	}
	addr, err := netip.ParseAddr(u.Hostname())
	if err != nil {
		return false, err
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
		return false, errors.New("制限されたネットワーク")
	}
	return true, nil
}

// インターフェースを満たすための空実装群なのだ
func (m *mockHTTPClient) IsSecureServiceURL(serviceURL string) bool {
	return true
}

func (m *mockHTTPClient) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return nil
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, nil
}

// mockAIClient は gemini.GenerativeModel のテスト用モックなのだ。
type mockAIClient struct {
	gotModel   string
	gotParts   []*genai.Part
	gotOpts    gemini.GenerateOptions
	generateFn func() (*gemini.Response, error)
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	return nil, errors.New("GenerateContent は使わないのだ")
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.gotModel = model
	m.gotParts = parts
	m.gotOpts = opts
	if m.generateFn != nil {
		return m.generateFn()
	}
	return nil, nil
}

func (m *mockAIClient) UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (string, string, error) {
	return "", "", nil
}

func (m *mockAIClient) DeleteFile(ctx context.Context, fileName string) error {
	return nil
}

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

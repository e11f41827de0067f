package generator

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

// --- Mocks ---

// mockBackend は Backend のテスト用モックなのだ。
type mockBackend struct {
	mu         sync.Mutex
	keyErr     error
	images     []domain.ImageResponse
	err        error
	requests   []domain.ImageGenerationRequest
	generateFn func(req domain.ImageGenerationRequest) ([]domain.ImageResponse, error)
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) ValidateKey(apiKey string) error { return m.keyErr }

func (m *mockBackend) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFn != nil {
		return m.generateFn(req)
	}
	return m.images, m.err
}

// mockGenerator は ImageGenerator のテスト用モックなのだ。
type mockGenerator struct {
	requests []domain.ImageGenerationRequest
	failOn   string
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.SavedImage, error) {
	m.requests = append(m.requests, req)
	if req.BaseName == m.failOn {
		return nil, errors.New("upstream failed")
	}
	return []domain.SavedImage{{Filename: req.BaseName + ".png"}}, nil
}

// mockReader は remoteio.InputReader のテスト用モックなのだ。
type mockReader struct {
	files   map[string]string
	openErr map[string]error
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := m.openErr[uri]; err != nil {
		return nil, err
	}
	body, ok := m.files[uri]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	for name := range m.files {
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}

// mockWriter は remoteio.OutputWriter のテスト用モックなのだ。
type mockWriter struct {
	mu           sync.Mutex
	written      map[string][]byte
	contentTypes map[string]string
	failSuffix   string
}

func (m *mockWriter) Write(ctx context.Context, uri string, r io.Reader, contentType string) error {
	if m.failSuffix != "" && strings.HasSuffix(uri, m.failSuffix) {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.written == nil {
		m.written = map[string][]byte{}
		m.contentTypes = map[string]string{}
	}
	m.written[uri] = data
	m.contentTypes[uri] = contentType
	return nil
}

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

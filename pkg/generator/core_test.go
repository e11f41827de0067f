package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/prompt-image-kit/pkg/domain"
)

func localWriter() remoteio.OutputWriter {
	return remoteio.NewUniversalIOWriter(nil, nil)
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewImageService(t *testing.T) {
	t.Run("nilチェック: backend が nil の場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewImageService(nil, localWriter(), Options{OutputDir: t.TempDir()})
		assert.Error(t, err)
	})

	t.Run("nilチェック: writer が nil の場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewImageService(&mockBackend{}, nil, Options{OutputDir: t.TempDir()})
		assert.Error(t, err)
	})

	t.Run("出力ディレクトリが無ければ作るのだ", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		_, err := NewImageService(&mockBackend{}, localWriter(), Options{OutputDir: dir})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("範囲外の JPEG 品質はエラーなのだ", func(t *testing.T) {
		_, err := NewImageService(&mockBackend{}, localWriter(), Options{OutputDir: t.TempDir(), JPEGQuality: 101})
		assert.Error(t, err)
	})
}

func TestImageService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("1枚なら拡張子だけを付けて保存するのだ", func(t *testing.T) {
		dir := t.TempDir()
		backend := &mockBackend{images: []domain.ImageResponse{{Data: validPng, MimeType: "image/png"}}}
		svc, err := NewImageService(backend, localWriter(), Options{OutputDir: dir})
		require.NoError(t, err)

		saved, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "  a fox  ", BaseName: "fox"})

		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, "fox.png", saved[0].Filename)
		assert.Equal(t, "a fox", backend.requests[0].Prompt)

		data, err := os.ReadFile(filepath.Join(dir, "fox.png"))
		require.NoError(t, err)
		assert.Equal(t, validPng, data)
	})

	t.Run("複数なら _1, _2 を付け、MIME から拡張子を決めるのだ", func(t *testing.T) {
		dir := t.TempDir()
		backend := &mockBackend{images: []domain.ImageResponse{
			{Data: []byte("a"), MimeType: "image/png"},
			{Data: []byte("b"), MimeType: "image/jpeg"},
		}}
		svc, _ := NewImageService(backend, localWriter(), Options{OutputDir: dir})

		saved, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p", BaseName: "scene"})

		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.Equal(t, "scene_1.png", saved[0].Filename)
		assert.Equal(t, "scene_2.jpg", saved[1].Filename)
		assert.FileExists(t, filepath.Join(dir, "scene_2.jpg"))
	})

	t.Run("名前が空なら image になり、パス要素は取り除かれるのだ", func(t *testing.T) {
		backend := &mockBackend{images: []domain.ImageResponse{{Data: validPng, MimeType: "image/png"}}}
		svc, _ := NewImageService(backend, localWriter(), Options{OutputDir: t.TempDir()})

		saved, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p"})
		require.NoError(t, err)
		assert.Equal(t, "image.png", saved[0].Filename)

		saved, err = svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p", BaseName: "../../etc/evil"})
		require.NoError(t, err)
		assert.Equal(t, "evil.png", saved[0].Filename)
	})

	t.Run("JPEG 品質を指定すると jpg で保存するのだ", func(t *testing.T) {
		dir := t.TempDir()
		backend := &mockBackend{images: []domain.ImageResponse{{Data: encodePNG(t), MimeType: "image/png"}}}
		svc, _ := NewImageService(backend, localWriter(), Options{OutputDir: dir, JPEGQuality: 80})

		saved, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p", BaseName: "c"})

		require.NoError(t, err)
		assert.Equal(t, "c.jpg", saved[0].Filename)
		data, _ := os.ReadFile(filepath.Join(dir, "c.jpg"))
		assert.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}), "JPEG SOI marker expected")
	})

	t.Run("プロンプトが空なら ErrNoPrompt で上流を呼ばないのだ", func(t *testing.T) {
		backend := &mockBackend{}
		svc, _ := NewImageService(backend, localWriter(), Options{OutputDir: t.TempDir()})

		_, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "   "})

		assert.ErrorIs(t, err, ErrNoPrompt)
		assert.Empty(t, backend.requests)
	})

	t.Run("キーが不正なら ErrInvalidAPIKey なのだ", func(t *testing.T) {
		backend := &mockBackend{keyErr: errors.New("bad prefix")}
		svc, _ := NewImageService(backend, localWriter(), Options{OutputDir: t.TempDir()})

		_, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p"})

		assert.ErrorIs(t, err, ErrInvalidAPIKey)
		assert.Empty(t, backend.requests)
	})

	t.Run("上流のエラーと空の結果は ErrNoImages なのだ", func(t *testing.T) {
		svc, _ := NewImageService(&mockBackend{err: errors.New("timeout")}, localWriter(), Options{OutputDir: t.TempDir()})
		_, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p"})
		assert.ErrorIs(t, err, ErrNoImages)
		assert.ErrorContains(t, err, "timeout")

		svc, _ = NewImageService(&mockBackend{}, localWriter(), Options{OutputDir: t.TempDir()})
		_, err = svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p"})
		assert.ErrorIs(t, err, ErrNoImages)
	})
}

func TestImageService_saveImages(t *testing.T) {
	ctx := context.Background()

	t.Run("書き込み先に Content-Type を渡すのだ", func(t *testing.T) {
		writer := &mockWriter{}
		backend := &mockBackend{images: []domain.ImageResponse{{Data: []byte("x"), MimeType: "image/webp"}}}
		svc, err := NewImageService(backend, writer, Options{OutputDir: t.TempDir()})
		require.NoError(t, err)

		saved, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p", BaseName: "w"})

		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, "image/webp", writer.contentTypes[saved[0].Path])
		assert.Equal(t, []byte("x"), writer.written[saved[0].Path])
	})

	t.Run("書き込みに失敗した画像だけを飛ばすのだ", func(t *testing.T) {
		writer := &mockWriter{failSuffix: "_1.png"}
		backend := &mockBackend{images: []domain.ImageResponse{
			{Data: []byte("a"), MimeType: "image/png"},
			{Data: []byte("b"), MimeType: "image/png"},
		}}
		svc, _ := NewImageService(backend, writer, Options{OutputDir: t.TempDir()})

		saved, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p", BaseName: "s"})

		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, "s_2.png", saved[0].Filename)
	})

	t.Run("すべて失敗したら ErrNoImages なのだ", func(t *testing.T) {
		writer := &mockWriter{failSuffix: ".png"}
		backend := &mockBackend{images: []domain.ImageResponse{{Data: validPng, MimeType: "image/png"}}}
		svc, _ := NewImageService(backend, writer, Options{OutputDir: t.TempDir()})

		_, err := svc.Generate(ctx, domain.ImageGenerationRequest{Prompt: "p"})

		assert.ErrorIs(t, err, ErrNoImages)
	})
}

func TestImageFileName(t *testing.T) {
	assert.Equal(t, "a.png", imageFileName("a", 1, 1, "png"))
	assert.Equal(t, "a_1.png", imageFileName("a", 1, 2, "png"))
	assert.Equal(t, "a_3.jpg", imageFileName("a", 3, 3, "jpg"))
}

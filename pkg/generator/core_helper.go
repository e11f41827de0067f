package generator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/imgutil"
)

// saveImages は画像を順番に保存します。失敗した画像はログに残してスキップします。
func (s *ImageService) saveImages(ctx context.Context, baseName string, images []domain.ImageResponse) []domain.SavedImage {
	saved := make([]domain.SavedImage, 0, len(images))
	for i, img := range images {
		data, ext, mimeType := s.encode(ctx, img)
		name := imageFileName(baseName, i+1, len(images), ext)
		path := filepath.Join(s.opts.OutputDir, name)

		if err := s.writer.Write(ctx, path, bytes.NewReader(data), mimeType); err != nil {
			slog.WarnContext(ctx, "画像の保存に失敗しました", "path", path, "error", err)
			continue
		}
		slog.InfoContext(ctx, "画像を保存しました", "path", path, "bytes", len(data))
		saved = append(saved, domain.SavedImage{Filename: name, Path: path, Bytes: len(data)})
	}
	return saved
}

// encode は必要に応じて JPEG へ再圧縮し、保存するバイト列と拡張子、Content-Type を返します。
// 圧縮に失敗した場合は元のデータをそのまま使います。
func (s *ImageService) encode(ctx context.Context, img domain.ImageResponse) ([]byte, string, string) {
	if s.opts.JPEGQuality > 0 {
		compressed, err := imgutil.CompressToJPEG(img.Data, s.opts.JPEGQuality)
		if err == nil {
			return compressed, "jpg", "image/jpeg"
		}
		slog.WarnContext(ctx, "JPEG圧縮に失敗したため元データで保存します", "error", err)
	}
	return img.Data, imgutil.ExtensionFor(img.MimeType), img.MimeType
}

// imageFileName は保存ファイル名を決めます。
// 1枚なら <base>.<ext>、複数なら <base>_<index>.<ext> (index は1始まり) です。
func imageFileName(baseName string, index, total int, ext string) string {
	if total > 1 {
		return fmt.Sprintf("%s_%d.%s", baseName, index, ext)
	}
	return fmt.Sprintf("%s.%s", baseName, ext)
}

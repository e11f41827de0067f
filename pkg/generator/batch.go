package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

// ListPromptFiles は dir 直下の .txt ファイルを名前順で返します。
// dir はローカルパスのほか、reader が扱える gs:// や s3:// の URI も指定できます。
func ListPromptFiles(ctx context.Context, reader remoteio.InputReader, dir string) ([]string, error) {
	var files []string
	err := reader.List(ctx, dir, func(filePath string) error {
		if strings.HasSuffix(filePath, promptExt) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("プロンプトファイルの列挙に失敗しました: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// readPrompt は1件のプロンプトファイルを読み込み、前後の空白を取り除いて返します。
func readPrompt(ctx context.Context, reader remoteio.InputReader, filePath string) (string, error) {
	rc, err := reader.Open(ctx, filePath)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("プロンプトの読み込みに失敗しました: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// RunBatch は promptsDir のすべてのプロンプトファイルから順番に画像を生成します。
// 各ファイルの拡張子を除いた名前が保存ファイル名のベースになります。
// 1件の失敗でバッチ全体を止めることはありません。
func RunBatch(ctx context.Context, gen ImageGenerator, reader remoteio.InputReader, promptsDir string, delay time.Duration) (*BatchResult, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader (remoteio.InputReader) is required")
	}

	files, err := ListPromptFiles(ctx, reader, promptsDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("プロンプトファイルが見つかりません: %s", promptsDir)
	}

	slog.InfoContext(ctx, "バッチ生成を開始します", "files", len(files), "prompts_dir", promptsDir)

	result := &BatchResult{}
	for i, filePath := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		prompt, err := readPrompt(ctx, reader, filePath)
		if err != nil {
			slog.WarnContext(ctx, "プロンプトファイルの読み込みに失敗しました", "path", filePath, "error", err)
			result.Failed++
			continue
		}

		req := domain.ImageGenerationRequest{
			Prompt:   prompt,
			BaseName: utils.TrimExtension(path.Base(filepath.ToSlash(filePath))),
		}
		saved, err := gen.Generate(ctx, req)
		if err != nil {
			slog.WarnContext(ctx, "画像生成に失敗しました", "path", filePath, "error", err)
			result.Failed++
		} else {
			result.Succeeded++
			for _, s := range saved {
				result.Saved = append(result.Saved, s.Filename)
			}
		}

		// レート制限対策としてリクエスト間で待つ
		if i < len(files)-1 && delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	slog.InfoContext(ctx, "バッチ生成が完了しました", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

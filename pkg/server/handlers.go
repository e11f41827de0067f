package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shouni/prompt-image-kit/pkg/domain"
	"github.com/shouni/prompt-image-kit/pkg/generator"
	"github.com/shouni/prompt-image-kit/pkg/utils"
)

const (
	msgNoPrompt    = "No prompt provided. Provide JSON {prompt} or upload a .txt file."
	msgNoImages    = "No images returned from model."
	msgUINotBuilt  = "UI not built. Missing web/index.html"
	msgInternal    = "Internal server error."
	msgInvalidKeyF = "Missing or invalid %s. Check your .env and restart server."
)

// generateJSON は application/json のリクエストボディです。
type generateJSON struct {
	Prompt string `json:"prompt"`
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
}

// parseGenerateRequest はリクエストからプロンプト・保存名・API キーを取り出します。
// マルチパートでは、フォームのプロンプトがファイルの内容より、フォームの名前がファイル名より優先されます。
func parseGenerateRequest(c *gin.Context) domain.ImageGenerationRequest {
	req := domain.ImageGenerationRequest{BaseName: generator.DefaultBaseName}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body generateJSON
		// 壊れた JSON は空のボディとして扱う
		_ = c.ShouldBindJSON(&body)
		req.Prompt = strings.TrimSpace(body.Prompt)
		if name := strings.TrimSpace(body.Name); name != "" {
			req.BaseName = name
		}
		req.APIKey = strings.TrimSpace(body.APIKey)
		return req
	}

	if fh, err := c.FormFile("prompt_file"); err == nil {
		if f, err := fh.Open(); err == nil {
			raw, readErr := io.ReadAll(f)
			f.Close()
			if readErr == nil {
				if text := strings.TrimSpace(strings.ToValidUTF8(string(raw), "")); text != "" {
					req.Prompt = text
				}
			}
		}
		if stem := utils.TrimExtension(filepath.Base(fh.Filename)); stem != "" && stem != "." {
			req.BaseName = stem
		}
	}
	if prompt := strings.TrimSpace(c.PostForm("prompt")); prompt != "" {
		req.Prompt = prompt
	}
	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		req.BaseName = name
	}
	req.APIKey = strings.TrimSpace(c.PostForm("apiKey"))
	return req
}

func (s *Server) handleGenerate(c *gin.Context) {
	ctx := c.Request.Context()
	req := parseGenerateRequest(c)

	start := time.Now()
	saved, err := s.gen.Generate(ctx, req)
	s.metrics.durations.Observe(time.Since(start).Seconds())

	if err != nil {
		status, msg, outcome := s.classify(err)
		s.metrics.requests.WithLabelValues(outcome).Inc()
		s.log.WarnContext(ctx, "画像生成リクエストが失敗しました", "status", status, "error", err)
		c.JSON(status, domain.GenerationResponse{Error: msg})
		return
	}

	resp := domain.GenerationResponse{
		Images: make([]string, 0, len(saved)),
		URLs:   make([]string, 0, len(saved)),
	}
	for _, img := range saved {
		resp.Images = append(resp.Images, img.Filename)
		resp.URLs = append(resp.URLs, GeneratedImagesPath+"/"+url.PathEscape(img.Filename))
	}
	s.metrics.requests.WithLabelValues("success").Inc()
	s.metrics.images.Add(float64(len(saved)))
	c.JSON(http.StatusOK, resp)
}

// classify はサービスのエラーを HTTP ステータスと利用者向けメッセージに変換します。
func (s *Server) classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, generator.ErrInvalidAPIKey):
		return http.StatusBadRequest, fmt.Sprintf(msgInvalidKeyF, s.opts.KeyEnvName), "invalid_key"
	case errors.Is(err, generator.ErrNoPrompt):
		return http.StatusBadRequest, msgNoPrompt, "no_prompt"
	case errors.Is(err, generator.ErrNoImages):
		return http.StatusBadGateway, msgNoImages, "no_images"
	default:
		return http.StatusInternalServerError, msgInternal, "error"
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	if s.opts.WebDir == "" {
		c.String(http.StatusNotFound, msgUINotBuilt)
		return
	}
	index := filepath.Join(s.opts.WebDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.String(http.StatusNotFound, msgUINotBuilt)
		return
	}
	c.File(index)
}

// handleWebAsset は web ディレクトリ内のファイルをルート直下のパスで配信します。
func (s *Server) handleWebAsset(c *gin.Context) {
	if c.Request.Method != http.MethodGet || s.opts.WebDir == "" {
		c.JSON(http.StatusNotFound, domain.GenerationResponse{Error: "Not found"})
		return
	}
	rel := filepath.FromSlash(path.Clean("/" + c.Request.URL.Path))
	target := filepath.Join(s.opts.WebDir, rel)
	if info, err := os.Stat(target); err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, domain.GenerationResponse{Error: "Not found"})
		return
	}
	c.File(target)
}

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shouni/prompt-image-kit/pkg/generator"
	"github.com/shouni/prompt-image-kit/pkg/logger"
)

const (
	// GeneratedImagesPath は保存済み画像を配信するパスです。
	GeneratedImagesPath = "/generated-images"
	// PromptsPath はプロンプトファイルを配信するパスです。
	PromptsPath = "/image-prompts"
	// GeneratePath は画像生成 API のパスです。
	GeneratePath = "/api/generate"

	maxMultipartMemory = 8 << 20
)

// Options はサーバーが配信するディレクトリと、エラーメッセージに出すキー名です。
type Options struct {
	OutputDir  string
	PromptsDir string
	WebDir     string
	// KeyEnvName は API キー不正時のメッセージに表示する環境変数名です。
	KeyEnvName string
}

// Server は画像生成 API と静的ファイルを提供する HTTP サーバーです。
type Server struct {
	gen     generator.ImageGenerator
	opts    Options
	log     *slog.Logger
	metrics *metrics
}

// New は依存関係を注入して Server を初期化します。
func New(gen generator.ImageGenerator, opts Options, log *slog.Logger) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.KeyEnvName == "" {
		opts.KeyEnvName = "OPENROUTER_API_KEY"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{gen: gen, opts: opts, log: log, metrics: newMetrics()}, nil
}

// Router はすべてのルートを登録した gin.Engine を返します。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Accept", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:   []string{logger.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(logger.RequestLoggingMiddleware(s.log))

	r.POST(GeneratePath, s.handleGenerate)
	r.Static(GeneratedImagesPath, s.opts.OutputDir)
	if s.opts.PromptsDir != "" {
		r.Static(PromptsPath, s.opts.PromptsDir)
	}
	r.GET("/", s.handleIndex)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))
	r.NoRoute(s.handleWebAsset)

	return r
}

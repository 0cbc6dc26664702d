package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repo-insight/internal/adapter/analyzer"
	"repo-insight/internal/adapter/feishu"
	"repo-insight/internal/adapter/gemini"
	"repo-insight/internal/adapter/github"
	"repo-insight/internal/adapter/openai"
	"repo-insight/internal/adapter/readme"
	"repo-insight/internal/adapter/repository"
	"repo-insight/internal/api"
	"repo-insight/internal/config"
	"repo-insight/internal/port"
	"repo-insight/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. 读取配置
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("❌ 配置错误: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 初始化缓存
	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ 缓存初始化失败: %v", err)
	}

	// 3. 初始化 AI 依赖
	completer, closeCompleter, err := buildCompleter(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ AI 初始化失败: %v", err)
	}
	defer closeCompleter()

	// 4. 组装服务和路由
	fetcher := github.NewFetcher(cfg.GitHubToken)
	fetcher.SetTimeout(cfg.GitHubTimeout)

	router := newRouter(cfg, fetcher, store, completer, buildNotifier(cfg))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 服务已启动, 监听 %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("👋 收到停止信号, 正在退出...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ 服务未能优雅退出: %v", err)
	}
}

// newRouter 组装 gin 引擎
func newRouter(
	cfg *config.Config,
	provider port.MetadataProvider,
	store port.RecordStore,
	completer port.CompletionProvider,
	notifier port.Notifier,
) *gin.Engine {
	gin.SetMode(cfg.Mode)

	ingestion := service.NewIngestionService(provider, store, analyzer.NewSyntheticEnricher(), notifier)
	codeAnalysis := service.NewCodeAnalysisService(provider, completer)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	api.SetupRoutes(router, ingestion, codeAnalysis, readme.NewGenerator())
	return router
}

// buildStore 配置了 DATABASE_DSN 时用 Postgres, 否则用进程内缓存
func buildStore(ctx context.Context, cfg *config.Config) (port.RecordStore, error) {
	if cfg.DatabaseDSN != "" {
		log.Println("💾 使用 Postgres 缓存")
		return repository.NewPostgresStore(ctx, cfg.DatabaseDSN)
	}

	if cfg.CacheCapacity > 0 {
		log.Printf("💾 使用内存缓存 (最多 %d 条)", cfg.CacheCapacity)
	} else {
		log.Println("💾 使用内存缓存")
	}
	return repository.NewMemoryStore(cfg.CacheCapacity)
}

// buildCompleter 按 COMPLETION_PROVIDER 选择 LLM
// 没有配置 key 也能启动, 调用时才报 "not configured"
func buildCompleter(ctx context.Context, cfg *config.Config) (port.CompletionProvider, func(), error) {
	switch cfg.CompletionProvider {
	case config.ProviderGemini:
		c, err := gemini.NewCompleter(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {
			if err := c.Close(); err != nil {
				log.Printf("⚠️ 关闭 Gemini 客户端失败: %v", err)
			}
		}, nil
	default:
		return openai.NewCompleter(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), func() {}, nil
	}
}

// buildNotifier 未配置 webhook 时返回 nil, 不推送
func buildNotifier(cfg *config.Config) port.Notifier {
	if cfg.FeishuWebhook == "" {
		log.Println("⚠️ 未配置 FEISHU_WEBHOOK, 不推送新仓库")
		return nil
	}
	return feishu.NewNotifier(cfg.FeishuWebhook)
}

package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 补全服务
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Addr string
	Mode string // gin 运行模式: debug / release / test

	GitHubToken   string
	GitHubTimeout time.Duration

	CompletionProvider string
	OpenAIKey          string
	OpenAIModel        string
	OpenAIBaseURL      string
	GeminiKey          string

	DatabaseDSN   string // 为空时使用内存缓存
	CacheCapacity int    // <= 0 表示不淘汰

	FeishuWebhook string // 为空时不推送
}

// Load 读取 .env、命令行参数和环境变量
// 优先级: 命令行参数 > 环境变量 > 默认值
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("repo-insight", flag.ContinueOnError)
	addr := fs.String("addr", "", "监听地址, 例如 :8080")
	mode := fs.String("mode", "", "gin 运行模式 (debug/release/test)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:               firstNonEmpty(*addr, portAddr(os.Getenv("PORT")), ":8080"),
		Mode:               firstNonEmpty(*mode, env("GIN_MODE"), "debug"),
		GitHubToken:        env("GITHUB_TOKEN"),
		CompletionProvider: strings.ToLower(firstNonEmpty(env("COMPLETION_PROVIDER"), ProviderOpenAI)),
		OpenAIKey:          env("OPENAI_API_KEY"),
		OpenAIModel:        env("OPENAI_MODEL"),
		OpenAIBaseURL:      env("OPENAI_BASE_URL"),
		GeminiKey:          env("GEMINI_API_KEY"),
		DatabaseDSN:        env("DATABASE_DSN"),
		FeishuWebhook:      env("FEISHU_WEBHOOK"),
	}

	timeout, err := parseDuration("GITHUB_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.GitHubTimeout = timeout

	capacity, err := parseInt("CACHE_CAPACITY", 0)
	if err != nil {
		return nil, err
	}
	cfg.CacheCapacity = capacity

	switch cfg.Mode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("GIN_MODE 只支持 debug/release/test, 实际为 %q", cfg.Mode)
	}

	switch cfg.CompletionProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return nil, fmt.Errorf("COMPLETION_PROVIDER 只支持 %s 或 %s, 实际为 %q", ProviderOpenAI, ProviderGemini, cfg.CompletionProvider)
	}
	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func portAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	raw := env(key)
	if raw == "" {
		return def, nil
	}
	// 也接受纯数字 (秒)
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s 格式错误: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	raw := env(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s 格式错误: %w", key, err)
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"repo-insight/internal/adapter/analyzer"
	"repo-insight/internal/adapter/github"
	"repo-insight/internal/adapter/readme"
	"repo-insight/internal/adapter/repository"
	"repo-insight/internal/domain"
	"repo-insight/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	repoURL := flag.String("url", "", "GitHub 仓库地址, 例如 https://github.com/gohugoio/hugo")
	withReadme := flag.Bool("readme", true, "是否同时打印生成的 README")
	flag.Parse()

	if *repoURL == "" {
		fmt.Println("⚠️ 请用 -url 指定仓库地址")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// 初始化组件
	fetcher := github.NewFetcher(os.Getenv("GITHUB_TOKEN"))
	store, err := repository.NewMemoryStore(0)
	if err != nil {
		log.Fatalf("❌ 缓存初始化失败: %v", err)
	}
	ingestion := service.NewIngestionService(fetcher, store, analyzer.NewSyntheticEnricher(), nil)

	fmt.Println("🔍 调试模式：抓取并归一化仓库")
	record, err := ingestion.Ingest(ctx, *repoURL)
	if err != nil {
		log.Fatalf("❌ 抓取失败: %v", err)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Fatalf("❌ 序列化失败: %v", err)
	}
	fmt.Println("\n================ [ 仓库画像 ] ================")
	fmt.Println(string(out))

	if *withReadme {
		fmt.Println("\n================ [ README.md ] ================")
		fmt.Print(readme.NewGenerator().Generate(record, domain.ReadmeOptions{}))
	}
	fmt.Println("==============================================")
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"repo-insight/internal/adapter/filter"
	"repo-insight/internal/domain"
	"repo-insight/internal/metrics"
	"repo-insight/internal/port"

	"golang.org/x/sync/errgroup"
)

// AnalysisSystemPrompt 固定的系统指令, 规定输出的 markdown 结构
const AnalysisSystemPrompt = `You are an expert software engineer reviewing source code. Respond in markdown using exactly these sections, in this order, each as a level-2 heading:

## Summary
One short paragraph describing what the code does.

## Purpose & Functionality
What problem the code solves and how it behaves.

## Key Components
A bulleted list. Start every item with the component name in **bold**, followed by a one-sentence description.

## Dependencies & Imports
The libraries and modules the code relies on and what each is used for.

## Code Interactions
How the analyzed code interacts with the rest of the repository, based on the directory structure.

## Recommendations
A numbered list of concrete improvements.

Use ### for sub-headings inside a section. Put file names, functions and identifiers in ` + "`inline code`" + ` and highlight key terms in **bold**. Do not add any other top-level sections.`

const noSampleNotice = "(no code files could be sampled from this repository)"

// CodeAnalysisService 把仓库代码交给 LLM 做讲解, 结果不缓存
type CodeAnalysisService struct {
	provider  port.MetadataProvider
	completer port.CompletionProvider
}

// NewCodeAnalysisService 创建代码分析服务
func NewCodeAnalysisService(provider port.MetadataProvider, completer port.CompletionProvider) *CodeAnalysisService {
	return &CodeAnalysisService{provider: provider, completer: completer}
}

// AnalyzeFile 分析单个文件, 目录结构作为上下文
func (s *CodeAnalysisService) AnalyzeFile(ctx context.Context, record *domain.RepositoryRecord, filePath string) (*domain.CodeAnalysis, error) {
	result, err := s.analyzeFile(ctx, record, filePath)
	metrics.Analyses.WithLabelValues("file", metrics.Result(err)).Inc()
	return result, err
}

func (s *CodeAnalysisService) analyzeFile(ctx context.Context, record *domain.RepositoryRecord, filePath string) (*domain.CodeAnalysis, error) {
	owner, name := record.OwnerAndName()

	var (
		content string
		tree    []domain.TreeEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		content, err = s.provider.GetFileContent(gctx, owner, name, filePath)
		return err
	})
	g.Go(func() error {
		var err error
		tree, err = s.provider.GetTree(gctx, owner, name, record.DefaultBranch)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("❌ 获取 %s 的 %s 失败: %v", record.FullName, filePath, err)
		return nil, err
	}

	code := fmt.Sprintf("```\n%s\n```", content)
	prompt := buildUserPrompt(record.FullName, filter.DirectoryListing(tree), code, "the file `"+filePath+"`")

	analysis, err := s.completer.Complete(ctx, AnalysisSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return &domain.CodeAnalysis{FileName: filePath, Analysis: analysis}, nil
}

// AnalyzeRepository 抽样最多 5 个代码文件做整体分析
// 单个文件获取失败时跳过, 不影响整体
func (s *CodeAnalysisService) AnalyzeRepository(ctx context.Context, record *domain.RepositoryRecord) (*domain.CodeAnalysis, error) {
	result, err := s.analyzeRepository(ctx, record)
	metrics.Analyses.WithLabelValues("repository", metrics.Result(err)).Inc()
	return result, err
}

func (s *CodeAnalysisService) analyzeRepository(ctx context.Context, record *domain.RepositoryRecord) (*domain.CodeAnalysis, error) {
	owner, name := record.OwnerAndName()

	tree, err := s.provider.GetTree(ctx, owner, name, record.DefaultBranch)
	if err != nil {
		log.Printf("❌ 获取 %s 目录树失败: %v", record.FullName, err)
		return nil, err
	}

	sample := filter.SelectSample(tree, filter.MaxSampleFiles)
	log.Printf("🔍 %s 抽样 %d 个文件", record.FullName, len(sample))

	var code strings.Builder
	for _, path := range sample {
		content, err := s.provider.GetFileContent(ctx, owner, name, path)
		if err != nil {
			log.Printf("⚠️ 跳过 %s: %v", path, err)
			metrics.SampleFetchFailures.Inc()
			continue
		}
		fmt.Fprintf(&code, "### File: %s\n```\n%s\n```\n\n", path, filter.Truncate(content, filter.MaxSampleChars))
	}
	if code.Len() == 0 {
		code.WriteString(noSampleNotice)
	}

	prompt := buildUserPrompt(record.FullName, filter.DirectoryListing(tree), code.String(), "the repository `"+record.FullName+"`")

	analysis, err := s.completer.Complete(ctx, AnalysisSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return &domain.CodeAnalysis{FileName: record.FullName, Analysis: analysis}, nil
}

// ListFiles 原样返回 GitHub contents 接口的目录内容
func (s *CodeAnalysisService) ListFiles(ctx context.Context, owner, name, path string) (json.RawMessage, error) {
	return s.provider.ListDirectory(ctx, owner, name, path)
}

func buildUserPrompt(fullName, listing, code, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n\n", fullName)
	b.WriteString("Directory structure:\n")
	b.WriteString(listing)
	b.WriteString("\nCode:\n")
	b.WriteString(code)
	fmt.Fprintf(&b, "\n\nAnalyze %s.", target)
	return b.String()
}

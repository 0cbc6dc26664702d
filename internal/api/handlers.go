package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"repo-insight/internal/adapter/readme"
	"repo-insight/internal/domain"

	"github.com/gin-gonic/gin"
)

// Ingester 仓库画像的抓取和查询
type Ingester interface {
	Ingest(ctx context.Context, rawURL string) (*domain.RepositoryRecord, error)
	Lookup(ctx context.Context, id string) (*domain.RepositoryRecord, error)
}

// CodeAnalyzer LLM 代码讲解
type CodeAnalyzer interface {
	AnalyzeFile(ctx context.Context, record *domain.RepositoryRecord, filePath string) (*domain.CodeAnalysis, error)
	AnalyzeRepository(ctx context.Context, record *domain.RepositoryRecord) (*domain.CodeAnalysis, error)
	ListFiles(ctx context.Context, owner, name, path string) (json.RawMessage, error)
}

type ReadmeGenerator interface {
	Generate(r *domain.RepositoryRecord, opts domain.ReadmeOptions) string
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

type analyzeFileRequest struct {
	RepositoryID string `json:"repositoryId" binding:"required"`
	FilePath     string `json:"filePath" binding:"required"`
}

type analyzeRepositoryRequest struct {
	RepositoryID string `json:"repositoryId" binding:"required"`
}

type readmeResponse struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// AnalyzeRepository POST /analyze
func AnalyzeRepository(ingester Ingester) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		record, err := ingester.Ingest(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// GenerateReadme POST /readme/:id, 请求体可以为空
func GenerateReadme(ingester Ingester, generator ReadmeGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts domain.ReadmeOptions
		if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
			respondBindError(c, err)
			return
		}

		record, err := ingester.Lookup(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, readmeResponse{
			Content:  generator.Generate(record, opts),
			Filename: readme.FileName,
		})
	}
}

// ListFiles GET /files/:owner/:repo?path=
// 原样透传 GitHub 的 JSON
func ListFiles(analyzer CodeAnalyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := analyzer.ListFiles(c.Request.Context(), c.Param("owner"), c.Param("repo"), c.Query("path"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
	}
}

// AnalyzeFile POST /analyze-file
func AnalyzeFile(ingester Ingester, analyzer CodeAnalyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeFileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		record, err := ingester.Lookup(c.Request.Context(), req.RepositoryID)
		if err != nil {
			respondError(c, err)
			return
		}

		result, err := analyzer.AnalyzeFile(c.Request.Context(), record, req.FilePath)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// AnalyzeRepositoryCode POST /analyze-repository-code
func AnalyzeRepositoryCode(ingester Ingester, analyzer CodeAnalyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRepositoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		record, err := ingester.Lookup(c.Request.Context(), req.RepositoryID)
		if err != nil {
			respondError(c, err)
			return
		}

		result, err := analyzer.AnalyzeRepository(c.Request.Context(), record)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

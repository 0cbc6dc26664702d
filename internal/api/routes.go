package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes 注册所有路由
// 同一组路由同时挂在根路径和 /api 下, 前端开发服务器走 /api 代理
func SetupRoutes(router *gin.Engine, ingester Ingester, analyzer CodeAnalyzer, readme ReadmeGenerator) {
	router.Use(Metrics())

	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, group := range []*gin.RouterGroup{&router.RouterGroup, router.Group("/api")} {
		group.POST("/analyze", AnalyzeRepository(ingester))
		group.POST("/readme/:id", GenerateReadme(ingester, readme))
		group.GET("/files/:owner/:repo", ListFiles(analyzer))
		group.POST("/analyze-file", AnalyzeFile(ingester, analyzer))
		group.POST("/analyze-repository-code", AnalyzeRepositoryCode(ingester, analyzer))
	}
}

// HealthCheck 存活探针
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Package metrics 定义服务暴露给 Prometheus 的指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "repo_insight"

var (
	// Ingestions 仓库抓取次数, result: hit / miss / error
	Ingestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Repository ingestions by cache result",
		},
		[]string{"result"},
	)

	// Analyses 代码分析次数, scope: file / repository
	Analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Code analyses by scope and result",
		},
		[]string{"scope", "result"},
	)

	// SampleFetchFailures 整仓抽样时单个文件拉取失败的次数
	SampleFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_fetch_failures_total",
			Help:      "Files skipped during repository sampling because the fetch failed",
		},
	)

	// RequestDuration HTTP 请求耗时
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// Result 把错误转换成指标标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

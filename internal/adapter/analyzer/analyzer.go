package analyzer

import (
	"math/rand/v2"
	"sync"
	"time"

	"repo-insight/internal/domain"
)

// 占位指标的取值范围 (闭区间)
const (
	minQualityScore  = 70
	maxQualityScore  = 95
	minCoverageScore = 60
	maxCoverageScore = 90
	minContributors  = 10
	maxContributors  = 500
)

// SyntheticEnricher 实现了 port.Enricher 接口
// 这里的数字都是随机生成的占位值, 并没有真正分析代码
type SyntheticEnricher struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSyntheticEnricher 创建新的占位指标生成器
func NewSyntheticEnricher() *SyntheticEnricher {
	seed := uint64(time.Now().UnixNano())
	return NewSeededEnricher(seed, seed>>1)
}

// NewSeededEnricher 固定随机种子, 便于测试
func NewSeededEnricher(seed1, seed2 uint64) *SyntheticEnricher {
	return &SyntheticEnricher{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// between 返回 [lo, hi] 内的随机整数
func (e *SyntheticEnricher) between(lo, hi int) int {
	return lo + e.rnd.IntN(hi-lo+1)
}

// Enrich 填充质量分、覆盖率、贡献者和固定形状的复杂文件/依赖列表
func (e *SyntheticEnricher) Enrich(record *domain.RepositoryRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record.CodeQualityScore = e.between(minQualityScore, maxQualityScore)
	record.CodeCoverageScore = e.between(minCoverageScore, maxCoverageScore)
	record.ActiveContributors = e.between(minContributors, maxContributors)
	record.ComplexFiles = e.complexFiles(record.ShortName())
	record.Dependencies = fixedDependencies()
}

// complexFiles 三个固定路径, 每个等级的分数落在各自的区间内
func (e *SyntheticEnricher) complexFiles(name string) []domain.ComplexFile {
	return []domain.ComplexFile{
		{Path: "src/core/" + name + ".js", Complexity: e.between(75, 95), Level: domain.LevelHigh},
		{Path: "src/utils/helpers.js", Complexity: e.between(50, 74), Level: domain.LevelMedium},
		{Path: "src/components/" + name + "View.js", Complexity: e.between(20, 49), Level: domain.LevelLow},
	}
}

func fixedDependencies() []domain.Dependency {
	return []domain.Dependency{
		{Name: "react", Version: "18.2.0", Status: domain.StatusUpToDate},
		{Name: "lodash", Version: "4.17.21", Status: domain.StatusUpToDate},
		{Name: "axios", Version: "0.27.2", Status: domain.StatusUpdateAvailable},
		{Name: "moment", Version: "2.29.1", Status: domain.StatusOutdated},
	}
}

package domain

import "strings"

// RepositoryRecord 代表一次仓库分析的结果 (缓存的基本单位)
type RepositoryRecord struct {
	// 基础信息 (来自 GitHub)
	ID              string `json:"id" gorm:"primaryKey"`
	FullName        string `json:"fullName" gorm:"uniqueIndex"` // 例如 "gohugoio/hugo"
	Description     string `json:"description"`
	OwnerAvatarURL  string `json:"ownerAvatarUrl"`
	HTMLURL         string `json:"htmlUrl"`
	DefaultBranch   string `json:"defaultBranch"`
	License         string `json:"license"`
	Stars           string `json:"stars"` // 已格式化, 例如 "12.3k"
	Forks           string `json:"forks"`
	OpenIssues      string `json:"openIssues"`
	PrimaryLanguage string `json:"primaryLanguage"`
	CreatedAt       string `json:"createdAt"`   // 长日期格式
	LastUpdated     string `json:"lastUpdated"` // 抓取时计算的相对时间, 之后不再更新

	// --- 统计维度 ---
	CommitFrequency string          `json:"commitFrequency"` // "<n>/week"
	Languages       []LanguageShare `json:"languages" gorm:"serializer:json"`
	CommitActivity  []CommitBucket  `json:"commitActivity" gorm:"serializer:json"`

	// --- 占位指标 (由 Enricher 生成, 不是真实分析) ---
	CodeQualityScore   int           `json:"codeQualityScore"`
	CodeCoverageScore  int           `json:"codeCoverageScore"`
	ActiveContributors int           `json:"activeContributors"`
	ComplexFiles       []ComplexFile `json:"complexFiles" gorm:"serializer:json"`
	Dependencies       []Dependency  `json:"dependencies" gorm:"serializer:json"`
}

// ShortName 返回 fullName 的第二段 (仓库名)
func (r *RepositoryRecord) ShortName() string {
	if i := strings.LastIndex(r.FullName, "/"); i >= 0 {
		return r.FullName[i+1:]
	}
	return r.FullName
}

// OwnerAndName 拆分 fullName
func (r *RepositoryRecord) OwnerAndName() (string, string) {
	owner, name, _ := strings.Cut(r.FullName, "/")
	return owner, name
}

// LanguageShare 单个语言的占比
type LanguageShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// CommitBucket 图表中的一个柱子
type CommitBucket struct {
	Month   string `json:"month"`
	Commits int    `json:"commits"`
}

// 复杂度等级
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

type ComplexFile struct {
	Path       string `json:"path"`
	Complexity int    `json:"complexity"`
	Level      string `json:"level"`
}

// 依赖状态
const (
	StatusUpToDate        = "Up to date"
	StatusUpdateAvailable = "Update available"
	StatusOutdated        = "Outdated"
)

type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// CustomSection README 中用户追加的章节
type CustomSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ReadmeOptions 生成 README 的开关, 缺省字段视为 true
type ReadmeOptions struct {
	IncludeInstallation *bool           `json:"includeInstallation"`
	IncludeUsage        *bool           `json:"includeUsage"`
	IncludeContributing *bool           `json:"includeContributing"`
	IncludeLicense      *bool           `json:"includeLicense"`
	CustomSections      []CustomSection `json:"customSections"`
}

func (o ReadmeOptions) Installation() bool { return enabled(o.IncludeInstallation) }
func (o ReadmeOptions) Usage() bool        { return enabled(o.IncludeUsage) }
func (o ReadmeOptions) Contributing() bool { return enabled(o.IncludeContributing) }
func (o ReadmeOptions) License() bool      { return enabled(o.IncludeLicense) }

func enabled(b *bool) bool {
	return b == nil || *b
}

// CodeAnalysis 代码分析结果, 不缓存
type CodeAnalysis struct {
	FileName string `json:"fileName"`
	Analysis string `json:"analysis"`
}

// TreeEntry 仓库目录树中的一项
type TreeEntry struct {
	Path string
	Type string // "tree" 或 "blob"
}

// IsDir 判断是否为目录
func (e TreeEntry) IsDir() bool {
	return e.Type == "tree"
}

// WeeklyCommits 一周的提交统计
type WeeklyCommits struct {
	WeekStart int64 // UNIX 时间戳
	Total     int
}

// RepoInfo Metadata Provider 返回的仓库基础信息 (未格式化)
type RepoInfo struct {
	ID              int64
	FullName        string
	Description     string
	OwnerAvatarURL  string
	HTMLURL         string
	DefaultBranch   string
	License         string
	Stars           int
	Forks           int
	OpenIssues      int
	PrimaryLanguage string
	CreatedAt       int64
	UpdatedAt       int64
}

// LanguageBytes 保持 GitHub 返回顺序的语言字节数
type LanguageBytes struct {
	Name  string
	Bytes int
}

package port

import (
	"context"
	"encoding/json"

	"repo-insight/internal/domain"
)

// MetadataProvider (侦察兵): 负责从 GitHub 拉取仓库事实数据
type MetadataProvider interface {
	GetRepository(ctx context.Context, owner, name string) (*domain.RepoInfo, error)

	// 语言字节数, 保持 GitHub 返回的顺序
	GetLanguages(ctx context.Context, owner, name string) ([]domain.LanguageBytes, error)

	// 按时间顺序的每周提交数; 统计未就绪时返回空切片
	GetCommitActivity(ctx context.Context, owner, name string) ([]domain.WeeklyCommits, error)

	// 已 base64 解码的文件内容
	GetFileContent(ctx context.Context, owner, name, path string) (string, error)

	// 递归目录树
	GetTree(ctx context.Context, owner, name, ref string) ([]domain.TreeEntry, error)

	// 原样透传 contents 接口的 JSON
	ListDirectory(ctx context.Context, owner, name, path string) (json.RawMessage, error)
}

// CompletionProvider (鉴定师): 负责调用 LLM 生成分析文本
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RecordStore (仓库管理员): 分析结果缓存, fullName 全局唯一
type RecordStore interface {
	Get(ctx context.Context, fullName string) (*domain.RepositoryRecord, bool, error)
	GetByID(ctx context.Context, id string) (*domain.RepositoryRecord, bool, error)

	// 同一个 fullName 后写覆盖前写
	Put(ctx context.Context, record *domain.RepositoryRecord) error
}

// Enricher 填充占位指标 (质量分/覆盖率/贡献者/复杂文件/依赖)
// 以后接入真实分析器时只替换这里
type Enricher interface {
	Enrich(record *domain.RepositoryRecord)
}

// Notifier (信使): 新仓库入库后推送
type Notifier interface {
	Notify(ctx context.Context, record *domain.RepositoryRecord) error
}

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repo-insight/internal/common"
	"repo-insight/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

const defaultTimeout = 15 * time.Second

// Fetcher 实现了 port.MetadataProvider 接口
type Fetcher struct {
	client  *github.Client
	timeout time.Duration
}

// NewFetcher 初始化 GitHub 客户端
// token 为空时匿名访问 (限制 60次/小时)
func NewFetcher(token string) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Fetcher{client: client, timeout: defaultTimeout}
}

// SetTimeout 设置单次请求超时
func (f *Fetcher) SetTimeout(d time.Duration) {
	if d > 0 {
		f.timeout = d
	}
}

func (f *Fetcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, f.timeout)
}

// GetRepository 获取仓库基础信息
func (f *Fetcher) GetRepository(ctx context.Context, owner, name string) (*domain.RepoInfo, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	item, _, err := f.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, providerError(ctx, "获取仓库信息失败", err)
	}

	info := &domain.RepoInfo{
		ID:              item.GetID(),
		FullName:        item.GetFullName(),
		Description:     item.GetDescription(),
		OwnerAvatarURL:  item.GetOwner().GetAvatarURL(),
		HTMLURL:         item.GetHTMLURL(),
		DefaultBranch:   item.GetDefaultBranch(),
		License:         item.GetLicense().GetSPDXID(),
		Stars:           item.GetStargazersCount(),
		Forks:           item.GetForksCount(),
		OpenIssues:      item.GetOpenIssuesCount(),
		PrimaryLanguage: item.GetLanguage(),
		CreatedAt:       item.GetCreatedAt().Unix(),
		UpdatedAt:       item.GetUpdatedAt().Unix(),
	}
	return info, nil
}

// GetLanguages 获取语言字节数
// go-github 的 ListLanguages 返回 map 会丢掉顺序, 这里直接解析原始 JSON
func (f *Fetcher) GetLanguages(ctx context.Context, owner, name string) ([]domain.LanguageBytes, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	req, err := f.client.NewRequest(http.MethodGet, fmt.Sprintf("repos/%v/%v/languages", owner, name), nil)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "构造请求失败", err)
	}

	var raw json.RawMessage
	if _, err := f.client.Do(ctx, req, &raw); err != nil {
		return nil, providerError(ctx, "获取语言统计失败", err)
	}

	langs, err := decodeOrderedLanguages(raw)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, common.ProviderErrorMessage, err)
	}
	return langs, nil
}

func decodeOrderedLanguages(raw json.RawMessage) ([]domain.LanguageBytes, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("languages: unexpected payload")
	}

	var langs []domain.LanguageBytes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return nil, err
		}
		langs = append(langs, domain.LanguageBytes{Name: key, Bytes: n})
	}
	return langs, nil
}

// GetCommitActivity 获取最近一年的每周提交数
// GitHub 首次计算统计时返回 202, 此时当作没有数据
func (f *Fetcher) GetCommitActivity(ctx context.Context, owner, name string) ([]domain.WeeklyCommits, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	weeks, _, err := f.client.Repositories.ListCommitActivity(ctx, owner, name)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return []domain.WeeklyCommits{}, nil
		}
		return nil, providerError(ctx, "获取提交统计失败", err)
	}

	result := make([]domain.WeeklyCommits, 0, len(weeks))
	for _, w := range weeks {
		result = append(result, domain.WeeklyCommits{
			WeekStart: w.GetWeek().Unix(),
			Total:     w.GetTotal(),
		})
	}
	return result, nil
}

// GetFileContent 获取单个文件内容 (已解码)
func (f *Fetcher) GetFileContent(ctx context.Context, owner, name, path string) (string, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	file, _, _, err := f.client.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return "", providerError(ctx, "获取文件内容失败", err)
	}
	if file == nil {
		return "", common.NewError(common.ErrCodeInvalidInput, fmt.Sprintf("Path %q is a directory, not a file", path))
	}

	content, err := file.GetContent()
	if err != nil {
		return "", common.WrapError(common.ErrCodeGitHubAPI, "Failed to decode file content", err)
	}
	return content, nil
}

// GetTree 获取递归目录树
func (f *Fetcher) GetTree(ctx context.Context, owner, name, ref string) ([]domain.TreeEntry, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	if ref == "" {
		ref = "HEAD"
	}
	tree, _, err := f.client.Git.GetTree(ctx, owner, name, ref, true)
	if err != nil {
		return nil, providerError(ctx, "获取目录树失败", err)
	}

	entries := make([]domain.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, domain.TreeEntry{Path: e.GetPath(), Type: e.GetType()})
	}
	return entries, nil
}

// ListDirectory 原样返回 contents 接口的 JSON (给前端文件浏览器用)
func (f *Fetcher) ListDirectory(ctx context.Context, owner, name, path string) (json.RawMessage, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	escaped := (&url.URL{Path: strings.Trim(path, "/")}).String()
	u := fmt.Sprintf("repos/%s/%s/contents/%s", owner, name, escaped)
	req, err := f.client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "构造请求失败", err)
	}

	var raw json.RawMessage
	if _, err := f.client.Do(ctx, req, &raw); err != nil {
		return nil, providerError(ctx, "获取目录失败", err)
	}
	return raw, nil
}

// providerError 把 go-github 的错误转换成带上游状态码的 AppError
func providerError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return common.WithStatus(common.ErrCodeGitHubAPI, http.StatusGatewayTimeout,
			"GitHub request timed out", fmt.Errorf("%s: %w", op, err))
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return common.WithStatus(common.ErrCodeGitHubAPI, statusOf(rateErr.Response), rateErr.Message,
			fmt.Errorf("%s: %w", op, err))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return common.WithStatus(common.ErrCodeGitHubAPI, statusOf(abuseErr.Response), abuseErr.Message,
			fmt.Errorf("%s: %w", op, err))
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		msg := respErr.Message
		if msg == "" {
			msg = common.ProviderErrorMessage
		}
		return common.WithStatus(common.ErrCodeGitHubAPI, statusOf(respErr.Response), msg,
			fmt.Errorf("%s: %w", op, err))
	}

	return common.WithStatus(common.ErrCodeGitHubAPI, 0, common.ProviderErrorMessage, fmt.Errorf("%s: %w", op, err))
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"repo-insight/internal/common"
	"repo-insight/internal/domain"
	"repo-insight/internal/metrics"
	"repo-insight/internal/port"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	chartWeeks     = 7
	frequencyWeeks = 12
	week           = 7 * 24 * time.Hour
)

// InvalidURLMessage 无法解析仓库地址时返回给调用方的信息
const InvalidURLMessage = "Invalid GitHub repository URL"

// IngestionService 负责抓取并缓存仓库画像
type IngestionService struct {
	provider port.MetadataProvider
	store    port.RecordStore
	enricher port.Enricher
	notifier port.Notifier

	// 同一个仓库的并发请求只打一次上游
	group singleflight.Group
	// 请求里的 owner/name -> GitHub 返回的规范名, 仓库改名或转移后两者不同
	aliases sync.Map
	nowFunc func() time.Time
}

// NewIngestionService 创建抓取服务, notifier 可以为 nil
func NewIngestionService(
	provider port.MetadataProvider,
	store port.RecordStore,
	enricher port.Enricher,
	notifier port.Notifier,
) *IngestionService {
	return &IngestionService{
		provider: provider,
		store:    store,
		enricher: enricher,
		notifier: notifier,
		nowFunc:  time.Now,
	}
}

// ParseRepositoryURL 从 GitHub 地址中取出 owner 和仓库名
// 支持省略协议、www 前缀、结尾斜杠和 .git 后缀
func ParseRepositoryURL(raw string) (string, string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", common.NewError(common.ErrCodeInvalidInput, InvalidURLMessage)
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", "", common.WrapError(common.ErrCodeInvalidInput, InvalidURLMessage, err)
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return "", "", common.NewError(common.ErrCodeInvalidInput, InvalidURLMessage)
	}

	path := strings.TrimPrefix(strings.TrimSuffix(u.Path, "/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", common.NewError(common.ErrCodeInvalidInput, InvalidURLMessage)
	}
	owner := parts[len(parts)-2]
	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	if owner == "" || name == "" {
		return "", "", common.NewError(common.ErrCodeInvalidInput, InvalidURLMessage)
	}
	return owner, name, nil
}

// Ingest 返回仓库画像: 命中缓存直接返回, 否则抓取、归一化后写入缓存
func (s *IngestionService) Ingest(ctx context.Context, rawURL string) (*domain.RepositoryRecord, error) {
	owner, name, err := ParseRepositoryURL(rawURL)
	if err != nil {
		return nil, err
	}
	fullName := owner + "/" + name
	key := strings.ToLower(fullName)
	if canonical, ok := s.aliases.Load(key); ok {
		fullName = canonical.(string)
	}

	record, ok, err := s.store.Get(ctx, fullName)
	if err != nil {
		log.Printf("⚠️ 读取缓存 %s 失败, 改为直接抓取: %v", fullName, err)
	} else if ok {
		metrics.Ingestions.WithLabelValues("hit").Inc()
		return record, nil
	}

	// 共享的抓取不跟随任何一个调用方取消, 每次上游调用仍受 fetcher 的超时约束
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.fetch(shared, owner, name)
	})

	select {
	case <-ctx.Done():
		metrics.Ingestions.WithLabelValues("error").Inc()
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			metrics.Ingestions.WithLabelValues("error").Inc()
			return nil, res.Err
		}
		metrics.Ingestions.WithLabelValues("miss").Inc()
		return res.Val.(*domain.RepositoryRecord), nil
	}
}

// Lookup 按 ID 取出已缓存的画像
func (s *IngestionService) Lookup(ctx context.Context, id string) (*domain.RepositoryRecord, error) {
	record, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewError(common.ErrCodeNotFound, "Repository not found")
	}
	return record, nil
}

func (s *IngestionService) fetch(ctx context.Context, owner, name string) (*domain.RepositoryRecord, error) {
	log.Printf("📥 正在抓取仓库 %s/%s ...", owner, name)

	var (
		info  *domain.RepoInfo
		langs []domain.LanguageBytes
		weeks []domain.WeeklyCommits
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.provider.GetRepository(gctx, owner, name)
		return err
	})
	g.Go(func() error {
		var err error
		langs, err = s.provider.GetLanguages(gctx, owner, name)
		return err
	})
	g.Go(func() error {
		var err error
		weeks, err = s.provider.GetCommitActivity(gctx, owner, name)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("❌ 抓取仓库 %s/%s 失败: %v", owner, name, err)
		return nil, err
	}

	record := s.normalize(info, langs, weeks)
	if requested := owner + "/" + name; !strings.EqualFold(record.FullName, requested) {
		log.Printf("🔀 %s 已更名为 %s", requested, record.FullName)
		s.aliases.Store(strings.ToLower(requested), record.FullName)
	}
	if s.enricher != nil {
		s.enricher.Enrich(record)
	}

	if err := s.store.Put(ctx, record); err != nil {
		// 抓取已经成功, 缓存失败只影响下一次请求
		log.Printf("⚠️ 写入缓存 %s 失败: %v", record.FullName, err)
	} else {
		log.Printf("💾 已缓存 %s (id=%s)", record.FullName, record.ID)
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, record); err != nil {
			log.Printf("❌ 推送 %s 失败: %v", record.FullName, err)
		}
	}
	return record, nil
}

func (s *IngestionService) normalize(info *domain.RepoInfo, langs []domain.LanguageBytes, weeks []domain.WeeklyCommits) *domain.RepositoryRecord {
	now := s.nowFunc()

	return &domain.RepositoryRecord{
		ID:              strconv.FormatInt(info.ID, 10),
		FullName:        info.FullName,
		Description:     info.Description,
		OwnerAvatarURL:  info.OwnerAvatarURL,
		HTMLURL:         info.HTMLURL,
		DefaultBranch:   info.DefaultBranch,
		License:         info.License,
		Stars:           common.FormatMagnitude(info.Stars),
		Forks:           common.FormatMagnitude(info.Forks),
		OpenIssues:      common.FormatMagnitude(info.OpenIssues),
		PrimaryLanguage: info.PrimaryLanguage,
		CreatedAt:       common.LongDate(time.Unix(info.CreatedAt, 0).UTC()),
		LastUpdated:     common.RelativeTime(time.Unix(info.UpdatedAt, 0), now),
		CommitFrequency: commitFrequency(weeks),
		Languages:       languageShares(langs),
		CommitActivity:  commitBuckets(weeks, now),
	}
}

// languageShares 计算每种语言的字节占比, 保持上游顺序
func languageShares(langs []domain.LanguageBytes) []domain.LanguageShare {
	total := 0
	for _, l := range langs {
		total += l.Bytes
	}

	shares := make([]domain.LanguageShare, 0, len(langs))
	for _, l := range langs {
		shares = append(shares, domain.LanguageShare{
			Name:       l.Name,
			Percentage: common.Percentage(l.Bytes, total),
			Color:      languageColor(l.Name),
		})
	}
	return shares
}

// commitBuckets 取最近 7 周做图表, 不足 7 周时在前面补 0
func commitBuckets(weeks []domain.WeeklyCommits, now time.Time) []domain.CommitBucket {
	recent := weeks[max(0, len(weeks)-chartWeeks):]
	if len(recent) == 0 {
		// 没有数据时以当前周结尾, 全部补 0
		recent = []domain.WeeklyCommits{{WeekStart: now.Unix()}}
	}
	first := time.Unix(recent[0].WeekStart, 0).UTC()

	buckets := make([]domain.CommitBucket, 0, chartWeeks)
	for i := chartWeeks - len(recent); i > 0; i-- {
		t := first.Add(-time.Duration(i) * week)
		buckets = append(buckets, domain.CommitBucket{Month: t.Format("Jan")})
	}
	for _, w := range recent {
		buckets = append(buckets, domain.CommitBucket{
			Month:   time.Unix(w.WeekStart, 0).UTC().Format("Jan"),
			Commits: w.Total,
		})
	}
	return buckets
}

// commitFrequency 最近 12 周的平均提交数, 四舍五入
func commitFrequency(weeks []domain.WeeklyCommits) string {
	recent := weeks[max(0, len(weeks)-frequencyWeeks):]
	if len(recent) == 0 {
		return "0/week"
	}

	sum := 0
	for _, w := range recent {
		sum += w.Total
	}
	mean := math.Round(float64(sum) / float64(len(recent)))
	return fmt.Sprintf("%d/week", int(mean))
}

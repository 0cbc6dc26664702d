package repository

import (
	"context"
	"strings"
	"sync"

	"repo-insight/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore 进程内缓存, 实现了 port.RecordStore 接口
// capacity <= 0 时不淘汰 (默认行为), 否则按 LRU 淘汰
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]*domain.RepositoryRecord
	byID   map[string]string // id -> name key

	bounded *lru.Cache[string, *domain.RepositoryRecord]
}

// NewMemoryStore 创建内存缓存
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	s := &MemoryStore{
		byName: make(map[string]*domain.RepositoryRecord),
		byID:   make(map[string]string),
	}
	if capacity <= 0 {
		return s, nil
	}

	cache, err := lru.NewWithEvict[string, *domain.RepositoryRecord](capacity, s.onEvict)
	if err != nil {
		return nil, err
	}
	s.bounded = cache
	return s, nil
}

// onEvict 在 lru 内部调用, 此时已持有 s.mu 的写锁
func (s *MemoryStore) onEvict(_ string, record *domain.RepositoryRecord) {
	delete(s.byID, record.ID)
}

func nameKey(fullName string) string {
	return strings.ToLower(strings.TrimSpace(fullName))
}

// Get 按 owner/name 查找 (不区分大小写)
func (s *MemoryStore) Get(_ context.Context, fullName string) (*domain.RepositoryRecord, bool, error) {
	key := nameKey(fullName)

	if s.bounded != nil {
		// lru.Get 会调整顺序, 需要写锁
		s.mu.Lock()
		defer s.mu.Unlock()
		record, ok := s.bounded.Get(key)
		return record, ok, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byName[key]
	return record, ok, nil
}

// GetByID 按 GitHub 仓库 ID 查找
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*domain.RepositoryRecord, bool, error) {
	s.mu.RLock()
	key, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return s.Get(ctx, key)
}

// Put 写入缓存, 同名记录直接覆盖
func (s *MemoryStore) Put(_ context.Context, record *domain.RepositoryRecord) error {
	key := nameKey(record.FullName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bounded != nil {
		s.bounded.Add(key, record)
	} else {
		s.byName[key] = record
	}
	s.byID[record.ID] = key
	return nil
}

// Len 当前缓存条数
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bounded != nil {
		return s.bounded.Len()
	}
	return len(s.byName)
}

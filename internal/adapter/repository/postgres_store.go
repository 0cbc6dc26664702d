package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repo-insight/internal/common"
	"repo-insight/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresStore 实现了 port.RecordStore 接口, 让缓存在重启后仍然有效
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore 初始化数据库连接并自动迁移表结构
// 数据库往往比应用启动得慢, 所以连接阶段带重试
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	var db *gorm.DB
	err := common.Do(ctx, func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return openErr
	},
		common.WithMaxRetries(5),
		common.WithInitialDelay(time.Second),
		common.WithLabel("postgres"),
	)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 自动建表, 字段变化时自动更新
	if err := db.AutoMigrate(&domain.RepositoryRecord{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Get 按 owner/name 查找 (不区分大小写)
func (r *PostgresStore) Get(ctx context.Context, fullName string) (*domain.RepositoryRecord, bool, error) {
	var record domain.RepositoryRecord
	err := r.db.WithContext(ctx).
		Where("LOWER(full_name) = ?", strings.ToLower(strings.TrimSpace(fullName))).
		First(&record).Error
	return found(&record, err)
}

// GetByID 按 GitHub 仓库 ID 查找
func (r *PostgresStore) GetByID(ctx context.Context, id string) (*domain.RepositoryRecord, bool, error) {
	var record domain.RepositoryRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	return found(&record, err)
}

// Put 保存或覆盖记录 (Upsert)
func (r *PostgresStore) Put(ctx context.Context, record *domain.RepositoryRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return common.WrapError(common.ErrCodeDatabase, "保存仓库记录失败", err)
	}
	return nil
}

func found(record *domain.RepositoryRecord, err error) (*domain.RepositoryRecord, bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, common.WrapError(common.ErrCodeDatabase, "查询仓库记录失败", err)
	}
	return record, true, nil
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"repo-insight/internal/common"
	"repo-insight/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB 创建一个模拟的数据库连接
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock, func() { db.Close() }
}

var recordColumns = []string{"id", "full_name", "stars", "primary_language", "languages", "commit_activity"}

func TestPostgresStore_Put(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "成功保存记录",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "repository_records"`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "数据库错误",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "repository_records"`)).
					WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := setupMockDB(t)
			defer cleanup()
			tt.setupMock(mock)

			store := &PostgresStore{db: gormDB}
			err := store.Put(context.Background(), &domain.RepositoryRecord{
				ID:        "123",
				FullName:  "test/awesome-tool",
				Stars:     "1.2k",
				Languages: []domain.LanguageShare{{Name: "Go", Percentage: 100, Color: "#00ADD8"}},
			})

			if tt.expectError {
				assert.True(t, common.IsCode(err, common.ErrCodeDatabase))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_Get(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectFound bool
		expectError bool
	}{
		{
			name: "记录存在",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(recordColumns).AddRow(
					"123", "test/awesome-tool", "1.2k", "Go",
					`[{"name":"Go","percentage":100,"color":"#00ADD8"}]`,
					`[{"month":"Jan","commits":4}]`,
				)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "repository_records" WHERE LOWER(full_name) = $1`)).
					WillReturnRows(rows)
			},
			expectFound: true,
		},
		{
			name: "记录不存在",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "repository_records"`)).
					WillReturnRows(sqlmock.NewRows(recordColumns))
			},
		},
		{
			name: "数据库错误",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "repository_records"`)).
					WillReturnError(gorm.ErrInvalidDB)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := setupMockDB(t)
			defer cleanup()
			tt.setupMock(mock)

			store := &PostgresStore{db: gormDB}
			record, ok, err := store.Get(context.Background(), "Test/Awesome-Tool")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectFound, ok)
			if tt.expectFound {
				assert.Equal(t, "123", record.ID)
				assert.Equal(t, "test/awesome-tool", record.FullName)
				assert.Equal(t, []domain.LanguageShare{{Name: "Go", Percentage: 100, Color: "#00ADD8"}}, record.Languages)
				assert.Equal(t, []domain.CommitBucket{{Month: "Jan", Commits: 4}}, record.CommitActivity)
			} else {
				assert.Nil(t, record)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_GetByID(t *testing.T) {
	gormDB, mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(recordColumns).AddRow("42", "a/b", "10", "Python", `[]`, `[]`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "repository_records" WHERE id = $1`)).
		WillReturnRows(rows)

	store := &PostgresStore{db: gormDB}
	record, ok, err := store.GetByID(context.Background(), "42")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a/b", record.FullName)
	assert.Equal(t, "Python", record.PrimaryLanguage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

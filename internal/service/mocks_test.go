package service

import (
	"context"
	"encoding/json"

	"repo-insight/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetRepository(ctx context.Context, owner, name string) (*domain.RepoInfo, error) {
	args := m.Called(ctx, owner, name)
	info, _ := args.Get(0).(*domain.RepoInfo)
	return info, args.Error(1)
}

func (m *MockProvider) GetLanguages(ctx context.Context, owner, name string) ([]domain.LanguageBytes, error) {
	args := m.Called(ctx, owner, name)
	langs, _ := args.Get(0).([]domain.LanguageBytes)
	return langs, args.Error(1)
}

func (m *MockProvider) GetCommitActivity(ctx context.Context, owner, name string) ([]domain.WeeklyCommits, error) {
	args := m.Called(ctx, owner, name)
	weeks, _ := args.Get(0).([]domain.WeeklyCommits)
	return weeks, args.Error(1)
}

func (m *MockProvider) GetFileContent(ctx context.Context, owner, name, path string) (string, error) {
	args := m.Called(ctx, owner, name, path)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) GetTree(ctx context.Context, owner, name, ref string) ([]domain.TreeEntry, error) {
	args := m.Called(ctx, owner, name, ref)
	entries, _ := args.Get(0).([]domain.TreeEntry)
	return entries, args.Error(1)
}

func (m *MockProvider) ListDirectory(ctx context.Context, owner, name, path string) (json.RawMessage, error) {
	args := m.Called(ctx, owner, name, path)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, fullName string) (*domain.RepositoryRecord, bool, error) {
	args := m.Called(ctx, fullName)
	record, _ := args.Get(0).(*domain.RepositoryRecord)
	return record, args.Bool(1), args.Error(2)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*domain.RepositoryRecord, bool, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*domain.RepositoryRecord)
	return record, args.Bool(1), args.Error(2)
}

func (m *MockStore) Put(ctx context.Context, record *domain.RepositoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(record *domain.RepositoryRecord) {
	m.Called(record)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, record *domain.RepositoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"repo-insight/internal/adapter/gemini"
	"repo-insight/internal/adapter/github"
	"repo-insight/internal/adapter/openai"
	"repo-insight/internal/adapter/repository"
	"repo-insight/internal/common"
	"repo-insight/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStore_Memory(t *testing.T) {
	store, err := buildStore(context.Background(), &config.Config{CacheCapacity: 2})
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryStore{}, store)
}

func TestBuildCompleter(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantType interface{}
	}{
		{name: "默认 OpenAI", provider: config.ProviderOpenAI, wantType: &openai.Completer{}},
		{name: "Gemini", provider: config.ProviderGemini, wantType: &gemini.Completer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, closeFn, err := buildCompleter(context.Background(), &config.Config{CompletionProvider: tt.provider})
			require.NoError(t, err)
			defer closeFn()
			assert.IsType(t, tt.wantType, completer)

			// 没有 key 时不发请求, 直接报未配置
			_, err = completer.Complete(context.Background(), "system", "user")
			assert.True(t, common.IsCode(err, common.ErrCodeCompletion))
		})
	}
}

func TestBuildNotifier(t *testing.T) {
	assert.Nil(t, buildNotifier(&config.Config{}))
	assert.NotNil(t, buildNotifier(&config.Config{FeishuWebhook: "https://open.feishu.cn/hook/x"}))
}

func TestNewRouter(t *testing.T) {
	cfg := &config.Config{Mode: "test"}
	store, err := repository.NewMemoryStore(0)
	require.NoError(t, err)
	completer, closeFn, err := buildCompleter(context.Background(), &config.Config{CompletionProvider: config.ProviderOpenAI})
	require.NoError(t, err)
	defer closeFn()

	router := newRouter(cfg, github.NewFetcher(""), store, completer, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/readme/404", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

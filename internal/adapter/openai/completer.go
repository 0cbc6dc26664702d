package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"repo-insight/internal/common"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel 代码分析固定使用的模型
const DefaultModel = "gpt-4o-mini"

// Completer 实现了 port.CompletionProvider 接口
type Completer struct {
	client *openai.Client
	model  string
}

// NewCompleter 创建 OpenAI 客户端
// apiKey 为空时不报错, 每次调用时返回 "not configured"
func NewCompleter(apiKey, model, baseURL string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		log.Println("⚠️ 警告: OPENAI_API_KEY 为空，代码分析功能将无法工作！")
		return &Completer{model: model}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Completer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete 发送一次非流式对话补全请求, 返回第一个 choice 的文本
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.client == nil {
		return "", common.WithStatus(common.ErrCodeCompletion, http.StatusInternalServerError,
			"OpenAI API key is not configured", nil)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", completionError(err)
	}

	if len(resp.Choices) == 0 {
		return "", common.NewError(common.ErrCodeNoCompletion, "No analysis was generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// completionError 把上游的错误信息和状态码带给调用方
func completionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return common.WithStatus(common.ErrCodeCompletion, apiErr.HTTPStatusCode,
			fmt.Sprintf("OpenAI API error: %s", apiErr.Message), err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return common.WithStatus(common.ErrCodeCompletion, reqErr.HTTPStatusCode,
			fmt.Sprintf("OpenAI API error: %s", reqErr.HTTPStatus), err)
	}

	return common.WithStatus(common.ErrCodeCompletion, 0, "Failed to reach the completion provider", err)
}

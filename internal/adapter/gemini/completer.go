package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"repo-insight/internal/common"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel 代码分析固定使用的模型
const DefaultModel = "gemini-2.5-flash-lite"

// Completer 实现了 port.CompletionProvider 接口
type Completer struct {
	client    *genai.Client
	modelName string
}

// NewCompleter 创建 Gemini 客户端
// apiKey 为空时不初始化客户端, 调用时返回 "not configured"
func NewCompleter(ctx context.Context, apiKey string) (*Completer, error) {
	if apiKey == "" {
		return &Completer{modelName: DefaultModel}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Completer{client: client, modelName: DefaultModel}, nil
}

// Close 释放底层连接
func (g *Completer) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Complete 调用 Gemini 生成一次分析
func (g *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.client == nil {
		return "", common.WithStatus(common.ErrCodeCompletion, http.StatusInternalServerError,
			"Gemini API key is not configured", nil)
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", completionError(err)
	}
	return firstCandidateText(resp)
}

// firstCandidateText 拼接第一个候选的所有文本片段
func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", common.NewError(common.ErrCodeNoCompletion, "No analysis was generated")
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return "", common.NewError(common.ErrCodeNoCompletion, "No analysis was generated")
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", common.NewError(common.ErrCodeNoCompletion, "No analysis was generated")
	}
	return b.String(), nil
}

func completionError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return common.WithStatus(common.ErrCodeCompletion, gErr.Code,
			fmt.Sprintf("Gemini API error: %s", gErr.Message), err)
	}
	return common.WithStatus(common.ErrCodeCompletion, 0, "Failed to reach the completion provider", err)
}

package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"repo-insight/internal/common"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestFirstCandidateText(t *testing.T) {
	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		expected    string
		expectError bool
	}{
		{
			name: "拼接多个文本片段",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []genai.Part{genai.Text("## Summary\n"), genai.Text("ok")}}},
					{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
				},
			},
			expected: "## Summary\nok",
		},
		{
			name:        "没有候选",
			resp:        &genai.GenerateContentResponse{},
			expectError: true,
		},
		{
			name:        "候选内容为空",
			resp:        &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			expectError: true,
		},
		{
			name:        "nil 响应",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := firstCandidateText(tt.resp)

			if tt.expectError {
				assert.True(t, common.IsCode(err, common.ErrCodeNoCompletion))
				assert.Empty(t, text)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, text)
			}
		})
	}
}

func TestCompleter_NotConfigured(t *testing.T) {
	completer, err := NewCompleter(context.Background(), "")
	assert.NoError(t, err)

	_, err = completer.Complete(context.Background(), "sys", "user")
	assert.True(t, common.IsCode(err, common.ErrCodeCompletion))
	_, msg := common.Resolve(err)
	assert.Contains(t, msg, "not configured")
	assert.NoError(t, completer.Close())
}

func TestCompletionError(t *testing.T) {
	err := completionError(&googleapi.Error{Code: http.StatusForbidden, Message: "API key not valid"})
	status, msg := common.Resolve(err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Gemini API error: API key not valid", msg)

	// 传输层错误只作为内部原因, 不出现在返回信息里
	cause := errors.New("dial tcp 10.0.0.7:443: i/o timeout")
	err = completionError(cause)
	status, msg = common.Resolve(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to reach the completion provider", msg)
	assert.NotContains(t, msg, "10.0.0.7")
	assert.ErrorIs(t, err, cause)
}

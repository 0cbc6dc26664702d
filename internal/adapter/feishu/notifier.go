package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"repo-insight/internal/common"
	"repo-insight/internal/domain"
)

// Notifier 新仓库入库后推送飞书卡片, 实现了 port.Notifier 接口
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewNotifier(webhook string) *Notifier {
	if webhook == "" {
		log.Println("⚠️ 警告: 飞书 Webhook 为空，推送功能将无法工作！")
	}
	return &Notifier{
		webhookURL: webhook,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify 发送飞书卡片消息 (Schema 2.0)
func (n *Notifier) Notify(ctx context.Context, record *domain.RepositoryRecord) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}

	title := fmt.Sprintf("📦 新仓库分析完成: %s", record.FullName)

	langs := make([]string, 0, len(record.Languages))
	for _, l := range record.Languages {
		langs = append(langs, fmt.Sprintf("%s %.1f%%", l.Name, l.Percentage))
	}

	mdContent := fmt.Sprintf(`**⭐ Stars:** %s  |  **🍴 Forks:** %s  |  **语言:** %s
**📅 创建日期:** %s  |  **🕒 最近更新:** %s
**📈 提交频率:** %s

**📝 项目描述:**
%s

**🧮 语言分布:**
%s
`,
		record.Stars, record.Forks, record.PrimaryLanguage,
		record.CreatedAt, record.LastUpdated,
		record.CommitFrequency,
		record.Description,
		strings.Join(langs, " / "))

	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   mdContent,
						"text_size": "normal",
					},
					{
						"tag": "button",
						"text": map[string]interface{}{
							"tag":     "plain_text",
							"content": "🔗 查看源码",
						},
						"type": "primary",
						"behaviors": []map[string]interface{}{
							{
								"type":        "open_url",
								"default_url": record.HTMLURL,
							},
						},
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "序列化卡片失败", err)
	}

	// 只发一次, 失败由调用方记录日志
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "构造请求失败", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "发送请求失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return common.NewError(common.ErrCodeNotification, fmt.Sprintf("飞书 API 报错: 状态码 %d", resp.StatusCode))
	}
	return nil
}

package mail

import (
	"context"
	"fmt"

	"zerowaste-backend/internal/infrastructure/config"
	"zerowaste-backend/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 透過 HTTP 郵件服務發送郵件
// 未啟用時所有發送呼叫皆為 no-op
type Client struct {
	http *resty.Client
	cfg  *config.MailConfig
}

// sendRequest 郵件服務的請求格式
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// New 創建郵件客戶端
func New(cfg *config.MailConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{
		http: client,
		cfg:  cfg,
	}
}

// Send 發送一封 HTML 郵件
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if !c.cfg.Enabled {
		common.LogDebug("郵件服務未啟用，略過發送",
			zap.String("收件者", to),
		)
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    c.cfg.From,
			To:      to,
			Subject: subject,
			HTML:    html,
		}).
		Post("/send")
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("mail service returned %d", resp.StatusCode())
	}

	common.LogInfo("郵件已發送",
		zap.String("收件者", to),
		zap.String("主旨", subject),
	)
	return nil
}

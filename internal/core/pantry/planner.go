package pantry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zerowaste-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Sender 郵件發送介面
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Planner 每日掃描即將到期的品項並寄送提醒郵件
type Planner struct {
	lister   Lister
	mail     Sender
	interval time.Duration
	done     chan struct{}
}

// NewPlanner 創建每日提醒排程器
func NewPlanner(lister Lister, mail Sender, interval time.Duration) *Planner {
	return &Planner{
		lister:   lister,
		mail:     mail,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start 啟動排程協程
func (p *Planner) Start() {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.runOnce(context.Background())
			case <-p.done:
				return
			}
		}
	}()

	common.LogInfo("到期提醒排程已啟動",
		zap.Duration("間隔", p.interval),
	)
}

// Stop 停止排程
func (p *Planner) Stop() {
	close(p.done)
}

// runOnce 執行一輪掃描與寄信
func (p *Planner) runOnce(ctx context.Context) {
	byUser, err := p.lister.ExpiringByUser(ctx)
	if err != nil {
		common.LogError("掃描到期品項失敗", zap.Error(err))
		return
	}

	for email, products := range byUser {
		if len(products) == 0 {
			continue
		}

		subject := fmt.Sprintf("Expiring Products Alert %s", time.Now().Format("2006-01-02"))
		if err := p.mail.Send(ctx, email, subject, renderExpiringHTML(products)); err != nil {
			common.LogError("提醒郵件寄送失敗",
				zap.Error(err),
				zap.String("使用者", email),
			)
			continue
		}

		common.LogInfo("提醒郵件已寄出",
			zap.String("使用者", email),
			zap.Int("品項數", len(products)),
		)
	}
}

// renderExpiringHTML 產生提醒郵件內容
func renderExpiringHTML(products []Product) string {
	var sb strings.Builder
	sb.WriteString("<h2>即將到期的品項</h2><ul>")
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", p.Name))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

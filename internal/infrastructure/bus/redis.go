package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"zerowaste-backend/internal/core/recommend"
	"zerowaste-backend/internal/infrastructure/config"
	"zerowaste-backend/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Bus Redis pub/sub 訊息匯流排
// 外送請求與接收回覆各走一個頻道，訊息不落地、不重送
type Bus struct {
	client *redis.Client
	cfg    *config.RedisConfig
	cancel context.CancelFunc
}

// New 創建訊息匯流排並測試連線
func New(cfg *config.RedisConfig) (*Bus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Bus{
		client: client,
		cfg:    cfg,
	}, nil
}

// Publish 將推薦請求發佈到外送頻道，單次發佈，不等待回覆
func (b *Bus) Publish(ctx context.Context, msg recommend.RequestMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := b.client.Publish(ctx, b.cfg.RequestTopic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish request: %w", err)
	}

	common.LogDebug("訊息已發佈",
		zap.String("頻道", b.cfg.RequestTopic),
		zap.Int("大小", len(data)),
	)
	return nil
}

// Subscribe 訂閱回覆頻道並啟動消費協程
// 解不開的訊息記錄後丟棄，處理函式自行負責其餘的錯誤語意
func (b *Bus) Subscribe(ctx context.Context, handler func(context.Context, recommend.ReplyMessage)) {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	pubsub := b.client.Subscribe(ctx, b.cfg.ResponseTopic)

	go func() {
		defer pubsub.Close()

		common.LogInfo("開始訂閱回覆頻道",
			zap.String("頻道", b.cfg.ResponseTopic),
		)

		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var reply recommend.ReplyMessage
				if err := common.ParseJSONBytes([]byte(msg.Payload), &reply); err != nil {
					common.LogWarn("回覆訊息解析失敗，已丟棄",
						zap.Error(err),
						zap.String("頻道", b.cfg.ResponseTopic),
					)
					continue
				}
				handler(ctx, reply)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close 停止訂閱並關閉連線
func (b *Bus) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	return b.client.Close()
}

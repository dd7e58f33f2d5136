package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PDF 通知状态。
const (
	NotifyCompleted = "completed"
	NotifyError     = "error"
)

// PDFNotifyMessage 是通过 Redis Pub/Sub 转发给 WebSocket 客户端的消息。
type PDFNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      string `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

// NotifyChannel 返回用户私有的通知频道名。
func NotifyChannel(userID string) string {
	return "user_notify:" + userID
}

// Notifier 向用户推送 PDF 渲染结果。
type Notifier interface {
	Notify(ctx context.Context, userID string, msg PDFNotifyMessage) error
}

// RedisNotifier 通过 Redis Publish 推送通知。
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID string, msg PDFNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(userID)
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

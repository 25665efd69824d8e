package storage

import "context"

// Store 进程外的本地键值缓存，存身份和最近一次订单状态。
// 不存在的键读出空串，不算错误。
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

const (
	KeyOpenid    = "identity:openid"
	KeyLastOrder = "order:last"
)

package event

import (
	"Bookmall/pkg/log"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Bus 类型化的发布订阅。订阅返回注销函数，不靠回调引用相等性删除；
// 同一个回调订阅两次就是两个独立订阅。
type Bus[T any] struct {
	listeners cmap.ConcurrentMap[string, func(T)]
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{listeners: cmap.New[func(T)]()}
}

// Subscribe 注册监听，返回的 dispose 可重复调用
func (b *Bus[T]) Subscribe(fn func(T)) (dispose func()) {
	key := uuid.NewString()
	b.listeners.Set(key, fn)
	return func() {
		b.listeners.Remove(key)
	}
}

// Publish 同步分发给当前所有监听者，单个监听者 panic 不影响其他监听者
func (b *Bus[T]) Publish(ev T) {
	for item := range b.listeners.IterBuffered() {
		fn := item.Val
		if recovered := panics.Try(func() { fn(ev) }); recovered != nil {
			log.L.Error("event listener panic", zap.String("panic", recovered.String()))
		}
	}
}

// Len 当前监听者数量
func (b *Bus[T]) Len() int {
	return b.listeners.Count()
}

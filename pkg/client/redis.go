package client

import (
	"Bookmall/config"
	"Bookmall/pkg/log"
	"Bookmall/pkg/storage"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewStore 本地缓存工厂：配置了 redis 就用 redis，连不上或没配置时
// 退化为内存缓存（身份需要重新换取，不影响正确性）。
func NewStore(conf *config.Config) storage.Store {
	if conf.Redis == nil || conf.Redis.Address == "" {
		log.L.Info("redis not configured, using in-memory store")
		return storage.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", conf.Redis.Address, conf.Redis.Port),
		Password:    conf.Redis.Password,
		Username:    conf.Redis.Username,
		DB:          conf.Redis.Database,
		ReadTimeout: 0,
	})
	if _, err := client.Ping(context.TODO()).Result(); err != nil {
		log.L.Warn("connect redis error, falling back to in-memory store", zap.Error(err))
		return storage.NewMemoryStore()
	}
	log.L.Info("redis client success")
	return storage.NewRedisStore(client)
}

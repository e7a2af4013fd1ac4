package config

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/net/context"
)

// RedisClient 目前只承载会话摘要缓存，连接池不必很大
var RedisClient *redis.Client

// InitRedis 初始化Redis客户端
func InitRedis(config Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         config.GetRedisConnString(),
		Password:     config.RedisPassword,
		DB:           config.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	// 测试连接
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := RedisClient.Ping(pingCtx).Result(); err != nil {
		return fmt.Errorf("Redis连接测试失败: %v", err)
	}

	return nil
}

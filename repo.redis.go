package bookstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keys holding the records.
const (
	HBooks           string = "books"
	HCustomers       string = "customers"
	HCustomerUserIDs string = "customers:userids"
	KCustomerSeq     string = "customers:seq"
)

// GetRedisClient provides a redis client sharing the pool settings of the
// relational storage. It does not connect until the first command.
func GetRedisClient(config *Config) *redis.Client {
	rc := config.Storage.Redis
	return redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", rc.Host, rc.Port),
		DialTimeout:     rc.DialTimeout,
		ReadTimeout:     rc.ReadTimeout,
		WriteTimeout:    rc.WriteTimeout,
		PoolSize:        PoolSize + PoolOverflow,
		MinIdleConns:    PoolSize,
		PoolTimeout:     PoolTimeout,
		ConnMaxLifetime: PoolRecycle,
		Password:        rc.Password,
		Username:        rc.Username,
		DB:              rc.DatabaseIndex,
	})
}

// PingRedis checks the redis server answers.
func PingRedis(ctx context.Context, client *redis.Client) error {
	if pong, err := client.Ping(ctx).Result(); pong != "PONG" || err != nil {
		return fmt.Errorf("test connection failed: %v", err)
	}
	return nil
}

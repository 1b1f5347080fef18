package bookstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// createCustomer indexes the user id and stores the record in one step.
// KEYS: customers hash, user ids index. ARGV: user id, id, record.
var createCustomer = redis.NewScript(`
if redis.call("HSETNX", KEYS[2], ARGV[1], ARGV[2]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[2], ARGV[3])
return 1
`)

// updateCustomer moves the user id index entry when it changes and
// replaces the record. It returns 0 for a missing record and -1 when
// the new user id belongs to another customer.
// KEYS: customers hash, user ids index. ARGV: id, record, user id.
var updateCustomer = redis.NewScript(`
local current = redis.call("HGET", KEYS[1], ARGV[1])
if not current then
	return 0
end
local owner = redis.call("HGET", KEYS[2], ARGV[3])
if owner and owner ~= ARGV[1] then
	return -1
end
local old = cjson.decode(current)["userId"]
if old ~= ARGV[3] then
	redis.call("HDEL", KEYS[2], old)
end
redis.call("HSET", KEYS[2], ARGV[3], ARGV[1])
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

type redisCustomerStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisCustomerStorage provides an instance of redis-based customer storage.
func NewRedisCustomerStorage(logger *zap.Logger, client *redis.Client) CustomerStorage {
	return &redisCustomerStorage{
		logger: logger,
		client: client,
	}
}

// Create assigns the next id to the customer and stores it unless
// its user id is already taken. Ids lost on conflict are not reused.
func (rs *redisCustomerStorage) Create(ctx context.Context, c Customer) (Customer, error) {
	id, err := rs.client.Incr(ctx, KCustomerSeq).Result()
	if err != nil {
		return Customer{}, err
	}
	c.ID = id
	customerBytes, err := json.Marshal(c)
	if err != nil {
		return Customer{}, err
	}
	key := strconv.FormatInt(id, 10)
	created, err := createCustomer.Run(ctx, rs.client, []string{HCustomers, HCustomerUserIDs}, c.UserID, key, customerBytes).Int()
	if err != nil {
		return Customer{}, err
	}
	if created == 0 {
		return Customer{}, ErrConflict
	}
	return c, nil
}

// Get retrieves a customer record based on its id.
func (rs *redisCustomerStorage) Get(ctx context.Context, id int64) (Customer, error) {
	return rs.get(ctx, strconv.FormatInt(id, 10))
}

// GetByUserID retrieves a customer record based on its user id.
func (rs *redisCustomerStorage) GetByUserID(ctx context.Context, userID string) (Customer, error) {
	key, err := rs.client.HGet(ctx, HCustomerUserIDs, userID).Result()
	if errors.Is(err, redis.Nil) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return rs.get(ctx, key)
}

// Update replaces an existing customer record data.
func (rs *redisCustomerStorage) Update(ctx context.Context, id int64, c Customer) (Customer, error) {
	c.ID = id
	customerBytes, err := json.Marshal(c)
	if err != nil {
		return Customer{}, err
	}
	key := strconv.FormatInt(id, 10)
	res, err := updateCustomer.Run(ctx, rs.client, []string{HCustomers, HCustomerUserIDs}, key, customerBytes, c.UserID).Int()
	if err != nil {
		return Customer{}, err
	}
	switch res {
	case 0:
		return Customer{}, ErrNotFound
	case -1:
		return Customer{}, ErrConflict
	}
	return c, nil
}

func (rs *redisCustomerStorage) get(ctx context.Context, key string) (Customer, error) {
	var c Customer
	customerJSONString, err := rs.client.HGet(ctx, HCustomers, key).Result()
	if errors.Is(err, redis.Nil) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, err
	}
	err = json.Unmarshal([]byte(customerJSONString), &c)
	return c, err
}

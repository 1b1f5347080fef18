package bookstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// updateIfExists replaces a hash field only when it already exists.
var updateIfExists = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// Create inserts a new book record unless its ISBN is already taken.
func (rs *redisBookStorage) Create(ctx context.Context, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	added, err := rs.client.HSetNX(ctx, HBooks, book.ISBN, bookBytes).Result()
	if err != nil {
		return Book{}, err
	}
	if !added {
		return Book{}, ErrConflict
	}
	return book, nil
}

// Get retrieves a book record based on its ISBN.
func (rs *redisBookStorage) Get(ctx context.Context, isbn string) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, isbn).Result()
	if errors.Is(err, redis.Nil) {
		return book, ErrNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Update replaces an existing book record data.
func (rs *redisBookStorage) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	book.ISBN = isbn
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	updated, err := updateIfExists.Run(ctx, rs.client, []string{HBooks}, isbn, bookBytes).Int()
	if err != nil {
		return Book{}, err
	}
	if updated == 0 {
		return Book{}, ErrNotFound
	}
	return book, nil
}

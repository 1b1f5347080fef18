package bookstore

import (
	"context"
	"encoding/json"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, client *bolt.DB) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
	}
}

// Create inserts a new book record into boltdb store unless its ISBN is taken.
func (bs *boltBookStorage) Create(_ context.Context, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(BooksBucket)
		if b.Get([]byte(book.ISBN)) != nil {
			return ErrConflict
		}
		return b.Put([]byte(book.ISBN), bookBytes)
	})
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

// Get retrieves a book record based on its ISBN from boltdb store.
func (bs *boltBookStorage) Get(_ context.Context, isbn string) (Book, error) {
	var book Book
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket(BooksBucket).Get([]byte(isbn))
	if result == nil {
		return book, ErrNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Update replaces an existing book record data.
func (bs *boltBookStorage) Update(_ context.Context, isbn string, book Book) (Book, error) {
	book.ISBN = isbn
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(BooksBucket)
		if b.Get([]byte(isbn)) == nil {
			return ErrNotFound
		}
		return b.Put([]byte(isbn), bookBytes)
	})
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

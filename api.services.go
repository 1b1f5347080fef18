package bookstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Create(ctx context.Context, book Book) (Book, error)
	Get(ctx context.Context, isbn string) (Book, error)
	Update(ctx context.Context, isbn string, book Book) (Book, error)
}

type CustomerServiceProvider interface {
	Create(ctx context.Context, c Customer) (Customer, error)
	Get(ctx context.Context, id int64) (Customer, error)
	GetByUserID(ctx context.Context, userID string) (Customer, error)
}

type BookService struct {
	logger  *zap.Logger
	storage BookStorage
}

func NewBookService(logger *zap.Logger, storage BookStorage) BookServiceProvider {
	return &BookService{
		logger:  logger,
		storage: storage,
	}
}

// Create checks the ISBN is free before inserting the book. The storage
// still rejects a duplicate created in between by another request.
func (bs *BookService) Create(ctx context.Context, book Book) (Book, error) {
	_, err := bs.storage.Get(ctx, book.ISBN)
	if err == nil {
		return Book{}, ErrConflict
	}
	if !errors.Is(err, ErrNotFound) {
		return Book{}, fmt.Errorf("service: failed to check book existence: %w", err)
	}

	created, err := bs.storage.Create(ctx, book)
	if errors.Is(err, ErrConflict) {
		bs.logger.Warn("service: book created concurrently", zap.String("book.isbn", book.ISBN))
	}
	return created, err
}

func (bs *BookService) Get(ctx context.Context, isbn string) (Book, error) {
	return bs.storage.Get(ctx, isbn)
}

func (bs *BookService) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	book.ISBN = isbn
	return bs.storage.Update(ctx, isbn, book)
}

type CustomerService struct {
	logger  *zap.Logger
	storage CustomerStorage
}

func NewCustomerService(logger *zap.Logger, storage CustomerStorage) CustomerServiceProvider {
	return &CustomerService{
		logger:  logger,
		storage: storage,
	}
}

// Create checks the user id is free before inserting the customer.
func (cs *CustomerService) Create(ctx context.Context, c Customer) (Customer, error) {
	_, err := cs.storage.GetByUserID(ctx, c.UserID)
	if err == nil {
		return Customer{}, ErrConflict
	}
	if !errors.Is(err, ErrNotFound) {
		return Customer{}, fmt.Errorf("service: failed to check customer existence: %w", err)
	}

	created, err := cs.storage.Create(ctx, c)
	if errors.Is(err, ErrConflict) {
		cs.logger.Warn("service: customer created concurrently", zap.String("customer.userid", c.UserID))
	}
	return created, err
}

func (cs *CustomerService) Get(ctx context.Context, id int64) (Customer, error) {
	return cs.storage.Get(ctx, id)
}

func (cs *CustomerService) GetByUserID(ctx context.Context, userID string) (Customer, error) {
	return cs.storage.GetByUserID(ctx, userID)
}

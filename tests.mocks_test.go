package bookstore

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	CreateFunc func(ctx context.Context, book Book) (Book, error)
	GetFunc    func(ctx context.Context, isbn string) (Book, error)
	UpdateFunc func(ctx context.Context, isbn string, book Book) (Book, error)
}

// Create mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Create(ctx context.Context, book Book) (Book, error) {
	return m.CreateFunc(ctx, book)
}

// Get mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) Get(ctx context.Context, isbn string) (Book, error) {
	return m.GetFunc(ctx, isbn)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, isbn, book)
}

type MockCustomerStorage struct {
	CreateFunc      func(ctx context.Context, c Customer) (Customer, error)
	GetFunc         func(ctx context.Context, id int64) (Customer, error)
	GetByUserIDFunc func(ctx context.Context, userID string) (Customer, error)
	UpdateFunc      func(ctx context.Context, id int64, c Customer) (Customer, error)
}

// Create mocks the behavior of customer creation by the repository.
func (m *MockCustomerStorage) Create(ctx context.Context, c Customer) (Customer, error) {
	return m.CreateFunc(ctx, c)
}

// Get mocks the behavior of retrieving a customer by id.
func (m *MockCustomerStorage) Get(ctx context.Context, id int64) (Customer, error) {
	return m.GetFunc(ctx, id)
}

// GetByUserID mocks the behavior of retrieving a customer by user id.
func (m *MockCustomerStorage) GetByUserID(ctx context.Context, userID string) (Customer, error) {
	return m.GetByUserIDFunc(ctx, userID)
}

// Update mocks the behavior of updating a customer by the repository.
func (m *MockCustomerStorage) Update(ctx context.Context, id int64, c Customer) (Customer, error) {
	return m.UpdateFunc(ctx, id, c)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// newTestAPIHandler provides an api handler backed by the given storages.
// A nil storage leaves the related endpoints out.
func newTestAPIHandler(books BookStorage, customers CustomerStorage) *APIHandler {
	var bs BookServiceProvider
	if books != nil {
		bs = NewBookService(zap.NewNop(), books)
	}
	var cs CustomerServiceProvider
	if customers != nil {
		cs = NewCustomerService(zap.NewNop(), customers)
	}
	return NewAPIHandler(
		zap.NewNop(),
		&Config{Service: BookstoreService, OpsEndpointsEnable: true},
		&Statistics{started: time.Now()},
		NewMockClocker(),
		NewMockUIDHandler("0", false),
		bs,
		cs,
	)
}

func notFoundBook(_ context.Context, _ string) (Book, error) {
	return Book{}, ErrNotFound
}

func notFoundCustomer(_ context.Context, _ string) (Customer, error) {
	return Customer{}, ErrNotFound
}

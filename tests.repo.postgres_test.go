package bookstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSQLMock(t *testing.T) (sqlmock.Sqlmock, BookStorage, CustomerStorage) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewPostgresBookStorage(zap.NewNop(), db), NewPostgresCustomerStorage(zap.NewNop(), db)
}

var bookRowColumns = []string{"isbn", "title", "author", "description", "genre", "price", "quantity"}

func TestPostgresBookStorage(t *testing.T) {
	ctx := context.Background()
	book := testBook("978-0321815736")

	t.Run("Create Book", func(t *testing.T) {
		mock, bs, _ := newTestSQLMock(t)
		mock.ExpectExec("INSERT INTO books").
			WithArgs(book.ISBN, book.Title, book.Author, book.Description, book.Genre, "19.99", book.Quantity).
			WillReturnResult(sqlmock.NewResult(0, 1))
		created, err := bs.Create(ctx, book)
		assert.NoError(t, err)
		assert.Equal(t, book.ISBN, created.ISBN)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create Existent Book", func(t *testing.T) {
		mock, bs, _ := newTestSQLMock(t)
		mock.ExpectExec("INSERT INTO books").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "books_pkey"})
		_, err := bs.Create(ctx, book)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		mock, bs, _ := newTestSQLMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT " + bookColumns + " FROM books WHERE isbn = $1")).
			WithArgs(book.ISBN).
			WillReturnRows(sqlmock.NewRows(bookRowColumns).
				AddRow(book.ISBN, book.Title, book.Author, book.Description, book.Genre, "19.99", 4))
		got, err := bs.Get(ctx, book.ISBN)
		assert.NoError(t, err)
		assert.Equal(t, book.Title, got.Title)
		assert.Equal(t, "19.99", got.Price.String())
		assert.Equal(t, 4, got.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		mock, bs, _ := newTestSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM books").WillReturnRows(sqlmock.NewRows(bookRowColumns))
		_, err := bs.Get(ctx, "0000000000")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update NonExistent Book", func(t *testing.T) {
		mock, bs, _ := newTestSQLMock(t)
		mock.ExpectQuery("UPDATE books SET").WillReturnRows(sqlmock.NewRows(bookRowColumns))
		_, err := bs.Update(ctx, "0000000000", book)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Storage Failure", func(t *testing.T) {
		mock, bs, _ := newTestSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM books").WillReturnError(errors.New("connection reset"))
		_, err := bs.Get(ctx, book.ISBN)
		assert.EqualError(t, err, "connection reset")
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

var customerRowColumns = []string{"customer_id", "user_id", "name", "phone", "address", "address2", "city", "state", "zipcode"}

func TestPostgresCustomerStorage(t *testing.T) {
	ctx := context.Background()
	c := testCustomer("a@b.io")

	t.Run("Create Customer", func(t *testing.T) {
		mock, _, cs := newTestSQLMock(t)
		mock.ExpectQuery("INSERT INTO customers (.+) RETURNING").
			WithArgs(c.UserID, c.Name, c.Phone, c.Address, nil, c.City, c.State, c.Zipcode).
			WillReturnRows(sqlmock.NewRows(customerRowColumns).
				AddRow(int64(5), c.UserID, c.Name, c.Phone, c.Address, nil, c.City, c.State, c.Zipcode))
		created, err := cs.Create(ctx, c)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), created.ID)
		assert.Nil(t, created.Address2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create Existent User ID", func(t *testing.T) {
		mock, _, cs := newTestSQLMock(t)
		mock.ExpectQuery("INSERT INTO customers").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "customers_user_id_key"})
		_, err := cs.Create(ctx, c)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Get By User ID", func(t *testing.T) {
		mock, _, cs := newTestSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM customers WHERE user_id").
			WithArgs(c.UserID).
			WillReturnRows(sqlmock.NewRows(customerRowColumns).
				AddRow(int64(5), c.UserID, c.Name, c.Phone, c.Address, "suite 4", c.City, c.State, c.Zipcode))
		got, err := cs.GetByUserID(ctx, c.UserID)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
		require.NotNil(t, got.Address2)
		assert.Equal(t, "suite 4", *got.Address2)
	})

	t.Run("Get NonExistent Customer", func(t *testing.T) {
		mock, _, cs := newTestSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM customers WHERE customer_id").
			WithArgs(int64(999999)).
			WillReturnRows(sqlmock.NewRows(customerRowColumns))
		_, err := cs.Get(ctx, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestMigrationsBooksColumns ensures the books columns are left as wide
// as the values the validation accepts after all migrations.
func TestMigrationsBooksColumns(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	var last string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			data, err := migrationsFS.ReadFile("migrations/" + e.Name())
			require.NoError(t, err)
			if strings.Contains(string(data), "books") {
				last = string(data)
			}
		}
	}
	assert.Contains(t, last, "price    TYPE NUMERIC,")
	assert.Contains(t, last, "quantity TYPE BIGINT")
}

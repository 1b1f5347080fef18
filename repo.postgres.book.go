package bookstore

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

const bookColumns = "isbn, title, author, description, genre, price, quantity"

type postgresBookStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewPostgresBookStorage provides an instance of postgres-based book storage.
func NewPostgresBookStorage(logger *zap.Logger, db *sql.DB) BookStorage {
	return &postgresBookStorage{
		logger: logger,
		db:     db,
	}
}

// Create inserts a new book record. The primary key on isbn rejects duplicates.
func (ps *postgresBookStorage) Create(ctx context.Context, book Book) (Book, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Book, error) {
		_, err := conn.ExecContext(ctx,
			"INSERT INTO books ("+bookColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
			book.ISBN, book.Title, book.Author, book.Description, book.Genre, book.Price, book.Quantity,
		)
		if err != nil {
			return Book{}, mapPostgresError(err)
		}
		return book, nil
	})
}

// Get retrieves a book record based on its ISBN.
func (ps *postgresBookStorage) Get(ctx context.Context, isbn string) (Book, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Book, error) {
		row := conn.QueryRowContext(ctx, "SELECT "+bookColumns+" FROM books WHERE isbn = $1", isbn)
		return scanBook(row)
	})
}

// Update overwrites all mutable fields of an existing book in one statement.
func (ps *postgresBookStorage) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Book, error) {
		row := conn.QueryRowContext(ctx,
			`UPDATE books SET title = $2, author = $3, description = $4, genre = $5, price = $6, quantity = $7
			WHERE isbn = $1 RETURNING `+bookColumns,
			isbn, book.Title, book.Author, book.Description, book.Genre, book.Price, book.Quantity,
		)
		return scanBook(row)
	})
}

func scanBook(row *sql.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ISBN, &b.Title, &b.Author, &b.Description, &b.Genre, &b.Price, &b.Quantity)
	if err != nil {
		return Book{}, mapPostgresError(err)
	}
	return b, nil
}

package bookstore

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

const customerColumns = "customer_id, user_id, name, phone, address, address2, city, state, zipcode"

type postgresCustomerStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewPostgresCustomerStorage provides an instance of postgres-based customer storage.
func NewPostgresCustomerStorage(logger *zap.Logger, db *sql.DB) CustomerStorage {
	return &postgresCustomerStorage{
		logger: logger,
		db:     db,
	}
}

// Create inserts a new customer and returns it with the generated id.
// The unique index on user_id rejects duplicates.
func (ps *postgresCustomerStorage) Create(ctx context.Context, c Customer) (Customer, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Customer, error) {
		row := conn.QueryRowContext(ctx,
			`INSERT INTO customers (user_id, name, phone, address, address2, city, state, zipcode)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+customerColumns,
			c.UserID, c.Name, c.Phone, c.Address, c.Address2, c.City, c.State, c.Zipcode,
		)
		return scanCustomer(row)
	})
}

// Get retrieves a customer record based on its id.
func (ps *postgresCustomerStorage) Get(ctx context.Context, id int64) (Customer, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Customer, error) {
		row := conn.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE customer_id = $1", id)
		return scanCustomer(row)
	})
}

// GetByUserID retrieves a customer record based on its user id.
func (ps *postgresCustomerStorage) GetByUserID(ctx context.Context, userID string) (Customer, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Customer, error) {
		row := conn.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE user_id = $1", userID)
		return scanCustomer(row)
	})
}

// Update overwrites all mutable fields of an existing customer in one statement.
func (ps *postgresCustomerStorage) Update(ctx context.Context, id int64, c Customer) (Customer, error) {
	return withConn(ctx, ps.db, func(conn *sql.Conn) (Customer, error) {
		row := conn.QueryRowContext(ctx,
			`UPDATE customers SET user_id = $2, name = $3, phone = $4, address = $5, address2 = $6,
			city = $7, state = $8, zipcode = $9 WHERE customer_id = $1 RETURNING `+customerColumns,
			id, c.UserID, c.Name, c.Phone, c.Address, c.Address2, c.City, c.State, c.Zipcode,
		)
		return scanCustomer(row)
	})
}

func scanCustomer(row *sql.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Address, &c.Address2, &c.City, &c.State, &c.Zipcode)
	if err != nil {
		return Customer{}, mapPostgresError(err)
	}
	return c, nil
}

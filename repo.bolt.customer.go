package bookstore

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltCustomerStorage struct {
	logger *zap.Logger
	client *bolt.DB
}

// NewBoltCustomerStorage provides an instance of bolt-based customer storage.
func NewBoltCustomerStorage(logger *zap.Logger, client *bolt.DB) CustomerStorage {
	return &boltCustomerStorage{
		logger: logger,
		client: client,
	}
}

// Create assigns the next bucket sequence as id and stores the customer
// with its user id index entry in the same transaction.
func (bs *boltCustomerStorage) Create(_ context.Context, c Customer) (Customer, error) {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		b, idx := tx.Bucket(CustomersBucket), tx.Bucket(CustomerUserIDsBucket)
		if idx.Get([]byte(c.UserID)) != nil {
			return ErrConflict
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		c.ID = int64(seq)
		customerBytes, err := json.Marshal(c)
		if err != nil {
			return err
		}
		key := itob(c.ID)
		if err = b.Put(key, customerBytes); err != nil {
			return err
		}
		return idx.Put([]byte(c.UserID), key)
	})
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Get retrieves a customer record based on its id.
func (bs *boltCustomerStorage) Get(_ context.Context, id int64) (Customer, error) {
	var c Customer
	err := bs.client.View(func(tx *bolt.Tx) error {
		result := tx.Bucket(CustomersBucket).Get(itob(id))
		if result == nil {
			return ErrNotFound
		}
		return json.Unmarshal(result, &c)
	})
	return c, err
}

// GetByUserID retrieves a customer record through the user id index.
func (bs *boltCustomerStorage) GetByUserID(_ context.Context, userID string) (Customer, error) {
	var c Customer
	err := bs.client.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(CustomerUserIDsBucket).Get([]byte(userID))
		if key == nil {
			return ErrNotFound
		}
		result := tx.Bucket(CustomersBucket).Get(key)
		if result == nil {
			return ErrNotFound
		}
		return json.Unmarshal(result, &c)
	})
	return c, err
}

// Update replaces an existing customer record and moves
// its index entry when the user id changes.
func (bs *boltCustomerStorage) Update(_ context.Context, id int64, c Customer) (Customer, error) {
	c.ID = id
	customerBytes, err := json.Marshal(c)
	if err != nil {
		return Customer{}, err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		b, idx := tx.Bucket(CustomersBucket), tx.Bucket(CustomerUserIDsBucket)
		key := itob(id)
		current := b.Get(key)
		if current == nil {
			return ErrNotFound
		}
		var old Customer
		if err := json.Unmarshal(current, &old); err != nil {
			return err
		}
		if old.UserID != c.UserID {
			if owner := idx.Get([]byte(c.UserID)); owner != nil && !bytes.Equal(owner, key) {
				return ErrConflict
			}
			if err := idx.Delete([]byte(old.UserID)); err != nil {
				return err
			}
			if err := idx.Put([]byte(c.UserID), key); err != nil {
				return err
			}
		}
		return b.Put(key, customerBytes)
	})
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

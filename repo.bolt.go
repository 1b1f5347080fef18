package bookstore

import (
	"encoding/binary"
	"fmt"

	"github.com/boltdb/bolt"
)

// Buckets holding the records.
var (
	BooksBucket           = []byte("books")
	CustomersBucket       = []byte("customers")
	CustomerUserIDsBucket = []byte("customers.userids")
)

// GetBoltDBClient setup the database and the buckets then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.Storage.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.Storage.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{BooksBucket, CustomersBucket, CustomerUserIDsBucket} {
			if _, errB := tx.CreateBucketIfNotExists(name); errB != nil {
				return fmt.Errorf("failed to create %s bucket: %v", name, errB)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up buckets: %v", err)
	}
	return db, nil
}

// itob encodes an id as a big endian key so records sort by id.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

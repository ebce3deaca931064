// Package history keeps a local log of extraction runs in a bolt database,
// so repeated runs over the same statement folder can be audited later.
package history

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var bucketName = []byte("runs")

// Run is one recorded extraction.
type Run struct {
	ID         uint64    `json:"id"`
	Source     string    `json:"source"`
	Bank       string    `json:"bank"`
	Count      int       `json:"transactions"`
	Mismatches int       `json:"mismatches"`
	Gaps       int       `json:"gaps"`
	At         time.Time `json:"at"`
}

// Log is an open run database.
type Log struct {
	db *bolt.DB
}

// Open opens or creates the run database at path.
func Open(path string) (*Log, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history db %q: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends a run to the log. The run's ID and timestamp are assigned
// here.
func (l *Log) Record(run Run) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		run.ID = id
		if run.At.IsZero() {
			run.At = time.Now()
		}

		var val bytes.Buffer
		if err := gob.NewEncoder(&val).Encode(run); err != nil {
			return fmt.Errorf("unable to encode run: %w", err)
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, id)
		return b.Put(key, val.Bytes())
	})
}

// Runs returns every recorded run in insertion order.
func (l *Log) Runs() ([]Run, error) {
	var runs []Run
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var run Run
			if err := gob.NewDecoder(bytes.NewBuffer(v)).Decode(&run); err != nil {
				return fmt.Errorf("unable to decode run of length %d: %w", len(v), err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

package widecolumn

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/boltdb/bolt"
	"github.com/goccy/go-json"
)

// BoltBackend 基于 boltdb 的有序存储，每张表对应一个 bucket，值为列的 JSON
type BoltBackend struct {
	db *bolt.DB
}

// OpenBolt 打开 (或创建) bolt 数据文件
func OpenBolt(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file %s: %w", path, err)
	}
	log.Info("Bolt wide-column store opened", "path", path)
	return &BoltBackend{db: db}, nil
}

func NewBoltBackend(db *bolt.DB) *BoltBackend {
	return &BoltBackend{db: db}
}

func (s *BoltBackend) Close() error {
	return s.db.Close()
}

// Put 写入一行，已存在的列被覆盖，其余列保留
func (s *BoltBackend) Put(_ context.Context, table, key string, cols map[string]string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return err
		}
		return putRow(bk, key, cols)
	})
}

// PutBatch 在同一个事务内写入多行
func (s *BoltBackend) PutBatch(_ context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err = putRow(bk, row.Key, row.Columns); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltBackend) Get(_ context.Context, table, key string) (map[string]string, error) {
	var cols map[string]string
	err := s.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(table))
		if bk == nil {
			return nil
		}
		got := bk.Get([]byte(key))
		if got == nil {
			return nil
		}
		return json.Unmarshal(got, &cols)
	})
	return cols, err
}

func (s *BoltBackend) Scan(_ context.Context, table string, r Range) ([]Row, error) {
	var rows []Row
	err := s.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(table))
		if bk == nil {
			return nil
		}
		c := bk.Cursor()
		lower, upper := r.lower(), r.upper()

		var k, v []byte
		if !r.Reverse {
			if lower == "" {
				k, v = c.First()
			} else {
				k, v = c.Seek([]byte(lower))
			}
		} else {
			if upper == "" {
				k, v = c.Last()
			} else if k, v = c.Seek([]byte(upper)); k == nil {
				k, v = c.Last()
			} else {
				k, v = c.Prev()
			}
		}

		for ; k != nil; k, v = step(c, r.Reverse) {
			key := string(k)
			if !r.contains(key) {
				break
			}
			var cols map[string]string
			if err := json.Unmarshal(v, &cols); err != nil {
				return err
			}
			rows = append(rows, Row{Key: key, Columns: cols})
			if r.Limit > 0 && len(rows) >= r.Limit {
				break
			}
		}
		return nil
	})
	return rows, err
}

func (s *BoltBackend) Delete(_ context.Context, table, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(table))
		if bk == nil {
			return nil
		}
		return bk.Delete([]byte(key))
	})
}

func (s *BoltBackend) CreateTable(_ context.Context, table string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(table))
		return err
	})
}

func (s *BoltBackend) DropTable(_ context.Context, table string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(table))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func putRow(bk *bolt.Bucket, key string, cols map[string]string) error {
	merged := make(map[string]string, len(cols))
	if got := bk.Get([]byte(key)); got != nil {
		if err := json.Unmarshal(got, &merged); err != nil {
			return err
		}
	}
	for k, v := range cols {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return bk.Put([]byte(key), data)
}

func step(c *bolt.Cursor, reverse bool) ([]byte, []byte) {
	if reverse {
		return c.Prev()
	}
	return c.Next()
}

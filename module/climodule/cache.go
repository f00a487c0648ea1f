// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketDescriptions = "descriptions"

// Cache stores the XML descriptions of module executables, so that
// executables that did not change are not run again with --xml.
// Entries are keyed by path and are valid while the size and the
// modification time of the executable are unchanged.
type Cache struct {
	db *bolt.DB
}

type cacheEntry struct {
	Size    int64  `json:"size"`
	ModTime int64  `json:"modTime"`
	XML     string `json:"xml"`
}

// OpenCache opens the cache database at the given path, creating it
// and its directory if needed.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDescriptions))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the description cached for the executable with the
// given path and file info, if it is still valid.
func (c *Cache) Get(path string, info os.FileInfo) ([]byte, bool) {
	var entry cacheEntry
	found := false
	c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketDescriptions)).Get([]byte(path))
		if v != nil && json.Unmarshal(v, &entry) == nil {
			found = true
		}
		return nil
	})
	if !found || entry.Size != info.Size() || entry.ModTime != info.ModTime().UnixNano() {
		return nil, false
	}
	return []byte(entry.XML), true
}

// Put stores the description of the executable with the given path and file info.
func (c *Cache) Put(path string, info os.FileInfo, xml []byte) error {
	v, err := json.Marshal(cacheEntry{Size: info.Size(), ModTime: info.ModTime().UnixNano(), XML: string(xml)})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDescriptions)).Put([]byte(path), v)
	})
}

// Delete removes the description of the executable with the given path.
func (c *Cache) Delete(path string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDescriptions)).Delete([]byte(path))
	})
}

// Len returns the number of cached descriptions.
func (c *Cache) Len() int {
	n := 0
	c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketDescriptions)).Stats().KeyN
		return nil
	})
	return n
}

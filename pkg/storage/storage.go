// Package storage abstracts where document snapshots land.
//
// Two drivers exist: "local" (a directory on disk, always available) and "s3"
// (any S3-compatible store — AWS, MinIO, R2 — booted only when S3_BUCKET is
// configured).
//
//	storage.Connect()
//	storage.Use("s3").Put("backups/database-20240101.json", raw)
package storage

import (
	"fmt"
	"sync"

	"github.com/powerpointbreak/storebot/config"
	"github.com/powerpointbreak/storebot/pkg/logger"
)

// Disk is the snapshot destination interface.
type Disk interface {
	// Put writes content at path, creating parents as needed.
	Put(path string, content []byte) error

	// Get returns the content at path.
	Get(path string) ([]byte, error)

	// Exists reports whether path holds an object.
	Exists(path string) bool

	// Delete removes path. Deleting a missing path is not an error.
	Delete(path string) error

	// List returns the object names directly under prefix.
	List(prefix string) ([]string, error)
}

var (
	mu    sync.RWMutex
	disks = map[string]Disk{}
)

// Connect boots the configured disks. Call once at startup.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	disks["local"] = newLocalDisk(".")

	if config.S3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk, or an error if it was not booted.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Register plugs in a custom Disk (used by tests).
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

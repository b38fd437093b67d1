// Package storage provides object storage for stock data bundles.
//
// This package defines a Storage interface with implementations for:
// - LocalStorage: File system storage for development
// - S3Storage: S3-compatible object storage for production
//
// The request path only reads bundles; Put and Exists exist for the catalog
// seeding tooling and tests.
package storage

import (
	"context"
	"io"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for bundle storage operations.
//
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Get retrieves the data at the specified key.
	// Returns the data as an io.ReadCloser (caller must close), object
	// metadata, and an error. Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Put stores data at the specified key. Returns ErrKeyExists if the key
	// already exists and overwrite is disabled in opts.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object. Bundles are JSON.
	ContentType string

	// Overwrite allows replacing an existing object at the same key.
	Overwrite bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string    // Object key/path
	Size         int64     // Size in bytes
	ContentType  string    // MIME type
	LastModified time.Time // Last modification time
	ETag         string    // Entity tag (if available)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where bundles are stored.
	// Example: "./storage" or "/var/lib/profitscout/bundles"
	BasePath string
}

// S3Config holds configuration for S3-compatible storage.
type S3Config struct {
	// Endpoint is the storage service endpoint. Empty selects the default
	// AWS endpoint for the region; set it to use R2 or another
	// S3-compatible service.
	Endpoint string

	// Region is the region to use. Default: "auto".
	Region string

	// AccessKeyID and SecretAccessKey authenticate API calls.
	AccessKeyID     string
	SecretAccessKey string

	// BucketName is the bucket holding bundle objects.
	BucketName string
}

// =============================================================================
// Provider Constants
// =============================================================================

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderS3 identifies the S3-compatible storage provider.
	ProviderS3 = "s3"
)

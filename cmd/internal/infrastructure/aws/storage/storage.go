package storage

import "context"

const (
	PathDocuments = "documents/"
	PathBiddings  = "biddings/"
)

// FileStorage keeps uploaded files under opaque keys. Delete is idempotent.
type FileStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL is the address clients download the object from.
	URL(key string) string
}

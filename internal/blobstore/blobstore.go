// Package blobstore is the blob store capability: raw file bytes addressed
// by an opaque reference.
package blobstore

import "context"

// BlobStore uploads and deletes raw payloads. The returned reference is
// opaque to callers; only the store can interpret it. The encrypted result
// reports whether the backend applied its at-rest encryption guarantee to
// the object.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType string, ownerID string) (ref string, encrypted bool, err error)
	Delete(ctx context.Context, ref string) error
}

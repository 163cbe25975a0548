// Package metastore is the metadata store capability: CRUD for document
// records scoped to an owner.
package metastore

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/docvault/internal/models"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different owner. Callers should use errors.Is.
var ErrNotFound = errors.New("document not found")

// Repository stores document metadata. Implementations must never return a
// partially persisted record: a document either exists with all its fields
// or is absent.
type Repository interface {
	// Create persists the record and returns the assigned id. The record's
	// ID field is ignored on input.
	Create(ctx context.Context, doc *models.VaultDocument) (string, error)

	// List returns all records owned by ownerID. Order is unspecified.
	List(ctx context.Context, ownerID string) ([]*models.VaultDocument, error)

	// Delete removes the record with the given id if it belongs to ownerID.
	// Returns ErrNotFound otherwise.
	Delete(ctx context.Context, ownerID string, id string) error
}
